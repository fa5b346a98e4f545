package services

import (
	"context"
	"testing"
	"time"

	"cfb-pickem-go/memory"
	"cfb-pickem-go/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSeason = 2024

var (
	pastKickoff   = time.Date(2024, 9, 7, 19, 30, 0, 0, time.UTC)
	futureKickoff = time.Now().Add(72 * time.Hour)
)

// fixture wires services over in-memory repositories
type fixture struct {
	games      *memory.GameRepository
	bowlGames  *memory.BowlGameRepository
	picks      *memory.PickRepository
	bowlPicks  *memory.BowlPickRepository
	users      *memory.UserRepository
	aliases    *memory.TeamAliasRepository
	normalizer *TeamNameNormalizer
}

func newFixture(aliases ...*models.TeamAlias) *fixture {
	f := &fixture{
		games:     memory.NewGameRepository(),
		bowlGames: memory.NewBowlGameRepository(),
		picks:     memory.NewPickRepository(),
		bowlPicks: memory.NewBowlPickRepository(),
		users:     memory.NewUserRepository(),
		aliases:   memory.NewTeamAliasRepository(aliases...),
	}
	f.normalizer = NewTeamNameNormalizer(f.aliases)
	return f
}

func (f *fixture) addGame(t *testing.T, week int, favorite, underdog string, line float64, kickoff time.Time) *models.Game {
	t.Helper()
	game := &models.Game{
		ID:       primitive.NewObjectID(),
		Season:   testSeason,
		Week:     week,
		Favorite: favorite,
		Underdog: underdog,
		Line:     line,
		Kickoff:  kickoff,
	}
	require.NoError(t, f.games.UpsertLines(context.Background(), []*models.Game{game}))
	return game
}

func (f *fixture) setResult(t *testing.T, game *models.Game, favoriteScore, underdogScore int) {
	t.Helper()
	winner, isPush := ResolveSpread(game.Favorite, game.Underdog, game.Line, favoriteScore, underdogScore)
	written, err := f.games.SetResultIfAbsent(context.Background(), game.ID, &models.GameResult{
		FavoriteScore: favoriteScore,
		UnderdogScore: underdogScore,
		SpreadWinner:  winner,
		IsPush:        isPush,
	})
	require.NoError(t, err)
	require.True(t, written)
}

func (f *fixture) addBowlGame(t *testing.T, number int, name, favorite, underdog string, line float64, kickoff time.Time) *models.BowlGame {
	t.Helper()
	game := &models.BowlGame{
		ID:         primitive.NewObjectID(),
		Season:     testSeason,
		GameNumber: number,
		BowlName:   name,
		Favorite:   favorite,
		Underdog:   underdog,
		Line:       line,
		Kickoff:    kickoff,
	}
	require.NoError(t, f.bowlGames.UpsertLines(context.Background(), []*models.BowlGame{game}))
	return game
}

func (f *fixture) setBowlResult(t *testing.T, game *models.BowlGame, favoriteScore, underdogScore int) {
	t.Helper()
	winner, isPush := ResolveSpread(game.Favorite, game.Underdog, game.Line, favoriteScore, underdogScore)
	written, err := f.bowlGames.SetResultIfAbsent(context.Background(), game.ID, &models.BowlGameResult{
		FavoriteScore:  favoriteScore,
		UnderdogScore:  underdogScore,
		SpreadWinner:   winner,
		IsPush:         isPush,
		OutrightWinner: ResolveOutright(game.Favorite, game.Underdog, favoriteScore, underdogScore),
	})
	require.NoError(t, err)
	require.True(t, written)
}

func (f *fixture) addUser(t *testing.T, subject, name string) *models.User {
	t.Helper()
	user, err := f.users.UpsertBySubject(context.Background(), &models.User{
		Subject:     subject,
		Email:       subject + "@example.com",
		DisplayName: name,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) addPicks(t *testing.T, user *models.User, week int, picks map[*models.Game]string) {
	t.Helper()
	var rows []*models.Pick
	for game, team := range picks {
		rows = append(rows, &models.Pick{GameID: game.ID, Team: team})
	}
	require.NoError(t, f.picks.ReplaceUserWeekPicks(context.Background(), user.ID, testSeason, week, rows))
}
