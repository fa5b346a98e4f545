package memory

import (
	"context"
	"testing"
	"time"

	"cfb-pickem-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGameRepository_SetResultIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()
	require.NoError(t, repo.UpsertLines(ctx, []*models.Game{
		{Season: 2024, Week: 1, Favorite: "Alabama", Underdog: "Auburn", Line: -7.5},
	}))
	games, err := repo.FindByWeek(ctx, 2024, 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	id := games[0].ID
	require.False(t, id.IsZero())

	written, err := repo.SetResultIfAbsent(ctx, id, &models.GameResult{FavoriteScore: 30, UnderdogScore: 20, SpreadWinner: "Alabama"})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = repo.SetResultIfAbsent(ctx, id, &models.GameResult{FavoriteScore: 0, UnderdogScore: 50})
	require.NoError(t, err)
	assert.False(t, written, "first result wins")

	written, err = repo.SetResultIfAbsent(ctx, primitive.NewObjectID(), &models.GameResult{})
	require.NoError(t, err)
	assert.False(t, written)

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.Result.FavoriteScore)

	stored.Result.FavoriteScore = 99
	again, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, again.Result.FavoriteScore, "reads are copies")

	require.NoError(t, repo.ReplaceResult(ctx, id, &models.GameResult{FavoriteScore: 31, UnderdogScore: 20}))
	again, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 31, again.Result.FavoriteScore)

	assert.ErrorIs(t, repo.ReplaceResult(ctx, primitive.NewObjectID(), &models.GameResult{}), models.ErrGameNotFound)
}

func TestGameRepository_UpsertLines(t *testing.T) {
	ctx := context.Background()
	repo := NewGameRepository()
	kickoff := time.Date(2024, 9, 7, 16, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertLines(ctx, []*models.Game{
		{Season: 2024, Week: 1, Favorite: "Texas", Underdog: "Rice", Line: -21, Kickoff: kickoff},
	}))
	games, err := repo.FindByWeek(ctx, 2024, 1)
	require.NoError(t, err)
	_, err = repo.SetResultIfAbsent(ctx, games[0].ID, &models.GameResult{FavoriteScore: 42, UnderdogScore: 10})
	require.NoError(t, err)

	require.NoError(t, repo.UpsertLines(ctx, []*models.Game{
		{Season: 2024, Week: 1, Favorite: "Texas", Underdog: "Rice", Line: -24.5, Kickoff: kickoff.Add(time.Hour)},
		{Season: 2024, Week: 1, Favorite: "Georgia", Underdog: "Clemson", Line: -13, Kickoff: kickoff},
	}))

	games, err = repo.FindByWeek(ctx, 2024, 1)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Georgia", games[0].Favorite, "ordered by kickoff")
	assert.Equal(t, -24.5, games[1].Line)
	require.NotNil(t, games[1].Result)
	assert.Equal(t, 42, games[1].Result.FavoriteScore)
}

func TestPickRepository_ReplaceUserWeekPicks(t *testing.T) {
	ctx := context.Background()
	repo := NewPickRepository()
	alice, bob := primitive.NewObjectID(), primitive.NewObjectID()
	g1, g2 := primitive.NewObjectID(), primitive.NewObjectID()

	require.NoError(t, repo.ReplaceUserWeekPicks(ctx, alice, 2024, 1, []*models.Pick{{GameID: g1, Team: "Alabama"}, {GameID: g2, Team: "Rice"}}))
	require.NoError(t, repo.ReplaceUserWeekPicks(ctx, bob, 2024, 1, []*models.Pick{{GameID: g1, Team: "Auburn"}}))
	require.NoError(t, repo.ReplaceUserWeekPicks(ctx, alice, 2024, 2, []*models.Pick{{GameID: g1, Team: "Alabama"}}))

	require.NoError(t, repo.ReplaceUserWeekPicks(ctx, alice, 2024, 1, []*models.Pick{{GameID: g2, Team: "Texas"}}))

	week1, err := repo.FindByWeek(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Len(t, week1, 2)

	mine, err := repo.FindByUserWeek(ctx, alice, 2024, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Texas", mine[0].Team)
	assert.Equal(t, 1, mine[0].Week)

	season, err := repo.FindByUserSeason(ctx, alice, 2024)
	require.NoError(t, err)
	assert.Len(t, season, 2)
}

func TestUserRepository_UpsertBySubject(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	first, err := repo.UpsertBySubject(ctx, &models.User{Subject: "auth0|1", Email: "a@example.com", DisplayName: "A"})
	require.NoError(t, err)
	second, err := repo.UpsertBySubject(ctx, &models.User{Subject: "auth0|1", Email: "a@example.com", DisplayName: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	found, err := repo.FindByIDs(ctx, []primitive.ObjectID{first.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Alice", found[0].DisplayName)

	_, err = repo.FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestTeamAliasRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamAliasRepository(models.NewTeamAlias("USF", "South Florida"))

	require.NoError(t, repo.Upsert(ctx, models.NewTeamAlias("Bama", "Alabama")))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, repo.Loads)

	require.NoError(t, repo.Delete(ctx, "usf"))
	assert.ErrorIs(t, repo.Delete(ctx, "usf"), models.ErrAliasNotFound)
}
