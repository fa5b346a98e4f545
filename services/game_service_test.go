package services

import (
	"context"
	"testing"

	"cfb-pickem-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameService_UpsertWeekGames(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes team names and sorts by kickoff", func(t *testing.T) {
		f := newFixture(models.NewTeamAlias("Bama", "Alabama"), models.NewTeamAlias("LSU", "Louisiana State"))
		s := NewGameService(f.games, f.bowlGames, f.normalizer)

		games, err := s.UpsertWeekGames(ctx, testSeason, 10, []GameLineInput{
			{Favorite: "Bama", Underdog: "LSU", Line: -3, Kickoff: saturdayNight},
			{Favorite: "Georgia", Underdog: "Florida", Line: -14.5, Kickoff: saturdayNoon},
		})
		require.NoError(t, err)
		require.Len(t, games, 2)
		assert.Equal(t, "Georgia", games[0].Favorite)
		assert.Equal(t, "Alabama", games[1].Favorite)
		assert.Equal(t, "Louisiana State", games[1].Underdog)
	})

	t.Run("rejects bad lines", func(t *testing.T) {
		f := newFixture()
		s := NewGameService(f.games, f.bowlGames, f.normalizer)

		tests := []struct {
			name    string
			week    int
			lines   []GameLineInput
			wantErr string
		}{
			{"positive line", 10, []GameLineInput{{Favorite: "Texas", Underdog: "Rice", Line: 3}}, "zero or negative"},
			{"same team twice", 10, []GameLineInput{{Favorite: "Texas", Underdog: "texas", Line: -3}}, "different teams"},
			{"missing underdog", 10, []GameLineInput{{Favorite: "Texas", Line: -3}}, "underdog team name is required"},
			{"duplicate matchup", 10, []GameLineInput{
				{Favorite: "Texas", Underdog: "Rice", Line: -3},
				{Favorite: "Texas", Underdog: "Rice", Line: -4},
			}, "listed more than once"},
			{"week out of range", 0, []GameLineInput{{Favorite: "Texas", Underdog: "Rice", Line: -3}}, "week must be between"},
			{"nothing uploaded", 10, nil, "no games"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := s.UpsertWeekGames(ctx, testSeason, tt.week, tt.lines)
				var se *SubmissionError
				require.ErrorAs(t, err, &se)
				assert.Contains(t, se.Reason, tt.wantErr)
			})
		}

		games, err := s.GetWeekGames(ctx, testSeason, 10)
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("re-upload moves the line and keeps the result", func(t *testing.T) {
		f := newFixture()
		s := NewGameService(f.games, f.bowlGames, f.normalizer)

		games, err := s.UpsertWeekGames(ctx, testSeason, 10, []GameLineInput{
			{Favorite: "Texas", Underdog: "Rice", Line: -21, Kickoff: saturdayNoon},
		})
		require.NoError(t, err)
		require.Len(t, games, 1)
		f.setResult(t, games[0], 42, 10)

		games, err = s.UpsertWeekGames(ctx, testSeason, 10, []GameLineInput{
			{Favorite: "Texas", Underdog: "Rice", Line: -24.5, Kickoff: saturdayNoon},
		})
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, -24.5, games[0].Line)
		require.NotNil(t, games[0].Result)
		assert.Equal(t, 42, games[0].Result.FavoriteScore)
	})
}

func TestGameService_UpsertBowlGames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(models.NewTeamAlias("tOSU", "Ohio State"))
	s := NewGameService(f.games, f.bowlGames, f.normalizer)

	games, err := s.UpsertBowlGames(ctx, testSeason, []BowlLineInput{
		{GameNumber: 2, BowlName: "Sugar Bowl", Favorite: "Georgia", Underdog: "Notre Dame", Line: -1, Kickoff: saturdayNight},
		{GameNumber: 1, BowlName: "Rose Bowl", Favorite: "Oregon", Underdog: "tOSU", Line: -2.5, Kickoff: saturdayNoon},
	})
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 1, games[0].GameNumber)
	assert.Equal(t, "Ohio State", games[0].Underdog)

	_, err = s.UpsertBowlGames(ctx, testSeason, []BowlLineInput{
		{GameNumber: 3, BowlName: "Peach Bowl", Favorite: "Texas", Underdog: "Arizona State", Line: -13.5},
		{GameNumber: 3, BowlName: "Fiesta Bowl", Favorite: "Penn State", Underdog: "Boise State", Line: -10.5},
	})
	assert.True(t, IsSubmissionError(err))

	_, err = s.UpsertBowlGames(ctx, testSeason, []BowlLineInput{
		{GameNumber: 3, Favorite: "Texas", Underdog: "Arizona State", Line: -13.5},
	})
	assert.True(t, IsSubmissionError(err))
}

func TestGameService_ReuploadAfterAlias(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	s := NewGameService(f.games, f.bowlGames, f.normalizer)

	games, err := s.UpsertWeekGames(ctx, testSeason, 2, []GameLineInput{
		{Favorite: "Alabama", Underdog: "USF", Line: -20, Kickoff: saturdayNoon},
	})
	require.NoError(t, err)
	require.Len(t, games, 1)
	_, err = s.UpsertBowlGames(ctx, testSeason, []BowlLineInput{
		{GameNumber: 1, BowlName: "Rose Bowl", Favorite: "Oregon", Underdog: "tOSU", Line: -2.5, Kickoff: saturdayNight},
	})
	require.NoError(t, err)

	_, err = f.normalizer.SetAlias(ctx, "USF", "South Florida")
	require.NoError(t, err)
	_, err = f.normalizer.SetAlias(ctx, "tOSU", "Ohio State")
	require.NoError(t, err)

	reuploaded, err := s.UpsertWeekGames(ctx, testSeason, 2, []GameLineInput{
		{Favorite: "Alabama", Underdog: "South Florida", Line: -21.5, Kickoff: saturdayNoon},
	})
	require.NoError(t, err)
	require.Len(t, reuploaded, 1)
	assert.Equal(t, games[0].ID, reuploaded[0].ID)
	assert.Equal(t, "USF", reuploaded[0].Underdog)
	assert.Equal(t, -21.5, reuploaded[0].Line)

	bowls, err := s.UpsertBowlGames(ctx, testSeason, []BowlLineInput{
		{GameNumber: 1, BowlName: "Rose Bowl", Favorite: "Oregon", Underdog: "Ohio State", Line: -3, Kickoff: saturdayNight},
	})
	require.NoError(t, err)
	require.Len(t, bowls, 1)
	assert.Equal(t, "tOSU", bowls[0].Underdog)
	assert.Equal(t, -3.0, bowls[0].Line)
}
