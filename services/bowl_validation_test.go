package services

import (
	"errors"
	"testing"

	"cfb-pickem-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateBowlSubmission(t *testing.T) {
	games := []*models.BowlGame{
		{ID: primitive.NewObjectID(), GameNumber: 1, BowlName: "Rose Bowl", Favorite: "Oregon", Underdog: "Ohio State", Line: -2.5},
		{ID: primitive.NewObjectID(), GameNumber: 2, BowlName: "Sugar Bowl", Favorite: "Georgia", Underdog: "Notre Dame", Line: -1},
		{ID: primitive.NewObjectID(), GameNumber: 3, BowlName: "Peach Bowl", Favorite: "Texas", Underdog: "Arizona State", Line: -13.5},
	}

	entry := func(points ...int) []BowlPickInput {
		picks := make([]BowlPickInput, len(points))
		for i, p := range points {
			picks[i] = BowlPickInput{
				BowlGameID:       games[i].ID,
				SpreadPick:       games[i].Favorite,
				ConfidencePoints: p,
				OutrightPick:     games[i].Underdog,
			}
		}
		return picks
	}

	tests := []struct {
		name        string
		games       []*models.BowlGame
		picks       func() []BowlPickInput
		wantErr     string
		expectedSum int
		actualSum   int
	}{
		{
			name:  "each value once",
			games: games,
			picks: func() []BowlPickInput { return entry(3, 1, 2) },
		},
		{
			name:        "repeated value",
			games:       games,
			picks:       func() []BowlPickInput { return entry(1, 2, 2) },
			wantErr:     "confidence 2 is used for both Sugar Bowl and Peach Bowl",
			expectedSum: 6,
			actualSum:   5,
		},
		{
			name:        "value above slate size",
			games:       games,
			picks:       func() []BowlPickInput { return entry(1, 2, 4) },
			wantErr:     "out of range",
			expectedSum: 6,
			actualSum:   7,
		},
		{
			name:        "zero confidence",
			games:       games,
			picks:       func() []BowlPickInput { return entry(0, 2, 3) },
			wantErr:     "out of range",
			expectedSum: 6,
			actualSum:   5,
		},
		{
			name:        "missing a game",
			games:       games,
			picks:       func() []BowlPickInput { return entry(1, 2) },
			wantErr:     "expected 3 bowl picks, got 2",
			expectedSum: 6,
			actualSum:   3,
		},
		{
			name:  "spread pick not in game",
			games: games,
			picks: func() []BowlPickInput {
				p := entry(1, 2, 3)
				p[1].SpreadPick = "Alabama"
				return p
			},
			wantErr:     `spread pick "Alabama" is not playing`,
			expectedSum: 6,
			actualSum:   6,
		},
		{
			name:  "missing outright pick",
			games: games,
			picks: func() []BowlPickInput {
				p := entry(1, 2, 3)
				p[2].OutrightPick = " "
				return p
			},
			wantErr:     "Peach Bowl is missing an outright winner pick",
			expectedSum: 6,
			actualSum:   6,
		},
		{
			name:  "unknown game",
			games: games,
			picks: func() []BowlPickInput {
				p := entry(1, 2, 3)
				p[0].BowlGameID = primitive.NewObjectID()
				return p
			},
			wantErr:     "is not part of this season's slate",
			expectedSum: 6,
			actualSum:   6,
		},
		{
			name:  "same game twice",
			games: games,
			picks: func() []BowlPickInput {
				p := entry(1, 2, 3)
				p[1].BowlGameID = games[0].ID
				p[1].SpreadPick = games[0].Favorite
				p[1].OutrightPick = games[0].Favorite
				return p
			},
			wantErr:     "Rose Bowl was picked more than once",
			expectedSum: 6,
			actualSum:   6,
		},
		{
			name:    "empty slate",
			games:   nil,
			picks:   func() []BowlPickInput { return nil },
			wantErr: "no bowl games",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBowlSubmission(tt.games, tt.picks())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var se *SubmissionError
			require.True(t, errors.As(err, &se), "want a SubmissionError, got %v", err)
			assert.Contains(t, se.Reason, tt.wantErr)
			assert.Equal(t, tt.expectedSum, se.ExpectedSum)
			assert.Equal(t, tt.actualSum, se.ActualSum)
		})
	}
}

func TestValidateBowlSubmission_ExpectedSumFollowsSlateSize(t *testing.T) {
	for _, n := range []int{1, 5, 41} {
		games := make([]*models.BowlGame, n)
		picks := make([]BowlPickInput, n)
		for i := range games {
			games[i] = &models.BowlGame{ID: primitive.NewObjectID(), GameNumber: i + 1, BowlName: "Bowl", Favorite: "A", Underdog: "B"}
			picks[i] = BowlPickInput{BowlGameID: games[i].ID, SpreadPick: "A", OutrightPick: "B", ConfidencePoints: n - i}
		}
		assert.NoError(t, ValidateBowlSubmission(games, picks), "n=%d", n)

		if n == 1 {
			continue
		}
		picks[0].ConfidencePoints = 1
		var se *SubmissionError
		require.ErrorAs(t, ValidateBowlSubmission(games, picks), &se)
		assert.Equal(t, n*(n+1)/2, se.ExpectedSum)
	}
}
