package services

import (
	"strings"

	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BowlPickInput is one line of a bowl entry as submitted
type BowlPickInput struct {
	BowlGameID       primitive.ObjectID `json:"bowlGameId"`
	SpreadPick       string             `json:"spreadPick"`
	ConfidencePoints int                `json:"confidencePoints"`
	OutrightPick     string             `json:"outrightPick"`
}

// ValidateBowlSubmission checks a complete bowl entry against the season's
// slate of N games: one pick per game, both picks naming a team in that
// game, and confidence values that are exactly 1..N. The expected total
// N(N+1)/2 comes from the slate size, never a constant. Team names must
// already be canonical.
func ValidateBowlSubmission(games []*models.BowlGame, picks []BowlPickInput) error {
	n := len(games)
	expected := models.ExpectedConfidenceSum(n)
	actual := 0
	for _, p := range picks {
		actual += p.ConfidencePoints
	}
	reject := func(format string, args ...interface{}) error {
		err := rejectf(format, args...)
		err.ExpectedSum = expected
		err.ActualSum = actual
		return err
	}

	if n == 0 {
		return rejectf("there are no bowl games to pick this season")
	}
	if len(picks) != n {
		return reject("expected %d bowl picks, got %d", n, len(picks))
	}

	byID := make(map[primitive.ObjectID]*models.BowlGame, n)
	for _, g := range games {
		byID[g.ID] = g
	}

	seenGames := make(map[primitive.ObjectID]bool, n)
	seenPoints := make(map[int]primitive.ObjectID, n)
	sum := 0

	for _, p := range picks {
		game, ok := byID[p.BowlGameID]
		if !ok {
			return reject("bowl game %s is not part of this season's slate", p.BowlGameID.Hex())
		}
		if seenGames[p.BowlGameID] {
			return reject("%s was picked more than once", game.BowlName)
		}
		seenGames[p.BowlGameID] = true

		if strings.TrimSpace(p.SpreadPick) == "" {
			return reject("%s is missing a spread pick", game.BowlName)
		}
		if !game.HasTeam(p.SpreadPick) {
			return reject("%s: spread pick %q is not playing in this game (%s vs %s)",
				game.BowlName, p.SpreadPick, game.Favorite, game.Underdog)
		}
		if strings.TrimSpace(p.OutrightPick) == "" {
			return reject("%s is missing an outright winner pick", game.BowlName)
		}
		if !game.HasTeam(p.OutrightPick) {
			return reject("%s: outright pick %q is not playing in this game (%s vs %s)",
				game.BowlName, p.OutrightPick, game.Favorite, game.Underdog)
		}

		if p.ConfidencePoints < 1 || p.ConfidencePoints > n {
			return reject("%s: confidence %d is out of range, use 1 to %d", game.BowlName, p.ConfidencePoints, n)
		}
		if other, dup := seenPoints[p.ConfidencePoints]; dup {
			return reject("confidence %d is used for both %s and %s", p.ConfidencePoints, byID[other].BowlName, game.BowlName)
		}
		seenPoints[p.ConfidencePoints] = p.BowlGameID
		sum += p.ConfidencePoints
	}

	// Unreachable for distinct values in 1..N.
	if sum != expected {
		return reject("confidence points must use each value from 1 to %d exactly once", n)
	}

	return nil
}
