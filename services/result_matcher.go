package services

import (
	"context"
	"fmt"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExternalGameResult is a final score as reported by a sports-data provider,
// from the home/away perspective
type ExternalGameResult struct {
	ExternalID  string `json:"externalId"`
	HomeTeam    string `json:"homeTeam"`
	AwayTeam    string `json:"awayTeam"`
	HomeScore   int    `json:"homeScore"`
	AwayScore   int    `json:"awayScore"`
	IsCompleted bool   `json:"isCompleted"`
	Season      int    `json:"season"`
	Week        int    `json:"week,omitempty"` // 0 when the provider does not say
}

// MatchedResult maps an external result onto a stored game's favorite/underdog roles
type MatchedResult struct {
	GameID        primitive.ObjectID `json:"gameId"`
	FavoriteScore int                `json:"favoriteScore"`
	UnderdogScore int                `json:"underdogScore"`
	ExternalID    string             `json:"externalId,omitempty"`
}

// UnmatchedResult is an external result that needs an admin's attention
type UnmatchedResult struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Reason   string `json:"reason"`
}

// MatchReport is the outcome of reconciling one batch of external results
type MatchReport struct {
	Matched           []MatchedResult   `json:"matched"`
	Unmatched         []UnmatchedResult `json:"unmatched"`
	AlreadyHadResults int               `json:"alreadyHadResults"`
	SkippedIncomplete int               `json:"skippedIncomplete"`
}

type matchupKey struct {
	favorite string
	underdog string
}

// ResultMatcher reconciles provider results with stored games. It only
// produces favorite/underdog scores; resolving the spread is the caller's job.
type ResultMatcher struct {
	games      GameRepository
	normalizer *TeamNameNormalizer
	logger     *logging.Logger
}

// NewResultMatcher creates a matcher over the stored games
func NewResultMatcher(games GameRepository, normalizer *TeamNameNormalizer) *ResultMatcher {
	return &ResultMatcher{
		games:      games,
		normalizer: normalizer,
		logger:     logging.WithPrefix("ResultMatcher"),
	}
}

// MatchResults pairs each external result with the week's stored game in
// either orientation. Games that already have a result are skipped and
// counted, which makes repeated syncs harmless.
func (m *ResultMatcher) MatchResults(ctx context.Context, season, week int, results []ExternalGameResult) (*MatchReport, error) {
	games, err := m.games.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for season %d week %d: %w", season, week, err)
	}

	names := make([]string, 0, len(games)*2+len(results)*2)
	for _, g := range games {
		names = append(names, g.Favorite, g.Underdog)
	}
	for _, r := range results {
		names = append(names, r.HomeTeam, r.AwayTeam)
	}
	canonical := m.normalizer.NormalizeBatch(ctx, names)

	byMatchup := make(map[matchupKey]*models.Game, len(games))
	for _, g := range games {
		byMatchup[matchupKey{canonical[g.Favorite], canonical[g.Underdog]}] = g
	}

	report := &MatchReport{
		Matched:   []MatchedResult{},
		Unmatched: []UnmatchedResult{},
	}
	claimed := make(map[primitive.ObjectID]bool)

	for _, r := range results {
		if !r.IsCompleted {
			report.SkippedIncomplete++
			continue
		}
		if r.Week != 0 && r.Week != week {
			report.Unmatched = append(report.Unmatched, UnmatchedResult{
				HomeTeam: r.HomeTeam,
				AwayTeam: r.AwayTeam,
				Reason:   fmt.Sprintf("result is for week %d, not week %d", r.Week, week),
			})
			continue
		}

		home, away := canonical[r.HomeTeam], canonical[r.AwayTeam]

		var match MatchedResult
		game, homeIsFavorite := byMatchup[matchupKey{home, away}]
		if homeIsFavorite {
			match = MatchedResult{GameID: game.ID, FavoriteScore: r.HomeScore, UnderdogScore: r.AwayScore}
		} else if game = byMatchup[matchupKey{away, home}]; game != nil {
			match = MatchedResult{GameID: game.ID, FavoriteScore: r.AwayScore, UnderdogScore: r.HomeScore}
		} else {
			report.Unmatched = append(report.Unmatched, UnmatchedResult{
				HomeTeam: r.HomeTeam,
				AwayTeam: r.AwayTeam,
				Reason:   fmt.Sprintf("no game found for %s vs %s", r.HomeTeam, r.AwayTeam),
			})
			continue
		}

		if game.HasResult() || claimed[game.ID] {
			report.AlreadyHadResults++
			continue
		}

		claimed[game.ID] = true
		match.ExternalID = r.ExternalID
		report.Matched = append(report.Matched, match)
	}

	m.logger.Infof("Season %d week %d: %d matched, %d unmatched, %d already had results, %d incomplete",
		season, week, len(report.Matched), len(report.Unmatched), report.AlreadyHadResults, report.SkippedIncomplete)

	return report, nil
}
