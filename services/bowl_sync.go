package services

import (
	"context"
	"fmt"

	"cfb-pickem-go/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncBowlResults applies a provider's postseason results to the bowl
// slate. Matching follows SyncWeekResults: either orientation, completed
// games only, and conditional writes so reruns change nothing.
func (s *ResultService) SyncBowlResults(ctx context.Context, season int, external []ExternalGameResult, enteredBy string) (*SyncReport, error) {
	runID := uuid.NewString()
	logger := s.logger.WithPrefix(runID[:8])

	games, err := s.bowlGames.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load bowl games for %d: %w", season, err)
	}

	normalizer := s.matcher.normalizer
	names := make([]string, 0, len(games)*2+len(external)*2)
	for _, g := range games {
		names = append(names, g.Favorite, g.Underdog)
	}
	for _, r := range external {
		names = append(names, r.HomeTeam, r.AwayTeam)
	}
	canonical := normalizer.NormalizeBatch(ctx, names)

	byMatchup := make(map[matchupKey]*models.BowlGame, len(games))
	for _, g := range games {
		byMatchup[matchupKey{canonical[g.Favorite], canonical[g.Underdog]}] = g
	}

	summary := &SyncReport{
		RunID:     runID,
		Season:    season,
		Applied:   []MatchedResult{},
		Unmatched: []UnmatchedResult{},
	}
	claimed := make(map[primitive.ObjectID]bool)

	for _, r := range external {
		if !r.IsCompleted {
			summary.SkippedIncomplete++
			continue
		}

		home, away := canonical[r.HomeTeam], canonical[r.AwayTeam]
		var favoriteScore, underdogScore int
		game, ok := byMatchup[matchupKey{home, away}]
		if ok {
			favoriteScore, underdogScore = r.HomeScore, r.AwayScore
		} else if game, ok = byMatchup[matchupKey{away, home}]; ok {
			favoriteScore, underdogScore = r.AwayScore, r.HomeScore
		} else {
			summary.Unmatched = append(summary.Unmatched, UnmatchedResult{
				HomeTeam: r.HomeTeam,
				AwayTeam: r.AwayTeam,
				Reason:   fmt.Sprintf("no bowl game found for %s vs %s", r.HomeTeam, r.AwayTeam),
			})
			continue
		}

		if game.HasResult() || claimed[game.ID] {
			summary.AlreadyHadResults++
			continue
		}
		claimed[game.ID] = true

		result := s.buildBowlResult(game, favoriteScore, underdogScore, enteredBy)
		written, err := s.bowlGames.SetResultIfAbsent(ctx, game.ID, result)
		if err != nil {
			return nil, fmt.Errorf("failed to save synced result for %s: %w", game.BowlName, err)
		}
		if !written {
			summary.AlreadyHadResults++
			continue
		}

		s.metrics.RecordResult("bowl", "sync")
		summary.Applied = append(summary.Applied, MatchedResult{
			GameID:        game.ID,
			FavoriteScore: favoriteScore,
			UnderdogScore: underdogScore,
			ExternalID:    r.ExternalID,
		})
		logger.Debugf("Applied %s %d-%d", game.BowlName, favoriteScore, underdogScore)
	}

	s.metrics.RecordSync(len(summary.Applied), len(summary.Unmatched), summary.AlreadyHadResults, summary.SkippedIncomplete)
	logger.Infof("Bowl sync %d: %d applied, %d unmatched, %d already had results",
		season, len(summary.Applied), len(summary.Unmatched), summary.AlreadyHadResults)
	return summary, nil
}
