package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/metrics"
	"cfb-pickem-go/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncReport summarizes one external result sync
type SyncReport struct {
	RunID             string            `json:"runId"`
	Season            int               `json:"season"`
	Week              int               `json:"week"`
	Applied           []MatchedResult   `json:"applied"`
	Unmatched         []UnmatchedResult `json:"unmatched"`
	AlreadyHadResults int               `json:"alreadyHadResults"`
	SkippedIncomplete int               `json:"skippedIncomplete"`
}

// ResultService writes final scores. Every path resolves the spread with
// ResolveSpread before persisting.
type ResultService struct {
	games     GameRepository
	bowlGames BowlGameRepository
	matcher   *ResultMatcher
	metrics   *metrics.Metrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewResultService creates a new result service. m may be nil.
func NewResultService(games GameRepository, bowlGames BowlGameRepository, matcher *ResultMatcher, m *metrics.Metrics) *ResultService {
	return &ResultService{
		games:     games,
		bowlGames: bowlGames,
		matcher:   matcher,
		metrics:   m,
		logger:    logging.WithPrefix("Results"),
		now:       time.Now,
	}
}

func validateScores(favoriteScore, underdogScore int) error {
	if favoriteScore < 0 || underdogScore < 0 {
		return rejectf("scores cannot be negative (got %d-%d)", favoriteScore, underdogScore)
	}
	return nil
}

func (s *ResultService) buildGameResult(game *models.Game, favoriteScore, underdogScore int, enteredBy string) *models.GameResult {
	winner, isPush := ResolveSpread(game.Favorite, game.Underdog, game.Line, favoriteScore, underdogScore)
	return &models.GameResult{
		FavoriteScore: favoriteScore,
		UnderdogScore: underdogScore,
		SpreadWinner:  winner,
		IsPush:        isPush,
		EnteredAt:     s.now(),
		EnteredBy:     enteredBy,
	}
}

// EnterResult records the final score of a game that has no result yet
func (s *ResultService) EnterResult(ctx context.Context, gameID primitive.ObjectID, favoriteScore, underdogScore int, enteredBy string) (*models.Game, error) {
	if err := validateScores(favoriteScore, underdogScore); err != nil {
		return nil, err
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.HasResult() {
		return nil, fmt.Errorf("game %s: %w", game.Matchup(), models.ErrResultExists)
	}

	result := s.buildGameResult(game, favoriteScore, underdogScore, enteredBy)
	written, err := s.games.SetResultIfAbsent(ctx, gameID, result)
	if err != nil {
		return nil, fmt.Errorf("failed to save result for game %s: %w", gameID.Hex(), err)
	}
	if !written {
		// Another writer (usually a sync) got there first.
		return nil, fmt.Errorf("game %s: %w", game.Matchup(), models.ErrResultExists)
	}

	game.Result = result
	s.metrics.RecordResult("game", "manual")
	s.logger.Infof("Result entered by %s: %s %d-%d, spread winner %q push=%t",
		enteredBy, game.Matchup(), favoriteScore, underdogScore, result.SpreadWinner, result.IsPush)
	return game, nil
}

// CorrectResult overwrites an existing result. This is the only way a
// stored result changes.
func (s *ResultService) CorrectResult(ctx context.Context, gameID primitive.ObjectID, favoriteScore, underdogScore int, enteredBy string) (*models.Game, error) {
	if err := validateScores(favoriteScore, underdogScore); err != nil {
		return nil, err
	}

	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.HasResult() {
		return nil, fmt.Errorf("game %s: %w", game.Matchup(), models.ErrNoResult)
	}

	previous := *game.Result
	result := s.buildGameResult(game, favoriteScore, underdogScore, enteredBy)
	if err := s.games.ReplaceResult(ctx, gameID, result); err != nil {
		return nil, fmt.Errorf("failed to correct result for game %s: %w", gameID.Hex(), err)
	}

	game.Result = result
	s.metrics.RecordResult("game", "correction")
	s.logger.Warnf("Result corrected by %s: %s was %d-%d, now %d-%d",
		enteredBy, game.Matchup(), previous.FavoriteScore, previous.UnderdogScore, favoriteScore, underdogScore)
	return game, nil
}

// SyncWeekResults applies a provider's results for one week. Matching
// skips games that already have a result and the write itself is
// conditional, so running it twice or alongside manual entry changes nothing.
func (s *ResultService) SyncWeekResults(ctx context.Context, season, week int, external []ExternalGameResult, enteredBy string) (*SyncReport, error) {
	runID := uuid.NewString()
	logger := s.logger.WithPrefix(runID[:8])

	report, err := s.matcher.MatchResults(ctx, season, week, external)
	if err != nil {
		return nil, err
	}

	games, err := s.games.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for season %d week %d: %w", season, week, err)
	}
	byID := make(map[primitive.ObjectID]*models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	summary := &SyncReport{
		RunID:             runID,
		Season:            season,
		Week:              week,
		Applied:           []MatchedResult{},
		Unmatched:         report.Unmatched,
		AlreadyHadResults: report.AlreadyHadResults,
		SkippedIncomplete: report.SkippedIncomplete,
	}

	for _, match := range report.Matched {
		game, ok := byID[match.GameID]
		if !ok {
			summary.Unmatched = append(summary.Unmatched, UnmatchedResult{
				Reason: fmt.Sprintf("game %s disappeared during sync", match.GameID.Hex()),
			})
			continue
		}

		result := s.buildGameResult(game, match.FavoriteScore, match.UnderdogScore, enteredBy)
		written, err := s.games.SetResultIfAbsent(ctx, game.ID, result)
		if err != nil {
			return nil, fmt.Errorf("failed to save synced result for %s: %w", game.Matchup(), err)
		}
		if !written {
			summary.AlreadyHadResults++
			continue
		}

		s.metrics.RecordResult("game", "sync")
		summary.Applied = append(summary.Applied, match)
		logger.Debugf("Applied %s %d-%d", game.Matchup(), match.FavoriteScore, match.UnderdogScore)
	}

	s.metrics.RecordSync(len(summary.Applied), len(summary.Unmatched), summary.AlreadyHadResults, summary.SkippedIncomplete)
	logger.Infof("Sync season %d week %d: %d applied, %d unmatched, %d already had results",
		season, week, len(summary.Applied), len(summary.Unmatched), summary.AlreadyHadResults)
	for _, u := range summary.Unmatched {
		logger.Warnf("Unmatched: %s", u.Reason)
	}

	return summary, nil
}

func (s *ResultService) buildBowlResult(game *models.BowlGame, favoriteScore, underdogScore int, enteredBy string) *models.BowlGameResult {
	winner, isPush := ResolveSpread(game.Favorite, game.Underdog, game.Line, favoriteScore, underdogScore)
	return &models.BowlGameResult{
		FavoriteScore:  favoriteScore,
		UnderdogScore:  underdogScore,
		SpreadWinner:   winner,
		IsPush:         isPush,
		OutrightWinner: ResolveOutright(game.Favorite, game.Underdog, favoriteScore, underdogScore),
		EnteredAt:      s.now(),
		EnteredBy:      enteredBy,
	}
}

// EnterBowlResult records the final score of a bowl game
func (s *ResultService) EnterBowlResult(ctx context.Context, gameID primitive.ObjectID, favoriteScore, underdogScore int, enteredBy string) (*models.BowlGame, error) {
	if err := validateScores(favoriteScore, underdogScore); err != nil {
		return nil, err
	}

	game, err := s.bowlGames.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.HasResult() {
		return nil, fmt.Errorf("%s: %w", game.BowlName, models.ErrResultExists)
	}

	result := s.buildBowlResult(game, favoriteScore, underdogScore, enteredBy)
	written, err := s.bowlGames.SetResultIfAbsent(ctx, gameID, result)
	if err != nil {
		return nil, fmt.Errorf("failed to save result for %s: %w", game.BowlName, err)
	}
	if !written {
		return nil, fmt.Errorf("%s: %w", game.BowlName, models.ErrResultExists)
	}

	game.Result = result
	s.metrics.RecordResult("bowl", "manual")
	s.logger.Infof("Bowl result entered by %s: %s %s %d-%d %s",
		enteredBy, game.BowlName, game.Favorite, favoriteScore, underdogScore, game.Underdog)
	return game, nil
}

// CorrectBowlResult overwrites an existing bowl result
func (s *ResultService) CorrectBowlResult(ctx context.Context, gameID primitive.ObjectID, favoriteScore, underdogScore int, enteredBy string) (*models.BowlGame, error) {
	if err := validateScores(favoriteScore, underdogScore); err != nil {
		return nil, err
	}

	game, err := s.bowlGames.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.HasResult() {
		return nil, fmt.Errorf("%s: %w", game.BowlName, models.ErrNoResult)
	}

	result := s.buildBowlResult(game, favoriteScore, underdogScore, enteredBy)
	if err := s.bowlGames.ReplaceResult(ctx, gameID, result); err != nil {
		return nil, fmt.Errorf("failed to correct result for %s: %w", game.BowlName, err)
	}

	game.Result = result
	s.metrics.RecordResult("bowl", "correction")
	s.logger.Warnf("Bowl result corrected by %s: %s now %d-%d", enteredBy, game.BowlName, favoriteScore, underdogScore)
	return game, nil
}

// IsConflict reports whether err means the result state did not allow the write
func IsConflict(err error) bool {
	return errors.Is(err, models.ErrResultExists) || errors.Is(err, models.ErrNoResult)
}
