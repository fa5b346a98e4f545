package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/metrics"
	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyPickInput is one selection in a weekly submission
type WeeklyPickInput struct {
	GameID primitive.ObjectID `json:"gameId"`
	Team   string             `json:"team"`
}

// PickService handles business logic for picks
type PickService struct {
	games      GameRepository
	bowlGames  BowlGameRepository
	picks      PickRepository
	bowlPicks  BowlPickRepository
	normalizer *TeamNameNormalizer
	lockPolicy models.LockPolicy
	metrics    *metrics.Metrics
	logger     *logging.Logger
	now        func() time.Time
}

// NewPickService creates a new pick service. m may be nil.
func NewPickService(games GameRepository, bowlGames BowlGameRepository, picks PickRepository, bowlPicks BowlPickRepository,
	normalizer *TeamNameNormalizer, lockPolicy models.LockPolicy, m *metrics.Metrics) *PickService {
	return &PickService{
		games:      games,
		bowlGames:  bowlGames,
		picks:      picks,
		bowlPicks:  bowlPicks,
		normalizer: normalizer,
		lockPolicy: lockPolicy,
		metrics:    m,
		logger:     logging.WithPrefix("Picks"),
		now:        time.Now,
	}
}

// GetUserWeekPicks returns a user's picks for one week
func (s *PickService) GetUserWeekPicks(ctx context.Context, userID primitive.ObjectID, season, week int) ([]*models.Pick, error) {
	picks, err := s.picks.FindByUserWeek(ctx, userID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get user picks: %w", err)
	}
	return picks, nil
}

// SubmitWeeklyPicks replaces the user's picks for the week. Picks on games
// that have kicked off are kept as they are and cannot be changed or
// removed; everything else is replaced by the submission.
func (s *PickService) SubmitWeeklyPicks(ctx context.Context, userID primitive.ObjectID, season, week int, selections []WeeklyPickInput) ([]*models.Pick, error) {
	picks, err := s.submitWeekly(ctx, userID, season, week, selections)
	s.metrics.RecordSubmission("weekly", err == nil)
	if err != nil && IsSubmissionError(err) {
		s.logger.Debugf("Rejected weekly picks for user %s week %d: %v", userID.Hex(), week, err)
	}
	return picks, err
}

func (s *PickService) submitWeekly(ctx context.Context, userID primitive.ObjectID, season, week int, selections []WeeklyPickInput) ([]*models.Pick, error) {
	if week < models.MinWeek || week > models.MaxWeek {
		return nil, rejectf("week must be between %d and %d, got %d", models.MinWeek, models.MaxWeek, week)
	}
	if len(selections) > models.MaxPicksPerWeek {
		return nil, rejectf("at most %d picks per week, got %d", models.MaxPicksPerWeek, len(selections))
	}

	games, err := s.games.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for week: %w", err)
	}
	gameMap := indexGames(games)

	existing, err := s.picks.FindByUserWeek(ctx, userID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get user picks: %w", err)
	}
	existingByGame := make(map[primitive.ObjectID]*models.Pick, len(existing))
	for _, p := range existing {
		existingByGame[p.GameID] = p
	}

	names := make([]string, 0, len(selections)+len(games)*2)
	for _, sel := range selections {
		names = append(names, sel.Team)
	}
	for _, g := range games {
		names = append(names, g.Favorite, g.Underdog)
	}
	canonical := s.normalizer.NormalizeBatch(ctx, names)

	now := s.now()
	result := make([]*models.Pick, 0, models.MaxPicksPerWeek)
	seen := make(map[primitive.ObjectID]bool, len(selections))

	for _, sel := range selections {
		game, ok := gameMap[sel.GameID]
		if !ok {
			return nil, rejectf("game %s is not on the week %d slate", sel.GameID.Hex(), week)
		}
		if seen[sel.GameID] {
			return nil, rejectf("%s was picked more than once", game.Matchup())
		}
		seen[sel.GameID] = true

		if strings.TrimSpace(sel.Team) == "" {
			return nil, rejectf("%s is missing a team", game.Matchup())
		}
		team, ok := sideFor(game.Favorite, game.Underdog, canonical[sel.Team], canonical)
		if !ok {
			return nil, rejectf("%q is not playing in %s", sel.Team, game.Matchup())
		}

		prior := existingByGame[sel.GameID]
		if game.IsLocked(now, s.lockPolicy) {
			if prior == nil || prior.Team != team {
				return nil, rejectf("%s kicked off at %s and is locked", game.Matchup(), game.Kickoff.Format(time.RFC3339))
			}
			result = append(result, prior)
			continue
		}

		pick := &models.Pick{
			UserID:    userID,
			GameID:    game.ID,
			Team:      team,
			Season:    season,
			Week:      week,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if prior != nil {
			pick.ID = prior.ID
			pick.CreatedAt = prior.CreatedAt
		}
		result = append(result, pick)
	}

	// Locked picks the submission left out stay on the card.
	for _, prior := range existing {
		if seen[prior.GameID] {
			continue
		}
		if game := gameMap[prior.GameID]; game != nil && game.IsLocked(now, s.lockPolicy) {
			result = append(result, prior)
		}
	}

	if len(result) > models.MaxPicksPerWeek {
		return nil, rejectf("at most %d picks per week, locked picks bring this card to %d", models.MaxPicksPerWeek, len(result))
	}

	if err := s.picks.ReplaceUserWeekPicks(ctx, userID, season, week, result); err != nil {
		return nil, fmt.Errorf("failed to save picks: %w", err)
	}

	s.logger.Infof("User %s saved %d picks for season %d week %d", userID.Hex(), len(result), season, week)
	return result, nil
}

// GetUserBowlPicks returns a user's bowl entry ordered by confidence, highest first
func (s *PickService) GetUserBowlPicks(ctx context.Context, userID primitive.ObjectID, season int) ([]*models.BowlPick, error) {
	picks, err := s.bowlPicks.FindByUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl picks: %w", err)
	}
	sort.Slice(picks, func(i, j int) bool { return picks[i].ConfidencePoints > picks[j].ConfidencePoints })
	return picks, nil
}

// SubmitBowlPicks validates and stores a complete bowl entry. The whole
// slate closes when its first game kicks off.
func (s *PickService) SubmitBowlPicks(ctx context.Context, userID primitive.ObjectID, season int, inputs []BowlPickInput) ([]*models.BowlPick, error) {
	picks, err := s.submitBowl(ctx, userID, season, inputs)
	s.metrics.RecordSubmission("bowl", err == nil)
	if err != nil && IsSubmissionError(err) {
		s.logger.Debugf("Rejected bowl entry for user %s season %d: %v", userID.Hex(), season, err)
	}
	return picks, err
}

func (s *PickService) submitBowl(ctx context.Context, userID primitive.ObjectID, season int, inputs []BowlPickInput) ([]*models.BowlPick, error) {
	games, err := s.bowlGames.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl games: %w", err)
	}

	now := s.now()
	if models.SlateLocked(games, now, s.lockPolicy) {
		return nil, rejectf("bowl picks for %d are locked", season)
	}

	names := make([]string, 0, len(inputs)*2+len(games)*2)
	for _, in := range inputs {
		names = append(names, in.SpreadPick, in.OutrightPick)
	}
	byID := make(map[primitive.ObjectID]*models.BowlGame, len(games))
	for _, g := range games {
		names = append(names, g.Favorite, g.Underdog)
		byID[g.ID] = g
	}
	canonical := s.normalizer.NormalizeBatch(ctx, names)

	// Picks take the game's stored spelling; anything that matches neither
	// side stays canonical and fails validation.
	storedName := func(game *models.BowlGame, team string) string {
		if game == nil {
			return canonical[team]
		}
		if name, ok := sideFor(game.Favorite, game.Underdog, canonical[team], canonical); ok {
			return name
		}
		return canonical[team]
	}

	normalized := make([]BowlPickInput, len(inputs))
	for i, in := range inputs {
		game := byID[in.BowlGameID]
		normalized[i] = BowlPickInput{
			BowlGameID:       in.BowlGameID,
			SpreadPick:       storedName(game, in.SpreadPick),
			ConfidencePoints: in.ConfidencePoints,
			OutrightPick:     storedName(game, in.OutrightPick),
		}
	}

	if err := ValidateBowlSubmission(games, normalized); err != nil {
		return nil, err
	}

	existing, err := s.bowlPicks.FindByUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl picks: %w", err)
	}
	createdAt := make(map[primitive.ObjectID]time.Time, len(existing))
	for _, p := range existing {
		createdAt[p.BowlGameID] = p.CreatedAt
	}

	picks := make([]*models.BowlPick, 0, len(normalized))
	for _, in := range normalized {
		pick := &models.BowlPick{
			UserID:           userID,
			BowlGameID:       in.BowlGameID,
			Season:           season,
			SpreadPick:       in.SpreadPick,
			ConfidencePoints: in.ConfidencePoints,
			OutrightPick:     in.OutrightPick,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if t, ok := createdAt[in.BowlGameID]; ok {
			pick.CreatedAt = t
		}
		picks = append(picks, pick)
	}

	if err := s.bowlPicks.ReplaceUserSeasonPicks(ctx, userID, season, picks); err != nil {
		return nil, fmt.Errorf("failed to save bowl picks: %w", err)
	}

	s.logger.Infof("User %s saved a %d-game bowl entry for %d", userID.Hex(), len(picks), season)
	return picks, nil
}

// sideFor returns the stored spelling of the side team plays for, comparing
// canonical names so a line stored before an alias existed still matches
func sideFor(favorite, underdog, team string, canonical map[string]string) (string, bool) {
	if team == "" {
		return "", false
	}
	switch team {
	case canonical[favorite]:
		return favorite, true
	case canonical[underdog]:
		return underdog, true
	}
	return "", false
}
