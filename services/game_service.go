package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"
)

// GameLineInput is one uploaded regular-season line
type GameLineInput struct {
	Favorite string    `json:"favorite"`
	Underdog string    `json:"underdog"`
	Line     float64   `json:"line"`
	Kickoff  time.Time `json:"kickoff"`
}

// BowlLineInput is one uploaded bowl line
type BowlLineInput struct {
	GameNumber int       `json:"gameNumber"`
	BowlName   string    `json:"bowlName"`
	Favorite   string    `json:"favorite"`
	Underdog   string    `json:"underdog"`
	Line       float64   `json:"line"`
	Kickoff    time.Time `json:"kickoff"`
}

// GameService manages the weekly and bowl slates
type GameService struct {
	games      GameRepository
	bowlGames  BowlGameRepository
	normalizer *TeamNameNormalizer
	logger     *logging.Logger
	now        func() time.Time
}

// NewGameService creates a new game service
func NewGameService(games GameRepository, bowlGames BowlGameRepository, normalizer *TeamNameNormalizer) *GameService {
	return &GameService{
		games:      games,
		bowlGames:  bowlGames,
		normalizer: normalizer,
		logger:     logging.WithPrefix("Games"),
		now:        time.Now,
	}
}

// GetWeekGames returns a week's games in kickoff order
func (s *GameService) GetWeekGames(ctx context.Context, season, week int) ([]*models.Game, error) {
	games, err := s.games.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for week: %w", err)
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].Kickoff.Before(games[j].Kickoff) })
	return games, nil
}

// GetBowlGames returns the bowl slate in game-number order
func (s *GameService) GetBowlGames(ctx context.Context, season int) ([]*models.BowlGame, error) {
	games, err := s.bowlGames.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl games: %w", err)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].GameNumber < games[j].GameNumber })
	return games, nil
}

// UpsertWeekGames stores uploaded lines for a week. Team names are
// normalized first and existing results are never touched.
func (s *GameService) UpsertWeekGames(ctx context.Context, season, week int, lines []GameLineInput) ([]*models.Game, error) {
	if week < models.MinWeek || week > models.MaxWeek {
		return nil, rejectf("week must be between %d and %d, got %d", models.MinWeek, models.MaxWeek, week)
	}
	if len(lines) == 0 {
		return nil, rejectf("no games to upload")
	}

	existing, err := s.games.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for week: %w", err)
	}

	names := make([]string, 0, len(lines)*2+len(existing)*2)
	for _, l := range lines {
		names = append(names, l.Favorite, l.Underdog)
	}
	for _, g := range existing {
		names = append(names, g.Favorite, g.Underdog)
	}
	canonical := s.normalizer.NormalizeBatch(ctx, names)

	// A stored line keeps its spelling so picks and results on it still match.
	stored := make(map[matchupKey]*models.Game, len(existing))
	for _, g := range existing {
		stored[matchupKey{canonical[g.Favorite], canonical[g.Underdog]}] = g
	}

	now := s.now()
	games := make([]*models.Game, 0, len(lines))
	seen := make(map[matchupKey]bool, len(lines))
	for i, l := range lines {
		key := matchupKey{canonical[l.Favorite], canonical[l.Underdog]}
		game := &models.Game{
			Season:    season,
			Week:      week,
			Favorite:  key.favorite,
			Underdog:  key.underdog,
			Line:      l.Line,
			Kickoff:   l.Kickoff,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if prior, ok := stored[key]; ok {
			game.Favorite, game.Underdog = prior.Favorite, prior.Underdog
		}
		if err := game.Validate(); err != nil {
			return nil, rejectf("game %d: %v", i+1, err)
		}
		if seen[key] {
			return nil, rejectf("%s is listed more than once", game.Matchup())
		}
		seen[key] = true
		games = append(games, game)
	}

	if err := s.games.UpsertLines(ctx, games); err != nil {
		return nil, fmt.Errorf("failed to save lines for season %d week %d: %w", season, week, err)
	}

	s.logger.Infof("Saved %d lines for season %d week %d", len(games), season, week)
	return s.GetWeekGames(ctx, season, week)
}

// UpsertBowlGames stores the uploaded bowl slate
func (s *GameService) UpsertBowlGames(ctx context.Context, season int, lines []BowlLineInput) ([]*models.BowlGame, error) {
	if len(lines) == 0 {
		return nil, rejectf("no bowl games to upload")
	}

	existing, err := s.bowlGames.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl games: %w", err)
	}

	names := make([]string, 0, len(lines)*2+len(existing)*2)
	for _, l := range lines {
		names = append(names, l.Favorite, l.Underdog)
	}
	stored := make(map[int]*models.BowlGame, len(existing))
	for _, g := range existing {
		names = append(names, g.Favorite, g.Underdog)
		stored[g.GameNumber] = g
	}
	canonical := s.normalizer.NormalizeBatch(ctx, names)

	now := s.now()
	games := make([]*models.BowlGame, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		game := &models.BowlGame{
			Season:     season,
			GameNumber: l.GameNumber,
			BowlName:   l.BowlName,
			Favorite:   canonical[l.Favorite],
			Underdog:   canonical[l.Underdog],
			Line:       l.Line,
			Kickoff:    l.Kickoff,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if prior, ok := stored[game.GameNumber]; ok &&
			canonical[prior.Favorite] == game.Favorite && canonical[prior.Underdog] == game.Underdog {
			game.Favorite, game.Underdog = prior.Favorite, prior.Underdog
		}
		if err := game.Validate(); err != nil {
			return nil, rejectf("%v", err)
		}
		if seen[game.GameNumber] {
			return nil, rejectf("bowl game number %d is listed more than once", game.GameNumber)
		}
		seen[game.GameNumber] = true
		games = append(games, game)
	}

	if err := s.bowlGames.UpsertLines(ctx, games); err != nil {
		return nil, fmt.Errorf("failed to save bowl lines for %d: %w", season, err)
	}

	s.logger.Infof("Saved %d bowl lines for %d", len(games), season)
	return s.GetBowlGames(ctx, season)
}
