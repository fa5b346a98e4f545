// Package memory holds in-memory repositories for demo mode and tests.
// They mirror the MongoDB repositories, including the conditional result
// write and the unique keys.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRepository stores regular-season games
type GameRepository struct {
	mu    sync.RWMutex
	games map[primitive.ObjectID]*models.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: make(map[primitive.ObjectID]*models.Game)}
}

func copyGame(g *models.Game) *models.Game {
	c := *g
	if g.Result != nil {
		r := *g.Result
		c.Result = &r
	}
	return &c
}

func (r *GameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id.Hex(), models.ErrGameNotFound)
	}
	return copyGame(g), nil
}

func (r *GameRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	return r.filter(func(g *models.Game) bool { return g.Season == season && g.Week == week }), nil
}

func (r *GameRepository) FindBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	return r.filter(func(g *models.Game) bool { return g.Season == season }), nil
}

func (r *GameRepository) filter(keep func(*models.Game) bool) []*models.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Game{}
	for _, g := range r.games {
		if keep(g) {
			out = append(out, copyGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out
}

// UpsertLines keys on season, week and matchup and never touches results
func (r *GameRepository) UpsertLines(ctx context.Context, games []*models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, in := range games {
		var existing *models.Game
		for _, g := range r.games {
			if g.Season == in.Season && g.Week == in.Week && g.Favorite == in.Favorite && g.Underdog == in.Underdog {
				existing = g
				break
			}
		}
		if existing != nil {
			existing.Line = in.Line
			existing.Kickoff = in.Kickoff
			existing.UpdatedAt = in.UpdatedAt
			continue
		}
		g := copyGame(in)
		g.Result = nil
		if g.ID.IsZero() {
			g.ID = primitive.NewObjectID()
		}
		r.games[g.ID] = g
	}
	return nil
}

func (r *GameRepository) SetResultIfAbsent(ctx context.Context, id primitive.ObjectID, result *models.GameResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok || g.Result != nil {
		return false, nil
	}
	res := *result
	g.Result = &res
	g.UpdatedAt = time.Now()
	return true, nil
}

func (r *GameRepository) ReplaceResult(ctx context.Context, id primitive.ObjectID, result *models.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return fmt.Errorf("game %s: %w", id.Hex(), models.ErrGameNotFound)
	}
	res := *result
	g.Result = &res
	g.UpdatedAt = time.Now()
	return nil
}

// BowlGameRepository stores the bowl slate
type BowlGameRepository struct {
	mu    sync.RWMutex
	games map[primitive.ObjectID]*models.BowlGame
}

func NewBowlGameRepository() *BowlGameRepository {
	return &BowlGameRepository{games: make(map[primitive.ObjectID]*models.BowlGame)}
}

func copyBowlGame(g *models.BowlGame) *models.BowlGame {
	c := *g
	if g.Result != nil {
		r := *g.Result
		c.Result = &r
	}
	return &c
}

func (r *BowlGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BowlGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("bowl game %s: %w", id.Hex(), models.ErrBowlGameNotFound)
	}
	return copyBowlGame(g), nil
}

func (r *BowlGameRepository) FindBySeason(ctx context.Context, season int) ([]*models.BowlGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.BowlGame{}
	for _, g := range r.games {
		if g.Season == season {
			out = append(out, copyBowlGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameNumber < out[j].GameNumber })
	return out, nil
}

func (r *BowlGameRepository) UpsertLines(ctx context.Context, games []*models.BowlGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, in := range games {
		var existing *models.BowlGame
		for _, g := range r.games {
			if g.Season == in.Season && g.GameNumber == in.GameNumber {
				existing = g
				break
			}
		}
		if existing != nil {
			existing.BowlName = in.BowlName
			existing.Favorite = in.Favorite
			existing.Underdog = in.Underdog
			existing.Line = in.Line
			existing.Kickoff = in.Kickoff
			existing.UpdatedAt = in.UpdatedAt
			continue
		}
		g := copyBowlGame(in)
		g.Result = nil
		if g.ID.IsZero() {
			g.ID = primitive.NewObjectID()
		}
		r.games[g.ID] = g
	}
	return nil
}

func (r *BowlGameRepository) SetResultIfAbsent(ctx context.Context, id primitive.ObjectID, result *models.BowlGameResult) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok || g.Result != nil {
		return false, nil
	}
	res := *result
	g.Result = &res
	g.UpdatedAt = time.Now()
	return true, nil
}

func (r *BowlGameRepository) ReplaceResult(ctx context.Context, id primitive.ObjectID, result *models.BowlGameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return fmt.Errorf("bowl game %s: %w", id.Hex(), models.ErrBowlGameNotFound)
	}
	res := *result
	g.Result = &res
	g.UpdatedAt = time.Now()
	return nil
}
