package memory

import (
	"context"
	"sync"

	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickRepository stores regular-season picks
type PickRepository struct {
	mu    sync.RWMutex
	picks []*models.Pick
}

func NewPickRepository() *PickRepository {
	return &PickRepository{}
}

func (r *PickRepository) filter(keep func(*models.Pick) bool) []*models.Pick {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Pick{}
	for _, p := range r.picks {
		if keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}

func (r *PickRepository) FindByUserWeek(ctx context.Context, userID primitive.ObjectID, season, week int) ([]*models.Pick, error) {
	return r.filter(func(p *models.Pick) bool { return p.UserID == userID && p.Season == season && p.Week == week }), nil
}

func (r *PickRepository) FindByUserSeason(ctx context.Context, userID primitive.ObjectID, season int) ([]*models.Pick, error) {
	return r.filter(func(p *models.Pick) bool { return p.UserID == userID && p.Season == season }), nil
}

func (r *PickRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error) {
	return r.filter(func(p *models.Pick) bool { return p.Season == season && p.Week == week }), nil
}

func (r *PickRepository) FindBySeason(ctx context.Context, season int) ([]*models.Pick, error) {
	return r.filter(func(p *models.Pick) bool { return p.Season == season }), nil
}

func (r *PickRepository) ReplaceUserWeekPicks(ctx context.Context, userID primitive.ObjectID, season, week int, picks []*models.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.picks[:0:0]
	for _, p := range r.picks {
		if p.UserID == userID && p.Season == season && p.Week == week {
			continue
		}
		kept = append(kept, p)
	}
	for _, p := range picks {
		c := *p
		c.UserID = userID
		c.Season = season
		c.Week = week
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		kept = append(kept, &c)
	}
	r.picks = kept
	return nil
}

// BowlPickRepository stores bowl confidence entries
type BowlPickRepository struct {
	mu    sync.RWMutex
	picks []*models.BowlPick
}

func NewBowlPickRepository() *BowlPickRepository {
	return &BowlPickRepository{}
}

func (r *BowlPickRepository) filter(keep func(*models.BowlPick) bool) []*models.BowlPick {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.BowlPick{}
	for _, p := range r.picks {
		if keep(p) {
			c := *p
			out = append(out, &c)
		}
	}
	return out
}

func (r *BowlPickRepository) FindByUserSeason(ctx context.Context, userID primitive.ObjectID, season int) ([]*models.BowlPick, error) {
	return r.filter(func(p *models.BowlPick) bool { return p.UserID == userID && p.Season == season }), nil
}

func (r *BowlPickRepository) FindBySeason(ctx context.Context, season int) ([]*models.BowlPick, error) {
	return r.filter(func(p *models.BowlPick) bool { return p.Season == season }), nil
}

func (r *BowlPickRepository) ReplaceUserSeasonPicks(ctx context.Context, userID primitive.ObjectID, season int, picks []*models.BowlPick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.picks[:0:0]
	for _, p := range r.picks {
		if p.UserID == userID && p.Season == season {
			continue
		}
		kept = append(kept, p)
	}
	for _, p := range picks {
		c := *p
		c.ID = primitive.NewObjectID()
		c.UserID = userID
		c.Season = season
		kept = append(kept, &c)
	}
	r.picks = kept
	return nil
}
