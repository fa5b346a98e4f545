package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository stores users keyed by identity-provider subject
type UserRepository struct {
	mu        sync.RWMutex
	bySubject map[string]*models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{bySubject: make(map[string]*models.User)}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.bySubject {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id.Hex(), models.ErrUserNotFound)
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error) {
	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.User{}
	for _, u := range r.bySubject {
		if want[u.ID] {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *UserRepository) UpsertBySubject(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	existing, ok := r.bySubject[user.Subject]
	if !ok {
		existing = &models.User{
			ID:        primitive.NewObjectID(),
			Subject:   user.Subject,
			CreatedAt: now,
		}
		if !user.ID.IsZero() {
			existing.ID = user.ID
		}
		r.bySubject[user.Subject] = existing
	}
	existing.Email = user.Email
	existing.DisplayName = user.DisplayName
	existing.IsAdmin = user.IsAdmin
	existing.UpdatedAt = now

	c := *existing
	return &c, nil
}

// TeamAliasRepository stores alias rows keyed by folded alias
type TeamAliasRepository struct {
	mu      sync.RWMutex
	aliases map[string]*models.TeamAlias
	// Loads counts FindAll calls, so tests can see cache behavior.
	Loads int
}

func NewTeamAliasRepository(seed ...*models.TeamAlias) *TeamAliasRepository {
	r := &TeamAliasRepository{aliases: make(map[string]*models.TeamAlias)}
	for _, a := range seed {
		r.aliases[a.Key] = a
	}
	return r
}

func (r *TeamAliasRepository) FindAll(ctx context.Context) ([]*models.TeamAlias, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Loads++
	out := make([]*models.TeamAlias, 0, len(r.aliases))
	for _, a := range r.aliases {
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (r *TeamAliasRepository) Upsert(ctx context.Context, alias *models.TeamAlias) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *alias
	r.aliases[alias.Key] = &c
	return nil
}

func (r *TeamAliasRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.aliases[key]; !ok {
		return fmt.Errorf("alias %q: %w", key, models.ErrAliasNotFound)
	}
	delete(r.aliases, key)
	return nil
}
