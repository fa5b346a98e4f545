package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"
)

// TeamNameNormalizer resolves the many spellings of a team ("USF",
// "South Florida", "S. Florida") to one canonical name. The alias table is
// read once and served from memory until Refresh is called.
type TeamNameNormalizer struct {
	repo   TeamAliasRepository
	logger *logging.Logger

	mu      sync.RWMutex
	loaded  bool
	aliases map[string]string // alias key -> canonical name
}

// NewTeamNameNormalizer creates a normalizer backed by repo
func NewTeamNameNormalizer(repo TeamAliasRepository) *TeamNameNormalizer {
	return &TeamNameNormalizer{
		repo:    repo,
		logger:  logging.WithPrefix("TeamNames"),
		aliases: make(map[string]string),
	}
}

// Refresh reloads the alias table from storage
func (n *TeamNameNormalizer) Refresh(ctx context.Context) error {
	aliases, err := n.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load team aliases: %w", err)
	}

	table := make(map[string]string, len(aliases)*2)
	for _, a := range aliases {
		if a.CanonicalName == "" {
			continue
		}
		table[models.AliasKey(a.Alias)] = a.CanonicalName
	}
	// Canonical names resolve to themselves without needing their own row.
	for _, a := range aliases {
		key := models.AliasKey(a.CanonicalName)
		if _, exists := table[key]; !exists && key != "" {
			table[key] = a.CanonicalName
		}
	}
	table = resolveChains(table)

	n.mu.Lock()
	n.aliases = table
	n.loaded = true
	n.mu.Unlock()

	n.logger.Infof("Loaded %d team aliases", len(aliases))
	return nil
}

// resolveChains follows alias -> canonical links until a name maps to
// itself, so "USF" -> "S. Florida" -> "South Florida" stores "South Florida"
// for every key in the chain. A cycle stops at the last name before it repeats.
func resolveChains(table map[string]string) map[string]string {
	resolved := make(map[string]string, len(table))
	for key, name := range table {
		seen := map[string]bool{key: true}
		for {
			next := models.AliasKey(name)
			target, ok := table[next]
			if !ok || seen[next] {
				break
			}
			seen[next] = true
			name = target
		}
		resolved[key] = name
	}
	return resolved
}

func (n *TeamNameNormalizer) ensureLoaded(ctx context.Context) {
	n.mu.RLock()
	loaded := n.loaded
	n.mu.RUnlock()
	if loaded {
		return
	}
	if err := n.Refresh(ctx); err != nil {
		n.logger.Errorf("Alias cache unavailable, names pass through trimmed: %v", err)
	}
}

// Normalize returns the canonical name for name, or the trimmed input when
// no alias is known
func (n *TeamNameNormalizer) Normalize(ctx context.Context, name string) string {
	n.ensureLoaded(ctx)

	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.lookup(name)
}

// lookup expects n.mu to be held
func (n *TeamNameNormalizer) lookup(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := n.aliases[models.AliasKey(trimmed)]; ok {
		return canonical
	}
	n.logger.Warnf("No alias for team name %q, using it as-is", trimmed)
	return trimmed
}

// NormalizeBatch resolves every name under a single cache read
func (n *TeamNameNormalizer) NormalizeBatch(ctx context.Context, names []string) map[string]string {
	n.ensureLoaded(ctx)

	out := make(map[string]string, len(names))

	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, name := range names {
		if _, done := out[name]; done {
			continue
		}
		out[name] = n.lookup(name)
	}
	return out
}

// AreEqual reports whether both names resolve to the same team
func (n *TeamNameNormalizer) AreEqual(ctx context.Context, a, b string) bool {
	batch := n.NormalizeBatch(ctx, []string{a, b})
	return batch[a] == batch[b]
}

// ListAliases returns the stored alias rows
func (n *TeamNameNormalizer) ListAliases(ctx context.Context) ([]*models.TeamAlias, error) {
	return n.repo.FindAll(ctx)
}

// SetAlias stores alias -> canonical and reloads the cache
func (n *TeamNameNormalizer) SetAlias(ctx context.Context, alias, canonical string) (*models.TeamAlias, error) {
	record := models.NewTeamAlias(alias, canonical)
	if record.Key == "" || record.CanonicalName == "" {
		return nil, &SubmissionError{Reason: "alias and canonical name are both required"}
	}

	n.ensureLoaded(ctx)
	n.mu.RLock()
	target, known := n.aliases[models.AliasKey(record.CanonicalName)]
	n.mu.RUnlock()
	if known && models.AliasKey(target) == record.Key && models.AliasKey(record.CanonicalName) != record.Key {
		return nil, rejectf("%q already resolves to %q, mapping it back would loop", record.CanonicalName, record.Alias)
	}

	if err := n.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save alias %q: %w", alias, err)
	}
	return record, n.Refresh(ctx)
}

// RemoveAlias deletes an alias and reloads the cache
func (n *TeamNameNormalizer) RemoveAlias(ctx context.Context, alias string) error {
	if err := n.repo.Delete(ctx, models.AliasKey(alias)); err != nil {
		return err
	}
	return n.Refresh(ctx)
}
