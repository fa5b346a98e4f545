package models

import (
	"strings"
	"time"
)

// TeamAlias maps one spelling of a team name to its canonical name.
// Key is the lower-cased alias and carries the unique index.
type TeamAlias struct {
	Key           string    `json:"-" bson:"_id"`
	Alias         string    `json:"alias" bson:"alias"`
	CanonicalName string    `json:"canonicalName" bson:"canonical_name"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// AliasKey folds a team name into its lookup key
func AliasKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NewTeamAlias builds an alias record with its key filled in
func NewTeamAlias(alias, canonical string) *TeamAlias {
	alias = strings.TrimSpace(alias)
	return &TeamAlias{
		Key:           AliasKey(alias),
		Alias:         alias,
		CanonicalName: strings.TrimSpace(canonical),
		UpdatedAt:     time.Now(),
	}
}
