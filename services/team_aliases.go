package services

import (
	"context"
	"fmt"
	"sort"

	"cfb-pickem-go/models"
)

// defaultAliases maps the spellings books and data providers use to the
// canonical school name. Canonical names resolve to themselves.
var defaultAliases = map[string][]string{
	"Alabama":               {"Bama", "Alabama Crimson Tide"},
	"Arizona State":         {"ASU", "Arizona St", "Arizona St."},
	"Boise State":           {"Boise St", "Boise St."},
	"Brigham Young":         {"BYU"},
	"Central Florida":       {"UCF"},
	"Florida Atlantic":      {"FAU"},
	"Florida International": {"FIU"},
	"Florida State":         {"FSU", "Florida St", "Florida St."},
	"Georgia Tech":          {"GT", "Georgia Tech Yellow Jackets"},
	"Hawaii":                {"Hawai'i"},
	"Louisiana State":       {"LSU"},
	"Miami (FL)":            {"Miami", "Miami FL", "Miami-Florida", "Miami Hurricanes"},
	"Miami (OH)":            {"Miami OH", "Miami-Ohio", "Miami RedHawks"},
	"Michigan State":        {"MSU", "Michigan St", "Michigan St."},
	"Mississippi":           {"Ole Miss"},
	"Mississippi State":     {"Miss State", "Mississippi St", "Mississippi St."},
	"NC State":              {"North Carolina State", "N.C. State"},
	"Nevada-Las Vegas":      {"UNLV"},
	"Ohio State":            {"OSU", "Ohio St", "Ohio St."},
	"Oklahoma State":        {"Oklahoma St", "Oklahoma St."},
	"Penn State":            {"PSU", "Penn St", "Penn St."},
	"Pittsburgh":            {"Pitt"},
	"South Florida":         {"USF", "S. Florida", "So. Florida"},
	"Southern California":   {"USC", "Southern Cal"},
	"Southern Methodist":    {"SMU"},
	"Texas A&M":             {"TAMU", "Texas AM"},
	"Texas Christian":       {"TCU"},
	"Texas-El Paso":         {"UTEP"},
	"Texas-San Antonio":     {"UTSA"},
	"UCLA":                  {"California-Los Angeles"},
	"Virginia Tech":         {"VT", "Va Tech"},
	"Western Kentucky":      {"WKU"},
}

// DefaultTeamAliases returns the built-in alias rows, sorted by alias
func DefaultTeamAliases() []*models.TeamAlias {
	var aliases []*models.TeamAlias
	for canonical, spellings := range defaultAliases {
		for _, s := range spellings {
			aliases = append(aliases, models.NewTeamAlias(s, canonical))
		}
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Key < aliases[j].Key })
	return aliases
}

// SeedAliases stores every alias in aliases and reloads the normalizer once
func SeedAliases(ctx context.Context, repo TeamAliasRepository, normalizer *TeamNameNormalizer, aliases []*models.TeamAlias) (int, error) {
	for _, a := range aliases {
		if err := repo.Upsert(ctx, a); err != nil {
			return 0, fmt.Errorf("failed to seed alias %q: %w", a.Alias, err)
		}
	}
	if normalizer != nil {
		if err := normalizer.Refresh(ctx); err != nil {
			return len(aliases), err
		}
	}
	return len(aliases), nil
}
