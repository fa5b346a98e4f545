package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MinWeek and MaxWeek bound the regular season.
	MinWeek = 1
	MaxWeek = 14

	// MaxPicksPerWeek is the number of games a user picks each week.
	MaxPicksPerWeek = 6
)

// LockPolicy decides whether kickoff locks a game. Test environments set
// Disabled so picks can be placed on games that have already started.
type LockPolicy struct {
	Disabled bool
}

// Locked reports whether a game kicking off at kickoff is closed to picks at now
func (p LockPolicy) Locked(kickoff, now time.Time) bool {
	if p.Disabled {
		return false
	}
	return !now.Before(kickoff)
}

// GameResult holds the final score of a game and its against-the-spread outcome
type GameResult struct {
	FavoriteScore int       `json:"favoriteScore" bson:"favorite_score"`
	UnderdogScore int       `json:"underdogScore" bson:"underdog_score"`
	SpreadWinner  string    `json:"spreadWinner,omitempty" bson:"spread_winner,omitempty"` // empty on a push
	IsPush        bool      `json:"isPush" bson:"is_push"`
	EnteredAt     time.Time `json:"enteredAt" bson:"entered_at"`
	EnteredBy     string    `json:"enteredBy" bson:"entered_by"`
}

// Game represents a regular-season matchup against the spread
type Game struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Season    int                `json:"season" bson:"season"`
	Week      int                `json:"week" bson:"week"`
	Favorite  string             `json:"favorite" bson:"favorite"`
	Underdog  string             `json:"underdog" bson:"underdog"`
	Line      float64            `json:"line" bson:"line"` // favorite's handicap, always <= 0
	Kickoff   time.Time          `json:"kickoff" bson:"kickoff"`
	Result    *GameResult        `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// HasResult returns true once a final score has been entered
func (g *Game) HasResult() bool {
	return g.Result != nil
}

// IsLocked returns true if the game no longer accepts picks
func (g *Game) IsLocked(now time.Time, policy LockPolicy) bool {
	return policy.Locked(g.Kickoff, now)
}

// HasTeam returns true if team is the favorite or the underdog
func (g *Game) HasTeam(team string) bool {
	return team == g.Favorite || team == g.Underdog
}

// Matchup returns a short "Favorite (-7.5) vs Underdog" description
func (g *Game) Matchup() string {
	return fmt.Sprintf("%s (%s) vs %s", g.Favorite, FormatLine(g.Line), g.Underdog)
}

// Validate checks the fields an uploaded line must carry
func (g *Game) Validate() error {
	if g.Week < MinWeek || g.Week > MaxWeek {
		return fmt.Errorf("week must be between %d and %d, got %d", MinWeek, MaxWeek, g.Week)
	}
	return validateLine(g.Favorite, g.Underdog, g.Line)
}

func validateLine(favorite, underdog string, line float64) error {
	if strings.TrimSpace(favorite) == "" {
		return fmt.Errorf("favorite team name is required")
	}
	if strings.TrimSpace(underdog) == "" {
		return fmt.Errorf("underdog team name is required")
	}
	if strings.EqualFold(strings.TrimSpace(favorite), strings.TrimSpace(underdog)) {
		return fmt.Errorf("favorite and underdog must be different teams (%s)", favorite)
	}
	if line > 0 {
		return fmt.Errorf("line for %s must be zero or negative, got %.1f", favorite, line)
	}
	return nil
}

// FormatLine renders a line the way it is printed on the weekly sheet
func FormatLine(line float64) string {
	if line == 0 {
		return "PK"
	}
	if line > 0 {
		return fmt.Sprintf("+%.1f", line)
	}
	return fmt.Sprintf("%.1f", line)
}
