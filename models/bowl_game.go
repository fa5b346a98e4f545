package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BowlGameResult extends the spread result with the outright winner,
// which drives the second bowl payout.
type BowlGameResult struct {
	FavoriteScore  int       `json:"favoriteScore" bson:"favorite_score"`
	UnderdogScore  int       `json:"underdogScore" bson:"underdog_score"`
	SpreadWinner   string    `json:"spreadWinner,omitempty" bson:"spread_winner,omitempty"`
	IsPush         bool      `json:"isPush" bson:"is_push"`
	OutrightWinner string    `json:"outrightWinner,omitempty" bson:"outright_winner,omitempty"`
	EnteredAt      time.Time `json:"enteredAt" bson:"entered_at"`
	EnteredBy      string    `json:"enteredBy" bson:"entered_by"`
}

// BowlGame is one game of the postseason slate, keyed by season and game number
type BowlGame struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Season     int                `json:"season" bson:"season"`
	GameNumber int                `json:"gameNumber" bson:"game_number"`
	BowlName   string             `json:"bowlName" bson:"bowl_name"`
	Favorite   string             `json:"favorite" bson:"favorite"`
	Underdog   string             `json:"underdog" bson:"underdog"`
	Line       float64            `json:"line" bson:"line"`
	Kickoff    time.Time          `json:"kickoff" bson:"kickoff"`
	Result     *BowlGameResult    `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// HasResult returns true once a final score has been entered
func (g *BowlGame) HasResult() bool {
	return g.Result != nil
}

// HasTeam returns true if team is the favorite or the underdog
func (g *BowlGame) HasTeam(team string) bool {
	return team == g.Favorite || team == g.Underdog
}

// IsLocked returns true if the game no longer accepts picks
func (g *BowlGame) IsLocked(now time.Time, policy LockPolicy) bool {
	return policy.Locked(g.Kickoff, now)
}

// Validate checks the fields an uploaded bowl line must carry
func (g *BowlGame) Validate() error {
	if g.GameNumber < 1 {
		return fmt.Errorf("bowl game number must be positive, got %d", g.GameNumber)
	}
	if g.BowlName == "" {
		return fmt.Errorf("bowl name is required for game %d", g.GameNumber)
	}
	return validateLine(g.Favorite, g.Underdog, g.Line)
}

// SlateLocked reports whether the bowl slate is closed, which happens when
// its earliest game kicks off.
func SlateLocked(games []*BowlGame, now time.Time, policy LockPolicy) bool {
	for _, g := range games {
		if g.IsLocked(now, policy) {
			return true
		}
	}
	return false
}
