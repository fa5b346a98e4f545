package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pick is a user's against-the-spread selection for one regular-season game.
// Season and week are copied from the game so a user's week can be loaded
// without touching the games collection.
type Pick struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	GameID    primitive.ObjectID `json:"gameId" bson:"game_id"`
	Team      string             `json:"team" bson:"team"`
	Season    int                `json:"season" bson:"season"`
	Week      int                `json:"week" bson:"week"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// PickResult represents the outcome of a pick
type PickResult string

const (
	PickResultPending PickResult = "pending"
	PickResultWin     PickResult = "win"
	PickResultLoss    PickResult = "loss"
	PickResultPush    PickResult = "push"
)

// IsDecided returns true for win, loss and push
func (r PickResult) IsDecided() bool {
	return r == PickResultWin || r == PickResultLoss || r == PickResultPush
}

// Record is a win-loss-push tally. Pending picks are tracked so that
// "games played" includes picks whose game has no result yet.
type Record struct {
	Wins    int `json:"wins" bson:"wins"`
	Losses  int `json:"losses" bson:"losses"`
	Pushes  int `json:"pushes" bson:"pushes"`
	Pending int `json:"pending" bson:"pending"`
}

// Add counts one outcome
func (r *Record) Add(result PickResult) {
	switch result {
	case PickResultWin:
		r.Wins++
	case PickResultLoss:
		r.Losses++
	case PickResultPush:
		r.Pushes++
	default:
		r.Pending++
	}
}

// Merge adds another record into this one
func (r *Record) Merge(other Record) {
	r.Wins += other.Wins
	r.Losses += other.Losses
	r.Pushes += other.Pushes
	r.Pending += other.Pending
}

// GamesPlayed counts every pick, decided or not
func (r Record) GamesPlayed() int {
	return r.Wins + r.Losses + r.Pushes + r.Pending
}

// WinPercentage is wins / (wins + losses); pushes are neither
func (r Record) WinPercentage() float64 {
	decided := r.Wins + r.Losses
	if decided == 0 {
		return 0
	}
	return float64(r.Wins) / float64(decided)
}

// String returns the record in "W-L-P" format
func (r Record) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Pushes)
}
