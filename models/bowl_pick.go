package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BowlPick is one line of a user's bowl confidence entry
type BowlPick struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"userId" bson:"user_id"`
	BowlGameID       primitive.ObjectID `json:"bowlGameId" bson:"bowl_game_id"`
	Season           int                `json:"season" bson:"season"`
	SpreadPick       string             `json:"spreadPick" bson:"spread_pick"`
	ConfidencePoints int                `json:"confidencePoints" bson:"confidence_points"`
	OutrightPick     string             `json:"outrightPick" bson:"outright_pick"`
	CreatedAt        time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ExpectedConfidenceSum is the total of a full entry over n games: 1+2+...+n
func ExpectedConfidenceSum(n int) int {
	if n <= 0 {
		return 0
	}
	return n * (n + 1) / 2
}
