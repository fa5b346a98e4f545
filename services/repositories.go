package services

import (
	"context"

	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRepository is the storage the services need for regular-season games.
// Implemented by database.MongoGameRepository.
type GameRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	FindByWeek(ctx context.Context, season, week int) ([]*models.Game, error)
	FindBySeason(ctx context.Context, season int) ([]*models.Game, error)
	UpsertLines(ctx context.Context, games []*models.Game) error
	// SetResultIfAbsent writes result only when the game has none and
	// reports whether it did.
	SetResultIfAbsent(ctx context.Context, id primitive.ObjectID, result *models.GameResult) (bool, error)
	ReplaceResult(ctx context.Context, id primitive.ObjectID, result *models.GameResult) error
}

// BowlGameRepository is the storage for the bowl slate
type BowlGameRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.BowlGame, error)
	FindBySeason(ctx context.Context, season int) ([]*models.BowlGame, error)
	UpsertLines(ctx context.Context, games []*models.BowlGame) error
	SetResultIfAbsent(ctx context.Context, id primitive.ObjectID, result *models.BowlGameResult) (bool, error)
	ReplaceResult(ctx context.Context, id primitive.ObjectID, result *models.BowlGameResult) error
}

// PickRepository is the storage for regular-season picks
type PickRepository interface {
	FindByUserWeek(ctx context.Context, userID primitive.ObjectID, season, week int) ([]*models.Pick, error)
	FindByUserSeason(ctx context.Context, userID primitive.ObjectID, season int) ([]*models.Pick, error)
	FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error)
	FindBySeason(ctx context.Context, season int) ([]*models.Pick, error)
	// ReplaceUserWeekPicks makes picks the user's complete set for the week
	ReplaceUserWeekPicks(ctx context.Context, userID primitive.ObjectID, season, week int, picks []*models.Pick) error
}

// BowlPickRepository is the storage for bowl confidence entries
type BowlPickRepository interface {
	FindByUserSeason(ctx context.Context, userID primitive.ObjectID, season int) ([]*models.BowlPick, error)
	FindBySeason(ctx context.Context, season int) ([]*models.BowlPick, error)
	ReplaceUserSeasonPicks(ctx context.Context, userID primitive.ObjectID, season int, picks []*models.BowlPick) error
}

// UserRepository is the storage for authenticated users
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.User, error)
	UpsertBySubject(ctx context.Context, user *models.User) (*models.User, error)
}

// TeamAliasRepository is the storage behind the team name normalizer
type TeamAliasRepository interface {
	FindAll(ctx context.Context) ([]*models.TeamAlias, error)
	Upsert(ctx context.Context, alias *models.TeamAlias) error
	Delete(ctx context.Context, key string) error
}
