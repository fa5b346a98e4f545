package database

import (
	"context"
	"fmt"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPickRepository implements services.PickRepository for MongoDB
type MongoPickRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewMongoPickRepository creates a new MongoDB pick repository
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	collection := db.GetCollection(PicksCollection)
	logger := logging.WithPrefix("mongo_pick_repo")

	createIndexes(collection, logger,
		// one pick per user per game
		mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "game_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "season", Value: 1}, {Key: "week", Value: 1}},
		},
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
	)

	return &MongoPickRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoPickRepository) FindByUserWeek(ctx context.Context, userID primitive.ObjectID, season, week int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"user_id": userID, "season": season, "week": week})
}

func (r *MongoPickRepository) FindByUserSeason(ctx context.Context, userID primitive.ObjectID, season int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"user_id": userID, "season": season})
}

func (r *MongoPickRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"season": season, "week": week})
}

func (r *MongoPickRepository) FindBySeason(ctx context.Context, season int) ([]*models.Pick, error) {
	return r.find(ctx, bson.M{"season": season})
}

func (r *MongoPickRepository) find(ctx context.Context, filter bson.M) ([]*models.Pick, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find picks: %w", err)
	}
	defer cursor.Close(ctx)

	picks := []*models.Pick{}
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode picks: %w", err)
	}
	return picks, nil
}

// ReplaceUserWeekPicks removes the user's picks for the week that are not
// in picks and upserts the rest by (user, game)
func (r *MongoPickRepository) ReplaceUserWeekPicks(ctx context.Context, userID primitive.ObjectID, season, week int, picks []*models.Pick) error {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	keep := make([]primitive.ObjectID, 0, len(picks))
	for _, p := range picks {
		keep = append(keep, p.GameID)
	}

	writes := []mongo.WriteModel{
		mongo.NewDeleteManyModel().SetFilter(bson.M{
			"user_id": userID,
			"season":  season,
			"week":    week,
			"game_id": bson.M{"$nin": keep},
		}),
	}
	for _, p := range picks {
		filter := bson.M{"user_id": userID, "game_id": p.GameID}
		update := bson.M{
			"$set": bson.M{
				"team":       p.Team,
				"season":     season,
				"week":       week,
				"updated_at": p.UpdatedAt,
			},
			"$setOnInsert": bson.M{"created_at": p.CreatedAt},
		}
		writes = append(writes, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, writes)
	if err != nil {
		return fmt.Errorf("failed to replace picks for user %s week %d: %w", userID.Hex(), week, err)
	}

	r.logger.Debugf("User %s week %d: %d removed, %d added, %d changed",
		userID.Hex(), week, result.DeletedCount, result.UpsertedCount, result.ModifiedCount)
	return nil
}
