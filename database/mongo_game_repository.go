package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoGameRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoGameRepository(db *MongoDB) *MongoGameRepository {
	collection := db.GetCollection(GamesCollection)
	logger := logging.WithPrefix("mongo_game_repo")

	createIndexes(collection, logger,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
				{Key: "favorite", Value: 1},
				{Key: "underdog", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "season", Value: 1}, {Key: "kickoff", Value: 1}},
		},
	)

	return &MongoGameRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var game models.Game
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("game %s: %w", id.Hex(), models.ErrGameNotFound)
		}
		return nil, fmt.Errorf("failed to find game %s: %w", id.Hex(), err)
	}
	return &game, nil
}

func (r *MongoGameRepository) FindByWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	return r.find(ctx, bson.M{"season": season, "week": week})
}

func (r *MongoGameRepository) FindBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	return r.find(ctx, bson.M{"season": season})
}

func (r *MongoGameRepository) find(ctx context.Context, filter bson.M) ([]*models.Game, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "week", Value: 1}, {Key: "kickoff", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find games: %w", err)
	}
	defer cursor.Close(ctx)

	games := []*models.Game{}
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}

// UpsertLines writes line and kickoff for each game, keyed by season,
// week and matchup. The result field is never part of the update.
func (r *MongoGameRepository) UpsertLines(ctx context.Context, games []*models.Game) error {
	if len(games) == 0 {
		return nil
	}
	ctx, cancel := WithLongTimeout(ctx)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(games))
	for _, g := range games {
		filter := bson.M{
			"season":   g.Season,
			"week":     g.Week,
			"favorite": g.Favorite,
			"underdog": g.Underdog,
		}
		update := bson.M{
			"$set": bson.M{
				"line":       g.Line,
				"kickoff":    g.Kickoff,
				"updated_at": g.UpdatedAt,
			},
			"$setOnInsert": bson.M{"created_at": g.CreatedAt},
		}
		writes = append(writes, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to upsert %d games: %w", len(games), err)
	}

	r.logger.Debugf("Upserted lines: %d inserted, %d updated", result.UpsertedCount, result.ModifiedCount)
	return nil
}

// SetResultIfAbsent only matches a game whose result is not set yet, so a
// second writer gets false instead of overwriting
func (r *MongoGameRepository) SetResultIfAbsent(ctx context.Context, id primitive.ObjectID, result *models.GameResult) (bool, error) {
	return setResultIfAbsent(ctx, r.collection, id, result)
}

func (r *MongoGameRepository) ReplaceResult(ctx context.Context, id primitive.ObjectID, result *models.GameResult) error {
	matched, err := replaceResult(ctx, r.collection, id, result)
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("game %s: %w", id.Hex(), models.ErrGameNotFound)
	}
	return nil
}

func setResultIfAbsent(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, result interface{}) (bool, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	filter := bson.M{"_id": id, "result": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"result": result, "updated_at": time.Now()}}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set result on %s: %w", id.Hex(), err)
	}
	return res.ModifiedCount == 1, nil
}

func replaceResult(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, result interface{}) (bool, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"result": result, "updated_at": time.Now()}}
	res, err := collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, fmt.Errorf("failed to replace result on %s: %w", id.Hex(), err)
	}
	return res.MatchedCount == 1, nil
}
