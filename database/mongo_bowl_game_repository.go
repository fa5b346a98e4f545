package database

import (
	"context"
	"errors"
	"fmt"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoBowlGameRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoBowlGameRepository(db *MongoDB) *MongoBowlGameRepository {
	collection := db.GetCollection(BowlGamesCollection)
	logger := logging.WithPrefix("mongo_bowl_repo")

	createIndexes(collection, logger, mongo.IndexModel{
		Keys:    bson.D{{Key: "season", Value: 1}, {Key: "game_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoBowlGameRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoBowlGameRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BowlGame, error) {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	var game models.BowlGame
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("bowl game %s: %w", id.Hex(), models.ErrBowlGameNotFound)
		}
		return nil, fmt.Errorf("failed to find bowl game %s: %w", id.Hex(), err)
	}
	return &game, nil
}

func (r *MongoBowlGameRepository) FindBySeason(ctx context.Context, season int) ([]*models.BowlGame, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "game_number", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"season": season}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bowl games for %d: %w", season, err)
	}
	defer cursor.Close(ctx)

	games := []*models.BowlGame{}
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode bowl games: %w", err)
	}
	return games, nil
}

// UpsertLines writes each bowl game keyed by season and game number,
// leaving any result in place
func (r *MongoBowlGameRepository) UpsertLines(ctx context.Context, games []*models.BowlGame) error {
	if len(games) == 0 {
		return nil
	}
	ctx, cancel := WithLongTimeout(ctx)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(games))
	for _, g := range games {
		filter := bson.M{"season": g.Season, "game_number": g.GameNumber}
		update := bson.M{
			"$set": bson.M{
				"bowl_name":  g.BowlName,
				"favorite":   g.Favorite,
				"underdog":   g.Underdog,
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
		return fmt.Errorf("failed to upsert %d bowl games: %w", len(games), err)
	}

	r.logger.Debugf("Upserted bowl lines: %d inserted, %d updated", result.UpsertedCount, result.ModifiedCount)
	return nil
}

func (r *MongoBowlGameRepository) SetResultIfAbsent(ctx context.Context, id primitive.ObjectID, result *models.BowlGameResult) (bool, error) {
	return setResultIfAbsent(ctx, r.collection, id, result)
}

func (r *MongoBowlGameRepository) ReplaceResult(ctx context.Context, id primitive.ObjectID, result *models.BowlGameResult) error {
	matched, err := replaceResult(ctx, r.collection, id, result)
	if err != nil {
		return err
	}
	if !matched {
		return fmt.Errorf("bowl game %s: %w", id.Hex(), models.ErrBowlGameNotFound)
	}
	return nil
}
