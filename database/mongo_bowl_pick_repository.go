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

// illegalOperation is returned by a standalone server asked to start a
// transaction
const illegalOperation = 20

// MongoBowlPickRepository stores bowl confidence entries
type MongoBowlPickRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoBowlPickRepository(db *MongoDB) *MongoBowlPickRepository {
	collection := db.GetCollection(BowlPicksCollection)
	logger := logging.WithPrefix("mongo_bowl_pick_repo")

	createIndexes(collection, logger,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "bowl_game_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "season", Value: 1}, {Key: "user_id", Value: 1}},
		},
	)

	return &MongoBowlPickRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoBowlPickRepository) FindByUserSeason(ctx context.Context, userID primitive.ObjectID, season int) ([]*models.BowlPick, error) {
	return r.find(ctx, bson.M{"user_id": userID, "season": season})
}

func (r *MongoBowlPickRepository) FindBySeason(ctx context.Context, season int) ([]*models.BowlPick, error) {
	return r.find(ctx, bson.M{"season": season})
}

func (r *MongoBowlPickRepository) find(ctx context.Context, filter bson.M) ([]*models.BowlPick, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find bowl picks: %w", err)
	}
	defer cursor.Close(ctx)

	picks := []*models.BowlPick{}
	if err := cursor.All(ctx, &picks); err != nil {
		return nil, fmt.Errorf("failed to decode bowl picks: %w", err)
	}
	return picks, nil
}

// ReplaceUserSeasonPicks swaps in a user's complete bowl entry. The old
// entry is deleted first because confidence values move between games.
// Delete and inserts commit together in a transaction; a standalone
// server, which cannot run transactions, gets the ordered bulk write alone.
func (r *MongoBowlPickRepository) ReplaceUserSeasonPicks(ctx context.Context, userID primitive.ObjectID, season int, picks []*models.BowlPick) error {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(picks)+1)
	writes = append(writes, mongo.NewDeleteManyModel().SetFilter(bson.M{"user_id": userID, "season": season}))
	for _, p := range picks {
		doc := *p
		doc.ID = primitive.NilObjectID
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(&doc))
	}

	err := r.replaceInTransaction(ctx, writes)
	if transactionsUnsupported(err) {
		r.logger.Debugf("Transactions unavailable, saving bowl entry for user %s without one", userID.Hex())
		_, err = r.collection.BulkWrite(ctx, writes)
	}
	if err != nil {
		return fmt.Errorf("failed to replace bowl picks for user %s: %w", userID.Hex(), err)
	}

	r.logger.Debugf("User %s saved %d bowl picks for %d", userID.Hex(), len(picks), season)
	return nil
}

func (r *MongoBowlPickRepository) replaceInTransaction(ctx context.Context, writes []mongo.WriteModel) error {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.collection.BulkWrite(sc, writes)
	})
	return err
}

// transactionsUnsupported reports the error a standalone mongod returns
// for a transaction
func transactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == illegalOperation
}
