package database

import (
	"context"
	"fmt"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTeamAliasRepository stores alias -> canonical team names. The
// lower-cased alias is the document _id, which keeps aliases unique
// regardless of case.
type MongoTeamAliasRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoTeamAliasRepository(db *MongoDB) *MongoTeamAliasRepository {
	collection := db.GetCollection(TeamAliasesCollection)
	logger := logging.WithPrefix("mongo_alias_repo")

	createIndexes(collection, logger, mongo.IndexModel{
		Keys: bson.D{{Key: "canonical_name", Value: 1}},
	})

	return &MongoTeamAliasRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoTeamAliasRepository) FindAll(ctx context.Context) ([]*models.TeamAlias, error) {
	ctx, cancel := WithMediumTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "canonical_name", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find team aliases: %w", err)
	}
	defer cursor.Close(ctx)

	aliases := []*models.TeamAlias{}
	if err := cursor.All(ctx, &aliases); err != nil {
		return nil, fmt.Errorf("failed to decode team aliases: %w", err)
	}
	return aliases, nil
}

func (r *MongoTeamAliasRepository) Upsert(ctx context.Context, alias *models.TeamAlias) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": alias.Key}, alias, opts); err != nil {
		return fmt.Errorf("failed to upsert alias %q: %w", alias.Alias, err)
	}
	return nil
}

func (r *MongoTeamAliasRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := WithShortTimeout(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete alias %q: %w", key, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("alias %q: %w", key, models.ErrAliasNotFound)
	}
	return nil
}
