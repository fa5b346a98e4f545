package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cfb-pickem-go/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// changeStreamsUnsupported is the server error for $changeStream on a
// standalone mongod
const changeStreamsUnsupported = 40573

// ChangeEvent is a trimmed change stream notification
type ChangeEvent struct {
	Collection  string `json:"collection"`
	Operation   string `json:"operation"`
	DocumentKey string `json:"documentKey,omitempty"`
}

// ChangeStreamWatcher follows inserts, updates and deletes on a collection
// so other instances can drop cached state
type ChangeStreamWatcher struct {
	db         *MongoDB
	retryDelay time.Duration
	logger     *logging.Logger
}

// NewChangeStreamWatcher creates a watcher that reconnects after retryDelay
func NewChangeStreamWatcher(db *MongoDB, retryDelay time.Duration) *ChangeStreamWatcher {
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	return &ChangeStreamWatcher{
		db:         db,
		retryDelay: retryDelay,
		logger:     logging.WithPrefix("ChangeStream"),
	}
}

// Watch blocks, calling onChange for every write to collection, until ctx
// is cancelled. It gives up when the server does not support change streams.
func (w *ChangeStreamWatcher) Watch(ctx context.Context, collection string, onChange func(ChangeEvent)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}},
		}}},
	}

	for {
		err := w.watchOnce(ctx, collection, pipeline, onChange)
		if ctx.Err() != nil {
			return nil
		}

		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Code == changeStreamsUnsupported {
			w.logger.Warnf("Change streams unavailable (not a replica set), %s will not be watched", collection)
			return err
		}
		w.logger.Errorf("Watch on %s ended: %v; reconnecting in %s", collection, err, w.retryDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.retryDelay):
		}
	}
}

func (w *ChangeStreamWatcher) watchOnce(ctx context.Context, collection string, pipeline mongo.Pipeline, onChange func(ChangeEvent)) error {
	stream, err := w.db.GetCollection(collection).Watch(ctx, pipeline, options.ChangeStream())
	if err != nil {
		return fmt.Errorf("failed to open change stream: %w", err)
	}
	defer stream.Close(context.Background())

	w.logger.Infof("Watching %s", collection)
	for stream.Next(ctx) {
		var raw struct {
			OperationType string `bson:"operationType"`
			DocumentKey   bson.M `bson:"documentKey"`
		}
		if err := stream.Decode(&raw); err != nil {
			w.logger.Errorf("Failed to decode change on %s: %v", collection, err)
			continue
		}

		event := ChangeEvent{Collection: collection, Operation: raw.OperationType}
		if id, ok := raw.DocumentKey["_id"]; ok {
			event.DocumentKey = fmt.Sprint(id)
		}
		w.logger.Debugf("%s %s %s", collection, event.Operation, event.DocumentKey)
		onChange(event)
	}
	if err := stream.Err(); err != nil {
		return err
	}
	return errors.New("change stream closed")
}
