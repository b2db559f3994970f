// Package mongo implements the task store on a MongoDB
// collection, keying documents by the task ID.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
	"github.com/adanyl0v/go-todo-lambda/internal/storage"
)

// Collection is the subset of *mongo.Collection used by the store.
type Collection interface {
	ReplaceOne(ctx context.Context, filter, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOneAndUpdate(ctx context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type Store struct {
	logger     zerolog.Logger
	collection Collection
	disconnect func(ctx context.Context) error
}

func New(logger zerolog.Logger, client *mongo.Client, database, collection string) *Store {
	return newStore(logger, client.Database(database).Collection(collection), client.Disconnect)
}

func newStore(logger zerolog.Logger, collection Collection, disconnect func(ctx context.Context) error) *Store {
	return &Store{
		logger:     logger,
		collection: collection,
		disconnect: disconnect,
	}
}

func (s *Store) Create(ctx context.Context, task models.Task) error {
	_, err := s.collection.ReplaceOne(
		ctx,
		bson.M{"_id": task.ID},
		task,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to replace task")
		return err
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("replaced task")
	return nil
}

func (s *Store) GetOne(ctx context.Context, id string) (*models.Task, error) {
	task := new(models.Task)
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Debug().
				Str("task_id", id).
				Msg("task not found")
			return nil, storage.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to find task")
		return nil, err
	}
	return task, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Task, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to find tasks")
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	tasks := make([]models.Task, 0)
	err = cursor.All(ctx, &tasks)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to decode tasks")
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("found tasks")
	return tasks, nil
}

func (s *Store) Update(ctx context.Context, id, title string, completed bool) (*models.Task, error) {
	update := bson.M{"$set": bson.M{
		"title":     title,
		"completed": completed,
	}}

	task := new(models.Task)
	err := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Debug().
				Str("task_id", id).
				Msg("task not found")
			return nil, storage.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Debug().
		Str("task_id", id).
		Msg("updated task")
	return task, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}

	s.logger.Debug().
		Str("task_id", id).
		Int64("affected", result.DeletedCount).
		Msg("deleted task")
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	err := s.disconnect(ctx)
	if err != nil {
		return err
	}
	s.logger.Info().Msg("disconnected from mongo")
	return nil
}
