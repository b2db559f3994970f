// Package dynamo implements the task store on top of a single
// DynamoDB table whose partition key is the string attribute "id".
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
	"github.com/adanyl0v/go-todo-lambda/internal/storage"
)

// Client is the subset of *dynamodb.Client used by the store.
type Client interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type Store struct {
	logger zerolog.Logger
	client Client
	table  string
}

func New(logger zerolog.Logger, client Client, table string) *Store {
	return &Store{
		logger: logger,
		client: client,
		table:  table,
	}
}

func (s *Store) Create(ctx context.Context, task models.Task) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      EncodeTask(task),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to put task")
		return s.wrap(err)
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("put task")
	return nil
}

func (s *Store) GetOne(ctx context.Context, id string) (*models.Task, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       keyOf(id),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to get task")
		return nil, s.wrap(err)
	}

	if len(out.Item) == 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("task not found")
		return nil, storage.ErrTaskNotFound
	}

	task, err := DecodeTask(out.Item)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to decode task")
		return nil, err
	}
	return &task, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Task, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	tasks := make([]models.Task, 0)
	var pages int
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Error().
				Err(err).
				Int("page", pages).
				Msg("failed to scan tasks")
			return nil, s.wrap(err)
		}
		pages++

		for _, item := range page.Items {
			task, err := DecodeTask(item)
			if err != nil {
				s.logger.Error().
					Err(err).
					Msg("failed to decode task")
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int("pages", pages).
		Msg("scanned tasks")
	return tasks, nil
}

func (s *Store) Update(ctx context.Context, id, title string, completed bool) (*models.Task, error) {
	update := expression.
		Set(expression.Name(attrTitle), expression.Value(title)).
		Set(expression.Name(attrCompleted), expression.Value(completed))
	condition := expression.AttributeExists(expression.Name(attrID))

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(condition).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       keyOf(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			s.logger.Debug().
				Str("task_id", id).
				Msg("task not found")
			return nil, storage.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		return nil, s.wrap(err)
	}

	task, err := DecodeTask(out.Attributes)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to decode updated task")
		return nil, err
	}

	s.logger.Debug().
		Str("task_id", id).
		Msg("updated task")
	return &task, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       keyOf(id),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return s.wrap(err)
	}

	s.logger.Debug().
		Str("task_id", id).
		Msg("deleted task")
	return nil
}

func (s *Store) wrap(err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s: %s", storage.ErrTableNotFound, s.table, notFound.ErrorMessage())
	}
	return err
}
