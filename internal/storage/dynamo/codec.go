package dynamo

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
)

const (
	attrID        = "id"
	attrTitle     = "title"
	attrCompleted = "completed"
)

var ErrMalformedRecord = errors.New("malformed task record")

// EncodeTask converts a task into the item stored in the table.
func EncodeTask(task models.Task) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID:        &types.AttributeValueMemberS{Value: task.ID},
		attrTitle:     &types.AttributeValueMemberS{Value: task.Title},
		attrCompleted: &types.AttributeValueMemberBOOL{Value: task.Completed},
	}
}

// DecodeTask converts a stored item back into a task. Every attribute
// must be present with its declared type, otherwise ErrMalformedRecord
// is returned.
func DecodeTask(item map[string]types.AttributeValue) (models.Task, error) {
	id, err := stringAttr(item, attrID)
	if err != nil {
		return models.Task{}, err
	}

	title, err := stringAttr(item, attrTitle)
	if err != nil {
		return models.Task{}, err
	}

	completed, err := boolAttr(item, attrCompleted)
	if err != nil {
		return models.Task{}, err
	}

	return models.Task{
		ID:        id,
		Title:     title,
		Completed: completed,
	}, nil
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrID: &types.AttributeValueMemberS{Value: id},
	}
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	av, ok := item[name]
	if !ok {
		return "", fmt.Errorf("%w: missing attribute %q", ErrMalformedRecord, name)
	}

	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("%w: attribute %q is %T, want S", ErrMalformedRecord, name, av)
	}
	return s.Value, nil
}

func boolAttr(item map[string]types.AttributeValue, name string) (bool, error) {
	av, ok := item[name]
	if !ok {
		return false, fmt.Errorf("%w: missing attribute %q", ErrMalformedRecord, name)
	}

	b, ok := av.(*types.AttributeValueMemberBOOL)
	if !ok {
		return false, fmt.Errorf("%w: attribute %q is %T, want BOOL", ErrMalformedRecord, name, av)
	}
	return b.Value, nil
}
