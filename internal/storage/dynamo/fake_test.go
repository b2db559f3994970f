package dynamo

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient keeps items in memory and answers scans in pages
// of pageSize items ordered by id.
type fakeClient struct {
	mu       sync.Mutex
	table    string
	items    map[string]map[string]types.AttributeValue
	pageSize int
	scans    int
	err      error
}

func newFakeClient(table string) *fakeClient {
	return &fakeClient{
		table:    table,
		items:    make(map[string]map[string]types.AttributeValue),
		pageSize: 2,
	}
}

func (c *fakeClient) checkTable(name *string) error {
	if c.err != nil {
		return c.err
	}
	if aws.ToString(name) != c.table {
		return &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
	}
	return nil
}

func idOf(key map[string]types.AttributeValue) string {
	s, _ := key[attrID].(*types.AttributeValueMemberS)
	if s == nil {
		return ""
	}
	return s.Value
}

func (c *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkTable(in.TableName); err != nil {
		return nil, err
	}
	c.items[idOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (c *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkTable(in.TableName); err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: c.items[idOf(in.Key)]}, nil
}

// UpdateItem applies the string value to the title and the boolean
// value to the completion flag, which is all the store ever sets.
func (c *fakeClient) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkTable(in.TableName); err != nil {
		return nil, err
	}

	id := idOf(in.Key)
	item, ok := c.items[id]
	if !ok && in.ConditionExpression != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}

	updated := map[string]types.AttributeValue{attrID: &types.AttributeValueMemberS{Value: id}}
	for k, v := range item {
		updated[k] = v
	}
	for _, v := range in.ExpressionAttributeValues {
		switch v.(type) {
		case *types.AttributeValueMemberS:
			updated[attrTitle] = v
		case *types.AttributeValueMemberBOOL:
			updated[attrCompleted] = v
		}
	}
	c.items[id] = updated

	return &dynamodb.UpdateItemOutput{Attributes: updated}, nil
}

func (c *fakeClient) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkTable(in.TableName); err != nil {
		return nil, err
	}
	delete(c.items, idOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *fakeClient) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkTable(in.TableName); err != nil {
		return nil, err
	}
	c.scans++

	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := idOf(in.ExclusiveStartKey)
		start = sort.SearchStrings(ids, after)
		if start < len(ids) && ids[start] == after {
			start++
		}
	}

	end := start + c.pageSize
	if end > len(ids) {
		end = len(ids)
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, c.items[id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = keyOf(ids[end-1])
	}
	return out, nil
}
