package mongo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
)

// fakeCollection understands the {"_id": id} filters and the
// "$set" update issued by the store.
type fakeCollection struct {
	mu    sync.Mutex
	tasks map[string]models.Task
	err   error
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{tasks: make(map[string]models.Task)}
}

func filterID(filter interface{}) string {
	m, _ := filter.(bson.M)
	id, _ := m["_id"].(string)
	return id
}

func singleResult(task *models.Task, err error) *mongo.SingleResult {
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}
	if task == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(*task, nil, nil)
}

func (c *fakeCollection) ReplaceOne(_ context.Context, filter, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}

	task, ok := replacement.(models.Task)
	if !ok {
		return nil, fmt.Errorf("unexpected replacement %T", replacement)
	}
	id := filterID(filter)

	var upsert bool
	for _, o := range opts {
		if o.Upsert != nil {
			upsert = *o.Upsert
		}
	}

	_, exists := c.tasks[id]
	if !exists && !upsert {
		return &mongo.UpdateResult{}, nil
	}
	c.tasks[id] = task

	if exists {
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return &mongo.UpdateResult{UpsertedCount: 1, UpsertedID: id}, nil
}

func (c *fakeCollection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return singleResult(nil, c.err)
	}
	task, ok := c.tasks[filterID(filter)]
	if !ok {
		return singleResult(nil, nil)
	}
	return singleResult(&task, nil)
}

func (c *fakeCollection) Find(_ context.Context, _ interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}

	ids := make([]string, 0, len(c.tasks))
	for id := range c.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, c.tasks[id])
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (c *fakeCollection) FindOneAndUpdate(_ context.Context, filter, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return singleResult(nil, c.err)
	}

	task, ok := c.tasks[filterID(filter)]
	if !ok {
		return singleResult(nil, nil)
	}
	before := task

	set, _ := update.(bson.M)["$set"].(bson.M)
	if title, ok := set["title"].(string); ok {
		task.Title = title
	}
	if completed, ok := set["completed"].(bool); ok {
		task.Completed = completed
	}
	c.tasks[task.ID] = task

	for _, o := range opts {
		if o.ReturnDocument != nil && *o.ReturnDocument == options.After {
			return singleResult(&task, nil)
		}
	}
	return singleResult(&before, nil)
}

func (c *fakeCollection) DeleteOne(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}

	id := filterID(filter)
	if _, ok := c.tasks[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(c.tasks, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}
