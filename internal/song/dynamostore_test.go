package song

import (
	"context"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo is an in-memory table keyed by PK. Only the calls DynamoStore
// makes are implemented.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI

	mu    sync.Mutex
	items map[string]map[string]*dynamodb.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
}

func (f *fakeDynamo) conditionFailed() error {
	return &dynamodb.ConditionalCheckFailedException{Message_: aws.String("conditional check failed")}
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.StringValue(in.Item[attrID].S)
	if _, ok := f.items[id]; !ok && in.ConditionExpression != nil {
		return nil, f.conditionFailed()
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[aws.StringValue(in.Key[attrID].S)]}, nil
}

func (f *fakeDynamo) DeleteItemWithContext(_ aws.Context, in *dynamodb.DeleteItemInput, _ ...request.Option) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := aws.StringValue(in.Key[attrID].S)
	if _, ok := f.items[id]; !ok {
		return nil, f.conditionFailed()
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) ScanPagesWithContext(_ aws.Context, _ *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool, _ ...request.Option) error {
	f.mu.Lock()
	var items []map[string]*dynamodb.AttributeValue
	for _, item := range f.items {
		items = append(items, map[string]*dynamodb.AttributeValue{attrID: item[attrID], attrName: item[attrName]})
	}
	f.mu.Unlock()
	// Two pages to exercise pagination.
	half := len(items) / 2
	if fn(&dynamodb.ScanOutput{Items: items[:half]}, false) {
		fn(&dynamodb.ScanOutput{Items: items[half:]}, true)
	}
	return nil
}

func TestDynamoStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newFakeDynamo()
	store := NewDynamoStoreWithClient(db, "songs")

	s := sampleSong(t)
	id, err := store.Create(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "sample", aws.StringValue(db.items[id][attrName].S))

	for _, name := range []string{"beta", "alpha"} {
		o := New(name)
		o.AddTrack()
		_, err := store.Create(ctx, o)
		require.NoError(t, err)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"alpha", "beta", "sample"}, []string{list[0].Name, list[1].Name, list[2].Name})

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assertSameSong(t, s, loaded)

	require.NoError(t, store.Rename(ctx, id, "renamed"))
	loaded, err = store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", loaded.Name)
	assert.Equal(t, "renamed", aws.StringValue(db.items[id][attrName].S))

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, id), ErrNotFound)
}

func TestDynamoStoreSaveNeverCreates(t *testing.T) {
	store := NewDynamoStoreWithClient(newFakeDynamo(), "songs")
	assert.ErrorIs(t, store.Save(context.Background(), sampleSong(t)), ErrNotFound)
}
