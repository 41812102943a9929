package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// fakeStore counts fetches and serves canned rows per collection.
type fakeStore struct {
	mu      sync.Mutex
	fetches map[string]int
	rows    map[string][]types.Row
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		fetches: make(map[string]int),
		rows:    make(map[string][]types.Row),
	}
}

func (f *fakeStore) Rows(ctx context.Context, collection string) ([]types.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches[collection]++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[collection], nil
}

func (f *fakeStore) Append(ctx context.Context, collection string, values []string) error {
	return nil
}

func (f *fakeStore) UpdateCell(ctx context.Context, collection string, h types.Handle, column, value string) error {
	return nil
}

func (f *fakeStore) DeleteRow(ctx context.Context, collection string, h types.Handle) error {
	return nil
}

func (f *fakeStore) Truncate(ctx context.Context, collection string) error {
	return nil
}

func (f *fakeStore) fetchCount(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[collection]
}

func taskRows(titles ...string) []types.Row {
	rows := make([]types.Row, len(titles))
	for i, title := range titles {
		rows[i] = types.Row{
			Handle: types.Handle(i + types.HeaderOffset),
			Cells:  map[string]string{"title": title},
		}
	}
	return rows
}

func TestGetWithinTTLFetchesOnce(t *testing.T) {
	store := newFakeStore()
	store.rows[types.TasksCollection] = taskRows("a", "b")
	c := New(store, time.Minute)
	ctx := context.Background()

	first, err := c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)
	second, err := c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.fetchCount(types.TasksCollection))
}

func TestGetAfterTTLRefetches(t *testing.T) {
	store := newFakeStore()
	store.rows[types.TasksCollection] = taskRows("a")
	c := New(store, 20*time.Millisecond)
	ctx := context.Background()

	_, err := c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)

	// Wait well past the TTL; the expirable LRU evicts on a bucket tick.
	time.Sleep(150 * time.Millisecond)

	_, err = c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)
	assert.Equal(t, 2, store.fetchCount(types.TasksCollection))
}

func TestInvalidateForcesFetch(t *testing.T) {
	store := newFakeStore()
	store.rows[types.TasksCollection] = taskRows("a")
	c := New(store, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)

	// The next get after a write's invalidation reflects the mutation.
	store.mu.Lock()
	store.rows[types.TasksCollection] = taskRows("a", "b")
	store.mu.Unlock()
	c.Invalidate(types.TasksCollection)

	rows, err := c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 2, store.fetchCount(types.TasksCollection))
}

func TestInvalidateAll(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)
	_, err = c.Get(ctx, types.FinanceCollection)
	require.NoError(t, err)

	c.InvalidateAll()

	_, err = c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)
	_, err = c.Get(ctx, types.FinanceCollection)
	require.NoError(t, err)
	assert.Equal(t, 2, store.fetchCount(types.TasksCollection))
	assert.Equal(t, 2, store.fetchCount(types.FinanceCollection))
}

func TestGetFailSoft(t *testing.T) {
	store := newFakeStore()
	store.err = types.NewStoreError(types.ErrKindConnectivity, types.TasksCollection,
		errors.New("sheet unreachable"))
	c := New(store, time.Minute)

	rows, err := c.Get(context.Background(), types.TasksCollection)

	// Empty data for rendering, classified error for the caller.
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, types.ErrKindConnectivity, types.ErrKind(err))

	// Failures are not cached; the next get retries the store.
	_, _ = c.Get(context.Background(), types.TasksCollection)
	assert.Equal(t, 2, store.fetchCount(types.TasksCollection))
}

func TestIndependentCollections(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)
	c.Invalidate(types.FinanceCollection) // no effect on tasks

	_, err = c.Get(ctx, types.TasksCollection)
	require.NoError(t, err)
	assert.Equal(t, 1, store.fetchCount(types.TasksCollection))
}
