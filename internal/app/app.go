// Package app wires the record lifecycle: reads go through the collection
// cache, writes go to the store and invalidate the affected collection
// before anything is re-read. Within one user action the order is always
// write, invalidate, re-read.
package app

import (
	"context"
	"time"

	"github.com/mesh-intelligence/lifeos/internal/cache"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// App is the session-scoped service handed to handlers. It owns the cache
// and the store reference; there are no package-level singletons.
type App struct {
	store types.RecordStore
	cache *cache.Collections
	now   func() time.Time
}

// New creates an App over an attached store.
func New(store types.RecordStore, c *cache.Collections) *App {
	return &App{store: store, cache: c, now: time.Now}
}

// Store exposes the underlying record store for cache-bypassing reads
// (the export download wants fresh data, not a snapshot).
func (a *App) Store() types.RecordStore {
	return a.store
}

// Rows returns the raw cached rows of a collection (archive views work on
// raw rows plus column roles).
func (a *App) Rows(ctx context.Context, collection string) ([]types.Row, error) {
	return a.cache.Get(ctx, collection)
}

// Tasks returns the typed tasks snapshot.
func (a *App) Tasks(ctx context.Context) ([]types.Task, error) {
	rows, err := a.cache.Get(ctx, types.TasksCollection)
	tasks := make([]types.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, types.TaskFromRow(r))
	}
	return tasks, err
}

// Transactions returns the typed finance snapshot.
func (a *App) Transactions(ctx context.Context) ([]types.Transaction, error) {
	rows, err := a.cache.Get(ctx, types.FinanceCollection)
	txs := make([]types.Transaction, 0, len(rows))
	for _, r := range rows {
		txs = append(txs, types.TransactionFromRow(r))
	}
	return txs, err
}

// HabitEntries returns the typed habits snapshot.
func (a *App) HabitEntries(ctx context.Context) ([]types.HabitEntry, error) {
	rows, err := a.cache.Get(ctx, types.HabitsCollection)
	entries := make([]types.HabitEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, types.HabitEntryFromRow(r))
	}
	return entries, err
}

// JournalEntries returns the typed journal snapshot.
func (a *App) JournalEntries(ctx context.Context) ([]types.JournalEntry, error) {
	rows, err := a.cache.Get(ctx, types.JournalCollection)
	entries := make([]types.JournalEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, types.JournalEntryFromRow(r))
	}
	return entries, err
}

// AdvisorTurns returns the conversation log.
func (a *App) AdvisorTurns(ctx context.Context) ([]types.AdvisorTurn, error) {
	rows, err := a.cache.Get(ctx, types.AdvisorCollection)
	turns := make([]types.AdvisorTurn, 0, len(rows))
	for _, r := range rows {
		turns = append(turns, types.AdvisorTurnFromRow(r))
	}
	return turns, err
}

// Append writes a typed record and invalidates its collection.
func (a *App) Append(ctx context.Context, rec types.Record) error {
	if err := a.store.Append(ctx, rec.Collection(), rec.Values()); err != nil {
		return err
	}
	a.cache.Invalidate(rec.Collection())
	return nil
}

// SetTaskStatus mutates a task's status in place. The handle must come
// from the latest load; after any delete it is stale.
func (a *App) SetTaskStatus(ctx context.Context, h types.Handle, status string) error {
	if !types.ValidTaskStatus(status) {
		return types.ErrInvalidStatus
	}
	if err := a.store.UpdateCell(ctx, types.TasksCollection, h, "status", status); err != nil {
		return err
	}
	a.cache.Invalidate(types.TasksCollection)
	return nil
}

// Delete removes a row by its position handle and invalidates the
// collection, so the next load recomputes every remaining handle.
func (a *App) Delete(ctx context.Context, collection string, h types.Handle) error {
	if err := a.store.DeleteRow(ctx, collection, h); err != nil {
		return err
	}
	a.cache.Invalidate(collection)
	return nil
}

// Truncate clears a collection back to header-only (conversation reset).
func (a *App) Truncate(ctx context.Context, collection string) error {
	if err := a.store.Truncate(ctx, collection); err != nil {
		return err
	}
	a.cache.Invalidate(collection)
	return nil
}

// Today returns the current date in the collections' date layout.
func (a *App) Today() string {
	return a.now().Format(types.DateLayout)
}

// Timestamp returns the current time in the collections' timestamp layout.
func (a *App) Timestamp() string {
	return a.now().Format(types.TimestampLayout)
}
