// Package integration exercises the full stack in one process: sqlite
// store, cache, app service, advisor, export, and the HTTP API.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lifeos/internal/advisor"
	"github.com/mesh-intelligence/lifeos/internal/app"
	"github.com/mesh-intelligence/lifeos/internal/cache"
	"github.com/mesh-intelligence/lifeos/internal/extract"
	"github.com/mesh-intelligence/lifeos/internal/web"
	"github.com/mesh-intelligence/lifeos/pkg/lifeos"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// cannedModel replies with a fixed string for every prompt.
type cannedModel struct{ reply string }

func (m cannedModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.reply, nil
}

type env struct {
	server *httptest.Server
	client *http.Client
	app    *app.App
}

// newEnv opens a sqlite store through the public factory and stands up
// the whole dashboard behind a passphrase.
func newEnv(t *testing.T, model extract.Generator) *env {
	t.Helper()

	store, closeStore, err := lifeos.OpenStore(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { closeStore() })

	a := app.New(store, cache.New(store, time.Minute))
	opts := web.Options{App: a, Passphrase: "secret"}
	if model != nil {
		opts.Extractor = extract.New(model)
		opts.Advisor = advisor.New(a, model)
	}

	ts := httptest.NewServer(web.New(opts).Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &env{server: ts, client: &http.Client{Jar: jar}, app: a}
}

func (e *env) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := e.client.Post(e.server.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func (e *env) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	return resp
}

func (e *env) login(t *testing.T) {
	t.Helper()
	resp := e.post(t, "/api/login", map[string]string{"passphrase": "secret"})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// TestDashboardLifecycle walks the primary user journey: log in, add
// records of each kind, see them reflected in the summary, complete a
// task, ask the advisor, and delete a row.
func TestDashboardLifecycle(t *testing.T) {
	e := newEnv(t, cannedModel{reply: "Keep the grocery budget under control."})
	e.login(t)

	records := []map[string]any{
		{
			"collection": types.TasksCollection,
			"cells":      map[string]string{"title": "File taxes", "priority": "High", "status": "Pending"},
		},
		{
			"collection": types.FinanceCollection,
			"cells":      map[string]string{"item": "Groceries", "category": "Food", "amount": "120.50", "kind": "expense"},
		},
		{
			"collection": types.FinanceCollection,
			"cells":      map[string]string{"item": "Salary", "category": "Work", "amount": "3000", "kind": "income"},
		},
		{
			"collection": types.HabitsCollection,
			"cells":      map[string]string{"habit_name": "Gym", "status": "Done"},
		},
		{
			"collection": types.JournalCollection,
			"cells":      map[string]string{"body": "Good day overall", "mood_label": "Happy"},
		},
	}
	for _, rec := range records {
		resp := e.post(t, "/api/records", rec)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// Complete the task; the summary must pick up the XP on next read.
	resp := e.post(t, "/api/tasks/2/status", map[string]string{"status": types.TaskStatusDone})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	body := decode(t, e.get(t, "/api/summary"))
	summary := body["summary"].(map[string]any)
	assert.InDelta(t, 2879.5, summary["balance"], 0.001)
	assert.EqualValues(t, 0, summary["pending_tasks"])
	xp := summary["xp"].(map[string]any)
	assert.EqualValues(t, 25, xp["xp"])

	// Ask the advisor; the turn lands in the advisor log.
	ask := e.post(t, "/api/advisor", map[string]string{"question": "how is my spending?"})
	turn := decode(t, ask)
	assert.Equal(t, "Keep the grocery budget under control.", turn["answer"])

	hist := decode(t, e.get(t, "/api/advisor"))
	assert.Len(t, hist["turns"].([]any), 1)

	// Delete the journal entry.
	req, err := http.NewRequest(http.MethodDelete, e.server.URL+"/api/collections/journal/rows/2", nil)
	require.NoError(t, err)
	del, err := e.client.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	rows, err := e.app.Rows(context.Background(), types.JournalCollection)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// TestPersistenceAcrossReopen verifies the sqlite store keeps data
// between process lifetimes.
func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	store, closeStore, err := lifeos.OpenStore(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, types.TasksCollection,
		[]string{"2025-06-01 09:00:00", "Water plants", "Low", "Pending"}))
	require.NoError(t, closeStore())

	store, closeStore, err = lifeos.OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer closeStore()

	rows, err := store.Rows(ctx, types.TasksCollection)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Water plants", rows[0].Cell("title"))
}
