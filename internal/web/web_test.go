package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/lifeos/internal/advisor"
	"github.com/mesh-intelligence/lifeos/internal/app"
	"github.com/mesh-intelligence/lifeos/internal/cache"
	"github.com/mesh-intelligence/lifeos/internal/extract"
	"github.com/mesh-intelligence/lifeos/internal/sqlite"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// fakeGenerator returns a canned model reply.
type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

// setupServer stands up the full API over a real sqlite backend. The
// returned client carries a cookie jar so login sessions stick.
func setupServer(t *testing.T, passphrase string, gen extract.Generator) (*httptest.Server, *http.Client) {
	t.Helper()

	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })

	a := app.New(b, cache.New(b, time.Minute))

	opts := Options{App: a, Passphrase: passphrase}
	if gen != nil {
		opts.Extractor = extract.New(gen)
		opts.Advisor = advisor.New(a, gen)
	}

	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func login(t *testing.T, c *http.Client, base, passphrase string) {
	t.Helper()
	resp := postJSON(t, c, base+"/api/login", map[string]string{"passphrase": passphrase})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestLoginWrongPassphrase(t *testing.T) {
	ts, c := setupServer(t, "secret", nil)

	resp := postJSON(t, c, ts.URL+"/api/login", map[string]string{"passphrase": "nope"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	ts, c := setupServer(t, "secret", nil)

	resp, err := c.Get(ts.URL + "/api/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginThenSummary(t *testing.T) {
	ts, c := setupServer(t, "secret", nil)
	login(t, c, ts.URL, "secret")

	resp, err := c.Get(ts.URL + "/api/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["ai_enabled"])
	assert.Equal(t, false, body["auth_open"])
	assert.Contains(t, body, "summary")
}

func TestOpenGate(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp, err := c.Get(ts.URL + "/api/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["auth_open"])

	// Login against an open gate is a visible conflict, not a silent ok.
	loginResp := postJSON(t, c, ts.URL+"/api/login", map[string]string{"passphrase": "x"})
	defer loginResp.Body.Close()
	assert.Equal(t, http.StatusConflict, loginResp.StatusCode)
}

func TestLogoutClosesSession(t *testing.T) {
	ts, c := setupServer(t, "secret", nil)
	login(t, c, ts.URL, "secret")

	resp := postJSON(t, c, ts.URL+"/api/logout", map[string]string{})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	after, err := c.Get(ts.URL + "/api/summary")
	require.NoError(t, err)
	defer after.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestCreateStampsBlankTimestamp(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp := postJSON(t, c, ts.URL+"/api/records", map[string]any{
		"collection": types.TasksCollection,
		"cells": map[string]string{
			"title":    "Write report",
			"priority": types.PriorityHigh,
			"status":   types.TaskStatusPending,
		},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	listResp, err := c.Get(ts.URL + "/api/collections/tasks")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	body := decodeBody(t, listResp)
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	cells := rows[0].(map[string]any)["cells"].(map[string]any)
	assert.Equal(t, "Write report", cells["title"])
	assert.NotEmpty(t, cells["timestamp"])
}

func TestListEmptyCollectionIsArray(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp, err := c.Get(ts.URL + "/api/collections/tasks")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rows":[]`)
}

func TestListUnknownCollection(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp, err := c.Get(ts.URL + "/api/collections/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTaskStatusUpdate(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp := postJSON(t, c, ts.URL+"/api/records", map[string]any{
		"collection": types.TasksCollection,
		"cells":      map[string]string{"title": "t", "priority": "Low", "status": "Pending"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ok := postJSON(t, c, ts.URL+"/api/tasks/2/status", map[string]string{"status": types.TaskStatusDone})
	ok.Body.Close()
	assert.Equal(t, http.StatusNoContent, ok.StatusCode)

	bad := postJSON(t, c, ts.URL+"/api/tasks/2/status", map[string]string{"status": "Later"})
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestDeleteRow(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp := postJSON(t, c, ts.URL+"/api/records", map[string]any{
		"collection": types.HabitsCollection,
		"cells":      map[string]string{"habit_name": "Gym", "status": types.HabitStatusDone},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/collections/habits/rows/2", nil)
	require.NoError(t, err)
	del, err := c.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	// The row is gone, so its handle no longer resolves.
	req2, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/collections/habits/rows/2", nil)
	require.NoError(t, err)
	again, err := c.Do(req2)
	require.NoError(t, err)
	defer again.Body.Close()
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
}

func TestExtractAppendsRecord(t *testing.T) {
	gen := &fakeGenerator{reply: `{"title":"Buy milk","priority":"Low","status":"Pending"}`}
	ts, c := setupServer(t, "", gen)

	resp := postJSON(t, c, ts.URL+"/api/extract", map[string]string{
		"mode": "task",
		"text": "need to buy milk",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, types.TasksCollection, body["collection"])

	listResp, err := c.Get(ts.URL + "/api/collections/tasks")
	require.NoError(t, err)
	rows := decodeBody(t, listResp)["rows"].([]any)
	assert.Len(t, rows, 1)
}

func TestExtractFailsClosed(t *testing.T) {
	gen := &fakeGenerator{reply: "sorry, I cannot help with that"}
	ts, c := setupServer(t, "", gen)

	resp := postJSON(t, c, ts.URL+"/api/extract", map[string]string{
		"mode": "task",
		"text": "gibberish",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	listResp, err := c.Get(ts.URL + "/api/collections/tasks")
	require.NoError(t, err)
	rows := decodeBody(t, listResp)["rows"].([]any)
	assert.Empty(t, rows)
}

func TestAIEndpointsDisabledWithoutKey(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp := postJSON(t, c, ts.URL+"/api/extract", map[string]string{"mode": "task", "text": "x"})
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	ask := postJSON(t, c, ts.URL+"/api/advisor", map[string]string{"question": "x"})
	ask.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, ask.StatusCode)
}

func TestCreateNormalizesEnumCells(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	// Lowercase kinds, as the original sheet convention writes them,
	// must still land in the money metrics.
	for _, rec := range []map[string]string{
		{"item": "Groceries", "category": "Food", "amount": "120.50", "kind": "expense"},
		{"item": "Salary", "category": "Work", "amount": "3000", "kind": "income"},
	} {
		resp := postJSON(t, c, ts.URL+"/api/records", map[string]any{
			"collection": types.FinanceCollection,
			"cells":      rec,
		})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	taskResp := postJSON(t, c, ts.URL+"/api/records", map[string]any{
		"collection": types.TasksCollection,
		"cells":      map[string]string{"title": "t", "priority": "high", "status": "done"},
	})
	taskResp.Body.Close()
	require.Equal(t, http.StatusCreated, taskResp.StatusCode)

	listResp, err := c.Get(ts.URL + "/api/collections/finance")
	require.NoError(t, err)
	rows := decodeBody(t, listResp)["rows"].([]any)
	require.Len(t, rows, 2)
	cells := rows[0].(map[string]any)["cells"].(map[string]any)
	assert.Equal(t, types.KindExpense, cells["kind"])

	summaryResp, err := c.Get(ts.URL + "/api/summary")
	require.NoError(t, err)
	summary := decodeBody(t, summaryResp)["summary"].(map[string]any)
	assert.InDelta(t, 2879.5, summary["balance"], 0.001)

	xp := summary["xp"].(map[string]any)
	assert.EqualValues(t, 15, xp["xp"])
}

func TestCreateRejectsUnknownEnumValue(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp := postJSON(t, c, ts.URL+"/api/records", map[string]any{
		"collection": types.FinanceCollection,
		"cells":      map[string]string{"item": "x", "category": "y", "amount": "1", "kind": "loan"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad := postJSON(t, c, ts.URL+"/api/records", map[string]any{
		"collection": types.TasksCollection,
		"cells":      map[string]string{"title": "t", "priority": "urgent", "status": "Pending"},
	})
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestAdvisorLogWithoutModel(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	// The stored conversation stays readable and deletable with no key.
	hist, err := c.Get(ts.URL + "/api/advisor")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, hist.StatusCode)
	assert.Empty(t, decodeBody(t, hist)["turns"])

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/advisor", nil)
	require.NoError(t, err)
	del, err := c.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)
}

func TestAdvisorAskAndHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "Spend less on snacks."}
	ts, c := setupServer(t, "", gen)

	resp := postJSON(t, c, ts.URL+"/api/advisor", map[string]string{"question": "how am I doing?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turn := decodeBody(t, resp)
	assert.Equal(t, "Spend less on snacks.", turn["answer"])

	hist, err := c.Get(ts.URL + "/api/advisor")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, hist.StatusCode)
	turns := decodeBody(t, hist)["turns"].([]any)
	assert.Len(t, turns, 1)
}

func TestArchiveGroupsRows(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	for _, stamp := range []string{"2025-06-01 09:00:00", "2025-05-10 12:00:00"} {
		resp := postJSON(t, c, ts.URL+"/api/records", map[string]any{
			"collection": types.JournalCollection,
			"cells":      map[string]string{"timestamp": stamp, "body": "entry", "mood_label": "Calm"},
		})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := c.Get(ts.URL + "/api/archive/journal")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["outcome"])
	assert.Len(t, body["years"].([]any), 1)
}

func TestExportDownload(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	resp, err := c.Get(ts.URL + "/api/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Greater(t, len(data), 2)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestTimerStream(t *testing.T) {
	ts, c := setupServer(t, "", nil)

	bad, err := c.Get(ts.URL + "/api/timer?seconds=0")
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	resp, err := c.Get(ts.URL + "/api/timer?seconds=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "event: tick"))
	assert.True(t, strings.Contains(string(data), "event: done"))
}
