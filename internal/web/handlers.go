package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/mesh-intelligence/lifeos/internal/archive"
	"github.com/mesh-intelligence/lifeos/internal/export"
	"github.com/mesh-intelligence/lifeos/internal/extract"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// archiveSpecs maps each collection to its default archive column roles.
var archiveSpecs = map[string]archive.FieldSpec{
	types.TasksCollection:   {Date: "timestamp", Title: "title", Subtitle: "status", Category: "priority"},
	types.FinanceCollection: {Date: "timestamp", Title: "item", Subtitle: "amount", Category: "category"},
	types.HabitsCollection:  {Date: "date", Title: "habit_name", Subtitle: "status"},
	types.JournalCollection: {Date: "timestamp", Title: "body", Subtitle: "mood_label"},
	types.AdvisorCollection: {Date: "timestamp", Title: "question"},
}

// outcomeLabels render the archive outcome for the client's messaging.
var outcomeLabels = map[archive.Outcome]string{
	archive.OutcomeOK:           "ok",
	archive.OutcomeEmpty:        "empty",
	archive.OutcomeNoValidDates: "no_valid_dates",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps a classified store failure onto a response that
// names the error kind, so the client can degrade the right panel.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	kind := types.ErrKind(err)
	status := http.StatusBadGateway
	if kind == types.ErrKindBadHandle || kind == types.ErrKindNotFound {
		status = http.StatusBadRequest
	}
	s.logger.Printf("store error: %v", err)
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.passphrase == "" {
		writeError(w, http.StatusConflict, "no passphrase configured; gate is open")
		return
	}
	// Wrong passphrase is a visible rejection; no lockout, no backoff.
	if req.Passphrase != s.passphrase {
		writeError(w, http.StatusUnauthorized, "wrong passphrase")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.sessions.open(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		s.sessions.close(token)
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := s.app.Summary(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"summary":    summary,
		"ai_enabled": s.aiEnabled(),
		"auth_open":  s.passphrase == "",
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !types.KnownCollection(name) {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	rows, err := s.app.Rows(r.Context(), name)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	spec, ok := archiveSpecs[name]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	rows, err := s.app.Rows(r.Context(), name)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	tree := archive.Group(rows, spec)
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": outcomeLabels[tree.Outcome],
		"years":   tree.Years,
	})
}

// handleCreate appends a record from direct form input.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string            `json:"collection"`
		Cells      map[string]string `json:"cells"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cols, err := types.Columns(req.Collection)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	values := make([]string, len(cols))
	for i, c := range cols {
		values[i] = req.Cells[c]
	}
	// Stamp the row when the form left the time column blank.
	if values[0] == "" {
		if cols[0] == "date" {
			values[0] = s.app.Today()
		} else {
			values[0] = s.app.Timestamp()
		}
	}

	if err := normalizeEnumCells(req.Collection, cols, values); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.app.Append(r.Context(), rawRecord{collection: req.Collection, values: values}); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// normalizeEnumCells canonicalizes enum-valued cells in place so the
// derived metrics match them exactly regardless of input casing. Blank
// task cells take the defaults; anything unrecognized is rejected.
func normalizeEnumCells(collection string, cols, values []string) error {
	canon := func(column string, fallback string, normalize func(string) (string, bool)) error {
		i := slices.Index(cols, column)
		if i < 0 {
			return nil
		}
		if values[i] == "" && fallback != "" {
			values[i] = fallback
			return nil
		}
		v, ok := normalize(values[i])
		if !ok {
			return fmt.Errorf("invalid %s value %q", column, values[i])
		}
		values[i] = v
		return nil
	}

	switch collection {
	case types.TasksCollection:
		if err := canon("status", types.TaskStatusPending, types.NormalizeTaskStatus); err != nil {
			return err
		}
		return canon("priority", types.PriorityMedium, types.NormalizePriority)
	case types.FinanceCollection:
		return canon("kind", "", types.NormalizeKind)
	case types.HabitsCollection:
		return canon("status", "", types.NormalizeHabitStatus)
	}
	return nil
}

// rawRecord adapts direct form input to the Record interface.
type rawRecord struct {
	collection string
	values     []string
}

func (r rawRecord) Collection() string { return r.collection }
func (r rawRecord) Values() []string   { return r.values }

// handleExtract turns free text into a record via the model and appends
// it. A failed extraction is a no-op with a visible notice.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if !s.aiEnabled() {
		writeError(w, http.StatusServiceUnavailable, "ai is not configured")
		return
	}

	var req struct {
		Mode string `json:"mode"`
		Text string `json:"text"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.extractor.Extract(r.Context(), req.Text, extract.Mode(req.Mode))
	if err != nil {
		s.logger.Printf("extraction failed: %v", err)
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("nothing extracted: %v", err))
		return
	}

	if err := s.app.Append(r.Context(), rec); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"collection": rec.Collection(),
		"values":     rec.Values(),
	})
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	handle, err := strconv.Atoi(r.PathValue("handle"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid handle")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = s.app.SetTaskStatus(r.Context(), types.Handle(handle), req.Status)
	switch {
	case errors.Is(err, types.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid status value")
	case err != nil:
		s.writeStoreError(w, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	handle, err := strconv.Atoi(r.PathValue("handle"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid handle")
		return
	}

	if err := s.app.Delete(r.Context(), name, types.Handle(handle)); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdvisorHistory reads the stored conversation log. The log is
// plain collection data, so it stays readable with no model configured.
func (s *Server) handleAdvisorHistory(w http.ResponseWriter, r *http.Request) {
	turns, err := s.app.AdvisorTurns(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (s *Server) handleAdvisorAsk(w http.ResponseWriter, r *http.Request) {
	if !s.aiEnabled() {
		writeError(w, http.StatusServiceUnavailable, "ai is not configured")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn, err := s.advisor.Ask(r.Context(), req.Question)
	if err != nil {
		s.logger.Printf("advisor failed: %v", err)
		writeError(w, http.StatusBadGateway, "advisor unavailable")
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

// handleAdvisorReset truncates the stored conversation log; it needs no
// model either.
func (s *Server) handleAdvisorReset(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Truncate(r.Context(), types.AdvisorCollection); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="lifeos.xlsx"`)

	if err := export.Write(r.Context(), s.app.Store(), w); err != nil {
		s.logger.Printf("export failed: %v", err)
	}
}
