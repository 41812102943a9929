// Package extract turns free-form text into a typed record via an
// external language model. Extraction fails closed: on any service
// failure, non-JSON reply, or missing field, no record is produced.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// Mode selects the record shape the extractor asks the model for.
type Mode string

const (
	ModeTask        Mode = "task"
	ModeTransaction Mode = "transaction"
	ModeHabit       Mode = "habit"
	ModeJournal     Mode = "journal"
)

// Extraction errors.
var (
	ErrUnknownMode = errors.New("unknown extraction mode")
	ErrNotJSON     = errors.New("model reply is not valid JSON")
	ErrEmptyText   = errors.New("input text is empty")
)

// Generator is the text-in/text-out contract with the language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor builds mode-specific prompts and parses the JSON replies.
type Extractor struct {
	gen Generator
	now func() time.Time
}

// New creates an Extractor over the given generator.
func New(gen Generator) *Extractor {
	return &Extractor{gen: gen, now: time.Now}
}

// Extract sends the text to the model with the mode's instruction and
// parses the reply into a typed record. The returned record carries the
// current timestamp; nothing is appended here.
func (e *Extractor) Extract(ctx context.Context, text string, mode Mode) (types.Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	prompt, err := buildPrompt(text, mode, e.today())
	if err != nil {
		return nil, err
	}

	reply, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}

	return e.parse(stripFences(reply), text, mode)
}

func (e *Extractor) today() string {
	return e.now().Format(types.DateLayout)
}

func (e *Extractor) timestamp() string {
	return e.now().Format(types.TimestampLayout)
}

// parse maps the model's JSON reply onto the mode's record type,
// validating that every required field is present.
func (e *Extractor) parse(reply, text string, mode Mode) (types.Record, error) {
	switch mode {
	case ModeTask:
		var r struct {
			Title    *string `json:"title"`
			Priority *string `json:"priority"`
		}
		if err := json.Unmarshal([]byte(reply), &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
		}
		if r.Title == nil || *r.Title == "" || r.Priority == nil {
			return nil, fmt.Errorf("%w: task needs title and priority", types.ErrMissingField)
		}
		priority := *r.Priority
		if !types.ValidPriority(priority) {
			priority = types.PriorityMedium
		}
		return types.Task{
			Timestamp: e.timestamp(),
			Title:     *r.Title,
			Priority:  priority,
			Status:    types.TaskStatusPending,
		}, nil

	case ModeTransaction:
		var r struct {
			Item     *string  `json:"item"`
			Category *string  `json:"category"`
			Amount   *float64 `json:"amount"`
			Type     *string  `json:"type"`
		}
		if err := json.Unmarshal([]byte(reply), &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
		}
		if r.Item == nil || *r.Item == "" || r.Category == nil || r.Amount == nil || r.Type == nil {
			return nil, fmt.Errorf("%w: transaction needs item, category, amount, type", types.ErrMissingField)
		}
		return types.Transaction{
			Timestamp: e.timestamp(),
			Item:      *r.Item,
			Category:  *r.Category,
			Amount:    *r.Amount,
			Kind:      normalizeKind(*r.Type),
		}, nil

	case ModeHabit:
		var r struct {
			HabitName *string `json:"habit_name"`
			Status    *string `json:"status"`
		}
		if err := json.Unmarshal([]byte(reply), &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
		}
		if r.HabitName == nil || *r.HabitName == "" {
			return nil, fmt.Errorf("%w: habit needs habit_name", types.ErrMissingField)
		}
		status := types.HabitStatusDone
		if r.Status != nil && *r.Status == types.HabitStatusUnset {
			status = types.HabitStatusUnset
		}
		return types.HabitEntry{
			Date:      e.today(),
			HabitName: *r.HabitName,
			Status:    status,
		}, nil

	case ModeJournal:
		var r struct {
			MoodLabel *string `json:"mood_label"`
			Advice    *string `json:"advice"`
		}
		if err := json.Unmarshal([]byte(reply), &r); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
		}
		if r.MoodLabel == nil || r.Advice == nil {
			return nil, fmt.Errorf("%w: journal needs mood_label and advice", types.ErrMissingField)
		}
		return types.JournalEntry{
			Timestamp: e.timestamp(),
			Body:      text,
			MoodLabel: *r.MoodLabel,
			Advice:    *r.Advice,
		}, nil
	}

	return nil, ErrUnknownMode
}

// normalizeKind maps the model's lowercase expense/income onto the stored
// kind values.
func normalizeKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "income":
		return types.KindIncome
	default:
		return types.KindExpense
	}
}

// stripFences removes a markdown code-fence wrapper from a model reply.
// Replies arrive both bare and fenced; both must parse identically.
func stripFences(reply string) string {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
