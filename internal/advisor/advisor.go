// Package advisor runs the conversational panel over the advisor log.
// The model keeps no session memory: visible history is whatever the log
// collection holds, and each question ships a fresh data summary.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/lifeos/internal/app"
	"github.com/mesh-intelligence/lifeos/internal/extract"
	"github.com/mesh-intelligence/lifeos/internal/metrics"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// summaryWindow is how many recent transactions the advisor sees.
const summaryWindow = 5

// Advisor answers questions about the user's data and logs each turn.
type Advisor struct {
	app *app.App
	gen extract.Generator
}

// New creates an Advisor over the app service and a generator.
func New(a *app.App, gen extract.Generator) *Advisor {
	return &Advisor{app: a, gen: gen}
}

// Ask sends the question with a summary of recent data, appends the turn
// to the advisor log, and returns it. On any model or store failure the
// log is left untouched.
func (ad *Advisor) Ask(ctx context.Context, question string) (types.AdvisorTurn, error) {
	if strings.TrimSpace(question) == "" {
		return types.AdvisorTurn{}, extract.ErrEmptyText
	}

	summary, err := ad.summarize(ctx)
	if err != nil {
		return types.AdvisorTurn{}, err
	}

	prompt := fmt.Sprintf(
		"You are a concise personal finance and productivity advisor. "+
			"Based on this data:\n%s\nAnswer briefly and concretely: %s",
		summary, question)

	answer, err := ad.gen.Generate(ctx, prompt)
	if err != nil {
		return types.AdvisorTurn{}, fmt.Errorf("model request: %w", err)
	}

	turn := types.AdvisorTurn{
		Timestamp: ad.app.Timestamp(),
		Question:  question,
		Answer:    answer,
	}
	if err := ad.app.Append(ctx, turn); err != nil {
		return types.AdvisorTurn{}, err
	}
	return turn, nil
}

// History returns the logged conversation turns in order.
func (ad *Advisor) History(ctx context.Context) ([]types.AdvisorTurn, error) {
	return ad.app.AdvisorTurns(ctx)
}

// Reset truncates the conversation log back to header-only.
func (ad *Advisor) Reset(ctx context.Context) error {
	return ad.app.Truncate(ctx, types.AdvisorCollection)
}

// summarize renders the advisor's data window: balance, pending tasks,
// and the last few transactions.
func (ad *Advisor) summarize(ctx context.Context) (string, error) {
	txs, err := ad.app.Transactions(ctx)
	if err != nil {
		return "", err
	}
	tasks, err := ad.app.Tasks(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Balance: %.0f\n", metrics.Balance(txs))
	fmt.Fprintf(&b, "Pending tasks: %d\n", metrics.PendingCount(tasks))

	start := len(txs) - summaryWindow
	if start < 0 {
		start = 0
	}
	if len(txs) > 0 {
		b.WriteString("Recent transactions:\n")
	}
	for _, tx := range txs[start:] {
		fmt.Fprintf(&b, "- %s %s %s %.0f %s\n",
			tx.Timestamp, tx.Item, tx.Category, tx.Amount, tx.Kind)
	}
	return b.String(), nil
}
