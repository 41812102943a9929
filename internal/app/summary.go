package app

import (
	"context"

	"github.com/mesh-intelligence/lifeos/internal/metrics"
	"github.com/mesh-intelligence/lifeos/pkg/types"
)

// Summary is the dashboard rollup: every derived metric plus, per
// collection that failed to load, the error kind. A failed panel renders
// degraded; it never takes the dashboard down.
type Summary struct {
	Balance           float64            `json:"balance"`
	PendingTasks      int                `json:"pending_tasks"`
	HabitsToday       int                `json:"habits_today"`
	MoodAverage       float64            `json:"mood_average"`
	XP                metrics.Progress   `json:"xp"`
	ExpenseByCategory map[string]float64 `json:"expense_by_category"`
	TasksByPriority   map[string]int     `json:"tasks_by_priority"`
	HabitCounts       map[string]int     `json:"habit_counts"`
	HabitNames        []string           `json:"habit_names"`
	Degraded          map[string]string  `json:"degraded,omitempty"`
}

// Summary computes the dashboard rollup from the cached snapshots.
func (a *App) Summary(ctx context.Context) Summary {
	degraded := make(map[string]string)

	tasks, err := a.Tasks(ctx)
	noteDegraded(degraded, types.TasksCollection, err)

	txs, err := a.Transactions(ctx)
	noteDegraded(degraded, types.FinanceCollection, err)

	habits, err := a.HabitEntries(ctx)
	noteDegraded(degraded, types.HabitsCollection, err)

	journal, err := a.JournalEntries(ctx)
	noteDegraded(degraded, types.JournalCollection, err)

	s := Summary{
		Balance:           metrics.Balance(txs),
		PendingTasks:      metrics.PendingCount(tasks),
		HabitsToday:       metrics.HabitsDoneOn(habits, a.Today()),
		MoodAverage:       metrics.MoodAverage(journal),
		XP:                metrics.XPProgress(tasks, habits),
		ExpenseByCategory: metrics.SumByCategory(txs, types.KindExpense),
		TasksByPriority:   metrics.CountByPriority(tasks),
		HabitCounts:       metrics.CountByHabit(habits),
		HabitNames:        types.HabitNames(habits),
	}
	if len(degraded) > 0 {
		s.Degraded = degraded
	}
	return s
}

// noteDegraded records the error kind of a failed collection load.
func noteDegraded(degraded map[string]string, collection string, err error) {
	if err == nil {
		return
	}
	kind := types.ErrKind(err)
	if kind == "" {
		kind = types.ErrKindConnectivity
	}
	degraded[collection] = kind
}
