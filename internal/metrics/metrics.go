// Package metrics computes derived views over loaded collection
// snapshots. Every function is pure: no hidden state, and an empty
// snapshot always yields a zero or neutral result.
package metrics

import "github.com/mesh-intelligence/lifeos/pkg/types"

// XP weights and level size for the gamification score.
const (
	TaskXP    = 15
	HabitXP   = 10
	LevelSize = 200
)

// Progress is the XP/level rollup.
type Progress struct {
	XP       int     `json:"xp"`
	Level    int     `json:"level"`
	Fraction float64 `json:"fraction"` // progress into the current level, 0..1
}

// Balance returns income minus expenses across the snapshot.
func Balance(txs []types.Transaction) float64 {
	var balance float64
	for _, tx := range txs {
		switch tx.Kind {
		case types.KindIncome:
			balance += tx.Amount
		case types.KindExpense:
			balance -= tx.Amount
		}
	}
	return balance
}

// PendingCount returns the number of tasks still pending.
func PendingCount(tasks []types.Task) int {
	var n int
	for _, task := range tasks {
		if task.Status == types.TaskStatusPending {
			n++
		}
	}
	return n
}

// HabitsDoneOn returns the number of habit entries marked done on the
// given date (types.DateLayout).
func HabitsDoneOn(entries []types.HabitEntry, date string) int {
	var n int
	for _, e := range entries {
		if e.Date == date && e.Done() {
			n++
		}
	}
	return n
}

// XPProgress computes the gamification score: 15 XP per done task plus
// 10 XP per done habit entry, 200 XP per level.
func XPProgress(tasks []types.Task, habits []types.HabitEntry) Progress {
	var xp int
	for _, task := range tasks {
		if task.Done() {
			xp += TaskXP
		}
	}
	for _, e := range habits {
		if e.Done() {
			xp += HabitXP
		}
	}
	return Progress{
		XP:       xp,
		Level:    xp/LevelSize + 1,
		Fraction: float64(xp%LevelSize) / LevelSize,
	}
}

// MoodAverage returns the mean mood score across journal entries, or 0
// for an empty journal.
func MoodAverage(entries []types.JournalEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum int
	for _, e := range entries {
		sum += e.Score()
	}
	return float64(sum) / float64(len(entries))
}

// SumByCategory sums transaction amounts of the given kind per category,
// for charting. Rows with a blank category are excluded.
func SumByCategory(txs []types.Transaction, kind string) map[string]float64 {
	sums := make(map[string]float64)
	for _, tx := range txs {
		if tx.Kind != kind || tx.Category == "" {
			continue
		}
		sums[tx.Category] += tx.Amount
	}
	return sums
}

// CountByPriority counts tasks per priority. Blank priorities are excluded.
func CountByPriority(tasks []types.Task) map[string]int {
	counts := make(map[string]int)
	for _, task := range tasks {
		if task.Priority == "" {
			continue
		}
		counts[task.Priority]++
	}
	return counts
}

// CountByHabit counts done entries per habit name. Blank names are excluded.
func CountByHabit(entries []types.HabitEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.HabitName == "" || !e.Done() {
			continue
		}
		counts[e.HabitName]++
	}
	return counts
}
