package types

import "strings"

// Habit entry statuses. The habits collection is an append-only log; a
// habit "exists" when any entry names it, there is no separate habit table.
const (
	HabitStatusDone  = "Done"
	HabitStatusUnset = "Unset"
)

// HabitEntry is one row of the habits collection.
type HabitEntry struct {
	Handle    Handle
	Date      string
	HabitName string
	Status    string
}

// HabitEntryFromRow hydrates a loaded row into a HabitEntry.
func HabitEntryFromRow(r Row) HabitEntry {
	return HabitEntry{
		Handle:    r.Handle,
		Date:      r.Cell("date"),
		HabitName: r.Cell("habit_name"),
		Status:    r.Cell("status"),
	}
}

// Collection returns the habits collection name.
func (h HabitEntry) Collection() string { return HabitsCollection }

// Values returns the entry's cells in append order.
func (h HabitEntry) Values() []string {
	return []string{h.Date, h.HabitName, h.Status}
}

// Done reports whether the entry marks the habit as done.
func (h HabitEntry) Done() bool { return h.Status == HabitStatusDone }

// NormalizeHabitStatus maps a status cell to its canonical form, matching
// case-insensitively; blank means Unset. ok is false for unrecognized
// values.
func NormalizeHabitStatus(status string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "done":
		return HabitStatusDone, true
	case "unset", "":
		return HabitStatusUnset, true
	}
	return status, false
}

// HabitNames returns the distinct habit names across all entries, in
// first-seen order. Entries with a blank name are skipped.
func HabitNames(entries []HabitEntry) []string {
	seen := make(map[string]bool, len(entries))
	var names []string
	for _, e := range entries {
		if e.HabitName == "" || seen[e.HabitName] {
			continue
		}
		seen[e.HabitName] = true
		names = append(names, e.HabitName)
	}
	return names
}
