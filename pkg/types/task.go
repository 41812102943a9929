package types

import "strings"

// Task statuses. Status is the only field mutated in place after append.
const (
	TaskStatusPending = "Pending"
	TaskStatusDone    = "Done"
)

// Task priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

var validTaskStatuses = map[string]bool{
	TaskStatusPending: true,
	TaskStatusDone:    true,
}

var validPriorities = map[string]bool{
	PriorityHigh:   true,
	PriorityMedium: true,
	PriorityLow:    true,
}

// Task is one row of the tasks collection.
type Task struct {
	Handle    Handle
	Timestamp string
	Title     string
	Priority  string
	Status    string
}

// TaskFromRow hydrates a loaded row into a Task. Unknown priority values
// are kept as-is; derived computations treat them as a grouping key only.
func TaskFromRow(r Row) Task {
	return Task{
		Handle:    r.Handle,
		Timestamp: r.Cell("timestamp"),
		Title:     r.Cell("title"),
		Priority:  r.Cell("priority"),
		Status:    r.Cell("status"),
	}
}

// Collection returns the tasks collection name.
func (t Task) Collection() string { return TasksCollection }

// Values returns the task's cells in append order.
func (t Task) Values() []string {
	return []string{t.Timestamp, t.Title, t.Priority, t.Status}
}

// Done reports whether the task is completed.
func (t Task) Done() bool { return t.Status == TaskStatusDone }

// ValidTaskStatus reports whether the value is a recognized task status.
func ValidTaskStatus(status string) bool { return validTaskStatuses[status] }

// ValidPriority reports whether the value is a recognized priority.
func ValidPriority(priority string) bool { return validPriorities[priority] }

// NormalizeTaskStatus maps a status cell to its canonical form, matching
// case-insensitively. ok is false for unrecognized values.
func NormalizeTaskStatus(status string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending":
		return TaskStatusPending, true
	case "done":
		return TaskStatusDone, true
	}
	return status, false
}

// NormalizePriority maps a priority cell to its canonical form, matching
// case-insensitively. ok is false for unrecognized values.
func NormalizePriority(priority string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	}
	return priority, false
}
