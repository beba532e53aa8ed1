package models

// TaskType classifies how a task is scheduled.
type TaskType string

const (
	// TaskLongTerm tasks have no schedule window and are always eligible.
	TaskLongTerm TaskType = "long-term"

	// TaskTimeRange tasks are scheduled between StartDate and EndDate.
	// Both must be set for the task to be schedulable.
	TaskTimeRange TaskType = "time-range"
)

// Task is a to-do item, optionally extracted from a diary entry.
type Task struct {
	ID string `json:"id"`

	Title string `json:"title"`

	Notes string `json:"notes,omitempty"`

	CreatedAt int64 `json:"createdAt"`

	// DueAt is an optional deadline in epoch-ms; zero means none.
	DueAt int64 `json:"dueAt,omitempty"`

	Completed bool `json:"completed"`

	// Recurring is an optional repetition hint ("daily", "weekly", ...).
	Recurring string `json:"recurring,omitempty"`

	// RelatedDiaryID is a weak reference to the diary the task came from.
	RelatedDiaryID string `json:"relatedDiaryId,omitempty"`

	TaskType TaskType `json:"taskType"`

	// StartDate / EndDate bound a time-range task, epoch-ms; zero = unset.
	StartDate int64 `json:"startDate,omitempty"`
	EndDate   int64 `json:"endDate,omitempty"`

	// CompletedAt is stamped when Completed flips to true.
	CompletedAt int64 `json:"completedAt,omitempty"`

	// Order is a dense rank among active (non-completed, started) tasks
	// only. It is reassigned on every reorder and left untouched once the
	// task leaves the active partition.
	Order int `json:"order"`
}

// IsActive reports whether the task belongs to the active partition at
// the given time: not completed, and either unscheduled or already started.
func (t Task) IsActive(now int64) bool {
	if t.Completed {
		return false
	}
	if t.TaskType != TaskTimeRange {
		return true
	}
	return t.StartDate <= now
}

// IsFuture reports whether the task is scheduled but not yet started.
func (t Task) IsFuture(now int64) bool {
	return !t.Completed && t.TaskType == TaskTimeRange && t.StartDate > now
}

// IsSchedulable reports whether a time-range task has both bounds set.
// Long-term tasks are always schedulable.
func (t Task) IsSchedulable() bool {
	if t.TaskType != TaskTimeRange {
		return true
	}
	return t.StartDate != 0 && t.EndDate != 0
}
