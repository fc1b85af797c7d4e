// internal/domain/task/entity.go
package task

import "fmt"

// Status is the task lifecycle state as the backend encodes it.
type Status int

const (
	StatusTodo       Status = 0
	StatusInProgress Status = 1
	StatusCompleted  Status = 2
)

var statusLabels = map[Status]string{
	StatusTodo:       "To do",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
}

// Label returns the display label for the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("Unknown(%d)", int(s))
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus accepts the numeric code or a label-like name.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "0", "todo", "Todo":
		return StatusTodo, nil
	case "1", "in-progress", "inprogress", "InProgress":
		return StatusInProgress, nil
	case "2", "completed", "done", "Completed":
		return StatusCompleted, nil
	}
	return 0, fmt.Errorf("unknown task status %q", v)
}

// ParseFilter reads a list filter. "" and "all" select every status and
// yield nil.
func ParseFilter(v string) (*Status, error) {
	if v == "" || v == "all" {
		return nil, nil
	}
	s, err := ParseStatus(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FilterByStatus returns the tasks with the given status in a new slice. A
// nil status keeps every task.
func FilterByStatus(tasks []Task, status *Status) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if status == nil || t.Status == *status {
			out = append(out, t)
		}
	}
	return out
}

type Task struct {
	ID           int64  `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Status       Status `json:"status" yaml:"status"`
	CategoryID   int64  `json:"categoryId" yaml:"categoryId"`
	CategoryName string `json:"categoryName,omitempty" yaml:"categoryName,omitempty"`
	StartDate    string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}
