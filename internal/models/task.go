package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "Todo"
	StatusInProgress TaskStatus = "In Progress"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Comment belongs to a task. ParentID, when set, references an earlier
// comment of the same task (one level of reply threading).
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	ParentID  string    `json:"parentId,omitempty"`
}

// Attachment holds the file bytes in memory; URL is a session-local
// download path, not a durable upload.
type Attachment struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
	Data     []byte `json:"-"`
}

// SchedulerStamp records who last changed priority/due date. Drives the
// escalating edit-authority rule.
type SchedulerStamp struct {
	UserID string   `json:"userId"`
	Role   UserRole `json:"role"`
}

// Task represents the structure of a task in the system.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     time.Time    `json:"dueDate"`
	AssigneeIDs []string     `json:"assigneeIds"`
	ProjectID   string       `json:"projectId"`
	CreatorID   string       `json:"creatorId"`
	Comments    []Comment    `json:"comments"`
	Attachments []Attachment `json:"attachments"`

	LastScheduleUpdater *SchedulerStamp `json:"lastPriorityDueDateUpdater,omitempty"`
}

func (t *Task) IsAssignee(userID string) bool {
	for _, id := range t.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}
