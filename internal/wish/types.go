// Package wish holds the Wishline domain types as the backend transmits them,
// plus the client-side conversions, form state and validation around them.
package wish

import (
	"strings"
	"time"
)

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns the upper-cased first letters of first and last name.
func (u User) Initials() string {
	var b strings.Builder
	for _, s := range []string{u.FirstName, u.LastName} {
		r := []rune(strings.TrimSpace(s))
		if len(r) > 0 {
			b.WriteRune(r[0])
		}
	}
	return strings.ToUpper(b.String())
}

// Priority is the backend representation.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	default:
		return false
	}
}

// DisplayPriority is what screens show and accept.
type DisplayPriority string

const (
	DisplayHigh   DisplayPriority = "High"
	DisplayMedium DisplayPriority = "Medium"
	DisplayLow    DisplayPriority = "Low"
)

func (p DisplayPriority) IsValid() bool {
	switch p {
	case DisplayHigh, DisplayMedium, DisplayLow:
		return true
	default:
		return false
	}
}

// Status is the backend representation.
type Status string

const (
	StatusNotStarted Status = "not started"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

type DisplayStatus string

const (
	DisplayNotStarted DisplayStatus = "Not Started"
	DisplayInProgress DisplayStatus = "In Progress"
	DisplayCompleted  DisplayStatus = "Completed"
)

func (s DisplayStatus) IsValid() bool {
	switch s {
	case DisplayNotStarted, DisplayInProgress, DisplayCompleted:
		return true
	default:
		return false
	}
}

type SubTask struct {
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
}

// Task is a wish. Timestamps stay in the backend's ISO string form.
type Task struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    Priority  `json:"priority"`
	TargetDate  string    `json:"targetDate"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	UserID      string    `json:"userId"`
	SubTasks    []SubTask `json:"subTasks,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
}

// LastTouched is updatedAt, or createdAt when updatedAt is missing or unparsable.
func (t Task) LastTouched() time.Time {
	if ts, ok := ParseTimestamp(t.UpdatedAt); ok {
		return ts
	}
	ts, _ := ParseTimestamp(t.CreatedAt)
	return ts
}

func (t Task) Target() (time.Time, bool) {
	return ParseTimestamp(t.TargetDate)
}

func (t Task) CompletedSubTasks() int {
	n := 0
	for _, st := range t.SubTasks {
		if st.IsCompleted {
			n++
		}
	}
	return n
}

// NoParent is the sentinel the backend stores for a top-level category.
const NoParent = "NA"

type Category struct {
	ID         string `json:"_id"`
	Name       string `json:"categoryName"`
	ParentName string `json:"parentCategoryName"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Parent returns the parent name, or "" for the NoParent sentinel.
func (c Category) Parent() string {
	if c.ParentName == NoParent {
		return ""
	}
	return c.ParentName
}

// TaskInput is the create payload.
type TaskInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    Priority  `json:"priority"`
	TargetDate  string    `json:"targetDate"`
	Status      Status    `json:"status"`
	Progress    *int      `json:"progress,omitempty"`
	SubTasks    []SubTask `json:"subTasks"`
}

// TaskPatch is the update payload; nil fields are left untouched by the backend.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	TargetDate  *string    `json:"targetDate,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
	SubTasks    *[]SubTask `json:"subTasks,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO forms the backend and the wish form use.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
