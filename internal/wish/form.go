package wish

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultCategory = "Health"
	dateLayout      = "2006-01-02"
)

// FallbackCategories are offered when the category list cannot be loaded.
var FallbackCategories = []string{"Health", "Career", "Personal", "Travel"}

// WishForm is the add/edit wish form state.
type WishForm struct {
	Title       string
	Description string
	Category    string
	Priority    DisplayPriority
	TargetDate  string // YYYY-MM-DD
	Status      DisplayStatus
	SubTasks    []SubTask

	editingID string
}

func NewWishForm() WishForm {
	return WishForm{
		Category: DefaultCategory,
		Priority: DisplayHigh,
		Status:   DisplayInProgress,
	}
}

// FormFromTask prefills the form for editing t.
func FormFromTask(t Task) WishForm {
	f := WishForm{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    PriorityToFrontend(t.Priority),
		Status:      StatusToFrontend(t.Status),
		SubTasks:    append([]SubTask(nil), t.SubTasks...),
		editingID:   t.ID,
	}
	if ts, ok := t.Target(); ok {
		f.TargetDate = ts.UTC().Format(dateLayout)
	}
	return f
}

func (f WishForm) Editing() bool     { return f.editingID != "" }
func (f WishForm) EditingID() string { return f.editingID }

// ApplyCategories swaps the default category for the first loaded one when the
// default is not among them.
func (f *WishForm) ApplyCategories(names []string) {
	if len(names) == 0 || f.Category != DefaultCategory {
		return
	}
	for _, n := range names {
		if n == DefaultCategory {
			return
		}
	}
	f.Category = names[0]
}

func (f *WishForm) AddSubTask(description string) {
	f.SubTasks = append(f.SubTasks, SubTask{Description: description})
}

func (f *WishForm) RemoveSubTask(i int) {
	if i < 0 || i >= len(f.SubTasks) {
		return
	}
	f.SubTasks = append(f.SubTasks[:i], f.SubTasks[i+1:]...)
}

func (f *WishForm) ToggleSubTask(i int) {
	if i < 0 || i >= len(f.SubTasks) {
		return
	}
	f.SubTasks[i].IsCompleted = !f.SubTasks[i].IsCompleted
}

func (f WishForm) Validate() Result {
	var r Result
	if strings.TrimSpace(f.Title) == "" {
		r.Add(FieldTitle, "Title is required")
	}
	if strings.TrimSpace(f.Description) == "" {
		r.Add(FieldDescription, "Description is required")
	}
	if f.TargetDate == "" {
		r.Add(FieldTargetDate, "Target date is required")
	} else if _, err := time.Parse(dateLayout, f.TargetDate); err != nil {
		r.Add(FieldTargetDate, "Target date must be YYYY-MM-DD")
	}
	if !f.Priority.IsValid() {
		r.Add(FieldPriority, "Priority must be High, Medium or Low")
	}
	if !f.Status.IsValid() {
		r.Add(FieldStatus, "Status must be Not Started, In Progress or Completed")
	}
	return r
}

// cleanSubTasks trims descriptions and drops blank subtasks.
func (f WishForm) cleanSubTasks() []SubTask {
	out := []SubTask{}
	for _, st := range f.SubTasks {
		d := strings.TrimSpace(st.Description)
		if d == "" {
			continue
		}
		out = append(out, SubTask{Description: d, IsCompleted: st.IsCompleted})
	}
	return out
}

func (f WishForm) targetISO() (string, error) {
	d, err := time.Parse(dateLayout, f.TargetDate)
	if err != nil {
		return "", fmt.Errorf("target date: %w", err)
	}
	return d.UTC().Format("2006-01-02T15:04:05.000Z"), nil
}

// Input builds the create payload. Call Validate first.
func (f WishForm) Input() (TaskInput, error) {
	target, err := f.targetISO()
	if err != nil {
		return TaskInput{}, err
	}
	return TaskInput{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Priority:    PriorityToBackend(f.Priority),
		TargetDate:  target,
		Status:      StatusToBackend(f.Status),
		SubTasks:    f.cleanSubTasks(),
	}, nil
}

// Patch builds the full update payload for an edited wish.
func (f WishForm) Patch() (TaskPatch, error) {
	target, err := f.targetISO()
	if err != nil {
		return TaskPatch{}, err
	}
	priority := PriorityToBackend(f.Priority)
	status := StatusToBackend(f.Status)
	subs := f.cleanSubTasks()
	title, desc, cat := f.Title, f.Description, f.Category
	return TaskPatch{
		Title:       &title,
		Description: &desc,
		Category:    &cat,
		Priority:    &priority,
		TargetDate:  &target,
		Status:      &status,
		SubTasks:    &subs,
	}, nil
}
