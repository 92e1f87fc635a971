package backendtest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wishline/internal/wish"
)

func (b *Backend) listCategories(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)

	b.mu.Lock()
	var items []any
	for _, id := range sortedKeys(b.categories) {
		c := b.categories[id]
		if c.owner == u.ID {
			items = append(items, c.Category)
		}
	}
	b.mu.Unlock()

	b.list(w, "Categories fetched successfully", items)
}

func (b *Backend) createCategory(w http.ResponseWriter, r *http.Request) {
	var in wish.Category
	if err := decode(r, &in); err != nil || in.Name == "" {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Category name is required")
		return
	}
	u := currentUser(r)

	b.mu.Lock()
	now := b.stamp()
	c := wish.Category{
		ID:         uuid.NewString(),
		Name:       in.Name,
		ParentName: in.ParentName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.categories[c.ID] = categoryRow{Category: c, owner: u.ID}
	b.mu.Unlock()

	b.ok(w, http.StatusCreated, "Category created successfully", c)
}

func (b *Backend) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"categoryName"`
	}
	if err := decode(r, &in); err != nil || in.Name == "" {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Category name is required")
		return
	}
	id := chi.URLParam(r, "id")
	u := currentUser(r)

	b.mu.Lock()
	row, ok := b.categories[id]
	if !ok || row.owner != u.ID {
		b.mu.Unlock()
		b.fail(w, http.StatusNotFound, "NOT_FOUND", "Category not found")
		return
	}
	row.Name = in.Name
	row.UpdatedAt = b.stamp()
	b.categories[id] = row
	b.mu.Unlock()

	b.ok(w, http.StatusOK, "Category updated successfully", []wish.Category{row.Category})
}

func (b *Backend) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := currentUser(r)

	b.mu.Lock()
	row, ok := b.categories[id]
	if ok && row.owner == u.ID {
		delete(b.categories, id)
	}
	b.mu.Unlock()

	if !ok || row.owner != u.ID {
		b.fail(w, http.StatusNotFound, "NOT_FOUND", "Category not found")
		return
	}
	b.ok(w, http.StatusOK, "Category deleted successfully", nil)
}

func (b *Backend) userTasks(userID string) []any {
	var items []any
	for _, id := range sortedKeys(b.tasks) {
		t := b.tasks[id]
		if t.UserID == userID {
			items = append(items, t)
		}
	}
	return items
}

func (b *Backend) listTasks(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	b.mu.Lock()
	items := b.userTasks(u.ID)
	b.mu.Unlock()
	b.list(w, "Tasks fetched successfully", items)
}

// getTask serves /task/{id} for a task id, or the task list when id is the
// caller's user id.
func (b *Backend) getTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := currentUser(r)

	b.mu.Lock()
	t, ok := b.tasks[id]
	var items []any
	if !ok && id == u.ID {
		items = b.userTasks(u.ID)
	}
	b.mu.Unlock()

	switch {
	case ok && t.UserID == u.ID:
		b.ok(w, http.StatusOK, "Task fetched successfully", t)
	case id == u.ID:
		b.list(w, "Tasks fetched successfully", items)
	default:
		b.fail(w, http.StatusNotFound, "NOT_FOUND", "Task not found")
	}
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var in wish.TaskInput
	if err := decode(r, &in); err != nil || in.Title == "" {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Title is required")
		return
	}
	u := currentUser(r)

	b.mu.Lock()
	now := b.stamp()
	t := wish.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		TargetDate:  in.TargetDate,
		Status:      in.Status,
		UserID:      u.ID,
		SubTasks:    in.SubTasks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Progress != nil {
		t.Progress = *in.Progress
	}
	b.tasks[t.ID] = t
	b.mu.Unlock()

	b.ok(w, http.StatusCreated, "Task created successfully", t)
}

func (b *Backend) updateTask(w http.ResponseWriter, r *http.Request) {
	var p wish.TaskPatch
	if err := decode(r, &p); err != nil {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	u := currentUser(r)

	b.mu.Lock()
	t, ok := b.tasks[id]
	if !ok || t.UserID != u.ID {
		b.mu.Unlock()
		b.fail(w, http.StatusNotFound, "NOT_FOUND", "Task not found")
		return
	}
	applyPatch(&t, p)
	t.UpdatedAt = b.stamp()
	b.tasks[id] = t
	b.mu.Unlock()

	b.ok(w, http.StatusOK, "Task updated successfully", t)
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u := currentUser(r)

	b.mu.Lock()
	t, ok := b.tasks[id]
	if ok && t.UserID == u.ID {
		delete(b.tasks, id)
	}
	b.mu.Unlock()

	if !ok || t.UserID != u.ID {
		b.fail(w, http.StatusNotFound, "NOT_FOUND", "Task not found")
		return
	}
	b.ok(w, http.StatusOK, "Task deleted successfully", nil)
}

func applyPatch(t *wish.Task, p wish.TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.TargetDate != nil {
		t.TargetDate = *p.TargetDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	if p.SubTasks != nil {
		t.SubTasks = *p.SubTasks
	}
}
