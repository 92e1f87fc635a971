package api

import (
	"context"
	"net/http"

	"wishline/internal/wish"
)

// TaskService wraps /task.
type TaskService struct {
	c *Client
}

func NewTaskService(c *Client) *TaskService {
	return &TaskService{c: c}
}

// List returns the caller's wishes.
func (s *TaskService) List(ctx context.Context) ([]wish.Task, error) {
	env, err := s.c.call(ctx, http.MethodGet, "/task", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[wish.Task](env.Data)
}

func (s *TaskService) Get(ctx context.Context, id string) (wish.Task, error) {
	env, err := s.c.call(ctx, http.MethodGet, pathID("/task", id), nil)
	if err != nil {
		return wish.Task{}, err
	}
	return decodeOne[wish.Task](env.Data)
}

// ListByUser hits /task/{userId}. The path collides with Get; which one the
// backend serves is its decision.
func (s *TaskService) ListByUser(ctx context.Context, userID string) ([]wish.Task, error) {
	env, err := s.c.call(ctx, http.MethodGet, pathID("/task", userID), nil)
	if err != nil {
		return nil, err
	}
	return decodeList[wish.Task](env.Data)
}

func (s *TaskService) Create(ctx context.Context, in wish.TaskInput) (wish.Task, error) {
	if in.SubTasks == nil {
		in.SubTasks = []wish.SubTask{}
	}
	env, err := s.c.call(ctx, http.MethodPost, "/task", in)
	if err != nil {
		return wish.Task{}, err
	}
	return decodeOne[wish.Task](env.Data)
}

func (s *TaskService) Update(ctx context.Context, id string, patch wish.TaskPatch) (wish.Task, error) {
	env, err := s.c.call(ctx, http.MethodPut, pathID("/task", id), patch)
	if err != nil {
		return wish.Task{}, err
	}
	return decodeOne[wish.Task](env.Data)
}

// SetStatus moves a wish to status and sets progress to 100 or back to 0 when
// completing or reopening.
func (s *TaskService) SetStatus(ctx context.Context, id string, status wish.Status) (wish.Task, error) {
	patch := wish.TaskPatch{Status: &status}
	switch status {
	case wish.StatusCompleted:
		p := 100
		patch.Progress = &p
	case wish.StatusNotStarted:
		p := 0
		patch.Progress = &p
	}
	return s.Update(ctx, id, patch)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.c.Do(ctx, http.MethodDelete, pathID("/task", id), nil, nil)
}
