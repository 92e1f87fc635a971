package api

import (
	"context"
	"net/http"

	"wishline/internal/wish"
)

type CategoryInput struct {
	Name   string `json:"categoryName"`
	Parent string `json:"parentCategoryName"`
}

// CategoryService wraps /category.
type CategoryService struct {
	c *Client
}

func NewCategoryService(c *Client) *CategoryService {
	return &CategoryService{c: c}
}

func (s *CategoryService) List(ctx context.Context) ([]wish.Category, error) {
	env, err := s.c.call(ctx, http.MethodGet, "/category", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[wish.Category](env.Data)
}

// Create sends wish.NoParent when in.Parent is blank.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (wish.Category, error) {
	if in.Parent == "" {
		in.Parent = wish.NoParent
	}
	env, err := s.c.call(ctx, http.MethodPost, "/category", in)
	if err != nil {
		return wish.Category{}, err
	}
	return decodeOne[wish.Category](env.Data)
}

// Rename changes only the category name; the parent is left as stored.
func (s *CategoryService) Rename(ctx context.Context, id, name string) (wish.Category, error) {
	body := map[string]string{"categoryName": name}
	env, err := s.c.call(ctx, http.MethodPut, pathID("/category", id), body)
	if err != nil {
		return wish.Category{}, err
	}
	return decodeOne[wish.Category](env.Data)
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.c.Do(ctx, http.MethodDelete, pathID("/category", id), nil, nil)
}

// Names returns category names in backend order.
func Names(cats []wish.Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Name)
	}
	return out
}
