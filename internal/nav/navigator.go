package nav

import (
	"errors"
	"sync"
)

// ErrNotReady is returned by a navigator that cannot take route changes yet.
var ErrNotReady = errors.New("navigator not ready")

type Navigator interface {
	Replace(r Route) error
	Push(r Route) error
}

// Stack is an in-memory navigator. It refuses changes until MarkReady.
type Stack struct {
	mu      sync.Mutex
	ready   bool
	history []Route
}

func NewStack(ready bool) *Stack {
	return &Stack{ready: ready}
}

func (s *Stack) MarkReady() {
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
}

func (s *Stack) Replace(r Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return ErrNotReady
	}
	if n := len(s.history); n > 0 {
		s.history[n-1] = r
	} else {
		s.history = append(s.history, r)
	}
	return nil
}

func (s *Stack) Push(r Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return ErrNotReady
	}
	s.history = append(s.history, r)
	return nil
}

// Current returns the top route; ok is false before any navigation.
func (s *Stack) Current() (Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return Route{}, false
	}
	return s.history[len(s.history)-1], true
}

func (s *Stack) History() []Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Route(nil), s.history...)
}
