package api

import (
	"context"
	"net/http"
	"time"
)

type Health string

const (
	HealthOperational Health = "operational"
	HealthDegraded    Health = "degraded"
	HealthDown        Health = "down"
)

type SystemStatus struct {
	Status    Health `json:"status"`
	Message   string `json:"message"`
	Region    string `json:"region"`
	CheckedAt string `json:"checkedAt"`
	LatencyMs int    `json:"latencyMs"`
	// Fallback is set when the backend could not be reached.
	Fallback bool `json:"-"`
}

// FallbackStatus is shown while /health is unreachable.
func FallbackStatus(now time.Time) SystemStatus {
	return SystemStatus{
		Status:    HealthDegraded,
		Message:   "Using cached metrics until the backend is reachable.",
		Region:    "global",
		CheckedAt: now.UTC().Format(time.RFC3339Nano),
		LatencyMs: 120,
		Fallback:  true,
	}
}

type SystemService struct {
	c   *Client
	now func() time.Time
}

func NewSystemService(c *Client) *SystemService {
	return &SystemService{c: c, now: time.Now}
}

// Status never fails; any error yields FallbackStatus.
func (s *SystemService) Status(ctx context.Context) SystemStatus {
	var st SystemStatus
	if err := s.c.Do(ctx, http.MethodGet, "/health", nil, &st); err != nil {
		s.c.log.Warn("using fallback status", "err", err)
		return FallbackStatus(s.now())
	}
	return st
}
