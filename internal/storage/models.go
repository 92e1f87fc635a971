package storage

import "time"

// Entry is one persisted key and its raw string value.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
