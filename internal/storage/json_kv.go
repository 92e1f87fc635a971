package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const (
	lockRetryDelay = 10 * time.Millisecond
	lockTimeout    = 5 * time.Second
)

// ErrLockTimeout is returned when another process holds the store lock too long.
var ErrLockTimeout = errors.New("timed out waiting for store lock")

type jsonEntry struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type jsonDoc struct {
	Entries map[string]jsonEntry `json:"entries"`
}

// JSONFileKV keeps device keys in a single JSON document. Every read-modify-write
// runs under a cross-process flock on path+".lock".
type JSONFileKV struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

func NewJSONFileKV(path string) (*JSONFileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &JSONFileKV{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

func (s *JSONFileKV) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		v  string
		ok bool
	)
	err := s.withLock(ctx, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		e, found := doc.Entries[key]
		v, ok = e.Value, found
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return v, ok, nil
}

func (s *JSONFileKV) Set(ctx context.Context, key, value string) error {
	err := s.withLock(ctx, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		doc.Entries[key] = jsonEntry{Value: value, UpdatedAt: time.Now().UTC()}
		return s.write(doc)
	})
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *JSONFileKV) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.withLock(ctx, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		for _, k := range keys {
			delete(doc.Entries, k)
		}
		return s.write(doc)
	})
	if err != nil {
		return fmt.Errorf("kv remove: %w", err)
	}
	return nil
}

func (s *JSONFileKV) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	err := s.withLock(ctx, func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		for k, e := range doc.Entries {
			out = append(out, Entry{Key: k, Value: e.Value, UpdatedAt: e.UpdatedAt})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("kv list: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *JSONFileKV) Close() error {
	return nil
}

func (s *JSONFileKV) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() {
		_ = s.lock.Unlock()
	}()
	return fn()
}

func (s *JSONFileKV) read() (*jsonDoc, error) {
	doc := &jsonDoc{Entries: map[string]jsonEntry{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]jsonEntry{}
	}
	return doc, nil
}

// write replaces the file via rename so readers never see a partial document.
func (s *JSONFileKV) write(doc *jsonDoc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// OpenKV opens the device store for the given driver.
func OpenKV(ctx context.Context, driver, path string) (KV, error) {
	switch driver {
	case "", DriverSQLite:
		db, err := Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(db), nil
	case DriverJSON:
		return NewJSONFileKV(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q (want sqlite|json)", driver)
	}
}
