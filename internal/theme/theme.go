// Package theme keeps the light/dark/system preference and the effective
// color scheme derived from it.
package theme

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"wishline/internal/storage"
)

type Preference string

const (
	PreferenceLight  Preference = "light"
	PreferenceDark   Preference = "dark"
	PreferenceSystem Preference = "system"
)

func (p Preference) IsValid() bool {
	switch p {
	case PreferenceLight, PreferenceDark, PreferenceSystem:
		return true
	default:
		return false
	}
}

func ParsePreference(s string) (Preference, error) {
	p := Preference(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid theme %q (expected light|dark|system)", s)
	}
	return p, nil
}

// Preferences lists the choices in display order.
var Preferences = []Preference{PreferenceLight, PreferenceDark, PreferenceSystem}

type Scheme string

const (
	SchemeLight Scheme = "light"
	SchemeDark  Scheme = "dark"
)

// Detector reports the operating system's scheme.
type Detector func() Scheme

// TerminalDetector asks the terminal for its background color.
func TerminalDetector() Scheme {
	if lipgloss.HasDarkBackground() {
		return SchemeDark
	}
	return SchemeLight
}

// Change is sent to subscribers.
type Change struct {
	Preference Preference
	Scheme     Scheme
}

type Store struct {
	kv     storage.KV
	detect Detector
	log    *slog.Logger

	mu     sync.Mutex
	pref   Preference
	system Scheme
	subs   map[int]func(Change)
	nextID int
}

// NewStore starts at PreferenceSystem; call Load to read the saved value.
func NewStore(kv storage.KV, detect Detector, log *slog.Logger) *Store {
	if detect == nil {
		detect = TerminalDetector
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		kv:     kv,
		detect: detect,
		log:    log,
		pref:   PreferenceSystem,
		system: detect(),
		subs:   map[int]func(Change){},
	}
}

// Load reads the saved preference. Missing or unknown values keep the current one.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, storage.KeyThemePreference)
	if err != nil {
		return fmt.Errorf("load theme preference: %w", err)
	}
	if !ok {
		return nil
	}
	p := Preference(raw)
	if !p.IsValid() {
		s.log.Warn("ignoring stored theme preference", "value", raw)
		return nil
	}
	s.update(func() { s.pref = p })
	return nil
}

func (s *Store) Get() Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pref
}

// Scheme is the effective scheme: the preference, or the system's for
// PreferenceSystem.
func (s *Store) Scheme() Scheme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schemeLocked()
}

func (s *Store) schemeLocked() Scheme {
	switch s.pref {
	case PreferenceLight:
		return SchemeLight
	case PreferenceDark:
		return SchemeDark
	default:
		return s.system
	}
}

// Set persists p; the in-memory value only changes once the write succeeds.
func (s *Store) Set(ctx context.Context, p Preference) error {
	if !p.IsValid() {
		return fmt.Errorf("invalid theme %q", p)
	}
	if err := s.kv.Set(ctx, storage.KeyThemePreference, string(p)); err != nil {
		return fmt.Errorf("save theme preference: %w", err)
	}
	s.update(func() { s.pref = p })
	return nil
}

// Refresh re-reads the system scheme.
func (s *Store) Refresh() {
	sys := s.detect()
	s.update(func() { s.system = sys })
}

// Subscribe registers fn for preference or scheme changes. The returned func
// removes it.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// update applies mutate and notifies subscribers outside the lock when the
// preference or effective scheme changed.
func (s *Store) update(mutate func()) {
	s.mu.Lock()
	before := Change{Preference: s.pref, Scheme: s.schemeLocked()}
	mutate()
	after := Change{Preference: s.pref, Scheme: s.schemeLocked()}
	var subs []func(Change)
	if after != before {
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(after)
	}
}
