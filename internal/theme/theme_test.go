package theme

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"wishline/internal/storage"
)

func newTestKV(t *testing.T) storage.KV {
	t.Helper()
	kv, err := storage.OpenKV(context.Background(), storage.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

type fakeOS struct{ scheme Scheme }

func (f *fakeOS) detect() Scheme { return f.scheme }

func TestDefaultsToSystem(t *testing.T) {
	os := &fakeOS{scheme: SchemeDark}
	s := NewStore(newTestKV(t), os.detect, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Get() != PreferenceSystem || s.Scheme() != SchemeDark {
		t.Fatalf("pref=%s scheme=%s", s.Get(), s.Scheme())
	}
}

func TestSetPersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	os := &fakeOS{scheme: SchemeLight}
	s := NewStore(kv, os.detect, nil)

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	if err := s.Set(ctx, PreferenceDark); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, PreferenceDark); err != nil {
		t.Fatalf("Set again: %v", err)
	}
	unsubscribe()
	unsubscribe()
	if err := s.Set(ctx, PreferenceLight); err != nil {
		t.Fatalf("Set light: %v", err)
	}

	want := []Change{{Preference: PreferenceDark, Scheme: SchemeDark}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("notifications (-want +got):\n%s", diff)
	}

	reloaded := NewStore(kv, os.detect, nil)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Get() != PreferenceLight {
		t.Fatalf("reloaded pref = %s", reloaded.Get())
	}
}

func TestSystemFollowsRefresh(t *testing.T) {
	os := &fakeOS{scheme: SchemeLight}
	s := NewStore(newTestKV(t), os.detect, nil)

	var got []Scheme
	s.Subscribe(func(c Change) { got = append(got, c.Scheme) })

	os.scheme = SchemeDark
	s.Refresh()
	s.Refresh()
	if s.Scheme() != SchemeDark {
		t.Fatalf("scheme = %s", s.Scheme())
	}
	if diff := cmp.Diff([]Scheme{SchemeDark}, got); diff != "" {
		t.Fatalf("notifications (-want +got):\n%s", diff)
	}

	if err := s.Set(context.Background(), PreferenceLight); err != nil {
		t.Fatalf("Set: %v", err)
	}
	os.scheme = SchemeLight
	s.Refresh()
	os.scheme = SchemeDark
	s.Refresh()
	if s.Scheme() != SchemeLight {
		t.Fatalf("explicit light changed with OS: %s", s.Scheme())
	}
}

func TestInvalidStoredValueIgnored(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	if err := kv.Set(ctx, storage.KeyThemePreference, "sepia"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s := NewStore(kv, (&fakeOS{scheme: SchemeLight}).detect, nil)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Get() != PreferenceSystem {
		t.Fatalf("pref = %s", s.Get())
	}
	if err := s.Set(ctx, Preference("sepia")); err == nil {
		t.Fatalf("expected error setting invalid preference")
	}
}

func TestParsePreference(t *testing.T) {
	if p, err := ParsePreference(" Dark "); err != nil || p != PreferenceDark {
		t.Fatalf("ParsePreference = %s, %v", p, err)
	}
	if _, err := ParsePreference("blue"); err == nil {
		t.Fatalf("expected error")
	}
}
