package store

import (
	"testing"
)

func TestDiskStorageRoundTrip(t *testing.T) {
	s, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if _, ok, err := s.Get(KeySessionID); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(KeySessionID, "abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(KeySessionID, "def456"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.Get(KeySessionID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "def456" {
		t.Fatalf("expected overwritten value, got %q", got)
	}

	if err := s.Delete(KeySessionID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(KeySessionID); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := s.Get(KeySessionID); ok {
		t.Fatal("expected key to be gone")
	}
}

func TestDiskStorageSharedAcrossInstances(t *testing.T) {
	base := t.TempDir()
	a, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	b, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load b: %v", err)
	}
	if err := a.Set(KeyYears, "[2019]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := a.Set(KeyYears, "[2020]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, err := b.Get(KeyYears)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "[2020]" {
		t.Fatalf("second instance read stale value %q", got)
	}
}

func TestInvalidKeys(t *testing.T) {
	s, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, key := range []string{"", ".hidden", "a/b"} {
		if err := s.Set(key, "x"); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestLoadRequiresPath(t *testing.T) {
	if _, err := Load(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := Load(testConfig{}); err == nil {
		t.Fatal("expected error for empty base path")
	}
}
