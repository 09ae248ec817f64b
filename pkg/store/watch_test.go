package store

import (
	"context"
	"testing"
	"time"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestWatchEmitsKeyChanges(t *testing.T) {
	base := t.TempDir()
	s, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load storage: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Let the watcher goroutine subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	other, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load second storage: %v", err)
	}
	if err := other.Set(KeyYears, "[2019]"); err != nil {
		t.Fatalf("set: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Key == KeyYears {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for key change event")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	s, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load storage: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestKeyForPathIgnoresTempFiles(t *testing.T) {
	s := &DiskStorage{basePath: "/base"}
	if _, ok := s.keyForPath("/base/.tmp/123"); ok {
		t.Fatal("temp file should not map to a key")
	}
	if key, ok := s.keyForPath("/base/id"); !ok || key != "id" {
		t.Fatalf("keyForPath = %q, %v", key, ok)
	}
}

func TestThrottleSendsNothingAfterStop(t *testing.T) {
	th := newEventThrottle(time.Hour)
	var sent []Event
	send := func(ev Event) { sent = append(sent, ev) }

	th.Enqueue(Event{Key: KeyYears}, send)
	th.Stop()
	// A timer that already fired runs flush after Stop returns.
	th.flush(send)
	th.Enqueue(Event{Key: KeyMonths}, send)
	th.flush(send)

	if len(sent) != 0 {
		t.Fatalf("sent after stop: %v", sent)
	}
}

func TestThrottleCoalescesBurst(t *testing.T) {
	th := newEventThrottle(time.Hour)
	defer th.Stop()
	var sent []Event
	send := func(ev Event) { sent = append(sent, ev) }

	th.Enqueue(Event{Key: KeyYears}, send)
	th.Enqueue(Event{Key: KeyYears}, send)
	th.flush(send)

	if len(sent) != 1 || sent[0].Key != KeyYears {
		t.Fatalf("sent = %v", sent)
	}
}
