package keypad

import (
	"sync"
	"testing"
	"time"
)

func TestRegistryPressSequence(t *testing.T) {
	r := NewSessionRegistry()

	steps := []struct {
		key         string
		wantExpr    string
		wantDisplay string
	}{
		{"1", "1", "1"},
		{"2", "12", "12"},
		{"+", "12＋", "＋"},
		{"3", "12＋3", "3"},
		{"Enter", "15", "15"},
	}

	for _, step := range steps {
		expr, display := r.Press("s1", step.key)
		if expr != step.wantExpr || display != step.wantDisplay {
			t.Errorf("after %q: state = (%q, %q), want (%q, %q)",
				step.key, expr, display, step.wantExpr, step.wantDisplay)
		}
	}
}

func TestRegistrySessionsAreIsolated(t *testing.T) {
	r := NewSessionRegistry()

	r.Press("a", "7")
	r.Press("b", "9")

	if expr, _ := r.State("a"); expr != "7" {
		t.Errorf("session a expr = %q, want %q", expr, "7")
	}
	if expr, _ := r.State("b"); expr != "9" {
		t.Errorf("session b expr = %q, want %q", expr, "9")
	}
}

func TestRegistryUnknownKeyIsNoOp(t *testing.T) {
	r := NewSessionRegistry()

	r.Press("s1", "5")
	expr, display := r.Press("s1", "F12")
	if expr != "5" || display != "5" {
		t.Errorf("state = (%q, %q), want (%q, %q)", expr, display, "5", "5")
	}
}

func TestRegistryCleanupStale(t *testing.T) {
	r := NewSessionRegistry()

	r.Press("old", "1")
	r.Press("fresh", "2")

	// age the first session artificially
	r.mu.Lock()
	r.sessions["old"].lastUsed = time.Now().Add(-time.Hour)
	r.mu.Unlock()

	if removed := r.CleanupStale(30 * time.Minute); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if r.Count() != 1 {
		t.Errorf("count = %d, want 1", r.Count())
	}

	// a removed session starts over
	if expr, display := r.State("old"); expr != "" || display != "0" {
		t.Errorf("recreated session state = (%q, %q), want initial", expr, display)
	}
}

func TestRegistryConcurrentPresses(t *testing.T) {
	r := NewSessionRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Press("shared", "1")
			}
		}()
	}
	wg.Wait()

	// 1000 presses of "1", each appended atomically
	expr, _ := r.State("shared")
	if len(expr) != 1000 {
		t.Errorf("expr length = %d, want 1000", len(expr))
	}
}
