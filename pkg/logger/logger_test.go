package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestLogger builds a logger writing into a temp directory with
// every area enabled, bypassing the global singleton.
func newTestLogger(t *testing.T, maxSizeMB int64) *Logger {
	t.Helper()

	l := &Logger{
		areaEnabled:   make(map[LogArea]*int32),
		logPath:       filepath.Join(t.TempDir(), "test.log"),
		maxSizeMB:     maxSizeMB,
		rotationCount: 2,
	}
	atomic.StoreInt32(&l.enabled, 1)
	for _, area := range ListAreas() {
		flag := new(int32)
		atomic.StoreInt32(flag, 1)
		l.areaEnabled[area] = flag
	}

	if err := l.openLogFile(); err != nil {
		t.Fatalf("openLogFile failed: %v", err)
	}
	return l
}

func TestLogRotationDoesNotBlock(t *testing.T) {
	// max size 0: every entry pushes currentSize over the limit and
	// forces a rotation on the spot
	l := newTestLogger(t, 0)

	done := make(chan struct{})
	go func() {
		l.writeLog(INFO, AreaGeneral, 2, "first entry")
		l.writeLog(INFO, AreaGeneral, 2, "second entry")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("writeLog blocked while rotating the log file")
	}

	if _, err := os.Stat(l.logPath + ".1"); err != nil {
		t.Errorf("rotated log file missing: %v", err)
	}
	if l.currentSize != 0 {
		t.Errorf("currentSize after rotation = %d, want 0", l.currentSize)
	}
}

func TestLogEntryNamesCallSite(t *testing.T) {
	old := globalLogger
	globalLogger = newTestLogger(t, 10)
	defer func() { globalLogger = old }()

	// one direct call, one through an area wrapper
	Info(AreaGeneral, "direct call")
	WebSocketInfo("wrapper call")

	data, err := os.ReadFile(globalLogger.logPath)
	if err != nil {
		t.Fatalf("reading log file failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log line count = %d, want 2", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "[logger_test.go:") {
			t.Errorf("log entry does not name the call site: %q", line)
		}
	}
}
