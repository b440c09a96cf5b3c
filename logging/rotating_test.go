package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWeekKey(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC), "2025-W41"},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W01"},
		// ISO week 1 of 2025 starts on Monday 2024-12-30
		{time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC), "2025-W01"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := weekKey(tt.date); got != tt.expected {
				t.Errorf("Expected week key %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRotatingWriterWritesCurrentWeek(t *testing.T) {
	tempDir := t.TempDir()

	rw, err := NewRotatingWriter(tempDir, 1, 0)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer rw.Close()

	if _, err := rw.Write([]byte("Test log message\n")); err != nil {
		t.Fatalf("Failed to write to log: %v", err)
	}

	expected := filepath.Join(tempDir, "catalog-"+weekKey(time.Now())+".log")
	content, err := os.ReadFile(expected)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "Test log message") {
		t.Errorf("Log file does not contain test message: %s", string(content))
	}
}

func TestRotatingWriterSwitchesWeek(t *testing.T) {
	tempDir := t.TempDir()

	rw, err := NewRotatingWriter(tempDir, 1, 0)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer rw.Close()

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	rw.now = func() time.Time { return now }

	if _, err := rw.Write([]byte("Week 40 message\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	now = now.Add(7 * 24 * time.Hour)
	if _, err := rw.Write([]byte("Week 41 message\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	for week, msg := range map[string]string{"2025-W40": "Week 40", "2025-W41": "Week 41"} {
		content, err := os.ReadFile(filepath.Join(tempDir, "catalog-"+week+".log"))
		if err != nil {
			t.Errorf("Expected log file for %s: %v", week, err)
			continue
		}
		if !strings.Contains(string(content), msg) {
			t.Errorf("Expected %q in %s, got %s", msg, week, string(content))
		}
	}
}

func TestRotatingWriterSizeCap(t *testing.T) {
	tempDir := t.TempDir()

	rw, err := NewRotatingWriter(tempDir, 1, 32)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer rw.Close()

	line := []byte("0123456789012345678901234\n")
	for i := 0; i < 3; i++ {
		if _, err := rw.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	week := weekKey(time.Now())
	for _, name := range []string{
		"catalog-" + week + ".log",
		"catalog-" + week + "_01.log",
		"catalog-" + week + "_02.log",
	} {
		if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestRotatingWriterCleanup(t *testing.T) {
	tempDir := t.TempDir()

	rw, err := NewRotatingWriter(tempDir, 1, 0)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer rw.Close()

	oldFile := filepath.Join(tempDir, "catalog-2025-W30.log")
	unrelated := filepath.Join(tempDir, "notes.txt")
	for _, f := range []string{oldFile, unrelated} {
		if err := os.WriteFile(f, []byte("old"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", f, err)
		}
		threeWeeksAgo := time.Now().AddDate(0, 0, -21)
		if err := os.Chtimes(f, threeWeeksAgo, threeWeeksAgo); err != nil {
			t.Fatalf("Failed to set modification time: %v", err)
		}
	}

	deleted, err := rw.Cleanup()
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted file, got %d", deleted)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("Old log file should have been removed")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Unrelated file should be kept")
	}
	if _, err := os.Stat(filepath.Join(tempDir, "catalog-"+weekKey(time.Now())+".log")); err != nil {
		t.Error("Current log file should be kept")
	}
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	logger, closer := SetupLogger(Options{Level: "debug"})
	if logger == nil {
		t.Fatal("Expected a logger")
	}
	if closer != nil {
		t.Error("Expected no closer without a log directory")
	}
}

func TestSetupLoggerWritesJSONFile(t *testing.T) {
	tempDir := t.TempDir()

	logger, closer := SetupLogger(Options{LogDir: tempDir, Level: "info", RetentionWeeks: 2})
	if closer == nil {
		t.Fatal("Expected a closer with a log directory")
	}

	logger.Info("catalog loaded", "source", "network")
	logger.Debug("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, "catalog-"+weekKey(time.Now())+".log"))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"msg":"catalog loaded"`) || !strings.Contains(text, `"source":"network"`) {
		t.Errorf("Expected JSON record in file, got: %s", text)
	}
	if strings.Contains(text, "hidden at info level") {
		t.Errorf("Debug record should be filtered, got: %s", text)
	}
}
