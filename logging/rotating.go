package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const filePrefix = "catalog-"

// Options configures SetupLogger.
type Options struct {
	LogDir         string
	Level          string
	RetentionWeeks int
	MaxFileSize    int64 // 0 disables size based rotation
	Stderr         bool  // console output goes to stderr instead of stdout
}

// RotatingWriter writes to one file per ISO week, starting a numbered file
// when the size cap is reached, and removes files past the retention.
type RotatingWriter struct {
	dir         string
	retention   time.Duration
	maxFileSize int64
	now         func() time.Time

	mu      sync.Mutex
	file    *os.File
	week    string
	seq     int
	size    int64
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewRotatingWriter creates the directory if needed and opens the file for
// the current week.
func NewRotatingWriter(dir string, retentionWeeks int, maxFileSize int64) (*RotatingWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rw := &RotatingWriter{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}

	rw.mu.Lock()
	err := rw.open(weekKey(rw.now()))
	rw.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return rw, nil
}

// weekKey returns the ISO week in YYYY-Www form.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rw *RotatingWriter) fileName(week string, seq int) string {
	if seq == 0 {
		return filepath.Join(rw.dir, filePrefix+week+".log")
	}
	return filepath.Join(rw.dir, fmt.Sprintf("%s%s_%02d.log", filePrefix, week, seq))
}

// open switches to the newest usable file of week. Caller holds mu.
func (rw *RotatingWriter) open(week string) error {
	if rw.file != nil {
		if err := rw.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
		rw.file = nil
	}

	if week != rw.week {
		rw.seq = 0
	}
	for {
		info, err := os.Stat(rw.fileName(week, rw.seq))
		if err != nil || rw.maxFileSize == 0 || info.Size() < rw.maxFileSize {
			break
		}
		rw.seq++
	}

	path := rw.fileName(week, rw.seq)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rw.file = file
	rw.week = week
	rw.size = 0
	if info, err := file.Stat(); err == nil {
		rw.size = info.Size()
	}
	return nil
}

// Write implements io.Writer.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(rw.now())
	switch {
	case week != rw.week:
		if err := rw.open(week); err != nil {
			return 0, err
		}
	case rw.maxFileSize > 0 && rw.size > 0 && rw.size+int64(len(p)) > rw.maxFileSize:
		rw.seq++
		if err := rw.open(week); err != nil {
			return 0, err
		}
	}

	if rw.file == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// Cleanup removes rotated files older than the retention period.
func (rw *RotatingWriter) Cleanup() (int, error) {
	entries, err := os.ReadDir(rw.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := rw.now().Add(-rw.retention)
	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rw.dir, name)); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// startCleanup runs Cleanup once a day until Close.
func (rw *RotatingWriter) startCleanup(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	rw.cancel = cancel
	rw.stopped = make(chan struct{})

	go func() {
		defer close(rw.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := rw.Cleanup(); err != nil {
					fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
				} else if n > 0 {
					fmt.Printf("Cleaned up %d old log files\n", n)
				}
			}
		}
	}()
}

// Close stops the cleanup goroutine and closes the current file.
func (rw *RotatingWriter) Close() error {
	if rw.cancel != nil {
		rw.cancel()
		<-rw.stopped
		rw.cancel = nil
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file == nil {
		return nil
	}
	err := rw.file.Close()
	rw.file = nil
	return err
}

// SetupLogger builds a logger writing text to the console and, when LogDir is set,
// JSON to a rotating file. The returned closer is nil without a file sink.
func SetupLogger(opts Options) (*slog.Logger, io.Closer) {
	level := ParseLevel(opts.Level)
	var console io.Writer = os.Stdout
	if opts.Stderr {
		console = os.Stderr
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})

	if opts.LogDir == "" {
		return slog.New(consoleHandler), nil
	}

	retention := opts.RetentionWeeks
	if retention <= 0 {
		retention = 4
	}

	rw, err := NewRotatingWriter(opts.LogDir, retention, opts.MaxFileSize)
	if err != nil {
		// Keep logging to the console rather than failing startup
		logger := slog.New(consoleHandler)
		logger.Error("Failed to initialize rotating logger", "error", err)
		return logger, nil
	}
	rw.startCleanup(24 * time.Hour)

	fileHandler := slog.NewJSONHandler(rw, &slog.HandlerOptions{Level: level})
	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), rw
}

// multiHandler fans records out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
