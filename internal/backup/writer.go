// Package backup persists point-in-time copies of changed files into a flat
// store directory and records each outcome in the activity log.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout is the second-resolution timestamp embedded in backup
// file names and activity log lines.
const TimestampLayout = "2006_01_02_15:04:05"

// Record describes one persisted snapshot of a changed file. Records are
// created on every successful backup and never mutated.
type Record struct {
	// RelPath is the source file's path relative to the watch root.
	RelPath string
	// Timestamp is when the backup was taken, truncated to seconds.
	Timestamp time.Time
	// DestName is the file name inside the store directory:
	// <basename>_<timestamp>.
	DestName string
	// SizeBytes is the number of bytes copied.
	SizeBytes int64
}

// DestPath returns the record's absolute path inside storeDir.
func (r *Record) DestPath(storeDir string) string {
	return filepath.Join(storeDir, r.DestName)
}

// Writer copies changed files into the store directory. The store is flat:
// original directory structure is not preserved, so same-named files from
// different subdirectories can collide. Two writes to the same file within
// one second produce the same destination name and the later copy wins.
type Writer struct {
	root     string
	storeDir string
	logPath  string
}

// NewWriter creates a Writer copying files from under root into storeDir,
// logging activity to logPath.
func NewWriter(root, storeDir, logPath string) *Writer {
	return &Writer{
		root:     root,
		storeDir: storeDir,
		logPath:  logPath,
	}
}

// StoreDir returns the backup store directory.
func (w *Writer) StoreDir() string {
	return w.storeDir
}

// Backup copies the file at absPath into the store directory under a
// timestamped name and returns the resulting record. The store directory is
// created on demand. Both success and failure append a line to the activity
// log; on failure the returned error carries the cause so the caller can
// absorb it without stopping.
func (w *Writer) Backup(absPath string) (*Record, error) {
	now := time.Now().Truncate(time.Second)

	rel, err := filepath.Rel(w.root, absPath)
	if err != nil {
		rel = filepath.Base(absPath)
	}

	if err := os.MkdirAll(w.storeDir, 0755); err != nil {
		ferr := fmt.Errorf("failed to create backup store: %w", err)
		w.logFailure(now, absPath, ferr)
		return nil, ferr
	}

	destName := filepath.Base(absPath) + "_" + now.Format(TimestampLayout)
	destPath := filepath.Join(w.storeDir, destName)

	size, err := copyFile(absPath, destPath)
	if err != nil {
		// The source may have vanished between the event and the
		// copy; clean up any partial destination.
		os.Remove(destPath)
		ferr := fmt.Errorf("failed to back up %s: %w", absPath, err)
		w.logFailure(now, absPath, ferr)
		return nil, ferr
	}

	w.logLine(now, fmt.Sprintf("Backup created: %s", destPath))

	return &Record{
		RelPath:   filepath.ToSlash(rel),
		Timestamp: now,
		DestName:  destName,
		SizeBytes: size,
	}, nil
}

// copyFile copies src to dst verbatim, truncating any existing dst, and
// returns the number of bytes written.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func (w *Writer) logFailure(t time.Time, src string, err error) {
	w.logLine(t, fmt.Sprintf("Backup failed: %s: %v", src, err))
}

// logLine appends one timestamped line to the activity log. Logging is
// best-effort: an unwritable log never fails a backup.
func (w *Writer) logLine(t time.Time, msg string) {
	f, err := os.OpenFile(w.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backup: cannot write activity log: %v\n", err)
		return
	}
	defer f.Close()

	fmt.Fprintf(f, "%s - %s\n", t.Format(TimestampLayout), msg)
}
