package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/snapback/internal/backup"
	"github.com/blackwell-systems/snapback/internal/config"
	"github.com/blackwell-systems/snapback/internal/ignore"
	"github.com/blackwell-systems/snapback/internal/store"
)

// Config wires the watcher's collaborators.
type Config struct {
	Paths   config.Paths
	Matcher *ignore.Matcher
	Writer  *backup.Writer
	// Index is the optional SQLite record index. When nil, backups are
	// still written and logged but not indexed.
	Index *store.Store
}

// Watcher drives backups from filesystem events. It watches the root
// recursively and reacts to content writes only; opens, attribute changes
// and empty creates are ignored.
type Watcher struct {
	cfg    Config
	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a new Watcher instance.
func New(cfg Config) (*Watcher, error) {
	if cfg.Matcher == nil {
		return nil, fmt.Errorf("matcher cannot be nil")
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("writer cannot be nil")
	}
	return &Watcher{
		cfg:    cfg,
		stopCh: make(chan struct{}),
	}, nil
}

// Start begins watching. Setup failures (unreadable root, notification
// subsystem unavailable, backup store not creatable) are returned before
// any event is processed; once Start returns nil the loop only ever exits
// through Stop.
func (w *Watcher) Start() error {
	fi, err := os.Stat(w.cfg.Paths.Root)
	if err != nil {
		return fmt.Errorf("watch root unavailable: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("watch root %s is not a directory", w.cfg.Paths.Root)
	}

	if err := os.MkdirAll(w.cfg.Paths.StoreDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup store: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addRecursive(w.cfg.Paths.Root); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", w.cfg.Paths.Root, err)
	}

	w.wg.Add(1)
	go w.run()

	return nil
}

// Stop terminates the event loop and releases the notification watch.
// A backup copy in flight when Stop fires may be truncated.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.wg.Wait()
	return nil
}

// addRecursive registers dir and every subdirectory with the notification
// watcher, skipping the tool's own directories and ignored directories.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectory: warn and keep walking.
			if p != dir {
				fmt.Fprintf(os.Stderr, "watcher: cannot scan %s: %v\n", p, err)
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipPath(p) {
			return fs.SkipDir
		}
		if rel, rerr := filepath.Rel(w.cfg.Paths.Root, p); rerr == nil && rel != "." {
			if w.cfg.Matcher.ShouldIgnore(rel) {
				return fs.SkipDir
			}
		}
		if aerr := w.fsw.Add(p); aerr != nil {
			fmt.Fprintf(os.Stderr, "watcher: cannot watch %s: %v\n", p, aerr)
		}
		return nil
	})
}

// run is the event loop. It blocks on the notification channels between
// events and exits only when the watcher is stopped or the channels close.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: notification error: %v\n", err)

		case <-w.stopCh:
			return
		}
	}
}

// handleEvent processes one notification. Any failure here is logged and
// absorbed; a single bad event never takes down the watcher.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	// New directories must be added to the watch before their content
	// starts changing.
	if ev.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !w.skipPath(ev.Name) {
			if err := w.addRecursive(ev.Name); err != nil {
				fmt.Fprintf(os.Stderr, "watcher: cannot watch new directory %s: %v\n", ev.Name, err)
			}
		}
	}

	if ev.Op&fsnotify.Write == 0 {
		return
	}
	if w.skipPath(ev.Name) {
		return
	}

	fi, err := os.Stat(ev.Name)
	if err != nil || fi.IsDir() {
		// Vanished between event and stat, or a directory write.
		return
	}

	rel, err := filepath.Rel(w.cfg.Paths.Root, ev.Name)
	if err != nil {
		return
	}
	if w.cfg.Matcher.ShouldIgnore(rel) {
		return
	}

	rec, err := w.cfg.Writer.Backup(ev.Name)
	if err != nil {
		// Already logged by the writer.
		fmt.Fprintf(os.Stderr, "watcher: %v\n", err)
		return
	}

	if w.cfg.Index != nil {
		if err := w.cfg.Index.InsertBackup(rec); err != nil {
			fmt.Fprintf(os.Stderr, "watcher: index update failed: %v\n", err)
		}
	}
}

// skipPath reports whether p falls under one of the unconditionally
// excluded locations: the backup store, the state directory, the reporting
// output directory, or the ignore file itself. These are skipped before
// the ignore rules so the watcher can never back up its own output.
func (w *Watcher) skipPath(p string) bool {
	paths := w.cfg.Paths
	if under(paths.StoreDir, p) || under(paths.StateDir, p) || under(paths.ReportsDir, p) {
		return true
	}
	return p == paths.IgnoreFile
}

// under reports whether p is dir or nested below it.
func under(dir, p string) bool {
	return p == dir || strings.HasPrefix(p, dir+string(filepath.Separator))
}

// ProbeNotifications verifies that the OS notification subsystem can be
// initialised and that root can be registered with it. Used by doctor to
// surface setup failures without starting a watcher.
func ProbeNotifications(root string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("notification subsystem unavailable: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(root); err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	return nil
}
