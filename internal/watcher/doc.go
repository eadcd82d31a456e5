// Package watcher runs the file-versioning event loop and manages its
// lifetime as a background daemon.
//
// The Watcher subscribes to filesystem notifications recursively under a
// watch root and, for every completed content write, filters the path
// through the ignore rules and hands it to the backup writer. The loop is
// a single goroutine blocking on the OS notification channel; there is no
// polling.
//
// Key features:
//   - Recursive fsnotify watching (new directories picked up on creation)
//   - Unconditional self-exclusion of the backup store, state files and
//     reporting output (no feedback loops)
//   - Per-event failures logged and absorbed; only setup failures are fatal
//   - Daemon mode with PID file management: the child writes its own PID
//     file and the parent confirms it before reporting success
//   - Graceful shutdown with SIGTERM/SIGINT handling
//
// Example usage:
//
//	paths, err := config.NewPaths(".")
//	if err != nil {
//		log.Fatal(err)
//	}
//	m, _ := ignore.Load(paths.IgnoreFile)
//	wr := backup.NewWriter(paths.Root, paths.StoreDir, paths.LogFile)
//
//	w, err := watcher.New(watcher.Config{Paths: paths, Matcher: m, Writer: wr})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Watch in the current process
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
