package watcher

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/blackwell-systems/snapback/internal/config"
)

// pidFileGrace is how long StartDaemon waits for the child to confirm
// startup by writing its PID file.
const pidFileGrace = 3 * time.Second

// StopResult describes what StopDaemon actually did.
type StopResult int

const (
	// StopNotRunning means there was no PID file.
	StopNotRunning StopResult = iota
	// StopCleanedStale means the PID file referenced a dead process and
	// was removed.
	StopCleanedStale
	// StopSignaled means a live watcher was sent SIGTERM.
	StopSignaled
)

// StartDaemon spawns the watcher as a background daemon process, detached
// from the controlling terminal with its output redirected to the activity
// log. The daemon child writes the PID file itself after a successful
// startup; StartDaemon waits for that write so a status query immediately
// after cannot race a half-started daemon. Returns the daemon's PID.
func StartDaemon(paths config.Paths) (int, error) {
	running, err := IsDaemonRunning(paths.PIDFile)
	if err != nil {
		return 0, fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return 0, fmt.Errorf("daemon already running (PID file: %s)", paths.PIDFile)
	}

	if err := paths.EnsureStateDir(); err != nil {
		return 0, err
	}

	logF, err := os.OpenFile(paths.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logF.Close()

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, "start", "--daemon-child", "--root", paths.Root)
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // new session: detach from the terminal, lead own process group
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon process: %w", err)
	}
	childPID := cmd.Process.Pid

	if err := cmd.Process.Release(); err != nil {
		return 0, fmt.Errorf("failed to release process: %w", err)
	}

	pid, err := waitForPIDFile(paths.PIDFile, pidFileGrace)
	if err != nil {
		// The child never came up. Kill it if it is lingering and make
		// sure no stale PID file survives.
		syscall.Kill(childPID, syscall.SIGTERM)
		os.Remove(paths.PIDFile)
		return 0, fmt.Errorf("daemon failed to start (check %s): %w", paths.LogFile, err)
	}

	return pid, nil
}

// waitForPIDFile polls for the daemon child's PID file write.
func waitForPIDFile(pidFile string, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if pid, err := ReadPIDFile(pidFile); err == nil {
			return pid, nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return 0, fmt.Errorf("no PID file after %s", timeout)
}

// RunDaemon runs the watcher in daemon mode (called by the daemon child
// process). It starts the event loop, writes its own PID to pidFile, and
// blocks until SIGTERM or SIGINT. The PID file is written only after a
// successful start so the parent's grace-period wait doubles as a setup
// failure check.
func (w *Watcher) RunDaemon(pidFile string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if err := WritePIDFile(pidFile, os.Getpid()); err != nil {
		w.Stop()
		return err
	}

	sig := <-sigCh
	fmt.Fprintf(os.Stderr, "received signal %v, shutting down...\n", sig)

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}

	// stop() normally removes the PID file first; tolerate that.
	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}

	return nil
}

// StopDaemon stops a running daemon. A missing PID file reports not
// running; a stale one is cleaned up; a live daemon receives SIGTERM
// addressed to its whole process group so any helper processes it spawned
// go down with it. Returns what happened and the PID involved.
func StopDaemon(pidFile string) (StopResult, int, error) {
	pid, err := ReadPIDFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return StopNotRunning, 0, nil
		}
		// Unparseable PID file: treat as stale state and clean up.
		os.Remove(pidFile)
		return StopCleanedStale, 0, nil
	}

	if !processAlive(pid) {
		os.Remove(pidFile)
		return StopCleanedStale, pid, nil
	}

	// The daemon is a session leader (Setsid), so -pid reaches its whole
	// group. Fall back to the single process if group delivery fails.
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
			return StopSignaled, pid, fmt.Errorf("failed to send SIGTERM to process %d: %w", pid, err)
		}
	}

	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return StopSignaled, pid, fmt.Errorf("failed to remove PID file: %w", err)
	}

	return StopSignaled, pid, nil
}

// IsDaemonRunning checks if a daemon is running by checking the PID file.
// A stale PID file (dead or unparseable PID) is removed on the way.
func IsDaemonRunning(pidFile string) (bool, error) {
	pid, err := ReadPIDFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		// Invalid PID file, consider daemon not running
		os.Remove(pidFile)
		return false, nil
	}

	if !processAlive(pid) {
		// Process doesn't exist, remove stale PID file
		os.Remove(pidFile)
		return false, nil
	}

	return true, nil
}

// ReadPIDFile reads and parses the PID file. Parse failures are reported
// with os.ErrInvalid wrapping so callers can distinguish them from a
// missing file.
func ReadPIDFile(pidFile string) (int, error) {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID file %s: %w", pidFile, os.ErrInvalid)
	}
	return pid, nil
}

// WritePIDFile records pid as a single decimal line.
func WritePIDFile(pidFile string, pid int) error {
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", pid)), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// processAlive checks liveness by sending signal 0.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
