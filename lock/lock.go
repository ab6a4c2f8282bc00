// Package lock prevents two runs from working on the same fork at once.
//
// The lock is an exclusive flock on a per-fork file under the XDG runtime
// directory. The kernel drops the flock when the holding process exits, so a
// crashed run never leaves a lock behind that has to be cleaned up by hand.
package lock

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"golang.org/x/sys/unix"

	perrors "github.com/input-output-hk/daily-contributor/errors"
)

// AppDir is the directory below the runtime dir that holds lock files.
const AppDir = "daily-contributor"

// Locker holds the run lock for one fork path. A Locker is not safe for
// concurrent use.
type Locker struct {
	path   string
	file   *os.File
	pid    int
	logger *slog.Logger
	dir    string
}

// Option configures a Locker.
type Option func(*Locker)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locker) {
		l.logger = logger
	}
}

// WithDir places the lock file in dir instead of the XDG runtime directory.
func WithDir(dir string) Option {
	return func(l *Locker) {
		l.dir = dir
	}
}

// New returns a Locker for forkPath. The lock file is not touched until
// Acquire is called.
func New(forkPath string, opts ...Option) (*Locker, error) {
	l := &Locker{
		pid:    os.Getpid(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}

	abs, err := filepath.Abs(forkPath)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.CodeInvalidInput, "resolving fork path")
	}

	name := FileName(abs)
	if l.dir != "" {
		if err := os.MkdirAll(l.dir, 0o700); err != nil {
			return nil, perrors.Wrap(err, perrors.CodeInternal, "creating lock directory")
		}
		l.path = filepath.Join(l.dir, name)
		return l, nil
	}

	l.path, err = xdg.RuntimeFile(filepath.Join(AppDir, name))
	if err != nil {
		return nil, perrors.Wrap(err, perrors.CodeInternal, "resolving lock file path")
	}

	return l, nil
}

// FileName returns the lock file name for an absolute fork path.
func FileName(forkPath string) string {
	sum := sha256.Sum256([]byte(forkPath))
	return fmt.Sprintf("%x", sum)[:16] + ".lock"
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.path
}

// Held reports whether this Locker currently holds the lock.
func (l *Locker) Held() bool {
	return l.file != nil
}

// Acquire takes the lock without blocking. If another process (or another
// Locker in this process) holds it, a CodeConflict error is returned whose
// context names the holder's PID when known.
func (l *Locker) Acquire() error {
	if l.file != nil {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return perrors.WrapWithContext(err, perrors.CodeInternal, "opening lock file",
			map[string]interface{}{"path": l.path})
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()

		if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
			ctx := map[string]interface{}{"path": l.path}
			if pid, pidErr := readPID(l.path); pidErr == nil {
				ctx["pid"] = pid
			}
			l.logger.Warn("Another run holds the lock", "path", l.path)
			return perrors.WrapWithContext(err, perrors.CodeConflict, "another run is in progress", ctx)
		}

		return perrors.WrapWithContext(err, perrors.CodeInternal, "locking lock file",
			map[string]interface{}{"path": l.path})
	}

	if err := f.Truncate(0); err == nil {
		_, err = f.WriteAt([]byte(strconv.Itoa(l.pid)), 0)
		if err != nil {
			l.logger.Warn("Failed to record PID in lock file", "path", l.path, "error", err)
		}
	}

	l.file = f
	l.logger.Debug("Lock acquired", "path", l.path, "pid", l.pid)

	return nil
}

// Release drops the lock. Releasing a lock that is not held is a no-op.
// The lock file is left in place so every run locks the same inode.
func (l *Locker) Release() error {
	if l.file == nil {
		return nil
	}

	var err error
	_ = l.file.Truncate(0)
	if unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); unlockErr != nil {
		err = perrors.Wrap(unlockErr, perrors.CodeInternal, "unlocking lock file")
	}
	if closeErr := l.file.Close(); closeErr != nil && err == nil {
		err = perrors.Wrap(closeErr, perrors.CodeInternal, "closing lock file")
	}

	l.file = nil
	l.logger.Debug("Lock released", "path", l.path)

	return err
}

func readPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
