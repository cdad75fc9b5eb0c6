package sqlite

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/toolsascode/revmig/internal/logger"
)

// lockHolder is written into the lock file by the process that owns it
type lockHolder struct {
	Holder     string    `json:"holder"`
	Hostname   string    `json:"hostname"`
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// lockFile is a migration lock shared by every process that opens the same
// database file. It is created with O_EXCL next to the database, so only one
// process can own it at a time.
type lockFile struct {
	path       string
	staleAfter time.Duration
	holder     lockHolder
}

func newLockFile(dbPath, key string, staleAfter time.Duration) *lockFile {
	key = strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &lockFile{
		path:       dbPath + "." + key + ".lock",
		staleAfter: staleAfter,
		holder: lockHolder{
			Holder:   uuid.New().String(),
			Hostname: hostname,
			PID:      os.Getpid(),
		},
	}
}

// tryAcquire creates the lock file. It reports false when another live
// holder owns it. A stale file is removed and acquisition retried once.
func (l *lockFile) tryAcquire() (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			l.holder.AcquiredAt = time.Now().UTC()
			data, _ := json.Marshal(l.holder)
			_, werr := file.Write(data)
			cerr := file.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(l.path)
				return false, fmt.Errorf("failed to write lock file %s: %w", l.path, errors.Join(werr, cerr))
			}
			return true, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return false, fmt.Errorf("failed to create lock file %s: %w", l.path, err)
		}

		current, readErr := l.read()
		if errors.Is(readErr, os.ErrNotExist) {
			continue
		}
		if readErr != nil {
			// unreadable until its holder finishes writing it; after staleAfter
			// it is treated as abandoned
			info, err := os.Stat(l.path)
			if err != nil || l.staleAfter <= 0 || time.Since(info.ModTime()) <= l.staleAfter {
				return false, nil
			}
			current = &lockHolder{AcquiredAt: info.ModTime()}
		}
		if !l.stale(current) {
			logger.Debugf("Migration lock %s held by pid %d on %s since %s", l.path, current.PID, current.Hostname, current.AcquiredAt.Format(time.RFC3339))
			return false, nil
		}

		logger.Warnf("Removing stale migration lock %s (pid %d on %s, acquired %s)", l.path, current.PID, current.Hostname, current.AcquiredAt.Format(time.RFC3339))
		if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("failed to remove stale lock file %s: %w", l.path, err)
		}
	}
	return false, nil
}

// release removes the lock file if this holder still owns it
func (l *lockFile) release() {
	current, err := l.read()
	if err != nil || current.Holder != l.holder.Holder {
		return
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf("Failed to remove migration lock %s: %v", l.path, err)
	}
}

func (l *lockFile) read() (*lockHolder, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var h lockHolder
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("invalid lock file %s: %w", l.path, err)
	}
	return &h, nil
}

// stale reports whether the holder is gone: a dead process on this host, or
// a lock older than staleAfter
func (l *lockFile) stale(h *lockHolder) bool {
	if l.staleAfter > 0 && time.Since(h.AcquiredAt) > l.staleAfter {
		return true
	}
	return h.Hostname == l.holder.Hostname && !processAlive(h.PID)
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || !(errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH))
}
