package compose

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/schmitthub/dockmcp/internal/logger"
)

// lockRetryDelay is the polling interval while another process holds a
// project lock.
const lockRetryDelay = 100 * time.Millisecond

// LockPath returns the lock file guarding projectDir inside lockDir.
func LockPath(lockDir, projectDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(projectDir)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock")
}

// lockProject serializes mutating operations on projectDir across dockmcp
// processes. The wait is bounded by ctx and the operation timeout. It is a
// no-op when the runner has no lock directory.
func (r *Runner) lockProject(ctx context.Context, projectDir string) (func(), error) {
	if r.lockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(r.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	path := LockPath(r.lockDir, projectDir)
	fl := flock.New(path)
	locked, err := fl.TryLockContext(waitCtx, lockRetryDelay)
	if err != nil || !locked {
		if waitCtx.Err() != nil {
			return nil, fmt.Errorf("%w waiting for another operation on %s", ErrTimeout, projectDir)
		}
		return nil, fmt.Errorf("acquiring project lock %s: %w", path, err)
	}
	logger.Debug().Str("project", projectDir).Str("lock", path).Msg("project lock acquired")
	return func() { _ = fl.Unlock() }, nil
}
