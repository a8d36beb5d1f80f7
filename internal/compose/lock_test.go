package compose

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockPath(t *testing.T) {
	a := LockPath("/locks", "/srv/app")
	assert.Equal(t, a, LockPath("/locks", "/srv/app/"))
	assert.NotEqual(t, a, LockPath("/locks", "/srv/other"))
	assert.Regexp(t, `^/locks/[0-9a-f]{16}\.lock$`, a)
}

func TestLockProject_Disabled(t *testing.T) {
	r := NewRunner(nil, Options{})
	unlock, err := r.lockProject(context.Background(), "/srv/app")
	require.NoError(t, err)
	unlock()
}

func TestLockProject_HeldElsewhere(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")
	r := NewRunner(nil, Options{LockDir: dir, Timeout: 250 * time.Millisecond})

	unlock, err := r.lockProject(context.Background(), "/srv/app")
	require.NoError(t, err)

	// A second handle on the same file is a separate flock owner.
	other := flock.New(LockPath(dir, "/srv/app"))
	ok, err := other.TryLock()
	require.NoError(t, err)
	assert.False(t, ok)

	unlock()
	ok, err = other.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.lockProject(context.Background(), "/srv/app")
	require.ErrorIs(t, err, ErrTimeout)
	require.NoError(t, other.Unlock())
}

func TestDown_Locked(t *testing.T) {
	fe := &fakeExec{}
	r, _ := newTestRunner(t, fe)
	r.lockDir = t.TempDir()
	r.timeout = 200 * time.Millisecond

	held := flock.New(LockPath(r.lockDir, "/srv/app"))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock() //nolint:errcheck

	_, err = r.Down(context.Background(), DownOptions{})
	require.ErrorIs(t, err, ErrTimeout)
	for _, c := range fe.calls {
		assert.NotContains(t, c.argv, "down")
	}
}
