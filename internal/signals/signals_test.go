package signals

import (
	"context"
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSignalContext_ParentCancel(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())

	ctx, cancel := SetupSignalContext(parent)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context should not be done yet")
	default:
	}

	parentCancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be done after parent cancel")
	}
	var sigErr *Error
	assert.False(t, errors.As(context.Cause(ctx), &sigErr))
}

func TestSetupSignalContext_Signal(t *testing.T) {
	ctx, cancel := SetupSignalContext(context.Background())
	defer cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context should be done after SIGTERM")
	}
	var sigErr *Error
	require.ErrorAs(t, context.Cause(ctx), &sigErr)
	assert.Equal(t, syscall.SIGTERM, sigErr.Signal)
	assert.Equal(t, "received terminated", sigErr.Error())
}

func TestSetupSignalContext_CancelFunc(t *testing.T) {
	ctx, cancel := SetupSignalContext(context.Background())
	cancel()

	<-ctx.Done()
	assert.ErrorIs(t, context.Cause(ctx), context.Canceled)
}
