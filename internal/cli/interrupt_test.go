package cli

import (
	"context"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptHandlerCancelsContext(t *testing.T) {
	var out strings.Builder
	handler := NewInterruptHandler(&out)

	ctx := handler.HandleInterrupts(context.Background())
	require.NoError(t, ctx.Err())
	assert.False(t, handler.WasInterrupted())

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context was not canceled after signal")
	}

	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, out.String(), "Interrupted")
}

func TestInterruptHandlerNilWriter(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.NotNil(t, handler.writer)
}
