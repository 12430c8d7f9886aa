package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer, "Import", "")
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestHandleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import", "Payments imported so far were kept.")

	ctx, stop := handler.HandleInterrupts(context.Background())
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("Context should not be canceled initially")
	default:
	}

	handler.trigger()

	<-ctx.Done()
	assert.True(t, handler.WasInterrupted())
	outputStr := output.String()
	assert.Contains(t, outputStr, "Import interrupted!")
	assert.Contains(t, outputStr, "Payments imported so far were kept.")
}

func TestHandleInterrupts_StopCancels(t *testing.T) {
	handler := NewInterruptHandler(&syncBuffer{}, "Import", "")

	ctx, stop := handler.HandleInterrupts(context.Background())
	stop()
	stop()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
}

func TestMultipleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import", "")

	_, stop := handler.HandleInterrupts(context.Background())
	defer stop()

	handler.trigger()
	handler.trigger()

	assert.Equal(t, 1, strings.Count(output.String(), "Import interrupted!"))
}

func TestShowInterruptMessage(t *testing.T) {
	tests := []struct {
		name        string
		hint        string
		expected    []string
		notExpected []string
	}{
		{
			name:     "with hint",
			hint:     "Re-run the import to pick up the rest.",
			expected: []string{"Export interrupted!", "Re-run the import to pick up the rest."},
		},
		{
			name:        "without hint",
			expected:    []string{"Export interrupted!"},
			notExpected: []string{"Re-run"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := NewInterruptHandler(&output, "Export", tt.hint)

			handler.showInterruptMessage()

			for _, expected := range tt.expected {
				assert.Contains(t, output.String(), expected)
			}
			for _, notExpected := range tt.notExpected {
				assert.NotContains(t, output.String(), notExpected)
			}
		})
	}
}
