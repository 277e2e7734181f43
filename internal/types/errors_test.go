package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogosError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *LogosError
		want string
	}{
		{
			name: "without cause",
			err:  NewError("HCG_NOT_FOUND", "node not found"),
			want: "[HCG_NOT_FOUND] node not found",
		},
		{
			name: "with cause",
			err:  WrapError("GRAPH_QUERY_FAILED", "query execution failed", fmt.Errorf("syntax error")),
			want: "[GRAPH_QUERY_FAILED] query execution failed: syntax error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestLogosError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := WrapRetryableError("GRAPH_TRANSIENT", "transient failure", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestLogosError_Is(t *testing.T) {
	a := NewError("HCG_UNKNOWN_TYPE", "unknown type: Alert")
	b := NewError("HCG_UNKNOWN_TYPE", "unknown type: Event")
	c := NewError("HCG_NOT_FOUND", "node not found")

	assert.True(t, errors.Is(a, b), "same code should match regardless of message")
	assert.False(t, errors.Is(a, c), "different codes should not match")
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"non-retryable", NewError("GRAPH_QUERY_FAILED", "failed"), false},
		{"retryable", NewRetryableError("GRAPH_TRANSIENT", "blip"), true},
		{
			"retryable wrapped in plain error",
			fmt.Errorf("outer: %w", NewRetryableError("GRAPH_TRANSIENT", "blip")),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestCodeOf(t *testing.T) {
	err := NewError("HCG_CYCLIC_TYPE", "cycle")
	require.Equal(t, ErrorCode("HCG_CYCLIC_TYPE"), CodeOf(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, ErrorCode("HCG_CYCLIC_TYPE"), CodeOf(wrapped))

	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
