package graph

import "github.com/c-daly/logos-sub004/internal/types"

// Graph database error codes
const (
	// Connection errors
	ErrCodeGraphConnectionFailed types.ErrorCode = "GRAPH_CONNECTION_FAILED"
	ErrCodeGraphConnectionClosed types.ErrorCode = "GRAPH_CONNECTION_CLOSED"
	ErrCodeGraphAuthFailed       types.ErrorCode = "GRAPH_AUTH_FAILED"

	// Configuration errors
	ErrCodeGraphInvalidConfig types.ErrorCode = "GRAPH_INVALID_CONFIG"

	// Query errors
	ErrCodeGraphTransient   types.ErrorCode = "GRAPH_TRANSIENT"
	ErrCodeGraphQueryFailed types.ErrorCode = "GRAPH_QUERY_FAILED"

	// Resource errors
	ErrCodeGraphPoolExhausted types.ErrorCode = "GRAPH_POOL_EXHAUSTED"
)
