package graph

import (
	"context"
	"time"

	"github.com/c-daly/logos-sub004/internal/types"
)

// GraphClient provides an interface for graph database operations.
// Implementations must be thread-safe for concurrent access.
type GraphClient interface {
	// Connect establishes a connection to the graph database.
	// Returns an error if connection fails.
	Connect(ctx context.Context) error

	// Close releases all resources and closes the database connection.
	// Safe to call multiple times.
	Close(ctx context.Context) error

	// Health returns the current health status of the graph database connection.
	Health(ctx context.Context) types.HealthStatus

	// ExecuteRead executes a parameterized query inside a read transaction.
	// Transient failures are retried according to the client's retry policy.
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)

	// ExecuteWrite executes a parameterized query inside a write transaction.
	// Transient failures are retried according to the client's retry policy.
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (QueryResult, error)
}

// QueryResult represents the result of a query execution.
// It provides access to records, columns, and summary information.
type QueryResult struct {
	// Records contains the result rows as maps of column name to value.
	Records []map[string]any

	// Columns contains the names of the columns in the result set.
	Columns []string

	// Summary contains metadata about the query execution.
	Summary QuerySummary
}

// QuerySummary provides metadata about query execution.
type QuerySummary struct {
	// ExecutionTime is the duration of query execution.
	ExecutionTime time.Duration

	// NodesCreated is the number of nodes created by the query.
	NodesCreated int

	// NodesDeleted is the number of nodes deleted by the query.
	NodesDeleted int

	// RelationshipsCreated is the number of relationships created.
	RelationshipsCreated int

	// RelationshipsDeleted is the number of relationships deleted.
	RelationshipsDeleted int

	// PropertiesSet is the number of properties set.
	PropertiesSet int
}

// GraphClientConfig contains configuration options for graph database clients.
type GraphClientConfig struct {
	// URI is the connection URI for the graph database.
	// For Neo4j, use:
	//   - "bolt://host:port" for unencrypted connections
	//   - "bolt+s://host:port" for TLS encrypted connections
	//   - "neo4j://" or "neo4j+s://" for routing
	URI string `yaml:"uri" json:"uri" mapstructure:"uri"`

	// Username for authentication.
	Username string `yaml:"username" json:"username" mapstructure:"username"`

	// Password for authentication.
	Password string `yaml:"password" json:"password" mapstructure:"password"`

	// Database name to connect to.
	// Empty string uses the default database.
	Database string `yaml:"database" json:"database" mapstructure:"database"`

	// PoolSize bounds the number of concurrently held sessions.
	PoolSize int `yaml:"pool_size" json:"pool_size" mapstructure:"pool_size"`

	// AcquisitionTimeout is the maximum time a caller blocks waiting for a
	// session slot before the acquisition fails with GRAPH_POOL_EXHAUSTED.
	AcquisitionTimeout time.Duration `yaml:"acquisition_timeout" json:"acquisition_timeout" mapstructure:"acquisition_timeout"`

	// ConnectionTimeout is the maximum time to wait for the initial connection.
	ConnectionTimeout time.Duration `yaml:"connection_timeout" json:"connection_timeout" mapstructure:"connection_timeout"`

	// MaxRetryAttempts is the total number of attempts for a unit of work that
	// fails with a transient error. The first execution counts as an attempt.
	MaxRetryAttempts int `yaml:"max_retry_attempts" json:"max_retry_attempts" mapstructure:"max_retry_attempts"`

	// RetryBaseDelay is the backoff delay before the first retry.
	// The delay doubles per attempt up to MaxRetryDelay.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" json:"retry_base_delay" mapstructure:"retry_base_delay"`

	// MaxRetryDelay caps the exponential backoff delay.
	MaxRetryDelay time.Duration `yaml:"max_retry_delay" json:"max_retry_delay" mapstructure:"max_retry_delay"`
}

// DefaultConfig returns a GraphClientConfig with sensible defaults.
func DefaultConfig() GraphClientConfig {
	return GraphClientConfig{
		URI:                "bolt://localhost:7687",
		Username:           "neo4j",
		Password:           "password",
		Database:           "",
		PoolSize:           50,
		AcquisitionTimeout: 30 * time.Second,
		ConnectionTimeout:  30 * time.Second,
		MaxRetryAttempts:   5,
		RetryBaseDelay:     100 * time.Millisecond,
		MaxRetryDelay:      5 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c GraphClientConfig) Validate() error {
	if c.URI == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "URI cannot be empty")
	}
	if c.Username == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Username cannot be empty")
	}
	if c.Password == "" {
		return types.NewError(ErrCodeGraphInvalidConfig, "Password cannot be empty")
	}
	if c.PoolSize < 1 {
		return types.NewError(ErrCodeGraphInvalidConfig, "PoolSize must be at least 1")
	}
	if c.AcquisitionTimeout <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "AcquisitionTimeout must be positive")
	}
	if c.ConnectionTimeout <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "ConnectionTimeout must be positive")
	}
	if c.MaxRetryAttempts < 1 {
		return types.NewError(ErrCodeGraphInvalidConfig, "MaxRetryAttempts must be at least 1")
	}
	if c.RetryBaseDelay <= 0 {
		return types.NewError(ErrCodeGraphInvalidConfig, "RetryBaseDelay must be positive")
	}
	if c.MaxRetryDelay < c.RetryBaseDelay {
		return types.NewError(ErrCodeGraphInvalidConfig, "MaxRetryDelay must be at least RetryBaseDelay")
	}
	return nil
}

// RetryPolicy derives the retry policy from the configured attempt and delay bounds.
func (c GraphClientConfig) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.MaxRetryAttempts,
		BaseDelay:   c.RetryBaseDelay,
		MaxDelay:    c.MaxRetryDelay,
	}
}
