package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/c-daly/logos-sub004/internal/types"
)

// Neo4jClient implements GraphClient for Neo4j graph databases.
// It provides bounded session pooling, automatic retries with exponential
// backoff, and health monitoring.
type Neo4jClient struct {
	config GraphClientConfig
	driver neo4j.DriverWithContext
	guard  *sessionGuard

	// run executes one attempt of a query. Nil selects the managed-session
	// runner; tests substitute their own to exercise the retry path.
	run sessionRunner
}

// sessionRunner executes a single attempt of a query against the store,
// returning driver errors unclassified.
type sessionRunner func(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) (QueryResult, error)

// NewNeo4jClient creates a new Neo4j client with the given configuration.
// The client must be connected via Connect() before use.
func NewNeo4jClient(config GraphClientConfig) (*Neo4jClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Neo4jClient{
		config: config,
		guard:  newSessionGuard(config.PoolSize, config.AcquisitionTimeout),
	}, nil
}

// Connect establishes a connection to the Neo4j database.
// Uses exponential backoff for connection retries. Authentication failures
// surface immediately without retry.
func (c *Neo4jClient) Connect(ctx context.Context) error {
	auth := neo4j.BasicAuth(c.config.Username, c.config.Password, "")

	driverConfig := func(config *neo4j.Config) {
		config.MaxConnectionPoolSize = c.config.PoolSize
		config.ConnectionAcquisitionTimeout = c.config.AcquisitionTimeout
		// Encryption is controlled by URI scheme (bolt:// vs bolt+s://)
	}

	policy := c.config.RetryPolicy()

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		driver, err := neo4j.NewDriverWithContext(c.config.URI, auth, driverConfig)
		if err == nil {
			verifyCtx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
			err = driver.VerifyConnectivity(verifyCtx)
			cancel()
			if err == nil {
				c.driver = driver
				return nil
			}
			_ = driver.Close(ctx)
		}

		if isAuthError(err) {
			return types.WrapError(ErrCodeGraphAuthFailed,
				"credentials rejected by graph store", err)
		}

		lastErr = err

		if ctx.Err() != nil {
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}

		select {
		case <-time.After(policy.Delay(attempt)):
		case <-ctx.Done():
			return types.WrapError(ErrCodeGraphConnectionFailed,
				"connection attempt cancelled", ctx.Err())
		}
	}

	return types.WrapError(ErrCodeGraphConnectionFailed,
		fmt.Sprintf("failed to connect after %d attempts", policy.MaxAttempts), lastErr)
}

// Close releases all resources and closes the database connection.
// Idempotent: calling Close on an already-closed client is a no-op.
func (c *Neo4jClient) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}

	if err := c.driver.Close(ctx); err != nil {
		return types.WrapError(ErrCodeGraphConnectionClosed,
			"failed to close driver", err)
	}

	c.driver = nil
	return nil
}

// Health returns the current health status of the Neo4j connection:
// unhealthy when the store is unreachable, degraded when it is reachable but
// the session pool is saturated, healthy otherwise.
func (c *Neo4jClient) Health(ctx context.Context) types.HealthStatus {
	if c.driver == nil {
		return types.Unhealthy("driver not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.driver.VerifyConnectivity(healthCtx); err != nil {
		return types.Unhealthy(fmt.Sprintf("connectivity check failed: %v", err))
	}

	return poolHealth(c.guard.inUse(), c.config.PoolSize)
}

// poolHealth grades a live connection by session pool pressure. A saturated
// pool means new queries will block on slot acquisition, so the client is
// degraded even though the store is reachable.
func poolHealth(inUse, size int) types.HealthStatus {
	if inUse >= size {
		return types.Degraded(fmt.Sprintf("session pool saturated (%d/%d in use)", inUse, size))
	}
	return types.Healthy(fmt.Sprintf("connected to Neo4j (%d/%d sessions in use)", inUse, size))
}

// ExecuteRead executes a parameterized query inside a managed read transaction,
// retrying transient failures according to the configured retry policy.
func (c *Neo4jClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.execute(ctx, neo4j.AccessModeRead, cypher, params)
}

// ExecuteWrite executes a parameterized query inside a managed write transaction,
// retrying transient failures according to the configured retry policy.
func (c *Neo4jClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return c.execute(ctx, neo4j.AccessModeWrite, cypher, params)
}

// execute acquires a session slot, runs the query in a managed transaction of
// the requested mode, and classifies failures for the retry loop. The slot is
// held across retries so a retrying caller cannot exceed the pool bound.
func (c *Neo4jClient) execute(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) (QueryResult, error) {
	run := c.run
	if run == nil {
		if c.driver == nil {
			return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed,
				"driver not connected")
		}
		run = c.runManagedSession
	}

	if err := c.guard.acquire(ctx); err != nil {
		return QueryResult{}, err
	}
	defer c.guard.release()

	startTime := time.Now()

	var queryResult QueryResult
	err := RunWithRetry(ctx, c.config.RetryPolicy(), func(ctx context.Context) error {
		result, err := run(ctx, mode, cypher, params)
		if err != nil {
			return classifyError(err)
		}
		queryResult = result
		return nil
	})
	if err != nil {
		return QueryResult{}, err
	}

	queryResult.Summary.ExecutionTime = time.Since(startTime)
	return queryResult, nil
}

// runManagedSession opens a session and executes the query inside a managed
// transaction of the requested mode.
func (c *Neo4jClient) runManagedSession(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) (QueryResult, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.config.Database,
		AccessMode:   mode,
	})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		neoResult, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}

		records, err := neoResult.Collect(ctx)
		if err != nil {
			return nil, err
		}

		summary, err := neoResult.Consume(ctx)
		if err != nil {
			return nil, err
		}

		return convertNeo4jResult(records, summary), nil
	}

	var result any
	var err error
	if mode == neo4j.AccessModeRead {
		result, err = session.ExecuteRead(ctx, work)
	} else {
		result, err = session.ExecuteWrite(ctx, work)
	}
	if err != nil {
		return QueryResult{}, err
	}
	return result.(QueryResult), nil
}

// classifyError maps a driver error onto the caller-visible error contract:
// authentication failures and query errors are terminal; network blips,
// deadlocks, and leader churn are marked retryable for the retry loop.
func classifyError(err error) error {
	if isAuthError(err) {
		return types.WrapError(ErrCodeGraphAuthFailed,
			"credentials rejected by graph store", err)
	}
	if neo4j.IsRetryable(err) || errors.Is(err, context.DeadlineExceeded) {
		return types.WrapRetryableError(ErrCodeGraphTransient,
			"transient graph store failure", err)
	}
	return types.WrapError(ErrCodeGraphQueryFailed,
		"query execution failed", err)
}

// IsConstraintViolation reports whether err (possibly wrapped) is a Neo4j
// schema constraint violation, such as a uniqueness constraint rejecting a
// duplicate value.
func IsConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return strings.Contains(neoErr.Code, "ConstraintValidationFailed")
	}
	return false
}

// isAuthError reports whether err is a Neo4j security/authentication failure.
func isAuthError(err error) bool {
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return strings.HasPrefix(neoErr.Code, "Neo.ClientError.Security.")
	}
	return false
}

// convertNeo4jResult converts Neo4j records and summary to our QueryResult format.
func convertNeo4jResult(records []*neo4j.Record, summary neo4j.ResultSummary) QueryResult {
	result := QueryResult{
		Records: make([]map[string]any, 0, len(records)),
		Columns: []string{},
	}

	if len(records) > 0 {
		result.Columns = records[0].Keys
	}

	for _, record := range records {
		recordMap := make(map[string]any)
		for i, key := range record.Keys {
			recordMap[key] = record.Values[i]
		}
		result.Records = append(result.Records, recordMap)
	}

	if summary != nil && summary.Counters() != nil {
		counters := summary.Counters()
		result.Summary = QuerySummary{
			NodesCreated:         counters.NodesCreated(),
			NodesDeleted:         counters.NodesDeleted(),
			RelationshipsCreated: counters.RelationshipsCreated(),
			RelationshipsDeleted: counters.RelationshipsDeleted(),
			PropertiesSet:        counters.PropertiesSet(),
		}
	}

	return result
}
