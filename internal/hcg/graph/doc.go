// Package graph provides the client layer for the property-graph store backing
// the hybrid causal graph.
//
// The package defines the GraphClient interface and a Neo4j implementation with
// bounded session pooling, automatic retry of transient failures, and health
// monitoring. All queries are parameterized; values are never interpolated into
// query text.
//
// Connection lifecycle:
//
//	config := graph.DefaultConfig()
//	config.URI = "bolt://localhost:7687"
//	client, err := graph.NewNeo4jClient(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	result, err := client.ExecuteRead(ctx,
//	    "MATCH (n:Entity {uuid: $uuid}) RETURN n", map[string]any{"uuid": id})
//
// Retry semantics: ExecuteRead and ExecuteWrite run the query in a managed
// transaction and retry up to the configured attempt budget when the failure is
// transient (network timeout, connection reset, deadlock, service unavailable,
// leader election churn). The backoff delay doubles per attempt from
// RetryBaseDelay, capped at MaxRetryDelay. Syntax errors, constraint
// violations, and authentication failures surface immediately.
//
// Pooling: concurrent callers are bounded by PoolSize. A caller that cannot
// acquire a session slot within AcquisitionTimeout fails with
// GRAPH_POOL_EXHAUSTED rather than queueing indefinitely.
//
// MockGraphClient provides an in-memory double with scriptable results and
// error sequences for tests.
package graph
