package graph

import (
	"context"
	"sync"
	"time"

	"github.com/c-daly/logos-sub004/internal/types"
)

// MockCall represents a recorded method call on the mock graph client.
type MockCall struct {
	Method    string
	Cypher    string
	Params    map[string]any
	Timestamp time.Time
}

// MockGraphClient is a mock implementation of GraphClient for testing.
// Read and write results are served from FIFO queues; error queues allow
// scripting failure sequences (e.g. transient failure then success). All
// method calls are recorded for verification.
type MockGraphClient struct {
	mu sync.Mutex

	connected    bool
	healthStatus types.HealthStatus
	calls        []MockCall

	readResults  []QueryResult
	writeResults []QueryResult
	readErrs     []error
	writeErrs    []error
	connectError error
	closeError   error
}

// NewMockGraphClient creates a new mock graph client for testing.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{
		healthStatus: types.Healthy("mock graph client"),
	}
}

// Connect records the call and simulates connection.
func (m *MockGraphClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Connect", "", nil)

	if m.connectError != nil {
		return m.connectError
	}

	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockGraphClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Close", "", nil)

	if m.closeError != nil {
		return m.closeError
	}

	m.connected = false
	return nil
}

// Health records the call and returns the configured health status.
func (m *MockGraphClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Health", "", nil)

	if !m.connected {
		return types.Unhealthy("not connected")
	}
	return m.healthStatus
}

// ExecuteRead records the call and returns the next scripted read error or result.
func (m *MockGraphClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("ExecuteRead", cypher, params)

	if !m.connected {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "not connected")
	}

	if len(m.readErrs) > 0 {
		err := m.readErrs[0]
		m.readErrs = m.readErrs[1:]
		if err != nil {
			return QueryResult{}, err
		}
	}

	if len(m.readResults) > 0 {
		result := m.readResults[0]
		m.readResults = m.readResults[1:]
		return result, nil
	}

	return emptyResult(), nil
}

// ExecuteWrite records the call and returns the next scripted write error or result.
func (m *MockGraphClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("ExecuteWrite", cypher, params)

	if !m.connected {
		return QueryResult{}, types.NewError(ErrCodeGraphConnectionClosed, "not connected")
	}

	if len(m.writeErrs) > 0 {
		err := m.writeErrs[0]
		m.writeErrs = m.writeErrs[1:]
		if err != nil {
			return QueryResult{}, err
		}
	}

	if len(m.writeResults) > 0 {
		result := m.writeResults[0]
		m.writeResults = m.writeResults[1:]
		return result, nil
	}

	return emptyResult(), nil
}

func emptyResult() QueryResult {
	return QueryResult{
		Records: []map[string]any{},
		Columns: []string{},
		Summary: QuerySummary{},
	}
}

// record appends a call entry. Callers must hold m.mu.
func (m *MockGraphClient) record(method, cypher string, params map[string]any) {
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Cypher:    cypher,
		Params:    params,
		Timestamp: time.Now(),
	})
}

// EnqueueReadResult adds a result to the read FIFO queue.
func (m *MockGraphClient) EnqueueReadResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, result)
}

// EnqueueWriteResult adds a result to the write FIFO queue.
func (m *MockGraphClient) EnqueueWriteResult(result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResults = append(m.writeResults, result)
}

// EnqueueReadError adds an error to the read error queue.
// A nil entry means the corresponding call succeeds.
func (m *MockGraphClient) EnqueueReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrs = append(m.readErrs, err)
}

// EnqueueWriteError adds an error to the write error queue.
// A nil entry means the corresponding call succeeds.
func (m *MockGraphClient) EnqueueWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrs = append(m.writeErrs, err)
}

// SetHealthStatus configures what Health() should return.
func (m *MockGraphClient) SetHealthStatus(status types.HealthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthStatus = status
}

// SetConnectError configures Connect() to return an error.
func (m *MockGraphClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

// SetCloseError configures Close() to return an error.
func (m *MockGraphClient) SetCloseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeError = err
}

// Calls returns a copy of all recorded method calls.
func (m *MockGraphClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]MockCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CallsByMethod returns all calls to a specific method.
func (m *MockGraphClient) CallsByMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]MockCall, 0)
	for _, call := range m.calls {
		if call.Method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

// CallCount returns the total number of method calls.
func (m *MockGraphClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// IsConnected returns whether the mock is in connected state.
func (m *MockGraphClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Reset clears all recorded calls and resets the mock to its initial state.
func (m *MockGraphClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.connected = false
	m.healthStatus = types.Healthy("mock graph client")
	m.calls = nil
	m.readResults = nil
	m.writeResults = nil
	m.readErrs = nil
	m.writeErrs = nil
	m.connectError = nil
	m.closeError = nil
}
