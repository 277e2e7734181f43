package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// HealthState classifies how usable a component currently is.
//
// Degraded sits between the other two states: the component answers, but
// with reduced capacity, such as a graph client whose session pool is
// saturated. Monitors should treat degraded as a warning, not a failure.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)

func (s HealthState) String() string { return string(s) }

// IsValid reports whether s is one of the known states.
func (s HealthState) IsValid() bool {
	switch s {
	case HealthStateHealthy, HealthStateDegraded, HealthStateUnhealthy:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown states rather than carrying them silently.
func (s *HealthState) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	state := HealthState(raw)
	if !state.IsValid() {
		return fmt.Errorf("invalid health state: %q", raw)
	}
	*s = state
	return nil
}

// HealthStatus is a point-in-time health report: the state, an optional
// human-readable detail, and when the check ran.
type HealthStatus struct {
	State     HealthState `json:"state"`
	Message   string      `json:"message,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Healthy reports a fully operational component.
func Healthy(message string) HealthStatus {
	return HealthStatus{State: HealthStateHealthy, Message: message, CheckedAt: time.Now()}
}

// Degraded reports a component that is reachable but impaired.
func Degraded(message string) HealthStatus {
	return HealthStatus{State: HealthStateDegraded, Message: message, CheckedAt: time.Now()}
}

// Unhealthy reports a component that cannot serve requests.
func Unhealthy(message string) HealthStatus {
	return HealthStatus{State: HealthStateUnhealthy, Message: message, CheckedAt: time.Now()}
}

func (h HealthStatus) IsHealthy() bool   { return h.State == HealthStateHealthy }
func (h HealthStatus) IsDegraded() bool  { return h.State == HealthStateDegraded }
func (h HealthStatus) IsUnhealthy() bool { return h.State == HealthStateUnhealthy }
