package hcg

import (
	"fmt"
	"time"

	"github.com/c-daly/logos-sub004/internal/types"
)

// EdgeType represents the type of a directed relationship between two nodes.
type EdgeType string

const (
	// EdgeIsA is the type-hierarchy edge. IS_A chains form a DAG walked to
	// derive a node's root type.
	EdgeIsA EdgeType = "IS_A"

	// EdgeCauses is the causal edge from a Process-typed node to a
	// State-typed node. Direction encodes temporal causality.
	EdgeCauses EdgeType = "CAUSES"

	// EdgePrecedes is the temporal-ordering edge between two Process-typed
	// nodes.
	EdgePrecedes EdgeType = "PRECEDES"

	// EdgeRequires marks a precondition relationship. Not traversed by the
	// causal engine but round-trips through the generic edge representation.
	EdgeRequires EdgeType = "REQUIRES"
)

// MetaType is the name of the meta-type node at the apex of every IS_A chain.
// A type whose parent is MetaType is a root type.
const MetaType = "type_definition"

// String returns the string representation of EdgeType.
func (et EdgeType) String() string {
	return string(et)
}

// Validate checks that the edge type is a safe relationship identifier.
// Edge type names are interpolated into query text (parameters cannot supply
// relationship types), so only upper-case identifier characters are accepted.
func (et EdgeType) Validate() error {
	if et == "" {
		return fmt.Errorf("edge type cannot be empty")
	}
	for i, r := range string(et) {
		switch {
		case r >= 'A' && r <= 'Z':
		case r == '_' && i > 0:
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("invalid edge type %q: must match [A-Z][A-Z0-9_]*", et)
		}
	}
	return nil
}

// Node is a single vertex in the hybrid causal graph. All nodes are persisted
// as one universal kind carrying a type property, rather than as fixed schema
// classes.
type Node struct {
	// UUID is globally unique and immutable once assigned.
	UUID types.ID `json:"uuid"`

	// Name is the human-readable node name.
	Name string `json:"name"`

	// Type names the type-definition node this node is an instance of.
	Type string `json:"type"`

	// RootType is computed at creation by walking the IS_A chain to the
	// nearest ancestor whose own parent is the meta-type.
	RootType string `json:"root_type"`

	// IsTypeDefinition marks nodes that describe a type.
	IsTypeDefinition bool `json:"is_type_definition"`

	// Properties is an open key/value bag. Allowed value kinds: string,
	// number, bool, nested map, and lists of those.
	Properties map[string]any `json:"properties,omitempty"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// Edge is a typed, directed relationship between two nodes.
type Edge struct {
	UUID       types.ID       `json:"uuid"`
	FromUUID   types.ID       `json:"from_uuid"`
	ToUUID     types.ID       `json:"to_uuid"`
	Type       EdgeType       `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Validate validates the Node fields.
func (n *Node) Validate() error {
	if err := n.UUID.Validate(); err != nil {
		return fmt.Errorf("invalid node UUID: %w", err)
	}
	if n.Type == "" {
		return fmt.Errorf("node must have a type")
	}
	if err := validatePropertyBag(n.Properties); err != nil {
		return err
	}
	return nil
}

// Validate validates the Edge fields.
func (e *Edge) Validate() error {
	if err := e.UUID.Validate(); err != nil {
		return fmt.Errorf("invalid edge UUID: %w", err)
	}
	if err := e.FromUUID.Validate(); err != nil {
		return fmt.Errorf("invalid from_uuid: %w", err)
	}
	if err := e.ToUUID.Validate(); err != nil {
		return fmt.Errorf("invalid to_uuid: %w", err)
	}
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if err := validatePropertyBag(e.Properties); err != nil {
		return err
	}
	return nil
}

// GetProperty retrieves a property value by key.
// Returns nil if the property doesn't exist.
func (n *Node) GetProperty(key string) any {
	return n.Properties[key]
}

// GetStringProperty retrieves a string property value by key.
// Returns empty string if the property doesn't exist or isn't a string.
func (n *Node) GetStringProperty(key string) string {
	if val, ok := n.Properties[key].(string); ok {
		return val
	}
	return ""
}

// validatePropertyBag checks that every value in the bag is one of the
// allowed kinds: string, number, bool, nested map of those, or list of those.
func validatePropertyBag(props map[string]any) error {
	for key, value := range props {
		if err := validatePropertyValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

func validatePropertyValue(key string, value any) error {
	switch v := value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	case map[string]any:
		return validatePropertyBag(v)
	case []any:
		for _, item := range v {
			if err := validatePropertyValue(key, item); err != nil {
				return err
			}
		}
		return nil
	case []string, []int, []int64, []float64, []bool:
		return nil
	default:
		return NewInvalidPropertyError(key, fmt.Sprintf("%T", value))
	}
}
