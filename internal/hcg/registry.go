package hcg

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/c-daly/logos-sub004/internal/hcg/graph"
	"github.com/c-daly/logos-sub004/internal/types"
)

// maxChainDepth bounds IS_A ancestor walks so resolution terminates even when
// the stored hierarchy is corrupted. Fixed design parameter, not configurable
// per call, to keep traversal cost predictable.
const maxChainDepth = 32

// TypeRegistry resolves and validates the self-describing type hierarchy.
// Every node write is checked against it before reaching the store.
//
// The registry keeps a resolved-chain cache invalidated wholesale by a
// generation counter whenever a new type is registered. The cache is an
// optimization only; resolution is always correct without it.
//
// Thread-safety: safe for concurrent use.
type TypeRegistry struct {
	client graph.GraphClient
	logger *slog.Logger

	mu         sync.RWMutex
	cache      map[string]string // type name -> resolved root type
	generation uint64
}

// NewTypeRegistry creates a TypeRegistry over the given graph client.
// A nil logger defaults to slog.Default().
func NewTypeRegistry(client graph.GraphClient, logger *slog.Logger) *TypeRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypeRegistry{
		client: client,
		logger: logger,
		cache:  make(map[string]string),
	}
}

// EnsureMetaType creates the meta-type apex node if it does not exist.
// Idempotent; intended for schema initialization.
func (r *TypeRegistry) EnsureMetaType(ctx context.Context) error {
	cypher := `
		MERGE (m:Entity {name: $name, is_type_definition: true})
		ON CREATE SET m.uuid = $uuid,
		    m.type = $name,
		    m.root_type = $name,
		    m.created_at = $created_at,
		    m.props = '{}'
		RETURN m.uuid AS uuid
	`
	params := map[string]any{
		"name":       MetaType,
		"uuid":       types.NewID().String(),
		"created_at": time.Now().UnixMilli(),
	}

	_, err := r.client.ExecuteWrite(ctx, cypher, params)
	return err
}

// ValidateTypeExists reports whether a type-definition node with the given
// name exists. Used before any node write; a write referencing an unknown
// type must be rejected rather than silently creating an orphaned reference.
func (r *TypeRegistry) ValidateTypeExists(ctx context.Context, typeName string) (bool, error) {
	if typeName == MetaType {
		return true, nil
	}

	cypher := `
		MATCH (t:Entity {name: $name, is_type_definition: true})
		RETURN t.uuid AS uuid
		LIMIT 1
	`
	result, err := r.client.ExecuteRead(ctx, cypher, map[string]any{"name": typeName})
	if err != nil {
		return false, err
	}
	return len(result.Records) > 0, nil
}

// ResolveRootType walks IS_A edges from the named type-definition node upward
// and returns the first ancestor whose own parent is the meta-type. Fails with
// HCG_TYPE_RESOLUTION_FAILED if the walk exceeds the chain-depth bound (cycle
// guard) or terminates without reaching the meta-type apex, and with
// HCG_UNKNOWN_TYPE if no such type is registered.
func (r *TypeRegistry) ResolveRootType(ctx context.Context, typeName string) (string, error) {
	if typeName == MetaType {
		return MetaType, nil
	}

	r.mu.RLock()
	if root, ok := r.cache[typeName]; ok {
		r.mu.RUnlock()
		return root, nil
	}
	startGen := r.generation
	r.mu.RUnlock()

	exists, err := r.ValidateTypeExists(ctx, typeName)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", NewUnknownTypeError(typeName)
	}

	_, root, err := r.ancestorChain(ctx, typeName)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	if r.generation == startGen {
		r.cache[typeName] = root
	}
	r.mu.Unlock()

	return root, nil
}

// RegisterType creates a new type-definition node as a child of parentType.
// The schema bag is stored on the node for the external validation boundary;
// this layer does not interpret it.
//
// Fails with HCG_CYCLIC_TYPE if the proposed parent's own ancestor chain
// already contains name (checked before any write, so no partial mutation),
// HCG_UNKNOWN_TYPE if the parent is not registered, and HCG_TYPE_EXISTS if a
// type of the same name is already registered.
func (r *TypeRegistry) RegisterType(ctx context.Context, name, parentType string, schema map[string]any) (*Node, error) {
	if name == "" {
		return nil, types.NewError(ErrCodeUnknownType, "type name cannot be empty")
	}
	if name == MetaType {
		return nil, NewTypeExistsError(name)
	}
	if err := validatePropertyBag(schema); err != nil {
		return nil, err
	}
	if name == parentType {
		return nil, NewCyclicTypeError(name, parentType)
	}

	rootType := name
	if parentType != MetaType {
		exists, err := r.ValidateTypeExists(ctx, parentType)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, NewUnknownTypeError(parentType)
		}

		chain, root, err := r.ancestorChain(ctx, parentType)
		if err != nil {
			return nil, err
		}
		for _, ancestor := range chain {
			if ancestor == name {
				return nil, NewCyclicTypeError(name, parentType)
			}
		}
		rootType = root
	}

	exists, err := r.ValidateTypeExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewTypeExistsError(name)
	}

	node := &Node{
		UUID:             types.NewID(),
		Name:             name,
		Type:             parentType,
		RootType:         rootType,
		IsTypeDefinition: true,
		Properties:       schema,
		CreatedAt:        time.Now().UTC(),
	}

	params, err := nodeParams(node)
	if err != nil {
		return nil, err
	}
	params["parent"] = parentType
	params["edge_uuid"] = types.NewID().String()

	cypher := `
		MATCH (p:Entity {name: $parent, is_type_definition: true})
		CREATE (t:Entity {uuid: $uuid, name: $name, type: $type,
		    root_type: $root_type, is_type_definition: true,
		    created_at: $created_at, props: $props})
		CREATE (t)-[:IS_A {uuid: $edge_uuid, created_at: $created_at}]->(p)
		RETURN t.uuid AS uuid
	`
	result, err := r.client.ExecuteWrite(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		// Parent disappeared between validation and write.
		return nil, NewUnknownTypeError(parentType)
	}

	r.mu.Lock()
	r.generation++
	r.cache = make(map[string]string)
	r.mu.Unlock()

	r.logger.Debug("registered type",
		"name", name,
		"parent", parentType,
		"root_type", rootType)

	return node, nil
}

// Generation returns the current cache generation. It increases whenever a
// type registration invalidates the resolved-chain cache.
func (r *TypeRegistry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// ancestorChain walks IS_A edges upward from typeName until it reaches a node
// whose parent is the meta-type. Returns the chain (typeName first, apex-ward
// order) and the root type. The walk is deterministic in diamond-shaped
// hierarchies: at each step the parent with the smallest uuid is taken.
func (r *TypeRegistry) ancestorChain(ctx context.Context, typeName string) ([]string, string, error) {
	cypher := `
		MATCH (t:Entity {name: $name, is_type_definition: true})
		      -[:IS_A]->(p:Entity {is_type_definition: true})
		RETURN p.name AS name, p.uuid AS uuid
		ORDER BY p.uuid ASC
		LIMIT 1
	`

	chain := []string{typeName}
	current := typeName

	for hop := 0; hop < maxChainDepth; hop++ {
		result, err := r.client.ExecuteRead(ctx, cypher, map[string]any{"name": current})
		if err != nil {
			return nil, "", err
		}
		if len(result.Records) == 0 {
			return nil, "", NewTypeResolutionError(typeName,
				"IS_A chain terminated without reaching the meta-type apex")
		}

		parent, _ := result.Records[0]["name"].(string)
		if parent == "" {
			return nil, "", NewTypeResolutionError(typeName,
				"IS_A parent has no name")
		}
		if parent == MetaType {
			return chain, current, nil
		}

		chain = append(chain, parent)
		current = parent
	}

	return nil, "", NewTypeResolutionError(typeName,
		"IS_A chain exceeds maximum depth (possible cycle)")
}
