package hcg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c-daly/logos-sub004/internal/hcg/graph"
	"github.com/c-daly/logos-sub004/internal/types"
)

// HCGStore is the typed query layer over the hybrid causal graph. All reads
// and writes go through parameterized queries; callers never hand-assemble
// query text.
type HCGStore interface {
	// InitSchema creates the uniqueness constraint and lookup indexes and
	// ensures the meta-type apex exists. Idempotent.
	InitSchema(ctx context.Context) error

	// CreateNode creates a typed node. The type must be registered; the
	// root type is resolved and denormalized onto the node at write time.
	CreateNode(ctx context.Context, name, typeName string, props map[string]any, opts ...NodeOption) (*Node, error)

	// CreateEdge creates a typed, directed edge between two existing nodes.
	CreateEdge(ctx context.Context, from, to types.ID, edgeType EdgeType, props map[string]any) (*Edge, error)

	// FindByUUID returns the node with the given uuid, or (nil, nil) when
	// no such node exists.
	FindByUUID(ctx context.Context, uuid types.ID) (*Node, error)

	// FindByName returns nodes whose name contains the given substring,
	// ordered by name then uuid. limit <= 0 means unbounded.
	FindByName(ctx context.Context, name string, limit int) ([]Node, error)

	// FindByTimeRange returns nodes created within [start, end], both
	// bounds inclusive, ordered by creation time then uuid.
	FindByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]Node, error)

	// DeleteNode removes a node and all its edges.
	DeleteNode(ctx context.Context, uuid types.ID) error

	// Registry exposes the type registry backing this store.
	Registry() *TypeRegistry

	// Health reports the health of the underlying graph connection.
	Health(ctx context.Context) types.HealthStatus

	// Close releases the underlying graph connection.
	Close(ctx context.Context) error
}

// NodeOption customizes node creation.
type NodeOption func(*Node)

// WithUUID makes CreateNode use a caller-supplied uuid instead of generating
// one. Creating a node with the uuid of an existing node is idempotent: the
// existing node is returned unchanged.
func WithUUID(uuid types.ID) NodeOption {
	return func(n *Node) {
		n.UUID = uuid
	}
}

// Store implements HCGStore against a GraphClient.
type Store struct {
	client   graph.GraphClient
	registry *TypeRegistry
	logger   *slog.Logger
}

// NewStore creates a Store over the given graph client.
// A nil logger defaults to slog.Default().
func NewStore(client graph.GraphClient, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:   client,
		registry: NewTypeRegistry(client, logger),
		logger:   logger,
	}
}

// Registry exposes the type registry backing this store.
func (s *Store) Registry() *TypeRegistry {
	return s.registry
}

// Health reports the health of the underlying graph connection.
func (s *Store) Health(ctx context.Context) types.HealthStatus {
	return s.client.Health(ctx)
}

// Close releases the underlying graph connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

// InitSchema creates the uuid uniqueness constraint, the lookup indexes
// behind the find operations, and the meta-type apex node. Every statement is
// idempotent, so InitSchema is safe to run at every startup.
func (s *Store) InitSchema(ctx context.Context) error {
	statements := []string{
		"CREATE CONSTRAINT entity_uuid IF NOT EXISTS FOR (n:Entity) REQUIRE n.uuid IS UNIQUE",
		"CREATE INDEX entity_name IF NOT EXISTS FOR (n:Entity) ON (n.name)",
		"CREATE INDEX entity_type IF NOT EXISTS FOR (n:Entity) ON (n.type)",
		"CREATE INDEX entity_created_at IF NOT EXISTS FOR (n:Entity) ON (n.created_at)",
	}
	for _, stmt := range statements {
		if _, err := s.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
	}
	if err := s.registry.EnsureMetaType(ctx); err != nil {
		return fmt.Errorf("meta-type initialization failed: %w", err)
	}
	return nil
}

// CreateNode creates a typed node. The write path is:
//  1. validate the property bag and resolve the type's root type (rejecting
//     unknown types before anything is written),
//  2. if the caller supplied a uuid that already names a node, return that
//     node unchanged,
//  3. create the node; a uniqueness-constraint violation on a generated uuid
//     is retried once with a fresh uuid before surfacing
//     HCG_DUPLICATE_UUID.
func (s *Store) CreateNode(ctx context.Context, name, typeName string, props map[string]any, opts ...NodeOption) (*Node, error) {
	if err := validatePropertyBag(props); err != nil {
		return nil, err
	}

	rootType, err := s.registry.ResolveRootType(ctx, typeName)
	if err != nil {
		return nil, err
	}

	node := &Node{
		Name:       name,
		Type:       typeName,
		RootType:   rootType,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(node)
	}

	callerUUID := !node.UUID.IsZero()
	if callerUUID {
		existing, err := s.FindByUUID(ctx, node.UUID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	} else {
		node.UUID = types.NewID()
	}

	err = s.insertNode(ctx, node)
	if err != nil && graph.IsConstraintViolation(err) {
		if callerUUID {
			// Concurrent creation with the same uuid; idempotent.
			existing, ferr := s.FindByUUID(ctx, node.UUID)
			if ferr == nil && existing != nil {
				return existing, nil
			}
			return nil, NewDuplicateUUIDError(node.UUID)
		}
		// Generated uuid collided. One fresh attempt.
		node.UUID = types.NewID()
		if err = s.insertNode(ctx, node); err != nil {
			if graph.IsConstraintViolation(err) {
				return nil, NewDuplicateUUIDError(node.UUID)
			}
			return nil, err
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created node",
		"uuid", node.UUID,
		"name", node.Name,
		"type", node.Type,
		"root_type", node.RootType)

	return node, nil
}

func (s *Store) insertNode(ctx context.Context, node *Node) error {
	params, err := nodeParams(node)
	if err != nil {
		return err
	}
	cypher := `
		CREATE (n:Entity {uuid: $uuid, name: $name, type: $type,
		    root_type: $root_type, is_type_definition: $is_type_definition,
		    created_at: $created_at, props: $props})
		RETURN n.uuid AS uuid
	`
	_, err = s.client.ExecuteWrite(ctx, cypher, params)
	return err
}

// CreateEdge creates a typed, directed edge. Both endpoints must already
// exist; an edge referencing a missing node fails with
// HCG_DANGLING_REFERENCE naming the missing endpoint, and nothing is written.
func (s *Store) CreateEdge(ctx context.Context, from, to types.ID, edgeType EdgeType, props map[string]any) (*Edge, error) {
	if err := edgeType.Validate(); err != nil {
		return nil, types.NewError(ErrCodeInvalidProperty, err.Error())
	}
	if err := validatePropertyBag(props); err != nil {
		return nil, err
	}
	if err := from.Validate(); err != nil {
		return nil, NewDanglingReferenceError(from)
	}
	if err := to.Validate(); err != nil {
		return nil, NewDanglingReferenceError(to)
	}

	edge := &Edge{
		UUID:       types.NewID(),
		FromUUID:   from,
		ToUUID:     to,
		Type:       edgeType,
		Properties: props,
		CreatedAt:  time.Now().UTC(),
	}

	propsJSON, err := json.Marshal(props)
	if err != nil {
		return nil, types.WrapError(ErrCodeInvalidProperty,
			"cannot serialize property bag", err)
	}

	// Relationship types cannot be parameterized; edgeType passed
	// EdgeType.Validate above, which restricts it to [A-Z][A-Z0-9_]*.
	cypher := fmt.Sprintf(`
		MATCH (a:Entity {uuid: $from}), (b:Entity {uuid: $to})
		CREATE (a)-[r:%s {uuid: $uuid, created_at: $created_at, props: $props}]->(b)
		RETURN r.uuid AS uuid
	`, edgeType)

	params := map[string]any{
		"from":       from.String(),
		"to":         to.String(),
		"uuid":       edge.UUID.String(),
		"created_at": edge.CreatedAt.UnixMilli(),
		"props":      string(propsJSON),
	}

	result, err := s.client.ExecuteWrite(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, s.danglingEndpoint(ctx, from, to)
	}

	s.logger.Debug("created edge",
		"uuid", edge.UUID,
		"type", edge.Type,
		"from", from,
		"to", to)

	return edge, nil
}

// danglingEndpoint determines which endpoint of a failed edge write is
// missing so the error names it.
func (s *Store) danglingEndpoint(ctx context.Context, from, to types.ID) error {
	if node, err := s.FindByUUID(ctx, from); err == nil && node == nil {
		return NewDanglingReferenceError(from)
	}
	return NewDanglingReferenceError(to)
}

// FindByUUID returns the node with the given uuid, or (nil, nil) when no
// such node exists. Absence is not an error at this layer; callers that
// require presence wrap the nil.
func (s *Store) FindByUUID(ctx context.Context, uuid types.ID) (*Node, error) {
	if err := uuid.Validate(); err != nil {
		return nil, nil
	}

	cypher := fmt.Sprintf(`
		MATCH (n:Entity {uuid: $uuid})
		RETURN %s
	`, nodeReturnClause("n", ""))

	result, err := s.client.ExecuteRead(ctx, cypher, map[string]any{"uuid": uuid.String()})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, nil
	}
	return nodeFromRecord(result.Records[0], "")
}

// FindByName returns nodes whose name contains the given substring. Results
// are ordered by name then uuid so pagination by limit is stable. limit <= 0
// means unbounded.
func (s *Store) FindByName(ctx context.Context, name string, limit int) ([]Node, error) {
	cypher := fmt.Sprintf(`
		MATCH (n:Entity)
		WHERE n.name CONTAINS $name
		RETURN %s
		ORDER BY n.name ASC, n.uuid ASC
	`, nodeReturnClause("n", ""))

	params := map[string]any{"name": name}
	if limit > 0 {
		cypher += "\t\tLIMIT $limit\n"
		params["limit"] = limit
	}

	result, err := s.client.ExecuteRead(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return nodesFromResult(result, "")
}

// FindByTimeRange returns nodes created within [start, end], both bounds
// inclusive. An inverted range fails with HCG_INVALID_RANGE; an empty range
// (start == end) is valid and matches nodes created at exactly that instant.
func (s *Store) FindByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]Node, error) {
	if start.After(end) {
		return nil, NewInvalidRangeError(start, end)
	}

	cypher := fmt.Sprintf(`
		MATCH (n:Entity)
		WHERE n.created_at >= $start AND n.created_at <= $end
		RETURN %s
		ORDER BY n.created_at ASC, n.uuid ASC
	`, nodeReturnClause("n", ""))

	params := map[string]any{
		"start": start.UnixMilli(),
		"end":   end.UnixMilli(),
	}
	if limit > 0 {
		cypher += "\t\tLIMIT $limit\n"
		params["limit"] = limit
	}

	result, err := s.client.ExecuteRead(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return nodesFromResult(result, "")
}

// DeleteNode removes a node and all of its edges. Deleting a uuid that does
// not exist fails with HCG_NOT_FOUND.
func (s *Store) DeleteNode(ctx context.Context, uuid types.ID) error {
	if err := uuid.Validate(); err != nil {
		return NewNotFoundError(uuid)
	}

	cypher := `
		MATCH (n:Entity {uuid: $uuid})
		DETACH DELETE n
	`
	result, err := s.client.ExecuteWrite(ctx, cypher, map[string]any{"uuid": uuid.String()})
	if err != nil {
		return err
	}
	if result.Summary.NodesDeleted == 0 {
		return NewNotFoundError(uuid)
	}

	s.logger.Debug("deleted node", "uuid", uuid)
	return nil
}
