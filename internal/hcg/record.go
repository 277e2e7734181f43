package hcg

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/c-daly/logos-sub004/internal/hcg/graph"
	"github.com/c-daly/logos-sub004/internal/types"
)

// nodeReturnClause builds the RETURN projection for a node bound to alias,
// with every column name prefixed. Queries project scalar columns rather than
// whole vertices so results stay independent of driver-specific value types.
func nodeReturnClause(alias, prefix string) string {
	return fmt.Sprintf(
		"%[1]s.uuid AS %[2]suuid, %[1]s.name AS %[2]sname, %[1]s.type AS %[2]stype, "+
			"%[1]s.root_type AS %[2]sroot_type, %[1]s.is_type_definition AS %[2]sis_type_definition, "+
			"%[1]s.created_at AS %[2]screated_at, %[1]s.props AS %[2]sprops",
		alias, prefix)
}

// nodeParams converts a Node into query parameters. The open property bag is
// serialized to JSON because the store only accepts primitive node properties.
func nodeParams(n *Node) (map[string]any, error) {
	props, err := json.Marshal(n.Properties)
	if err != nil {
		return nil, types.WrapError(ErrCodeInvalidProperty,
			"cannot serialize property bag", err)
	}

	return map[string]any{
		"uuid":               n.UUID.String(),
		"name":               n.Name,
		"type":               n.Type,
		"root_type":          n.RootType,
		"is_type_definition": n.IsTypeDefinition,
		"created_at":         n.CreatedAt.UnixMilli(),
		"props":              string(props),
	}, nil
}

// nodeFromRecord reads a Node from a result record whose columns were
// projected by nodeReturnClause with the given prefix. Returns nil when the
// uuid column is absent or null (e.g. an OPTIONAL MATCH that found nothing).
func nodeFromRecord(rec map[string]any, prefix string) (*Node, error) {
	rawUUID, ok := rec[prefix+"uuid"].(string)
	if !ok || rawUUID == "" {
		return nil, nil
	}

	id, err := types.ParseID(rawUUID)
	if err != nil {
		return nil, types.WrapError(ErrCodeNotFound,
			"malformed uuid in graph record", err)
	}

	node := &Node{
		UUID:       id,
		Properties: map[string]any{},
	}

	if v, ok := rec[prefix+"name"].(string); ok {
		node.Name = v
	}
	if v, ok := rec[prefix+"type"].(string); ok {
		node.Type = v
	}
	if v, ok := rec[prefix+"root_type"].(string); ok {
		node.RootType = v
	}
	if v, ok := rec[prefix+"is_type_definition"].(bool); ok {
		node.IsTypeDefinition = v
	}
	if ms, ok := asInt64(rec[prefix+"created_at"]); ok {
		node.CreatedAt = time.UnixMilli(ms).UTC()
	}
	if raw, ok := rec[prefix+"props"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &node.Properties); err != nil {
			return nil, types.WrapError(ErrCodeInvalidProperty,
				"cannot deserialize property bag", err)
		}
	}

	return node, nil
}

// nodesFromResult converts every record in a result to a Node, skipping
// records without a bound node.
func nodesFromResult(result graph.QueryResult, prefix string) ([]Node, error) {
	nodes := make([]Node, 0, len(result.Records))
	for _, rec := range result.Records {
		node, err := nodeFromRecord(rec, prefix)
		if err != nil {
			return nil, err
		}
		if node != nil {
			nodes = append(nodes, *node)
		}
	}
	return nodes, nil
}

// asInt64 normalizes the numeric types the driver and tests produce.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
