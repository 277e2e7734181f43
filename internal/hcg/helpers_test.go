package hcg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/c-daly/logos-sub004/internal/hcg/graph"
	"github.com/c-daly/logos-sub004/internal/types"
)

// newTestMock returns a connected mock graph client.
func newTestMock(t *testing.T) *graph.MockGraphClient {
	t.Helper()
	mock := graph.NewMockGraphClient()
	require.NoError(t, mock.Connect(context.Background()))
	return mock
}

// uuidResult is a single-record result carrying only a uuid column, as
// returned by existence checks and writes.
func uuidResult(uuid string) graph.QueryResult {
	return graph.QueryResult{Records: []map[string]any{{"uuid": uuid}}}
}

// parentResult is a single-record result of the IS_A parent-hop query.
func parentResult(name string) graph.QueryResult {
	return graph.QueryResult{Records: []map[string]any{
		{"name": name, "uuid": types.NewID().String()},
	}}
}

// emptyRows is a result with no records.
func emptyRows() graph.QueryResult {
	return graph.QueryResult{Records: []map[string]any{}}
}

// nodeColumns projects a node the way nodeReturnClause does, with the given
// column prefix.
func nodeColumns(prefix string, n Node) map[string]any {
	props := "{}"
	if n.Properties != nil {
		params, err := nodeParams(&n)
		if err != nil {
			panic(err)
		}
		props = params["props"].(string)
	}
	return map[string]any{
		prefix + "uuid":               n.UUID.String(),
		prefix + "name":               n.Name,
		prefix + "type":               n.Type,
		prefix + "root_type":          n.RootType,
		prefix + "is_type_definition": n.IsTypeDefinition,
		prefix + "created_at":         n.CreatedAt.UnixMilli(),
		prefix + "props":              props,
	}
}

// testNode builds a node with the given type for record fixtures.
func testNode(name, typeName, rootType string) Node {
	return Node{
		UUID:      types.NewID(),
		Name:      name,
		Type:      typeName,
		RootType:  rootType,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// mergeColumns merges several column maps into one record, for queries that
// project more than one node per row.
func mergeColumns(maps ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
