package hcg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/c-daly/logos-sub004/internal/hcg/graph"
	"github.com/c-daly/logos-sub004/internal/types"
)

func newTracedTestStore(t *testing.T) (*TracedStore, *graph.MockGraphClient, *tracetest.SpanRecorder) {
	t.Helper()
	mock := newTestMock(t)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	traced := NewTracedStore(NewStore(mock, nil), provider.Tracer("test"))
	return traced, mock, recorder
}

func findAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracedStore_CreateNodeSpan(t *testing.T) {
	traced, mock, recorder := newTracedTestStore(t)

	enqueueTypeResolution(mock)

	node, err := traced.CreateNode(context.Background(), "disk_full", "State", nil)
	require.NoError(t, err)
	require.NotNil(t, node)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, SpanHCGCreate, span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	nodeType, ok := findAttr(span, "logos.hcg.node_type")
	require.True(t, ok)
	assert.Equal(t, "State", nodeType.AsString())

	uuid, ok := findAttr(span, "logos.hcg.uuid")
	require.True(t, ok)
	assert.Equal(t, node.UUID.String(), uuid.AsString())
}

func TestTracedStore_ErrorSpan(t *testing.T) {
	traced, mock, recorder := newTracedTestStore(t)

	mock.EnqueueReadResult(emptyRows()) // type does not exist

	_, err := traced.CreateNode(context.Background(), "x", "Ghost", nil)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, codes.Error, span.Status().Code)
	code, ok := findAttr(span, "logos.hcg.error_code")
	require.True(t, ok)
	assert.Equal(t, string(ErrCodeUnknownType), code.AsString())
	assert.NotEmpty(t, span.Events(), "error must be recorded on the span")
}

func TestTracedStore_FindSpans(t *testing.T) {
	traced, mock, recorder := newTracedTestStore(t)
	ctx := context.Background()

	want := testNode("disk_full", "State", "State")
	mock.EnqueueReadResult(graph.QueryResult{
		Records: []map[string]any{nodeColumns("", want)},
	})

	got, err := traced.FindByUUID(ctx, want.UUID)
	require.NoError(t, err)
	require.NotNil(t, got)

	mock.EnqueueReadResult(emptyRows())
	_, err = traced.FindByName(ctx, "disk", 5)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, SpanHCGFind, spans[0].Name())

	found, ok := findAttr(spans[0], "logos.hcg.found")
	require.True(t, ok)
	assert.True(t, found.AsBool())

	count, ok := findAttr(spans[1], "logos.hcg.result_count")
	require.True(t, ok)
	assert.EqualValues(t, 0, count.AsInt64())
}

func TestTracedStore_Delegates(t *testing.T) {
	traced, mock, _ := newTracedTestStore(t)
	ctx := context.Background()

	assert.NotNil(t, traced.Registry())
	assert.True(t, traced.Health(ctx).IsHealthy())
	require.NoError(t, traced.Close(ctx))
	assert.False(t, mock.IsConnected())
}

func TestTracedTraverser_Span(t *testing.T) {
	mock := newTestMock(t)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	traced := NewTracedTraverser(
		NewTraverser(mock, TraversalConfig{}, nil),
		provider.Tracer("test"))

	origin := testNode("disk_full", "State", "State")
	mock.EnqueueReadResult(anchorRow(origin.UUID, types.NewID().String()))
	mock.EnqueueReadResult(emptyRows())

	result, err := traced.TraverseForward(context.Background(), origin.UUID, 4)
	require.NoError(t, err)
	require.NotNil(t, result)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanHCGTraverse, spans[0].Name())

	direction, ok := findAttr(spans[0], "logos.hcg.direction")
	require.True(t, ok)
	assert.Equal(t, "forward", direction.AsString())

	truncated, ok := findAttr(spans[0], "logos.hcg.truncated")
	require.True(t, ok)
	assert.False(t, truncated.AsBool())
}

func TestTracedStore_DeleteNodeSpan(t *testing.T) {
	traced, mock, recorder := newTracedTestStore(t)

	mock.EnqueueWriteResult(graph.QueryResult{
		Summary: graph.QuerySummary{NodesDeleted: 1},
	})

	id := types.NewID()
	require.NoError(t, traced.DeleteNode(context.Background(), id))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanHCGDelete, spans[0].Name())

	uuid, ok := findAttr(spans[0], "logos.hcg.uuid")
	require.True(t, ok)
	assert.Equal(t, id.String(), uuid.AsString())
}
