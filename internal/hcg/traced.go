package hcg

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/c-daly/logos-sub004/internal/types"
)

// Span names emitted by the traced store.
const (
	SpanHCGInit     = "logos.hcg.init_schema"
	SpanHCGCreate   = "logos.hcg.create"
	SpanHCGFind     = "logos.hcg.find"
	SpanHCGDelete   = "logos.hcg.delete"
	SpanHCGTraverse = "logos.hcg.traverse"
)

// TracedStore wraps an HCGStore with OpenTelemetry tracing. Every operation
// gets a span carrying the operation's key attributes; failures record the
// error and its taxonomy code on the span.
//
// Thread-safety: safe for concurrent access (delegates to the inner store).
type TracedStore struct {
	inner  HCGStore
	tracer trace.Tracer
}

// NewTracedStore wraps inner with tracing.
func NewTracedStore(inner HCGStore, tracer trace.Tracer) *TracedStore {
	return &TracedStore{inner: inner, tracer: tracer}
}

// finish records duration and outcome on the span. The error-taxonomy code,
// when present, goes on the span as its own attribute so traces can be
// filtered by failure class.
func finish(span trace.Span, start time.Time, err error) {
	span.SetAttributes(attribute.Float64("logos.hcg.duration_ms",
		float64(time.Since(start).Milliseconds())))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := types.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("logos.hcg.error_code", string(code)))
		}
		return
	}
	span.SetStatus(codes.Ok, "")
}

// InitSchema traces schema initialization.
func (t *TracedStore) InitSchema(ctx context.Context) error {
	ctx, span := t.tracer.Start(ctx, SpanHCGInit)
	defer span.End()

	start := time.Now()
	err := t.inner.InitSchema(ctx)
	finish(span, start, err)
	return err
}

// CreateNode traces node creation with the node's type attributes.
func (t *TracedStore) CreateNode(ctx context.Context, name, typeName string, props map[string]any, opts ...NodeOption) (*Node, error) {
	ctx, span := t.tracer.Start(ctx, SpanHCGCreate)
	defer span.End()

	span.SetAttributes(
		attribute.String("logos.hcg.kind", "node"),
		attribute.String("logos.hcg.node_type", typeName),
		attribute.Int("logos.hcg.property_count", len(props)),
	)

	start := time.Now()
	node, err := t.inner.CreateNode(ctx, name, typeName, props, opts...)
	finish(span, start, err)
	if node != nil {
		span.SetAttributes(attribute.String("logos.hcg.uuid", node.UUID.String()))
	}
	return node, err
}

// CreateEdge traces edge creation with the edge type and endpoints.
func (t *TracedStore) CreateEdge(ctx context.Context, from, to types.ID, edgeType EdgeType, props map[string]any) (*Edge, error) {
	ctx, span := t.tracer.Start(ctx, SpanHCGCreate)
	defer span.End()

	span.SetAttributes(
		attribute.String("logos.hcg.kind", "edge"),
		attribute.String("logos.hcg.edge_type", edgeType.String()),
		attribute.String("logos.hcg.from", from.String()),
		attribute.String("logos.hcg.to", to.String()),
	)

	start := time.Now()
	edge, err := t.inner.CreateEdge(ctx, from, to, edgeType, props)
	finish(span, start, err)
	return edge, err
}

// FindByUUID traces uuid lookup.
func (t *TracedStore) FindByUUID(ctx context.Context, uuid types.ID) (*Node, error) {
	ctx, span := t.tracer.Start(ctx, SpanHCGFind)
	defer span.End()

	span.SetAttributes(
		attribute.String("logos.hcg.find", "uuid"),
		attribute.String("logos.hcg.uuid", uuid.String()),
	)

	start := time.Now()
	node, err := t.inner.FindByUUID(ctx, uuid)
	finish(span, start, err)
	span.SetAttributes(attribute.Bool("logos.hcg.found", node != nil))
	return node, err
}

// FindByName traces substring name search.
func (t *TracedStore) FindByName(ctx context.Context, name string, limit int) ([]Node, error) {
	ctx, span := t.tracer.Start(ctx, SpanHCGFind)
	defer span.End()

	span.SetAttributes(
		attribute.String("logos.hcg.find", "name"),
		attribute.Int("logos.hcg.limit", limit),
	)

	start := time.Now()
	nodes, err := t.inner.FindByName(ctx, name, limit)
	finish(span, start, err)
	span.SetAttributes(attribute.Int("logos.hcg.result_count", len(nodes)))
	return nodes, err
}

// FindByTimeRange traces time-range search.
func (t *TracedStore) FindByTimeRange(ctx context.Context, start, end time.Time, limit int) ([]Node, error) {
	ctx, span := t.tracer.Start(ctx, SpanHCGFind)
	defer span.End()

	span.SetAttributes(
		attribute.String("logos.hcg.find", "time_range"),
		attribute.Int("logos.hcg.limit", limit),
	)

	began := time.Now()
	nodes, err := t.inner.FindByTimeRange(ctx, start, end, limit)
	finish(span, began, err)
	span.SetAttributes(attribute.Int("logos.hcg.result_count", len(nodes)))
	return nodes, err
}

// DeleteNode traces node deletion.
func (t *TracedStore) DeleteNode(ctx context.Context, uuid types.ID) error {
	ctx, span := t.tracer.Start(ctx, SpanHCGDelete)
	defer span.End()

	span.SetAttributes(attribute.String("logos.hcg.uuid", uuid.String()))

	start := time.Now()
	err := t.inner.DeleteNode(ctx, uuid)
	finish(span, start, err)
	return err
}

// TracedTraverser wraps a Traverser with OpenTelemetry tracing.
type TracedTraverser struct {
	inner  *Traverser
	tracer trace.Tracer
}

// NewTracedTraverser wraps inner with tracing.
func NewTracedTraverser(inner *Traverser, tracer trace.Tracer) *TracedTraverser {
	return &TracedTraverser{inner: inner, tracer: tracer}
}

// TraverseForward traces a downstream causal walk.
func (t *TracedTraverser) TraverseForward(ctx context.Context, origin types.ID, maxDepth int) (*TraversalResult, error) {
	return t.traverse(ctx, origin, maxDepth, "forward",
		func(ctx context.Context) (*TraversalResult, error) {
			return t.inner.TraverseForward(ctx, origin, maxDepth)
		})
}

// TraverseBackward traces an upstream causal walk.
func (t *TracedTraverser) TraverseBackward(ctx context.Context, origin types.ID, maxDepth int) (*TraversalResult, error) {
	return t.traverse(ctx, origin, maxDepth, "backward",
		func(ctx context.Context) (*TraversalResult, error) {
			return t.inner.TraverseBackward(ctx, origin, maxDepth)
		})
}

func (t *TracedTraverser) traverse(ctx context.Context, origin types.ID, maxDepth int, direction string,
	walk func(ctx context.Context) (*TraversalResult, error)) (*TraversalResult, error) {
	ctx, span := t.tracer.Start(ctx, SpanHCGTraverse)
	defer span.End()

	span.SetAttributes(
		attribute.String("logos.hcg.origin", origin.String()),
		attribute.String("logos.hcg.direction", direction),
		attribute.Int("logos.hcg.max_depth", maxDepth),
	)

	start := time.Now()
	result, err := walk(ctx)
	finish(span, start, err)
	if result != nil {
		span.SetAttributes(
			attribute.Int("logos.hcg.step_count", len(result.Steps)),
			attribute.Bool("logos.hcg.truncated", result.Truncated),
		)
	}
	return result, err
}

// Registry exposes the inner store's type registry.
func (t *TracedStore) Registry() *TypeRegistry {
	return t.inner.Registry()
}

// Health delegates to the inner store.
func (t *TracedStore) Health(ctx context.Context) types.HealthStatus {
	return t.inner.Health(ctx)
}

// Close delegates to the inner store.
func (t *TracedStore) Close(ctx context.Context) error {
	return t.inner.Close(ctx)
}
