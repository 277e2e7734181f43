package hcg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/c-daly/logos-sub004/internal/hcg/graph"
	"github.com/c-daly/logos-sub004/internal/types"
)

// maxVisitedNodes bounds the total number of process nodes a single traversal
// may expand. The bound protects against pathological graphs; ordinary causal
// chains stay far below it.
const maxVisitedNodes = 10000

// CausalStep is one hop of a causal chain: a process node, the state it
// causes, and the hop distance from the traversal origin.
type CausalStep struct {
	Process Node `json:"process"`
	State   Node `json:"state"`
	Depth   int  `json:"depth"`
}

// TraversalResult carries the steps discovered by a traversal. Truncated is
// set when the walk stopped before exhausting the chain, either because the
// depth bound was reached with unexpanded processes remaining or because the
// caller's context expired mid-walk. A truncated result is still valid; every
// step it contains was fully resolved.
type TraversalResult struct {
	Steps     []CausalStep `json:"steps"`
	Truncated bool         `json:"truncated"`
}

// Traverser walks causal chains over CAUSES and PRECEDES edges. It is
// read-only: no traversal mutates the graph.
//
// A chain is anchored at a state node: the anchor processes are those with a
// CAUSES edge into the origin state. From the anchors, the walk proceeds
// breadth-first along PRECEDES edges (forward along edge direction, or
// against it for backward traversal), emitting one CausalStep per caused
// state discovered at each depth.
type Traverser struct {
	client graph.GraphClient
	config TraversalConfig
	logger *slog.Logger
}

// NewTraverser creates a Traverser over the given graph client.
// A nil logger defaults to slog.Default().
func NewTraverser(client graph.GraphClient, config TraversalConfig, logger *slog.Logger) *Traverser {
	if logger == nil {
		logger = slog.Default()
	}
	config.ApplyDefaults()
	return &Traverser{
		client: client,
		config: config,
		logger: logger,
	}
}

// TraverseForward walks the causal chain downstream from the origin state:
// what happened next. maxDepth <= 0 uses the configured default.
//
// Fails with HCG_NOT_FOUND if the origin does not exist and with
// HCG_TRAVERSAL_LIMIT_EXCEEDED if the walk expands more process nodes than
// the safety bound allows.
func (t *Traverser) TraverseForward(ctx context.Context, origin types.ID, maxDepth int) (*TraversalResult, error) {
	return t.traverse(ctx, origin, maxDepth, false)
}

// TraverseBackward walks the causal chain upstream from the origin state:
// what led here. Semantics mirror TraverseForward with PRECEDES edges
// followed against their direction.
func (t *Traverser) TraverseBackward(ctx context.Context, origin types.ID, maxDepth int) (*TraversalResult, error) {
	return t.traverse(ctx, origin, maxDepth, true)
}

func (t *Traverser) traverse(ctx context.Context, origin types.ID, maxDepth int, reverse bool) (*TraversalResult, error) {
	if err := origin.Validate(); err != nil {
		return nil, NewNotFoundError(origin)
	}
	if maxDepth <= 0 {
		maxDepth = t.config.DefaultMaxDepth
	}

	frontier, err := t.anchorProcesses(ctx, origin)
	if err != nil {
		return nil, err
	}

	result := &TraversalResult{Steps: []CausalStep{}}
	visited := make(map[string]struct{}, len(frontier))
	for _, uuid := range frontier {
		visited[uuid] = struct{}{}
	}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		if ctx.Err() != nil {
			// Out of time. Return what was found so far.
			result.Truncated = true
			return result, nil
		}

		steps, next, err := t.expand(ctx, frontier, depth, reverse)
		if err != nil {
			if contextExpired(ctx, err) {
				// The clock ran out inside the expansion query. Steps from
				// completed depths are still valid, so return them.
				result.Truncated = true
				return result, nil
			}
			return nil, err
		}
		result.Steps = append(result.Steps, steps...)

		frontier = frontier[:0]
		for _, uuid := range next {
			if _, seen := visited[uuid]; seen {
				continue
			}
			visited[uuid] = struct{}{}
			frontier = append(frontier, uuid)
		}
		if len(visited) > maxVisitedNodes {
			return nil, NewTraversalLimitError(maxVisitedNodes)
		}
	}

	if len(frontier) > 0 {
		result.Truncated = true
	}

	t.logger.Debug("causal traversal complete",
		"origin", origin,
		"reverse", reverse,
		"steps", len(result.Steps),
		"visited", len(visited),
		"truncated", result.Truncated)

	return result, nil
}

// contextExpired reports whether err stems from the caller's context running
// out, whether the expiry surfaced through the query error chain or only on
// the context itself.
func contextExpired(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil
}

// anchorProcesses returns the uuids of the processes with a CAUSES edge into
// the origin state, verifying the origin exists first.
func (t *Traverser) anchorProcesses(ctx context.Context, origin types.ID) ([]string, error) {
	cypher := fmt.Sprintf(`
		MATCH (s:Entity {uuid: $uuid})
		OPTIONAL MATCH (p:Entity)-[:CAUSES]->(s)
		RETURN s.uuid AS origin_uuid, %s
		ORDER BY p.uuid ASC
	`, nodeReturnClause("p", "p_"))

	result, err := t.client.ExecuteRead(ctx, cypher, map[string]any{"uuid": origin.String()})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, NewNotFoundError(origin)
	}

	anchors := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		if uuid, ok := rec["p_uuid"].(string); ok && uuid != "" {
			anchors = append(anchors, uuid)
		}
	}
	return anchors, nil
}

// expand advances the frontier one hop along PRECEDES, returning the causal
// steps discovered at this depth and the uuids of the newly reached
// processes. A reached process without a caused state still joins the next
// frontier; it just contributes no step.
func (t *Traverser) expand(ctx context.Context, frontier []string, depth int, reverse bool) ([]CausalStep, []string, error) {
	pattern := "(p)-[:PRECEDES]->(q:Entity)"
	if reverse {
		pattern = "(q:Entity)-[:PRECEDES]->(p)"
	}

	cypher := fmt.Sprintf(`
		MATCH (p:Entity)
		WHERE p.uuid IN $uuids
		MATCH %s
		OPTIONAL MATCH (q)-[:CAUSES]->(s:Entity)
		RETURN %s, %s
		ORDER BY q.uuid ASC, s.uuid ASC
	`, pattern, nodeReturnClause("q", "q_"), nodeReturnClause("s", "s_"))

	result, err := t.client.ExecuteRead(ctx, cypher, map[string]any{"uuids": frontier})
	if err != nil {
		return nil, nil, err
	}

	var steps []CausalStep
	var next []string
	seen := make(map[string]struct{}, len(result.Records))

	for _, rec := range result.Records {
		process, err := nodeFromRecord(rec, "q_")
		if err != nil {
			return nil, nil, err
		}
		if process == nil {
			continue
		}
		if _, dup := seen[process.UUID.String()]; !dup {
			seen[process.UUID.String()] = struct{}{}
			next = append(next, process.UUID.String())
		}

		state, err := nodeFromRecord(rec, "s_")
		if err != nil {
			return nil, nil, err
		}
		if state == nil {
			continue
		}
		steps = append(steps, CausalStep{
			Process: *process,
			State:   *state,
			Depth:   depth,
		})
	}

	return steps, next, nil
}
