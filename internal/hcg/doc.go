// Package hcg implements the hybrid causal graph: a property-graph layer
// whose schema lives in the graph itself.
//
// Types are ordinary nodes marked is_type_definition, linked to their parents
// by IS_A edges up to a single meta-type apex. The TypeRegistry validates
// type references and resolves each type's root by walking that chain, with a
// generation-counted cache invalidated on registration.
//
// The Store is the typed query layer: node and edge creation, uuid, name and
// time-range lookup, and deletion, all through parameterized queries against
// a graph.GraphClient. The Traverser walks causal chains over CAUSES and
// PRECEDES edges in either direction, breadth-first and bounded.
//
// Failures carry stable HCG_* taxonomy codes (see errors.go) layered on the
// GRAPH_* codes of the underlying client. TracedStore adds OpenTelemetry
// spans around every store operation.
package hcg
