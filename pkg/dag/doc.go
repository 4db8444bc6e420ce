// Package dag provides a directed graph organised into rows (layers), the
// working representation of the layered layout in pkg/layout.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "gateway"})
//	g.AddNode(dag.Node{ID: "orders"})
//	g.AddEdge(dag.Edge{From: "gateway", To: "orders"})
//
// Rows are assigned by [transform.AssignLayers]; long edges are broken into
// single-row hops by [transform.Subdivide], which inserts [NodeKindVirtual]
// nodes. Row orderings are computed by the [ordering] package and evaluated
// with [CountCrossings].
//
// # Determinism
//
// Every accessor that returns several nodes returns them in insertion order,
// so the same input always yields the same layout.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Layout builds a fresh DAG
// per call, so concurrent layouts never share one.
//
// [transform.AssignLayers]: github.com/matzehuels/svcgraph/pkg/dag/transform
// [transform.Subdivide]: github.com/matzehuels/svcgraph/pkg/dag/transform
// [ordering]: github.com/matzehuels/svcgraph/pkg/dag/ordering
package dag
