// Package layout positions graph nodes with a layered (Sugiyama-style)
// algorithm.
//
// [Layout] takes unpositioned nodes and edges and returns a [graph.View] in
// which every node has coordinates, a rank and an order, plus the sides its
// incoming and outgoing edges attach to:
//
//	v := layout.Layout(nodes, edges, layout.WithDirection(graph.TopToBottom))
//
// The work happens on a private [dag.DAG] built per call: cycles are broken,
// ranks are assigned by longest path, long edges are split with virtual
// nodes, and rows are ordered by the barycenter heuristic. The caller's
// slices are never modified, and identical input always gives identical
// output.
//
// Layout is total. Dangling edges are dropped from the result, self-loops
// and duplicate edges are kept but do not influence placement, and nodes
// without edges land on rank 0.
package layout
