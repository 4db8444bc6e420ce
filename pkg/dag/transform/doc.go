// Package transform prepares a [dag.DAG] for layered drawing.
//
// Layered layout needs an acyclic graph whose edges only connect adjacent
// rows. The transformations here establish that form:
//
//   - [BreakCycles] deletes the back edges of a depth-first walk
//   - [AssignLayers] puts every node on the longest-path row from the sources
//   - [Subdivide] replaces edges spanning several rows with chains of
//     virtual nodes, one per intermediate row
//
// [Prepare] applies all three in order:
//
//	removed := transform.Prepare(g) // modifies g in place
//
// Virtual nodes carry [dag.NodeKindVirtual] and a MasterID naming the source
// of the edge they stand in for. They take part in ordering and coordinate
// assignment but are never emitted as output nodes.
package transform
