// Package graph provides the positioned graph types produced by flattening
// and layout, and their serialization format.
//
// # Core Types
//
//   - [Node]: one rendered service with its position and edge anchor sides
//   - [Edge]: a directed connection between two nodes of the same view
//   - [View]: a positioned graph, either a document root or one child group
//   - [ChildIndex]: parent node ID → child group views
//   - [Result]: a flattened document (root view + child index)
//
// # Constants
//
// This package is the single source of truth for layout constants:
//
//	graph.LeftToRight   // "LR" (default)
//	graph.RightToLeft   // "RL"
//	graph.TopToBottom   // "TB"
//	graph.BottomToTop   // "BT"
//
// # Serialization
//
// Results serialize to JSON with the child group views stored once, in the
// index. Node.Groups is rebuilt on decode:
//
//	data, _ := graph.MarshalResult(res)
//	res, _ = graph.UnmarshalResult(data) // nodes have Groups attached again
//
// # Concurrency
//
// Views are values. Functions in this package never mutate their arguments,
// except [Result.Link] which mutates its receiver.
package graph
