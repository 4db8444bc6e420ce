// Package flatten converts nested service descriptions into flat,
// positioned graph views.
//
// The root entries of a document become the root view. Each child group of
// an entry becomes its own view, laid out independently, stored in a
// [graph.ChildIndex] under the owning node's ID and attached to that node's
// Groups. Members of a child group may own groups of their own; those are
// flattened the same way and indexed under the member's ID.
//
// # Identifiers
//
// Every entry gets a fresh surrogate ID, so a name repeated in different
// scopes (or even in the same scope) never collides. IDs come from
// uuid.NewString unless another [IDGenerator] is configured.
//
// # Reference resolution
//
//   - Root entries link through Output: an edge runs from the entry to the
//     root entry with the referenced name. When several root entries share
//     a name, the last one declared is the target.
//   - Child group members link through Input: an edge runs from the nearest
//     preceding sibling with the referenced name to the member.
//
// References that resolve to nothing are dropped without error. They are
// counted in [Stats.Dropped].
package flatten
