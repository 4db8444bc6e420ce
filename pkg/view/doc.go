// Package view tracks navigation through flattened service graphs: which
// document is open, which graph is displayed, the breadcrumb trail leading
// to it, the selected node and the document search filter.
//
// A [Navigator] starts at the root view of a document. Selecting a node that
// owns child groups drills into its first group and pushes the node's label
// onto the breadcrumb trail. Other groups of the same node are reached with
// [Navigator.SelectGroup]. Selecting a node without groups below the root
// marks it selected so its details can be shown.
//
//	nav := view.New(results...)
//	outcome, err := nav.SelectNode(id)
//	if outcome == view.OutcomeDrilled {
//	    draw(nav.CurrentView(), nav.Breadcrumbs())
//	}
//
// Navigator is owned by a single UI session and is not safe for concurrent
// use.
package view
