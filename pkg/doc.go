// Package pkg provides the libraries behind svcgraph.
//
// # Overview
//
// svcgraph turns a nested description of services into laid-out directed
// graphs. Top-level services form the root graph; every child group a
// service owns becomes a graph of its own, reachable by drilling into the
// service. The pkg directory is organized into these areas:
//
//  1. [service] - The input document model and its JSON/TOML/YAML decoding
//  2. [flatten] - Document → root view plus child group views
//  3. [layout], [dag] - Layered placement of one view
//  4. [view] - Navigation state: breadcrumbs, drill-down, selection, search
//  5. [render] - SVG, PNG, DOT and JSON output
//  6. [pipeline], [cache], [store] - Orchestration, caching and persistence
//
// # Architecture
//
// The data flow through svcgraph:
//
//	service document (JSON, TOML, YAML)
//	         ↓
//	    [service] package (decode + validate)
//	         ↓
//	    [flatten] package (nodes, edges, child index)
//	         ↓
//	    [layout] package (ranks, order, coordinates)
//	         ↓
//	    [render] package or [view] navigator
//
// # Quick Start
//
//	doc, _ := service.ReadFile("platform.yaml")
//	res, _ := flatten.New(flatten.WithDirection(graph.TopToBottom)).FlattenDocument(doc)
//	svg, _ := render.Render(ctx, res.Root, render.FormatSVG, render.EngineNative)
//
// Drill into a service's child groups:
//
//	nav := view.New(res)
//	nav.SelectNode(res.Root.Nodes[1].ID)
//	fmt.Println(nav.Breadcrumbs()) // [platform orders]
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//
// [service]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/service
// [flatten]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/flatten
// [layout]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/layout
// [dag]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/dag
// [view]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/view
// [render]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/svcgraph/pkg/store
package pkg
