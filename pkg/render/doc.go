// Package render turns positioned graph views into SVG, PNG, DOT or JSON.
//
// Two engines produce images:
//
//   - [EngineNative] draws the view exactly where pkg/layout placed it,
//     as a self-contained SVG with edges anchored on the node sides.
//   - [EngineGraphviz] emits DOT (see [ToDOT]) and lets Graphviz lay it
//     out again with the same rank direction, via go-graphviz.
//
// [Render] dispatches on [Format] and [Engine]:
//
//	svg, err := render.Render(ctx, v, render.FormatSVG, render.EngineNative)
//	dot := render.ToDOT(v, render.DOTOptions{})
//
// PNG output with the native engine is converted from SVG by the external
// rsvg-convert tool (librsvg); the Graphviz engine renders PNG directly.
package render
