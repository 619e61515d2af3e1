// Package topology renders entanglement links as network diagrams.
//
// # Overview
//
// Each node that took part in a session becomes a box; each session result
// becomes an undirected edge labelled with its Bell state and fidelity.
// Network extensions appear as a chain of hops, so a swapped link
// alice-bob-carol-dave reads left to right.
//
// # Usage
//
//	dot := topology.ToDOT(results, topology.Options{})
//	svg, err := topology.RenderSVG(ctx, dot)
//
// Failed sessions are drawn as dashed red edges without a Bell state.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. The DOT source from [ToDOT] can also be fed to external
// Graphviz tools.
package topology
