package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Luxbin-labs/luxbin-chain/pkg/core/entanglement"
	errs "github.com/Luxbin-labs/luxbin-chain/pkg/errors"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds attempts and elapsed time to edge labels.
	Detailed bool
}

// ToDOT converts session results to Graphviz DOT. Nodes are emitted in
// order of first appearance.
func ToDOT(results []entanglement.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	seen := make(map[string]bool)
	for _, r := range results {
		for _, id := range []string{r.NodeA, r.NodeB} {
			if seen[id] {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&buf, "  %q [label=%q];\n", id, id)
		}
	}

	buf.WriteString("\n")
	for _, r := range results {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", r.NodeA, r.NodeB, strings.Join(edgeAttrs(r, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeLabel(r entanglement.Result, detailed bool) string {
	var parts []string
	if r.Success {
		parts = append(parts, string(r.BellState), fmt.Sprintf("F=%.4f", r.Fidelity))
	} else {
		parts = append(parts, "failed")
	}
	if r.Metadata.Extended {
		parts = append(parts, fmt.Sprintf("hop %d", r.Metadata.Hop))
	}
	if detailed {
		parts = append(parts,
			fmt.Sprintf("attempts: %d", r.Attempts),
			fmt.Sprintf("time: %.2fms", r.TotalTimeMS()))
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(r entanglement.Result, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", edgeLabel(r, detailed))}
	switch {
	case !r.Success:
		attrs = append(attrs, "style=dashed", "color=red", "fontcolor=red")
	case r.Metadata.Extended:
		attrs = append(attrs, "style=bold", "color=steelblue")
	default:
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales to its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
