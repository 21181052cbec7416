package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/geco/pkg/newick"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed labels edges with branch lengths and inner nodes with
	// support values.
	Detailed bool
	// Highlight lists leaf names drawn with the anchor color, e.g. the
	// central genes of the current query.
	Highlight []string
}

// ToDOT converts a parsed tree to Graphviz DOT format. Leaves share a rank
// so they line up in one column, left-to-right order preserved; the result
// can be rendered with [RenderSVG].
func ToDOT(root *newick.Node, opts Options) string {
	ids := make(map[*newick.Node]string)
	for i, n := range root.Nodes() {
		ids[n] = "n" + strconv.Itoa(i)
	}
	highlight := make(map[string]bool, len(opts.Highlight))
	for _, h := range opts.Highlight {
		highlight[h] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  node [shape=point, width=0.05];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#5d5d5d\"];\n")
	buf.WriteString("  ranksep=0.3;\n")
	buf.WriteString("  nodesep=0.1;\n")
	buf.WriteString("\n")

	var leaves []string
	root.Walk(func(n *newick.Node) bool {
		fmt.Fprintf(&buf, "  %s [%s];\n", ids[n], strings.Join(nodeAttrs(n, opts.Detailed, highlight[n.Name]), ", "))
		if n.IsLeaf() {
			leaves = append(leaves, ids[n])
		}
		return true
	})

	buf.WriteString("\n")
	root.Walk(func(n *newick.Node) bool {
		for _, c := range n.Children {
			if opts.Detailed && c.HasLength {
				fmt.Fprintf(&buf, "  %s -> %s [label=%q, fontsize=8];\n", ids[n], ids[c], strconv.FormatFloat(c.Length, 'g', 4, 64))
				continue
			}
			fmt.Fprintf(&buf, "  %s -> %s;\n", ids[n], ids[c])
		}
		return true
	})

	if len(leaves) > 1 {
		fmt.Fprintf(&buf, "\n  { rank=same; %s; }\n", strings.Join(leaves, "; "))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *newick.Node, detailed, highlight bool) []string {
	if n.IsLeaf() {
		attrs := []string{"shape=plaintext", fmt.Sprintf("label=%q", n.Name), "fontsize=11"}
		if highlight {
			attrs = append(attrs, "fontcolor=\"#ff8c00\"")
		}
		return attrs
	}
	if detailed && n.HasSupport {
		return []string{"shape=plaintext", fmt.Sprintf("label=%q", strconv.FormatFloat(n.Support, 'g', 3, 64)), "fontsize=8"}
	}
	return []string{"label=\"\""}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
