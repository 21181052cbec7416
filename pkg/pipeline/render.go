package pipeline

import (
	"context"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/render/nodelink"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
	"github.com/matzehuels/geco/pkg/render/synteny/sink"
	"github.com/matzehuels/geco/pkg/render/synteny/styles"
)

// Render generates output artifacts in the requested formats. Tree formats
// draw tree, which may be nil when none were requested.
func Render(ctx context.Context, l layout.Layout, tree *newick.Node, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, format, l, tree, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(ctx context.Context, format string, l layout.Layout, tree *newick.Node, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return renderSVG(l, opts)
	case FormatPNG:
		data, err := sink.RenderPNG(l, sink.WithScale(opts.Scale))
		if err != nil {
			return nil, gerrors.Wrap(gerrors.ErrCodeInternal, err, "render png")
		}
		return data, nil
	case FormatJSON:
		jopts := []sink.JSONOption{sink.WithJSONStyle(opts.Style), sink.WithJSONSeed(opts.Seed)}
		if !opts.Hover {
			jopts = append(jopts, sink.WithoutHidden())
		}
		return sink.RenderJSON(l, jopts...)
	case FormatDOT, FormatTreeSVG:
		return renderTree(ctx, format, tree, opts)
	default:
		return nil, ValidateFormat(format)
	}
}

func renderSVG(l layout.Layout, opts Options) ([]byte, error) {
	st, ok := styles.ByName(opts.Style)
	if !ok {
		return nil, ValidateStyle(opts.Style)
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(st)}
	if opts.Legend {
		svgOpts = append(svgOpts, sink.WithLegend())
	}
	if opts.Hover {
		svgOpts = append(svgOpts, sink.WithHover())
	}
	return sink.RenderSVG(l, svgOpts...), nil
}

func renderTree(ctx context.Context, format string, tree *newick.Node, opts Options) ([]byte, error) {
	if tree == nil {
		return nil, gerrors.New(gerrors.ErrCodeNotFound, "format %s needs a tree and none is available", format)
	}
	dot := nodelink.ToDOT(tree, nodelink.Options{Detailed: opts.Detailed, Highlight: opts.Highlight})
	if format == FormatDOT {
		return []byte(dot), nil
	}
	data, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInternal, err, "render tree")
	}
	return data, nil
}
