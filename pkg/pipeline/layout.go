package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/render/synteny/layout"
)

// GenerateLayout lays out the dataset of b. Rows follow the tree leaves
// when the tree is shown and available; taxonomy labels name the levels in
// legend titles.
func GenerateLayout(b *fetch.Bundle, opts Options) (layout.Layout, error) {
	lopts := []layout.Option{
		layout.WithViewport(opts.Viewport),
		layout.WithPool(b.Colors),
		layout.WithLogger(opts.Logger),
	}
	if opts.Width > 0 {
		lopts = append(lopts, layout.WithWidth(opts.Width))
	}
	if opts.Seed != 0 {
		lopts = append(lopts, layout.WithSeed(opts.Seed))
	}
	if opts.Params.Options.ShowTree && b.Tree != nil {
		height := newick.Height(b.Dataset.Len(), opts.Params.NField())
		lopts = append(lopts, layout.WithOrdinate(newick.Ordinates(b.Tree, height)))
	}

	params := labelFields(opts.Params, b.Labels)
	l, err := layout.Build(b.Dataset, params, lopts...)
	if errors.Is(err, layout.ErrNoRows) {
		return layout.Layout{}, gerrors.Wrap(gerrors.ErrCodeDatasetNotFound, err, "layout")
	}
	if err != nil {
		return layout.Layout{}, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "layout")
	}
	if name := b.Labels[params.TaxLevel]; params.TaxLevel != "" && name != "" {
		l.Legend.Title = fmt.Sprintf("%s (%s)", l.Legend.Title, name)
	}
	return l, nil
}

// labelFields replaces level ids in field titles by their labels.
func labelFields(p layout.Params, labels map[string]string) layout.Params {
	if len(labels) == 0 || len(p.Fields) == 0 {
		return p
	}
	p.Fields = slices.Clone(p.Fields)
	for i, f := range p.Fields {
		if name := labels[f.Level]; f.Level != "" && name != "" {
			p.Fields[i].Title = strings.Replace(f.Title, "("+f.Level+")", "("+name+")", 1)
		}
	}
	return p
}
