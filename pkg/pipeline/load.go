package pipeline

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/palette"
	"github.com/matzehuels/geco/pkg/source"
)

// Load assembles the bundle of one drawing. Inline dataset, tree and pool
// options are used as given; everything else comes from src.
func Load(ctx context.Context, src source.Source, opts Options) (*fetch.Bundle, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	var b *fetch.Bundle
	if opts.HasInlineDataset() {
		ds, err := genome.ParseJSON(opts.Dataset)
		if err != nil {
			return nil, gerrors.Wrap(gerrors.ErrCodeInvalidDataset, err, "inline dataset")
		}
		if ds.Len() == 0 {
			return nil, gerrors.New(gerrors.ErrCodeDatasetNotFound, "inline dataset has no central genes")
		}
		b = &fetch.Bundle{Dataset: ds, Colors: palette.DefaultPool}
	} else {
		if src == nil {
			return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "no dataset source configured for query %s", opts.Query.Key())
		}
		var err error
		b, err = src.Load(ctx, source.Request{
			Query:   opts.Query,
			Tree:    opts.Params.Options.ShowTree && opts.Newick == "",
			Colors:  opts.Colors,
			Labels:  opts.Labels,
			Refresh: opts.Refresh,
			Caller:  opts.Caller,
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.Newick != "" {
		root, err := newick.Parse(opts.Newick)
		if err != nil {
			b.Warn(opts.Logger, "inline tree unreadable, drawing without it: "+err.Error())
		} else {
			b.Tree, b.TreeText = root, opts.Newick
		}
	}
	if len(opts.Pool) > 0 {
		text, _ := json.Marshal(opts.Pool)
		pool, err := palette.ParsePool(string(text))
		if err != nil {
			return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "inline color pool")
		}
		b.Colors = pool
	}
	return b, nil
}
