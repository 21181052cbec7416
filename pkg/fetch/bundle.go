package fetch

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/palette"
)

// Request lists the resources of one drawing.
type Request struct {
	Query   Query
	Tree    bool
	Colors  string // color pool ref; empty selects the built-in pool
	Labels  bool
	Refresh bool

	// Caller scopes request generations: a request only supersedes
	// earlier requests of the same caller for the same query.
	Caller string
}

// GenerationKey is the key of req in a [Tracker].
func (req Request) GenerationKey() string {
	if req.Caller == "" {
		return req.Query.Key()
	}
	return req.Caller + "/" + req.Query.Key()
}

// Bundle holds everything fetched for one drawing.
type Bundle struct {
	Generation Generation
	Dataset    *genome.Dataset
	Tree       *newick.Node
	TreeText   string
	Colors     []string
	Labels     map[string]string
	Warnings   []string
}

// Fetcher runs the requests of a drawing concurrently.
type Fetcher struct {
	Client  *Client
	Tracker *Tracker
	Logger  *log.Logger
}

// Fetch retrieves the dataset and the optional resources of req. Only a
// dataset failure is returned as an error; the others degrade to warnings.
// With a Tracker, results superseded by a newer request of the same caller
// fail with [ErrStale].
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*Bundle, error) {
	logger := f.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := &Bundle{Colors: palette.DefaultPool}
	if f.Tracker != nil {
		b.Generation = f.Tracker.Begin(req.GenerationKey())
		defer f.Tracker.Done(b.Generation)
	}

	var treeErr, colorErr, labelErr error
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ds, err := f.Client.Context(gctx, req.Query, req.Refresh)
		if err != nil {
			return err
		}
		b.Dataset = ds
		return nil
	})
	if req.Tree {
		g.Go(func() error {
			b.Tree, b.TreeText, treeErr = f.Client.Tree(gctx, req.Query.Primary(), req.Refresh)
			return nil
		})
	}
	if req.Colors != "" {
		var pool []string
		g.Go(func() error {
			pool, colorErr = f.Client.Colors(gctx, req.Colors, req.Refresh)
			if colorErr == nil {
				b.Colors = pool
			}
			return nil
		})
	}
	if req.Labels {
		g.Go(func() error {
			b.Labels, labelErr = f.Client.Labels(gctx, req.Refresh)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if f.Tracker != nil {
		if err := f.Tracker.Accept(b.Generation); err != nil {
			logger.Debug("discarding stale result", "generation", b.Generation)
			return nil, err
		}
	}

	if treeErr != nil {
		b.Tree, b.TreeText = nil, ""
		b.Warn(logger, fmt.Sprintf("tree unavailable, drawing without it: %v", treeErr))
	}
	if colorErr != nil {
		b.Warn(logger, fmt.Sprintf("color pool unavailable, using the built-in pool: %v", colorErr))
	}
	if labelErr != nil {
		b.Warn(logger, fmt.Sprintf("level labels unavailable: %v", labelErr))
	}
	return b, nil
}

// Warn logs msg and records it on the bundle.
func (b *Bundle) Warn(logger *log.Logger, msg string) {
	logger.Warn(msg)
	b.Warnings = append(b.Warnings, msg)
}
