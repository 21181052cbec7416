// Package local loads drawings from files on disk.
package local

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/palette"
	"github.com/matzehuels/geco/pkg/source"
)

// Source reads a dataset JSON file and optional tree, colors and labels
// files. The query of a request is ignored.
type Source struct {
	Dataset string
	Tree    string
	Colors  string
	Labels  string
	Logger  *log.Logger
}

// New returns a source for the dataset file at path.
func New(path string) *Source { return &Source{Dataset: path} }

func (s *Source) Name() string { return "local" }

// Load reads the files selected by req. A color ref in req overrides the
// source's colors file.
func (s *Source) Load(ctx context.Context, req source.Request) (*source.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ds, err := ReadDataset(s.Dataset)
	if err != nil {
		return nil, err
	}
	b := &source.Bundle{Dataset: ds, Colors: palette.DefaultPool}

	if req.Tree {
		if s.Tree == "" {
			b.Warn(logger, "tree requested but no tree file given, drawing without it")
		} else if root, text, err := source.ReadTree(s.Tree); err != nil {
			b.Warn(logger, fmt.Sprintf("tree unavailable, drawing without it: %v", err))
		} else {
			b.Tree, b.TreeText = root, text
		}
	}

	colors := s.Colors
	if req.Colors != "" {
		colors = req.Colors
	}
	if colors != "" {
		if pool, err := source.ReadColors(colors); err != nil {
			b.Warn(logger, fmt.Sprintf("color pool unavailable, using the built-in pool: %v", err))
		} else {
			b.Colors = pool
		}
	}

	if req.Labels && s.Labels != "" {
		if labels, err := source.ReadLabels(s.Labels); err != nil {
			b.Warn(logger, fmt.Sprintf("level labels unavailable: %v", err))
		} else {
			b.Labels = labels
		}
	}
	return b, nil
}

// ReadDataset reads a dataset file, mapping failures onto error codes.
func ReadDataset(path string) (*genome.Dataset, error) {
	if path == "" {
		return nil, gerrors.New(gerrors.ErrCodeInvalidPath, "no dataset file given")
	}
	ds, err := genome.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "dataset file %s", path)
	case err != nil:
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidDataset, err, "dataset file %s", path)
	case ds.Len() == 0:
		return nil, gerrors.New(gerrors.ErrCodeDatasetNotFound, "dataset file %s has no central genes", path)
	}
	return ds, nil
}
