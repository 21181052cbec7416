// Package source loads the resources of one drawing: the genomic context
// dataset, and optionally the gene tree, a color pool and taxonomy labels.
//
// Three sources exist:
//
//   - [Remote] queries a GeCo-style REST backend through [fetch.Fetcher]
//   - local.Source reads files from disk
//   - mongo.Source reads central-gene documents from a MongoDB collection
//
// Every source follows the same failure policy: only a dataset failure is
// an error; a missing tree, color pool or label table is recorded as a
// warning on the returned [Bundle] and the drawing goes on without it.
package source

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/palette"
)

// Request and Bundle are shared with the remote fetcher.
type (
	Request = fetch.Request
	Bundle  = fetch.Bundle
)

// Source loads the bundle of one drawing.
type Source interface {
	Name() string
	Load(ctx context.Context, req Request) (*Bundle, error)
}

// Remote loads bundles from a REST backend.
type Remote struct {
	Fetcher *fetch.Fetcher
}

// NewRemote returns a remote source over c with a fresh generation tracker.
func NewRemote(c *fetch.Client) *Remote {
	return &Remote{Fetcher: &fetch.Fetcher{Client: c, Tracker: fetch.NewTracker()}}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Load(ctx context.Context, req Request) (*Bundle, error) {
	return r.Fetcher.Fetch(ctx, req)
}

// ReadTree reads and parses a Newick file.
func ReadTree(path string) (*newick.Node, string, error) {
	data, err := readFile(path, "tree")
	if err != nil {
		return nil, "", err
	}
	text := strings.TrimSpace(string(data))
	root, err := newick.Parse(text)
	if err != nil {
		return nil, "", gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "tree %s", path)
	}
	return root, text, nil
}

// ReadColors reads a color pool file.
func ReadColors(path string) ([]string, error) {
	data, err := readFile(path, "colors")
	if err != nil {
		return nil, err
	}
	pool, err := palette.ParsePool(string(data))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "colors %s", path)
	}
	return pool, nil
}

// ReadLabels reads a JSON object of level id to level name.
func ReadLabels(path string) (map[string]string, error) {
	data, err := readFile(path, "labels")
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string)
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "labels %s", path)
	}
	return labels, nil
}

func readFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, gerrors.Wrap(gerrors.ErrCodeFileNotFound, err, "%s file %s", what, path)
	}
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidPath, err, "%s file %s", what, path)
	}
	return data, nil
}
