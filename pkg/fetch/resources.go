package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/palette"
)

// Query kinds.
const (
	KindCluster = "cluster"
	KindUnigene = "unigene"
	KindList    = "list"
	// KindPlain addresses backends serving one context per query without a
	// cutoff, e.g. the eggNOG deployment.
	KindPlain = "plain"
)

// Query names a genomic context on the backend.
type Query struct {
	Kind   string   `json:"kind"`
	IDs    []string `json:"ids"`
	Cutoff int      `json:"cutoff,omitempty"`
}

// Key identifies the query in caches and generation trackers.
func (q Query) Key() string {
	return q.Kind + ":" + strings.Join(q.IDs, ",") + ":" + strconv.Itoa(q.Cutoff)
}

// Primary returns the id trees and labels are looked up by.
func (q Query) Primary() string {
	if len(q.IDs) == 0 {
		return ""
	}
	return q.IDs[0]
}

// Validate checks the kind and every id.
func (q Query) Validate() error {
	switch q.Kind {
	case KindCluster, KindUnigene, KindPlain:
		if len(q.IDs) != 1 {
			return gerrors.New(gerrors.ErrCodeInvalidQuery, "%s query takes exactly one id", q.Kind)
		}
	case KindList:
	default:
		return gerrors.New(gerrors.ErrCodeInvalidQuery, "unknown query kind %q", q.Kind)
	}
	if q.Cutoff < 0 {
		return gerrors.New(gerrors.ErrCodeInvalidQuery, "negative cutoff %d", q.Cutoff)
	}
	return gerrors.ValidateQueryList(q.IDs)
}

func (c *Client) contextURL(q Query) string {
	cutoff := strconv.Itoa(q.Cutoff)
	switch q.Kind {
	case KindList:
		ids := make([]string, len(q.IDs))
		for i, id := range q.IDs {
			ids[i] = url.PathEscape(id)
		}
		return c.base + "/getcontext/list/" + strings.Join(ids, ",") + "/" + cutoff + "/"
	case KindPlain:
		return c.url("getcontext", q.Primary())
	default:
		return c.url("getcontext", q.Kind, q.Primary(), cutoff)
	}
}

// ContextRaw returns the dataset payload of q as served by the backend.
func (c *Client) ContextRaw(ctx context.Context, q Query, refresh bool) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	data, err := c.Cached(ctx, "context", q.Key(), refresh, func() ([]byte, error) {
		return c.Get(ctx, c.contextURL(q))
	})
	if err != nil {
		return nil, classify(err, gerrors.ErrCodeDatasetNotFound, "dataset %s", q.Key())
	}
	return data, nil
}

// Context fetches and decodes the dataset of q.
func (c *Client) Context(ctx context.Context, q Query, refresh bool) (*genome.Dataset, error) {
	data, err := c.ContextRaw(ctx, q, refresh)
	if err != nil {
		return nil, err
	}
	ds, err := genome.ParseJSON(data)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidDataset, err, "dataset %s", q.Key())
	}
	if ds.Len() == 0 {
		return nil, gerrors.New(gerrors.ErrCodeDatasetNotFound, "dataset %s has no central genes", q.Key())
	}
	return ds, nil
}

// TreeText fetches the Newick text of the tree built for query.
func (c *Client) TreeText(ctx context.Context, query string, refresh bool) (string, error) {
	if err := gerrors.ValidateQuery(query); err != nil {
		return "", err
	}
	data, err := c.Cached(ctx, "tree", query, refresh, func() ([]byte, error) {
		return c.Get(ctx, c.url("tree", query))
	})
	if err != nil {
		return "", classify(err, gerrors.ErrCodeNotFound, "tree %s", query)
	}
	return strings.TrimSpace(string(data)), nil
}

// Tree fetches and parses the tree built for query.
func (c *Client) Tree(ctx context.Context, query string, refresh bool) (*newick.Node, string, error) {
	text, err := c.TreeText(ctx, query, refresh)
	if err != nil {
		return nil, "", err
	}
	if text == "" {
		return nil, "", gerrors.New(gerrors.ErrCodeNotFound, "tree %s is empty", query)
	}
	root, err := newick.Parse(text)
	if err != nil {
		return nil, "", gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "tree %s", query)
	}
	return root, text, nil
}

// Labels fetches the table of human-readable eggNOG level names, keyed by
// level id.
func (c *Client) Labels(ctx context.Context, refresh bool) (map[string]string, error) {
	data, err := c.Cached(ctx, "labels", "egglevels", refresh, func() ([]byte, error) {
		return c.Get(ctx, c.url("egglevels"))
	})
	if err != nil {
		return nil, classify(err, gerrors.ErrCodeNotFound, "level labels")
	}
	// Some deployments double-encode the table as a JSON string.
	var s string
	if json.Unmarshal(data, &s) == nil {
		data = []byte(s)
	}
	labels := make(map[string]string)
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "level labels")
	}
	return labels, nil
}

// Colors fetches a color pool file. A relative ref is resolved against the
// backend base.
func (c *Client) Colors(ctx context.Context, ref string, refresh bool) ([]string, error) {
	u := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		u = c.base + "/" + strings.TrimPrefix(ref, "/")
	}
	data, err := c.Cached(ctx, "colors", u, refresh, func() ([]byte, error) {
		return c.Get(ctx, u)
	})
	if err != nil {
		return nil, classify(err, gerrors.ErrCodeFileNotFound, "colors %s", ref)
	}
	pool, err := palette.ParsePool(string(data))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "colors %s", ref)
	}
	return pool, nil
}

// classify maps transport errors onto error codes; notFound is the code of
// a 404.
func classify(err error, notFound gerrors.Code, format string, args ...any) error {
	var ge *gerrors.Error
	switch {
	case errors.As(err, &ge):
		return err
	case errors.Is(err, ErrNotFound):
		return gerrors.Wrap(notFound, err, format, args...)
	case errors.Is(err, context.DeadlineExceeded):
		return gerrors.Wrap(gerrors.ErrCodeTimeout, err, format, args...)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return gerrors.Wrap(gerrors.ErrCodeNetwork, err, format, args...)
	}
}
