// Package mongo loads drawings from a MongoDB collection of central-gene
// documents.
//
// A context document has the form
//
//	{"_id": "g1", "gene": "g1", "cluster": "COG0001", "neighborhood": {"0": {...}, "1": {...}}}
//
// where the neighborhood has the same shape as the backend payload read by
// [genome.ParseJSON]. The central gene id is taken from "gene", falling back
// to "_id". Optional collections hold trees ({"_id": query, "newick": text})
// and taxonomy labels ({"_id": level, "name": label}).
package mongo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gerrors "github.com/matzehuels/geco/pkg/errors"
	"github.com/matzehuels/geco/pkg/fetch"
	"github.com/matzehuels/geco/pkg/genome"
	"github.com/matzehuels/geco/pkg/newick"
	"github.com/matzehuels/geco/pkg/palette"
	"github.com/matzehuels/geco/pkg/source"
)

// Options configures the connection and the collections.
type Options struct {
	URI        string
	Database   string
	Collection string
	Trees      string
	Labels     string
	Timeout    time.Duration
}

// Source reads bundles from MongoDB. It is safe for concurrent use.
type Source struct {
	client   *mongo.Client
	contexts *mongo.Collection
	trees    *mongo.Collection
	labels   *mongo.Collection
	timeout  time.Duration
	Logger   *log.Logger
}

// Open connects to the server and checks it with a ping.
func Open(ctx context.Context, opts Options) (*Source, error) {
	if opts.URI == "" || opts.Database == "" || opts.Collection == "" {
		return nil, gerrors.New(gerrors.ErrCodeInvalidInput, "mongo: uri, database and collection are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI).SetServerSelectionTimeout(opts.Timeout))
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeNetwork, err, "mongo: connect")
	}
	pctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(pctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, gerrors.Wrap(gerrors.ErrCodeNetwork, err, "mongo: ping")
	}

	db := client.Database(opts.Database)
	s := &Source{client: client, contexts: db.Collection(opts.Collection), timeout: opts.Timeout}
	if opts.Trees != "" {
		s.trees = db.Collection(opts.Trees)
	}
	if opts.Labels != "" {
		s.labels = db.Collection(opts.Labels)
	}
	return s, nil
}

// Close disconnects from the server.
func (s *Source) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

func (s *Source) Name() string { return "mongo" }

// Load reads the dataset of req.Query and the optional resources. A color
// ref is read as a local file.
func (s *Source) Load(ctx context.Context, req source.Request) (*source.Bundle, error) {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ds, err := s.Dataset(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	b := &source.Bundle{Dataset: ds, Colors: palette.DefaultPool}

	if req.Tree {
		root, text, err := s.Tree(ctx, req.Query.Primary())
		if err != nil {
			b.Warn(logger, fmt.Sprintf("tree unavailable, drawing without it: %v", err))
		} else {
			b.Tree, b.TreeText = root, text
		}
	}
	if req.Colors != "" {
		if pool, err := source.ReadColors(req.Colors); err != nil {
			b.Warn(logger, fmt.Sprintf("color pool unavailable, using the built-in pool: %v", err))
		} else {
			b.Colors = pool
		}
	}
	if req.Labels && s.labels != nil {
		if labels, err := s.Labels(ctx); err != nil {
			b.Warn(logger, fmt.Sprintf("level labels unavailable: %v", err))
		} else {
			b.Labels = labels
		}
	}
	return b, nil
}

// Dataset finds the context documents of q. A positive cutoff limits the
// number of central genes.
func (s *Source) Dataset(ctx context.Context, q fetch.Query) (*genome.Dataset, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find()
	if q.Cutoff > 0 {
		opts.SetLimit(int64(q.Cutoff))
	}
	cur, err := s.contexts.Find(ctx, Filter(q), opts)
	if err != nil {
		return nil, classify(err, "dataset %s", q.Key())
	}
	var docs []bson.Raw
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify(err, "dataset %s", q.Key())
	}
	if len(docs) == 0 {
		return nil, gerrors.New(gerrors.ErrCodeDatasetNotFound, "dataset %s has no central genes", q.Key())
	}
	if q.Kind == fetch.KindList {
		docs = orderByIDs(docs, q.IDs)
	}

	data, err := DatasetJSON(docs)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidDataset, err, "dataset %s", q.Key())
	}
	ds, err := genome.ParseJSON(data)
	if err != nil {
		return nil, gerrors.Wrap(gerrors.ErrCodeInvalidDataset, err, "dataset %s", q.Key())
	}
	return ds, nil
}

type treeDocument struct {
	ID     string `bson:"_id"`
	Newick string `bson:"newick"`
}

// Tree finds the tree stored for query.
func (s *Source) Tree(ctx context.Context, query string) (*newick.Node, string, error) {
	if s.trees == nil {
		return nil, "", gerrors.New(gerrors.ErrCodeNotFound, "no tree collection configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var doc treeDocument
	err := s.trees.FindOne(ctx, bson.D{{Key: "_id", Value: query}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", gerrors.Wrap(gerrors.ErrCodeNotFound, err, "tree %s", query)
	}
	if err != nil {
		return nil, "", classify(err, "tree %s", query)
	}
	root, err := newick.Parse(doc.Newick)
	if err != nil {
		return nil, "", gerrors.Wrap(gerrors.ErrCodeInvalidInput, err, "tree %s", query)
	}
	return root, doc.Newick, nil
}

type labelDocument struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

// Labels reads the taxonomy label table.
func (s *Source) Labels(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.labels.Find(ctx, bson.D{})
	if err != nil {
		return nil, classify(err, "labels")
	}
	var docs []labelDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify(err, "labels")
	}
	labels := make(map[string]string, len(docs))
	for _, d := range docs {
		labels[d.ID] = d.Name
	}
	return labels, nil
}

// Filter returns the query filter selecting the documents of q.
func Filter(q fetch.Query) bson.D {
	switch q.Kind {
	case fetch.KindList:
		return bson.D{{Key: "gene", Value: bson.D{{Key: "$in", Value: q.IDs}}}}
	case fetch.KindUnigene:
		return bson.D{{Key: "gene", Value: q.Primary()}}
	default:
		return bson.D{{Key: "cluster", Value: q.Primary()}}
	}
}

// DocumentID returns the central gene id of a context document.
func DocumentID(doc bson.Raw) (string, error) {
	if v, err := doc.LookupErr("gene"); err == nil {
		if id, ok := v.StringValueOK(); ok && id != "" {
			return id, nil
		}
	}
	v, err := doc.LookupErr("_id")
	if err != nil {
		return "", errors.New("document has neither gene nor _id")
	}
	switch v.Type {
	case bson.TypeString:
		return v.StringValue(), nil
	case bson.TypeObjectID:
		return v.ObjectID().Hex(), nil
	default:
		return "", fmt.Errorf("unsupported _id type %s", v.Type)
	}
}

// DatasetJSON rewrites context documents into the dataset payload, keeping
// document order and the key order of every neighborhood.
func DatasetJSON(docs []bson.Raw) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, doc := range docs {
		id, err := DocumentID(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		nb, err := doc.LookupErr("neighborhood")
		if err != nil || nb.Type != bson.TypeEmbeddedDocument {
			return nil, fmt.Errorf("document %s: neighborhood must be an embedded document", id)
		}
		ext, err := bson.MarshalExtJSON(nb.Document(), false, false)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		key, _ := json.Marshal(id)

		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteString(`:{"neighborhood":`)
		buf.Write(ext)
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// orderByIDs sorts docs into the order of ids; documents without a usable
// id go last.
func orderByIDs(docs []bson.Raw, ids []string) []bson.Raw {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	buckets := make([][]bson.Raw, len(ids)+1)
	for _, doc := range docs {
		slot := len(ids)
		if id, err := DocumentID(doc); err == nil {
			if r, ok := rank[id]; ok {
				slot = r
			}
		}
		buckets[slot] = append(buckets[slot], doc)
	}
	out := make([]bson.Raw, 0, len(docs))
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}

func classify(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return gerrors.Wrap(gerrors.ErrCodeTimeout, err, format, args...)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return gerrors.Wrap(gerrors.ErrCodeNetwork, err, format, args...)
	}
}
