// Package fetch retrieves synteny inputs from a GeCo-style REST backend.
//
// # Endpoints
//
// A [Client] talks to a backend rooted at a base URL:
//
//	GET {base}/getcontext/{cluster|unigene}/{query}/{cutoff}/   dataset JSON
//	GET {base}/getcontext/list/{id,id,...}/{cutoff}/            dataset JSON
//	GET {base}/getcontext/{query}/                              dataset JSON
//	GET {base}/tree/{query}/                                    Newick text
//	GET {base}/egglevels/                                       level names
//
// Color pools are read from any URL holding an array literal of hex colors.
// Responses are cached as raw bytes through a [cache.Cache], so a cached
// dataset decodes with the same key order as a fresh one.
//
// # Concurrent Fetches
//
// [Fetch] runs the dataset, tree, color and label requests concurrently
// with an errgroup and joins them before layout starts. Only the dataset is
// fatal: a missing tree, color pool or label table becomes a warning and
// the pipeline falls back (no tree, built-in pool, raw level keys).
//
// # Request Generations
//
// Every run is tagged with a [Generation]. A [Tracker] remembers the latest
// generation per caller and query and rejects results of superseded runs
// with [ErrStale], so a slow response can never overwrite a newer drawing
// of the same caller. Requests of different callers never supersede each
// other.
//
// [cache.Cache]: github.com/matzehuels/geco/pkg/cache.Cache
package fetch
