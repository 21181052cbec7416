package fetch

import (
	"sync"

	"github.com/google/uuid"

	gerrors "github.com/matzehuels/geco/pkg/errors"
)

// ErrStale is returned for results of a request that a newer request for
// the same key has superseded.
var ErrStale = gerrors.New(gerrors.ErrCodeStale, "result superseded by a newer request")

// Generation tags one request for a key.
type Generation struct {
	Key string    `json:"key"`
	ID  uuid.UUID `json:"id"`
}

func (g Generation) String() string { return g.Key + "@" + g.ID.String() }

// Tracker remembers the latest generation per key. It is safe for
// concurrent use.
type Tracker struct {
	mu     sync.Mutex
	latest map[string]uuid.UUID
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{latest: make(map[string]uuid.UUID)}
}

// Begin starts a new generation for key, superseding any running one.
func (t *Tracker) Begin(key string) Generation {
	g := Generation{Key: key, ID: uuid.New()}
	t.mu.Lock()
	t.latest[key] = g.ID
	t.mu.Unlock()
	return g
}

// Accept returns nil when g is still the latest generation of its key and
// [ErrStale] otherwise.
func (t *Tracker) Accept(g Generation) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.latest[g.Key]; !ok || id != g.ID {
		return ErrStale
	}
	return nil
}

// Done forgets key when g is still its latest generation.
func (t *Tracker) Done(g Generation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest[g.Key] == g.ID {
		delete(t.latest, g.Key)
	}
}

// Pending returns the number of keys with a running generation.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.latest)
}
