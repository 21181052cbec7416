package genome

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry is one central gene and its neighborhood.
type Entry struct {
	ID           string
	Neighborhood Neighborhood
	NContig      string

	// Swapped is set once Normalize mirrored the neighborhood.
	Swapped bool
}

// Dataset is the ordered set of central genes of one query.
type Dataset struct {
	Entries []*Entry
}

// Len returns the number of central genes.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Entries)
}

// IDs returns the central gene ids in document order.
func (d *Dataset) IDs() []string {
	ids := make([]string, 0, d.Len())
	for _, e := range d.Entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// Entry looks up a central gene by id.
func (d *Dataset) Entry(id string) (*Entry, bool) {
	for _, e := range d.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Normalize applies the strand swap to every entry whose anchor is on the
// reverse strand and returns how many entries were mirrored.
func (d *Dataset) Normalize() int {
	n := 0
	for _, e := range d.Entries {
		if e.Normalize() {
			n++
		}
	}
	return n
}

// Normalize applies the strand swap to the entry. It reports whether the
// neighborhood was mirrored by this call.
func (e *Entry) Normalize() bool {
	nb, swapped := e.Neighborhood.Normalize()
	if swapped {
		e.Neighborhood = nb
		e.Swapped = true
	}
	return swapped
}

// ReadFile decodes a dataset from a JSON file.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadJSON decodes a dataset from r. See [ParseJSON].
func ReadJSON(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ParseJSON decodes the backend payload: a JSON object from central gene id
// to either {"neighborhood": {...}} or the neighborhood object itself.
// Neighborhood keys are relative positions; the non-numeric key "n" carries
// the contig count shown next to the anchor. Unknown keys are ignored.
func ParseJSON(data []byte) (*Dataset, error) {
	members, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	ds := &Dataset{Entries: make([]*Entry, 0, len(members))}
	for _, m := range members {
		e, err := parseEntry(m.Key, m.Value)
		if err != nil {
			return nil, fmt.Errorf("dataset: central gene %q: %w", m.Key, err)
		}
		ds.Entries = append(ds.Entries, e)
	}
	return ds, nil
}

func parseEntry(id string, raw json.RawMessage) (*Entry, error) {
	members, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	nbRaw := raw
	for _, m := range members {
		if m.Key == "neighborhood" {
			nbRaw = m.Value
			break
		}
	}
	nbMembers, err := decodeObject(nbRaw)
	if err != nil {
		return nil, fmt.Errorf("neighborhood: %w", err)
	}

	e := &Entry{ID: id, Neighborhood: make(Neighborhood, len(nbMembers))}
	for _, m := range nbMembers {
		if m.Key == "n" {
			e.NContig, _ = scalarString(m.Value)
			continue
		}
		pos, err := strconv.Atoi(strings.TrimSpace(m.Key))
		if err != nil || !isObject(m.Value) {
			continue
		}
		g := new(Gene)
		if err := g.UnmarshalJSON(m.Value); err != nil {
			return nil, fmt.Errorf("position %d: %w", pos, err)
		}
		e.Neighborhood[pos] = g
	}
	return e, nil
}
