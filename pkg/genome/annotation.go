package genome

import "encoding/json"

// Reserved annotation keys that never name a category.
const (
	KeyScores     = "scores"
	KeyPrediction = "prediction"
)

// Notation systems with a taxonomic level in between the annotation name and
// its categories.
const (
	NotationEggNOG        = "eggNOG"
	NotationTaxPrediction = "tax_prediction"
)

// IsSentinel reports whether a category value means "no annotation".
func IsSentinel(id string) bool {
	return id == "" || id == "NA"
}

// Notation describes one functional or taxonomic category.
type Notation struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	Percentage  float64 `json:"percentage,omitempty"`
}

// Kind discriminates the [Annotation] variants.
type Kind int

const (
	KindScalar Kind = iota
	KindFlat
	KindHierarchical
)

func (k Kind) String() string {
	switch k {
	case KindFlat:
		return "flat"
	case KindHierarchical:
		return "hierarchical"
	default:
		return "scalar"
	}
}

// Annotation is one of [Scalar], [Flat] or [Hierarchical].
type Annotation interface {
	Kind() Kind
}

// Scalar is a single-valued annotation.
type Scalar struct {
	Value string
}

func (Scalar) Kind() Kind { return KindScalar }

// FlatEntry is one category of a [Flat] annotation.
type FlatEntry struct {
	Key      string
	Notation Notation
}

// Flat maps category keys to descriptors in source order.
type Flat struct {
	Entries []FlatEntry

	// Reserved holds the raw "scores" and "prediction" members, if any.
	Reserved map[string]json.RawMessage
}

func (Flat) Kind() Kind { return KindFlat }

func (f Flat) Len() int { return len(f.Entries) }

// Get returns the descriptor stored under key.
func (f Flat) Get(key string) (Notation, bool) {
	for _, e := range f.Entries {
		if e.Key == key {
			return e.Notation, true
		}
	}
	return Notation{}, false
}

// Level is one taxonomic level of a [Hierarchical] annotation.
type Level struct {
	Key  string
	Flat Flat
}

// Hierarchical maps taxonomic levels to flat category maps.
type Hierarchical struct {
	Levels []Level
	Scores json.RawMessage
}

func (Hierarchical) Kind() Kind { return KindHierarchical }

// Level returns the categories recorded at the given level.
func (h Hierarchical) Level(key string) (Flat, bool) {
	for _, l := range h.Levels {
		if l.Key == key {
			return l.Flat, true
		}
	}
	return Flat{}, false
}

// LevelKeys lists the levels in source order.
func (h Hierarchical) LevelKeys() []string {
	keys := make([]string, len(h.Levels))
	for i, l := range h.Levels {
		keys[i] = l.Key
	}
	return keys
}

// parseAnnotation classifies a raw annotation value by shape. name only
// settles the ambiguous empty-object case for the known hierarchical systems.
func parseAnnotation(name string, raw json.RawMessage) (Annotation, bool) {
	if isNull(raw) {
		return nil, false
	}
	if !isObject(raw) {
		s, ok := scalarString(raw)
		if !ok {
			return nil, false
		}
		return Scalar{Value: s}, true
	}

	members, err := decodeObject(raw)
	if err != nil {
		return nil, false
	}

	if looksHierarchical(name, members) {
		h := Hierarchical{}
		for _, m := range members {
			if m.Key == KeyScores {
				h.Scores = m.Value
				continue
			}
			lm, err := decodeObject(m.Value)
			if err != nil {
				return nil, false
			}
			h.Levels = append(h.Levels, Level{Key: m.Key, Flat: parseFlat(lm, false)})
		}
		return h, true
	}
	return parseFlat(members, true), true
}

func looksHierarchical(name string, members []member) bool {
	filled := 0
	for _, m := range members {
		if m.Key == KeyScores {
			continue
		}
		n, ok := levelSize(m.Value)
		if !ok {
			return false
		}
		if n > 0 {
			filled++
		}
	}
	if filled == 0 {
		return name == NotationEggNOG || name == NotationTaxPrediction
	}
	return true
}

// levelSize reports whether raw is an object whose members are all
// descriptor objects, and how many members it has.
func levelSize(raw json.RawMessage) (int, bool) {
	if !isObject(raw) {
		return 0, false
	}
	members, err := decodeObject(raw)
	if err != nil {
		return 0, false
	}
	for _, m := range members {
		if !isObject(m.Value) || !isDescriptor(m.Value) {
			return 0, false
		}
	}
	return len(members), true
}

// isDescriptor reports whether raw is an object holding only scalar members.
func isDescriptor(raw json.RawMessage) bool {
	members, err := decodeObject(raw)
	if err != nil {
		return false
	}
	for _, m := range members {
		if isObject(m.Value) {
			return false
		}
	}
	return true
}

func parseFlat(members []member, reservePrediction bool) Flat {
	f := Flat{}
	for _, m := range members {
		if m.Key == KeyScores || (reservePrediction && m.Key == KeyPrediction) {
			if f.Reserved == nil {
				f.Reserved = make(map[string]json.RawMessage)
			}
			f.Reserved[m.Key] = m.Value
			continue
		}
		f.Entries = append(f.Entries, FlatEntry{Key: m.Key, Notation: parseNotation(m.Key, m.Value)})
	}
	return f
}

// parseNotation reads a descriptor leniently: non-object values become a
// bare id, numeric ids are stringified.
func parseNotation(key string, raw json.RawMessage) Notation {
	n := Notation{ID: key}
	if !isObject(raw) {
		return n
	}
	members, err := decodeObject(raw)
	if err != nil {
		return n
	}
	for _, m := range members {
		switch m.Key {
		case "id":
			if s, ok := scalarString(m.Value); ok && s != "" {
				n.ID = s
			}
		case "description":
			if s, ok := scalarString(m.Value); ok {
				n.Description = s
			}
		case "percentage":
			if f, ok := scalarFloat(m.Value); ok {
				n.Percentage = f
			}
		}
	}
	return n
}
