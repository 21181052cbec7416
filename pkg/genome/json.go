package genome

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

var errNotObject = errors.New("not a JSON object")

// member is one key/value pair of a JSON object.
type member struct {
	Key   string
	Value json.RawMessage
}

// decodeObject splits a JSON object into its members in JavaScript
// property order: array-index keys ("0", "20", "300") first in ascending
// numeric order, then every other key in document order. A repeated key
// keeps its first position and its last value.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	var members []member
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if i, ok := seen[key]; ok {
			members[i].Value = raw
			continue
		}
		seen[key] = len(members)
		members = append(members, member{Key: key, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return propertyOrder(members), nil
}

func propertyOrder(members []member) []member {
	type indexed struct {
		n uint64
		m member
	}
	var idx []indexed
	rest := make([]member, 0, len(members))
	for _, m := range members {
		if n, ok := arrayIndex(m.Key); ok {
			idx = append(idx, indexed{n, m})
		} else {
			rest = append(rest, m)
		}
	}
	if len(idx) == 0 {
		return members
	}
	slices.SortFunc(idx, func(a, b indexed) int { return cmp.Compare(a.n, b.n) })
	out := make([]member, 0, len(members))
	for _, e := range idx {
		out = append(out, e.m)
	}
	return append(out, rest...)
}

// arrayIndex reports whether key is a canonical integer below 2^32-1.
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// scalarString renders a JSON string, number or bool as text.
// Objects, arrays and null yield ok=false.
func scalarString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[', 'n':
		return "", false
	}
	return string(raw), true
}

// scalarFloat reads a number or a numeric string.
func scalarFloat(raw json.RawMessage) (float64, bool) {
	s, ok := scalarString(raw)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
