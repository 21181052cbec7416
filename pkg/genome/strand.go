package genome

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Strand is the coding strand of a gene. The zero value is [Forward].
type Strand int8

const (
	Forward Strand = iota
	Reverse
)

// ParseStrand accepts "+", "-", or a signed number ("1", "-1", "+1").
// An empty string reads as Forward.
func ParseStrand(s string) (Strand, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Forward, fmt.Errorf("invalid strand %q", s)
	}
	return strandFromSign(f), nil
}

func strandFromSign(f float64) Strand {
	if f < 0 {
		return Reverse
	}
	return Forward
}

func (s Strand) IsReverse() bool { return s == Reverse }

// Flip returns the opposite strand.
func (s Strand) Flip() Strand {
	if s == Reverse {
		return Forward
	}
	return Reverse
}

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// MarshalJSON encodes the strand as "+" or "-".
func (s Strand) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts both the string and the signed-number encodings.
func (s *Strand) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Forward
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := ParseStrand(str)
		if err != nil {
			return err
		}
		*s = v
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid strand %s", data)
	}
	*s = strandFromSign(f)
	return nil
}
