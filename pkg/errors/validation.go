package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const maxQueryLength = 256

// queryRegex matches cluster and unigene identifiers, e.g. "COG0001",
// "GMGC10.000_000_001.UNKNOWN" or "ENOG41@2".
var queryRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:@|+-]*$`)

// ValidateQuery validates a cluster or gene identifier before it is placed
// in a backend URL or a database filter.
func ValidateQuery(q string) error {
	if q == "" {
		return New(ErrCodeInvalidQuery, "query cannot be empty")
	}
	if len(q) > maxQueryLength {
		return New(ErrCodeInvalidQuery, "query too long (max %d characters)", maxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "query contains invalid control characters")
		}
	}
	if strings.Contains(q, "..") {
		return New(ErrCodeInvalidQuery, "query contains invalid characters: %q", "..")
	}
	if !queryRegex.MatchString(q) {
		return New(ErrCodeInvalidQuery, "invalid query: %q", q)
	}
	return nil
}

// ValidateQueryList validates every identifier of a list query.
func ValidateQueryList(qs []string) error {
	if len(qs) == 0 {
		return New(ErrCodeInvalidQuery, "query list cannot be empty")
	}
	for _, q := range qs {
		if err := ValidateQuery(q); err != nil {
			return err
		}
	}
	return nil
}

var notationRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateNotation validates the name of an annotation system.
func ValidateNotation(name string) error {
	if !notationRegex.MatchString(name) {
		return New(ErrCodeInvalidNotation, "invalid notation: %q", name)
	}
	return nil
}

// ValidateURL checks that a backend or color pool URL uses http or https.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
