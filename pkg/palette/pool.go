package palette

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPool holds 34 mutually distinguishable colors.
var DefaultPool = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#e6beff",
	"#9a6324", "#fffac8", "#800000", "#aaffc3", "#808000", "#ffd8b1",
	"#000075", "#808080", "#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
	"#9467bd", "#8c564b", "#e377c2", "#7f7f7f", "#17becf", "#b15928",
	"#6a3d9a", "#33a02c", "#fb9a99", "#cab2d6",
}

var quotedRe = regexp.MustCompile(`["']([^"']*)["']`)

// ParsePool reads a color pool file: a textual array literal of hex colors,
// e.g. ["#ff0000", '#00ff00']. Single quotes and a trailing comma are
// accepted. Every color is validated and normalized to lowercase #rrggbb.
func ParsePool(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, fmt.Errorf("color pool: expected an array literal")
	}

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
			raw = append(raw, m[1])
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("color pool: no colors found")
	}

	colors := make([]string, 0, len(raw))
	for _, s := range raw {
		c, err := colorful.Hex(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("color pool: %q: %w", s, err)
		}
		colors = append(colors, c.Hex())
	}
	return colors, nil
}
