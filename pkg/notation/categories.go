// Package notation extracts coloring categories from gene annotations.
//
// [Identifiers] reads the ordered categories of one gene for a notation
// system, [Collect] gathers the legend of a whole dataset and [Levels] lists
// the taxonomic levels available for a hierarchical notation. None of them
// fail on malformed input: a missing or oddly shaped annotation simply yields
// no categories.
package notation

// Categories is an insertion-ordered mapping from category id to description.
type Categories struct {
	ids  []string
	desc map[string]string
}

// NewCategories returns an empty mapping.
func NewCategories() *Categories {
	return &Categories{desc: make(map[string]string)}
}

// Set stores a description. A new id is appended; an existing id keeps its
// position and takes the new description.
func (c *Categories) Set(id, description string) {
	if _, ok := c.desc[id]; !ok {
		c.ids = append(c.ids, id)
	}
	c.desc[id] = description
}

// Get returns the description of id.
func (c *Categories) Get(id string) (string, bool) {
	d, ok := c.desc[id]
	return d, ok
}

// Has reports whether id is present.
func (c *Categories) Has(id string) bool {
	_, ok := c.desc[id]
	return ok
}

// Delete removes id, keeping the order of the others.
func (c *Categories) Delete(id string) {
	if _, ok := c.desc[id]; !ok {
		return
	}
	delete(c.desc, id)
	for i, v := range c.ids {
		if v == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
}

// IDs returns the ids in insertion order.
func (c *Categories) IDs() []string {
	return append([]string(nil), c.ids...)
}

func (c *Categories) Len() int { return len(c.ids) }

// First returns the first id, or "" when empty.
func (c *Categories) First() string {
	if len(c.ids) == 0 {
		return ""
	}
	return c.ids[0]
}

// Last returns the last id, or "" when empty.
func (c *Categories) Last() string {
	if len(c.ids) == 0 {
		return ""
	}
	return c.ids[len(c.ids)-1]
}
