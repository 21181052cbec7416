package newick

import "strings"

const (
	// RowPitch is the vertical space per leaf and per field track.
	RowPitch = 21
	// DepthStep is the horizontal distance between tree depths.
	DepthStep = 30
	// LeafOffset shifts a leaf position to the top of its synteny row.
	LeafOffset = 10
)

// Height returns the height of a tree with nleaf leaves next to rows of
// nfield tracks each.
func Height(nleaf, nfield int) float64 {
	return float64(nleaf * nfield * RowPitch)
}

// Place lays the tree out over height: leaves are evenly spaced in order,
// each inner node sits at the mean of its children, and Y grows by
// DepthStep per depth.
func Place(root *Node, height float64) {
	if root == nil {
		return
	}
	leaves := root.Leaves()
	n := float64(len(leaves))
	for i, l := range leaves {
		l.X = (float64(i) + .5) / n * height
	}
	var visit func(*Node)
	visit = func(x *Node) {
		x.Y = DepthStep * float64(x.Depth+1)
		if x.IsLeaf() {
			return
		}
		sum := 0.0
		for _, c := range x.Children {
			visit(c)
			sum += c.X
		}
		x.X = sum / float64(len(x.Children))
	}
	visit(root)
}

// LeafKeys returns the gene ids a leaf name may stand for: the name itself,
// the name without a "uni" prefix, and its first dot-separated field.
func LeafKeys(name string) []string {
	keys := []string{name}
	if rest, ok := strings.CutPrefix(name, "uni"); ok && rest != "" {
		keys = append(keys, rest)
	}
	if head, _, ok := strings.Cut(name, "."); ok && head != "" {
		keys = append(keys, head)
	}
	return keys
}

// Ordinates places the tree over height and returns a resolver from central
// gene id to the top of its synteny row. Genes without a leaf are not
// resolved and the caller falls back to its own stacking.
func Ordinates(root *Node, height float64) func(geneID string, row int) (float64, bool) {
	Place(root, height)
	pos := make(map[string]float64)
	for _, l := range root.Leaves() {
		for _, k := range LeafKeys(l.Name) {
			if _, dup := pos[k]; !dup {
				pos[k] = l.X + LeafOffset
			}
		}
	}
	return func(geneID string, _ int) (float64, bool) {
		y, ok := pos[geneID]
		return y, ok
	}
}
