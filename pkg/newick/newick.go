// Package newick parses phylogenetic trees in Newick format and places their
// leaves on the vertical axis of the synteny layout.
//
// A tree is parsed once with [Parse]. [Place] assigns every node a vertical
// position using a cluster layout (leaves evenly spaced, inner nodes centered
// over their children) and a depth-derived horizontal position; [Ordinates]
// turns the placed leaves into a resolver the layout engine uses to align
// each synteny row with its tree leaf.
package newick

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Node is one node of a parsed tree.
type Node struct {
	Name       string
	Length     float64
	HasLength  bool
	Support    float64
	HasSupport bool
	Children   []*Node
	Parent     *Node `json:"-"`

	Depth int
	X, Y  float64 // X runs along the leaves, Y along the depth.
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Leaves returns the leaves in left-to-right order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if x.IsLeaf() {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Nodes returns every node in pre-order.
func (n *Node) Nodes() []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		out = append(out, x)
		return true
	})
	return out
}

// ReadFile parses the tree stored at path.
func ReadFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse reads one tree. Inner node labels that are numbers are read as
// branch support. Whitespace outside quoted labels is ignored and the
// terminating semicolon is optional.
func Parse(s string) (*Node, error) {
	p := &parser{src: s}
	root, err := p.node(nil, 0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ';' {
		p.pos++
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q after tree", p.src[p.pos])
	}
	return root, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("newick: offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		case '[':
			end := strings.IndexByte(p.src[p.pos:], ']')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		default:
			return
		}
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) node(parent *Node, depth int) (*Node, error) {
	n := &Node{Parent: parent, Depth: depth}
	if p.peek() == '(' {
		p.pos++
		for {
			child, err := p.node(n, depth+1)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case ')':
				p.pos++
			default:
				return nil, p.errorf("expected ',' or ')'")
			}
			break
		}
	}

	label, err := p.label()
	if err != nil {
		return nil, err
	}
	if !n.IsLeaf() {
		if v, err := strconv.ParseFloat(label, 64); err == nil {
			n.Support, n.HasSupport = v, true
			label = ""
		}
	}
	n.Name = label

	if p.peek() == ':' {
		p.pos++
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && !strings.ContainsRune(",);[ \t\n\r", rune(p.src[p.pos])) {
			p.pos++
		}
		v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return nil, p.errorf("bad branch length %q", p.src[start:p.pos])
		}
		n.Length, n.HasLength = v, true
	}
	return n, nil
}

func (p *parser) label() (string, error) {
	switch p.peek() {
	case '\'', '"':
		quote := p.src[p.pos]
		p.pos++
		end := strings.IndexByte(p.src[p.pos:], quote)
		if end < 0 {
			return "", p.errorf("unterminated quoted label")
		}
		s := p.src[p.pos : p.pos+end]
		p.pos += end + 1
		return s, nil
	}
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("(),:;[", rune(p.src[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos]), nil
}
