package mob

import (
	"fmt"
	"io"
	"strings"
)

// Node is one record of a document decoded without knowledge of its fields.
// Sections carry Children, leaves carry Payload.
type Node struct {
	Tag      Tag
	Length   uint32 // declared payload length, as read
	Children []*Node
	Payload  []byte
}

// Shape returns the shape of the node's tag.
func (n *Node) Shape() Shape {
	return ShapeOf(n.Tag)
}

// IsSection reports whether the node holds child records.
func (n *Node) IsSection() bool {
	return n.Shape() == ShapeSection
}

// Find returns the first direct child with tag.
func (n *Node) Find(tag Tag) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first. Returning false from fn skips
// the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Emit writes the node and returns the bytes produced. Lengths are recomputed
// from the content; Length is not consulted.
func (n *Node) Emit(w *Writer) int {
	if n.IsSection() {
		s, written := w.OpenSection(n.Tag)
		for _, c := range n.Children {
			written += c.Emit(w)
		}
		w.CloseSection(s)
		return written
	}
	return w.BytesRecord(n.Tag, n.Payload)
}

// ParseTree decodes data into its top-level records using the tag vocabulary
// to tell sections from leaves. A well-formed top-level record with an
// unknown tag is kept as an opaque leaf; bytes that do not form a record are
// an error.
func ParseTree(data []byte) ([]*Node, error) {
	r := NewReader(data)
	var nodes []*Node
	for {
		level, _, err := parseLevel(r)
		nodes = append(nodes, level...)
		if err != nil {
			return nil, err
		}
		if r.Remaining() == 0 {
			return nodes, nil
		}
		h, ok := r.PeekHeader()
		if !ok {
			return nodes, fmt.Errorf("%w: %d trailing bytes at offset %d", ErrSectionLengthMismatch, r.Remaining(), r.Pos())
		}
		if _, err := r.SkipHeader(); err != nil {
			return nil, err
		}
		payload, _, err := r.ReadBytes(int(h.Length))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", h.Tag, err)
		}
		nodes = append(nodes, &Node{Tag: h.Tag, Length: h.Length, Payload: payload})
	}
}

func parseLevel(r *Reader) ([]*Node, int, error) {
	var nodes []*Node
	d := DispatchFunc(func(tag Tag) (ParseFunc, bool) {
		shape := ShapeOf(tag)
		if shape == ShapeUnknown {
			return nil, false
		}
		return func(r *Reader, h Header) (int, error) {
			node := &Node{Tag: h.Tag, Length: h.Length}
			nodes = append(nodes, node)
			if shape == ShapeSection {
				children, n, err := parseLevel(r)
				node.Children = children
				return n, err
			}
			payload, n, err := r.ReadBytes(int(h.Length))
			node.Payload = payload
			return n, err
		}, true
	})
	n, err := d.Run(r)
	return nodes, n, err
}

// EncodeTree writes nodes as a complete document.
func EncodeTree(nodes []*Node) []byte {
	w := NewWriter()
	for _, n := range nodes {
		n.Emit(w)
	}
	return w.Bytes()
}

// DumpTree prints an indented outline of nodes, one record per line.
func DumpTree(out io.Writer, nodes []*Node) error {
	for _, root := range nodes {
		var err error
		root.Walk(func(n *Node, depth int) bool {
			if err != nil {
				return false
			}
			indent := strings.Repeat("  ", depth)
			if n.IsSection() {
				_, err = fmt.Fprintf(out, "%s%s [%d bytes, %d children]\n", indent, n.Tag, n.Length, len(n.Children))
			} else {
				_, err = fmt.Fprintf(out, "%s%s (%d bytes)\n", indent, n.Tag, n.Length)
			}
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
