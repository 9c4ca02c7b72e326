package board

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind says whether a path segment addresses a mapping key or a
// sequence index. Carrying the kind on the segment resolves container
// shape once at call time instead of guessing node-by-node.
type SegmentKind int

const (
	// SegKey addresses an entry of a mapping.
	SegKey SegmentKind = iota
	// SegIndex addresses an item of a sequence.
	SegIndex
)

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// Key builds a mapping-key segment.
func Key(k string) Segment { return Segment{Kind: SegKey, Key: k} }

// Index builds a sequence-index segment.
func Index(i int) Segment { return Segment{Kind: SegIndex, Index: i} }

func (s Segment) String() string {
	if s.Kind == SegIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path is an address from the document root to a node: an ordered list of
// mapping keys and sequence indexes.
type Path []Segment

// ParsePath turns a dotted address like "ranger.gear" or "within_reach.2"
// into a Path. Segments consisting only of digits are read as sequence
// indexes.
func ParsePath(dotted string) Path {
	if dotted == "" {
		return nil
	}
	parts := strings.Split(dotted, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil && part != "" {
			p = append(p, Index(i))
			continue
		}
		p = append(p, Key(part))
	}
	return p
}

// String renders the dotted form of the path.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Child returns a new path extended by one segment. The receiver is not
// modified and shares no backing storage with the result.
func (p Path) Child(s Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = s
	return out
}

// HasPrefix reports whether the dotted form of the path starts with the
// given dotted zone prefix.
func (p Path) HasPrefix(zone string) bool {
	return strings.HasPrefix(p.String(), zone)
}

// step descends one segment from parent, checking container shape.
func step(parent Node, s Segment) (Node, error) {
	switch s.Kind {
	case SegKey:
		m, ok := parent.(*Map)
		if !ok {
			return nil, fmt.Errorf("segment %q: %w", s.Key, ErrBadDestination)
		}
		n, ok := m.Get(s.Key)
		if !ok {
			return nil, fmt.Errorf("segment %q: missing key", s.Key)
		}
		return n, nil
	default:
		seq, ok := parent.(*Seq)
		if !ok {
			return nil, fmt.Errorf("segment %d: %w", s.Index, ErrBadDestination)
		}
		if s.Index < 0 || s.Index >= seq.Len() {
			return nil, fmt.Errorf("segment %d: index out of range", s.Index)
		}
		return seq.Items[s.Index], nil
	}
}

// Resolve walks the path from root and returns the addressed node.
func Resolve(root Node, p Path) (Node, error) {
	n := root
	for _, s := range p {
		var err error
		n, err = step(n, s)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
	}
	return n, nil
}

// Parent returns the container holding the node addressed by p, plus the
// final segment addressing it inside that container.
func Parent(root Node, p Path) (Node, Segment, error) {
	if len(p) == 0 {
		return nil, Segment{}, fmt.Errorf("empty path")
	}
	parent, err := Resolve(root, p[:len(p)-1])
	if err != nil {
		return nil, Segment{}, err
	}
	return parent, p[len(p)-1], nil
}

// RemoveAt detaches and returns the node addressed by p from its container.
func RemoveAt(root Node, p Path) (Node, error) {
	parent, last, err := Parent(root, p)
	if err != nil {
		return nil, err
	}
	switch last.Kind {
	case SegKey:
		m, ok := parent.(*Map)
		if !ok {
			return nil, fmt.Errorf("remove %s: %w", p, ErrBadDestination)
		}
		n, ok := m.Get(last.Key)
		if !ok {
			return nil, fmt.Errorf("remove %s: missing key", p)
		}
		m.Delete(last.Key)
		return n, nil
	default:
		seq, ok := parent.(*Seq)
		if !ok {
			return nil, fmt.Errorf("remove %s: %w", p, ErrBadDestination)
		}
		if last.Index < 0 || last.Index >= seq.Len() {
			return nil, fmt.Errorf("remove %s: index out of range", p)
		}
		return seq.Remove(last.Index), nil
	}
}

// EnsureZone navigates a destination zone path, creating missing mapping
// entries as empty sequences on the way, and returns the destination
// sequence. It fails with ErrBadDestination when the path lands on, or
// tries to key into, anything that is not the right container shape.
func EnsureZone(root Node, p Path) (*Seq, error) {
	n := root
	for _, s := range p {
		switch s.Kind {
		case SegKey:
			m, ok := n.(*Map)
			if !ok {
				return nil, fmt.Errorf("zone %s at %q: %w", p, s.Key, ErrBadDestination)
			}
			child, ok := m.Get(s.Key)
			if !ok || isNilScalar(child) {
				child = NewSeq()
				m.Set(s.Key, child)
			}
			n = child
		default:
			seq, ok := n.(*Seq)
			if !ok {
				return nil, fmt.Errorf("zone %s at %d: %w", p, s.Index, ErrBadDestination)
			}
			if s.Index < 0 || s.Index >= seq.Len() {
				return nil, fmt.Errorf("zone %s: index %d out of range", p, s.Index)
			}
			n = seq.Items[s.Index]
		}
	}
	seq, ok := n.(*Seq)
	if !ok {
		return nil, fmt.Errorf("zone %s: %w", p, ErrBadDestination)
	}
	return seq, nil
}

func isNilScalar(n Node) bool {
	s, ok := n.(Scalar)
	return ok && s.Value == nil
}
