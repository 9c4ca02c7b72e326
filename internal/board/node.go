// Package board holds the in-memory board-state document: a dynamically
// shaped tree of mappings, sequences, and scalar leaves, with cards as
// addressable mapping nodes inside it.
package board

import (
	"bytes"
	"encoding/json"
)

// Node is one value in the document tree. Exactly three shapes exist:
// Scalar leaves, ordered sequences (*Seq), and order-preserving mappings
// (*Map). A Card is not a fourth shape; it is a typed view over a *Map
// that carries both an id and a title (see AsCard).
type Node interface {
	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Node

	node()
}

// Scalar is a leaf value: string, int, int64, float64, bool, or nil.
type Scalar struct {
	Value any
}

func (s Scalar) node() {}

// Clone returns the scalar itself; leaf values are immutable.
func (s Scalar) Clone() Node { return s }

// MarshalJSON encodes the underlying value.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

// Seq is an ordered sequence of nodes.
type Seq struct {
	Items []Node
}

// NewSeq builds a sequence from the given items.
func NewSeq(items ...Node) *Seq {
	return &Seq{Items: items}
}

func (s *Seq) node() {}

// Clone returns a deep copy of the sequence.
func (s *Seq) Clone() Node {
	out := &Seq{}
	if s.Items != nil {
		out.Items = make([]Node, len(s.Items))
		for i, it := range s.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// Len returns the number of items.
func (s *Seq) Len() int { return len(s.Items) }

// Append adds a node at the end.
func (s *Seq) Append(n Node) {
	s.Items = append(s.Items, n)
}

// Insert places a node at index i, shifting later items right.
// Indexes past the end append.
func (s *Seq) Insert(i int, n Node) {
	if i < 0 || i >= len(s.Items) {
		s.Append(n)
		return
	}
	s.Items = append(s.Items, nil)
	copy(s.Items[i+1:], s.Items[i:])
	s.Items[i] = n
}

// Remove deletes and returns the item at index i.
func (s *Seq) Remove(i int) Node {
	n := s.Items[i]
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return n
}

// MarshalJSON encodes the sequence as a JSON array.
func (s *Seq) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range s.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(it)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Map is a mapping that remembers key declaration order, so snapshots
// render with stable, human-chosen key order.
type Map struct {
	keys []string
	vals map[string]Node
}

// NewMap returns an empty ordered mapping.
func NewMap() *Map {
	return &Map{vals: make(map[string]Node)}
}

func (m *Map) node() {}

// Clone returns a deep copy of the mapping.
func (m *Map) Clone() Node {
	out := NewMap()
	for _, k := range m.keys {
		out.Set(k, m.vals[k].Clone())
	}
	return out
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Node, bool) {
	n, ok := m.vals[key]
	return n, ok
}

// Set stores a value under key, keeping the key's original position if it
// already exists and appending it otherwise.
func (m *Map) Set(key string, n Node) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = n
}

// Delete removes key and its value.
func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in declaration order. The returned slice is a copy.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// MarshalJSON encodes the mapping as a JSON object in declaration order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ScalarString returns the string value of a Scalar node, or "" when the
// node is not a string scalar.
func ScalarString(n Node) string {
	s, ok := n.(Scalar)
	if !ok {
		return ""
	}
	v, _ := s.Value.(string)
	return v
}

// ScalarInt returns the integer value of a Scalar node, accepting the
// numeric types the decoders produce.
func ScalarInt(n Node) (int, bool) {
	s, ok := n.(Scalar)
	if !ok {
		return 0, false
	}
	switch v := s.Value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
