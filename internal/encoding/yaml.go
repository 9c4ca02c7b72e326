package encoding

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/earthborne/ranger-board-go/internal/board"
)

// MarshalYAML renders the human-readable block form with two-space
// indentation and mapping keys in declaration order.
func MarshalYAML(doc board.Node) ([]byte, error) {
	node, err := toYAMLNode(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes the block form into a node tree, preserving
// mapping key order.
func UnmarshalYAML(data []byte) (board.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return board.Scalar{Value: nil}, nil
		}
		return fromYAMLNode(root.Content[0])
	}
	return fromYAMLNode(&root)
}

func toYAMLNode(n board.Node) (*yaml.Node, error) {
	switch v := n.(type) {
	case board.Scalar:
		if v.Value == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		}
		node := &yaml.Node{}
		if err := node.Encode(v.Value); err != nil {
			return nil, err
		}
		return node, nil
	case *board.Seq:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, it := range v.Items {
			child, err := toYAMLNode(it)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case *board.Map:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range v.Keys() {
			val, _ := v.Get(k)
			child, err := toYAMLNode(val)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child,
			)
		}
		return node, nil
	}
	return nil, fmt.Errorf("unsupported node %T", n)
}

func fromYAMLNode(n *yaml.Node) (board.Node, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := board.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(n.Content[i].Value, val)
		}
		return m, nil
	case yaml.SequenceNode:
		s := board.NewSeq()
		for _, c := range n.Content {
			val, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			s.Append(val)
		}
		return s, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return board.Scalar{Value: v}, nil
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	}
	return nil, fmt.Errorf("unsupported yaml node kind %v", n.Kind)
}
