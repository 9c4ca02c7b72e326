// Package encoding round-trips board-state documents through the two
// interchangeable snapshot forms: compact JSON and human-readable YAML.
// Both reproduce an equivalent in-memory tree with key order preserved.
package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/earthborne/ranger-board-go/internal/board"
)

// MarshalJSON renders the compact interchange form with two-space
// indentation and mapping keys in declaration order.
func MarshalJSON(doc board.Node) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalJSON decodes the compact form into a node tree, preserving
// mapping key order.
func UnmarshalJSON(data []byte) (board.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode json: trailing data after document")
	}
	return n, nil
}

// UnmarshalJSONTolerant decodes the compact form after forgiving two
// common file defects: a leading byte-order marker, and trailing separator
// characters immediately before a closing bracket or brace.
func UnmarshalJSONTolerant(data []byte) (board.Node, error) {
	return UnmarshalJSON(stripTrailingCommas(stripBOM(data)))
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}

// stripTrailingCommas removes commas whose next non-whitespace byte closes
// a container. The scan is string-literal aware so commas inside quoted
// values survive.
func stripTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		b := data[i]
		if inString {
			out = append(out, b)
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		if b == '"' {
			inString = true
			out = append(out, b)
			continue
		}
		if b == ',' {
			j := i + 1
			for j < len(data) && isJSONSpace(data[j]) {
				j++
			}
			if j < len(data) && (data[j] == ']' || data[j] == '}') {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func decodeValue(dec *json.Decoder) (board.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := board.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			s := board.NewSeq()
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				s.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return board.Scalar{Value: t}, nil
	case bool:
		return board.Scalar{Value: t}, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return board.Scalar{Value: int(i)}, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return board.Scalar{Value: f}, nil
	case nil:
		return board.Scalar{Value: nil}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
