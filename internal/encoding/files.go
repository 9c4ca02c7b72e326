package encoding

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/earthborne/ranger-board-go/internal/board"
)

// Load reads a snapshot or catalog file, choosing the decoder by file
// extension: .yaml/.yml use the block form, anything else the tolerant
// compact form. The path is an opaque string; no interpretation happens
// beyond handing it to the OS.
func Load(path string) (board.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isYAMLPath(path) {
		return UnmarshalYAML(data)
	}
	return UnmarshalJSONTolerant(data)
}

// LoadDocument is Load restricted to files whose root is a mapping.
func LoadDocument(path string) (*board.Map, error) {
	n, err := Load(path)
	if err != nil {
		return nil, err
	}
	doc, ok := n.(*board.Map)
	if !ok {
		return nil, fmt.Errorf("%s: document root is not a mapping", path)
	}
	return doc, nil
}

// Save writes a snapshot, choosing the encoder by file extension.
func Save(path string, doc board.Node) error {
	var (
		data []byte
		err  error
	)
	if isYAMLPath(path) {
		data, err = MarshalYAML(doc)
	} else {
		data, err = MarshalJSON(doc)
		if err == nil {
			data = append(data, '\n')
		}
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
