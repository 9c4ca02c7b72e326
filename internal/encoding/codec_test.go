package encoding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthborne/ranger-board-go/internal/board"
)

func TestJSONRoundTripPreservesKeyOrder(t *testing.T) {
	doc := board.NewDocument()
	data, err := MarshalJSON(doc)
	require.NoError(t, err)

	back, err := UnmarshalJSON(data)
	require.NoError(t, err)
	m, ok := back.(*board.Map)
	require.True(t, ok)
	assert.Equal(t, doc.Keys(), m.Keys())

	again, err := MarshalJSON(back)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again), "round trip is lossless")
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := board.NewDocument()
	data, err := MarshalYAML(doc)
	require.NoError(t, err)

	back, err := UnmarshalYAML(data)
	require.NoError(t, err)
	m, ok := back.(*board.Map)
	require.True(t, ok)
	assert.Equal(t, doc.Keys(), m.Keys())
}

func TestCrossFormEquivalence(t *testing.T) {
	doc := board.NewDocument()
	yamlData, err := MarshalYAML(doc)
	require.NoError(t, err)
	fromYAML, err := UnmarshalYAML(yamlData)
	require.NoError(t, err)

	jsonFromYAML, err := MarshalJSON(fromYAML)
	require.NoError(t, err)
	jsonDirect, err := MarshalJSON(doc)
	require.NoError(t, err)
	assert.Equal(t, string(jsonDirect), string(jsonFromYAML),
		"both encodings reproduce an equivalent tree")
}

func TestJSONScalarTypes(t *testing.T) {
	n, err := UnmarshalJSON([]byte(`{"s":"x","i":3,"f":1.5,"b":true,"z":null}`))
	require.NoError(t, err)
	m := n.(*board.Map)

	s, _ := m.Get("s")
	assert.Equal(t, "x", s.(board.Scalar).Value)
	i, _ := m.Get("i")
	assert.Equal(t, 3, i.(board.Scalar).Value)
	f, _ := m.Get("f")
	assert.Equal(t, 1.5, f.(board.Scalar).Value)
	b, _ := m.Get("b")
	assert.Equal(t, true, b.(board.Scalar).Value)
	z, _ := m.Get("z")
	assert.Nil(t, z.(board.Scalar).Value)
}

func TestTolerantDecodeBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"a": 1}`)...)
	_, err := UnmarshalJSON(data)
	assert.Error(t, err, "the strict decoder rejects a BOM")

	n, err := UnmarshalJSONTolerant(data)
	require.NoError(t, err)
	a, _ := n.(*board.Map).Get("a")
	v, _ := board.ScalarInt(a)
	assert.Equal(t, 1, v)
}

func TestTolerantDecodeTrailingCommas(t *testing.T) {
	data := []byte(`{"cards": [{"id": "card:1", "title": "Ar Tel",}, ], }`)
	_, err := UnmarshalJSON(data)
	assert.Error(t, err)

	n, err := UnmarshalJSONTolerant(data)
	require.NoError(t, err)
	cards, _ := n.(*board.Map).Get("cards")
	assert.Equal(t, 1, cards.(*board.Seq).Len())
}

func TestTolerantDecodeKeepsCommasInStrings(t *testing.T) {
	data := []byte(`{"title": "Ar Tel, Angler" }`)
	n, err := UnmarshalJSONTolerant(data)
	require.NoError(t, err)
	title, _ := n.(*board.Map).Get("title")
	assert.Equal(t, "Ar Tel, Angler", board.ScalarString(title))
}

func TestSaveAndLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	doc := board.NewDocument()

	for _, name := range []string{"state.json", "state.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, doc))

		back, err := LoadDocument(path)
		require.NoError(t, err, name)
		assert.Equal(t, doc.Keys(), back.Keys(), name)
	}
}

func TestLoadDocumentRejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1, 2]`), 0o644))
	_, err := LoadDocument(path)
	assert.Error(t, err)
}
