package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthborne/ranger-board-go/internal/board"
)

func record(fields map[string]any) *board.Map {
	m := board.NewMap()
	for _, k := range []string{"id", "slug", "title", "name", "card_type", "type", "traits", "presence", "harm_threshold", "progress_threshold", "energy_cost", "enters_play_with", "rules"} {
		if v, ok := fields[k]; ok {
			m.Set(k, toNode(v))
		}
	}
	return m
}

func toNode(v any) board.Node {
	switch t := v.(type) {
	case board.Node:
		return t
	case []any:
		s := board.NewSeq()
		for _, it := range t {
			s.Append(toNode(it))
		}
		return s
	case map[string]any:
		panic("use *board.Map for nested mappings")
	default:
		return board.Scalar{Value: v}
	}
}

func epw(kind string, count int) *board.Map {
	m := board.NewMap()
	m.Set("type", board.Scalar{Value: kind})
	m.Set("count", board.Scalar{Value: count})
	return m
}

func TestFindByTitle(t *testing.T) {
	cat := New([]*board.Map{
		record(map[string]any{"title": "Ar Tel, Angler"}),
		record(map[string]any{"name": "White Sky"}),
	})

	rec, ok := cat.FindByTitle("ar tel angler")
	require.True(t, ok)
	assert.Equal(t, "Ar Tel, Angler", recordTitle(rec))

	rec, ok = cat.FindByTitle("WhiteSky") // whitespace-insensitive retry
	require.True(t, ok)
	assert.Equal(t, "White Sky", recordTitle(rec))

	_, ok = cat.FindByTitle("Nobody Home")
	assert.False(t, ok)
}

func TestFromNodeSequenceAndMapping(t *testing.T) {
	seq := board.NewSeq(record(map[string]any{"title": "A"}), record(map[string]any{"title": "B"}))
	cat, err := FromNode(seq)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	m := board.NewMap()
	m.Set("a", record(map[string]any{"title": "A"}))
	cat, err = FromNode(m)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	_, err = FromNode(board.Scalar{Value: 1})
	assert.Error(t, err)
}

func TestBuildInstanceBasics(t *testing.T) {
	src := record(map[string]any{
		"slug":           "ar-tel-angler",
		"title":          "Ar Tel, Angler",
		"card_type":      "being",
		"traits":         []any{"Human", "Villager"},
		"presence":       1,
		"harm_threshold": 3,
	})
	inst := BuildInstance(src, "card", board.StateReady)

	card, ok := board.AsCard(inst)
	require.True(t, ok)
	assert.Equal(t, "ar-tel-angler", card.ID())
	assert.Equal(t, "Ar Tel, Angler", card.Title())
	assert.Equal(t, board.StateReady, card.State())

	typ, _ := inst.Get("type")
	assert.Equal(t, "being", board.ScalarString(typ))

	data, _ := inst.Get("data")
	dm := data.(*board.Map)
	ref, _ := dm.Get("card_ref_id")
	assert.Equal(t, "ar-tel-angler", board.ScalarString(ref))
	_, hasTraits := dm.Get("traits")
	assert.True(t, hasTraits)
	_, hasCost := dm.Get("energy_cost")
	assert.False(t, hasCost, "absent source fields are not copied")
}

func TestBuildInstanceDerivesIDFromTitle(t *testing.T) {
	src := record(map[string]any{"title": "White Sky"})
	inst := BuildInstance(src, "card", board.StateReady)
	card, _ := board.AsCard(inst)
	assert.Equal(t, "white sky", card.ID())
}

func TestBuildInstanceFallbackType(t *testing.T) {
	src := record(map[string]any{"title": "Mystery"})
	inst := BuildInstance(src, "feature", board.StateReady)
	typ, _ := inst.Get("type")
	assert.Equal(t, "feature", board.ScalarString(typ))
}

func TestSeedingSingleSpecSetsLiteralZero(t *testing.T) {
	src := record(map[string]any{
		"title":            "A Perfect Day",
		"enters_play_with": epw("cloud", 0),
	})
	inst := BuildInstance(src, "weather", board.StateReady)
	card, _ := board.AsCard(inst)

	tokens := card.Tokens()
	count, present := tokens["cloud"]
	require.True(t, present, "seeding sets the literal value, zero included")
	assert.Equal(t, 0, count)
}

func TestSeedingSingleSpecCount(t *testing.T) {
	src := record(map[string]any{
		"title":            "A Perfect Day",
		"enters_play_with": epw("cloud", 3),
	})
	inst := BuildInstance(src, "weather", board.StateReady)
	card, _ := board.AsCard(inst)
	assert.Equal(t, 3, card.TokenCount("cloud"))
}

func TestSeedingListReplacesTokenMapping(t *testing.T) {
	src := record(map[string]any{
		"title": "Trail Marker",
		"enters_play_with": board.NewSeq(
			epw("progress", 2),
			epw("glint", 1),
		),
	})
	inst := BuildInstance(src, "feature", board.StateReady)
	card, _ := board.AsCard(inst)

	assert.Equal(t, map[string]int{"progress": 2, "glint": 1}, card.Tokens(),
		"a list spec replaces the whole token mapping")
}

func TestAddFromSource(t *testing.T) {
	cat := New([]*board.Map{record(map[string]any{
		"title":            "Ar Tel, Angler",
		"enters_play_with": epw("harm", 0),
	})})
	doc := board.NewDocument()

	next, id, err := AddFromSource(doc, cat, "ar tel, angler", board.ParsePath(board.ZoneWithinReach), "card", board.StateReady)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	p, card, ok := board.FindCardByID(next, id)
	require.True(t, ok)
	assert.Equal(t, "within_reach.0", p.String())
	assert.Equal(t, "Ar Tel, Angler", card.Title())

	// copy-on-write: the input document gained nothing
	_, _, ok = board.FindCardByID(doc, id)
	assert.False(t, ok)
}

func TestAddFromSourceNotInCatalog(t *testing.T) {
	cat := New(nil)
	_, _, err := AddFromSource(board.NewDocument(), cat, "Ghost", board.ParsePath(board.ZoneWithinReach), "card", board.StateReady)
	assert.ErrorIs(t, err, board.ErrNotInCatalog)
}
