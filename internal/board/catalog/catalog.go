// Package catalog reads an external card-definition catalog and
// materializes new card instances from its records. The catalog is
// read-only; the engine never writes to it.
package catalog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/earthborne/ranger-board-go/internal/board"
)

// Catalog is a read-only collection of card-definition records, each a
// mapping exposing a title or name plus optional id/slug and rule fields.
type Catalog struct {
	records []*board.Map
}

// New builds a catalog over the given records.
func New(records []*board.Map) *Catalog {
	return &Catalog{records: records}
}

// FromNode builds a catalog from a decoded catalog document: either a
// sequence of records or a mapping whose values are records.
func FromNode(n board.Node) (*Catalog, error) {
	var records []*board.Map
	switch v := n.(type) {
	case *board.Seq:
		for i, it := range v.Items {
			rec, ok := it.(*board.Map)
			if !ok {
				return nil, fmt.Errorf("catalog entry %d is not a mapping", i)
			}
			records = append(records, rec)
		}
	case *board.Map:
		for _, k := range v.Keys() {
			it, _ := v.Get(k)
			rec, ok := it.(*board.Map)
			if !ok {
				return nil, fmt.Errorf("catalog entry %q is not a mapping", k)
			}
			records = append(records, rec)
		}
	default:
		return nil, fmt.Errorf("catalog must be a sequence or mapping of records")
	}
	return &Catalog{records: records}, nil
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// FindByTitle looks a record up by normalized title equality, retrying
// with whitespace stripped entirely when nothing matches.
func (c *Catalog) FindByTitle(title string) (*board.Map, bool) {
	target := norm(title)
	for _, rec := range c.records {
		if norm(recordTitle(rec)) == target {
			return rec, true
		}
	}
	squashed := strings.ReplaceAll(target, " ", "")
	for _, rec := range c.records {
		if strings.ReplaceAll(norm(recordTitle(rec)), " ", "") == squashed {
			return rec, true
		}
	}
	return nil, false
}

// norm lowercases and keeps only alphanumerics and spaces.
func norm(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func recordTitle(rec *board.Map) string {
	for _, key := range []string{"title", "name"} {
		if n, ok := rec.Get(key); ok {
			if t := board.ScalarString(n); t != "" {
				return t
			}
		}
	}
	return ""
}

func recordString(rec *board.Map, keys ...string) string {
	for _, key := range keys {
		if n, ok := rec.Get(key); ok {
			if s := board.ScalarString(n); s != "" {
				return s
			}
		}
	}
	return ""
}

// Descriptive fields copied verbatim from a source record when present
// and non-empty.
var instanceFields = []string{
	"traits",
	"presence",
	"harm_threshold",
	"progress_threshold",
	"approach_icons",
	"aspect_requirement",
	"energy_cost",
}

// BuildInstance materializes a new card node from a source record. The id
// comes from the record's own id or slug when present, else is derived
// from the normalized title; a blank title falls back to a generated id so
// the instance is always addressable. Initial tokens are seeded from the
// record's enters_play_with rule.
func BuildInstance(src *board.Map, fallbackType, initialState string) *board.Map {
	refID := recordString(src, "id", "slug")
	id := refID
	if id == "" {
		id = norm(recordTitle(src))
	}
	if id == "" {
		id = board.NewCardID("card")
	}
	title := recordTitle(src)
	if title == "" {
		title = "(untitled)"
	}
	cardType := recordString(src, "card_type", "type")
	if cardType == "" {
		cardType = fallbackType
	}

	inst := board.NewMap()
	inst.Set(board.KeyID, board.Scalar{Value: id})
	inst.Set(board.KeyTitle, board.Scalar{Value: title})
	inst.Set("type", board.Scalar{Value: cardType})
	inst.Set(board.KeyState, board.Scalar{Value: initialState})
	if rules, ok := src.Get("rules"); ok {
		inst.Set("rules", rules.Clone())
	} else {
		inst.Set("rules", board.NewSeq())
	}
	inst.Set(board.KeyTokens, board.NewMap())

	data := board.NewMap()
	data.Set("card_ref_id", board.Scalar{Value: refID})
	for _, key := range instanceFields {
		n, ok := src.Get(key)
		if !ok || emptyValue(n) {
			continue
		}
		data.Set(key, n.Clone())
	}
	inst.Set("data", data)

	seedEntersPlayWith(inst, src)
	return inst
}

func emptyValue(n board.Node) bool {
	switch v := n.(type) {
	case board.Scalar:
		return v.Value == nil
	case *board.Seq:
		return v.Len() == 0
	case *board.Map:
		return v.Len() == 0
	}
	return false
}

// seedEntersPlayWith applies the record's enters-play-with rule to the
// instance's tokens. A single specification sets the literal count, zero
// included; a list replaces the whole token mapping with exactly the
// listed pairs. No zero cleanup happens here; that rule belongs to token
// mutations, not initial seeding.
func seedEntersPlayWith(inst, src *board.Map) {
	card, ok := board.AsCard(inst)
	if !ok {
		return
	}
	n, ok := src.Get("enters_play_with")
	if !ok {
		return
	}
	switch spec := n.(type) {
	case *board.Map:
		if kind, count, ok := tokenSpec(spec); ok {
			card.SetToken(kind, count)
		}
	case *board.Seq:
		card.ClearTokens()
		for _, it := range spec.Items {
			entry, ok := it.(*board.Map)
			if !ok {
				continue
			}
			if kind, count, ok := tokenSpec(entry); ok {
				card.SetToken(kind, count)
			}
		}
	}
}

func tokenSpec(spec *board.Map) (string, int, bool) {
	kind := strings.ToLower(strings.TrimSpace(recordString(spec, "type", "token", "name")))
	if kind == "" {
		return "", 0, false
	}
	count := 0
	for _, key := range []string{"count", "amount"} {
		if n, ok := spec.Get(key); ok {
			if v, ok := board.ScalarInt(n); ok {
				count = v
				break
			}
		}
	}
	return kind, count, true
}

// AddFromSource looks title up in the catalog, builds an instance, and
// appends it to the destination zone of a new snapshot, creating missing
// path segments as needed. It returns the new snapshot and the instance id.
func AddFromSource(doc *board.Map, c *Catalog, title string, dest board.Path, fallbackType, initialState string) (*board.Map, string, error) {
	src, ok := c.FindByTitle(title)
	if !ok {
		return nil, "", fmt.Errorf("%q: %w", title, board.ErrNotInCatalog)
	}
	inst := BuildInstance(src, fallbackType, initialState)
	next := doc.Clone().(*board.Map)
	zone, err := board.EnsureZone(next, dest)
	if err != nil {
		return nil, "", err
	}
	zone.Append(inst)
	idNode, _ := inst.Get(board.KeyID)
	return next, board.ScalarString(idNode), nil
}
