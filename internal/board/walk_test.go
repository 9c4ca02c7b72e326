package board

import (
	"reflect"
	"testing"
)

func walkPaths(root Node) []string {
	var out []string
	for p := range Walk(root) {
		out = append(out, p.String())
	}
	return out
}

func TestWalkPreOrder(t *testing.T) {
	inner := NewMap()
	inner.Set("x", Scalar{Value: 1})
	doc := NewMap()
	doc.Set("a", NewSeq(Scalar{Value: "s"}, inner))
	doc.Set("b", Scalar{Value: 2})

	want := []string{"", "a", "a.0", "a.1", "a.1.x", "b"}
	if got := walkPaths(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk order = %v, want %v", got, want)
	}
}

func TestWalkRestartable(t *testing.T) {
	doc := NewDocument()
	first := walkPaths(doc)
	second := walkPaths(doc)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated traversal must replay identically")
	}
}

func TestWalkEarlyStop(t *testing.T) {
	doc := NewDocument()
	count := 0
	for range Walk(doc) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("visited %d nodes after break", count)
	}
}

func TestFindCardByID(t *testing.T) {
	doc := NewDocument()
	zone, _ := EnsureZone(doc, ParsePath(ZoneWithinReach))
	m := NewMap()
	m.Set(KeyID, Scalar{Value: "card:ab12"})
	m.Set(KeyTitle, Scalar{Value: "Ar Tel"})
	zone.Append(m)

	p, c, ok := FindCardByID(doc, "card:ab12")
	if !ok {
		t.Fatal("card not found")
	}
	if p.String() != "within_reach.0" {
		t.Errorf("path = %s", p)
	}
	if c.Title() != "Ar Tel" {
		t.Errorf("title = %q", c.Title())
	}

	if _, _, ok := FindCardByID(doc, "card:missing"); ok {
		t.Error("unexpected match for unknown id")
	}
}
