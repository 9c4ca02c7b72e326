package board

import (
	"reflect"
	"testing"
)

func TestMapKeyOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", Scalar{Value: 1})
	m.Set("a", Scalar{Value: 2})
	m.Set("c", Scalar{Value: 3})
	m.Set("a", Scalar{Value: 4}) // re-set keeps original position

	want := []string{"b", "a", "c"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	m.Delete("a")
	want = []string{"b", "c"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() after delete = %v, want %v", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewSeq(Scalar{Value: "x"})
	m := NewMap()
	m.Set("items", inner)

	clone := m.Clone().(*Map)
	cloneItems, _ := clone.Get("items")
	cloneItems.(*Seq).Append(Scalar{Value: "y"})

	if inner.Len() != 1 {
		t.Errorf("mutating the clone changed the original: len = %d", inner.Len())
	}
	if cloneItems.(*Seq).Len() != 2 {
		t.Errorf("clone seq len = %d, want 2", cloneItems.(*Seq).Len())
	}
}

func TestSeqInsertRemove(t *testing.T) {
	s := NewSeq(Scalar{Value: "a"}, Scalar{Value: "c"})
	s.Insert(1, Scalar{Value: "b"})
	if got := ScalarString(s.Items[1]); got != "b" {
		t.Errorf("Items[1] = %q, want b", got)
	}
	s.Insert(99, Scalar{Value: "d"}) // past the end appends
	if got := ScalarString(s.Items[3]); got != "d" {
		t.Errorf("Items[3] = %q, want d", got)
	}

	removed := s.Remove(0)
	if got := ScalarString(removed); got != "a" {
		t.Errorf("Remove(0) = %q, want a", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestAsCard(t *testing.T) {
	m := NewMap()
	m.Set(KeyID, Scalar{Value: "card:1"})
	if _, ok := AsCard(m); ok {
		t.Error("mapping without a title must not qualify as a card")
	}
	m.Set(KeyTitle, Scalar{Value: "Ar Tel"})
	c, ok := AsCard(m)
	if !ok {
		t.Fatal("mapping with id and title must qualify as a card")
	}
	if c.ID() != "card:1" || c.Title() != "Ar Tel" {
		t.Errorf("card view = (%q, %q)", c.ID(), c.Title())
	}
	if _, ok := AsCard(Scalar{Value: "card:1"}); ok {
		t.Error("scalar must not qualify as a card")
	}
}

func TestCardTokens(t *testing.T) {
	m := NewMap()
	m.Set(KeyID, Scalar{Value: "card:1"})
	m.Set(KeyTitle, Scalar{Value: "t"})
	c, _ := AsCard(m)

	if c.TokenCount("harm") != 0 {
		t.Error("missing token kind must read as zero")
	}
	c.SetToken("harm", 2)
	if c.TokenCount("harm") != 2 {
		t.Errorf("TokenCount = %d, want 2", c.TokenCount("harm"))
	}
	c.DeleteToken("harm")
	if _, ok := c.Tokens()["harm"]; ok {
		t.Error("deleted token kind must be absent")
	}
}

func TestCardAttachments(t *testing.T) {
	m := NewMap()
	m.Set(KeyID, Scalar{Value: "card:1"})
	m.Set(KeyTitle, Scalar{Value: "host"})
	c, _ := AsCard(m)

	c.AppendAttachment("card:2")
	c.AppendAttachment("card:3")
	c.AppendAttachment("card:2") // duplicates are legal in raw data

	if got := c.Attachments(); !reflect.DeepEqual(got, []string{"card:2", "card:3", "card:2"}) {
		t.Errorf("Attachments() = %v", got)
	}
	if !c.RemoveAttachment("card:2") {
		t.Error("RemoveAttachment reported nothing removed")
	}
	if got := c.Attachments(); !reflect.DeepEqual(got, []string{"card:3"}) {
		t.Errorf("RemoveAttachment must clear every listing, got %v", got)
	}
}

func TestNewCardID(t *testing.T) {
	a := NewCardID("card")
	b := NewCardID("card")
	if a == b {
		t.Error("ids must be unique")
	}
	if len(a) != len("card:")+8 {
		t.Errorf("unexpected id shape %q", a)
	}
}
