package board

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Well-known card field keys.
const (
	KeyID          = "id"
	KeyTitle       = "title"
	KeyState       = "state"
	KeyTokens      = "tokens"
	KeyAttachments = "attachments"
	KeyPersistent  = "persistent"
	KeyFriendly    = "friendly"
)

// Recognized card state labels. Purely descriptive; no transition graph
// is enforced between them.
const (
	StateReady     = "ready"
	StateExhausted = "exhausted"
	StateCleared   = "cleared"
	StateOutOfPlay = "out_of_play"
	StateInHand    = "in_hand"
	StateDiscarded = "discarded"
)

var knownStates = map[string]bool{
	StateReady:     true,
	StateExhausted: true,
	StateCleared:   true,
	StateOutOfPlay: true,
	StateInHand:    true,
	StateDiscarded: true,
}

// ValidState reports whether s is a recognized card state label.
func ValidState(s string) bool { return knownStates[s] }

// KnownStates returns the recognized state labels in a stable order.
func KnownStates() []string {
	return []string{StateReady, StateExhausted, StateCleared, StateOutOfPlay, StateInHand, StateDiscarded}
}

// NewCardID returns a fresh process-unique card identifier with the given
// prefix, e.g. "card:1a2b3c4d".
func NewCardID(prefix string) string {
	u := uuid.New()
	return prefix + ":" + hex.EncodeToString(u[:4])
}

// Card is a typed view over a *Map node that qualifies as a card: a mapping
// carrying both an id and a title. All other fields are optional. Obtaining
// a Card through AsCard is the only schema check the engine performs.
type Card struct {
	m *Map
}

// AsCard reports whether n qualifies as a card and, if so, returns the
// typed view over it. The view aliases the underlying mapping; mutations
// through it are visible in the tree.
func AsCard(n Node) (Card, bool) {
	m, ok := n.(*Map)
	if !ok {
		return Card{}, false
	}
	if _, ok := m.Get(KeyID); !ok {
		return Card{}, false
	}
	if _, ok := m.Get(KeyTitle); !ok {
		return Card{}, false
	}
	return Card{m: m}, true
}

// Map returns the underlying mapping node.
func (c Card) Map() *Map { return c.m }

// ID returns the card's stable identifier.
func (c Card) ID() string {
	n, _ := c.m.Get(KeyID)
	return ScalarString(n)
}

// Title returns the card's display name.
func (c Card) Title() string {
	n, _ := c.m.Get(KeyTitle)
	return ScalarString(n)
}

// State returns the card's state label, or "" when unset.
func (c Card) State() string {
	n, ok := c.m.Get(KeyState)
	if !ok {
		return ""
	}
	return ScalarString(n)
}

// SetState rewrites the card's state label.
func (c Card) SetState(s string) {
	c.m.Set(KeyState, Scalar{Value: s})
}

// Persistent reports whether the card is flagged to survive travel.
func (c Card) Persistent() bool {
	n, ok := c.m.Get(KeyPersistent)
	if !ok {
		return false
	}
	s, ok := n.(Scalar)
	if !ok {
		return false
	}
	v, _ := s.Value.(bool)
	return v
}

// SetFlag sets a boolean field such as "persistent" or "friendly".
func (c Card) SetFlag(key string, v bool) {
	c.m.Set(key, Scalar{Value: v})
}

// Tokens returns the card's token counts as a plain map copy. A missing
// tokens mapping yields an empty map.
func (c Card) Tokens() map[string]int {
	out := make(map[string]int)
	tm, ok := c.tokenMap()
	if !ok {
		return out
	}
	for _, k := range tm.Keys() {
		n, _ := tm.Get(k)
		if v, ok := ScalarInt(n); ok {
			out[k] = v
		}
	}
	return out
}

// TokenKinds returns the card's token kinds in declaration order.
func (c Card) TokenKinds() []string {
	tm, ok := c.tokenMap()
	if !ok {
		return nil
	}
	return tm.Keys()
}

// TokenCount returns the count for one token kind; absence means zero.
func (c Card) TokenCount(kind string) int {
	tm, ok := c.tokenMap()
	if !ok {
		return 0
	}
	n, ok := tm.Get(kind)
	if !ok {
		return 0
	}
	v, _ := ScalarInt(n)
	return v
}

// SetToken writes one token count, creating the tokens mapping on first
// write. It does not apply any floor or zero cleanup; that is the caller's
// policy decision.
func (c Card) SetToken(kind string, count int) {
	c.ensureTokenMap().Set(kind, Scalar{Value: count})
}

// DeleteToken removes one token kind entirely.
func (c Card) DeleteToken(kind string) {
	if tm, ok := c.tokenMap(); ok {
		tm.Delete(kind)
	}
}

// ClearTokens replaces the token mapping with an empty one.
func (c Card) ClearTokens() {
	c.m.Set(KeyTokens, NewMap())
}

func (c Card) tokenMap() (*Map, bool) {
	n, ok := c.m.Get(KeyTokens)
	if !ok {
		return nil, false
	}
	tm, ok := n.(*Map)
	return tm, ok
}

func (c Card) ensureTokenMap() *Map {
	if tm, ok := c.tokenMap(); ok {
		return tm
	}
	tm := NewMap()
	c.m.Set(KeyTokens, tm)
	return tm
}

// Attachments returns the ids of the child cards this card hosts.
func (c Card) Attachments() []string {
	n, ok := c.m.Get(KeyAttachments)
	if !ok {
		return nil
	}
	seq, ok := n.(*Seq)
	if !ok {
		return nil
	}
	out := make([]string, 0, seq.Len())
	for _, it := range seq.Items {
		if id := ScalarString(it); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// AppendAttachment records a child card id on this card.
func (c Card) AppendAttachment(id string) {
	n, ok := c.m.Get(KeyAttachments)
	seq, isSeq := n.(*Seq)
	if !ok || !isSeq {
		seq = NewSeq()
		c.m.Set(KeyAttachments, seq)
	}
	seq.Append(Scalar{Value: id})
}

// RemoveAttachment deletes every listing of id from this card's
// attachments. It reports whether anything was removed.
func (c Card) RemoveAttachment(id string) bool {
	n, ok := c.m.Get(KeyAttachments)
	if !ok {
		return false
	}
	seq, ok := n.(*Seq)
	if !ok {
		return false
	}
	removed := false
	kept := seq.Items[:0]
	for _, it := range seq.Items {
		if ScalarString(it) == id {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	seq.Items = kept
	return removed
}

// Materialize turns caller-supplied card-like data into an addressable
// card, assigning a fresh id when the mapping lacks one. The mapping is
// modified in place and returned.
func Materialize(m *Map, idPrefix string) *Map {
	if n, ok := m.Get(KeyID); !ok || ScalarString(n) == "" {
		m.Set(KeyID, Scalar{Value: NewCardID(idPrefix)})
	}
	return m
}
