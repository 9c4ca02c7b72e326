package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earthborne/ranger-board-go/internal/board"
)

func TestValidateCleanDocument(t *testing.T) {
	ok, violations := Validate(board.NewDocument())
	assert.True(t, ok)
	assert.Empty(t, violations)
}

func TestValidateCompleteness(t *testing.T) {
	doc := board.NewDocument()

	// host within reach, child in gear: a zone mismatch
	reach, _ := board.EnsureZone(doc, board.ParsePath(board.ZoneWithinReach))
	host := newCard("card:host", "Ar Tel")
	h, _ := board.AsCard(host)
	h.AppendAttachment("card:rod")
	reach.Append(host)
	gear, _ := board.EnsureZone(doc, board.ParsePath(board.ZoneRangerGear))
	gear.Append(newCard("card:rod", "Fishing Rod"))

	// one negative energy counter
	board.EnergyMap(doc).Set(board.AspectFocus, board.Scalar{Value: -1})

	ok, violations := Validate(doc)
	assert.False(t, ok)
	require.Len(t, violations, 2, "all findings come back together")
	kinds := []string{violations[0].Kind, violations[1].Kind}
	assert.Contains(t, kinds, ViolationAttachmentZone)
	assert.Contains(t, kinds, ViolationNegativeEnergy)
}

func TestValidateSkipsUnresolvableChildren(t *testing.T) {
	doc := board.NewDocument()
	reach, _ := board.EnsureZone(doc, board.ParsePath(board.ZoneWithinReach))
	host := newCard("card:host", "Ar Tel")
	h, _ := board.AsCard(host)
	h.AppendAttachment("card:unknown")
	reach.Append(host)

	ok, violations := Validate(doc)
	assert.True(t, ok, "unknown child ids are not an error")
	assert.Empty(t, violations)
}

func TestValidateCoLocatedAttachment(t *testing.T) {
	doc := board.NewDocument()
	reach, _ := board.EnsureZone(doc, board.ParsePath(board.ZoneWithinReach))
	host := newCard("card:host", "Ar Tel")
	h, _ := board.AsCard(host)
	h.AppendAttachment("card:rod")
	reach.Append(host)
	reach.Append(newCard("card:rod", "Fishing Rod"))

	ok, violations := Validate(doc)
	assert.True(t, ok)
	assert.Empty(t, violations)
}

func TestValidateNegativeTokens(t *testing.T) {
	doc := board.NewDocument()
	way, _ := board.EnsureZone(doc, board.ParsePath(board.ZoneAlongTheWay))
	wounded := newCard("card:1", "Sun Dog")
	c, _ := board.AsCard(wounded)
	c.SetToken("harm", -3)
	c.SetToken("progress", 1)
	way.Append(wounded)

	ok, violations := Validate(doc)
	assert.False(t, ok)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationNegativeToken, violations[0].Kind)
	assert.Contains(t, violations[0].Message, "harm")
}

func TestValidateIgnoresCardsOutsidePlayerZones(t *testing.T) {
	doc := board.NewDocument()
	// a negative count in the discard pile is out of the validator's scope
	pile, _ := board.EnsureZone(doc, board.ParsePath(board.ZoneRangerDiscard))
	dead := newCard("card:1", "Spent Gear")
	c, _ := board.AsCard(dead)
	c.SetToken("charge", -1)
	pile.Append(dead)

	ok, violations := Validate(doc)
	assert.True(t, ok)
	assert.Empty(t, violations)
}
