package ops

import (
	"fmt"

	"github.com/earthborne/ranger-board-go/internal/board"
)

// Violation kinds reported by Validate.
const (
	ViolationAttachmentZone = "attachment_zone"
	ViolationNegativeEnergy = "negative_energy"
	ViolationNegativeToken  = "negative_token"
)

// Violation is one structural finding. Violations are advisory data, never
// raised as errors.
type Violation struct {
	Kind    string
	Message string
}

func (v Violation) String() string { return v.Message }

// Validate runs one read-only pass over the document and returns every
// structural invariant violation found. Findings never halt the pass; all
// applicable checks run and the results come back together. ok is true iff
// no violations were found.
func Validate(doc *board.Map) (bool, []Violation) {
	var violations []Violation

	// Index every card directly inside the player-visible zones by id.
	type entry struct {
		zone string
		card board.Card
	}
	index := make(map[string]entry)
	order := make([]string, 0)
	for _, zone := range board.PlayerZones() {
		n, err := board.Resolve(doc, board.ParsePath(zone))
		if err != nil {
			continue
		}
		seq, ok := n.(*board.Seq)
		if !ok {
			continue
		}
		for _, it := range seq.Items {
			card, ok := board.AsCard(it)
			if !ok {
				continue
			}
			if _, seen := index[card.ID()]; !seen {
				order = append(order, card.ID())
			}
			index[card.ID()] = entry{zone: zone, card: card}
		}
	}

	// Attachments must share their host's zone whenever the child is
	// resolvable; unknown child ids are skipped without violation.
	for _, id := range order {
		host := index[id]
		for _, childID := range host.card.Attachments() {
			child, ok := index[childID]
			if !ok {
				continue
			}
			if child.zone != host.zone {
				violations = append(violations, Violation{
					Kind: ViolationAttachmentZone,
					Message: fmt.Sprintf("attachment zone mismatch: child %s not in %s with host %s",
						childID, host.zone, id),
				})
			}
		}
	}

	// Current energy must be non-negative.
	if energy := board.EnergyMap(doc); energy != nil {
		for _, aspect := range energy.Keys() {
			n, _ := energy.Get(aspect)
			if v, ok := board.ScalarInt(n); ok && v < 0 {
				violations = append(violations, Violation{
					Kind:    ViolationNegativeEnergy,
					Message: fmt.Sprintf("negative energy: %s=%d", aspect, v),
				})
			}
		}
	}

	// Token counts on indexed cards must be non-negative.
	for _, id := range order {
		card := index[id].card
		for _, kind := range card.TokenKinds() {
			if count := card.TokenCount(kind); count < 0 {
				violations = append(violations, Violation{
					Kind:    ViolationNegativeToken,
					Message: fmt.Sprintf("negative token %s on %s (%s=%d)", kind, card.Title(), kind, count),
				})
			}
		}
	}

	return len(violations) == 0, violations
}
