// Package ops implements the copy-on-write mutation operations of the
// board-state engine. Every operation resolves its target against the
// snapshot it was given, rewrites a private deep copy, and returns that
// copy; the input snapshot is never modified, and a failed operation
// leaves it byte-for-byte intact.
package ops

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/earthborne/ranger-board-go/internal/board"
	"github.com/earthborne/ranger-board-go/internal/board/selector"
)

// TokenPolicy chooses how token deltas that cross zero are handled.
type TokenPolicy string

const (
	// PolicyClamp floors results at zero; counts never go negative.
	PolicyClamp TokenPolicy = "clamp"
	// PolicyStrict lets negative results persist in the snapshot; the
	// validator reports them afterwards.
	PolicyStrict TokenPolicy = "strict"
)

// ParsePolicy validates a configured policy name.
func ParsePolicy(s string) (TokenPolicy, error) {
	switch TokenPolicy(s) {
	case PolicyClamp, PolicyStrict:
		return TokenPolicy(s), nil
	}
	return "", fmt.Errorf("unknown token policy %q", s)
}

// Engine applies mutations to board-state snapshots. It holds no document
// state itself; callers pass the current snapshot to every operation and
// keep the returned one.
type Engine struct {
	policy       TokenPolicy
	defaultOwner string
	logger       *zap.Logger
}

// NewEngine creates an engine with the given token policy and default
// discard-pile owner. An empty owner defaults to "ranger"; a nil logger
// disables logging.
func NewEngine(policy TokenPolicy, defaultOwner string, logger *zap.Logger) *Engine {
	if policy == "" {
		policy = PolicyClamp
	}
	if defaultOwner == "" {
		defaultOwner = "ranger"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{policy: policy, defaultOwner: defaultOwner, logger: logger}
}

// resolveOne locates the query's single target in doc, clones doc, and
// re-resolves the same address in the clone, returning the clone and the
// target card inside it.
func (e *Engine) resolveOne(doc *board.Map, q selector.Query) (*board.Map, board.Path, board.Card, error) {
	m, err := selector.SelectOne(doc, q)
	if err != nil {
		return nil, nil, board.Card{}, err
	}
	next := doc.Clone().(*board.Map)
	n, err := board.Resolve(next, m.Path)
	if err != nil {
		return nil, nil, board.Card{}, err
	}
	card, ok := board.AsCard(n)
	if !ok {
		return nil, nil, board.Card{}, fmt.Errorf("%s: node is no longer a card", m.Path)
	}
	return next, m.Path, card, nil
}

// SetCardState rewrites the target card's state label. The label must be
// one of the recognized set.
func (e *Engine) SetCardState(doc *board.Map, q selector.Query, newState string) (*board.Map, error) {
	if !board.ValidState(newState) {
		return nil, fmt.Errorf("%q (allowed: %v): %w", newState, board.KnownStates(), board.ErrInvalidState)
	}
	next, path, card, err := e.resolveOne(doc, q)
	if err != nil {
		return nil, err
	}
	card.SetState(newState)
	e.logger.Debug("card state changed",
		zap.String("id", card.ID()),
		zap.String("state", newState),
		zap.Stringer("path", path),
	)
	return next, nil
}

// AddTokens applies counter deltas to the target card under the engine's
// policy. A count landing exactly on zero is removed from the mapping
// rather than kept as an explicit zero entry.
func (e *Engine) AddTokens(doc *board.Map, q selector.Query, deltas map[string]int) (*board.Map, error) {
	return e.addTokens(doc, q, deltas, false)
}

// AddTokensStrict is AddTokens in strict-fail mode: a delta that would
// leave any count negative fails with ErrUnderflow instead of clamping.
func (e *Engine) AddTokensStrict(doc *board.Map, q selector.Query, deltas map[string]int) (*board.Map, error) {
	return e.addTokens(doc, q, deltas, true)
}

func (e *Engine) addTokens(doc *board.Map, q selector.Query, deltas map[string]int, failOnNegative bool) (*board.Map, error) {
	next, path, card, err := e.resolveOne(doc, q)
	if err != nil {
		return nil, err
	}
	for kind, delta := range deltas {
		count := card.TokenCount(kind) + delta
		if count < 0 {
			switch {
			case failOnNegative:
				return nil, fmt.Errorf("token %q on %s would be %d: %w", kind, card.ID(), count, board.ErrUnderflow)
			case e.policy == PolicyClamp:
				count = 0
			}
		}
		if count == 0 {
			card.DeleteToken(kind)
			continue
		}
		card.SetToken(kind, count)
	}
	e.logger.Debug("tokens adjusted",
		zap.String("id", card.ID()),
		zap.Any("deltas", deltas),
		zap.Stringer("path", path),
	)
	return next, nil
}

// SetTokens assigns an absolute count for one token kind, clamped at zero.
func (e *Engine) SetTokens(doc *board.Map, q selector.Query, kind string, count int) (*board.Map, error) {
	next, _, card, err := e.resolveOne(doc, q)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		count = 0
	}
	card.SetToken(kind, count)
	return next, nil
}

// SetFlag sets a boolean card field such as "friendly" or "persistent".
func (e *Engine) SetFlag(doc *board.Map, q selector.Query, key string, v bool) (*board.Map, error) {
	next, _, card, err := e.resolveOne(doc, q)
	if err != nil {
		return nil, err
	}
	card.SetFlag(key, v)
	return next, nil
}

// MoveCard relocates the target card to the destination zone, creating
// missing mapping segments of the destination path as empty sequences.
// A negative index appends; otherwise the card is inserted at index.
func (e *Engine) MoveCard(doc *board.Map, q selector.Query, dest board.Path, index int) (*board.Map, error) {
	m, err := selector.SelectOne(doc, q)
	if err != nil {
		return nil, err
	}
	next := doc.Clone().(*board.Map)
	cardNode, err := board.RemoveAt(next, m.Path)
	if err != nil {
		return nil, err
	}
	zone, err := board.EnsureZone(next, dest)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		zone.Append(cardNode)
	} else {
		zone.Insert(index, cardNode)
	}
	e.logger.Debug("card moved",
		zap.Stringer("from", m.Path),
		zap.Stringer("to", dest),
	)
	return next, nil
}

// AddCard materializes caller-supplied card-like data (assigning an id if
// absent) and appends it to the destination zone. It returns the new
// snapshot and the card's id.
func (e *Engine) AddCard(doc *board.Map, dest board.Path, cardLike *board.Map) (*board.Map, string, error) {
	card := board.Materialize(cardLike.Clone().(*board.Map), "card")
	next := doc.Clone().(*board.Map)
	zone, err := board.EnsureZone(next, dest)
	if err != nil {
		return nil, "", err
	}
	zone.Append(card)
	idNode, _ := card.Get(board.KeyID)
	id := board.ScalarString(idNode)
	e.logger.Debug("card added", zap.String("id", id), zap.Stringer("zone", dest))
	return next, id, nil
}

// Attach materializes the child card, places it in the host's current
// zone, and records the child's id on the host's attachments list. It
// returns the new snapshot and the child's id. The host must sit directly
// in a sequence zone.
func (e *Engine) Attach(doc *board.Map, child *board.Map, hostQ selector.Query) (*board.Map, string, error) {
	m, err := selector.SelectOne(doc, hostQ)
	if err != nil {
		return nil, "", err
	}
	next := doc.Clone().(*board.Map)
	hostNode, err := board.Resolve(next, m.Path)
	if err != nil {
		return nil, "", err
	}
	host, ok := board.AsCard(hostNode)
	if !ok {
		return nil, "", fmt.Errorf("%s: node is no longer a card", m.Path)
	}
	parent, _, err := board.Parent(next, m.Path)
	if err != nil {
		return nil, "", err
	}
	zone, ok := parent.(*board.Seq)
	if !ok {
		return nil, "", fmt.Errorf("host %s is not inside a sequence zone: %w", m.Path, board.ErrBadDestination)
	}
	childCard := board.Materialize(child.Clone().(*board.Map), "card")
	zone.Append(childCard)
	idNode, _ := childCard.Get(board.KeyID)
	childID := board.ScalarString(idNode)
	host.AppendAttachment(childID)
	e.logger.Debug("card attached",
		zap.String("child_id", childID),
		zap.String("host_id", host.ID()),
	)
	return next, childID, nil
}

// Detach removes the child card identified by id after clearing the
// reference to it from every card found in the child's zone; well-formed
// data has a single host, but the sweep does not assume one. Detaching an
// unknown id is a no-op that returns the snapshot unchanged.
func (e *Engine) Detach(doc *board.Map, childID string) (*board.Map, error) {
	if _, _, ok := board.FindCardByID(doc, childID); !ok {
		e.logger.Debug("detach: card not present", zap.String("id", childID))
		return doc, nil
	}
	next := doc.Clone().(*board.Map)
	path, _, _ := board.FindCardByID(next, childID)
	parent, _, err := board.Parent(next, path)
	if err != nil {
		return nil, err
	}
	if zone, ok := parent.(*board.Seq); ok {
		for _, it := range zone.Items {
			if c, ok := board.AsCard(it); ok {
				c.RemoveAttachment(childID)
			}
		}
	}
	if _, err := board.RemoveAt(next, path); err != nil {
		return nil, err
	}
	e.logger.Debug("card detached", zap.String("id", childID))
	return next, nil
}

// RemoveCard deletes the card identified by id from its container. It
// fails while the card still lists attachments; children must be detached
// or removed first so no dangling references survive.
func (e *Engine) RemoveCard(doc *board.Map, cardID string) (*board.Map, error) {
	path, card, ok := board.FindCardByID(doc, cardID)
	if !ok {
		return nil, fmt.Errorf("id=%s: %w", cardID, board.ErrNotFound)
	}
	if len(card.Attachments()) > 0 {
		return nil, fmt.Errorf("card %s: %w", cardID, board.ErrHasAttachments)
	}
	next := doc.Clone().(*board.Map)
	if _, err := board.RemoveAt(next, path); err != nil {
		return nil, err
	}
	e.logger.Debug("card removed", zap.String("id", cardID), zap.Stringer("path", path))
	return next, nil
}

// DiscardCard removes the target card from its current location, forces
// its state to discarded, and appends it to the owner's discard pile,
// creating the zone if absent. An empty owner uses the engine default.
// Relocation and relabeling happen in the same snapshot.
func (e *Engine) DiscardCard(doc *board.Map, q selector.Query, owner string) (*board.Map, error) {
	if owner == "" {
		owner = e.defaultOwner
	}
	m, err := selector.SelectOne(doc, q)
	if err != nil {
		return nil, err
	}
	next := doc.Clone().(*board.Map)
	cardNode, err := board.RemoveAt(next, m.Path)
	if err != nil {
		return nil, err
	}
	if card, ok := board.AsCard(cardNode); ok {
		card.SetState(board.StateDiscarded)
	}
	zone, err := ensurePile(next, board.ParsePath(owner))
	if err != nil {
		return nil, err
	}
	zone.Append(cardNode)
	e.logger.Debug("card discarded",
		zap.Stringer("from", m.Path),
		zap.String("owner", owner),
	)
	return next, nil
}

// ensurePile walks the owner path creating missing mapping segments as
// empty mappings, then returns the owner's discard_pile sequence, creating
// it if absent.
func ensurePile(root board.Node, owner board.Path) (*board.Seq, error) {
	n := root
	for _, s := range owner {
		if s.Kind != board.SegKey {
			return nil, fmt.Errorf("owner path %s: %w", owner, board.ErrBadDestination)
		}
		m, ok := n.(*board.Map)
		if !ok {
			return nil, fmt.Errorf("owner path %s at %q: %w", owner, s.Key, board.ErrBadDestination)
		}
		child, ok := m.Get(s.Key)
		if !ok {
			child = board.NewMap()
			m.Set(s.Key, child)
		}
		n = child
	}
	m, ok := n.(*board.Map)
	if !ok {
		return nil, fmt.Errorf("owner path %s: %w", owner, board.ErrBadDestination)
	}
	child, ok := m.Get("discard_pile")
	if !ok {
		child = board.NewSeq()
		m.Set("discard_pile", child)
	}
	pile, ok := child.(*board.Seq)
	if !ok {
		return nil, fmt.Errorf("discard pile of %s: %w", owner, board.ErrBadDestination)
	}
	return pile, nil
}
