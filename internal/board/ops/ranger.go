package ops

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/earthborne/ranger-board-go/internal/board"
)

// SpendEnergy subtracts the given amounts from the ranger's current
// energy. Any aspect that would drop below zero fails the whole operation
// with ErrUnderflow; energy spends are strict under every token policy.
func (e *Engine) SpendEnergy(doc *board.Map, amounts map[string]int) (*board.Map, error) {
	next := doc.Clone().(*board.Map)
	energy := board.EnergyMap(next)
	if energy == nil {
		return nil, fmt.Errorf("document has no ranger energy block")
	}
	for aspect, amount := range amounts {
		cur := 0
		if n, ok := energy.Get(aspect); ok {
			cur, _ = board.ScalarInt(n)
		}
		cur -= amount
		if cur < 0 {
			return nil, fmt.Errorf("energy %s would be %d: %w", aspect, cur, board.ErrUnderflow)
		}
		energy.Set(aspect, board.Scalar{Value: cur})
	}
	e.logger.Debug("energy spent", zap.Any("amounts", amounts))
	return next, nil
}

// AddEnergy adds the given amounts to the ranger's current energy.
func (e *Engine) AddEnergy(doc *board.Map, amounts map[string]int) (*board.Map, error) {
	next := doc.Clone().(*board.Map)
	energy := board.EnergyMap(next)
	if energy == nil {
		return nil, fmt.Errorf("document has no ranger energy block")
	}
	for aspect, amount := range amounts {
		cur := 0
		if n, ok := energy.Get(aspect); ok {
			cur, _ = board.ScalarInt(n)
		}
		energy.Set(aspect, board.Scalar{Value: cur + amount})
	}
	return next, nil
}

// SetEnergy assigns the ranger's current energy outright.
func (e *Engine) SetEnergy(doc *board.Map, values map[string]int) (*board.Map, error) {
	next := doc.Clone().(*board.Map)
	energy := board.EnergyMap(next)
	if energy == nil {
		return nil, fmt.Errorf("document has no ranger energy block")
	}
	for aspect, v := range values {
		energy.Set(aspect, board.Scalar{Value: v})
	}
	return next, nil
}

// RefreshEnergy resets every current energy value to its printed
// reference value.
func (e *Engine) RefreshEnergy(doc *board.Map) (*board.Map, error) {
	next := doc.Clone().(*board.Map)
	if err := refreshEnergy(next); err != nil {
		return nil, err
	}
	e.logger.Debug("energy refreshed")
	return next, nil
}

func refreshEnergy(doc *board.Map) error {
	printed := board.PrintedMap(doc)
	energy := board.EnergyMap(doc)
	if printed == nil || energy == nil {
		return fmt.Errorf("document has no ranger aspects block")
	}
	for _, aspect := range printed.Keys() {
		n, _ := printed.Get(aspect)
		energy.Set(aspect, n.Clone())
	}
	return nil
}

// ReadyAll resets the state of every card sitting directly in the given
// zones to ready. With no zones given it covers the play area: along the
// way, within reach, and the ranger's gear.
func (e *Engine) ReadyAll(doc *board.Map, zones ...string) (*board.Map, error) {
	if len(zones) == 0 {
		zones = []string{board.ZoneAlongTheWay, board.ZoneWithinReach, board.ZoneRangerGear}
	}
	next := doc.Clone().(*board.Map)
	readyZones(next, zones)
	e.logger.Debug("cards readied", zap.Strings("zones", zones))
	return next, nil
}

func readyZones(doc *board.Map, zones []string) {
	for _, zone := range zones {
		n, err := board.Resolve(doc, board.ParsePath(zone))
		if err != nil {
			continue
		}
		seq, ok := n.(*board.Seq)
		if !ok {
			continue
		}
		for _, it := range seq.Items {
			if card, ok := board.AsCard(it); ok {
				card.SetState(board.StateReady)
			}
		}
	}
}

// Camp is the day-boundary helper: ready everything in the play area and
// refresh energy to printed values, in one snapshot.
func (e *Engine) Camp(doc *board.Map) (*board.Map, error) {
	next := doc.Clone().(*board.Map)
	readyZones(next, []string{board.ZoneAlongTheWay, board.ZoneWithinReach, board.ZoneRangerGear})
	if err := refreshEnergy(next); err != nil {
		return nil, err
	}
	e.logger.Debug("camped")
	return next, nil
}

// Travel moves the party to a new location: the along-the-way zone is
// cleared outright, within reach keeps only cards flagged persistent, and
// the new location card is installed.
func (e *Engine) Travel(doc *board.Map, location *board.Map) (*board.Map, error) {
	next := doc.Clone().(*board.Map)
	next.Set(board.ZoneAlongTheWay, board.NewSeq())
	if n, ok := next.Get(board.ZoneWithinReach); ok {
		if seq, ok := n.(*board.Seq); ok {
			kept := board.NewSeq()
			for _, it := range seq.Items {
				if card, ok := board.AsCard(it); ok && card.Persistent() {
					kept.Append(it)
				}
			}
			next.Set(board.ZoneWithinReach, kept)
		}
	}
	id, err := setLocation(next, location)
	if err != nil {
		return nil, err
	}
	e.logger.Info("traveled", zap.String("location_id", id))
	return next, nil
}

// SetLocation installs a location card into surroundings.location,
// assigning an id when the card lacks one, and records its title in the
// campaign log. It returns the new snapshot and the location's id.
func (e *Engine) SetLocation(doc *board.Map, cardLike *board.Map) (*board.Map, string, error) {
	next := doc.Clone().(*board.Map)
	id, err := setLocation(next, cardLike)
	if err != nil {
		return nil, "", err
	}
	return next, id, nil
}

func setLocation(doc *board.Map, cardLike *board.Map) (string, error) {
	card := board.Materialize(cardLike.Clone().(*board.Map), "loc")
	surroundings, err := regionMap(doc, "surroundings")
	if err != nil {
		return "", err
	}
	surroundings.Set("location", card)
	idNode, _ := card.Get(board.KeyID)
	titleNode, _ := card.Get(board.KeyTitle)
	if logNode, ok := doc.Get("campaign_log"); ok {
		if log, ok := logNode.(*board.Map); ok {
			log.Set("current_location", titleNode.Clone())
		}
	}
	return board.ScalarString(idNode), nil
}

// SetWeather installs a weather card into surroundings.weather. It
// returns the new snapshot and the weather card's id.
func (e *Engine) SetWeather(doc *board.Map, cardLike *board.Map) (*board.Map, string, error) {
	next := doc.Clone().(*board.Map)
	card := board.Materialize(cardLike.Clone().(*board.Map), "wx")
	surroundings, err := regionMap(next, "surroundings")
	if err != nil {
		return nil, "", err
	}
	surroundings.Set("weather", card)
	idNode, _ := card.Get(board.KeyID)
	return next, board.ScalarString(idNode), nil
}

func regionMap(doc *board.Map, key string) (*board.Map, error) {
	n, ok := doc.Get(key)
	if !ok {
		m := board.NewMap()
		doc.Set(key, m)
		return m, nil
	}
	m, ok := n.(*board.Map)
	if !ok {
		return nil, fmt.Errorf("region %q is not a mapping", key)
	}
	return m, nil
}

// Draw lowers the ranger deck size by n, floored at zero.
func (e *Engine) Draw(doc *board.Map, n int) (*board.Map, error) {
	return e.adjustRangerCount(doc, "deck_size", -n, true)
}

// Fatigue moves n cards from the deck to the fatigue stack.
func (e *Engine) Fatigue(doc *board.Map, n int) (*board.Map, error) {
	next, err := e.adjustRangerCount(doc, "deck_size", -n, true)
	if err != nil {
		return nil, err
	}
	return e.adjustRangerCount(next, "fatigue_size", n, false)
}

// Soothe returns up to n cards from the fatigue stack.
func (e *Engine) Soothe(doc *board.Map, n int) (*board.Map, error) {
	return e.adjustRangerCount(doc, "fatigue_size", -n, true)
}

// SetDeckSize assigns the ranger deck size, floored at zero.
func (e *Engine) SetDeckSize(doc *board.Map, n int) (*board.Map, error) {
	return e.setRangerCount(doc, "deck_size", n)
}

// SetFatigueSize assigns the fatigue stack size, floored at zero.
func (e *Engine) SetFatigueSize(doc *board.Map, n int) (*board.Map, error) {
	return e.setRangerCount(doc, "fatigue_size", n)
}

func (e *Engine) adjustRangerCount(doc *board.Map, key string, delta int, floor bool) (*board.Map, error) {
	next := doc.Clone().(*board.Map)
	ranger, err := regionMap(next, "ranger")
	if err != nil {
		return nil, err
	}
	cur := 0
	if n, ok := ranger.Get(key); ok {
		cur, _ = board.ScalarInt(n)
	}
	cur += delta
	if floor && cur < 0 {
		cur = 0
	}
	ranger.Set(key, board.Scalar{Value: cur})
	return next, nil
}

func (e *Engine) setRangerCount(doc *board.Map, key string, n int) (*board.Map, error) {
	if n < 0 {
		n = 0
	}
	next := doc.Clone().(*board.Map)
	ranger, err := regionMap(next, "ranger")
	if err != nil {
		return nil, err
	}
	ranger.Set(key, board.Scalar{Value: n})
	return next, nil
}
