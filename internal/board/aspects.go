package board

// Aspect names of the ranger's energy pools.
const (
	AspectAwareness = "AWA"
	AspectFitness   = "FIT"
	AspectFocus     = "FOC"
	AspectSpirit    = "SPI"
)

// AspectNames returns the aspect names in printed order.
func AspectNames() []string {
	return []string{AspectAwareness, AspectFitness, AspectFocus, AspectSpirit}
}

// NewAspects builds the ranger aspects block: a printed reference value and
// a current energy value per aspect, both starting equal.
func NewAspects(awa, fit, foc, spi int) *Map {
	printed := NewMap()
	printed.Set(AspectAwareness, Scalar{Value: awa})
	printed.Set(AspectFitness, Scalar{Value: fit})
	printed.Set(AspectFocus, Scalar{Value: foc})
	printed.Set(AspectSpirit, Scalar{Value: spi})

	aspects := NewMap()
	aspects.Set("printed", printed)
	aspects.Set("energy", printed.Clone())
	return aspects
}

// EnergyMap returns the current-energy mapping of the document's ranger
// area, or nil when the document has no such block.
func EnergyMap(doc *Map) *Map {
	return aspectsChild(doc, "energy")
}

// PrintedMap returns the printed reference mapping of the ranger aspects,
// or nil when the document has no such block.
func PrintedMap(doc *Map) *Map {
	return aspectsChild(doc, "printed")
}

func aspectsChild(doc *Map, key string) *Map {
	n, ok := doc.Get("ranger")
	if !ok {
		return nil
	}
	ranger, ok := n.(*Map)
	if !ok {
		return nil
	}
	n, ok = ranger.Get("aspects")
	if !ok {
		return nil
	}
	aspects, ok := n.(*Map)
	if !ok {
		return nil
	}
	n, ok = aspects.Get(key)
	if !ok {
		return nil
	}
	m, _ := n.(*Map)
	return m
}
