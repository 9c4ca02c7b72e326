package board

// Well-known region and zone names of the default document skeleton.
const (
	ZoneAlongTheWay         = "along_the_way"
	ZoneWithinReach         = "within_reach"
	ZoneRangerGear          = "ranger.gear"
	ZoneRangerHand          = "ranger.hand"
	ZoneRangerDiscard       = "ranger.discard_pile"
	ZoneSurroundingsMission = "surroundings.missions"
)

// PlayerZones lists the player-visible zones the validator indexes.
func PlayerZones() []string {
	return []string{ZoneWithinReach, ZoneAlongTheWay, ZoneRangerGear}
}

// NewDocument builds a fresh default board-state document. Every call
// returns an independent value; there is no shared default instance.
func NewDocument() *Map {
	campaignLog := NewMap()
	campaignLog.Set("campaign", Scalar{Value: "Lure of the Valley"})
	campaignLog.Set("current_location", Scalar{Value: nil})
	campaignLog.Set("path_terrain", Scalar{Value: nil})
	campaignLog.Set("missions", NewSeq())
	campaignLog.Set("unlocked_rewards", NewSeq())
	campaignLog.Set("notable_events", NewSeq())

	surroundings := NewMap()
	surroundings.Set("weather", Scalar{Value: nil})
	surroundings.Set("location", Scalar{Value: nil})
	surroundings.Set("missions", NewSeq())

	role := NewMap()
	role.Set("name", Scalar{Value: "Prodigy of the Floating Tower"})
	role.Set(KeyState, Scalar{Value: StateReady})
	role.Set(KeyTokens, NewMap())

	ranger := NewMap()
	ranger.Set("role", role)
	ranger.Set("aspects", NewAspects(3, 2, 2, 1))
	ranger.Set("gear", NewSeq())
	ranger.Set("injuries", Scalar{Value: 0})
	ranger.Set("deck_size", Scalar{Value: 30})
	ranger.Set("fatigue_size", Scalar{Value: 0})
	ranger.Set("discard_pile", NewSeq())
	ranger.Set("hand", NewSeq())

	doc := NewMap()
	doc.Set("campaign_log", campaignLog)
	doc.Set("surroundings", surroundings)
	doc.Set(ZoneAlongTheWay, NewSeq())
	doc.Set(ZoneWithinReach, NewSeq())
	doc.Set("ranger", ranger)
	return doc
}
