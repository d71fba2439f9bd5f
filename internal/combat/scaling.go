package combat

// EncounterLevelRange returns the inclusive range of levels a beast or
// obstacle met by an adventurer of the given level can roll. The base range
// is 1..3×level; higher adventurer levels shift it up in bands.
func EncounterLevelRange(adventurerLevel int) (lo, hi int) {
	if adventurerLevel < 1 {
		adventurerLevel = 1
	}

	offset := 0
	switch {
	case adventurerLevel >= 50:
		offset = 80
	case adventurerLevel >= 40:
		offset = 40
	case adventurerLevel >= 30:
		offset = 20
	case adventurerLevel >= 20:
		offset = 10
	}

	return 1 + offset, adventurerLevel*3 + offset
}

// TierName returns a human-readable name for a tier
func TierName(tier int) string {
	switch tier {
	case 1:
		return "T1"
	case 2:
		return "T2"
	case 3:
		return "T3"
	case 4:
		return "T4"
	case 5:
		return "T5"
	default:
		return "Unknown"
	}
}
