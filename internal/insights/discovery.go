package insights

// Explore outcome shares, as percentages of a single explore
const (
	BeastEncounterChance    = 100.0 / 3
	ObstacleEncounterChance = 100.0 / 3
	DiscoveryChance         = 100.0 / 3

	// Shares of a discovery
	goldShare   = 0.45
	healthShare = 0.45
	lootShare   = 0.10
)

// LootTierOdds is the percentage chance a discovered item has each tier
var LootTierOdds = map[int]float64{1: 5, 2: 10, 3: 15, 4: 30, 5: 40}

// DiscoverySummary is what a non-combat explore can turn up. Chances are
// percentages of a single explore.
type DiscoverySummary struct {
	BeastChance     float64
	ObstacleChance  float64
	DiscoveryChance float64

	GoldChance   float64
	HealthChance float64
	LootChance   float64

	GoldMin   int
	GoldMax   int
	HealthMin int
	HealthMax int

	LootTiers map[int]float64
}

// Discovery returns the level-scaled discovery summary
func Discovery(level int) DiscoverySummary {
	if level < 1 {
		level = 1
	}

	tiers := make(map[int]float64, len(LootTierOdds))
	for t, p := range LootTierOdds {
		tiers[t] = p
	}

	return DiscoverySummary{
		BeastChance:     BeastEncounterChance,
		ObstacleChance:  ObstacleEncounterChance,
		DiscoveryChance: DiscoveryChance,
		GoldChance:      DiscoveryChance * goldShare,
		HealthChance:    DiscoveryChance * healthShare,
		LootChance:      DiscoveryChance * lootShare,
		GoldMin:         1,
		GoldMax:         level,
		HealthMin:       2,
		HealthMax:       2 * level,
		LootTiers:       tiers,
	}
}
