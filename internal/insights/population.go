package insights

import (
	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/items"
)

// TierDistribution returns the percentage of the population in each tier
func TierDistribution() map[int]float64 {
	dist := make(map[int]float64, combat.TierCount)
	share := 100 / float64(combat.PopulationSize)
	for id := 1; id <= combat.PopulationSize; id++ {
		dist[combat.TierForID(id)] += share
	}
	return dist
}

// TypeDistribution returns the percentage of the population dealing each
// attack type
func TypeDistribution(c Category) map[items.Type]float64 {
	dist := make(map[items.Type]float64, 3)
	share := 100 / float64(combat.PopulationSize)
	for id := 1; id <= combat.PopulationSize; id++ {
		t := combat.BeastTypeForID(id).AttackType()
		if c == Obstacles {
			t = combat.ObstacleTypeForID(id)
		}
		dist[t] += share
	}
	return dist
}
