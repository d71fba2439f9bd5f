package insights

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/items"
)

func testSweep() Sweep {
	return Sweep{
		Category: Beasts,
		Targets: []Target{
			{Slot: items.SlotChest, Equipped: true, Armor: 20, ArmorType: items.Metal, Specials: items.Specials{Prefix: 3, Suffix: 7}},
			{Slot: items.SlotHead},
		},
		MinLevel:    11,
		MaxLevel:    30,
		AvoidChance: 0.25,
		CritChance:  0.2,
		Minimum:     combat.MinimumDamageFromBeasts,
		Affixes:     true,
		Samples:     500,
		Seed:        99,
	}
}

func TestExactSweepMass(t *testing.T) {
	hists, err := ExactSweep(testSweep())
	if err != nil {
		t.Fatal(err)
	}
	if len(hists) != 2 {
		t.Fatalf("expected one histogram per target, got %d", len(hists))
	}
	for i, h := range hists {
		if math.Abs(h.Total()-1) > 1e-9 {
			t.Errorf("target %d mass = %v, want 1", i, h.Total())
		}
		if math.Abs(h[0]-0.25) > 1e-9 {
			t.Errorf("target %d avoided mass = %v, want 0.25", i, h[0])
		}
	}
}

func TestExactSweepFloor(t *testing.T) {
	sw := testSweep()
	sw.AvoidChance = 0
	sw.Targets = []Target{{Slot: items.SlotChest, Equipped: true, Armor: 10000, ArmorType: items.Metal}}

	hists, err := ExactSweep(sw)
	if err != nil {
		t.Fatal(err)
	}
	if len(hists[0]) != 1 || math.Abs(hists[0][combat.MinimumDamageFromBeasts]-1) > 1e-9 {
		t.Errorf("expected every hit on the floor, got %v", hists[0])
	}
}

func TestScenarios(t *testing.T) {
	sw := testSweep()
	target := sw.Targets[0]

	below := sw.scenarios(target, combat.BeastSpecialsUnlockLevel-1)
	if len(below) != 1 || below[0].prefix || below[0].suffix {
		t.Errorf("no affixes should apply below the unlock level, got %+v", below)
	}

	above := sw.scenarios(target, combat.BeastSpecialsUnlockLevel)
	if len(above) != 4 {
		t.Fatalf("expected 4 scenarios, got %+v", above)
	}
	total := 0.0
	for _, sc := range above {
		total += sc.weight
	}
	if math.Abs(total-1) > 1e-12 {
		t.Errorf("scenario weights sum to %v, want 1", total)
	}
	if both := above[3]; !both.prefix || !both.suffix || math.Abs(both.weight-1.0/(69*18)) > 1e-12 {
		t.Errorf("unexpected double match scenario %+v", both)
	}

	if plain := sw.scenarios(sw.Targets[1], 40); len(plain) != 1 {
		t.Errorf("a target without affixes has one scenario, got %+v", plain)
	}
}

func TestProjected(t *testing.T) {
	sw := testSweep()
	want := 2 * combat.PopulationSize * 20 * 4 * 3
	if got := sw.Projected(); got != want {
		t.Errorf("Projected() = %d, want %d", got, want)
	}

	sw.MaxLevel = 15
	want = 2 * combat.PopulationSize * 5 * 1 * 3
	if got := sw.Projected(); got != want {
		t.Errorf("Projected() below unlock = %d, want %d", got, want)
	}
}

func TestExactSweepBudget(t *testing.T) {
	sw := testSweep()
	sw.MaxSamples = 100
	if _, err := ExactSweep(sw); !errors.Is(err, ErrSweepBudgetExceeded) {
		t.Errorf("expected ErrSweepBudgetExceeded, got %v", err)
	}
}

func TestSweepEmptyLevelRange(t *testing.T) {
	sw := testSweep()
	sw.MinLevel, sw.MaxLevel = 10, 5
	if _, err := ExactSweep(sw); err == nil {
		t.Error("expected an error for an empty level range")
	}
	if _, err := SampledSweep(sw); err == nil {
		t.Error("expected an error for an empty level range")
	}
}

func TestSampledSweepReproducible(t *testing.T) {
	a, err := SampledSweep(testSweep())
	if err != nil {
		t.Fatal(err)
	}
	b, err := SampledSweep(testSweep())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different sweeps")
	}
	for i, h := range a {
		if math.Abs(h.Total()-1) > 1e-9 {
			t.Errorf("target %d mass = %v, want 1", i, h.Total())
		}
	}
}

func TestSampledSweepTracksExact(t *testing.T) {
	sw := testSweep()
	sw.Samples = 20000

	exact, err := ExactSweep(sw)
	if err != nil {
		t.Fatal(err)
	}
	sampled, err := SampledSweep(sw)
	if err != nil {
		t.Fatal(err)
	}

	for i := range exact {
		e := LethalChance(exact[i].Samples(), 60)
		s := LethalChance(sampled[i].Samples(), 60)
		if math.Abs(e-s) > 3 {
			t.Errorf("target %d: sampled lethal chance %.2f too far from exact %.2f", i, s, e)
		}
	}
}

func TestObstacleStrikeUsesBandType(t *testing.T) {
	sw := testSweep()
	sw.Category = Obstacles
	target := Target{Slot: items.SlotChest}
	for _, id := range []int{1, 26, 51} {
		st := sw.strike(id, 10, target, noAffixes[0])
		if st.AttackType != combat.ObstacleTypeForID(id) {
			t.Errorf("obstacle %d attack type = %v, want %v", id, st.AttackType, combat.ObstacleTypeForID(id))
		}
	}
}
