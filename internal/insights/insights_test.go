package insights

import (
	"errors"
	"math"
	"testing"

	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/simulation"
	"github.com/lawnchairsociety/lootodds/internal/stats"
)

// newTestAdventurer returns a level 1 adventurer with 10 health wearing a
// maxed holy chestplate and nothing else
func newTestAdventurer() *simulation.Adventurer {
	return &simulation.Adventurer{
		Health: 10,
		XP:     1,
		Equipment: items.Equipment{
			Chest: &items.Item{ID: 77, XP: 400},
		},
	}
}

func TestComputeNotReady(t *testing.T) {
	tests := []struct {
		name     string
		adv      *simulation.Adventurer
		settings *GameSettings
	}{
		{"nil adventurer", nil, &GameSettings{}},
		{"nil settings", newTestAdventurer(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.adv, tt.settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Ready || got.Beasts.Slots != nil || got.Discovery.GoldMax != 0 {
				t.Errorf("expected NotReady, got %+v", got)
			}
		})
	}
}

func TestComputeLethalChance(t *testing.T) {
	got, err := Compute(newTestAdventurer(), &GameSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Ready {
		t.Fatal("expected insights to be ready")
	}

	for _, risk := range []RiskSummary{got.Beasts, got.Obstacles} {
		if len(risk.Slots) != len(items.ArmorSlots) {
			t.Fatalf("%s: expected every armor slot, got %d", risk.Category, len(risk.Slots))
		}
		if risk.ComputedVia != simulation.Deterministic {
			t.Errorf("%s: ComputedVia = %v, want deterministic", risk.Category, risk.ComputedVia)
		}

		chest := risk.Slots[0]
		if chest.Slot != items.SlotChest || !chest.Equipped {
			t.Fatalf("%s: unexpected first slot %+v", risk.Category, chest)
		}
		// Nothing at levels 1-3 gets through 100 armor
		if chest.Damage.LethalChance != 0 || chest.Damage.Max != 2 {
			t.Errorf("%s chest: lethal %v max %d, want 0 and 2", risk.Category, chest.Damage.LethalChance, chest.Damage.Max)
		}

		head := risk.Slots[1]
		if head.Equipped || head.Damage.Max < 10 || head.Damage.LethalChance <= 0 {
			t.Errorf("%s head: expected lethal hits on an empty slot, got %+v", risk.Category, head.Damage)
		}

		if risk.Damage.LethalChance <= 0 || risk.Damage.LethalChance >= head.Damage.LethalChance {
			t.Errorf("%s: aggregate lethal %v should sit between the chest and the empty head %v",
				risk.Category, risk.Damage.LethalChance, head.Damage.LethalChance)
		}
	}
}

func TestComputeAvoidChances(t *testing.T) {
	adv := newTestAdventurer()
	adv.XP = 100
	adv.Stats = stats.Stats{Wisdom: 5, Intelligence: 10}

	dodge, err := Compute(adv, &GameSettings{StatsMode: Dodge})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dodge.Beasts.AvoidChance-50) > 1e-9 {
		t.Errorf("beast avoid = %v, want 50", dodge.Beasts.AvoidChance)
	}
	if math.Abs(dodge.Obstacles.AvoidChance-100) > 1e-9 {
		t.Errorf("obstacle avoid = %v, want 100", dodge.Obstacles.AvoidChance)
	}
	if dodge.Obstacles.Damage.Max != 0 {
		t.Errorf("a certain dodge should never take damage, got max %d", dodge.Obstacles.Damage.Max)
	}

	reduce, err := Compute(adv, &GameSettings{StatsMode: Reduction, BaseDamageReduction: 10})
	if err != nil {
		t.Fatal(err)
	}
	if reduce.Obstacles.AvoidChance != 0 {
		t.Errorf("reduction mode should never dodge, got %v", reduce.Obstacles.AvoidChance)
	}
	if math.Abs(reduce.Obstacles.ReductionPercent-60) > 1e-9 {
		t.Errorf("obstacle reduction = %v, want 60", reduce.Obstacles.ReductionPercent)
	}
	if math.Abs(reduce.Beasts.ReductionPercent-10) > 1e-9 {
		t.Errorf("beast reduction = %v, want 10", reduce.Beasts.ReductionPercent)
	}
	if reduce.Obstacles.Damage.Min < 2 {
		t.Errorf("reduced hits still land at least the floor, got min %d", reduce.Obstacles.Damage.Min)
	}
}

func TestComputePopulation(t *testing.T) {
	got, err := Compute(newTestAdventurer(), &GameSettings{})
	if err != nil {
		t.Fatal(err)
	}

	for tier := 1; tier <= 5; tier++ {
		if math.Abs(got.Beasts.Tiers[tier]-20) > 1e-9 {
			t.Errorf("tier %d share = %v, want 20", tier, got.Beasts.Tiers[tier])
		}
	}
	for _, typ := range []items.Type{items.Magic, items.Blade, items.Bludgeon} {
		if math.Abs(got.Obstacles.Types[typ]-100.0/3) > 1e-9 {
			t.Errorf("type %v share = %v, want 33.3", typ, got.Obstacles.Types[typ])
		}
	}
	if got.Beasts.MinLevel != 1 || got.Beasts.MaxLevel != 3 {
		t.Errorf("level range = %d..%d, want 1..3", got.Beasts.MinLevel, got.Beasts.MaxLevel)
	}
	if math.Abs(got.Beasts.CritChance-5) > 1e-9 {
		t.Errorf("crit chance = %v, want 5", got.Beasts.CritChance)
	}
}

func TestComputeLargeSweepSamples(t *testing.T) {
	adv := newTestAdventurer()
	adv.XP = 2500
	adv.Health = 300
	adv.ItemSpecialsSeed = 5

	got, err := Compute(adv, &GameSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Beasts.ComputedVia != simulation.MonteCarlo {
		t.Errorf("beast sweep ComputedVia = %v, want monte_carlo", got.Beasts.ComputedVia)
	}
	// Obstacles roll no affixes, so their sweep stays small enough to enumerate
	if got.Obstacles.ComputedVia != simulation.Deterministic {
		t.Errorf("obstacle sweep ComputedVia = %v, want deterministic", got.Obstacles.ComputedVia)
	}

	again, err := Compute(adv, &GameSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if again.Beasts.Damage.Median != got.Beasts.Damage.Median || again.Beasts.Damage.LethalChance != got.Beasts.Damage.LethalChance {
		t.Error("sampled sweep should be reproducible for identical inputs")
	}
}

func TestComputeFallbacks(t *testing.T) {
	budget := func(Sweep) ([]Histogram, error) { return nil, ErrSweepBudgetExceeded }
	stackPanic := func(Sweep) ([]Histogram, error) { panic("goroutine stack exceeds limit") }
	stackErr := func(Sweep) ([]Histogram, error) { return nil, errors.New("fatal error: stack overflow") }

	tests := []struct {
		name    string
		exact   Sweeper
		sampled Sweeper
		want    simulation.Method
	}{
		{"budget", budget, SampledSweep, simulation.MonteCarlo},
		{"stack panic", stackPanic, SampledSweep, simulation.MonteCarlo},
		{"stack error", stackErr, SampledSweep, simulation.MonteCarlo},
		{"both fail", stackPanic, stackErr, simulation.MethodNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(nil, WithExactSweep(tt.exact), WithSampledSweep(tt.sampled))
			got, err := agg.Compute(newTestAdventurer(), &GameSettings{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Ready {
				t.Fatal("expected insights to be ready")
			}
			if got.Beasts.ComputedVia != tt.want {
				t.Errorf("ComputedVia = %v, want %v", got.Beasts.ComputedVia, tt.want)
			}
			if tt.want == simulation.MethodNone {
				if got.Beasts.Damage.HasData || got.Beasts.Tiers[1] == 0 {
					t.Errorf("expected population statistics only, got %+v", got.Beasts)
				}
			} else if !got.Beasts.Damage.HasData {
				t.Error("expected damage data from the sampled sweep")
			}
		})
	}
}

func TestComputePropagatesOtherErrors(t *testing.T) {
	boom := errors.New("corrupt population")
	agg := NewAggregator(nil, WithExactSweep(func(Sweep) ([]Histogram, error) { return nil, boom }))

	if _, err := agg.Compute(newTestAdventurer(), &GameSettings{}); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}

func TestComputeRejectsShortSweep(t *testing.T) {
	agg := NewAggregator(nil, WithExactSweep(func(Sweep) ([]Histogram, error) { return []Histogram{{}}, nil }))
	if _, err := agg.Compute(newTestAdventurer(), &GameSettings{}); err == nil {
		t.Error("expected an error for a sweep missing targets")
	}
}

func TestParseStatsMode(t *testing.T) {
	tests := []struct {
		in      string
		want    StatsMode
		wantErr bool
	}{
		{"", Dodge, false},
		{"dodge", Dodge, false},
		{"Reduction", Reduction, false},
		{"armor", Dodge, true},
	}

	for _, tt := range tests {
		got, err := ParseStatsMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseStatsMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestDiscovery(t *testing.T) {
	d := Discovery(12)
	if d.GoldMin != 1 || d.GoldMax != 12 || d.HealthMin != 2 || d.HealthMax != 24 {
		t.Errorf("unexpected ranges %+v", d)
	}
	if math.Abs(d.GoldChance-15) > 1e-9 || math.Abs(d.LootChance-100.0/30) > 1e-9 {
		t.Errorf("unexpected chances gold %v loot %v", d.GoldChance, d.LootChance)
	}
	total := d.BeastChance + d.ObstacleChance + d.DiscoveryChance
	if math.Abs(total-100) > 1e-9 {
		t.Errorf("explore outcomes sum to %v, want 100", total)
	}
	tiers := 0.0
	for _, p := range d.LootTiers {
		tiers += p
	}
	if math.Abs(tiers-100) > 1e-9 {
		t.Errorf("loot tiers sum to %v, want 100", tiers)
	}
}
