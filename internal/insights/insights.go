// Package insights estimates the risk of the next explore: how hard the
// beasts and obstacles an adventurer might meet can hit each armor slot,
// weighted over the whole population.
package insights

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/config"
	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/logger"
	"github.com/lawnchairsociety/lootodds/internal/simulation"
	"github.com/lawnchairsociety/lootodds/internal/stats"
)

// Insights is the exploration risk picture of one adventurer
type Insights struct {
	Ready bool

	Level  int
	Health int

	Beasts    RiskSummary
	Obstacles RiskSummary
	Discovery DiscoverySummary
}

// NotReady is returned when there is nothing to compute
func NotReady() Insights {
	return Insights{}
}

// RiskSummary is the damage outlook against one population. Chances are
// percentages.
type RiskSummary struct {
	Category Category

	MinLevel int
	MaxLevel int

	// AvoidChance is the chance of avoiding the threat: spotting a beast
	// before its ambush, or dodging an obstacle
	AvoidChance      float64
	CritChance       float64
	ReductionPercent float64

	Tiers map[int]float64
	Types map[items.Type]float64

	Slots  []SlotSummary
	Damage DamageSummary

	// ComputedVia is MethodNone when only population statistics are known
	ComputedVia simulation.Method
	Samples     int
}

// SlotSummary is the damage outlook of one armor slot
type SlotSummary struct {
	Slot     items.Slot
	Equipped bool
	Damage   DamageSummary
}

// Aggregator computes exploration insights. It holds no per-call state
// and is safe for concurrent use.
type Aggregator struct {
	cfg     config.ExplorationConfig
	catalog *items.Catalog
	exact   Sweeper
	sampled Sweeper
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithCatalog sets the item catalog used to resolve armor
func WithCatalog(c *items.Catalog) Option {
	return func(a *Aggregator) { a.catalog = c }
}

// WithExactSweep replaces the exact sweep
func WithExactSweep(s Sweeper) Option {
	return func(a *Aggregator) { a.exact = s }
}

// WithSampledSweep replaces the sampled sweep
func WithSampledSweep(s Sweeper) Option {
	return func(a *Aggregator) { a.sampled = s }
}

// NewAggregator creates an aggregator. A nil config uses the defaults.
func NewAggregator(cfg *config.EngineConfig, opts ...Option) *Aggregator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Aggregator{
		cfg:     cfg.Exploration,
		catalog: items.DefaultCatalog(),
		exact:   ExactSweep,
		sampled: SampledSweep,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compute runs a default aggregator
func Compute(adv *simulation.Adventurer, settings *GameSettings) (Insights, error) {
	return NewAggregator(nil).Compute(adv, settings)
}

// Compute sweeps the beast and obstacle populations the adventurer could
// meet next. A nil input yields NotReady. Capacity failures degrade to
// sampling and then to population statistics only; any other failure is
// returned.
func (a *Aggregator) Compute(adv *simulation.Adventurer, settings *GameSettings) (Insights, error) {
	if adv == nil || settings == nil {
		return NotReady(), nil
	}

	level := adv.Level()
	beasts, obstacles := a.sweeps(adv, *settings)

	beastRisk, err := a.risk(beasts, adv.Health)
	if err != nil {
		return Insights{}, fmt.Errorf("beast sweep: %w", err)
	}
	obstacleRisk, err := a.risk(obstacles, adv.Health)
	if err != nil {
		return Insights{}, fmt.Errorf("obstacle sweep: %w", err)
	}

	return Insights{
		Ready:     true,
		Level:     level,
		Health:    adv.Health,
		Beasts:    beastRisk,
		Obstacles: obstacleRisk,
		Discovery: Discovery(level),
	}, nil
}

// sweeps builds the beast and obstacle sweeps of an adventurer
func (a *Aggregator) sweeps(adv *simulation.Adventurer, settings GameSettings) (Sweep, Sweep) {
	level := adv.Level()
	lo, hi := combat.EncounterLevelRange(level)
	targets := a.targets(adv)

	common := Sweep{
		Targets:          targets,
		MinLevel:         lo,
		MaxLevel:         hi,
		CritChance:       combat.BeastCritChance(level),
		ReductionPercent: settings.reductionPercent(),
		MaxSamples:       a.cfg.MaxExactSamples,
		Samples:          a.cfg.SampleCount,
	}

	beasts := common
	beasts.Category = Beasts
	beasts.AvoidChance = adv.Stats.AmbushAvoidChance(level)
	beasts.Minimum = combat.MinimumDamageFromBeasts
	beasts.Affixes = true
	beasts.Seed = seedFor(adv, settings, Beasts)

	obstacles := common
	obstacles.Category = Obstacles
	obstacles.Minimum = combat.MinimumDamageFromObstacles
	obstacles.Seed = seedFor(adv, settings, Obstacles)
	if settings.StatsMode == Reduction {
		cut := stats.ReductionFraction(adv.Stats.Intelligence, level) * 100
		obstacles.ReductionPercent = min(100, obstacles.ReductionPercent+cut)
	} else {
		obstacles.AvoidChance = adv.Stats.ObstacleAvoidChance(level)
	}

	return beasts, obstacles
}

// targets returns every armor slot, equipped or not
func (a *Aggregator) targets(adv *simulation.Adventurer) []Target {
	targets := make([]Target, 0, len(items.ArmorSlots))
	for _, slot := range items.ArmorSlots {
		t := Target{Slot: slot}
		if item := adv.Equipment.Get(slot); item != nil {
			if def, ok := a.catalog.Lookup(item.ID); ok && def.Slot == slot {
				t.Equipped = true
				t.Armor = combat.BaseValue(item.Level(), def.Tier)
				t.ArmorType = def.Type
				t.Specials = item.Specials(adv.ItemSpecialsSeed)
			}
		}
		targets = append(targets, t)
	}
	return targets
}

// risk runs one sweep and summarizes it
func (a *Aggregator) risk(sw Sweep, health int) (RiskSummary, error) {
	summary := RiskSummary{
		Category:         sw.Category,
		MinLevel:         sw.MinLevel,
		MaxLevel:         sw.MaxLevel,
		AvoidChance:      sw.AvoidChance * 100,
		CritChance:       sw.CritChance * 100,
		ReductionPercent: sw.ReductionPercent,
		Tiers:            TierDistribution(),
		Types:            TypeDistribution(sw.Category),
		Slots:            make([]SlotSummary, len(sw.Targets)),
	}
	for i, t := range sw.Targets {
		summary.Slots[i] = SlotSummary{Slot: t.Slot, Equipped: t.Equipped, Damage: Summarize(nil, health)}
	}
	summary.Damage = Summarize(nil, health)

	hists, method, err := a.sweep(sw)
	if err != nil {
		return RiskSummary{}, err
	}
	summary.ComputedVia = method
	if method == simulation.MethodNone {
		return summary, nil
	}

	switch method {
	case simulation.Deterministic:
		summary.Samples = sw.Projected()
	case simulation.MonteCarlo:
		summary.Samples = sw.Samples * len(sw.Targets)
	}

	total := Histogram{}
	for i, h := range hists {
		summary.Slots[i].Damage = Summarize(h, health)
		total.Merge(h, 1/float64(len(hists)))
	}
	summary.Damage = Summarize(total, health)
	return summary, nil
}

// sweep picks and runs the exact or sampled sweep. A nil result with
// MethodNone means both failed on capacity.
func (a *Aggregator) sweep(sw Sweep) ([]Histogram, simulation.Method, error) {
	if sw.MaxSamples <= 0 || sw.Projected() <= sw.MaxSamples {
		hists, err := guard(a.exact, sw)
		switch {
		case err == nil:
			return hists, simulation.Deterministic, nil
		case errors.Is(err, ErrSweepBudgetExceeded):
			logger.Debug("exact sweep over budget, sampling instead", "category", sw.Category, "error", err)
		case errors.Is(err, simulation.ErrStackExhausted):
			logger.Warning("exact sweep exhausted the stack, sampling instead", "category", sw.Category, "error", err)
		default:
			return nil, simulation.MethodNone, err
		}
	} else {
		logger.Debug("sweep too large for exact enumeration",
			"category", sw.Category,
			"projected", sw.Projected(),
			"limit", sw.MaxSamples)
	}

	hists, err := guard(a.sampled, sw)
	if err != nil {
		logger.Warning("sampled sweep failed, reporting population statistics only", "category", sw.Category, "error", err)
		return nil, simulation.MethodNone, nil
	}
	return hists, simulation.MonteCarlo, nil
}

// guard runs a sweeper inside the same failure boundary as the exact fight
// solver
func guard(fn Sweeper, sw Sweep) (hists []Histogram, err error) {
	defer func() {
		if r := recover(); r != nil {
			hists, err = nil, simulation.RecoveredStackError(r)
		}
	}()

	hists, err = fn(sw)
	if err != nil && !errors.Is(err, ErrSweepBudgetExceeded) && simulation.IsStackExhaustion(err.Error()) {
		return nil, fmt.Errorf("%w: %v", simulation.ErrStackExhausted, err)
	}
	if err == nil && len(hists) != len(sw.Targets) {
		return nil, fmt.Errorf("insights: sweep returned %d histograms for %d targets", len(hists), len(sw.Targets))
	}
	return hists, err
}

// seedFor derives the sampled sweep seed from everything that shapes it,
// so repeated requests with the same inputs draw the same threats
func seedFor(adv *simulation.Adventurer, settings GameSettings, c Category) uint64 {
	h := xxhash.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(adv)
	_ = enc.Encode(settings)
	_, _ = h.WriteString(c.String())
	return h.Sum64()
}
