// odds computes combat and exploration odds for a Loot adventurer.
//
// Usage:
//
//	odds [command] [options]
//
// Commands:
//
//	fight      - Outcome distribution of one fight against a beast
//	explore    - Damage risk of the next explore across all beasts and obstacles
//	sweep      - Win rate against one beast id across a range of beast levels
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/config"
	"github.com/lawnchairsociety/lootodds/internal/insights"
	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/logger"
	"github.com/lawnchairsociety/lootodds/internal/simulation"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "fight":
		err = runFight(os.Args[2:])
	case "explore":
		err = runExplore(os.Args[2:])
	case "sweep":
		err = runSweep(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Loot Odds

Combat and exploration odds for a Loot adventurer.

Usage: odds <command> [options]

Commands:
  fight     Outcome distribution of one fight against a beast
  explore   Damage risk of the next explore across all beasts and obstacles
  sweep     Win rate against one beast id across a range of beast levels

Examples:
  odds fight -health=100 -xp=25 -luck=25 -weapon=42:100 -chest=51:16 -beast-id=30 -beast-level=5 -beast-hp=80
  odds fight -adventurer=adventurer.json -beast=beast.json -ambush
  odds explore -health=60 -xp=100 -wis=4 -int=6 -chest=77:400 -mode=reduction
  odds sweep -xp=100 -weapon=42:100 -beast-id=51 -from=1 -to=30

Use "odds <command> -h" for more information about a command.`)
}

// setup loads logging, engine config and the item catalog
func setup(common commonFlags) (*config.EngineConfig, *items.Catalog, error) {
	logConfig, err := logger.LoadConfig(*common.loggingFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using default logging\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadConfig(*common.configFile)
	if err != nil {
		return nil, nil, err
	}

	catalog := items.DefaultCatalog()
	if *common.itemsFile != "" {
		catalog, err = items.LoadCatalogFromYAML(*common.itemsFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Loaded item catalog", "file", *common.itemsFile, "items", catalog.Len())
	}
	return cfg, catalog, nil
}

// newEngine builds an engine, dispatching to a background worker when the
// config asks for one. The returned func releases the worker.
func newEngine(cfg *config.EngineConfig, catalog *items.Catalog) (*simulation.Engine, func()) {
	opts := []simulation.EngineOption{simulation.WithCatalog(catalog)}
	if !cfg.Worker.Enabled {
		return simulation.NewEngine(cfg, opts...), func() {}
	}

	worker := simulation.NewWorker(cfg.Worker.QueueSize)
	opts = append(opts, simulation.WithExecutor(worker))
	return simulation.NewEngine(cfg, opts...), worker.Close
}

func runFight(args []string) error {
	fs := flag.NewFlagSet("fight", flag.ExitOnError)
	common := registerCommon(fs)
	advFlags := registerAdventurer(fs)
	beastFlags := registerBeast(fs)
	ambush := fs.Bool("ambush", false, "Beast strikes first (gear was just swapped)")
	fs.Parse(args)

	cfg, catalog, err := setup(common)
	if err != nil {
		return err
	}
	adv, err := advFlags.build(catalog)
	if err != nil {
		return err
	}
	beast, err := beastFlags.build()
	if err != nil {
		return err
	}

	engine, release := newEngine(cfg, catalog)
	defer release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("=== Fight Simulation ===")
	fmt.Println()
	printAdventurer(adv, catalog)
	fmt.Printf("Beast:      %s %s (id %d), level %d, %d HP\n",
		combat.TierName(beast.Tier), beast.Type, beast.ID, beast.Level, beast.Health)
	if *ambush {
		fmt.Println("Ambush:     beast strikes first")
	}
	fmt.Println()

	res, err := engine.SimulateContext(ctx, adv, beast, simulation.Options{InitialBeastStrike: *ambush})
	if err != nil {
		return err
	}
	if !res.HasOutcome {
		fmt.Println("No fight: adventurer or beast already dead")
		return nil
	}

	printResult(res)
	assessBalance("Fight", res.WinRate)
	return nil
}

func runExplore(args []string) error {
	fs := flag.NewFlagSet("explore", flag.ExitOnError)
	common := registerCommon(fs)
	advFlags := registerAdventurer(fs)
	mode := fs.String("mode", "dodge", "Stats mode for obstacles: dodge or reduction")
	reduction := fs.Int("reduction", 0, "Flat damage reduction percent")
	fs.Parse(args)

	cfg, catalog, err := setup(common)
	if err != nil {
		return err
	}
	adv, err := advFlags.build(catalog)
	if err != nil {
		return err
	}
	statsMode, err := insights.ParseStatsMode(*mode)
	if err != nil {
		return err
	}
	settings := &insights.GameSettings{StatsMode: statsMode, BaseDamageReduction: *reduction}

	agg := insights.NewAggregator(cfg, insights.WithCatalog(catalog))
	result, err := agg.Compute(adv, settings)
	if err != nil {
		return err
	}

	fmt.Println("=== Exploration Risk ===")
	fmt.Println()
	printAdventurer(adv, catalog)
	fmt.Printf("Settings:   %s mode, %d%% base reduction\n", settings.StatsMode, settings.BaseDamageReduction)
	fmt.Println()

	printRisk("Beasts", "Ambush avoid", result.Beasts)
	printRisk("Obstacles", "Dodge", result.Obstacles)

	d := result.Discovery
	fmt.Println("--- Discovery ---")
	fmt.Printf("Explore:   %.1f%% beast, %.1f%% obstacle, %.1f%% discovery\n",
		d.BeastChance, d.ObstacleChance, d.DiscoveryChance)
	fmt.Printf("Gold:      %.1f%% (%d-%d)\n", d.GoldChance, d.GoldMin, d.GoldMax)
	fmt.Printf("Health:    %.1f%% (%d-%d)\n", d.HealthChance, d.HealthMin, d.HealthMax)
	fmt.Printf("Loot:      %.1f%%\n", d.LootChance)
	return nil
}

func runSweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	common := registerCommon(fs)
	advFlags := registerAdventurer(fs)
	beastID := fs.Int("beast-id", 30, "Beast id (1-75)")
	from := fs.Int("from", 1, "First beast level")
	to := fs.Int("to", 30, "Last beast level")
	step := fs.Int("step", 1, "Level step")
	hpPerLevel := fs.Int("hp-per-level", 8, "Beast health per level")
	fs.Parse(args)

	if *step < 1 || *from < 1 || *to < *from {
		return fmt.Errorf("invalid level range %d..%d step %d", *from, *to, *step)
	}
	if *beastID < 1 || *beastID > combat.PopulationSize {
		return fmt.Errorf("-beast-id must be between 1 and %d", combat.PopulationSize)
	}

	cfg, catalog, err := setup(common)
	if err != nil {
		return err
	}
	adv, err := advFlags.build(catalog)
	if err != nil {
		return err
	}
	engine, release := newEngine(cfg, catalog)
	defer release()

	fmt.Println("=== Beast Level Sweep ===")
	fmt.Println()
	printAdventurer(adv, catalog)
	fmt.Printf("Beast id %d, levels %d-%d (step %d), %d HP per level\n", *beastID, *from, *to, *step, *hpPerLevel)
	fmt.Println()

	fmt.Println("Level | Win Rate |  OTK   | Rounds | Taken | Method")
	fmt.Println("------+----------+--------+--------+-------+------------")
	for level := *from; level <= *to; level += *step {
		beast := combat.NewBeast(*beastID, level, level*(*hpPerLevel))
		res, err := engine.Simulate(adv, &beast, simulation.Options{})
		if err != nil {
			return err
		}
		fmt.Printf("%5d | %7.1f%% | %5.1f%% | %6d | %5d | %s\n",
			level, res.WinRate, res.OTKRate, res.ModeRounds, res.ModeDamageTaken, res.ComputedVia)
	}
	return nil
}

func printAdventurer(adv *simulation.Adventurer, catalog *items.Catalog) {
	fmt.Printf("Adventurer: level %d, %d HP, STR %d, WIS %d, INT %d, LUCK %d\n",
		adv.Level(), adv.Health, adv.Stats.Strength, adv.Stats.Wisdom, adv.Stats.Intelligence, adv.Stats.Luck)
	level := adv.Level()
	fmt.Printf("  Ambush avoid %.0f%%, obstacle avoid %.0f%%, flee %.0f%%\n",
		adv.Stats.AmbushAvoidChance(level)*100, adv.Stats.ObstacleAvoidChance(level)*100, adv.Stats.FleeChance(level)*100)
	for slot := items.SlotWeapon; slot <= items.SlotRing; slot++ {
		item := adv.Equipment.Get(slot)
		if item == nil {
			continue
		}
		name := fmt.Sprintf("#%d", item.ID)
		if def, ok := catalog.Lookup(item.ID); ok {
			name = fmt.Sprintf("%s (%s %s)", def.Name, combat.TierName(def.Tier), def.Type)
		}
		fmt.Printf("  %-7s %s, greatness %d\n", slot, name, item.Level())
	}
}

func printResult(r simulation.Result) {
	if r.ComputedVia.Exact() {
		fmt.Println("Results (exact):")
	} else {
		fmt.Printf("Results (%s simulations):\n", humanize.Comma(int64(r.Samples)))
	}
	fmt.Printf("  Win Rate:      %.2f%%\n", r.WinRate)
	fmt.Printf("  One-Turn Kill: %.2f%%\n", r.OTKRate)
	fmt.Printf("  Rounds:        %d (min: %d, max: %d)\n", r.ModeRounds, r.MinRounds, r.MaxRounds)
	fmt.Printf("  Damage Out:    %d (min: %d, max: %d)\n", r.ModeDamageDealt, r.MinDamageDealt, r.MaxDamageDealt)
	fmt.Printf("  Damage In:     %d (min: %d, max: %d)\n", r.ModeDamageTaken, r.MinDamageTaken, r.MaxDamageTaken)
}

func printRisk(title, avoidLabel string, r insights.RiskSummary) {
	fmt.Printf("--- %s (levels %d-%d) ---\n", title, r.MinLevel, r.MaxLevel)
	fmt.Printf("%s: %.1f%% | Crit: %.1f%% | Reduction: %.0f%%\n", avoidLabel, r.AvoidChance, r.CritChance, r.ReductionPercent)

	switch r.ComputedVia {
	case simulation.MethodNone:
		fmt.Println("Damage distribution unavailable")
		fmt.Println()
		return
	case simulation.Deterministic:
		fmt.Printf("Exact sweep over %s weighted samples\n", humanize.Comma(int64(r.Samples)))
	default:
		fmt.Printf("Sampled sweep of %s draws\n", humanize.Comma(int64(r.Samples)))
	}
	fmt.Println()

	fmt.Println("Slot    | Min  | Median | Max  | Lethal")
	fmt.Println("--------+------+--------+------+-------")
	for _, s := range r.Slots {
		label := s.Slot.String()
		if !s.Equipped {
			label += "*"
		}
		fmt.Printf("%-7s | %4d | %6d | %4d | %5.1f%%\n",
			label, s.Damage.Min, s.Damage.Median, s.Damage.Max, s.Damage.LethalChance)
	}
	fmt.Printf("%-7s | %4d | %6d | %4d | %5.1f%%\n",
		"any", r.Damage.Min, r.Damage.Median, r.Damage.Max, r.Damage.LethalChance)
	fmt.Println("(* empty slot)")
	fmt.Println()

	for _, b := range r.Damage.Buckets {
		if b.Chance == 0 {
			continue
		}
		fmt.Printf("  %-9s %5.1f%% %s\n", b.Label, b.Chance, strings.Repeat("#", int(b.Chance/2)))
	}
	fmt.Println()
}

func assessBalance(label string, winRate float64) {
	var assessment string
	switch {
	case winRate < 30:
		assessment = "DEADLY"
	case winRate < 50:
		assessment = "RISKY"
	case winRate < 70:
		assessment = "EVEN"
	case winRate < 90:
		assessment = "FAVORABLE"
	default:
		assessment = "SAFE"
	}

	color := ""
	reset := ""
	if isTerminal() {
		switch assessment {
		case "DEADLY":
			color = "\033[31m" // Red
		case "RISKY", "EVEN":
			color = "\033[33m" // Yellow
		default:
			color = "\033[32m" // Green
		}
		reset = "\033[0m"
	}

	fmt.Printf("%s assessment: %s%s%s\n", label, color, assessment, reset)
}

func isTerminal() bool {
	return os.Getenv("TERM") != "" && !strings.Contains(os.Getenv("TERM"), "dumb")
}
