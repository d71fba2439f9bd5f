package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/config"
	"github.com/lawnchairsociety/lootodds/internal/items"
	"github.com/lawnchairsociety/lootodds/internal/logger"
)

// ErrStackExhausted marks a solver failure that looks like running out of
// stack. It is treated like ErrStateBudgetExceeded.
var ErrStackExhausted = errors.New("simulation: stack exhausted")

// Options modifies a single simulation request
type Options struct {
	// InitialBeastStrike gives the beast a free strike before the
	// adventurer acts, as when new gear was just equipped.
	InitialBeastStrike bool
}

// ExactSolver is the signature of the deterministic solver
type ExactSolver func(Context, Limits) (StateOutcome, error)

// Engine runs fight simulations. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	cfg      config.SimulationConfig
	catalog  *items.Catalog
	executor Executor
	exact    ExactSolver
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithCatalog sets the item catalog used to resolve equipment
func WithCatalog(c *items.Catalog) EngineOption {
	return func(e *Engine) { e.catalog = c }
}

// WithExecutor sets the executor used by SimulateContext
func WithExecutor(x Executor) EngineOption {
	return func(e *Engine) { e.executor = x }
}

// WithExactSolver replaces the deterministic solver
func WithExactSolver(s ExactSolver) EngineOption {
	return func(e *Engine) { e.exact = s }
}

// NewEngine creates an engine. A nil config uses the defaults.
func NewEngine(cfg *config.EngineConfig, opts ...EngineOption) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e := &Engine{
		cfg:      cfg.Simulation,
		catalog:  items.DefaultCatalog(),
		executor: Inline{},
		exact:    SolveDeterministic,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildContext assembles the solver context of a fight
func (e *Engine) BuildContext(adv *Adventurer, beast *combat.Beast, opts Options) Context {
	level := adv.Level()
	fc := Context{
		Hero:               HeroOptions(adv, beast, e.catalog),
		Beast:              BeastOptions(adv, beast, e.catalog, combat.BeastCritChance(level)),
		HeroHealth:         adv.Health,
		BeastHealth:        currentBeastHealth(adv, beast),
		InitialBeastStrike: opts.InitialBeastStrike,
	}
	if opts.InitialBeastStrike {
		chance := combat.AmbushCritChance(level, e.cfg.AmbushCritMultiplier)
		fc.Initial = BeastOptions(adv, beast, e.catalog, chance)
	}
	fc.MinHeroDamage = MinDamage(fc.Hero)
	fc.MinBeastDamage = MinDamage(fc.Beast)
	return fc
}

// Simulate computes the outcome of the adventurer fighting the beast. A
// missing or defeated side yields NoOutcome. Capacity failures of the exact
// solver fall back to sampling; any other failure is returned.
func (e *Engine) Simulate(adv *Adventurer, beast *combat.Beast, opts Options) (Result, error) {
	if !canFight(adv, beast) {
		return NoOutcome(), nil
	}

	fc := e.BuildContext(adv, beast, opts)
	return e.SimulateFight(fc)
}

// SimulateFight solves a prepared context
func (e *Engine) SimulateFight(fc Context) (Result, error) {
	if fc.HeroHealth <= 0 || fc.BeastHealth <= 0 {
		return NoOutcome(), nil
	}

	estimate := Estimate(fc, e.cfg.MaxRounds)
	method := ChooseMethod(estimate, e.cfg.MaxStateVisits)
	logger.Debug("simulation method chosen",
		"method", method,
		"hero_states", estimate.HeroStates,
		"beast_states", estimate.BeastStates,
		"branching", estimate.BranchingFactor,
		"weighted", estimate.Weighted)

	if method == Deterministic {
		res, err := e.solveExact(fc)
		switch {
		case err == nil:
			return res, nil
		case errors.Is(err, ErrStateBudgetExceeded):
			logger.Debug("exact solve over budget, sampling instead", "error", err)
		case errors.Is(err, ErrStackExhausted):
			logger.Warning("exact solve exhausted the stack, sampling instead", "error", err)
		default:
			return Result{}, err
		}
	}

	return e.sample(fc), nil
}

// SimulateContext runs Simulate on the engine's executor. If the executor
// refuses the task it runs inline. Cancelling ctx stops the wait, not the
// computation.
func (e *Engine) SimulateContext(ctx context.Context, adv *Adventurer, beast *combat.Beast, opts Options) (Result, error) {
	type reply struct {
		res Result
		err error
	}
	done := make(chan reply, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("simulation panicked: %v", r)}
			}
		}()
		res, err := e.Simulate(adv, beast, opts)
		done <- reply{res: res, err: err}
	}

	if err := e.executor.Submit(task); err != nil {
		logger.Debug("executor unavailable, simulating inline", "error", err)
		return e.Simulate(adv, beast, opts)
	}

	select {
	case r := <-done:
		return r.res, r.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// solveExact runs the exact solver inside a failure boundary that turns
// stack-exhaustion shaped failures into ErrStackExhausted
func (e *Engine) solveExact(fc Context) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = RecoveredStackError(r)
		}
	}()

	outcome, err := e.exact(fc, Limits{MaxStates: e.cfg.MaxStateVisits, MaxRounds: e.cfg.MaxRounds})
	if err != nil {
		if !errors.Is(err, ErrStateBudgetExceeded) && IsStackExhaustion(err.Error()) {
			return Result{}, fmt.Errorf("%w: %v", ErrStackExhausted, err)
		}
		return Result{}, err
	}
	return buildResult(outcome, OneTurnKillChance(fc), Deterministic, 0), nil
}

func (e *Engine) sample(fc Context) Result {
	seed := e.cfg.Seed
	if seed == 0 {
		seed = SeedFor(fc)
	}
	samples := SampleFights(fc, e.cfg.SampleCount, e.cfg.MaxRounds, NewRand(seed))
	return samples.toResult()
}

// RecoveredStackError converts a recovered panic value into an error
// wrapping ErrStackExhausted. Any other panic is re-raised.
func RecoveredStackError(r any) error {
	msg := fmt.Sprint(r)
	if !IsStackExhaustion(msg) {
		panic(r)
	}
	return fmt.Errorf("%w: %s", ErrStackExhausted, msg)
}

var stackWording = []string{"stack overflow", "maximum call stack", "stack exceeds", "stack size"}

// IsStackExhaustion reports whether a failure description reads like the
// stack ran out
func IsStackExhaustion(msg string) bool {
	msg = strings.ToLower(msg)
	for _, w := range stackWording {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}
