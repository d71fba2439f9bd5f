package simulation

import (
	"context"
	"errors"
	"testing"

	"github.com/lawnchairsociety/lootodds/internal/combat"
	"github.com/lawnchairsociety/lootodds/internal/config"
)

func TestSimulateNoOutcome(t *testing.T) {
	engine := NewEngine(nil)
	beast := newTestBeast()

	dead := newTestAdventurer()
	dead.Health = 0
	slain := combat.NewBeast(30, 5, 0)

	tests := []struct {
		name  string
		adv   *Adventurer
		beast *combat.Beast
	}{
		{"nil adventurer", nil, beast},
		{"nil beast", newTestAdventurer(), nil},
		{"dead adventurer", dead, beast},
		{"dead beast", newTestAdventurer(), &slain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.Simulate(tt.adv, tt.beast, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res != NoOutcome() || res.HasOutcome {
				t.Errorf("expected NoOutcome, got %+v", res)
			}
		})
	}
}

func TestSimulateImmediateKill(t *testing.T) {
	adv := newTestAdventurer()
	adv.Stats.Luck = 0
	beast := combat.NewBeast(30, 5, 20)

	res, err := NewEngine(nil).Simulate(adv, &beast, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.WinRate != 100 || res.OTKRate != 0 {
		t.Errorf("WinRate/OTKRate = %v/%v, want 100/0", res.WinRate, res.OTKRate)
	}
	if res.ModeRounds != 1 || res.MaxDamageTaken != 0 || res.ModeDamageDealt != 25 {
		t.Errorf("unexpected summary %+v", res)
	}
	if !res.ComputedVia.Exact() {
		t.Errorf("ComputedVia = %v, want deterministic", res.ComputedVia)
	}
}

func TestSimulateUsesBeastHealthOverride(t *testing.T) {
	adv := newTestAdventurer()
	adv.Stats.Luck = 0
	adv.BeastHealth = 10
	beast := combat.NewBeast(30, 5, 500)

	res, err := NewEngine(nil).Simulate(adv, &beast, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.WinRate != 100 || res.ModeRounds != 1 {
		t.Errorf("expected a one-strike win against 10 health, got %+v", res)
	}
}

func TestSimulateMonotonicInHealth(t *testing.T) {
	engine := NewEngine(nil)
	beast := newTestBeast()

	prev := -1.0
	for health := 10; health <= 200; health += 10 {
		adv := newTestAdventurer()
		adv.Health = health
		res, err := engine.Simulate(adv, beast, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if res.WinRate < prev-1e-9 {
			t.Errorf("win rate fell from %v to %v at health %d", prev, res.WinRate, health)
		}
		if res.WinRate < 0 || res.WinRate > 100 || res.OTKRate < 0 || res.OTKRate > 100 {
			t.Errorf("rates out of range at health %d: %+v", health, res)
		}
		prev = res.WinRate
	}
}

func TestSimulateAmbush(t *testing.T) {
	engine := NewEngine(nil)
	beast := newTestBeast()

	adv := newTestAdventurer()
	adv.Health = 40
	plain, err := engine.Simulate(adv, beast, Options{})
	if err != nil {
		t.Fatal(err)
	}
	ambushed, err := engine.Simulate(adv, beast, Options{InitialBeastStrike: true})
	if err != nil {
		t.Fatal(err)
	}
	if ambushed.WinRate > plain.WinRate+1e-9 {
		t.Errorf("a free beast strike should never help: %v > %v", ambushed.WinRate, plain.WinRate)
	}
}

func TestSimulateFallsBackToSampling(t *testing.T) {
	tests := []struct {
		name   string
		solver ExactSolver
	}{
		{"budget exceeded", func(Context, Limits) (StateOutcome, error) {
			return StateOutcome{}, ErrStateBudgetExceeded
		}},
		{"stack error", func(Context, Limits) (StateOutcome, error) {
			return StateOutcome{}, errors.New("runtime: goroutine stack exceeds 1000000000-byte limit")
		}},
		{"stack panic", func(Context, Limits) (StateOutcome, error) {
			panic("Maximum call stack size exceeded")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(nil, WithExactSolver(tt.solver))
			res, err := engine.Simulate(newTestAdventurer(), newTestBeast(), Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.ComputedVia != MonteCarlo || res.Samples != DefaultSampleCount {
				t.Errorf("expected a sampled result, got %v with %d samples", res.ComputedVia, res.Samples)
			}
		})
	}
}

func TestSimulatePropagatesOtherErrors(t *testing.T) {
	boom := errors.New("corrupt table")
	engine := NewEngine(nil, WithExactSolver(func(Context, Limits) (StateOutcome, error) {
		return StateOutcome{}, boom
	}))

	if _, err := engine.Simulate(newTestAdventurer(), newTestBeast(), Options{}); !errors.Is(err, boom) {
		t.Errorf("expected %v, got %v", boom, err)
	}
}

func TestSimulateRepanicsOtherPanics(t *testing.T) {
	engine := NewEngine(nil, WithExactSolver(func(Context, Limits) (StateOutcome, error) {
		panic("index out of range")
	}))

	defer func() {
		if recover() == nil {
			t.Error("expected the panic to propagate")
		}
	}()
	engine.Simulate(newTestAdventurer(), newTestBeast(), Options{})
}

func TestSimulateSampledReproducible(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.SampleCount = 2000
	over := WithExactSolver(func(Context, Limits) (StateOutcome, error) {
		return StateOutcome{}, ErrStateBudgetExceeded
	})

	a, err := NewEngine(cfg, over).Simulate(newTestAdventurer(), newTestBeast(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewEngine(cfg, over).Simulate(newTestAdventurer(), newTestBeast(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("sampled results differ: %+v vs %+v", a, b)
	}
}

func TestSimulateContextWorker(t *testing.T) {
	worker := NewWorker(2)
	defer worker.Close()

	engine := NewEngine(nil, WithExecutor(worker))
	got, err := engine.SimulateContext(context.Background(), newTestAdventurer(), newTestBeast(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want, err := engine.Simulate(newTestAdventurer(), newTestBeast(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("worker result %+v differs from inline %+v", got, want)
	}
}

func TestSimulateContextClosedWorker(t *testing.T) {
	worker := NewWorker(1)
	worker.Close()

	if err := worker.Submit(func() {}); !errors.Is(err, ErrWorkerClosed) {
		t.Fatalf("expected ErrWorkerClosed, got %v", err)
	}

	engine := NewEngine(nil, WithExecutor(worker))
	res, err := engine.SimulateContext(context.Background(), newTestAdventurer(), newTestBeast(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasOutcome {
		t.Error("expected inline fallback to produce an outcome")
	}
}

func TestIsStackExhaustion(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"runtime: goroutine stack exceeds 1000000000-byte limit", true},
		{"fatal error: stack overflow", true},
		{"RangeError: Maximum call stack size exceeded", true},
		{"index out of range [3] with length 2", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsStackExhaustion(tt.msg); got != tt.want {
			t.Errorf("IsStackExhaustion(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
