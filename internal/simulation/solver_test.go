package simulation

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func fixedContext(heroHP, beastHP, heroDmg, beastDmg int) Context {
	fc := Context{
		Hero:        []DamageOption{{Damage: heroDmg, Probability: 1}},
		Beast:       []DamageOption{{Damage: beastDmg, Probability: 1}},
		HeroHealth:  heroHP,
		BeastHealth: beastHP,
	}
	fc.MinHeroDamage = MinDamage(fc.Hero)
	fc.MinBeastDamage = MinDamage(fc.Beast)
	return fc
}

func mixedContext() Context {
	fc := Context{
		Hero:        []DamageOption{{Damage: 10, Probability: 0.7}, {Damage: 20, Probability: 0.3}},
		Beast:       []DamageOption{{Damage: 8, Probability: 0.8}, {Damage: 16, Probability: 0.2}},
		HeroHealth:  60,
		BeastHealth: 70,
	}
	fc.MinHeroDamage = MinDamage(fc.Hero)
	fc.MinBeastDamage = MinDamage(fc.Beast)
	return fc
}

func assertMass(t *testing.T, name string, dist map[int]float64) {
	t.Helper()
	total := 0.0
	for _, p := range dist {
		total += p
	}
	if math.Abs(total-1) > MassTolerance {
		t.Errorf("%s mass = %v, want 1", name, total)
	}
}

func TestSolveDeterministicThreeRoundWin(t *testing.T) {
	out, err := SolveDeterministic(fixedContext(100, 100, 34, 40), Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := buildResult(out, 0, Deterministic, 0)
	if res.WinRate != 100 {
		t.Errorf("WinRate = %v, want 100", res.WinRate)
	}
	if res.ModeRounds != 3 {
		t.Errorf("ModeRounds = %d, want 3", res.ModeRounds)
	}
	if res.ModeDamageTaken != 80 {
		t.Errorf("ModeDamageTaken = %d, want 80", res.ModeDamageTaken)
	}
	if res.ModeDamageDealt != 102 {
		t.Errorf("ModeDamageDealt = %d, want 102", res.ModeDamageDealt)
	}
}

func TestSolveDeterministicLoss(t *testing.T) {
	out, err := SolveDeterministic(fixedContext(50, 100, 10, 30), Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Win != 0 || out.Lethal != 1 {
		t.Errorf("Win/Lethal = %v/%v, want 0/1", out.Win, out.Lethal)
	}
	// Hero strikes twice, beast hits 30 then 60
	if out.Rounds[2] != 1 || out.DamageTaken[60] != 1 || out.DamageDealt[20] != 1 {
		t.Errorf("unexpected distributions: rounds=%v taken=%v dealt=%v", out.Rounds, out.DamageTaken, out.DamageDealt)
	}
}

func TestSolveDeterministicMass(t *testing.T) {
	out, err := SolveDeterministic(mixedContext(), Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(out.Win+out.Lethal-1) > MassTolerance {
		t.Errorf("Win+Lethal = %v, want 1", out.Win+out.Lethal)
	}
	assertMass(t, "dealt", out.DamageDealt)
	assertMass(t, "taken", out.DamageTaken)
	assertMass(t, "rounds", out.Rounds)
	if out.Win <= 0 || out.Win >= 1 {
		t.Errorf("expected a contested fight, got win %v", out.Win)
	}
}

func TestSolveDeterministicReproducible(t *testing.T) {
	a, err := SolveDeterministic(mixedContext(), Limits{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := SolveDeterministic(mixedContext(), Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two exact solves of the same fight differ")
	}
}

func TestSolveDeterministicAmbush(t *testing.T) {
	fc := fixedContext(100, 100, 34, 40)
	fc.InitialBeastStrike = true
	fc.Initial = []DamageOption{{Damage: 40, Probability: 1}}

	out, err := SolveDeterministic(fc, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	// Opening strike leaves 60, round 1 leaves 20, round 2 kills
	if out.Lethal != 1 {
		t.Errorf("Lethal = %v, want 1", out.Lethal)
	}
	if out.Rounds[2] != 1 || out.DamageTaken[120] != 1 {
		t.Errorf("rounds=%v taken=%v", out.Rounds, out.DamageTaken)
	}
}

func TestSolveDeterministicAmbushKill(t *testing.T) {
	fc := fixedContext(30, 100, 34, 10)
	fc.InitialBeastStrike = true
	fc.Initial = []DamageOption{{Damage: 10, Probability: 0.5}, {Damage: 30, Probability: 0.5}}

	out, err := SolveDeterministic(fc, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out.Rounds[1]-0.5) > 1e-12 {
		t.Errorf("expected half the mass to die to the opening strike in round 1, got %v", out.Rounds)
	}
}

func TestSolveDeterministicTimeout(t *testing.T) {
	fc := fixedContext(100, 100, 0, 0)
	out, err := SolveDeterministic(fc, Limits{MaxRounds: 5})
	if err != nil {
		t.Fatal(err)
	}
	if out.Lethal != 1 || out.Rounds[5] != 1 {
		t.Errorf("expected timeout loss at round 5, got lethal=%v rounds=%v", out.Lethal, out.Rounds)
	}
}

func TestSolveDeterministicBudget(t *testing.T) {
	fc := mixedContext()
	fc.HeroHealth = 5000
	fc.BeastHealth = 5000
	fc.Hero = []DamageOption{{Damage: 1, Probability: 0.5}, {Damage: 2, Probability: 0.5}}
	fc.Beast = []DamageOption{{Damage: 1, Probability: 0.5}, {Damage: 2, Probability: 0.5}}

	_, err := SolveDeterministic(fc, Limits{MaxStates: 1000})
	if !errors.Is(err, ErrStateBudgetExceeded) {
		t.Errorf("expected ErrStateBudgetExceeded, got %v", err)
	}
}

func TestSolveDeterministicRejectsEmpty(t *testing.T) {
	fc := fixedContext(10, 10, 5, 5)
	fc.Beast = nil
	if _, err := SolveDeterministic(fc, Limits{}); err == nil || errors.Is(err, ErrStateBudgetExceeded) {
		t.Errorf("expected plain error for empty distribution, got %v", err)
	}
}

func TestOneTurnKillChance(t *testing.T) {
	tests := []struct {
		name string
		fc   Context
		want float64
	}{
		{
			name: "hero always kills first",
			fc:   fixedContext(10, 30, 30, 50),
			want: 0,
		},
		{
			name: "beast reply always lethal",
			fc:   fixedContext(10, 100, 30, 50),
			want: 1,
		},
		{
			name: "mixed",
			fc: Context{
				Hero:        []DamageOption{{Damage: 10, Probability: 0.6}, {Damage: 40, Probability: 0.4}},
				Beast:       []DamageOption{{Damage: 5, Probability: 0.75}, {Damage: 25, Probability: 0.25}},
				HeroHealth:  20,
				BeastHealth: 40,
			},
			want: 0.6 * 0.25,
		},
		{
			name: "ambush uses the opening strike only",
			fc: Context{
				Hero:               []DamageOption{{Damage: 100, Probability: 1}},
				Beast:              []DamageOption{{Damage: 5, Probability: 1}},
				Initial:            []DamageOption{{Damage: 5, Probability: 0.9}, {Damage: 20, Probability: 0.1}},
				HeroHealth:         20,
				BeastHealth:        40,
				InitialBeastStrike: true,
			},
			want: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OneTurnKillChance(tt.fc); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("OneTurnKillChance = %v, want %v", got, tt.want)
			}
		})
	}
}
