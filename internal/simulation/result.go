package simulation

// Method identifies how a Result was computed
type Method int

const (
	MethodNone Method = iota
	Deterministic
	MonteCarlo
)

// String returns the string representation of a Method
func (m Method) String() string {
	switch m {
	case Deterministic:
		return "deterministic"
	case MonteCarlo:
		return "monte_carlo"
	default:
		return "none"
	}
}

// Exact reports whether the method enumerates every outcome
func (m Method) Exact() bool {
	return m == Deterministic
}

// Result is the outcome summary of one fight. Rates are percentages.
type Result struct {
	HasOutcome bool

	WinRate float64
	OTKRate float64

	ModeDamageDealt int
	MinDamageDealt  int
	MaxDamageDealt  int

	ModeDamageTaken int
	MinDamageTaken  int
	MaxDamageTaken  int

	ModeRounds int
	MinRounds  int
	MaxRounds  int

	ComputedVia Method

	// Samples is the number of trials behind an approximate result
	Samples int
}

// NoOutcome is returned when there is no fight to simulate
func NoOutcome() Result {
	return Result{}
}

// StateOutcome is the outcome distribution of a fight from one state:
// the chance of eventually winning or dying and the distributions of total
// damage dealt, damage taken and rounds, conditioned on reaching the state.
type StateOutcome struct {
	Win    float64
	Lethal float64

	DamageDealt map[int]float64
	DamageTaken map[int]float64
	Rounds      map[int]float64
}

func newStateOutcome() StateOutcome {
	return StateOutcome{
		DamageDealt: make(map[int]float64),
		DamageTaken: make(map[int]float64),
		Rounds:      make(map[int]float64),
	}
}

// record adds a terminal branch
func (o *StateOutcome) record(won bool, dealt, taken, rounds int, p float64) {
	if won {
		o.Win += p
	} else {
		o.Lethal += p
	}
	o.DamageDealt[dealt] += p
	o.DamageTaken[taken] += p
	o.Rounds[rounds] += p
}

// normalize rescales so that Win+Lethal and every distribution sum to 1,
// restoring the mass lost to pruning
func (o *StateOutcome) normalize() {
	total := o.Win + o.Lethal
	if total <= 0 {
		return
	}
	o.Win /= total
	o.Lethal /= total
	scale(o.DamageDealt, total)
	scale(o.DamageTaken, total)
	scale(o.Rounds, total)
}

// buildResult turns a probability outcome into a Result
func buildResult(o StateOutcome, otk float64, via Method, samples int) Result {
	dealt := Summarize(o.DamageDealt)
	taken := Summarize(o.DamageTaken)
	rounds := Summarize(o.Rounds)
	return Result{
		HasOutcome:      true,
		WinRate:         o.Win * 100,
		OTKRate:         clampRate(otk * 100),
		ModeDamageDealt: dealt.Mode,
		MinDamageDealt:  dealt.Min,
		MaxDamageDealt:  dealt.Max,
		ModeDamageTaken: taken.Mode,
		MinDamageTaken:  taken.Min,
		MaxDamageTaken:  taken.Max,
		ModeRounds:      rounds.Mode,
		MinRounds:       rounds.Min,
		MaxRounds:       rounds.Max,
		ComputedVia:     via,
		Samples:         samples,
	}
}

func clampRate(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	default:
		return r
	}
}
