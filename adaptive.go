package rollbias

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParam reports an adaptive parameter outside its valid range.
var ErrInvalidParam = errors.New("invalid adaptive parameter")

// AdaptiveParams are the tunables of the adaptive strategy. They are
// configuration, not derived state: a snapshot that omits them means "use
// the defaults", never "use the last computed value".
type AdaptiveParams struct {
	// Beta is the adaptation rate of the error EMA, in (0,1]. Higher
	// values make the corrector react faster to recent rolls.
	Beta float64
	// Eta is the correction strength, >= 0. Zero disables correction
	// entirely; large values suppress overrepresented outcomes hard.
	Eta float64
	// Epsilon is the floor-mixing weight, in [0,1]: the corrected
	// distribution is blended with the true law so that no outcome's
	// probability can collapse to zero.
	Epsilon float64
}

// DefaultAdaptiveParams returns the stock tuning: beta 0.4, eta 20,
// epsilon 0.01.
func DefaultAdaptiveParams() AdaptiveParams {
	return AdaptiveParams{Beta: 0.4, Eta: 20, Epsilon: 0.01}
}

func (p AdaptiveParams) validate() error {
	// the negated comparisons also reject NaN
	if !(p.Beta > 0 && p.Beta <= 1) {
		return fmt.Errorf("%w: beta=%v, want (0,1]", ErrInvalidParam, p.Beta)
	}
	if !(p.Eta >= 0) || math.IsInf(p.Eta, 1) {
		return fmt.Errorf("%w: eta=%v, want a finite value >= 0", ErrInvalidParam, p.Eta)
	}
	if !(p.Epsilon >= 0 && p.Epsilon <= 1) {
		return fmt.Errorf("%w: epsilon=%v, want [0,1]", ErrInvalidParam, p.Epsilon)
	}
	return nil
}

// Adaptive samples outcomes from a distribution that is continuously
// corrected against the roll history: outcomes running hot are suppressed,
// outcomes running cold are boosted, and the whole thing converges to the
// true law as the history grows.
//
// Internally it keeps an exponential moving average of each outcome's
// deviation from its true probability, derives multiplicative weights
// p[k]*exp(-eta*e[k]) from it, floors them with an epsilon blend of the
// true law, and rebuilds its alias table from the result after every roll.
//
// The roll history is the only authoritative state. Counts, the error
// vector, the sampling distribution and the alias table are caches,
// recomputed from the history on every undo and on every restore.
type Adaptive struct {
	src    Source
	params AdaptiveParams

	rolls  []Outcome
	counts [NumOutcomes]int

	p      [NumOutcomes]float64 // true law
	errEMA [NumOutcomes]float64 // smoothed deviation per outcome
	dist   [NumOutcomes]float64 // current sampling distribution q
	table  *AliasTable
}

// NewAdaptive creates an adaptive strategy with the given parameters. It
// fails with ErrInvalidParam for out-of-range values; nothing is clamped.
func NewAdaptive(src Source, params AdaptiveParams) (*Adaptive, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	a := &Adaptive{src: src, params: params, p: TrueDistribution()}
	a.recompute()
	return a, nil
}

// Mode returns ModeAdaptive.
func (a *Adaptive) Mode() Mode {
	return ModeAdaptive
}

// Params returns the configured tunables.
func (a *Adaptive) Params() AdaptiveParams {
	return a.params
}

// Distribution returns the sampling distribution the next Roll will draw
// from. For every outcome index k it satisfies q[k] >= epsilon*p[k] > 0.
func (a *Adaptive) Distribution() [NumOutcomes]float64 {
	return a.dist
}

// Roll draws one outcome from the current corrected distribution, appends
// it to the history and folds it into the error EMA, then rebuilds the
// alias table for the next draw. One O(NumOutcomes) rebuild per roll.
func (a *Adaptive) Roll() Outcome {
	i := a.table.SampleIndex(a.src)
	o := outcomeAt(i)
	a.rolls = append(a.rolls, o)
	a.counts[i]++
	a.updateError(len(a.rolls))
	a.recompute()
	return o
}

// Undo removes the last roll and rebuilds all derived state by replaying
// the remaining history from scratch. The EMA is not invertible in closed
// form (every update renormalizes the empirical shares), so full replay is
// the only way to get bit-exact recovery; at this domain size it is cheap.
// Undo fails with ErrEmptyHistory when the history is empty.
func (a *Adaptive) Undo() error {
	if len(a.rolls) == 0 {
		return ErrEmptyHistory
	}
	a.rolls = a.rolls[:len(a.rolls)-1]
	a.replay()
	return nil
}

// Rolls returns a copy of the roll history, oldest first.
func (a *Adaptive) Rolls() []Outcome {
	return append([]Outcome(nil), a.rolls...)
}

// Snapshot captures the mode tag, the configured parameters and the roll
// history. Derived state is omitted on purpose; Restore replays instead.
func (a *Adaptive) Snapshot() Snapshot {
	beta, eta, epsilon := a.params.Beta, a.params.Eta, a.params.Epsilon
	return Snapshot{
		Mode:    ModeAdaptive,
		Rolls:   a.Rolls(),
		Beta:    &beta,
		Eta:     &eta,
		Epsilon: &epsilon,
	}
}

// updateError folds roll number t into the error EMA. Every index is
// updated, not only the outcome just drawn: incrementing t changes the
// empirical share c[k]/t of all outcomes at once, and updating only the
// drawn one diverges from the intended moving average.
func (a *Adaptive) updateError(t int) {
	beta := a.params.Beta
	for k := range a.errEMA {
		share := float64(a.counts[k]) / float64(t)
		a.errEMA[k] = (1-beta)*a.errEMA[k] + beta*(share-a.p[k])
	}
}

// replay rebuilds counts, error EMA, distribution and alias table from the
// roll history alone, applying the same per-roll update Roll applies. Undo
// and Restore both come through here, which is what makes reconstruction
// independent of how a state was produced.
func (a *Adaptive) replay() {
	a.counts = [NumOutcomes]int{}
	a.errEMA = [NumOutcomes]float64{}
	for t, o := range a.rolls {
		a.counts[o.index()]++
		a.updateError(t + 1)
	}
	a.recompute()
}

// recompute derives the sampling distribution from the error EMA and
// rebuilds the alias table. The epsilon blend guarantees
// q[k] >= epsilon*p[k] for every k, so the table never sees a degenerate
// weight vector.
func (a *Adaptive) recompute() {
	w := a.correctedWeights()
	eps := a.params.Epsilon
	sum := 0.0
	for k := range w {
		w[k] = (1-eps)*w[k] + eps*a.p[k]
		sum += w[k]
	}
	for k := range w {
		w[k] /= sum
	}
	a.dist = w

	table, err := NewAliasTable(a.dist[:])
	if err != nil {
		// unreachable: every entry of dist is positive
		panic(err)
	}
	a.table = table
}

// correctedWeights computes the normalized multiplicative weights
// p[k]*exp(-eta*e[k]). A degenerate sum (underflow to zero, or overflow)
// falls back to the true law unweighted.
func (a *Adaptive) correctedWeights() [NumOutcomes]float64 {
	var w [NumOutcomes]float64
	sum := 0.0
	for k := range w {
		w[k] = a.p[k] * math.Exp(-a.params.Eta*a.errEMA[k])
		sum += w[k]
	}
	if !(sum > 0) || math.IsInf(sum, 1) {
		return a.p
	}
	for k := range w {
		w[k] /= sum
	}
	return w
}
