package rollbias

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAdaptiveParams(t *testing.T) {
	p := DefaultAdaptiveParams()
	assert.Equal(t, 0.4, p.Beta)
	assert.Equal(t, 20.0, p.Eta)
	assert.Equal(t, 0.01, p.Epsilon)
}

func TestNewAdaptive_RejectsInvalidParams(t *testing.T) {
	src := NewDPRNG(1)
	cases := []struct {
		name   string
		params AdaptiveParams
	}{
		{"beta zero", AdaptiveParams{Beta: 0, Eta: 20, Epsilon: 0.01}},
		{"beta above one", AdaptiveParams{Beta: 1.5, Eta: 20, Epsilon: 0.01}},
		{"beta NaN", AdaptiveParams{Beta: math.NaN(), Eta: 20, Epsilon: 0.01}},
		{"negative eta", AdaptiveParams{Beta: 0.4, Eta: -1, Epsilon: 0.01}},
		{"infinite eta", AdaptiveParams{Beta: 0.4, Eta: math.Inf(1), Epsilon: 0.01}},
		{"negative epsilon", AdaptiveParams{Beta: 0.4, Eta: 20, Epsilon: -0.1}},
		{"epsilon above one", AdaptiveParams{Beta: 0.4, Eta: 20, Epsilon: 1.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewAdaptive(src, tc.params)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, ErrInvalidParam)
		})
	}
}

func TestNewAdaptive_BoundaryParamsAccepted(t *testing.T) {
	src := NewDPRNG(1)
	for _, p := range []AdaptiveParams{
		{Beta: 1, Eta: 0, Epsilon: 0},
		{Beta: 0.001, Eta: 100, Epsilon: 1},
	} {
		_, err := NewAdaptive(src, p)
		assert.NoError(t, err)
	}
}

func TestAdaptive_RollStaysInDomain(t *testing.T) {
	a, err := NewAdaptive(NewCPRNG(8192), DefaultAdaptiveParams())
	assert.NoError(t, err)
	for range 5000 {
		o := a.Roll()
		assert.True(t, o.Valid(), "rolled %d", o)
	}
	assert.Len(t, a.Rolls(), 5000)
}

// TestAdaptive_FloorInvariant rolls many times and checks after every roll
// that no outcome's sampling probability ever drops below epsilon times
// its true probability.
func TestAdaptive_FloorInvariant(t *testing.T) {
	params := DefaultAdaptiveParams()
	a, err := NewAdaptive(NewDPRNG(0x1234567890ABCDEF), params)
	assert.NoError(t, err)

	p := TrueDistribution()
	for i := range 2000 {
		a.Roll()
		q := a.Distribution()
		for k := range q {
			floor := params.Epsilon * p[k] * (1 - 1e-9) // renormalization slack
			if q[k] < floor {
				t.Fatalf("roll %d: q[%d]=%g below floor %g", i, k, q[k], floor)
			}
		}
	}
}

// TestAdaptive_UndoIsExactInverse captures the full derived state, rolls
// once, undoes, and requires bit-exact recovery. Undo replays the history
// from scratch, so this holds exactly, not approximately.
func TestAdaptive_UndoIsExactInverse(t *testing.T) {
	a, err := NewAdaptive(NewDPRNG(0xABCDEF), DefaultAdaptiveParams())
	assert.NoError(t, err)
	for range 50 {
		a.Roll()
	}

	rollsBefore := a.Rolls()
	distBefore := a.dist
	emaBefore := a.errEMA
	countsBefore := a.counts

	a.Roll()
	assert.NoError(t, a.Undo())

	assert.Equal(t, rollsBefore, a.Rolls())
	assert.Equal(t, distBefore, a.dist, "q must be restored bit-for-bit")
	assert.Equal(t, emaBefore, a.errEMA, "EMA must be restored bit-for-bit")
	assert.Equal(t, countsBefore, a.counts)
}

func TestAdaptive_UndoEmptyHistoryFails(t *testing.T) {
	a, err := NewAdaptive(NewDPRNG(5), DefaultAdaptiveParams())
	assert.NoError(t, err)
	assert.ErrorIs(t, a.Undo(), ErrEmptyHistory)

	a.Roll()
	assert.NoError(t, a.Undo())
	assert.ErrorIs(t, a.Undo(), ErrEmptyHistory)
}

// TestAdaptive_RestoreReplaysHistory serializes a live instance and
// restores it, expecting bit-identical derived state: restore must depend
// only on the history and parameters, never on how the snapshot was made.
func TestAdaptive_RestoreReplaysHistory(t *testing.T) {
	a, err := NewAdaptive(NewDPRNG(0x77777777), AdaptiveParams{Beta: 0.3, Eta: 15, Epsilon: 0.02})
	assert.NoError(t, err)
	for range 200 {
		a.Roll()
	}

	snap := a.Snapshot()
	restored, err := Restore(NewDPRNG(1), snap)
	assert.NoError(t, err)

	ra, ok := restored.(*Adaptive)
	assert.True(t, ok)
	assert.Equal(t, a.Rolls(), ra.Rolls())
	assert.Equal(t, a.Params(), ra.Params())
	assert.Equal(t, a.dist, ra.dist, "restored q must equal live q bit-for-bit")
	assert.Equal(t, a.errEMA, ra.errEMA)
}

// TestAdaptive_ReplayDeterminism replays the same history into two fresh
// instances and expects identical derived state.
func TestAdaptive_ReplayDeterminism(t *testing.T) {
	history := []Outcome{7, 7, 7, 6, 2, 12, 8, 7, 5, 9, 7, 3}
	snap := Snapshot{Mode: ModeAdaptive, Rolls: history}

	r1, err := Restore(NewDPRNG(1), snap)
	assert.NoError(t, err)
	r2, err := Restore(NewDPRNG(99999), snap)
	assert.NoError(t, err)

	a1 := r1.(*Adaptive)
	a2 := r2.(*Adaptive)
	assert.Equal(t, a1.dist, a2.dist)
	assert.Equal(t, a1.errEMA, a2.errEMA)
}

// TestAdaptive_SuppressesHotOutcome restores a history that is nothing but
// sevens and checks the corrector pushes the seven's probability below its
// true value while boosting the cold outcomes.
func TestAdaptive_SuppressesHotOutcome(t *testing.T) {
	history := make([]Outcome, 20)
	for i := range history {
		history[i] = 7
	}
	restored, err := Restore(NewDPRNG(1), Snapshot{Mode: ModeAdaptive, Rolls: history})
	assert.NoError(t, err)

	a := restored.(*Adaptive)
	p := TrueDistribution()
	q := a.Distribution()

	seven := Outcome(7).index()
	assert.Less(t, q[seven], p[seven], "overrepresented outcome must be suppressed")
	two := Outcome(2).index()
	assert.Greater(t, q[two], p[two], "underrepresented outcome must be boosted")
}

// TestAdaptive_EtaZeroDisablesCorrection: with eta 0 the corrected weights
// equal the true law regardless of history.
func TestAdaptive_EtaZeroDisablesCorrection(t *testing.T) {
	a, err := NewAdaptive(NewDPRNG(42), AdaptiveParams{Beta: 0.4, Eta: 0, Epsilon: 0.01})
	assert.NoError(t, err)
	for range 100 {
		a.Roll()
	}
	p := TrueDistribution()
	q := a.Distribution()
	for k := range q {
		assert.InDelta(t, p[k], q[k], 1e-12, "index %d", k)
	}
}

// TestAdaptive_LongRunConvergence: over a long run the empirical
// frequencies must track the true law closely — the corrector may only
// ever pull toward it.
func TestAdaptive_LongRunConvergence(t *testing.T) {
	a, err := NewAdaptive(NewDPRNG(0x5EED), DefaultAdaptiveParams())
	assert.NoError(t, err)

	const rolls = 20_000
	var counts [NumOutcomes]int
	for range rolls {
		counts[a.Roll().index()]++
	}

	p := TrueDistribution()
	for k := range counts {
		share := float64(counts[k]) / float64(rolls)
		assert.InDelta(t, p[k], share, 0.02, "outcome %d drifted from the law", outcomeAt(k))
	}
}

func TestAdaptive_SnapshotCarriesParams(t *testing.T) {
	params := AdaptiveParams{Beta: 0.25, Eta: 10, Epsilon: 0.05}
	a, err := NewAdaptive(NewDPRNG(3), params)
	assert.NoError(t, err)

	snap := a.Snapshot()
	assert.Equal(t, ModeAdaptive, snap.Mode)
	if assert.NotNil(t, snap.Beta) {
		assert.Equal(t, params.Beta, *snap.Beta)
	}
	if assert.NotNil(t, snap.Eta) {
		assert.Equal(t, params.Eta, *snap.Eta)
	}
	if assert.NotNil(t, snap.Epsilon) {
		assert.Equal(t, params.Epsilon, *snap.Epsilon)
	}
}
