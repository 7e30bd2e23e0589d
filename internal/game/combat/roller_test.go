package combat

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestParseRNGMode(t *testing.T) {
	for _, s := range []string{"classic", "true_hit", "true_hit_plus", "grandmaster"} {
		mode, err := ParseRNGMode(s)
		require.NoError(t, err)
		assert.Equal(t, RNGMode(s), mode)
	}

	mode, err := ParseRNGMode("")
	require.NoError(t, err)
	assert.Equal(t, RNGTrueHit, mode, "empty mode defaults to true_hit")

	_, err = ParseRNGMode("coin_flip")
	assert.Error(t, err)
}

func TestRollHit_Bounds(t *testing.T) {
	for _, mode := range []RNGMode{RNGClassic, RNGTrueHit, RNGTrueHitPlus} {
		r := NewRoller(mode, seeded(1))
		assert.False(t, r.RollHit(0), "mode %s: chance 0 never hits", mode)
		assert.False(t, r.RollHit(-10), "mode %s: negative chance never hits", mode)
		assert.True(t, r.RollHit(100), "mode %s: chance 100 always hits", mode)
		assert.True(t, r.RollHit(150), "mode %s: chance above 100 always hits", mode)
	}
}

func TestRollHit_GrandmasterAlwaysHits(t *testing.T) {
	r := NewRoller(RNGGrandmaster, seeded(1))
	for range 50 {
		assert.True(t, r.RollHit(0))
	}
}

func TestRollHit_TrueHitBiasesHighChances(t *testing.T) {
	// With two-roll averaging, a displayed 75 should land well above 75%.
	const trials = 20000
	r := NewRoller(RNGTrueHit, seeded(7))
	hits := 0
	for range trials {
		if r.RollHit(75) {
			hits++
		}
	}
	rate := float64(hits) / trials
	assert.Greater(t, rate, 0.82, "true hit rate for displayed 75 was %.3f", rate)
}

func TestRollCrit_SingleClassicRoll(t *testing.T) {
	// Crit uses one classic roll even under grandmaster.
	r := NewRoller(RNGGrandmaster, seeded(3))
	assert.False(t, r.RollCrit(0))
	assert.True(t, r.RollCrit(100))

	const trials = 20000
	crits := 0
	for range trials {
		if r.RollCrit(25) {
			crits++
		}
	}
	rate := float64(crits) / trials
	assert.InDelta(t, 0.25, rate, 0.02)
}

func TestPercent_Bounds(t *testing.T) {
	r := NewRoller(RNGClassic, seeded(5))
	assert.False(t, r.Percent(0))
	assert.True(t, r.Percent(100))
}
