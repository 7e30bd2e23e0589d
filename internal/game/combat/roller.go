package combat

import (
	"fmt"
	"math/rand/v2"
)

// RNGMode selects how hit probability converts into a boolean outcome.
// Chosen per battle, not per strike.
type RNGMode string

const (
	// RNGClassic is one uniform roll in [0,100): hit if roll < chance.
	RNGClassic RNGMode = "classic"
	// RNGTrueHit averages two independent rolls, biasing toward the
	// displayed chance's favored side.
	RNGTrueHit RNGMode = "true_hit"
	// RNGTrueHitPlus averages three independent rolls.
	RNGTrueHitPlus RNGMode = "true_hit_plus"
	// RNGGrandmaster always hits, bypassing the roll entirely.
	RNGGrandmaster RNGMode = "grandmaster"
)

// ParseRNGMode validates a config-supplied mode string.
func ParseRNGMode(s string) (RNGMode, error) {
	switch RNGMode(s) {
	case RNGClassic, RNGTrueHit, RNGTrueHitPlus, RNGGrandmaster:
		return RNGMode(s), nil
	case "":
		return RNGTrueHit, nil
	default:
		return "", fmt.Errorf("unknown rng mode %q", s)
	}
}

// Roller turns probabilities into outcomes. The random source is
// injectable so tests and replays can fix a seed.
type Roller struct {
	mode RNGMode
	rng  *rand.Rand
}

// NewRoller creates a roller for the given mode. A nil source gets a
// freshly seeded PCG.
func NewRoller(mode RNGMode, rng *rand.Rand) *Roller {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Roller{mode: mode, rng: rng}
}

// Mode returns the roller's RNG mode.
func (r *Roller) Mode() RNGMode { return r.mode }

// RollHit resolves a hit chance in [0,100] under the battle's RNG mode.
func (r *Roller) RollHit(chance int) bool {
	if r.mode == RNGGrandmaster {
		return true
	}
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	switch r.mode {
	case RNGTrueHit:
		avg := (r.rng.IntN(100) + r.rng.IntN(100)) / 2
		return avg < chance
	case RNGTrueHitPlus:
		avg := (r.rng.IntN(100) + r.rng.IntN(100) + r.rng.IntN(100)) / 3
		return avg < chance
	default:
		return r.rng.IntN(100) < chance
	}
}

// RollCrit resolves a crit chance. Crit is always a single classic-style
// roll regardless of the battle's hit mode.
func (r *Roller) RollCrit(chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return r.rng.IntN(100) < chance
}

// Percent is a single roll against a percentage, used for growth-rate
// rolls when replaying level-ups.
func (r *Roller) Percent(chance int) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 100 {
		return true
	}
	return r.rng.IntN(100) < chance
}
