package combat

import (
	"log/slog"

	"github.com/ralvess/emblemgo/internal/game/calc"
	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// Solver resolves one encounter into an ordered strike list. It is a pure
// function of its inputs apart from the roller's draws: it tracks HP in
// local simulation and never mutates the real units or items. The caller
// commits final state from CombatResults afterward.
type Solver struct {
	env    *calc.Env
	roller *Roller
}

// NewSolver creates a solver over the calculator environment and roller.
func NewSolver(env *calc.Env, roller *Roller) *Solver {
	return &Solver{env: env, roller: roller}
}

// Roller exposes the solver's roller, shared with results replay so growth
// rolls draw from the same stream.
func (s *Solver) Roller() *Roller { return s.roller }

// resolution is one encounter's simulation state.
type resolution struct {
	env    *calc.Env
	roller *Roller

	attacker *model.Unit
	defender *model.Unit
	aItem    *model.Item
	dItem    *model.Item

	hpA int
	hpD int

	miracleA bool
	miracleD bool

	defCanCounter bool

	strikes []model.CombatStrike
}

// Resolve computes the full strike sequence for attacker vs defender.
// defenseItem may be nil (an unarmed defender cannot counter). The
// returned list may be shorter than the theoretical maximum if a side
// died partway through.
func (s *Solver) Resolve(attacker *model.Unit, attackItem *model.Item, defender *model.Unit, defenseItem *model.Item) []model.CombatStrike {
	r := &resolution{
		env:      s.env,
		roller:   s.roller,
		attacker: attacker,
		defender: defender,
		aItem:    attackItem,
		dItem:    defenseItem,
		hpA:      attacker.CurrentHP(),
		hpD:      defender.CurrentHP(),
		miracleA: hooks.SkillBool(attacker, hooks.Miracle),
		miracleD: hooks.SkillBool(defender, hooks.Miracle),
	}

	// Capability pre-computation.
	r.defCanCounter = s.env.CanCounterattack(attacker, attackItem, defender, defenseItem)
	atkDoubles := s.env.CanDouble(attacker, attackItem, defender, defenseItem)
	defDoubles := r.defCanCounter && s.env.CanDefenderDouble(attacker, attackItem, defender, defenseItem)
	atkCount := s.env.StrikeCount(attacker, attackItem, defender, defenseItem)
	defCount := s.env.StrikeCount(defender, defenseItem, attacker, attackItem)

	vantage := r.defCanCounter &&
		hooks.SkillBool(defender, hooks.Vantage) &&
		!hooks.SkillBool(attacker, hooks.Disvantage)
	disvantage := hooks.SkillBool(attacker, hooks.Disvantage) &&
		!hooks.SkillBool(attacker, hooks.Vantage)
	desperation := hooks.SkillBool(attacker, hooks.Desperation)

	slog.Debug("resolving encounter",
		"attacker", attacker.NID(),
		"defender", defender.NID(),
		"counter", r.defCanCounter,
		"atkDoubles", atkDoubles,
		"defDoubles", defDoubles,
		"vantage", vantage,
		"disvantage", disvantage,
		"desperation", desperation)

	switch {
	case vantage, disvantage:
		// Defender's full batch first, then the attacker's (with its
		// double folded in under desperation), then whichever double was
		// not already spent.
		r.defenderBatch(defCount)
		r.attackerBatch(atkCount)
		if desperation && atkDoubles {
			r.attackerBatch(atkCount)
		}
		if defDoubles {
			r.defenderBatch(defCount)
		}
		if atkDoubles && !desperation {
			r.attackerBatch(atkCount)
		}

	case desperation:
		// Attacker exhausts initial and double batches before any
		// counter fires.
		r.attackerBatch(atkCount)
		if atkDoubles {
			r.attackerBatch(atkCount)
		}
		r.defenderBatch(defCount)
		if defDoubles {
			r.defenderBatch(defCount)
		}

	default:
		r.attackerBatch(atkCount)
		r.defenderBatch(defCount)
		if atkDoubles {
			r.attackerBatch(atkCount)
		}
		if defDoubles {
			r.defenderBatch(defCount)
		}
	}

	return r.strikes
}

// attackerBatch runs one batch of attacker strikes.
func (r *resolution) attackerBatch(count int) {
	r.doStrikes(r.attacker, r.aItem, r.defender, r.dItem, count, false)
}

// defenderBatch runs one batch of defender counters, skipped entirely when
// the defender cannot counter.
func (r *resolution) defenderBatch(count int) {
	if !r.defCanCounter {
		return
	}
	r.doStrikes(r.defender, r.dItem, r.attacker, r.aItem, count, true)
}

// doStrikes emits up to count strikes, stopping early once either side's
// simulated HP reaches 0: dead units neither swing nor absorb further
// strikes.
func (r *resolution) doStrikes(striker *model.Unit, strikerItem *model.Item, target *model.Unit, targetItem *model.Item, count int, isCounter bool) {
	for range count {
		if r.simHP(striker) <= 0 || r.simHP(target) <= 0 {
			return
		}
		strike := r.resolveStrike(striker, strikerItem, target, targetItem, isCounter)
		r.strikes = append(r.strikes, strike)
		r.applyDamage(target, strike.Damage)
	}
}

// resolveStrike rolls one swing: hit, then crit only on a landed hit, then
// damage with the crit multiplier folded in.
func (r *resolution) resolveStrike(striker *model.Unit, strikerItem *model.Item, target *model.Unit, targetItem *model.Item, isCounter bool) model.CombatStrike {
	hitChance := r.env.ComputeHit(striker, strikerItem, target, targetItem)
	critChance := r.env.ComputeCrit(striker, strikerItem, target, targetItem)

	hit := r.roller.RollHit(hitChance)
	crit := hit && r.roller.RollCrit(critChance)

	damage := 0
	if hit {
		damage = r.env.ComputeDamage(striker, strikerItem, target, targetItem, crit)
	}

	return model.CombatStrike{
		Attacker:  striker,
		Defender:  target,
		Item:      strikerItem,
		Hit:       hit,
		Crit:      crit,
		Damage:    damage,
		IsCounter: isCounter,
	}
}

// simHP reads a side's simulated HP.
func (r *resolution) simHP(u *model.Unit) int {
	if u == r.attacker {
		return r.hpA
	}
	return r.hpD
}

// applyDamage lowers a side's simulated HP, flooring at 1 instead of 0
// when that side has the miracle skill.
func (r *resolution) applyDamage(target *model.Unit, damage int) {
	hp, miracle := r.hpD, r.miracleD
	if target == r.attacker {
		hp, miracle = r.hpA, r.miracleA
	}

	hp -= damage
	if miracle && hp < 1 {
		hp = 1
	}
	if hp < 0 {
		hp = 0
	}

	if target == r.attacker {
		r.hpA = hp
	} else {
		r.hpD = hp
	}
}
