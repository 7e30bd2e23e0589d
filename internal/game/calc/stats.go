package calc

import (
	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// Base combat statistics: each is a data-defined equation (optionally
// overridden by a skill's formula component) plus the item and skill static
// modifiers plus terrain and support bonuses where the domain applies them.

// formulaFor returns the skill override for a formula hook, or the default
// equation name.
func formulaFor(u *model.Unit, overrideHook, def string) string {
	if name := hooks.SkillString(u, overrideHook); name != "" {
		return name
	}
	return def
}

// weightBindings exposes the equipped item's weight to the AS equations.
// An empty hand weighs nothing.
func weightBindings(item *model.Item) map[string]int {
	w := 0
	if item != nil {
		w = hooks.ItemInt(item, hooks.Weight, 0)
	}
	return map[string]int{"WEIGHT": w}
}

// Accuracy is the striker's raw hit rating with the given item.
func (e *Env) Accuracy(u *model.Unit, item *model.Item) int {
	base := e.Data.Equations().Evaluate(formulaFor(u, hooks.AccuracyFormula, "HIT"), u, weightBindings(item))
	return base +
		hooks.ItemInt(item, hooks.Hit, 0) +
		hooks.ItemAccum(item, hooks.ModifyAccuracy) +
		hooks.SkillAccum(u, hooks.ModifyAccuracy) +
		e.support(u).Accuracy
}

// Avoid is the defender's raw dodge rating, including terrain.
func (e *Env) Avoid(u *model.Unit, item *model.Item) int {
	base := e.Data.Equations().Evaluate(formulaFor(u, hooks.AvoidFormula, "AVOID"), u, weightBindings(item))
	return base +
		hooks.ItemAccum(item, hooks.ModifyAvoid) +
		hooks.SkillAccum(u, hooks.ModifyAvoid) +
		e.terrain(u).Avoid +
		e.support(u).Avoid
}

// Damage is the striker's raw might with the given item.
func (e *Env) Damage(u *model.Unit, item *model.Item) int {
	def := "DAMAGE"
	if hooks.ItemBool(item, hooks.IsSpell) {
		def = "MAGIC_DAMAGE"
	}
	base := e.Data.Equations().Evaluate(formulaFor(u, hooks.DamageFormula, def), u, weightBindings(item))
	return base +
		hooks.ItemInt(item, hooks.Damage, 0) +
		hooks.ItemAccum(item, hooks.ModifyDamage) +
		hooks.SkillAccum(u, hooks.ModifyDamage) +
		e.support(u).Damage
}

// Defense is the defender's raw mitigation against the incoming item:
// the RESIST equation and terrain resist against spells, DEFENSE and
// terrain defense otherwise.
func (e *Env) Defense(u *model.Unit, item *model.Item, magic bool) int {
	def := "DEFENSE"
	terrainBonus := e.terrain(u).Defense
	if magic {
		def = "RESIST"
		terrainBonus = e.terrain(u).Resist
	}
	base := e.Data.Equations().Evaluate(formulaFor(u, hooks.ResistFormula, def), u, weightBindings(item))
	return base +
		hooks.ItemAccum(item, hooks.ModifyResist) +
		hooks.SkillAccum(u, hooks.ModifyResist) +
		terrainBonus +
		e.support(u).Resist
}

// AttackSpeed is the striker-side effective speed, weight-adjusted by the
// AS equation's WEIGHT binding.
func (e *Env) AttackSpeed(u *model.Unit, item *model.Item) int {
	base := e.Data.Equations().Evaluate(formulaFor(u, hooks.AttackSpeedFormula, "ATTACK_SPEED"), u, weightBindings(item))
	return base +
		hooks.ItemAccum(item, hooks.ModifyAttackSpeed) +
		hooks.SkillAccum(u, hooks.ModifyAttackSpeed) +
		e.support(u).AttackSpeed
}

// DefenseSpeed is the defender-side effective speed.
func (e *Env) DefenseSpeed(u *model.Unit, item *model.Item) int {
	base := e.Data.Equations().Evaluate(formulaFor(u, hooks.DefenseSpeedFormula, "DEFENSE_SPEED"), u, weightBindings(item))
	return base +
		hooks.ItemAccum(item, hooks.ModifyAttackSpeed) +
		hooks.SkillAccum(u, hooks.ModifyAttackSpeed) +
		e.support(u).DefenseSpeed
}
