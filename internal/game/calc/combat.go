package calc

import (
	"log/slog"
	"math"

	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// ctx builds the combat context handed to dynamic component payloads.
func ctx(striker *model.Unit, sItem *model.Item, target *model.Unit, tItem *model.Item) model.CombatContext {
	return model.CombatContext{
		Striker:     striker,
		StrikerItem: sItem,
		Target:      target,
		TargetItem:  tItem,
	}
}

// WeaponTriangle returns the attacker's hit/damage bonus against the
// defender's weapon type, from the data-defined matchup table. Both
// bonuses are zero when either item lacks a weapon type, the table has no
// entry, or the attacker ignores weapon advantage.
func (e *Env) WeaponTriangle(attackItem, defenseItem *model.Item) (hitBonus, damageBonus int) {
	if attackItem == nil || defenseItem == nil {
		return 0, 0
	}
	if hooks.ItemBool(attackItem, hooks.IgnoreWeaponAdvantage) {
		return 0, 0
	}
	atkType := hooks.ItemString(attackItem, hooks.WeaponType)
	defType := hooks.ItemString(defenseItem, hooks.WeaponType)
	if atkType == "" || defType == "" {
		return 0, 0
	}
	def, ok := e.Data.WeaponType(atkType)
	if !ok {
		return 0, 0
	}
	if b, ok := def.Advantage[defType]; ok {
		return b.Hit, b.Damage
	}
	if b, ok := def.Disadvantage[defType]; ok {
		return b.Hit, b.Damage
	}
	return 0, 0
}

// ComputeHit is the displayed hit chance: attacker accuracy plus dynamic
// accuracy and weapon-triangle hit, minus defender avoid and dynamic avoid,
// clamped to [0, 100].
func (e *Env) ComputeHit(attacker *model.Unit, item *model.Item, defender *model.Unit, defenseItem *model.Item) int {
	atkCtx := ctx(attacker, item, defender, defenseItem)
	defCtx := ctx(defender, defenseItem, attacker, item)

	triangleHit, _ := e.WeaponTriangle(item, defenseItem)

	hit := e.Accuracy(attacker, item) +
		hooks.ItemDynamic(item, hooks.DynamicAccuracy, atkCtx) +
		hooks.SkillDynamic(attacker, hooks.DynamicAccuracy, atkCtx) +
		triangleHit

	avoid := e.Avoid(defender, defenseItem) +
		hooks.ItemDynamic(defenseItem, hooks.DynamicAvoid, defCtx) +
		hooks.SkillDynamic(defender, hooks.DynamicAvoid, defCtx)

	return clampPercent(hit - avoid)
}

// ComputeCrit is the displayed crit chance: crit equation plus item and
// skill crit accuracy, minus defender crit avoid, clamped to [0, 100].
// An attacker with crit_anyway is guaranteed at least CRIT_ANYWAY_MIN.
func (e *Env) ComputeCrit(attacker *model.Unit, item *model.Item, defender *model.Unit, defenseItem *model.Item) int {
	crit := e.Data.Equations().Evaluate("CRIT", attacker, nil) +
		hooks.ItemInt(item, hooks.Crit, 0) +
		hooks.ItemAccum(item, hooks.ModifyCritAccuracy) +
		hooks.SkillAccum(attacker, hooks.ModifyCritAccuracy) +
		e.support(attacker).Crit

	critAvoid := e.Data.Equations().Evaluate("CRIT_AVOID", defender, nil) +
		hooks.ItemAccum(defenseItem, hooks.ModifyCritAvoid) +
		hooks.SkillAccum(defender, hooks.ModifyCritAvoid) +
		e.support(defender).Dodge

	v := clampPercent(crit - critAvoid)
	if v == 0 && hooks.SkillBool(attacker, hooks.CritAnyway) {
		min := e.Data.Constant("CRIT_ANYWAY_MIN", 1)
		if min < 1 {
			min = 1
		}
		return min
	}
	return v
}

// ComputeDamage is the damage one strike inflicts: might minus mitigation,
// plus dynamic damage (effective bonuses and the like), crit-multiplied
// when crit is set, scaled by the attacker's damage multiplier over the
// defender's resist multiplier, floored, and never negative.
func (e *Env) ComputeDamage(attacker *model.Unit, item *model.Item, defender *model.Unit, defenseItem *model.Item, crit bool) int {
	atkCtx := ctx(attacker, item, defender, defenseItem)

	_, triangleDamage := e.WeaponTriangle(item, defenseItem)
	magic := hooks.ItemBool(item, hooks.IsSpell)

	raw := e.Damage(attacker, item) +
		triangleDamage +
		hooks.ItemDynamic(item, hooks.DynamicDamage, atkCtx) +
		hooks.SkillDynamic(attacker, hooks.DynamicDamage, atkCtx) -
		e.Defense(defender, defenseItem, magic)

	if crit {
		raw = raw*e.Data.Constant("CRIT_MULT", 3) +
			hooks.ItemAccum(item, hooks.ModifyCritDamage) +
			hooks.SkillAccum(attacker, hooks.ModifyCritDamage)
	}

	mult := hooks.SkillMultiply(attacker, hooks.DamageMultiplier)
	resist := hooks.SkillMultiply(defender, hooks.ResistMultiplier)
	if resist == 0 {
		slog.Warn("resist multiplier resolved to zero, treating as 1",
			"defender", defender.NID())
		resist = 1
	}

	dmg := int(math.Floor(float64(raw) * mult / resist))
	if dmg < 0 {
		return 0
	}
	return dmg
}

// StrikeCount is how many strikes one attack opportunity grants: one plus
// item and skill dynamic multiattacks (brave weapons and their skill
// analogues). Always at least 1.
func (e *Env) StrikeCount(unit *model.Unit, item *model.Item, target *model.Unit, targetItem *model.Item) int {
	c := ctx(unit, item, target, targetItem)
	n := 1 +
		hooks.ItemDynamic(item, hooks.DynamicMultiattacks, c) +
		hooks.SkillDynamic(unit, hooks.DynamicMultiattacks, c)
	if n < 1 {
		return 1
	}
	return n
}
