package calc

import (
	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// Capability gates: item-level negation first, then skill-level negation,
// then range, then the attack-speed differential. A failed gate is a normal
// "false", never an error — an unarmed defender simply cannot counter.

// CanCounterattack reports whether the defender may answer the attacker's
// strikes with its own item.
func (e *Env) CanCounterattack(attacker *model.Unit, attackItem *model.Item, defender *model.Unit, defenseItem *model.Item) bool {
	if defenseItem == nil {
		return false
	}
	if !hooks.ItemBool(defenseItem, hooks.IsWeapon) {
		return false
	}
	// Item-level negation on either side.
	if !hooks.ItemBool(defenseItem, hooks.CanCounter) {
		return false
	}
	if attackItem != nil && !hooks.ItemBool(attackItem, hooks.CanBeCountered) {
		return false
	}
	// Skill-level negation.
	if !hooks.SkillBool(defender, hooks.CanCounter) {
		return false
	}
	// Range: distant/close counter skills bypass the distance check.
	if hooks.SkillBool(defender, hooks.DistantCounter) || hooks.SkillBool(defender, hooks.CloseCounter) {
		return true
	}
	return e.inRange(defender, defenseItem, attacker)
}

// inRange checks Manhattan distance against the item's range band. Units
// without positions fail range checks.
func (e *Env) inRange(unit *model.Unit, item *model.Item, target *model.Unit) bool {
	from, ok := unit.Position()
	if !ok {
		return false
	}
	to, ok := target.Position()
	if !ok {
		return false
	}
	dist := model.Distance(from, to)
	return dist >= hooks.ItemInt(item, hooks.MinRange, 1) &&
		dist <= hooks.ItemInt(item, hooks.MaxRange, 1)
}

// CanDouble reports whether the attacker gets a follow-up batch: the item
// allows doubling, no skill suppresses it, and the attacker's AS beats the
// defender's by at least SPEED_TO_DOUBLE.
func (e *Env) CanDouble(attacker *model.Unit, attackItem *model.Item, defender *model.Unit, defenseItem *model.Item) bool {
	if attackItem == nil || !hooks.ItemBool(attackItem, hooks.CanDouble) {
		return false
	}
	if hooks.SkillBool(attacker, hooks.NoDouble) {
		return false
	}
	return e.speedAdvantage(attacker, attackItem, defender, defenseItem)
}

// CanDefenderDouble reports whether the defender's counter batch doubles.
// Defender doubling is off by default: it needs the def_double skill or
// the DEF_DOUBLE constant, then passes the same gates in reverse.
func (e *Env) CanDefenderDouble(attacker *model.Unit, attackItem *model.Item, defender *model.Unit, defenseItem *model.Item) bool {
	if e.Data.Constant("DEF_DOUBLE", 0) == 0 && !hooks.SkillBool(defender, hooks.DefDouble) {
		return false
	}
	if defenseItem == nil || !hooks.ItemBool(defenseItem, hooks.CanDouble) {
		return false
	}
	if hooks.SkillBool(defender, hooks.NoDouble) {
		return false
	}
	return e.speedAdvantage(defender, defenseItem, attacker, attackItem)
}

// speedAdvantage compares striker AS (with dynamic modifiers) against
// target defense speed, against the data-defined doubling threshold.
func (e *Env) speedAdvantage(striker *model.Unit, strikerItem *model.Item, target *model.Unit, targetItem *model.Item) bool {
	c := ctx(striker, strikerItem, target, targetItem)
	as := e.AttackSpeed(striker, strikerItem) +
		hooks.ItemDynamic(strikerItem, hooks.DynamicAttackSpeed, c) +
		hooks.SkillDynamic(striker, hooks.DynamicAttackSpeed, c)
	ds := e.DefenseSpeed(target, targetItem)
	return as-ds >= e.Data.Constant("SPEED_TO_DOUBLE", 4)
}
