package combat

import (
	"github.com/ralvess/emblemgo/internal/data"
	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// LevelUp is one level gained from an encounter, with rolled stat gains.
type LevelUp struct {
	Level int
	Gains map[string]int
}

// CombatResults is the committed summary of an encounter, produced by
// replaying the strike list against starting HP. It is the only artifact
// the save/undo layer needs to persist: applying it to the pre-combat
// state reproduces the post-combat state exactly.
type CombatResults struct {
	AttackerFinalHP int
	DefenderFinalHP int
	AttackerDead    bool
	DefenderDead    bool

	ExpGained int
	LevelUps  []LevelUp

	AttackerWeaponBroke bool
	DefenderWeaponBroke bool

	DroppedItems []*model.Item
}

// BuildResults replays strikes from the combatants' current HP. The replay
// applies the same clamp and miracle rules as the solver's simulation, so
// final HP always matches what the solver tracked internally.
func BuildResults(strikes []model.CombatStrike, attacker *model.Unit, attackItem *model.Item, defender *model.Unit, defenseItem *model.Item, gd *data.GameData, roller *Roller) CombatResults {
	hpA := attacker.CurrentHP()
	hpD := defender.CurrentHP()
	miracleA := hooks.SkillBool(attacker, hooks.Miracle)
	miracleD := hooks.SkillBool(defender, hooks.Miracle)

	attackerStrikesLanded := 0
	defenderStrikesLanded := 0

	for _, strike := range strikes {
		if strike.Hit {
			if strike.Attacker == attacker {
				attackerStrikesLanded++
			} else {
				defenderStrikesLanded++
			}
		}

		target := strike.Defender
		if target == attacker {
			hpA -= strike.Damage
			if miracleA && hpA < 1 {
				hpA = 1
			}
			if hpA < 0 {
				hpA = 0
			}
		} else {
			hpD -= strike.Damage
			if miracleD && hpD < 1 {
				hpD = 1
			}
			if hpD < 0 {
				hpD = 0
			}
		}
	}

	res := CombatResults{
		AttackerFinalHP: hpA,
		DefenderFinalHP: hpD,
		AttackerDead:    hpA <= 0,
		DefenderDead:    hpD <= 0,
	}

	// Weapon durability: a landed strike spends one use; a miss spends
	// nothing. The caller decrements real uses on commit.
	res.AttackerWeaponBroke = weaponBroke(attackItem, attackerStrikesLanded)
	res.DefenderWeaponBroke = weaponBroke(defenseItem, defenderStrikesLanded)

	// Dropped items from a dying defender.
	if res.DefenderDead {
		for _, item := range defender.Items() {
			if hooks.ItemBool(item, hooks.Droppable) {
				res.DroppedItems = append(res.DroppedItems, item)
			}
		}
	}

	// Experience for the surviving attacker, constants-driven.
	if !res.AttackerDead && attackerStrikesLanded > 0 {
		exp := gd.Constant("EXP_BASE", 10) +
			(defender.Level()-attacker.Level())*gd.Constant("EXP_LEVEL_FACTOR", 2)
		if exp < 1 {
			exp = 1
		}
		if res.DefenderDead {
			exp *= gd.Constant("EXP_KILL_MULT", 3)
		}
		if exp > 100 {
			exp = 100
		}
		res.ExpGained = exp
		res.LevelUps = rollLevelUps(attacker, exp, gd, roller)
	}

	return res
}

// weaponBroke reports whether usesSpent exhausts the item's remaining
// durability. Items without a uses component never break.
func weaponBroke(item *model.Item, usesSpent int) bool {
	if item == nil || item.MaxUses() == 0 {
		return false
	}
	return usesSpent >= item.CurrentUses()
}

// rollLevelUps converts gained experience into level-ups, rolling each
// stat against the unit's data-defined growth percentages. A growth of
// 170 gives one guaranteed point plus a 70% roll for a second.
func rollLevelUps(unit *model.Unit, exp int, gd *data.GameData, roller *Roller) []LevelUp {
	perLevel := gd.Constant("EXP_PER_LEVEL", 100)
	if perLevel <= 0 {
		return nil
	}

	total := unit.Exp() + exp
	level := unit.Level()
	growths := gd.Growths(unit.NID())

	var ups []LevelUp
	for total >= perLevel {
		total -= perLevel
		level++
		gains := map[string]int{}
		for stat, pct := range growths {
			points := pct / 100
			if roller.Percent(pct % 100) {
				points++
			}
			if points > 0 {
				gains[stat] = points
			}
		}
		ups = append(ups, LevelUp{Level: level, Gains: gains})
	}
	return ups
}
