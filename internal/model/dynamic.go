package model

// CombatContext is what a dynamic component payload sees when it is
// evaluated: both combatants, their items, and the running accumulator
// value for the hook being folded.
type CombatContext struct {
	Striker     *Unit
	StrikerItem *Item
	Target      *Unit
	TargetItem  *Item

	// Value is the sum accumulated so far under NUMERIC_ACCUM.
	Value int
}

// Dynamic is a component payload whose contribution depends on the combat
// context. The engine ships a closed set of kinds; content authors compose
// them rather than writing code.
type Dynamic interface {
	Eval(ctx CombatContext) int
}

// FlatBonus contributes a constant, the dynamic form of a plain number.
type FlatBonus int

func (f FlatBonus) Eval(CombatContext) int { return int(f) }

// EffectiveAgainst contributes Bonus when the target carries Tag
// (effective damage against armored, fliers, and the like).
type EffectiveAgainst struct {
	Tag   string
	Bonus int
}

func (e EffectiveAgainst) Eval(ctx CombatContext) int {
	if ctx.Target == nil || !ctx.Target.HasTag(e.Tag) {
		return 0
	}
	return e.Bonus
}

// ScaleMissingHP contributes Num/Den of the striker's missing HP, rounded
// down. Zero when the striker is at full HP or the denominator is 0.
type ScaleMissingHP struct {
	Num int
	Den int
}

func (s ScaleMissingHP) Eval(ctx CombatContext) int {
	if ctx.Striker == nil || s.Den == 0 {
		return 0
	}
	missing := ctx.Striker.MaxHP() - ctx.Striker.CurrentHP()
	if missing <= 0 {
		return 0
	}
	return missing * s.Num / s.Den
}
