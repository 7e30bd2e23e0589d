package hooks

import "log/slog"

// registry maps hook name -> resolution policy. Populated in init below;
// games embedding the engine may register additional hooks before use.
var registry = map[string]Policy{}

// Register declares a hook and its policy. Re-registering an existing hook
// with a different policy is an authoring error and is logged, not applied:
// the policy is part of the hook's identity.
func Register(name string, policy Policy) {
	if existing, ok := registry[name]; ok && existing != policy {
		slog.Warn("hook already registered with a different policy",
			"hook", name,
			"registered", existing.String(),
			"ignored", policy.String())
		return
	}
	registry[name] = policy
}

// PolicyOf returns the hook's policy. Unknown hooks resolve as UNIQUE and
// are logged once per call site concern; an unknown hook always yields its
// policy default, never an error.
func PolicyOf(name string) Policy {
	p, ok := registry[name]
	if !ok {
		slog.Warn("unknown hook, resolving as UNIQUE", "hook", name)
		return Unique
	}
	return p
}

// Known reports whether a hook has been registered.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// Item hooks.
const (
	IsWeapon              = "is_weapon"
	IsSpell               = "is_spell"
	CanCounter            = "can_counter"
	CanBeCountered        = "can_be_countered"
	CanDouble             = "can_double"
	IgnoreWeaponAdvantage = "ignore_weapon_advantage"
	Droppable             = "droppable"

	Damage     = "damage"
	Hit        = "hit"
	Crit       = "crit"
	MinRange   = "min_range"
	MaxRange   = "max_range"
	WeaponRank = "weapon_rank"
	WeaponType = "weapon_type"
	Weight     = "weight"
	Uses       = "uses"

	ModifyDamage       = "modify_damage"
	ModifyResist       = "modify_resist"
	ModifyAccuracy     = "modify_accuracy"
	ModifyAvoid        = "modify_avoid"
	ModifyCritAccuracy = "modify_crit_accuracy"
	ModifyCritAvoid    = "modify_crit_avoid"
	ModifyCritDamage   = "modify_crit_damage"
	ModifyAttackSpeed  = "modify_attack_speed"

	DynamicDamage       = "dynamic_damage"
	DynamicAccuracy     = "dynamic_accuracy"
	DynamicAvoid        = "dynamic_avoid"
	DynamicAttackSpeed  = "dynamic_attack_speed"
	DynamicMultiattacks = "dynamic_multiattacks"
)

// Skill-only hooks.
const (
	DamageFormula       = "damage_formula"
	ResistFormula       = "resist_formula"
	AccuracyFormula     = "accuracy_formula"
	AvoidFormula        = "avoid_formula"
	AttackSpeedFormula  = "attack_speed_formula"
	DefenseSpeedFormula = "defense_speed_formula"

	DamageMultiplier = "damage_multiplier"
	ResistMultiplier = "resist_multiplier"

	Vantage        = "vantage"
	Desperation    = "desperation"
	Disvantage     = "disvantage"
	NoDouble       = "no_double"
	DefDouble      = "def_double"
	CritAnyway     = "crit_anyway"
	DistantCounter = "distant_counter"
	CloseCounter   = "close_counter"
	Miracle        = "miracle"
)

func init() {
	// Item capability flags. can_counter / can_be_countered / can_double
	// default true so a single negating component disables the capability.
	Register(IsWeapon, AnyDefaultFalse)
	Register(IsSpell, AnyDefaultFalse)
	Register(CanCounter, AllDefaultTrue)
	Register(CanBeCountered, AllDefaultTrue)
	Register(CanDouble, AllDefaultTrue)
	Register(IgnoreWeaponAdvantage, AnyDefaultFalse)
	Register(Droppable, AnyDefaultFalse)

	// Item value hooks.
	Register(Damage, Unique)
	Register(Hit, Unique)
	Register(Crit, Unique)
	Register(MinRange, Unique)
	Register(MaxRange, Unique)
	Register(WeaponRank, Unique)
	Register(WeaponType, Unique)
	Register(Weight, Unique)
	Register(Uses, Unique)

	// Static numeric modifiers, shared by items and skills.
	Register(ModifyDamage, NumericAccum)
	Register(ModifyResist, NumericAccum)
	Register(ModifyAccuracy, NumericAccum)
	Register(ModifyAvoid, NumericAccum)
	Register(ModifyCritAccuracy, NumericAccum)
	Register(ModifyCritAvoid, NumericAccum)
	Register(ModifyCritDamage, NumericAccum)
	Register(ModifyAttackSpeed, NumericAccum)

	// Combat-context hooks, shared by items and skills.
	Register(DynamicDamage, NumericAccum)
	Register(DynamicAccuracy, NumericAccum)
	Register(DynamicAvoid, NumericAccum)
	Register(DynamicAttackSpeed, NumericAccum)
	Register(DynamicMultiattacks, NumericAccum)

	// Skill formula overrides.
	Register(DamageFormula, Unique)
	Register(ResistFormula, Unique)
	Register(AccuracyFormula, Unique)
	Register(AvoidFormula, Unique)
	Register(AttackSpeedFormula, Unique)
	Register(DefenseSpeedFormula, Unique)

	// Skill multipliers.
	Register(DamageMultiplier, NumericMultiply)
	Register(ResistMultiplier, NumericMultiply)

	// Strike-ordering and capability skills.
	Register(Vantage, AnyDefaultFalse)
	Register(Desperation, AnyDefaultFalse)
	Register(Disvantage, AnyDefaultFalse)
	Register(NoDouble, AnyDefaultFalse)
	Register(DefDouble, AnyDefaultFalse)
	Register(CritAnyway, AnyDefaultFalse)
	Register(DistantCounter, AnyDefaultFalse)
	Register(CloseCounter, AnyDefaultFalse)
	Register(Miracle, AnyDefaultFalse)
}
