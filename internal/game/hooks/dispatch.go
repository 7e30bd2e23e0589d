package hooks

import (
	"log/slog"

	"github.com/ralvess/emblemgo/internal/model"
)

// Dispatch reduces components to a single value using the hook's declared
// policy. Dispatch is pure: missing components contribute the policy
// default, malformed payloads contribute nothing beyond a warning, and no
// call ever returns an error.

// fold combines components for one hook under its registered policy.
// ctx may be nil; it is only consulted for Dynamic payloads.
func fold(comps []model.Component, hook string, ctx *model.CombatContext) any {
	policy := PolicyOf(hook)

	switch policy {
	case Unique:
		if len(comps) == 0 {
			return nil
		}
		return comps[len(comps)-1].Value

	case AllDefaultFalse:
		if len(comps) == 0 {
			return false
		}
		for _, c := range comps {
			if !truthy(c.Value) {
				return false
			}
		}
		return true

	case AllDefaultTrue:
		for _, c := range comps {
			if !truthy(c.Value) {
				return false
			}
		}
		return true

	case AnyDefaultFalse:
		for _, c := range comps {
			if truthy(c.Value) {
				return true
			}
		}
		return false

	case NumericAccum:
		sum := 0
		for _, c := range comps {
			n, ok := numeric(c.Value, ctx, sum)
			if !ok {
				slog.Warn("non-numeric component for accumulating hook",
					"hook", hook)
				continue
			}
			sum += n
		}
		return sum

	case NumericMultiply:
		product := 1.0
		for _, c := range comps {
			f, ok := floatVal(c.Value)
			if !ok {
				slog.Warn("non-numeric component for multiplying hook",
					"hook", hook)
				continue
			}
			product *= f
		}
		return product

	case NoReturn:
		return nil

	default:
		return nil
	}
}

// truthy interprets a capability component's payload. A bare component with
// no payload (nil value) counts as an affirmative definition.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return t
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// numeric coerces an accumulating payload, evaluating Dynamic kinds against
// the context with the running total visible as ctx.Value.
func numeric(v any, ctx *model.CombatContext, sofar int) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case float64:
		return int(t), true
	case model.Dynamic:
		if ctx == nil {
			return 0, true
		}
		c := *ctx
		c.Value = sofar
		return t.Eval(c), true
	default:
		return 0, false
	}
}

func floatVal(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// --- Item dispatch layer ---

// ItemBool resolves a boolean hook on an item. A nil item yields the
// policy default.
func ItemBool(item *model.Item, hook string) bool {
	b, _ := fold(item.Components().Get(hook), hook, nil).(bool)
	return b
}

// ItemValue resolves a UNIQUE hook; ok is false when undefined.
func ItemValue(item *model.Item, hook string) (any, bool) {
	v := fold(item.Components().Get(hook), hook, nil)
	return v, v != nil
}

// ItemInt resolves a UNIQUE numeric hook, falling back to def.
func ItemInt(item *model.Item, hook string, def int) int {
	v, ok := ItemValue(item, hook)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case float64:
		return int(t)
	default:
		slog.Warn("non-numeric unique component", "hook", hook, "item", item.NID())
		return def
	}
}

// ItemString resolves a UNIQUE string hook, empty when undefined.
func ItemString(item *model.Item, hook string) string {
	v, ok := ItemValue(item, hook)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// ItemAccum sums a NUMERIC_ACCUM hook's static definitions.
func ItemAccum(item *model.Item, hook string) int {
	n, _ := fold(item.Components().Get(hook), hook, nil).(int)
	return n
}

// ItemDynamic sums a NUMERIC_ACCUM hook evaluating dynamic payloads against
// the combat context.
func ItemDynamic(item *model.Item, hook string, ctx model.CombatContext) int {
	n, _ := fold(item.Components().Get(hook), hook, &ctx).(int)
	return n
}

// --- Skill dispatch layer ---

// skillComps flattens a hook's components across the unit's active skills,
// preserving attachment order so UNIQUE resolves to the most recent skill.
func skillComps(unit *model.Unit, hook string) []model.Component {
	if unit == nil {
		return nil
	}
	var out []model.Component
	for _, s := range unit.Skills() {
		out = append(out, s.Components().Get(hook)...)
	}
	return out
}

// SkillBool resolves a boolean hook across all of a unit's skills.
func SkillBool(unit *model.Unit, hook string) bool {
	b, _ := fold(skillComps(unit, hook), hook, nil).(bool)
	return b
}

// SkillString resolves a UNIQUE string hook across skills (formula
// overrides), empty when no skill defines it.
func SkillString(unit *model.Unit, hook string) string {
	v := fold(skillComps(unit, hook), hook, nil)
	s, _ := v.(string)
	return s
}

// SkillAccum sums a NUMERIC_ACCUM hook across skills.
func SkillAccum(unit *model.Unit, hook string) int {
	n, _ := fold(skillComps(unit, hook), hook, nil).(int)
	return n
}

// SkillMultiply multiplies a NUMERIC_MULTIPLY hook across skills, 1 when
// no skill defines it.
func SkillMultiply(unit *model.Unit, hook string) float64 {
	f, ok := fold(skillComps(unit, hook), hook, nil).(float64)
	if !ok {
		return 1
	}
	return f
}

// SkillDynamic sums a NUMERIC_ACCUM hook across skills with the combat
// context available to dynamic payloads.
func SkillDynamic(unit *model.Unit, hook string, ctx model.CombatContext) int {
	n, _ := fold(skillComps(unit, hook), hook, &ctx).(int)
	return n
}
