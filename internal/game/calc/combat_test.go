package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralvess/emblemgo/internal/data"
	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// triangleData is a minimal sword/axe/lance matchup table.
func triangleData() *data.GameData {
	return data.New(nil, nil, map[string]data.WeaponTypeDef{
		"sword": {
			Advantage:    map[string]data.WeaponBonus{"axe": {Hit: 15, Damage: 1}},
			Disadvantage: map[string]data.WeaponBonus{"lance": {Hit: -15, Damage: -1}},
		},
		"axe": {
			Advantage:    map[string]data.WeaponBonus{"lance": {Hit: 15, Damage: 1}},
			Disadvantage: map[string]data.WeaponBonus{"sword": {Hit: -15, Damage: -1}},
		},
	}, nil, nil)
}

func newUnit(t *testing.T, nid string, stats model.Stats) *model.Unit {
	t.Helper()
	u, err := model.NewUnit(nid, nid, "fighter", "player", 3, stats)
	require.NoError(t, err)
	return u
}

func newItem(t *testing.T, nid string, comps ...model.Component) *model.Item {
	t.Helper()
	store := model.NewComponentStore()
	for _, c := range comps {
		store.Add(c)
	}
	item, err := model.NewItem(nid, nid, store)
	require.NoError(t, err)
	return item
}

func weapon(t *testing.T, nid, wtype string, damage, hit, weight int) *model.Item {
	t.Helper()
	return newItem(t, nid,
		model.Component{Hook: hooks.IsWeapon},
		model.Component{Hook: hooks.WeaponType, Value: wtype},
		model.Component{Hook: hooks.Damage, Value: damage},
		model.Component{Hook: hooks.Hit, Value: hit},
		model.Component{Hook: hooks.Weight, Value: weight},
		model.Component{Hook: hooks.MinRange, Value: 1},
		model.Component{Hook: hooks.MaxRange, Value: 1},
	)
}

func withSkill(t *testing.T, u *model.Unit, nid string, comps ...model.Component) {
	t.Helper()
	store := model.NewComponentStore()
	for _, c := range comps {
		store.Add(c)
	}
	skill, err := model.NewSkill(nid, nid, store)
	require.NoError(t, err)
	u.AddSkill(skill)
}

// The standing fixture: a swordsman against an axe fighter, adjacent.
func fixture(t *testing.T) (env *Env, attacker, defender *model.Unit, sword, axe *model.Item) {
	t.Helper()
	env = NewEnv(triangleData(), nil, nil)

	attacker = newUnit(t, "swordsman", model.Stats{
		"HP": 22, "STR": 9, "MAG": 2, "SKL": 10, "SPD": 11, "LCK": 4, "DEF": 6, "RES": 3, "CON": 7,
	})
	defender = newUnit(t, "axeman", model.Stats{
		"HP": 26, "STR": 8, "MAG": 0, "SKL": 4, "SPD": 6, "LCK": 2, "DEF": 4, "RES": 1, "CON": 11,
	})
	attacker.SetPosition(model.Position{X: 0, Y: 0})
	defender.SetPosition(model.Position{X: 1, Y: 0})

	sword = weapon(t, "iron_sword", "sword", 5, 60, 5)
	axe = weapon(t, "iron_axe", "axe", 8, 75, 10)
	return env, attacker, defender, sword, axe
}

func TestWeaponTriangle(t *testing.T) {
	env, _, _, sword, axe := fixture(t)

	hit, dmg := env.WeaponTriangle(sword, axe)
	assert.Equal(t, 15, hit)
	assert.Equal(t, 1, dmg)

	hit, dmg = env.WeaponTriangle(axe, sword)
	assert.Equal(t, -15, hit)
	assert.Equal(t, -1, dmg)

	hit, dmg = env.WeaponTriangle(sword, nil)
	assert.Equal(t, 0, hit)
	assert.Equal(t, 0, dmg)

	untyped := newItem(t, "staff", model.Component{Hook: hooks.IsWeapon})
	hit, dmg = env.WeaponTriangle(sword, untyped)
	assert.Equal(t, 0, hit)
	assert.Equal(t, 0, dmg)
}

func TestWeaponTriangle_IgnoreAdvantage(t *testing.T) {
	env, _, _, _, axe := fixture(t)
	reaver := newItem(t, "swordreaver",
		model.Component{Hook: hooks.IsWeapon},
		model.Component{Hook: hooks.WeaponType, Value: "sword"},
		model.Component{Hook: hooks.IgnoreWeaponAdvantage},
	)
	hit, dmg := env.WeaponTriangle(reaver, axe)
	assert.Equal(t, 0, hit)
	assert.Equal(t, 0, dmg)
}

func TestComputeHit_WorkedExample(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	// Accuracy: HIT(SKL*2 + LCK//2) = 22, +60 item hit = 82.
	assert.Equal(t, 82, env.Accuracy(attacker, sword))
	// Avoid: AVOID(SPD*2 + LCK//2) = 13.
	assert.Equal(t, 13, env.Avoid(defender, axe))
	// 82 + 15 triangle - 13 = 84.
	assert.Equal(t, 84, env.ComputeHit(attacker, sword, defender, axe))

	// Reverse direction: 8+2//2=... axeman accuracy 75+9=84, -15 triangle,
	// swordsman avoid 24 -> 45.
	assert.Equal(t, 45, env.ComputeHit(defender, axe, attacker, sword))
}

func TestComputeHit_BareHands(t *testing.T) {
	env := NewEnv(data.Default(), nil, nil)
	attacker := newUnit(t, "a", model.Stats{"HP": 20, "SKL": 10, "LCK": 4, "SPD": 8, "CON": 5})
	defender := newUnit(t, "d", model.Stats{"HP": 20, "SPD": 6, "LCK": 2, "CON": 5})

	// HIT 22 vs AVOID 13 with no items on either side.
	assert.Equal(t, 9, env.ComputeHit(attacker, nil, defender, nil))
}

func TestComputeHit_Clamps(t *testing.T) {
	env, attacker, defender, _, axe := fixture(t)

	sniper := weapon(t, "silver_bow", "sword", 5, 200, 5)
	assert.Equal(t, 100, env.ComputeHit(attacker, sniper, defender, axe))

	cursed := weapon(t, "cursed_blade", "sword", 5, -300, 5)
	assert.Equal(t, 0, env.ComputeHit(attacker, cursed, defender, axe))
}

func TestComputeCrit(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	// CRIT(SKL//2)=5 - CRIT_AVOID(LCK)=2 -> 3.
	assert.Equal(t, 3, env.ComputeCrit(attacker, sword, defender, axe))

	withSkill(t, attacker, "wrath", model.Component{Hook: hooks.ModifyCritAccuracy, Value: 20})
	assert.Equal(t, 23, env.ComputeCrit(attacker, sword, defender, axe))
}

func TestComputeCrit_CritAnywayFloor(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	// Lucky defender pushes displayed crit to 0.
	lucky := newUnit(t, "lucky", model.Stats{"HP": 20, "SPD": 6, "LCK": 30, "DEF": 4})
	assert.Equal(t, 0, env.ComputeCrit(attacker, sword, lucky, axe))

	withSkill(t, attacker, "killing_intent", model.Component{Hook: hooks.CritAnyway})
	assert.Equal(t, 1, env.ComputeCrit(attacker, sword, lucky, axe))

	// The floor only applies at 0; a real chance passes through.
	assert.Equal(t, 3, env.ComputeCrit(attacker, sword, defender, axe))
}

func TestComputeDamage_WorkedExample(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	// STR 9 + might 5 + triangle 1 - DEF 4 = 11.
	assert.Equal(t, 11, env.ComputeDamage(attacker, sword, defender, axe, false))

	// Crit: raw 11 * CRIT_MULT 3 = 33.
	assert.Equal(t, 33, env.ComputeDamage(attacker, sword, defender, axe, true))
}

func TestComputeDamage_NeverNegative(t *testing.T) {
	env, attacker, _, sword, axe := fixture(t)

	wall := newUnit(t, "wall", model.Stats{"HP": 40, "SPD": 2, "DEF": 50})
	assert.Equal(t, 0, env.ComputeDamage(attacker, sword, wall, axe, false))
}

func TestComputeDamage_EffectiveBonus(t *testing.T) {
	env, attacker, defender, _, axe := fixture(t)
	defender.AddTag("armored")

	slayer := weapon(t, "armorslayer", "sword", 8, 80, 11)
	slayer.Components().Add(model.Component{
		Hook:  hooks.DynamicDamage,
		Value: model.EffectiveAgainst{Tag: "armored", Bonus: 8},
	})

	// STR 9 + might 8 + triangle 1 + effective 8 - DEF 4 = 22.
	assert.Equal(t, 22, env.ComputeDamage(attacker, slayer, defender, axe, false))
}

func TestComputeDamage_Multipliers(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	withSkill(t, attacker, "rampage", model.Component{Hook: hooks.DamageMultiplier, Value: 2.0})
	// raw 11 * 2.0 = 22.
	assert.Equal(t, 22, env.ComputeDamage(attacker, sword, defender, axe, false))

	withSkill(t, defender, "aegis", model.Component{Hook: hooks.ResistMultiplier, Value: 4.0})
	// floor(11 * 2.0 / 4.0) = 5.
	assert.Equal(t, 5, env.ComputeDamage(attacker, sword, defender, axe, false))
}

func TestComputeDamage_MagicTargetsResist(t *testing.T) {
	env, attacker, defender, _, axe := fixture(t)

	tome := newItem(t, "fire",
		model.Component{Hook: hooks.IsWeapon},
		model.Component{Hook: hooks.IsSpell},
		model.Component{Hook: hooks.Damage, Value: 5},
	)
	// MAG 2 + might 5 - RES 1 = 6 (no triangle: tome has no weapon type).
	assert.Equal(t, 6, env.ComputeDamage(attacker, tome, defender, axe, false))
}

func TestAttackSpeed_WeightBinding(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	// SPD 11, weight 5 vs CON 7 -> no penalty.
	assert.Equal(t, 11, env.AttackSpeed(attacker, sword))
	// SPD 6, weight 10 vs CON 11 -> no penalty.
	assert.Equal(t, 6, env.DefenseSpeed(defender, axe))

	heavy := weapon(t, "great_axe", "axe", 12, 60, 15)
	// SPD 11 - (15 - 7) = 3.
	assert.Equal(t, 3, env.AttackSpeed(attacker, heavy))
}

func TestStrikeCount_Brave(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	assert.Equal(t, 1, env.StrikeCount(attacker, sword, defender, axe))

	brave := weapon(t, "brave_sword", "sword", 9, 75, 12)
	brave.Components().Add(model.Component{
		Hook:  hooks.DynamicMultiattacks,
		Value: model.FlatBonus(1),
	})
	assert.Equal(t, 2, env.StrikeCount(attacker, brave, defender, axe))
}

func TestCanCounterattack(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	assert.True(t, env.CanCounterattack(attacker, sword, defender, axe))

	// Unarmed defender cannot counter.
	assert.False(t, env.CanCounterattack(attacker, sword, defender, nil))

	// A non-weapon item cannot counter.
	vulnerary := newItem(t, "vulnerary", model.Component{Hook: hooks.Uses, Value: 3})
	assert.False(t, env.CanCounterattack(attacker, sword, defender, vulnerary))

	// Item-level negation on the defender's weapon.
	siege := weapon(t, "siege_axe", "axe", 12, 60, 20)
	siege.Components().Add(model.Component{Hook: hooks.CanCounter, Value: false})
	assert.False(t, env.CanCounterattack(attacker, sword, defender, siege))

	// Item-level negation on the attacker's weapon.
	trickster := weapon(t, "trick_sword", "sword", 5, 60, 5)
	trickster.Components().Add(model.Component{Hook: hooks.CanBeCountered, Value: false})
	assert.False(t, env.CanCounterattack(attacker, trickster, defender, axe))
}

func TestCanCounterattack_Range(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	// Move the attacker out of the axe's 1-range band.
	attacker.SetPosition(model.Position{X: 0, Y: 0})
	defender.SetPosition(model.Position{X: 2, Y: 0})
	assert.False(t, env.CanCounterattack(attacker, sword, defender, axe))

	// distant_counter bypasses the range check entirely.
	withSkill(t, defender, "distant_counter", model.Component{Hook: hooks.DistantCounter})
	assert.True(t, env.CanCounterattack(attacker, sword, defender, axe))
}

func TestCanCounterattack_OffBoard(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	defender.ClearPosition()
	assert.False(t, env.CanCounterattack(attacker, sword, defender, axe))
}

func TestCanDouble(t *testing.T) {
	env, attacker, defender, sword, axe := fixture(t)

	// AS 11 vs DS 6: differential 5 >= SPEED_TO_DOUBLE 4.
	assert.True(t, env.CanDouble(attacker, sword, defender, axe))

	// The defender (AS 6 vs DS 11) does not.
	assert.False(t, env.CanDouble(defender, axe, attacker, sword))

	// Unarmed attackers never double.
	assert.False(t, env.CanDouble(attacker, nil, defender, axe))

	// no_double suppresses the follow-up.
	withSkill(t, attacker, "wary_fighter", model.Component{Hook: hooks.NoDouble})
	assert.False(t, env.CanDouble(attacker, sword, defender, axe))
}

func TestCanDefenderDouble_OffByDefault(t *testing.T) {
	env, attacker, _, sword, axe := fixture(t)

	// A fast defender still does not double without def_double.
	fast := newUnit(t, "swordmaster", model.Stats{"HP": 20, "STR": 8, "SKL": 14, "SPD": 18, "LCK": 6, "DEF": 5, "CON": 9})
	fast.SetPosition(model.Position{X: 1, Y: 0})
	assert.False(t, env.CanDefenderDouble(attacker, sword, fast, axe))

	withSkill(t, fast, "def_double", model.Component{Hook: hooks.DefDouble})
	assert.True(t, env.CanDefenderDouble(attacker, sword, fast, axe))
}

// fakeBoard maps every tile to one terrain nid.
type fakeBoard struct{ nid string }

func (b fakeBoard) Terrain(x, y int) string { return b.nid }

// fakeSupport grants a fixed bonus to one unit.
type fakeSupport struct {
	nid   string
	bonus SupportBonus
}

func (s fakeSupport) Bonus(u *model.Unit) SupportBonus {
	if u.NID() == s.nid {
		return s.bonus
	}
	return SupportBonus{}
}

func TestTerrainBonuses(t *testing.T) {
	_, _, defender, _, axe := fixture(t)

	gd := data.New(nil, nil, nil, map[string]data.TerrainDef{
		"forest": {Avoid: 20, Defense: 1},
	}, nil)
	open := NewEnv(gd, nil, nil)
	forest := NewEnv(gd, fakeBoard{nid: "forest"}, nil)

	// Forest adds 20 avoid and 1 defense to the defender.
	assert.Equal(t, open.Avoid(defender, axe)+20, forest.Avoid(defender, axe))
	assert.Equal(t, open.Defense(defender, axe, false)+1, forest.Defense(defender, axe, false))
}

func TestSupportBonuses(t *testing.T) {
	_, attacker, defender, sword, axe := fixture(t)

	base := NewEnv(triangleData(), nil, nil)
	supported := NewEnv(triangleData(), nil, fakeSupport{
		nid:   attacker.NID(),
		bonus: SupportBonus{Accuracy: 10, Damage: 2, Crit: 5},
	})

	assert.Equal(t, base.Accuracy(attacker, sword)+10, supported.Accuracy(attacker, sword))
	assert.Equal(t,
		base.ComputeDamage(attacker, sword, defender, axe, false)+2,
		supported.ComputeDamage(attacker, sword, defender, axe, false))
	assert.Equal(t,
		base.ComputeCrit(attacker, sword, defender, axe)+5,
		supported.ComputeCrit(attacker, sword, defender, axe))
}
