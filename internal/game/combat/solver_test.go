package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralvess/emblemgo/internal/data"
	"github.com/ralvess/emblemgo/internal/game/calc"
	"github.com/ralvess/emblemgo/internal/game/hooks"
	"github.com/ralvess/emblemgo/internal/model"
)

// Luck stats are set high enough that neither side can crit, so a
// grandmaster roller makes whole encounters deterministic.

func testData() *data.GameData {
	return data.New(nil, nil, map[string]data.WeaponTypeDef{
		"sword": {
			Advantage:    map[string]data.WeaponBonus{"axe": {Hit: 15, Damage: 1}},
			Disadvantage: map[string]data.WeaponBonus{"lance": {Hit: -15, Damage: -1}},
		},
		"axe": {
			Disadvantage: map[string]data.WeaponBonus{"sword": {Hit: -15, Damage: -1}},
		},
	}, nil, map[string]map[string]int{
		"hero": {"HP": 100, "STR": 200},
	})
}

func newUnit(t *testing.T, nid string, stats model.Stats) *model.Unit {
	t.Helper()
	u, err := model.NewUnit(nid, nid, "fighter", "player", 3, stats)
	require.NoError(t, err)
	return u
}

func newWeapon(t *testing.T, nid, wtype string, damage, hit, weight, uses int) *model.Item {
	t.Helper()
	store := model.NewComponentStore()
	store.Add(model.Component{Hook: hooks.IsWeapon})
	store.Add(model.Component{Hook: hooks.WeaponType, Value: wtype})
	store.Add(model.Component{Hook: hooks.Damage, Value: damage})
	store.Add(model.Component{Hook: hooks.Hit, Value: hit})
	store.Add(model.Component{Hook: hooks.Weight, Value: weight})
	store.Add(model.Component{Hook: hooks.MinRange, Value: 1})
	store.Add(model.Component{Hook: hooks.MaxRange, Value: 1})
	if uses > 0 {
		store.Add(model.Component{Hook: hooks.Uses, Value: uses})
	}
	item, err := model.NewItem(nid, nid, store)
	require.NoError(t, err)
	return item
}

func giveSkill(t *testing.T, u *model.Unit, hook string) {
	t.Helper()
	store := model.NewComponentStore()
	store.Add(model.Component{Hook: hook})
	skill, err := model.NewSkill(hook, hook, store)
	require.NoError(t, err)
	u.AddSkill(skill)
}

// fixture: hero (AS 11, deals 11/strike, doubles) vs bandit (AS 6, deals
// 9/counter). Strike damage derivation: STR + might + triangle - DEF.
func fixture(t *testing.T) (solver *Solver, hero, bandit *model.Unit, sword, axe *model.Item) {
	t.Helper()
	env := calc.NewEnv(testData(), nil, nil)
	solver = NewSolver(env, NewRoller(RNGGrandmaster, seeded(1)))

	hero = newUnit(t, "hero", model.Stats{
		"HP": 22, "STR": 9, "SKL": 10, "SPD": 11, "LCK": 20, "DEF": 6, "RES": 3, "CON": 7,
	})
	bandit = newUnit(t, "bandit", model.Stats{
		"HP": 26, "STR": 8, "SKL": 4, "SPD": 6, "LCK": 12, "DEF": 4, "RES": 1, "CON": 11,
	})
	hero.SetPosition(model.Position{X: 0, Y: 0})
	bandit.SetPosition(model.Position{X: 1, Y: 0})

	sword = newWeapon(t, "iron_sword", "sword", 5, 60, 5, 46)
	axe = newWeapon(t, "iron_axe", "axe", 8, 75, 10, 45)
	hero.AddItem(sword)
	bandit.AddItem(axe)
	return solver, hero, bandit, sword, axe
}

func sides(strikes []model.CombatStrike) []string {
	out := make([]string, len(strikes))
	for i, s := range strikes {
		out[i] = s.Attacker.NID()
	}
	return out
}

func TestResolve_StandardOrder(t *testing.T) {
	solver, hero, bandit, sword, axe := fixture(t)

	strikes := solver.Resolve(hero, sword, bandit, axe)

	// Attacker, counter, attacker's double.
	require.Equal(t, []string{"hero", "bandit", "hero"}, sides(strikes))
	assert.False(t, strikes[0].IsCounter)
	assert.True(t, strikes[1].IsCounter)
	assert.False(t, strikes[2].IsCounter)

	for _, s := range strikes {
		assert.True(t, s.Hit, "grandmaster strikes always land")
		assert.False(t, s.Crit)
	}
	assert.Equal(t, 11, strikes[0].Damage)
	assert.Equal(t, 9, strikes[1].Damage)
}

func TestResolve_DoesNotMutateUnits(t *testing.T) {
	solver, hero, bandit, sword, axe := fixture(t)

	solver.Resolve(hero, sword, bandit, axe)

	assert.Equal(t, 22, hero.CurrentHP())
	assert.Equal(t, 26, bandit.CurrentHP())
	assert.Equal(t, 46, sword.CurrentUses())
	assert.Equal(t, 45, axe.CurrentUses())
}

func TestResolve_Vantage(t *testing.T) {
	solver, hero, bandit, sword, axe := fixture(t)
	giveSkill(t, bandit, hooks.Vantage)

	strikes := solver.Resolve(hero, sword, bandit, axe)

	require.NotEmpty(t, strikes)
	assert.Equal(t, "bandit", strikes[0].Attacker.NID(), "vantage counter fires first")
	assert.True(t, strikes[0].IsCounter)
	assert.Equal(t, []string{"bandit", "hero", "hero"}, sides(strikes))
}

func TestResolve_VantageNeedsCounter(t *testing.T) {
	solver, hero, bandit, sword, _ := fixture(t)
	giveSkill(t, bandit, hooks.Vantage)

	// An unarmed defender gets no vantage strike.
	strikes := solver.Resolve(hero, sword, bandit, nil)
	for _, s := range strikes {
		assert.Equal(t, "hero", s.Attacker.NID())
	}
}

func TestResolve_Disvantage(t *testing.T) {
	solver, hero, bandit, sword, axe := fixture(t)
	giveSkill(t, hero, hooks.Disvantage)

	strikes := solver.Resolve(hero, sword, bandit, axe)
	assert.Equal(t, []string{"bandit", "hero", "hero"}, sides(strikes))
}

func TestResolve_Desperation(t *testing.T) {
	solver, hero, bandit, sword, axe := fixture(t)
	giveSkill(t, hero, hooks.Desperation)

	strikes := solver.Resolve(hero, sword, bandit, axe)

	// Initial and double batches run before any counter.
	assert.Equal(t, []string{"hero", "hero", "bandit"}, sides(strikes))
}

func TestResolve_DeadDefenderCannotCounter(t *testing.T) {
	solver, hero, _, sword, axe := fixture(t)

	frail := newUnit(t, "frail", model.Stats{
		"HP": 11, "STR": 8, "SKL": 4, "SPD": 6, "LCK": 12, "DEF": 4, "RES": 1, "CON": 11,
	})
	frail.SetPosition(model.Position{X: 1, Y: 0})
	frail.AddItem(axe)

	strikes := solver.Resolve(hero, sword, frail, axe)

	// First strike deals exactly 11 and kills; nothing follows.
	require.Len(t, strikes, 1)
	assert.Equal(t, "hero", strikes[0].Attacker.NID())
	assert.Equal(t, 11, strikes[0].Damage)
}

func TestResolve_MiracleFloorsAtOne(t *testing.T) {
	solver, hero, _, sword, axe := fixture(t)

	survivor := newUnit(t, "survivor", model.Stats{
		"HP": 11, "STR": 8, "SKL": 4, "SPD": 6, "LCK": 12, "DEF": 4, "RES": 1, "CON": 11,
	})
	survivor.SetPosition(model.Position{X: 1, Y: 0})
	survivor.AddItem(axe)
	giveSkill(t, survivor, hooks.Miracle)

	strikes := solver.Resolve(hero, sword, survivor, axe)
	results := BuildResults(strikes, hero, sword, survivor, axe, testData(), solver.Roller())

	// A lethal strike leaves the miracle holder at 1 HP, so the full
	// exchange still plays out.
	assert.Equal(t, []string{"hero", "survivor", "hero"}, sides(strikes))
	assert.Equal(t, 1, results.DefenderFinalHP)
	assert.False(t, results.DefenderDead)
}

func TestResolve_UnarmedDefender(t *testing.T) {
	solver, hero, bandit, sword, _ := fixture(t)

	strikes := solver.Resolve(hero, sword, bandit, nil)
	assert.Equal(t, []string{"hero", "hero"}, sides(strikes))
}

func TestBuildResults_MatchesSimulation(t *testing.T) {
	solver, hero, bandit, sword, axe := fixture(t)

	strikes := solver.Resolve(hero, sword, bandit, axe)
	results := BuildResults(strikes, hero, sword, bandit, axe, testData(), solver.Roller())

	// hero 22 - 9 = 13; bandit 26 - 11 - 11 = 4.
	assert.Equal(t, 13, results.AttackerFinalHP)
	assert.Equal(t, 4, results.DefenderFinalHP)
	assert.False(t, results.AttackerDead)
	assert.False(t, results.DefenderDead)

	// Real unit state is untouched until the caller commits.
	assert.Equal(t, 22, hero.CurrentHP())
	assert.Equal(t, 26, bandit.CurrentHP())
}

func TestBuildResults_ExperienceAndKill(t *testing.T) {
	solver, hero, _, sword, axe := fixture(t)

	frail := newUnit(t, "frail", model.Stats{
		"HP": 11, "STR": 8, "SKL": 4, "SPD": 6, "LCK": 12, "DEF": 4, "RES": 1, "CON": 11,
	})
	frail.SetPosition(model.Position{X: 1, Y: 0})
	frail.AddItem(axe)

	strikes := solver.Resolve(hero, sword, frail, axe)
	results := BuildResults(strikes, hero, sword, frail, axe, testData(), solver.Roller())

	require.True(t, results.DefenderDead)
	// Equal levels: base 10, tripled on kill.
	assert.Equal(t, 30, results.ExpGained)
}

func TestBuildResults_NoExpWithoutLandedHit(t *testing.T) {
	env := calc.NewEnv(testData(), nil, nil)
	// Classic roller with chance forced to 0 by an untouchable defender.
	solver := NewSolver(env, NewRoller(RNGClassic, seeded(1)))

	hero := newUnit(t, "hero", model.Stats{
		"HP": 22, "STR": 9, "SKL": 0, "SPD": 11, "LCK": 0, "DEF": 6, "CON": 7,
	})
	ghost := newUnit(t, "ghost", model.Stats{
		"HP": 20, "STR": 1, "SKL": 0, "SPD": 99, "LCK": 99, "DEF": 1, "CON": 5,
	})
	hero.SetPosition(model.Position{X: 0, Y: 0})
	ghost.SetPosition(model.Position{X: 1, Y: 0})
	sword := newWeapon(t, "iron_sword", "sword", 5, 0, 5, 46)

	strikes := solver.Resolve(hero, sword, ghost, nil)
	results := BuildResults(strikes, hero, sword, ghost, nil, testData(), solver.Roller())

	for _, s := range strikes {
		assert.False(t, s.Hit)
		assert.Equal(t, 0, s.Damage, "a miss always carries zero damage")
	}
	assert.Equal(t, 0, results.ExpGained)
	assert.Empty(t, results.LevelUps)
}

func TestBuildResults_LevelUps(t *testing.T) {
	solver, hero, _, sword, axe := fixture(t)
	hero.SetExp(90)

	frail := newUnit(t, "frail", model.Stats{
		"HP": 11, "STR": 8, "SKL": 4, "SPD": 6, "LCK": 12, "DEF": 4, "RES": 1, "CON": 11,
	})
	frail.SetPosition(model.Position{X: 1, Y: 0})
	frail.AddItem(axe)

	strikes := solver.Resolve(hero, sword, frail, axe)
	results := BuildResults(strikes, hero, sword, frail, axe, testData(), solver.Roller())

	require.Equal(t, 30, results.ExpGained)
	// 90 + 30 = 120: one level. Growths HP 100 / STR 200 give guaranteed
	// points with no roll variance.
	require.Len(t, results.LevelUps, 1)
	up := results.LevelUps[0]
	assert.Equal(t, 4, up.Level)
	assert.Equal(t, 1, up.Gains["HP"])
	assert.Equal(t, 2, up.Gains["STR"])
}

func TestBuildResults_WeaponBreak(t *testing.T) {
	solver, hero, bandit, _, axe := fixture(t)

	lastBlade := newWeapon(t, "last_blade", "sword", 5, 60, 5, 2)
	strikes := solver.Resolve(hero, lastBlade, bandit, axe)
	results := BuildResults(strikes, hero, lastBlade, bandit, axe, testData(), solver.Roller())

	// Two landed strikes exhaust the 2 remaining uses.
	assert.True(t, results.AttackerWeaponBroke)
	assert.False(t, results.DefenderWeaponBroke, "one counter does not exhaust 45 uses")
}

func TestBuildResults_DroppedItems(t *testing.T) {
	solver, hero, _, sword, axe := fixture(t)

	frail := newUnit(t, "frail", model.Stats{
		"HP": 11, "STR": 8, "SKL": 4, "SPD": 6, "LCK": 12, "DEF": 4, "RES": 1, "CON": 11,
	})
	frail.SetPosition(model.Position{X: 1, Y: 0})
	frail.AddItem(axe)

	loot, err := model.NewItem("red_gem", "Red Gem", func() *model.ComponentStore {
		s := model.NewComponentStore()
		s.Add(model.Component{Hook: hooks.Droppable})
		return s
	}())
	require.NoError(t, err)
	frail.AddItem(loot)

	strikes := solver.Resolve(hero, sword, frail, axe)
	results := BuildResults(strikes, hero, sword, frail, axe, testData(), solver.Roller())

	require.True(t, results.DefenderDead)
	require.Len(t, results.DroppedItems, 1)
	assert.Equal(t, "red_gem", results.DroppedItems[0].NID())
}
