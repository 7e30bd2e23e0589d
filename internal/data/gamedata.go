package data

import (
	"github.com/ralvess/emblemgo/internal/game/equation"
)

// Engine default equations, used for any name a data set does not define.
// Everything else about the rule set is data-authored; these exist so a
// bare data set still resolves combat.
var defaultEquations = map[string]string{
	"HIT":           "SKL*2 + LCK//2",
	"AVOID":         "SPD*2 + LCK//2",
	"CRIT":          "SKL//2",
	"CRIT_AVOID":    "LCK",
	"DAMAGE":        "STR",
	"MAGIC_DAMAGE":  "MAG",
	"DEFENSE":       "DEF",
	"RESIST":        "RES",
	"ATTACK_SPEED":  "SPD - max(WEIGHT - CON, 0)",
	"DEFENSE_SPEED": "SPD - max(WEIGHT - CON, 0)",
}

// Engine default constants. CRIT_MULT and CRIT_ANYWAY_MIN are engine
// constants by observation of the rule set, kept in the constants table so
// data can promote them without an engine change.
var defaultConstants = map[string]int{
	"SPEED_TO_DOUBLE":  4,
	"DEF_DOUBLE":       0,
	"CRIT_MULT":        3,
	"CRIT_ANYWAY_MIN":  1,
	"EXP_BASE":         10,
	"EXP_LEVEL_FACTOR": 2,
	"EXP_KILL_MULT":    3,
	"EXP_PER_LEVEL":    100,
}

// WeaponBonus is the hit/damage pair applied when one weapon type has
// advantage (or disadvantage) over another.
type WeaponBonus struct {
	Hit    int `yaml:"hit"`
	Damage int `yaml:"damage"`
}

// WeaponTypeDef lists a weapon type's matchups. Disadvantage bonuses are
// stored as authored (typically negative).
type WeaponTypeDef struct {
	Advantage    map[string]WeaponBonus `yaml:"advantage"`
	Disadvantage map[string]WeaponBonus `yaml:"disadvantage"`
}

// TerrainDef is a terrain tile's defensive contribution.
type TerrainDef struct {
	Avoid   int `yaml:"avoid"`
	Defense int `yaml:"defense"`
	Resist  int `yaml:"resist"`
}

// GameData is the read-only rule context threaded explicitly through every
// calculator and solver call: equations, constants, the weapon-type table,
// terrain bonuses, and growth rates.
type GameData struct {
	equations   *equation.Table
	constants   map[string]int
	weaponTypes map[string]WeaponTypeDef
	terrain     map[string]TerrainDef
	growths     map[string]map[string]int
}

// Default returns a GameData carrying only engine defaults: the default
// equations and constants, and empty weapon-type/terrain/growth tables.
func Default() *GameData {
	return &GameData{
		equations:   equation.NewTable(defaultEquations),
		constants:   copyConstants(nil),
		weaponTypes: map[string]WeaponTypeDef{},
		terrain:     map[string]TerrainDef{},
		growths:     map[string]map[string]int{},
	}
}

// New assembles GameData from data-set tables layered over engine defaults.
func New(
	equations map[string]string,
	constants map[string]int,
	weaponTypes map[string]WeaponTypeDef,
	terrain map[string]TerrainDef,
	growths map[string]map[string]int,
) *GameData {
	merged := make(map[string]string, len(defaultEquations)+len(equations))
	for k, v := range defaultEquations {
		merged[k] = v
	}
	for k, v := range equations {
		merged[k] = v
	}
	if weaponTypes == nil {
		weaponTypes = map[string]WeaponTypeDef{}
	}
	if terrain == nil {
		terrain = map[string]TerrainDef{}
	}
	if growths == nil {
		growths = map[string]map[string]int{}
	}
	return &GameData{
		equations:   equation.NewTable(merged),
		constants:   copyConstants(constants),
		weaponTypes: weaponTypes,
		terrain:     terrain,
		growths:     growths,
	}
}

func copyConstants(over map[string]int) map[string]int {
	out := make(map[string]int, len(defaultConstants)+len(over))
	for k, v := range defaultConstants {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Equations returns the merged equation table.
func (g *GameData) Equations() *equation.Table { return g.equations }

// Constant returns a named constant, or def when neither the data set nor
// the engine defaults define it.
func (g *GameData) Constant(name string, def int) int {
	if v, ok := g.constants[name]; ok {
		return v
	}
	return def
}

// WeaponType returns a weapon type's matchup table.
func (g *GameData) WeaponType(nid string) (WeaponTypeDef, bool) {
	def, ok := g.weaponTypes[nid]
	return def, ok
}

// TerrainBonus returns a terrain tile's bonuses; the zero value when the
// terrain is unknown.
func (g *GameData) TerrainBonus(nid string) TerrainDef {
	return g.terrain[nid]
}

// Growths returns a unit's stat growth percentages (nil when undefined).
func (g *GameData) Growths(unitNID string) map[string]int {
	return g.growths[unitNID]
}
