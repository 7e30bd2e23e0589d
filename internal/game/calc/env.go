package calc

import (
	"github.com/ralvess/emblemgo/internal/data"
	"github.com/ralvess/emblemgo/internal/model"
)

// Board is the map collaborator. The engine only ever asks it which terrain
// a unit stands on; pathfinding and movement stay outside.
type Board interface {
	Terrain(x, y int) string
}

// SupportBonus is the additive bundle a support provider grants a unit.
type SupportBonus struct {
	Damage       int
	Resist       int
	Accuracy     int
	Avoid        int
	Crit         int
	Dodge        int
	AttackSpeed  int
	DefenseSpeed int
}

// SupportProvider is the support-rank collaborator.
type SupportProvider interface {
	Bonus(unit *model.Unit) SupportBonus
}

// Env is the read-only context every calculator call receives: the rule
// data plus the optional board and support collaborators. Board and Support
// may be nil; absent collaborators contribute zero.
type Env struct {
	Data    *data.GameData
	Board   Board
	Support SupportProvider
}

// NewEnv builds a calculator environment over the rule data.
func NewEnv(gd *data.GameData, board Board, support SupportProvider) *Env {
	if gd == nil {
		gd = data.Default()
	}
	return &Env{Data: gd, Board: board, Support: support}
}

// support returns the unit's support bonus, zero without a provider.
func (e *Env) support(u *model.Unit) SupportBonus {
	if e.Support == nil || u == nil {
		return SupportBonus{}
	}
	return e.Support.Bonus(u)
}

// terrain returns the terrain bonuses under the unit, zero off-board or
// without a board.
func (e *Env) terrain(u *model.Unit) data.TerrainDef {
	if e.Board == nil || u == nil {
		return data.TerrainDef{}
	}
	pos, ok := u.Position()
	if !ok {
		return data.TerrainDef{}
	}
	nid := e.Board.Terrain(pos.X, pos.Y)
	if nid == "" {
		return data.TerrainDef{}
	}
	return e.Data.TerrainBonus(nid)
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
