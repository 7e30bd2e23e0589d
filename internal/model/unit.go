// Package model holds the combat engine's core value types: units, items,
// skills, components, and the strike record combat resolution produces.
// Everything here is behavior-free data; rules live in the game packages.
package model

import "fmt"

// Stats is a unit's named stat block (HP, STR, SKL, SPD, ...). Stat names
// are data-defined; the engine never assumes a fixed set.
type Stats map[string]int

// Get returns a stat value, 0 when absent.
func (s Stats) Get(name string) int {
	return s[name]
}

// Position is a board coordinate.
type Position struct {
	X int
	Y int
}

// Distance is the Manhattan distance between two positions, matching how
// item ranges are authored.
func Distance(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Unit is one combatant: identity, stat block, carried items and skills,
// and mutable combat state (HP, experience, position, tags). Units are not
// safe for concurrent mutation; hosts serialize access.
type Unit struct {
	nid   string
	name  string
	klass string
	team  string

	level int
	exp   int
	stats Stats

	currentHP int
	pos       *Position

	items  []*Item
	skills []*Skill
	tags   map[string]struct{}
}

// NewUnit creates a unit at full HP. The stat block must define a positive
// HP stat.
func NewUnit(nid, name, klass, team string, level int, stats Stats) (*Unit, error) {
	if nid == "" {
		return nil, fmt.Errorf("unit nid cannot be empty")
	}
	if level < 1 {
		return nil, fmt.Errorf("unit %s: level must be at least 1, got %d", nid, level)
	}
	if stats.Get("HP") <= 0 {
		return nil, fmt.Errorf("unit %s: HP stat must be positive", nid)
	}
	cp := make(Stats, len(stats))
	for k, v := range stats {
		cp[k] = v
	}
	return &Unit{
		nid:       nid,
		name:      name,
		klass:     klass,
		team:      team,
		level:     level,
		stats:     cp,
		currentHP: cp.Get("HP"),
		tags:      map[string]struct{}{},
	}, nil
}

func (u *Unit) NID() string   { return u.nid }
func (u *Unit) Name() string  { return u.name }
func (u *Unit) Klass() string { return u.klass }
func (u *Unit) Team() string  { return u.team }
func (u *Unit) Level() int    { return u.level }
func (u *Unit) Exp() int      { return u.exp }

// Stat returns one stat value, 0 when the block does not define it.
func (u *Unit) Stat(name string) int { return u.stats.Get(name) }

// Stats returns the unit's stat block. Callers must not mutate it.
func (u *Unit) Stats() Stats { return u.stats }

// MaxHP is the HP stat.
func (u *Unit) MaxHP() int { return u.stats.Get("HP") }

// CurrentHP is the unit's committed HP, in [0, MaxHP].
func (u *Unit) CurrentHP() int { return u.currentHP }

// SetCurrentHP commits an HP value, clamped to [0, MaxHP]. This is the
// commit path after combat; the solver never calls it.
func (u *Unit) SetCurrentHP(hp int) {
	u.currentHP = ClampHP(hp, u.MaxHP())
}

// IsDead reports whether committed HP is 0.
func (u *Unit) IsDead() bool { return u.currentHP <= 0 }

// SetExp commits an experience total.
func (u *Unit) SetExp(exp int) {
	if exp < 0 {
		exp = 0
	}
	u.exp = exp
}

// SetLevel commits a level. Levels never go down.
func (u *Unit) SetLevel(level int) error {
	if level < u.level {
		return fmt.Errorf("unit %s: level cannot decrease from %d to %d", u.nid, u.level, level)
	}
	u.level = level
	return nil
}

// Position returns the unit's board position; ok is false off-board.
func (u *Unit) Position() (Position, bool) {
	if u.pos == nil {
		return Position{}, false
	}
	return *u.pos, true
}

// SetPosition places the unit on the board.
func (u *Unit) SetPosition(p Position) {
	u.pos = &p
}

// ClearPosition takes the unit off the board.
func (u *Unit) ClearPosition() {
	u.pos = nil
}

// AddItem appends an item to the unit's inventory.
func (u *Unit) AddItem(item *Item) {
	if item == nil {
		return
	}
	u.items = append(u.items, item)
}

// Items returns the unit's inventory in acquisition order.
func (u *Unit) Items() []*Item { return u.items }

// AddSkill attaches a skill, replacing any earlier skill with the same NID
// so the most recent attachment wins.
func (u *Unit) AddSkill(skill *Skill) {
	if skill == nil {
		return
	}
	for i, s := range u.skills {
		if s.NID() == skill.NID() {
			u.skills = append(u.skills[:i], u.skills[i+1:]...)
			break
		}
	}
	u.skills = append(u.skills, skill)
}

// Skills returns the unit's skills in attachment order.
func (u *Unit) Skills() []*Skill { return u.skills }

// AddTag adds a classification tag (used by effective-damage matching and
// equation tag tests).
func (u *Unit) AddTag(tag string) {
	if tag == "" {
		return
	}
	u.tags[tag] = struct{}{}
}

// HasTag reports tag membership.
func (u *Unit) HasTag(tag string) bool {
	_, ok := u.tags[tag]
	return ok
}

// Tags returns the tag set. Callers must not mutate it.
func (u *Unit) Tags() map[string]struct{} { return u.tags }

// ClampHP clamps an HP value into [0, maxHP].
func ClampHP(hp, maxHP int) int {
	if hp < 0 {
		return 0
	}
	if hp > maxHP {
		return maxHP
	}
	return hp
}
