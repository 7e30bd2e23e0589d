package model

// CombatStrike is one swing in a resolved encounter. The ordered strike
// list is the whole result of combat: it is enough to replay final state
// or drive playback. A missed strike always carries Damage 0.
type CombatStrike struct {
	Attacker  *Unit
	Defender  *Unit
	Item      *Item
	Hit       bool
	Crit      bool
	Damage    int
	IsCounter bool
}
