package model

import "fmt"

// Skill is a named bundle of components attached to a unit. Skills carry no
// numeric state of their own; everything they do is expressed through the
// component store.
type Skill struct {
	nid  string
	name string

	components *ComponentStore
}

// NewSkill creates a skill over its component store.
func NewSkill(nid, name string, components *ComponentStore) (*Skill, error) {
	if nid == "" {
		return nil, fmt.Errorf("skill nid cannot be empty")
	}
	if components == nil {
		components = NewComponentStore()
	}
	return &Skill{nid: nid, name: name, components: components}, nil
}

func (s *Skill) NID() string  { return s.nid }
func (s *Skill) Name() string { return s.name }

// Components returns the skill's component store.
func (s *Skill) Components() *ComponentStore {
	if s == nil {
		return nil
	}
	return s.components
}
