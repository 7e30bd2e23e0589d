package model

// Component is one hook definition on an item or skill: the hook name plus
// an untyped payload. The payload's meaning depends on the hook's policy —
// nil for bare capability flags, numbers for values and modifiers, strings
// for formula overrides, or a Dynamic for context-dependent bonuses.
type Component struct {
	Hook  string
	Value any
}

// ComponentStore is an ordered collection of components. Order matters:
// UNIQUE hooks resolve to the most recently added definition.
type ComponentStore struct {
	comps []Component
}

// NewComponentStore creates an empty store.
func NewComponentStore() *ComponentStore {
	return &ComponentStore{}
}

// Add appends a component. Components with an empty hook are ignored.
func (s *ComponentStore) Add(c Component) {
	if c.Hook == "" {
		return
	}
	s.comps = append(s.comps, c)
}

// All returns every component in insertion order.
func (s *ComponentStore) All() []Component {
	if s == nil {
		return nil
	}
	return s.comps
}

// Get returns the components defined for one hook, in insertion order.
// Safe on a nil store.
func (s *ComponentStore) Get(hook string) []Component {
	if s == nil {
		return nil
	}
	var out []Component
	for _, c := range s.comps {
		if c.Hook == hook {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether any component defines the hook.
func (s *ComponentStore) Has(hook string) bool {
	if s == nil {
		return false
	}
	for _, c := range s.comps {
		if c.Hook == hook {
			return true
		}
	}
	return false
}
