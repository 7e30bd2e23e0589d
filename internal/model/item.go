package model

import "fmt"

// Item is a concrete equippable instance. All rule behavior lives in its
// component store; the only derived state is the use counter, cached from
// the "uses" component at construction.
type Item struct {
	nid  string
	name string

	components *ComponentStore

	maxUses     int // 0 means unbreakable
	currentUses int
}

// NewItem creates an item over its component store. If the store defines a
// "uses" component, max and current uses are cached from it.
func NewItem(nid, name string, components *ComponentStore) (*Item, error) {
	if nid == "" {
		return nil, fmt.Errorf("item nid cannot be empty")
	}
	if components == nil {
		components = NewComponentStore()
	}
	it := &Item{
		nid:        nid,
		name:       name,
		components: components,
	}
	if uses := components.Get("uses"); len(uses) > 0 {
		if n, ok := uses[len(uses)-1].Value.(int); ok && n > 0 {
			it.maxUses = n
			it.currentUses = n
		}
	}
	return it, nil
}

func (i *Item) NID() string  { return i.nid }
func (i *Item) Name() string { return i.name }

// Components returns the item's component store.
func (i *Item) Components() *ComponentStore {
	if i == nil {
		return nil
	}
	return i.components
}

// MaxUses returns the use budget, 0 for unbreakable items.
func (i *Item) MaxUses() int { return i.maxUses }

// CurrentUses returns remaining uses, 0 for unbreakable items.
func (i *Item) CurrentUses() int { return i.currentUses }

// SetCurrentUses sets remaining uses (caller commit path after combat).
func (i *Item) SetCurrentUses(n int) {
	if n < 0 {
		n = 0
	}
	if i.maxUses > 0 && n > i.maxUses {
		n = i.maxUses
	}
	i.currentUses = n
}
