package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ralvess/emblemgo/internal/model"
)

// Roster is a loaded set of authored units with their items and skills
// attached, keyed by unit NID. It exists for hosts (the daemon, tools)
// that need content; the engine itself only ever sees model values.
type Roster struct {
	Units map[string]*model.Unit
}

type componentSchema struct {
	Hook  string `yaml:"hook"`
	Value any    `yaml:"value"`

	// Dynamic payload kinds, one of:
	Flat      *int `yaml:"flat"`
	Effective *struct {
		Tag   string `yaml:"tag"`
		Bonus int    `yaml:"bonus"`
	} `yaml:"effective"`
	MissingHP *struct {
		Num int `yaml:"num"`
		Den int `yaml:"den"`
	} `yaml:"missing_hp"`
}

type itemSchema struct {
	Name       string            `yaml:"name"`
	Components []componentSchema `yaml:"components"`
}

type skillSchema struct {
	Name       string            `yaml:"name"`
	Components []componentSchema `yaml:"components"`
}

type unitSchema struct {
	Name     string         `yaml:"name"`
	Klass    string         `yaml:"klass"`
	Team     string         `yaml:"team"`
	Level    int            `yaml:"level"`
	Stats    map[string]int `yaml:"stats"`
	Tags     []string       `yaml:"tags"`
	Items    []string       `yaml:"items"`
	Skills   []string       `yaml:"skills"`
	Position *struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
	} `yaml:"position"`
}

type rosterSchema struct {
	Items  map[string]itemSchema  `yaml:"items"`
	Skills map[string]skillSchema `yaml:"skills"`
	Units  map[string]unitSchema  `yaml:"units"`
}

// LoadRoster reads authored units, items, and skills from a YAML file.
// A missing file yields an empty roster.
func LoadRoster(path string) (*Roster, error) {
	roster := &Roster{Units: map[string]*model.Unit{}}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return roster, nil
		}
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}

	var f rosterSchema
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}

	items := make(map[string]func() (*model.Item, error), len(f.Items))
	for nid, def := range f.Items {
		nid, def := nid, def
		items[nid] = func() (*model.Item, error) {
			store, err := buildComponents(def.Components)
			if err != nil {
				return nil, fmt.Errorf("item %s: %w", nid, err)
			}
			return model.NewItem(nid, def.Name, store)
		}
	}

	skills := make(map[string]*model.Skill, len(f.Skills))
	for nid, def := range f.Skills {
		store, err := buildComponents(def.Components)
		if err != nil {
			return nil, fmt.Errorf("skill %s: %w", nid, err)
		}
		skill, err := model.NewSkill(nid, def.Name, store)
		if err != nil {
			return nil, fmt.Errorf("skill %s: %w", nid, err)
		}
		skills[nid] = skill
	}

	for nid, def := range f.Units {
		unit, err := model.NewUnit(nid, def.Name, def.Klass, def.Team, def.Level, model.Stats(def.Stats))
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", nid, err)
		}
		if def.Position != nil {
			unit.SetPosition(model.Position{X: def.Position.X, Y: def.Position.Y})
		}
		for _, tag := range def.Tags {
			unit.AddTag(tag)
		}
		for _, itemNID := range def.Items {
			build, ok := items[itemNID]
			if !ok {
				return nil, fmt.Errorf("unit %s: unknown item %q", nid, itemNID)
			}
			// Each unit gets its own item instance: items are owned by at
			// most one unit at a time.
			item, err := build()
			if err != nil {
				return nil, err
			}
			unit.AddItem(item)
		}
		for _, skillNID := range def.Skills {
			skill, ok := skills[skillNID]
			if !ok {
				return nil, fmt.Errorf("unit %s: unknown skill %q", nid, skillNID)
			}
			unit.AddSkill(skill)
		}
		roster.Units[nid] = unit
	}

	return roster, nil
}

// buildComponents converts authored component entries into the closed set
// of engine payload kinds.
func buildComponents(defs []componentSchema) (*model.ComponentStore, error) {
	store := model.NewComponentStore()
	for _, def := range defs {
		if def.Hook == "" {
			return nil, fmt.Errorf("component missing hook")
		}
		var value any
		switch {
		case def.Flat != nil:
			value = model.FlatBonus(*def.Flat)
		case def.Effective != nil:
			value = model.EffectiveAgainst{Tag: def.Effective.Tag, Bonus: def.Effective.Bonus}
		case def.MissingHP != nil:
			value = model.ScaleMissingHP{Num: def.MissingHP.Num, Den: def.MissingHP.Den}
		default:
			value = def.Value
		}
		store.Add(model.Component{Hook: def.Hook, Value: value})
	}
	return store, nil
}
