package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema is the on-disk YAML shape of a rule data set.
type fileSchema struct {
	Equations   map[string]string         `yaml:"equations"`
	Constants   map[string]int            `yaml:"constants"`
	WeaponTypes map[string]WeaponTypeDef  `yaml:"weapon_types"`
	Terrain     map[string]TerrainDef     `yaml:"terrain"`
	Growths     map[string]map[string]int `yaml:"growths"`
}

// Load reads a rule data set from a YAML file layered over engine defaults.
// A missing file yields Default(); a malformed file is an error.
func Load(path string) (*GameData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading game data %s: %w", path, err)
	}

	var f fileSchema
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing game data %s: %w", path, err)
	}

	return New(f.Equations, f.Constants, f.WeaponTypes, f.Terrain, f.Growths), nil
}
