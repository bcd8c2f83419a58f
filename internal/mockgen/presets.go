// Package mockgen generates synthetic e-commerce data for demo loads.
package mockgen

import (
	"fmt"
	"sort"
)

// Preset fixes the volume of generated rows per table. FX rates are not
// part of the preset: the generator always emits one year of daily rates
// per currency.
type Preset struct {
	Customers int
	Products  int
	Orders    int
}

// Presets is the scale ladder selectable from the demo CLI.
var Presets = map[string]Preset{
	"small":  {Customers: 1000, Products: 500, Orders: 5000},
	"medium": {Customers: 10000, Products: 5000, Orders: 50000},
	"large":  {Customers: 50000, Products: 25000, Orders: 250000},
}

// PresetByName resolves a preset, listing the valid names on failure.
func PresetByName(name string) (Preset, error) {
	p, ok := Presets[name]
	if !ok {
		names := make([]string, 0, len(Presets))
		for n := range Presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return Preset{}, fmt.Errorf("unknown scale %q, valid scales: %v", name, names)
	}
	return p, nil
}
