package config

import "sort"

type Preset struct {
	Description string
	Compounds   []Compound
}

var Presets = map[string]Preset{
	"classic": {
		Description: "five analytes spread evenly between base line and front",
		Compounds: []Compound{
			{Name: "comp1", Rate: 0.2},
			{Name: "comp2", Rate: 0.35},
			{Name: "comp3", Rate: 0.5},
			{Name: "comp4", Rate: 0.65},
			{Name: "comp5", Rate: 0.8},
		},
	},
	"analgesics": {
		Description: "common analgesics on silica with an ethyl acetate eluent",
		Compounds: []Compound{
			{Name: "acetaminophen", Rate: 0.31},
			{Name: "aspirin", Rate: 0.56},
			{Name: "caffeine", Rate: 0.12},
			{Name: "ibuprofen", Rate: 0.74},
			{Name: "salicylamide", Rate: 0.47},
		},
	},
	"inks": {
		Description: "marker ink pigments in a water/isopropanol eluent",
		Compounds: []Compound{
			{Name: "yellow", Rate: 0.91},
			{Name: "blue", Rate: 0.62},
			{Name: "red", Rate: 0.43},
		},
	},
	"coelution": {
		Description: "two analytes with nearly identical retention",
		Compounds: []Compound{
			{Name: "isomer-a", Rate: 0.52},
			{Name: "isomer-b", Rate: 0.54},
		},
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	if !ok {
		return Preset{}, false
	}
	p.Compounds = append([]Compound(nil), p.Compounds...)
	return p, true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
