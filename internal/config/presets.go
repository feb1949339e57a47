package config

import "sort"

// Presets are named sample inputs.
var Presets = map[string]string{
	"textbook":   "5,3,8,1",
	"reversed":   "9,8,7,6,5,4,3,2,1",
	"sorted":     "1,2,3,4,5,6,7,8",
	"duplicates": "4,1,3,1,4,2,3",
	"single":     "1",
	"split":      "4,2,1,3",
	"negative":   "3,-2,7.5,0,-8,1",
}

func GetPreset(name string) (string, bool) {
	in, ok := Presets[name]
	return in, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
