package config

import "sort"

// Preset is a built-in moon system usable in place of an input file.
type Preset struct {
	Description string
	Input       string
}

var Presets = map[string]Preset{
	"small": {
		Description: "four moons, repeats after 2772 steps",
		Input: `<x=-1, y=0, z=2>
<x=2, y=-10, z=-7>
<x=4, y=-8, z=8>
<x=3, y=5, z=-1>
`,
	},
	"large": {
		Description: "four moons, repeats after 4686774924 steps",
		Input: `<x=-8, y=-10, z=0>
<x=5, y=5, z=10>
<x=2, y=-7, z=3>
<x=9, y=-8, z=-3>
`,
	},
	"mirror": {
		Description: "two moons mirrored about the origin, repeats after 6 steps",
		Input: `<x=-1, y=0, z=0>
<x=1, y=0, z=0>
`,
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
