package config

import "sort"

func pair(a, b Population) []Population {
	return []Population{a, b}
}

func preset(pops []Population) *Config {
	cfg := DefaultConfig()
	cfg.Populations = pops
	return cfg
}

var Presets = map[string]*Config{
	"classic": preset(pair(
		Population{Name: "pseudo", Source: "pseudo", Seed: 1, Walkers: DefaultWalkers},
		Population{Name: "hybrid", Source: "hybrid", Walkers: DefaultWalkers},
	)),
	"bias": preset(pair(
		Population{Name: "fair", Source: "pseudo", Seed: 7, Walkers: DefaultWalkers},
		Population{Name: "biased", Source: "biased", Seed: 7, Walkers: DefaultWalkers},
	)),
	"flaky": preset(pair(
		Population{Name: "steady", Source: "pseudo", Seed: 3, Walkers: DefaultWalkers},
		Population{Name: "flaky", Source: "pseudo", Seed: 3, Walkers: DefaultWalkers, FaultEvery: 40},
	)),
	"crowd": preset(pair(
		Population{Name: "pseudo", Source: "pseudo", Seed: 11, Walkers: 60},
		Population{Name: "hybrid", Source: "hybrid", Walkers: 60},
	)),
	"trio": preset([]Population{
		{Name: "pseudo", Source: "pseudo", Seed: 5, Walkers: 10},
		{Name: "hybrid", Source: "hybrid", Walkers: 10},
		{Name: "biased", Source: "biased", Seed: 5, Walkers: 10},
	}),
	"zigzag": preset(pair(
		Population{Name: "pseudo", Source: "pseudo", Seed: 2, Walkers: 5},
		Population{Name: "zigzag", Source: "replay", Script: "URDRURDL", Walkers: 5},
	)),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
