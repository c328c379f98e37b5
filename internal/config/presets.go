package config

var Presets = map[string]map[string]*Config{
	"decay": {
		"accurate": {
			Problem: "decay", Algorithm: "Vern9()", AbsTol: 1e-12, RelTol: 1e-12,
		},
		"fast": {
			Problem: "decay", Algorithm: "Tsit5()", AbsTol: 1e-6, RelTol: 1e-6,
		},
	},
	"lotka": {
		"default": {
			Problem: "lotka", Algorithm: "Tsit5()", AbsTol: 1e-8, RelTol: 1e-8, SaveStep: 0.05,
		},
	},
	"lorenz": {
		"coarse": {
			Problem: "lorenz", Algorithm: "Tsit5()", AbsTol: 1e-6, RelTol: 1e-6, SaveStep: 0.02,
		},
		"fine": {
			Problem: "lorenz", Algorithm: "Vern7()", AbsTol: 1e-10, RelTol: 1e-10, SaveStep: 0.005,
		},
	},
	"robertson": {
		"default": {
			Problem: "robertson", Algorithm: "DFBDF()", AbsTol: 1e-8, RelTol: 1e-8,
		},
	},
}

func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	return names
}
