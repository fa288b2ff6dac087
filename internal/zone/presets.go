package zone

import "sort"

// Built-in threshold sets for the two tuning regimes the system ships with.
// Near-field scanner rigs see hand areas in the hundreds of thousands of
// pixels; webcam-distance finger detection sits around the tens of
// thousands. Neither set transfers between rigs, so these are starting
// points for per-deployment calibration.
var presets = map[string]Thresholds{
	"nearfield": {MinArea: 300000, GoodMin: 500000, GoodMax: 750000, MaxArea: 900000},
	"webcam":    {MinArea: 2000, GoodMin: 10000, GoodMax: 60000, MaxArea: 150000},
}

// DefaultThresholds returns the near-field set.
func DefaultThresholds() Thresholds {
	return presets["nearfield"]
}

// Preset returns a built-in threshold set by name.
func Preset(name string) (Thresholds, bool) {
	t, ok := presets[name]
	return t, ok
}

// PresetNames lists the built-in threshold sets in stable order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
