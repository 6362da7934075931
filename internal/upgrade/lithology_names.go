package upgrade

import "sort"

// legacyLithologyNames maps the legacy standard lithology names to the
// current catalogue.
var legacyLithologyNames = map[string]string{
	"Std. Sandstone":      "Sandstone, typical",
	"Std. Shale":          "Mudstone, 60% clay",
	"SM. Sandstone":       "Sandstone, clean",
	"SM.Mudst.40%Clay":    "Mudstone, 40% clay",
	"SM.Mudst.50%Clay":    "Mudstone, 50% clay",
	"SM.Mudst.60%Clay":    "Mudstone, 60% clay",
	"Std. Siltstone":      "Siltstone, 20% clay",
	"Std. Chalk":          "Chalk, white",
	"Std.Lime Mudstone":   "Lime-Mudstone",
	"Std.Grainstone":      "Grainstone, calcitic, typical",
	"Std.Dolo.Mudstone":   "Dolo-Mudstone",
	"Std.Dolo.Grainstone": "Grainstone, dolomitic, typical",
	"Std. Salt":           "Halite",
	"Std. Marl":           "Marl",
	"Std. Coal":           "Coal",
	"Std. Basalt":         "Basalt, typical",
	"Std. Anhydrite":      "Anhydrite",
}

// CurrentLithologyName returns the current name of a legacy standard
// lithology, or name itself when it is not a legacy name.
func CurrentLithologyName(name string) string {
	if current, ok := legacyLithologyNames[name]; ok {
		return current
	}
	return name
}

var standardLithologies = func() map[string]bool {
	out := make(map[string]bool, len(legacyLithologyNames))
	for _, current := range legacyLithologyNames {
		out[current] = true
	}
	return out
}()

// IsStandardLithology reports whether name belongs to the current standard
// catalogue.
func IsStandardLithology(name string) bool {
	return standardLithologies[name]
}

// parentCandidates lists every legacy and current standard name, longest
// first, so that prefix lookups prefer the most specific match.
var parentCandidates = func() []string {
	var out []string
	for legacy, current := range legacyLithologyNames {
		out = append(out, legacy)
		if legacy != current {
			out = append(out, current)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return dedupe(out)
}()

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i > 0 && sorted[i-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

// exponentialParents are the parents whose user lithologies convert to the
// Exponential model through a regression.
var exponentialParents = []struct {
	prefix    string
	carbonate bool
}{
	{"Sandstone", false},
	{"Chalk", true},
	{"Lime-Mudstone", true},
	{"Dolo-Mudstone", true},
	{"Grainstone", true},
}
