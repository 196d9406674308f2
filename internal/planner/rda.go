package planner

import "sort"

// rdaKcalBaseline is the calorie intake the RDA table below is keyed to.
// Coverage computations rescale each RDA linearly to the actual calorie
// target before taking the ratio.
const rdaKcalBaseline = 2000.0

// coverageCap bounds any single coverage percentage.
const coverageCap = 200.0

// rdaPer2000Kcal is the reference daily allowance per tracked
// micronutrient at a 2000 kcal intake.
var rdaPer2000Kcal = map[string]float64{
	"Fe_mg":     18,
	"Ca_mg":     1000,
	"Folate_ug": 400,
	"VitD_IU":   600,
	"B12_ug":    2.4,
	"Iodine_ug": 150,
	"Mg_mg":     400,
	"K_mg":      3500,
}

// microKeys returns the tracked micronutrient keys in sorted order, so
// every pass over the RDA table is deterministic.
func microKeys() []string {
	keys := make([]string, 0, len(rdaPer2000Kcal))
	for key := range rdaPer2000Kcal {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
