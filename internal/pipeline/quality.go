package pipeline

import "math"

// Tier is a named iteration multiplier.
type Tier struct {
	Name string
	Mult float64
}

// Tiers lists the quality tiers from cheapest to most expensive.
var Tiers = []Tier{
	{"20%", 0.2},
	{"50%", 0.5},
	{"100%", 1},
	{"200%", 2},
	{"1000%", 10},
	{"2000%", 20},
}

// Multiplier returns the iteration multiplier of the named tier. Unknown tiers render at 100%.
func Multiplier(tier string) float64 {
	for _, t := range Tiers {
		if t.Name == tier {
			return t.Mult
		}
	}
	return 1
}

// Iterations is floor(base*Multiplier(tier)), at least 1.
func Iterations(base int, tier string) int {
	return max(1, int(math.Floor(float64(base)*Multiplier(tier))))
}

// NextTier returns the tier after the named one, wrapping around. Unknown tiers continue from 100%.
func NextTier(tier string) string {
	for i, t := range Tiers {
		if t.Name == tier {
			return Tiers[(i+1)%len(Tiers)].Name
		}
	}
	return Tiers[3].Name
}
