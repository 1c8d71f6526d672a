package generator

import "strings"

// Strategy selects how an entry is built from a frequency table.
// The zero value is Balanced.
type Strategy int

const (
	Balanced Strategy = iota
	Hot
	Cold
	Random
)

var strategyNames = map[Strategy]string{
	Balanced: "balanced",
	Hot:      "hot",
	Cold:     "cold",
	Random:   "random",
}

// Rotation is the strategy order used by Batch
var Rotation = []Strategy{Hot, Balanced, Cold, Random, Hot}

// String returns the lowercase strategy name; values outside the enum print as balanced
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return strategyNames[Balanced]
}

// MarshalText lets strategies appear by name in JSON output
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStrategy maps a name to a Strategy. Unknown and empty names map to Balanced.
func ParseStrategy(name string) Strategy {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s
		}
	}
	return Balanced
}

// Strategies returns every strategy in declaration order
func Strategies() []Strategy {
	return []Strategy{Balanced, Hot, Cold, Random}
}
