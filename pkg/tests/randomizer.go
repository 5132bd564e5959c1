package tests

import (
	"math/rand/v2"
)

// Randomizer produces shop-like test data.
type Randomizer struct {
	// Price returns a price in [1, 101) rounded to pennies.
	Price func() float64
	Bool  func() bool
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // for tests

	return Randomizer{
		Price: func() float64 { return 1 + float64(random.IntN(10000))/100 }, //nolint:mnd // pennies
		Bool:  func() bool { return random.IntN(2) == 0 },                     //nolint:mnd // skip
	}
}
