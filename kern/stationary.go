package kern

import (
	"math"
)

var (
	// Compile-time interface checks.
	_ Kernel = SquaredExp
	_ Kernel = Exponential
	_ Kernel = Matern32
	_ Kernel = Matern52
)

type squaredExp struct{}

// SquaredExp is the Gaussian kernel exp(-r**2 / 2) with r = (a - b) / l.
var SquaredExp squaredExp

func (squaredExp) Cov(l, a, b float64) float64 {
	r := (a - b) / l
	return math.Exp(-0.5 * r * r)
}

type exponential struct{}

// Exponential is the Ornstein-Uhlenbeck kernel exp(-|r|), equivalently
// Matern with nu = 1/2.
var Exponential exponential

func (exponential) Cov(l, a, b float64) float64 {
	return math.Exp(-math.Abs(a-b) / l)
}

type matern32 struct{}

// Matern32 is the Matern kernel with nu = 3/2,
// (1 + sqrt(3)*|r|) * exp(-sqrt(3)*|r|).
var Matern32 matern32

func (matern32) Cov(l, a, b float64) float64 {
	r := math.Sqrt(3) * math.Abs(a-b) / l
	return (1 + r) * math.Exp(-r)
}

type matern52 struct{}

// Matern52 is the Matern kernel with nu = 5/2,
// (1 + sqrt(5)*|r| + 5*r**2/3) * exp(-sqrt(5)*|r|).
var Matern52 matern52

func (matern52) Cov(l, a, b float64) float64 {
	r := math.Sqrt(5) * math.Abs(a-b) / l
	return (1 + r + r*r/3) * math.Exp(-r)
}
