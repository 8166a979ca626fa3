// Package network provides the registry of network process constructors.
// A network process models the signal that is correlated across stations,
// with a separable covariance over flattened (t, x0, x1) coordinates.
package network

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/gp"
	"github.com/fagan2888/geons/kern"
	"github.com/fagan2888/geons/utils"
)

// Constructors resolves network model names. Every entry except "null"
// takes three hyperparameters: standard deviation, time scale and space
// scale, giving the covariance
//
//	sigma**2 * kt(|t1 - t2| / lt) * exp(-r**2 / (2 * lx**2))
//
// with r the Euclidean distance between the two positions.
var Constructors = gp.Registry{
	"se-se":    {NParams: 3, New: newSeparable(kern.SquaredExp)},
	"exp-se":   {NParams: 3, New: newSeparable(kern.Exponential)},
	"mat32-se": {NParams: 3, New: newSeparable(kern.Matern32)},
	"null":     {NParams: 0, New: func(params []float64) gp.Process { return gp.Null{} }},
}

func newSeparable(time kern.Kernel) func(params []float64) gp.Process {
	return func(params []float64) gp.Process {
		return &separable{
			sigma: params[0],
			lt:    params[1],
			lx:    params[2],
			time:  time,
		}
	}
}

type separable struct {
	sigma float64
	lt    float64
	lx    float64
	time  kern.Kernel
}

var _ gp.Process = &separable{}

func (p *separable) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	if err := checkCoords(z1, diff1); err != nil {
		return nil, err
	}
	if err := checkCoords(z2, diff2); err != nil {
		return nil, err
	}
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	amp := p.sigma * p.sigma
	out := mat.NewDense(n1, n2, nil)
	utils.ParRows(n1, func(i int) {
		t1, x0, x1 := z1.At(i, 0), z1.At(i, 1), z1.At(i, 2)
		for j := 0; j < n2; j++ {
			kt := p.time.Cov(p.lt, t1, z2.At(j, 0))
			r := math.Hypot(x0-z2.At(j, 1), x1-z2.At(j, 2))
			kx := kern.SquaredExp.Cov(p.lx, r, 0)
			out.Set(i, j, amp*kt*kx)
		}
	})
	return out, nil
}

func (p *separable) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	if err := checkCoords(z, diff); err != nil {
		return nil, err
	}
	return nil, nil
}

func checkCoords(z mat.Matrix, diff []int) error {
	_, c := z.Dims()
	if c != 3 {
		return errors.Errorf("network coordinates have %d columns, want 3", c)
	}
	if len(diff) != 3 {
		return errors.Errorf("network diff vector has %d entries, want 3", len(diff))
	}
	if !gp.ZeroDiff(diff) {
		return errors.Wrapf(gp.ErrUnsupportedDiff, "diff %v", diff)
	}
	return nil
}
