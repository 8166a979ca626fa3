// Package station provides the registry of per-station process
// constructors. A station process models noise and drift specific to one
// station; its coordinates are epochs only, and the composite builder
// evaluates it independently per station.
package station

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/gp"
	"github.com/fagan2888/geons/kern"
)

// Constructors resolves station model names.
//
// Covariance models: "se", "exp", "mat32", "mat52" take (sigma, l) with
// covariance sigma**2 * k(|t1 - t2| / l); "fogm" takes (sigma, w) for a
// first-order Gauss-Markov process, sigma**2 / (2*w) * exp(-w*|t1 - t2|);
// "bm" takes (sigma) for Brownian motion started at the earliest
// evaluated epoch; "wn" takes (sigma) for white noise.
//
// Basis-only models take no hyperparameters and have zero covariance:
// "p0" and "p1" are the constant and linear polynomial terms; "per" adds
// annual and semiannual sinusoids over epochs in days.
var Constructors = gp.Registry{
	"se":    {NParams: 2, New: newScaled(kern.SquaredExp)},
	"exp":   {NParams: 2, New: newScaled(kern.Exponential)},
	"mat32": {NParams: 2, New: newScaled(kern.Matern32)},
	"mat52": {NParams: 2, New: newScaled(kern.Matern52)},
	"fogm":  {NParams: 2, New: newFOGM},
	"bm":    {NParams: 1, New: newBrownian},
	"wn":    {NParams: 1, New: newWhite},
	"p0":    {NParams: 0, New: func(params []float64) gp.Process { return &poly{degree: 0} }},
	"p1":    {NParams: 0, New: func(params []float64) gp.Process { return &poly{degree: 1} }},
	"per":   {NParams: 0, New: func(params []float64) gp.Process { return seasonal{} }},
	"null":  {NParams: 0, New: func(params []float64) gp.Process { return gp.Null{} }},
}

func newScaled(k kern.Kernel) func(params []float64) gp.Process {
	return func(params []float64) gp.Process {
		sigma, l := params[0], params[1]
		return covFunc(func(a, b float64) float64 {
			return sigma * sigma * k.Cov(l, a, b)
		})
	}
}

func newFOGM(params []float64) gp.Process {
	sigma, w := params[0], params[1]
	amp := sigma * sigma / (2 * w)
	return covFunc(func(a, b float64) float64 {
		return amp * math.Exp(-w*math.Abs(a-b))
	})
}

func newWhite(params []float64) gp.Process {
	sigma := params[0]
	return covFunc(func(a, b float64) float64 {
		return sigma * sigma * kern.White.Cov(1, a, b)
	})
}

// covFunc adapts a scalar covariance of two epochs into a basis-free
// Process over single-column coordinates.
type covFunc func(a, b float64) float64

var _ gp.Process = covFunc(nil)

func (f covFunc) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	if err := checkEpochs(z1, diff1); err != nil {
		return nil, err
	}
	if err := checkEpochs(z2, diff2); err != nil {
		return nil, err
	}
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	out := mat.NewDense(n1, n2, nil)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			out.Set(i, j, f(z1.At(i, 0), z2.At(j, 0)))
		}
	}
	return out, nil
}

func (f covFunc) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	if err := checkEpochs(z, diff); err != nil {
		return nil, err
	}
	return nil, nil
}

// newBrownian measures epochs from the earliest one passed to each
// evaluation, so the variance grows from the start of the record.
func newBrownian(params []float64) gp.Process {
	sigma := params[0]
	return brownian{amp: sigma * sigma}
}

type brownian struct {
	amp float64
}

var _ gp.Process = brownian{}

func (p brownian) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	if err := checkEpochs(z1, diff1); err != nil {
		return nil, err
	}
	if err := checkEpochs(z2, diff2); err != nil {
		return nil, err
	}
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	t0 := math.Inf(1)
	for i := 0; i < n1; i++ {
		t0 = math.Min(t0, z1.At(i, 0))
	}
	for j := 0; j < n2; j++ {
		t0 = math.Min(t0, z2.At(j, 0))
	}
	out := mat.NewDense(n1, n2, nil)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			out.Set(i, j, p.amp*kern.Brownian.Cov(1, z1.At(i, 0)-t0, z2.At(j, 0)-t0))
		}
	}
	return out, nil
}

func (p brownian) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	if err := checkEpochs(z, diff); err != nil {
		return nil, err
	}
	return nil, nil
}

type poly struct {
	degree int
}

var _ gp.Process = &poly{}

func (p *poly) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	if err := checkEpochs(z1, diff1); err != nil {
		return nil, err
	}
	if err := checkEpochs(z2, diff2); err != nil {
		return nil, err
	}
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	return mat.NewDense(n1, n2, nil), nil
}

func (p *poly) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	_, c := z.Dims()
	if c != 1 {
		return nil, errors.Errorf("station coordinates have %d columns, want 1", c)
	}
	if len(diff) != 1 {
		return nil, errors.Errorf("station diff vector has %d entries, want 1", len(diff))
	}
	q := diff[0]
	if q < 0 {
		return nil, errors.Wrapf(gp.ErrUnsupportedDiff, "diff %v", diff)
	}
	if q > p.degree {
		// The derivative annihilates the monomial.
		return nil, nil
	}
	coeff := 1.0
	for k := p.degree; k > p.degree-q; k-- {
		coeff *= float64(k)
	}
	n, _ := z.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, coeff*math.Pow(z.At(i, 0), float64(p.degree-q)))
	}
	return out, nil
}

// seasonal contributes annual and semiannual sinusoid basis columns for
// epochs expressed in days (e.g. MJD).
type seasonal struct{}

var _ gp.Process = seasonal{}

const daysPerYear = 365.25

func (seasonal) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	if err := checkEpochs(z1, diff1); err != nil {
		return nil, err
	}
	if err := checkEpochs(z2, diff2); err != nil {
		return nil, err
	}
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	return mat.NewDense(n1, n2, nil), nil
}

func (seasonal) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	if err := checkEpochs(z, diff); err != nil {
		return nil, err
	}
	n, _ := z.Dims()
	out := mat.NewDense(n, 4, nil)
	for i := 0; i < n; i++ {
		t := z.At(i, 0)
		out.Set(i, 0, math.Sin(2*math.Pi*t/daysPerYear))
		out.Set(i, 1, math.Cos(2*math.Pi*t/daysPerYear))
		out.Set(i, 2, math.Sin(4*math.Pi*t/daysPerYear))
		out.Set(i, 3, math.Cos(4*math.Pi*t/daysPerYear))
	}
	return out, nil
}

func checkEpochs(z mat.Matrix, diff []int) error {
	_, c := z.Dims()
	if c != 1 {
		return errors.Errorf("station coordinates have %d columns, want 1", c)
	}
	if len(diff) != 1 {
		return errors.Errorf("station diff vector has %d entries, want 1", len(diff))
	}
	if !gp.ZeroDiff(diff) {
		return errors.Wrapf(gp.ErrUnsupportedDiff, "diff %v", diff)
	}
	return nil
}
