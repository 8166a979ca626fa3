// Package fit exposes the two operations of the modeling pipeline:
// restricted maximum likelihood estimation of composite-process
// hyperparameters, and the autoclean data-editing algorithm.
package fit

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/gp"
	"github.com/fagan2888/geons/series"
	"github.com/fagan2888/geons/utils"
)

// Model names a composite process and supplies its flat hyperparameter
// vector. Fixed holds indices into Params that are held at their supplied
// values during estimation; Autoclean ignores it.
type Model struct {
	Names  []string
	Params []float64
	Fixed  []int
}

type options struct {
	logger  *zap.Logger
	maxIter int
}

// Option adjusts REML and Autoclean behavior.
type Option func(*options)

// WithLogger installs a logger for trial, warning and summary output. The
// default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxIterations caps the simplex search and the data-editing loop.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIter = n }
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var diff3 = []int{0, 0, 0}

// problem holds the unmasked view of an observation set.
type problem struct {
	set  *series.Set
	mask [][]bool
	idx  []int // flat grid indices of the unmasked observations
	zu   *mat.Dense
	d    []float64
	sd   []float64
}

func newProblem(set *series.Set) (*problem, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	idx := set.UnmaskedIndex()
	if len(idx) == 0 {
		return nil, errors.New("every observation is missing")
	}
	_, nx := set.Dims()
	z := set.Flatten()
	zu := mat.NewDense(len(idx), 3, nil)
	d := make([]float64, len(idx))
	sd := make([]float64, len(idx))
	for k, flat := range idx {
		for c := 0; c < 3; c++ {
			zu.Set(k, c, z.At(flat, c))
		}
		d[k] = set.D.At(flat/nx, flat%nx)
		sd[k] = set.SD.At(flat/nx, flat%nx)
	}
	return &problem{
		set:  set,
		mask: set.Mask(),
		idx:  idx,
		zu:   zu,
		d:    d,
		sd:   sd,
	}, nil
}

// covariance assembles the combined covariance (station blocks plus
// network, plus the observation-noise diagonal when withNoise is set) and
// the stacked trend basis (station columns then network columns) over the
// unmasked observations.
func (pb *problem) covariance(netGP, staGP gp.Process, withNoise bool) (*mat.SymDense, *mat.Dense, error) {
	staSigma, staP, err := gp.StationBlocks(staGP, pb.set.T, pb.mask)
	if err != nil {
		return nil, nil, errors.Wrap(err, "station process")
	}
	netSigma, err := netGP.Covariance(pb.zu, pb.zu, diff3, diff3)
	if err != nil {
		return nil, nil, errors.Wrap(err, "network covariance")
	}
	netP, err := netGP.Basis(pb.zu, diff3)
	if err != nil {
		return nil, nil, errors.Wrap(err, "network basis")
	}
	n := len(pb.idx)
	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := staSigma.At(i, j) + netSigma.At(i, j)
			if withNoise && i == j {
				v += pb.sd[i] * pb.sd[i]
			}
			sigma.SetSym(i, j, v)
		}
	}
	return sigma, utils.HStack(staP, netP), nil
}

// concatParams joins the network and station hyperparameter vectors and
// fixed-index sets, offsetting station indices by the network parameter
// count, and returns the combined vector with the validated fixed set.
func concatParams(netModel, staModel Model) ([]float64, map[int]bool, error) {
	nNet := len(netModel.Params)
	params := make([]float64, 0, nNet+len(staModel.Params))
	params = append(params, netModel.Params...)
	params = append(params, staModel.Params...)

	fixed := make(map[int]bool, len(netModel.Fixed)+len(staModel.Fixed))
	for _, i := range netModel.Fixed {
		if i < 0 || i >= nNet {
			return nil, nil, errors.Wrapf(gp.ErrBadFixedIndex,
				"network index %d with %d parameters", i, nNet)
		}
		if fixed[i] {
			return nil, nil, errors.Wrapf(gp.ErrBadFixedIndex,
				"network index %d duplicated", i)
		}
		fixed[i] = true
	}
	for _, i := range staModel.Fixed {
		if i < 0 || i >= len(staModel.Params) {
			return nil, nil, errors.Wrapf(gp.ErrBadFixedIndex,
				"station index %d with %d parameters", i, len(staModel.Params))
		}
		if fixed[nNet+i] {
			return nil, nil, errors.Wrapf(gp.ErrBadFixedIndex,
				"station index %d duplicated", i)
		}
		fixed[nNet+i] = true
	}
	return params, fixed, nil
}
