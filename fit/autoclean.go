package fit

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fagan2888/geons/gp"
	"github.com/fagan2888/geons/network"
	"github.com/fagan2888/geons/series"
	"github.com/fagan2888/geons/station"
)

// Autoclean flags statistical outliers in the observation set and returns
// a cleaned copy in which each flagged displacement is NaN and its
// standard deviation +Inf. The input set is never modified.
//
// The composite process is built with the given hyperparameters (nothing
// is estimated here) and its prior covariance, without an
// observation-noise term, drives the data-editing algorithm of
// gp.Outliers with threshold tol. Observations that are already missing
// are never considered. A non-positive tol returns an unmodified copy.
func Autoclean(set *series.Set, netModel, staModel Model, tol float64,
	opts ...Option) (*series.Set, error) {
	o := newOptions(opts)
	if err := set.Validate(); err != nil {
		return nil, err
	}
	out := set.Copy()
	if tol <= 0 {
		o.logger.Debug("non-positive tolerance, nothing to flag",
			zap.Float64("tol", tol))
		return out, nil
	}
	pb, err := newProblem(set)
	if err != nil {
		return nil, err
	}
	netGP, err := gp.Composite(netModel.Names, netModel.Params, network.Constructors)
	if err != nil {
		return nil, errors.Wrap(err, "network model")
	}
	staGP, err := gp.Composite(staModel.Names, staModel.Params, station.Constructors)
	if err != nil {
		return nil, errors.Wrap(err, "station model")
	}
	sigma, basis, err := pb.covariance(netGP, staGP, false)
	if err != nil {
		return nil, err
	}
	outIdx, err := gp.Outliers(pb.d, pb.sd, sigma, basis, tol, o.maxIter, o.logger)
	if err != nil {
		return nil, errors.Wrap(err, "detecting outliers")
	}
	_, nx := set.Dims()
	for _, k := range outIdx {
		flat := pb.idx[k]
		out.D.Set(flat/nx, flat%nx, math.NaN())
		out.SD.Set(flat/nx, flat%nx, math.Inf(1))
	}
	o.logger.Info("autoclean finished",
		zap.Int("observations", len(pb.idx)), zap.Int("outliers", len(outIdx)))
	return out, nil
}
