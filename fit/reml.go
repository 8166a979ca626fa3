package fit

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"

	"github.com/fagan2888/geons/gp"
	"github.com/fagan2888/geons/network"
	"github.com/fagan2888/geons/series"
	"github.com/fagan2888/geons/station"
)

// REMLResult holds the fitted hyperparameters and the restricted log
// likelihood achieved at them.
type REMLResult struct {
	NetworkParams []float64
	StationParams []float64
	LogLikelihood float64
}

// REML estimates the free hyperparameters of the composite network and
// station processes by restricted maximum likelihood.
//
// The free parameters (those not listed in the models' Fixed sets) are
// optimized with a Nelder-Mead simplex over their logarithms, which keeps
// every fitted value strictly positive; starting values must therefore be
// strictly positive. A covariance that fails to factorize during a trial
// contributes a log likelihood of -Inf and the search continues; the same
// failure at the starting point or at the optimum is fatal.
func REML(set *series.Set, netModel, staModel Model, opts ...Option) (*REMLResult, error) {
	o := newOptions(opts)
	pb, err := newProblem(set)
	if err != nil {
		return nil, err
	}
	// Resolve both composites up front so configuration mistakes surface
	// before the search starts.
	if _, err := gp.Composite(netModel.Names, netModel.Params, network.Constructors); err != nil {
		return nil, errors.Wrap(err, "network model")
	}
	if _, err := gp.Composite(staModel.Names, staModel.Params, station.Constructors); err != nil {
		return nil, errors.Wrap(err, "station model")
	}
	nNet := len(netModel.Params)
	params, fixed, err := concatParams(netModel, staModel)
	if err != nil {
		return nil, err
	}
	free := make([]int, 0, len(params))
	for i := range params {
		if !fixed[i] {
			free = append(free, i)
		}
	}
	for _, i := range free {
		if params[i] <= 0 {
			return nil, errors.Errorf(
				"free hyperparameter %d must be positive, got %v", i, params[i])
		}
	}

	eval := func(test []float64) (float64, error) {
		netGP, err := gp.Composite(netModel.Names, test[:nNet], network.Constructors)
		if err != nil {
			return 0, err
		}
		staGP, err := gp.Composite(staModel.Names, test[nNet:], station.Constructors)
		if err != nil {
			return 0, err
		}
		sigma, basis, err := pb.covariance(netGP, staGP, true)
		if err != nil {
			return 0, err
		}
		return gp.Likelihood(pb.d, sigma, basis)
	}

	split := func(ll float64) *REMLResult {
		return &REMLResult{
			NetworkParams: params[:nNet],
			StationParams: params[nNet:],
			LogLikelihood: ll,
		}
	}

	if len(free) == 0 {
		ll, err := eval(params)
		if err != nil {
			return nil, errors.Wrap(err, "evaluating the log likelihood")
		}
		return split(ll), nil
	}

	var lastErr error
	// Objective over the log of the free parameters, negated for the
	// minimizer.
	objective := func(theta []float64) float64 {
		test := make([]float64, len(params))
		copy(test, params)
		for k, i := range free {
			test[i] = math.Exp(theta[k])
		}
		ll, err := eval(test)
		if err != nil {
			lastErr = err
			o.logger.Warn("log likelihood evaluation failed, returning -Inf",
				zap.Error(err))
			return math.Inf(1)
		}
		o.logger.Debug("trial hyperparameters",
			zap.Float64s("params", test), zap.Float64("loglikelihood", ll))
		return -ll
	}

	x0 := make([]float64, len(free))
	for k, i := range free {
		x0[k] = math.Log(params[i])
	}
	if f0 := objective(x0); math.IsInf(f0, 1) || math.IsNaN(f0) {
		return nil, errors.Wrap(lastErr, "log likelihood undefined at the starting point")
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: 1e-10, Iterations: 100},
	}
	if o.maxIter > 0 {
		settings.MajorIterations = o.maxIter
	}
	res, err := optimize.Minimize(optimize.Problem{Func: objective}, x0,
		settings, &optimize.NelderMead{})
	if err != nil {
		return nil, errors.Wrap(err, "hyperparameter search")
	}
	if math.IsInf(res.F, 1) || math.IsNaN(res.F) {
		return nil, errors.Wrap(lastErr, "log likelihood undefined at the optimum")
	}
	for k, i := range free {
		params[i] = math.Exp(res.X[k])
	}
	ll := -res.F
	o.logger.Info("optimal hyperparameters",
		zap.Float64s("network", params[:nNet]),
		zap.Float64s("station", params[nNet:]),
		zap.Float64("loglikelihood", ll))
	return split(ll), nil
}
