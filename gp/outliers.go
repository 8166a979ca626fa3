package gp

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Outliers runs an iterative data-editing algorithm over observations d
// with measurement standard deviations s, drawn from the zero-mean process
// with covariance sigma and trend basis p (nil for none).
//
// Each pass conditions the process on the current inliers and computes a
// studentized residual per point: for an inlier, the leave-one-out
// prediction error divided by its predictive standard deviation; for a
// flagged point, the held-out residual against the posterior mean,
// normalized the same way. A point is an outlier when its residual
// exceeds tol times the RMS of the inlier residuals, with the candidate's
// own residual excluded from the RMS so that a gross outlier cannot mask
// itself. Basis columns that vanish over the current inliers are dropped
// for the pass. Passes repeat until the flagged set reaches a fixed point
// or maxItr is hit (a non-positive maxItr means 50). The returned indices
// into d are sorted ascending.
func Outliers(d, s []float64, sigma *mat.SymDense, p *mat.Dense, tol float64,
	maxItr int, logger *zap.Logger) ([]int, error) {
	n := len(d)
	if len(s) != n {
		return nil, errors.Errorf("got %d standard deviations for %d observations", len(s), n)
	}
	if sigma.SymmetricDim() != n {
		return nil, errors.Errorf("covariance is %d x %d, want %d x %d",
			sigma.SymmetricDim(), sigma.SymmetricDim(), n, n)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxItr <= 0 {
		maxItr = 50
	}

	out := make([]bool, n)
	for itr := 0; itr < maxItr; itr++ {
		inliers := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if !out[i] {
				inliers = append(inliers, i)
			}
		}
		keep := liveColumns(p, inliers)
		if len(inliers) <= len(keep) || len(inliers) < 2 {
			// Not enough data left to fit the trend.
			break
		}
		res, err := condition(d, s, sigma, p, inliers, keep)
		if err != nil {
			return nil, err
		}
		q := len(inliers)
		sumsq := 0.0
		for _, i := range inliers {
			sumsq += res[i] * res[i]
		}
		if sumsq == 0 {
			break
		}
		changed := false
		flagged := 0
		for i := 0; i < n; i++ {
			var rms float64
			if out[i] {
				rms = math.Sqrt(sumsq / float64(q))
			} else {
				rms = math.Sqrt((sumsq - res[i]*res[i]) / float64(q-1))
			}
			next := rms > 0 && res[i] > tol*rms
			if next != out[i] {
				changed = true
			}
			out[i] = next
			if next {
				flagged++
			}
		}
		logger.Debug("data editing pass",
			zap.Int("pass", itr+1), zap.Int("outliers", flagged))
		if !changed {
			break
		}
	}

	idx := make([]int, 0)
	for i := 0; i < n; i++ {
		if out[i] {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// liveColumns returns the columns of p with a nonzero entry over the
// inlier rows. A station whose observations are all flagged leaves its
// trend columns identically zero, which would make the normal matrix
// singular.
func liveColumns(p *mat.Dense, inliers []int) []int {
	if p == nil {
		return nil
	}
	_, m := p.Dims()
	keep := make([]int, 0, m)
	for c := 0; c < m; c++ {
		for _, i := range inliers {
			if p.At(i, c) != 0 {
				keep = append(keep, c)
				break
			}
		}
	}
	return keep
}

// condition returns the studentized residual of every point with respect
// to the process conditioned on the inlier observations: the leave-one-out
// prediction error over its predictive standard deviation for inliers
// (trend coefficients held at the inlier fit), and the held-out posterior
// residual for the rest.
func condition(d, s []float64, sigma *mat.SymDense, p *mat.Dense,
	inliers, keep []int) ([]float64, error) {
	n := len(d)
	q := len(inliers)
	m := len(keep)

	// K = sigma[in,in] + diag(s[in]**2)
	k := mat.NewSymDense(q, nil)
	for a := 0; a < q; a++ {
		for b := a; b < q; b++ {
			v := sigma.At(inliers[a], inliers[b])
			if a == b {
				v += s[inliers[a]] * s[inliers[a]]
			}
			k.SetSym(a, b, v)
		}
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(k); !ok {
		return nil, errors.Wrapf(ErrNotPositiveDefinite,
			"%d x %d inlier covariance", q, q)
	}

	din := make([]float64, q)
	for a, i := range inliers {
		din[a] = d[i]
	}

	var w *mat.VecDense
	var pin *mat.Dense
	if m > 0 {
		pin = mat.NewDense(q, m, nil)
		for a, i := range inliers {
			for c, col := range keep {
				pin.Set(a, c, p.At(i, col))
			}
		}
		var aMat mat.Dense // K^-1 P_in
		if err := chol.SolveTo(&aMat, pin); err != nil {
			return nil, errors.Wrap(err, "solving basis against the inlier covariance")
		}
		var nrm mat.Dense
		nrm.Mul(pin.T(), &aMat)
		nrmSym := mat.NewSymDense(m, nil)
		for a := 0; a < m; a++ {
			for b := a; b < m; b++ {
				nrmSym.SetSym(a, b, nrm.At(a, b))
			}
		}
		var cholNrm mat.Cholesky
		if ok := cholNrm.Factorize(nrmSym); !ok {
			return nil, errors.Wrapf(ErrNotPositiveDefinite,
				"%d x %d basis normal matrix", m, m)
		}
		var v0 mat.VecDense
		if err := chol.SolveVecTo(&v0, mat.NewVecDense(q, din)); err != nil {
			return nil, errors.Wrap(err, "solving against the inlier covariance")
		}
		var pb mat.VecDense
		pb.MulVec(pin.T(), &v0)
		w = &mat.VecDense{}
		if err := cholNrm.SolveVecTo(w, &pb); err != nil {
			return nil, errors.Wrap(err, "solving for trend coefficients")
		}
		var pw mat.VecDense
		pw.MulVec(pin, w)
		for a := 0; a < q; a++ {
			din[a] -= pw.AtVec(a)
		}
	}

	var v mat.VecDense // v = K^-1 (d_in - P_in w)
	if err := chol.SolveVecTo(&v, mat.NewVecDense(q, din)); err != nil {
		return nil, errors.Wrap(err, "solving against the inlier covariance")
	}
	var kinv mat.SymDense
	if err := chol.InverseTo(&kinv); err != nil {
		return nil, errors.Wrap(err, "inverting the inlier covariance")
	}

	res := make([]float64, n)
	isInlier := make([]bool, n)
	for a, i := range inliers {
		isInlier[i] = true
		// e = v_a / Kinv_aa is the leave-one-out error, with predictive
		// variance 1 / Kinv_aa.
		res[i] = math.Abs(v.AtVec(a)) / math.Sqrt(kinv.At(a, a))
	}
	for i := 0; i < n; i++ {
		if isInlier[i] {
			continue
		}
		ki := make([]float64, q)
		for a, j := range inliers {
			ki[a] = sigma.At(i, j)
		}
		kv := mat.NewVecDense(q, ki)
		var x mat.VecDense // x = K^-1 k_i
		if err := chol.SolveVecTo(&x, kv); err != nil {
			return nil, errors.Wrap(err, "solving against the inlier covariance")
		}
		mean := mat.Dot(kv, &v)
		if w != nil {
			for c, col := range keep {
				mean += p.At(i, col) * w.AtVec(c)
			}
		}
		postVar := sigma.At(i, i) - mat.Dot(kv, &x)
		if postVar < 0 {
			postVar = 0
		}
		res[i] = math.Abs(d[i]-mean) / math.Sqrt(postVar+s[i]*s[i])
	}
	return res, nil
}
