package gp

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/utils"
)

// Likelihood returns the restricted log-likelihood of d under the zero-mean
// Gaussian N(0, sigma) with the coefficients of the trend basis p
// marginalized out under an improper uniform prior (Harville 1974):
//
//	ll = -0.5*((n-m)*log(2*pi) + logdet(S) + logdet(P.T S^-1 P) + d.T Pi d)
//	Pi = S^-1 - S^-1 P (P.T S^-1 P)^-1 P.T S^-1
//
// p may be nil or have zero columns, in which case the plain multivariate
// normal log-density is returned.
func Likelihood(d []float64, sigma *mat.SymDense, p *mat.Dense) (float64, error) {
	n := len(d)
	if sigma.SymmetricDim() != n {
		return 0, errors.Errorf("covariance is %d x %d, want %d x %d",
			sigma.SymmetricDim(), sigma.SymmetricDim(), n, n)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return 0, errors.Wrapf(ErrNotPositiveDefinite, "%d x %d covariance", n, n)
	}
	dv := mat.NewVecDense(n, d)
	var b mat.VecDense // b = S^-1 d
	if err := chol.SolveVecTo(&b, dv); err != nil {
		return 0, errors.Wrap(err, "solving against the covariance")
	}
	quad := mat.Dot(dv, &b)
	logdet := chol.LogDet()

	m := 0
	if p != nil {
		_, m = p.Dims()
	}
	if m > 0 {
		var a mat.Dense // a = S^-1 P
		if err := chol.SolveTo(&a, p); err != nil {
			return 0, errors.Wrap(err, "solving basis against the covariance")
		}
		var nrm mat.Dense // nrm = P.T S^-1 P
		nrm.Mul(p.T(), &a)
		var cholNrm mat.Cholesky
		if ok := cholNrm.Factorize(utils.AsSym(&nrm)); !ok {
			return 0, errors.Wrapf(ErrNotPositiveDefinite,
				"%d x %d basis normal matrix", m, m)
		}
		var pb mat.VecDense // pb = P.T S^-1 d
		pb.MulVec(p.T(), &b)
		var w mat.VecDense
		if err := cholNrm.SolveVecTo(&w, &pb); err != nil {
			return 0, errors.Wrap(err, "solving for trend coefficients")
		}
		quad -= mat.Dot(&pb, &w)
		logdet += cholNrm.LogDet()
	}
	return -0.5 * (float64(n-m)*math.Log(2*math.Pi) + logdet + quad), nil
}
