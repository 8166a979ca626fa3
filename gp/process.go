// Package gp implements the composite Gaussian-process machinery used to
// model station displacement fields: process construction from named
// registries, block-diagonal station covariance assembly, the restricted
// (trend-marginalized) log-likelihood, and an iterative outlier-detection
// routine.
package gp

import (
	"gonum.org/v1/gonum/mat"
)

// Process is a zero-mean Gaussian process over coordinate rows of a dense
// matrix, together with its (possibly empty) unconstrained trend basis.
//
// The diff vectors select a partial-derivative order per coordinate.
// The shipped kernels only implement order zero and return
// ErrUnsupportedDiff otherwise; polynomial bases differentiate
// analytically.
//
// A nil basis matrix stands for a basis with zero columns.
type Process interface {
	Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error)
	Basis(z mat.Matrix, diff []int) (*mat.Dense, error)
}

// Null is the trivial process: zero covariance, no basis.
type Null struct{}

var _ Process = Null{}

func (Null) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	return mat.NewDense(n1, n2, nil), nil
}

func (Null) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	return nil, nil
}

// ZeroDiff reports whether every entry of diff is zero.
func ZeroDiff(diff []int) bool {
	for _, d := range diff {
		if d != 0 {
			return false
		}
	}
	return true
}
