package gp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/gp"
)

func smoothSigma(n int) *mat.SymDense {
	sigma := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := float64(i - j) / 2.0
			sigma.SetSym(i, j, math.Exp(-0.5*r*r))
		}
	}
	return sigma
}

func noisyData(n int) ([]float64, []float64) {
	d := make([]float64, n)
	s := make([]float64, n)
	noise := []float64{0.05, -0.08, 0.03, 0.1, -0.06, 0.02, 0.07, -0.04, 0.09, -0.02}
	for i := 0; i < n; i++ {
		d[i] = noise[i%len(noise)]
		s[i] = 0.1
	}
	return d, s
}

func TestOutliersFlagsSpike(t *testing.T) {
	n := 20
	d, s := noisyData(n)
	d[5] = 1.0 // roughly 10 sigma away from the smooth fit
	idx, err := gp.Outliers(d, s, smoothSigma(n), nil, 3.0, 0, nil)
	require.NoError(t, err)
	require.Equal(t, []int{5}, idx)
}

func TestOutliersLargeTolerance(t *testing.T) {
	n := 20
	d, s := noisyData(n)
	d[5] = 1.0
	idx, err := gp.Outliers(d, s, smoothSigma(n), nil, 1e9, 0, nil)
	require.NoError(t, err)
	require.Empty(t, idx)
}

func TestOutliersCleanData(t *testing.T) {
	n := 20
	d, s := noisyData(n)
	idx, err := gp.Outliers(d, s, smoothSigma(n), nil, 4.0, 0, nil)
	require.NoError(t, err)
	require.Empty(t, idx)
}

func TestOutliersWithTrendBasis(t *testing.T) {
	// A large common offset is absorbed by the constant trend column and
	// must not produce outliers; the injected spike still is one.
	n := 20
	d, s := noisyData(n)
	for i := range d {
		d[i] += 50.0
	}
	d[7] += 1.0
	p := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		p.Set(i, 0, 1)
	}
	idx, err := gp.Outliers(d, s, smoothSigma(n), p, 3.0, 0, nil)
	require.NoError(t, err)
	require.Equal(t, []int{7}, idx)
}

func TestOutliersEmptiedTrendColumn(t *testing.T) {
	// The second trend column is carried only by indices 4 and 5, which
	// are gross outliers of opposite sign. Once both are flagged the
	// column vanishes over the inliers and must be dropped rather than
	// fed to the factorization.
	n := 20
	d, s := noisyData(n)
	d[4] += 5.0
	d[5] -= 5.0
	p := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		p.Set(i, 0, 1)
	}
	p.Set(4, 1, 1)
	p.Set(5, 1, 1)
	idx, err := gp.Outliers(d, s, smoothSigma(n), p, 3.0, 0, nil)
	require.NoError(t, err)
	require.Equal(t, []int{4, 5}, idx)
}

func TestOutliersLengthMismatch(t *testing.T) {
	_, err := gp.Outliers([]float64{1, 2}, []float64{1}, smoothSigma(2), nil, 3.0, 0, nil)
	require.Error(t, err)
}
