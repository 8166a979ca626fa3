package gp_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/gp"
)

// linProc is a per-station test process with covariance 1 + a*b and basis
// [1, t].
type linProc struct{}

func (linProc) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	n1, _ := z1.Dims()
	n2, _ := z2.Dims()
	out := mat.NewDense(n1, n2, nil)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			out.Set(i, j, 1+z1.At(i, 0)*z2.At(j, 0))
		}
	}
	return out, nil
}

func (linProc) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	n, _ := z.Dims()
	out := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, 1)
		out.Set(i, 1, z.At(i, 0))
	}
	return out, nil
}

func TestStationBlocks(t *testing.T) {
	// Two stations over three epochs; station 1 misses epoch 1. Unmasked
	// rows in time-major order: (0,0) (0,1) (1,0) (2,0) (2,1).
	tt := []float64{0, 1, 2}
	mask := [][]bool{
		{false, false},
		{false, true},
		{false, false},
	}
	sigma, basis, err := gp.StationBlocks(linProc{}, tt, mask)
	require.NoError(t, err)
	require.Equal(t, 5, sigma.SymmetricDim())

	// Station 0 occupies rows {0, 2, 3} with times {0, 1, 2}.
	require.Equal(t, 1.0, sigma.At(0, 2))  // 1 + 0*1
	require.Equal(t, 3.0, sigma.At(2, 3))  // 1 + 1*2
	require.Equal(t, 5.0, sigma.At(3, 3))  // 1 + 2*2
	// Station 1 occupies rows {1, 4} with times {0, 2}.
	require.Equal(t, 1.0, sigma.At(1, 4))
	// Blocks of different stations never couple.
	require.Equal(t, 0.0, sigma.At(0, 1))
	require.Equal(t, 0.0, sigma.At(3, 4))

	r, c := basis.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 4, c)
	// Station 0 basis columns.
	require.Equal(t, 1.0, basis.At(0, 0))
	require.Equal(t, 2.0, basis.At(3, 1))
	require.Equal(t, 0.0, basis.At(1, 0))
	// Station 1 basis columns.
	require.Equal(t, 1.0, basis.At(1, 2))
	require.Equal(t, 2.0, basis.At(4, 3))
	require.Equal(t, 0.0, basis.At(0, 2))
}

func TestStationBlocksSkipsEmptyStations(t *testing.T) {
	tt := []float64{0, 1}
	mask := [][]bool{
		{false, true},
		{false, true},
	}
	sigma, basis, err := gp.StationBlocks(linProc{}, tt, mask)
	require.NoError(t, err)
	require.Equal(t, 2, sigma.SymmetricDim())
	_, c := basis.Dims()
	require.Equal(t, 2, c) // only station 0 contributes columns
}

func TestStationBlocksAllMasked(t *testing.T) {
	mask := [][]bool{{true}, {true}}
	_, _, err := gp.StationBlocks(linProc{}, []float64{0, 1}, mask)
	require.Error(t, err)
}

func TestStationBlocksNoBasis(t *testing.T) {
	mask := [][]bool{{false}, {false}}
	_, basis, err := gp.StationBlocks(gp.Null{}, []float64{0, 1}, mask)
	require.NoError(t, err)
	require.Nil(t, basis)
}
