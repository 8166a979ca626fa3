package utils_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/utils"
)

func TestHStack(t *testing.T) {
	a := mat.NewDense(2, 1, []float64{1, 2})
	b := mat.NewDense(2, 2, []float64{3, 4, 5, 6})
	out := utils.HStack(a, nil, b)
	require.Equal(t, []float64{1, 3, 4, 2, 5, 6}, out.RawMatrix().Data)

	require.Nil(t, utils.HStack(nil, nil))
	require.Nil(t, utils.HStack())
}

func TestAsSym(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 5})
	s := utils.AsSym(a)
	require.Equal(t, 2, s.SymmetricDim())
	require.Equal(t, 2.0, s.At(1, 0))
	require.Equal(t, 5.0, s.At(1, 1))
}

func TestParRows(t *testing.T) {
	const n = 1000
	var hits [n]int32
	utils.ParRows(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})
	for i := 0; i < n; i++ {
		require.Equal(t, int32(1), hits[i])
	}
	utils.ParRows(0, func(i int) { t.Fatal("should not be called") })
}
