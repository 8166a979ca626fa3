package series

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DataSet is the exchange shape consumed by viewers: the three
// displacement components of one network over a shared (Nt, Nx) grid,
// with optional per-component uncertainties. Missing entries follow the
// same convention as Set (NaN displacement, +Inf standard deviation) and
// are to be skipped as gaps when plotting.
type DataSet struct {
	T            []float64
	X            *mat.Dense
	Displacement [3]*mat.Dense
	Sigma        [3]*mat.Dense
}

// NewDataSet bundles the east, north and vertical component sets, which
// must share epochs and stations.
func NewDataSet(east, north, vertical *Set) (*DataSet, error) {
	sets := [3]*Set{east, north, vertical}
	nt, nx := east.Dims()
	out := &DataSet{T: east.T, X: east.X}
	for i, s := range sets {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if t, x := s.Dims(); t != nt || x != nx {
			return nil, errors.Errorf("component %d is %d x %d, want %d x %d",
				i, t, x, nt, nx)
		}
		for k := 0; k < nt; k++ {
			if s.T[k] != east.T[k] {
				return nil, errors.Errorf("component %d epoch %d is %v, want %v",
					i, k, s.T[k], east.T[k])
			}
		}
		for j := 0; j < nx; j++ {
			if s.X.At(j, 0) != east.X.At(j, 0) || s.X.At(j, 1) != east.X.At(j, 1) {
				return nil, errors.Errorf("component %d station %d is at (%v, %v), want (%v, %v)",
					i, j, s.X.At(j, 0), s.X.At(j, 1), east.X.At(j, 0), east.X.At(j, 1))
			}
		}
		out.Displacement[i] = s.D
		out.Sigma[i] = s.SD
	}
	return out, nil
}
