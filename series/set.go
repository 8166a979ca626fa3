// Package series defines the observation data model exchanged between the
// file parsers, the modeling core, and the viewer: shared epochs, station
// positions, and per-component displacement matrices in which an infinite
// standard deviation marks a missing observation.
package series

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Set holds one displacement component for a station network.
//
// T has the Nt shared epochs in ascending order, X the Nx station
// positions (one row per station, two columns), and D and SD are Nt x Nx
// matrices of displacements and standard deviations. SD = +Inf is the
// missingness marker: there is no separate mask array, and a missing D
// entry carries NaN.
type Set struct {
	T  []float64
	X  *mat.Dense
	D  *mat.Dense
	SD *mat.Dense
}

// Dims returns the number of epochs and stations.
func (s *Set) Dims() (nt, nx int) {
	nx, _ = s.X.Dims()
	return len(s.T), nx
}

// Validate checks array shapes and epoch ordering.
func (s *Set) Validate() error {
	nt, nx := s.Dims()
	if nt == 0 || nx == 0 {
		return errors.Errorf("empty set: %d epochs, %d stations", nt, nx)
	}
	if _, c := s.X.Dims(); c != 2 {
		return errors.Errorf("positions have %d columns, want 2", c)
	}
	for i := 1; i < nt; i++ {
		if s.T[i] <= s.T[i-1] {
			return errors.Errorf("epochs not ascending at index %d", i)
		}
	}
	if r, c := s.D.Dims(); r != nt || c != nx {
		return errors.Errorf("displacements are %d x %d, want %d x %d", r, c, nt, nx)
	}
	if r, c := s.SD.Dims(); r != nt || c != nx {
		return errors.Errorf("standard deviations are %d x %d, want %d x %d", r, c, nt, nx)
	}
	return nil
}

// Missing reports whether the observation at epoch i, station j is absent.
func (s *Set) Missing(i, j int) bool {
	return math.IsInf(s.SD.At(i, j), 1)
}

// Mask returns the Nt x Nx missingness mask derived from SD.
func (s *Set) Mask() [][]bool {
	nt, nx := s.Dims()
	mask := make([][]bool, nt)
	for i := 0; i < nt; i++ {
		mask[i] = make([]bool, nx)
		for j := 0; j < nx; j++ {
			mask[i][j] = s.Missing(i, j)
		}
	}
	return mask
}

// Copy returns a deep copy of the set.
func (s *Set) Copy() *Set {
	t := make([]float64, len(s.T))
	copy(t, s.T)
	return &Set{
		T:  t,
		X:  mat.DenseCopyOf(s.X),
		D:  mat.DenseCopyOf(s.D),
		SD: mat.DenseCopyOf(s.SD),
	}
}

// Flatten returns the (Nt*Nx) x 3 matrix of flattened coordinates
// (t, x0, x1), raveled time-major so that row i corresponds to
// timeIdx*Nx + stationIdx.
func (s *Set) Flatten() *mat.Dense {
	nt, nx := s.Dims()
	out := mat.NewDense(nt*nx, 3, nil)
	for i := 0; i < nt; i++ {
		for j := 0; j < nx; j++ {
			out.Set(i*nx+j, 0, s.T[i])
			out.Set(i*nx+j, 1, s.X.At(j, 0))
			out.Set(i*nx+j, 2, s.X.At(j, 1))
		}
	}
	return out
}

// UnmaskedIndex returns the ascending flat grid indices of the
// observations that are not missing.
func (s *Set) UnmaskedIndex() []int {
	nt, nx := s.Dims()
	idx := make([]int, 0, nt*nx)
	for i := 0; i < nt; i++ {
		for j := 0; j < nx; j++ {
			if !s.Missing(i, j) {
				idx = append(idx, i*nx+j)
			}
		}
	}
	return idx
}
