package gp

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// StationBlocks evaluates a per-station process at each station's unmasked
// epochs and assembles the blocks over the time-major unmasked index space:
// row k corresponds to the k-th unmasked entry of the flattened (time,
// station) grid, i.e. flat index timeIdx*Nx + stationIdx with masked
// entries skipped.
//
// The covariance is block diagonal with one block per station; basis
// columns concatenate station by station, and stations with no unmasked
// data contribute no columns. mask[i][j] marks the pair (epoch i,
// station j) as missing.
func StationBlocks(proc Process, t []float64, mask [][]bool) (*mat.SymDense, *mat.Dense, error) {
	nt := len(mask)
	if nt == 0 || nt != len(t) {
		return nil, nil, errors.Errorf("mask has %d rows, want %d", nt, len(t))
	}
	nx := len(mask[0])

	// Row in the unmasked index space of each flat grid index.
	rowOf := make([]int, nt*nx)
	n := 0
	for i := 0; i < nt; i++ {
		for j := 0; j < nx; j++ {
			if mask[i][j] {
				rowOf[i*nx+j] = -1
			} else {
				rowOf[i*nx+j] = n
				n++
			}
		}
	}
	if n == 0 {
		return nil, nil, errors.New("every observation is masked")
	}

	sigma := mat.NewSymDense(n, nil)
	type block struct {
		rows []int
		b    *mat.Dense
	}
	blocks := make([]block, 0, nx)
	totalCols := 0
	diff := []int{0}
	for j := 0; j < nx; j++ {
		times := make([]float64, 0, nt)
		rows := make([]int, 0, nt)
		for i := 0; i < nt; i++ {
			if !mask[i][j] {
				times = append(times, t[i])
				rows = append(rows, rowOf[i*nx+j])
			}
		}
		if len(times) == 0 {
			continue
		}
		zj := mat.NewDense(len(times), 1, times)
		cov, err := proc.Covariance(zj, zj, diff, diff)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "station %d covariance", j)
		}
		for a := range rows {
			for b := a; b < len(rows); b++ {
				sigma.SetSym(rows[a], rows[b], cov.At(a, b))
			}
		}
		bj, err := proc.Basis(zj, diff)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "station %d basis", j)
		}
		if bj != nil {
			_, c := bj.Dims()
			blocks = append(blocks, block{rows: rows, b: bj})
			totalCols += c
		}
	}

	var basis *mat.Dense
	if totalCols > 0 {
		basis = mat.NewDense(n, totalCols, nil)
		offset := 0
		for _, blk := range blocks {
			_, c := blk.b.Dims()
			for a, row := range blk.rows {
				for k := 0; k < c; k++ {
					basis.Set(row, offset+k, blk.b.At(a, k))
				}
			}
			offset += c
		}
	}
	return sigma, basis, nil
}
