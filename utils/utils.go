package utils

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// HStack concatenates matrices horizontally. Nil entries stand for
// zero-column matrices and are skipped; if every entry is nil the result
// is nil.
func HStack(mats ...*mat.Dense) *mat.Dense {
	rows, cols := 0, 0
	for _, m := range mats {
		if m == nil {
			continue
		}
		r, c := m.Dims()
		rows = r
		cols += c
	}
	if cols == 0 {
		return nil
	}
	out := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, m := range mats {
		if m == nil {
			continue
		}
		_, c := m.Dims()
		out.Slice(0, rows, offset, offset+c).(*mat.Dense).Copy(m)
		offset += c
	}
	return out
}

// AsSym copies the upper triangle of a square matrix into a SymDense.
func AsSym(a mat.Matrix) *mat.SymDense {
	n, _ := a.Dims()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, a.At(i, j))
		}
	}
	return out
}

// ParRows calls f for every row index in [0, n), splitting the rows across
// GOMAXPROCS goroutines.
func ParRows(n int, f func(i int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < n; i += workers {
				f(i)
			}
		}(w)
	}
	wg.Wait()
}
