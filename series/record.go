package series

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// StationRecord is the output contract of the file-format parsers: one
// station's displacement record with times in Modified Julian Date and
// displacements in meters**SpaceExponent * days**TimeExponent.
type StationRecord struct {
	ID        string
	Longitude float64
	Latitude  float64
	Time      []int
	North     []float64
	East      []float64
	Vertical  []float64

	NorthStdDev    []float64
	EastStdDev     []float64
	VerticalStdDev []float64

	SpaceExponent int
	TimeExponent  int
}

func (r *StationRecord) component(c Component) ([]float64, []float64) {
	switch c {
	case East:
		return r.East, r.EastStdDev
	case North:
		return r.North, r.NorthStdDev
	default:
		return r.Vertical, r.VerticalStdDev
	}
}

func (r *StationRecord) validate() error {
	n := len(r.Time)
	for i := 1; i < n; i++ {
		if r.Time[i] <= r.Time[i-1] {
			return errors.Errorf("station %s: times not ascending at index %d", r.ID, i)
		}
	}
	for _, a := range [][]float64{
		r.North, r.East, r.Vertical,
		r.NorthStdDev, r.EastStdDev, r.VerticalStdDev,
	} {
		if len(a) != n {
			return errors.Errorf("station %s: array length %d does not match %d times",
				r.ID, len(a), n)
		}
	}
	return nil
}

// Component selects one displacement direction.
type Component int

const (
	East Component = iota
	North
	Vertical
)

// Combine assembles one displacement component of several station records
// onto the union of their time grids. Epochs a station does not report get
// an infinite standard deviation and a NaN displacement. Positions are the
// (longitude, latitude) pairs of the records; unit harmonization is the
// caller's concern, but mixed unit exponents across records are rejected.
func Combine(records []*StationRecord, c Component) (*Set, error) {
	if len(records) == 0 {
		return nil, errors.New("no station records")
	}
	for _, r := range records {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if r.SpaceExponent != records[0].SpaceExponent ||
			r.TimeExponent != records[0].TimeExponent {
			return nil, errors.Errorf(
				"station %s: units m**%d days**%d do not match station %s: m**%d days**%d",
				r.ID, r.SpaceExponent, r.TimeExponent,
				records[0].ID, records[0].SpaceExponent, records[0].TimeExponent)
		}
	}

	union := make(map[int]struct{})
	for _, r := range records {
		for _, day := range r.Time {
			union[day] = struct{}{}
		}
	}
	days := make([]int, 0, len(union))
	for day := range union {
		days = append(days, day)
	}
	sort.Ints(days)

	row := make(map[int]int, len(days))
	t := make([]float64, len(days))
	for i, day := range days {
		row[day] = i
		t[i] = float64(day)
	}

	nt, nx := len(days), len(records)
	x := mat.NewDense(nx, 2, nil)
	d := mat.NewDense(nt, nx, nil)
	sd := mat.NewDense(nt, nx, nil)
	for i := 0; i < nt; i++ {
		for j := 0; j < nx; j++ {
			d.Set(i, j, math.NaN())
			sd.Set(i, j, math.Inf(1))
		}
	}
	for j, r := range records {
		x.Set(j, 0, r.Longitude)
		x.Set(j, 1, r.Latitude)
		disp, sigma := r.component(c)
		for k, day := range r.Time {
			i := row[day]
			d.Set(i, j, disp[k])
			sd.Set(i, j, sigma[k])
		}
	}
	return &Set{T: t, X: x, D: d, SD: sd}, nil
}
