package fit_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/fit"
	"github.com/fagan2888/geons/gp"
	"github.com/fagan2888/geons/series"
)

// smallSet builds two stations over eight epochs with a shared smooth
// signal and noise of standard deviation 0.05.
func smallSet(t *testing.T) *series.Set {
	t.Helper()
	nt, nx := 8, 2
	tt := make([]float64, nt)
	for i := range tt {
		tt[i] = float64(i)
	}
	x := mat.NewDense(nx, 2, []float64{
		0, 0,
		1, 0,
	})
	d := mat.NewDense(nt, nx, nil)
	sd := mat.NewDense(nt, nx, nil)
	for i := 0; i < nt; i++ {
		signal := 0.5 * math.Sin(2*math.Pi*tt[i]/20)
		for j := 0; j < nx; j++ {
			d.Set(i, j, signal+0.05*noise[i*nx+j])
			sd.Set(i, j, 0.05)
		}
	}
	s := &series.Set{T: tt, X: x, D: d, SD: sd}
	require.NoError(t, s.Validate())
	return s
}

func TestREMLAllFixedRoundTrip(t *testing.T) {
	set := smallSet(t)
	net := fit.Model{
		Names:  []string{"se-se"},
		Params: []float64{1.0, 5.0, 2.0},
		Fixed:  []int{0, 1, 2},
	}
	sta := fit.Model{
		Names:  []string{"wn"},
		Params: []float64{0.05},
		Fixed:  []int{0},
	}

	res, err := fit.REML(set, net, sta)
	require.NoError(t, err)
	require.Equal(t, []float64{1.0, 5.0, 2.0}, res.NetworkParams)
	require.Equal(t, []float64{0.05}, res.StationParams)
	require.False(t, math.IsInf(res.LogLikelihood, 0))
	require.False(t, math.IsNaN(res.LogLikelihood))
}

func TestREMLOptimizesFreeParameters(t *testing.T) {
	set := smallSet(t)
	start := fit.Model{
		Names:  []string{"se-se"},
		Params: []float64{0.5, 5.0, 2.0},
		Fixed:  []int{1, 2},
	}
	sta := fit.Model{
		Names:  []string{"wn"},
		Params: []float64{0.1},
	}

	// Log likelihood at the starting point, for comparison.
	allFixed := start
	allFixed.Fixed = []int{0, 1, 2}
	staFixed := sta
	staFixed.Fixed = []int{0}
	at0, err := fit.REML(set, allFixed, staFixed)
	require.NoError(t, err)

	res, err := fit.REML(set, start, sta, fit.WithMaxIterations(500))
	require.NoError(t, err)
	require.Len(t, res.NetworkParams, 3)
	require.Len(t, res.StationParams, 1)
	for _, p := range res.NetworkParams {
		require.Greater(t, p, 0.0)
	}
	require.Greater(t, res.StationParams[0], 0.0)
	// The fixed length scales are untouched.
	require.Equal(t, 5.0, res.NetworkParams[1])
	require.Equal(t, 2.0, res.NetworkParams[2])
	// The search never worsens the objective.
	require.GreaterOrEqual(t, res.LogLikelihood, at0.LogLikelihood)
}

func TestREMLPrefersPlausibleNoiseScale(t *testing.T) {
	set := smallSet(t)
	net := fit.Model{
		Names:  []string{"se-se"},
		Params: []float64{1.0, 5.0, 2.0},
		Fixed:  []int{0, 1, 2},
	}
	eval := func(sigma float64) float64 {
		sta := fit.Model{
			Names:  []string{"wn"},
			Params: []float64{sigma},
			Fixed:  []int{0},
		}
		res, err := fit.REML(set, net, sta)
		require.NoError(t, err)
		return res.LogLikelihood
	}
	require.Greater(t, eval(0.05), eval(5.0))
}

func TestREMLBadFixedIndex(t *testing.T) {
	set := smallSet(t)
	net := fit.Model{
		Names:  []string{"se-se"},
		Params: []float64{1.0, 5.0, 2.0},
		Fixed:  []int{5},
	}
	sta := fit.Model{Names: []string{"p0"}}
	_, err := fit.REML(set, net, sta)
	require.ErrorIs(t, err, gp.ErrBadFixedIndex)
}

func TestREMLNonPositiveStart(t *testing.T) {
	set := smallSet(t)
	net := fit.Model{
		Names:  []string{"se-se"},
		Params: []float64{-1.0, 5.0, 2.0},
		Fixed:  []int{1, 2},
	}
	sta := fit.Model{Names: []string{"p0"}}
	_, err := fit.REML(set, net, sta)
	require.Error(t, err)
}

func TestREMLUnknownModel(t *testing.T) {
	set := smallSet(t)
	net := fit.Model{Names: []string{"warp-drive"}, Params: []float64{1}}
	sta := fit.Model{Names: []string{"p0"}}
	_, err := fit.REML(set, net, sta)
	require.ErrorIs(t, err, gp.ErrUnknownModel)
}
