package kern

var (
	_ Kernel = Brownian
	_ Kernel = White
)

type brownian struct{}

// Brownian is the Wiener process kernel min(a, b). The length scale is
// ignored; coordinates are expected to be non-negative offsets from a
// reference epoch.
var Brownian brownian

func (brownian) Cov(l, a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

type white struct{}

// White is the discrete white-noise kernel, 1 when the two coordinates
// coincide exactly and 0 otherwise. The length scale is ignored.
var White white

func (white) Cov(l, a, b float64) float64 {
	if a == b {
		return 1
	}
	return 0
}
