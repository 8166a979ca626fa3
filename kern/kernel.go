// Package kern provides the scalar covariance kernels that the network
// and station process constructors are assembled from.
package kern

// Kernel is a covariance function of two scalar coordinates, normalized
// to unit variance. The length scale l is passed explicitly so that
// kernels can be stateless singletons.
type Kernel interface {
	Cov(l, a, b float64) float64
}
