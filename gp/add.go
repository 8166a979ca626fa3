package gp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fagan2888/geons/utils"
)

// Add is the additive superposition of independent processes: covariances
// sum and basis columns concatenate.
type Add struct {
	parts []Process
}

var _ Process = &Add{}

// NewAdd combines two processes. Nested sums are flattened.
func NewAdd(first, second Process) *Add {
	parts := make([]Process, 0, 2)
	switch first := first.(type) {
	case *Add:
		parts = append(parts, first.parts...)
	default:
		parts = append(parts, first)
	}
	switch second := second.(type) {
	case *Add:
		parts = append(parts, second.parts...)
	default:
		parts = append(parts, second)
	}
	return &Add{parts: parts}
}

func (p *Add) Covariance(z1, z2 mat.Matrix, diff1, diff2 []int) (*mat.Dense, error) {
	var out *mat.Dense
	for _, part := range p.parts {
		cov, err := part.Covariance(z1, z2, diff1, diff2)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = cov
		} else {
			out.Add(out, cov)
		}
	}
	return out, nil
}

func (p *Add) Basis(z mat.Matrix, diff []int) (*mat.Dense, error) {
	bases := make([]*mat.Dense, len(p.parts))
	for i, part := range p.parts {
		b, err := part.Basis(z, diff)
		if err != nil {
			return nil, err
		}
		bases[i] = b
	}
	return utils.HStack(bases...), nil
}
