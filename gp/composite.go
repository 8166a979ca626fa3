package gp

import (
	"github.com/pkg/errors"
)

// Constructor builds a Process from a fixed-width slice of hyperparameters.
type Constructor struct {
	NParams int
	New     func(params []float64) Process
}

// Registry resolves model names to constructors.
type Registry map[string]Constructor

// Composite resolves each name against the registry, hands every
// constructor its slice of the flat parameter vector in order, and returns
// the additive superposition of the resulting processes.
func Composite(names []string, params []float64, reg Registry) (Process, error) {
	if len(names) == 0 {
		return nil, errors.New("composite requires at least one model name")
	}
	total := 0
	for _, name := range names {
		c, ok := reg[name]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownModel, "%q", name)
		}
		total += c.NParams
	}
	if total != len(params) {
		return nil, errors.Wrapf(ErrParamCount,
			"models %v require %d parameters, got %d", names, total, len(params))
	}
	var out Process
	offset := 0
	for _, name := range names {
		c := reg[name]
		proc := c.New(params[offset : offset+c.NParams])
		offset += c.NParams
		if out == nil {
			out = proc
		} else {
			out = NewAdd(out, proc)
		}
	}
	return out, nil
}
