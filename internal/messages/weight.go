package messages

import "math"

// Weight is a two dimensional execution cost.
type Weight struct {
	RefTime   uint64
	ProofSize uint64
}

// MaxWeight is the largest representable weight.
var MaxWeight = Weight{RefTime: math.MaxUint64, ProofSize: math.MaxUint64}

// Div divides both components by n. Dividing by zero returns w unchanged.
func (w Weight) Div(n uint64) Weight {
	if n == 0 {
		return w
	}
	return Weight{RefTime: w.RefTime / n, ProofSize: w.ProofSize / n}
}

// SyntheticProofWeight is attached to every generated messages proof. It is
// a generous placeholder, not a measured cost.
var SyntheticProofWeight = MaxWeight.Div(1000)
