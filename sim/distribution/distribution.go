// Package distribution implements flow-size distributions (C1): given a
// uniform sample u in [0,1], each Distribution returns a positive integer
// flow size in bits. Grounded on the teacher's sim/workload/distribution.go
// LengthSampler family (registry-by-name construction, requireParam
// validation helper), adapted from token-count sampling to flow-size
// quantile functions.
package distribution

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Distribution maps a uniform [0,1] sample to a positive integer flow
// size (bits). Quantile is the pure inverse-CDF used both for direct
// sampling and for percentile queries by load-balance strategies (§4.6.e,f).
type Distribution interface {
	// Quantile returns the flow size at cumulative probability u.
	// Returns ErrOutOfRange-shaped error if u is not in [0,1].
	Quantile(u float64) (int64, error)
	// Sample draws u from rng and returns Quantile(u).
	Sample(rng *rand.Rand) (int64, error)
}

// Spec parameterizes a flow-size distribution, as read from config (§6).
type Spec struct {
	Type   string
	Params map[string]float64
}

func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

func checkUnit(u float64) error {
	if u < 0 || u > 1 {
		return fmt.Errorf("quantile input %v out of range [0,1]", u)
	}
	return nil
}

// BoundedPareto implements the bounded-Pareto quantile function:
//
//	x(u) = L * (1 - u*(1-(L/U)^alpha))^(-1/alpha)
//
// truncated to integer bits and clamped into [L,U]. u=0 -> L, u=1 -> U.
type BoundedPareto struct {
	L, U, Alpha float64
}

// NewBoundedPareto validates L<U and Alpha>0 before returning a usable
// distribution (construction-time fail-fast, §7).
func NewBoundedPareto(l, u, alpha float64) (*BoundedPareto, error) {
	if l <= 0 || u <= l || alpha <= 0 {
		return nil, fmt.Errorf("bounded_pareto requires 0 < L < U and alpha > 0, got L=%v U=%v alpha=%v", l, u, alpha)
	}
	return &BoundedPareto{L: l, U: u, Alpha: alpha}, nil
}

func (d *BoundedPareto) Quantile(u float64) (int64, error) {
	if err := checkUnit(u); err != nil {
		return 0, err
	}
	if u == 1 {
		// The closed form loses a bit to rounding here (U-1 after truncation).
		return int64(d.U), nil
	}
	ratio := math.Pow(d.L/d.U, d.Alpha)
	x := d.L * math.Pow(1-u*(1-ratio), -1/d.Alpha)
	size := int64(math.Trunc(x))
	if size < int64(d.L) {
		size = int64(d.L)
	}
	if size > int64(d.U) {
		size = int64(d.U)
	}
	return size, nil
}

func (d *BoundedPareto) Sample(rng *rand.Rand) (int64, error) {
	return d.Quantile(rng.Float64())
}

// Uniform implements x(u) = min + u*(max-min), truncated to an integer.
type Uniform struct {
	Min, Max float64
}

// NewUniform validates min<max.
func NewUniform(min, max float64) (*Uniform, error) {
	if min >= max {
		return nil, fmt.Errorf("uniform requires min < max, got min=%v max=%v", min, max)
	}
	return &Uniform{Min: min, Max: max}, nil
}

func (d *Uniform) Quantile(u float64) (int64, error) {
	if err := checkUnit(u); err != nil {
		return 0, err
	}
	return int64(d.Min + u*(d.Max-d.Min)), nil
}

func (d *Uniform) Sample(rng *rand.Rand) (int64, error) {
	return d.Quantile(rng.Float64())
}

// Constant always returns the same fixed positive flow size, ignoring u.
type Constant struct {
	Value int64
}

// NewConstant validates value > 0.
func NewConstant(value int64) (*Constant, error) {
	if value <= 0 {
		return nil, fmt.Errorf("constant distribution requires a positive value, got %v", value)
	}
	return &Constant{Value: value}, nil
}

func (d *Constant) Quantile(u float64) (int64, error) {
	if err := checkUnit(u); err != nil {
		return 0, err
	}
	return d.Value, nil
}

func (d *Constant) Sample(_ *rand.Rand) (int64, error) {
	return d.Value, nil
}

var validTypeNames = map[string]bool{
	"bounded_pareto": true,
	"uniform":        true,
	"constant":       true,
}

// IsValidType returns true if name is a recognized distribution type.
func IsValidType(name string) bool { return validTypeNames[name] }

// ValidTypeNames returns sorted valid distribution type names.
func ValidTypeNames() []string {
	names := make([]string, 0, len(validTypeNames))
	for n := range validTypeNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New creates a Distribution from a Spec by type name. Unrecognized type
// names return a plain error identifying the unknown name; sim.Config.Validate
// checks IsValidType first and reports that case as UnknownDistribution (§7).
func New(spec Spec) (Distribution, error) {
	switch spec.Type {
	case "bounded_pareto":
		if err := requireParam(spec.Params, "l", "u", "alpha"); err != nil {
			return nil, err
		}
		return NewBoundedPareto(spec.Params["l"], spec.Params["u"], spec.Params["alpha"])

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		return NewUniform(spec.Params["min"], spec.Params["max"])

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return NewConstant(int64(spec.Params["value"]))

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}

// PercentileTable samples n evenly spaced percentiles p_i = i/(n-1) from
// dist (i = 0..n-1) and returns the resulting flow sizes, ascending.
// Used by percentile-aware load-balance strategies (§4.6.e,f) to
// precompute a size-to-weight mapping once at construction.
func PercentileTable(dist Distribution, n int) ([]int64, error) {
	if n < 2 {
		return nil, fmt.Errorf("percentile table requires n >= 2, got %d", n)
	}
	sizes := make([]int64, n)
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n-1)
		v, err := dist.Quantile(p)
		if err != nil {
			return nil, err
		}
		sizes[i] = v
	}
	return sizes, nil
}
