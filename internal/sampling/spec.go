// Package sampling draws field values from configured statistical
// distributions with hard [min,max] bounds, and resolves which distribution
// applies to a given (segment, field) via a layered registry.
package sampling

import "fmt"

// Kind tags the distribution variant of a Spec. Dispatch on Kind is
// exhaustive; anything outside the known set takes the uniform fallback arm.
type Kind int

const (
	// KindUnknown triggers the uniform-over-[min,max] fallback.
	KindUnknown Kind = iota
	// KindWeighted draws from an explicit value list proportional to weight.
	KindWeighted
	// KindNormal draws from a normal distribution truncated by retry.
	KindNormal
	// KindLogNormal draws from a log-normal distribution; Mean and StdDev
	// are log-space parameters.
	KindLogNormal
)

func (k Kind) String() string {
	switch k {
	case KindWeighted:
		return "weighted"
	case KindNormal:
		return "normal"
	case KindLogNormal:
		return "lognormal"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration string onto a Kind. Unrecognized strings
// map to KindUnknown rather than erroring; the sampler treats that as a
// uniform draw, which is the configured-gap recovery path.
func ParseKind(s string) Kind {
	switch s {
	case "weighted":
		return KindWeighted
	case "normal":
		return KindNormal
	case "lognormal":
		return KindLogNormal
	default:
		return KindUnknown
	}
}

// ValueKind classifies what a sampled field holds. The registry keeps one
// global default Spec per ValueKind so resolution can never fail.
type ValueKind int

const (
	ValueEnum ValueKind = iota
	ValueNumber
	ValueDate
	ValueBoolean
	ValueText
)

var valueKindNames = map[ValueKind]string{
	ValueEnum:    "enum",
	ValueNumber:  "number",
	ValueDate:    "date",
	ValueBoolean: "boolean",
	ValueText:    "text",
}

func (v ValueKind) String() string {
	if name, ok := valueKindNames[v]; ok {
		return name
	}
	return "number"
}

// ValueKinds lists every kind a registry must carry a default for.
func ValueKinds() []ValueKind {
	return []ValueKind{ValueEnum, ValueNumber, ValueDate, ValueBoolean, ValueText}
}

// ParseValueKind maps a configuration string onto a ValueKind. Unknown
// strings are errors: a misspelled value kind in the defaults table would
// otherwise leave the registry without the default that makes resolution
// total.
func ParseValueKind(s string) (ValueKind, error) {
	for k, name := range valueKindNames {
		if name == s {
			return k, nil
		}
	}
	return ValueNumber, fmt.Errorf("unknown value kind %q", s)
}

// Spec is an immutable sampling configuration: which distribution, its
// parameters, and the hard bounds enforced by retry-then-fallback.
type Spec struct {
	Kind Kind

	// Mean and StdDev parameterize KindNormal and KindLogNormal
	// (log-space for the latter).
	Mean   float64
	StdDev float64

	// Values and Weights parameterize KindWeighted. Weights need not be
	// normalized.
	Values  []float64
	Weights []float64

	Min float64
	Max float64
}
