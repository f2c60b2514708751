// Package testutil carries shared test helpers.
package testutil

// ScriptedSource is a deterministic random source for tests: each method
// pops the next queued value, falling back to a neutral value when its
// queue runs dry. It satisfies the Source interfaces consumed by the
// sampling and lifecycle packages.
type ScriptedSource struct {
	Floats []float64
	Norms  []float64
	Ints   []int
}

func (s *ScriptedSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.5
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *ScriptedSource) NormFloat64() float64 {
	if len(s.Norms) == 0 {
		return 0
	}
	v := s.Norms[0]
	s.Norms = s.Norms[1:]
	return v
}

func (s *ScriptedSource) IntN(n int) int {
	if n <= 0 {
		panic("IntN called with non-positive n")
	}
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return v % n
}
