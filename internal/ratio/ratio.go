// Package ratio defines macro distribution targets for daily meals, either
// from a named preset or a validated custom specification.
package ratio

import (
	"fmt"
	"math"
)

// SumTolerance is how far a custom spec's percentages may drift from 100.
const SumTolerance = 1.0

// Default calcium:phosphorus bounds for home-cooked canine diets.
const (
	DefaultCaPMin = 1.0
	DefaultCaPMax = 2.0
)

// Spec is a macro-percentage target expressed as shares of daily calories,
// plus calcium:phosphorus ratio bounds.
type Spec struct {
	Name       string  `json:"name"`
	ProteinPct float64 `json:"protein_pct"`
	FatPct     float64 `json:"fat_pct"`
	CarbPct    float64 `json:"carb_pct"`
	CaPMin     float64 `json:"cap_min"`
	CaPMax     float64 `json:"cap_max"`
	Note       string  `json:"note,omitempty"`
}

// SpecError reports an invalid custom specification, rejected before any
// balancing takes place.
type SpecError struct {
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("invalid ratio spec: %s", e.Reason)
}

// presets are expressed as calorie shares, not gram shares.
var presets = []Spec{
	{
		Name:       "balanced",
		ProteinPct: 40, FatPct: 30, CarbPct: 30,
		CaPMin: DefaultCaPMin, CaPMax: DefaultCaPMax,
		Note: "A practical cooked-fresh ratio emphasizing lean protein.",
	},
	{
		Name:       "weight",
		ProteinPct: 45, FatPct: 22, CarbPct: 33,
		CaPMin: DefaultCaPMin, CaPMax: DefaultCaPMax,
		Note: "Reduced energy density for weight-aware plans.",
	},
	{
		Name:       "active",
		ProteinPct: 38, FatPct: 37, CarbPct: 25,
		CaPMin: DefaultCaPMin, CaPMax: DefaultCaPMax,
		Note: "More energy support for high activity.",
	},
	{
		Name:       "senior",
		ProteinPct: 40, FatPct: 27, CarbPct: 33,
		CaPMin: DefaultCaPMin, CaPMax: DefaultCaPMax,
		Note: "Fiber and micronutrient focus, moderate fat.",
	},
	{
		Name:       "puppy",
		ProteinPct: 45, FatPct: 35, CarbPct: 20,
		CaPMin: DefaultCaPMin, CaPMax: DefaultCaPMax,
		Note: "Growth baseline; calcium balance needs veterinary guidance.",
	},
	{
		Name:       "gentle_gi",
		ProteinPct: 40, FatPct: 25, CarbPct: 35,
		CaPMin: DefaultCaPMin, CaPMax: DefaultCaPMax,
		Note: "A calmer profile leaning on easy proteins and soothing fiber.",
	},
}

// Presets returns the named presets in a stable order.
func Presets() []Spec {
	out := make([]Spec, len(presets))
	copy(out, presets)
	return out
}

// Preset looks up a preset by name.
func Preset(name string) (Spec, error) {
	for _, p := range presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Spec{}, &SpecError{Reason: fmt.Sprintf("unknown preset %q", name)}
}

// DefaultSpec returns the balanced preset.
func DefaultSpec() Spec {
	return presets[0]
}

// Custom builds a user-supplied spec. The percentages must sum to
// 100 +/- SumTolerance; Ca:P bounds of zero fall back to the defaults.
func Custom(proteinPct, fatPct, carbPct, caPMin, caPMax float64) (Spec, error) {
	s := Spec{
		Name:       "custom",
		ProteinPct: proteinPct,
		FatPct:     fatPct,
		CarbPct:    carbPct,
		CaPMin:     caPMin,
		CaPMax:     caPMax,
	}
	if s.CaPMin == 0 && s.CaPMax == 0 {
		s.CaPMin, s.CaPMax = DefaultCaPMin, DefaultCaPMax
	}
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// Validate checks the spec's internal consistency.
func (s Spec) Validate() error {
	for _, v := range []struct {
		field string
		value float64
	}{
		{"protein", s.ProteinPct},
		{"fat", s.FatPct},
		{"carb", s.CarbPct},
	} {
		if math.IsNaN(v.value) || v.value < 0 {
			return &SpecError{Reason: fmt.Sprintf("%s percentage must be a non-negative number", v.field)}
		}
	}
	sum := s.ProteinPct + s.FatPct + s.CarbPct
	if math.Abs(sum-100) > SumTolerance {
		return &SpecError{Reason: fmt.Sprintf("percentages sum to %.1f, expected 100 +/- %.1f", sum, SumTolerance)}
	}
	if s.CaPMin <= 0 || s.CaPMax <= 0 || s.CaPMin > s.CaPMax {
		return &SpecError{Reason: fmt.Sprintf("calcium:phosphorus bounds [%.2f, %.2f] are not a valid interval", s.CaPMin, s.CaPMax)}
	}
	return nil
}
