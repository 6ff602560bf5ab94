package ratio

import (
	"errors"
	"math"
	"testing"
)

func TestPresetsAreValid(t *testing.T) {
	presets := Presets()
	if len(presets) == 0 {
		t.Fatal("No presets defined")
	}

	seen := make(map[string]bool)
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			t.Errorf("Preset %q fails its own validation: %v", p.Name, err)
		}
		if seen[p.Name] {
			t.Errorf("Duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true
	}
}

func TestPresetLookup(t *testing.T) {
	spec, err := Preset("balanced")
	if err != nil {
		t.Fatalf("Preset lookup failed: %v", err)
	}
	if spec.ProteinPct != 40 || spec.FatPct != 30 || spec.CarbPct != 30 {
		t.Errorf("Unexpected balanced preset: %+v", spec)
	}

	if _, err := Preset("keto"); err == nil {
		t.Error("Expected an error for an unknown preset")
	}
}

func TestDefaultSpec(t *testing.T) {
	if DefaultSpec().Name != "balanced" {
		t.Errorf("Expected balanced default, got %q", DefaultSpec().Name)
	}
}

func TestCustom(t *testing.T) {
	t.Run("valid with default CaP bounds", func(t *testing.T) {
		spec, err := Custom(40, 30, 30, 0, 0)
		if err != nil {
			t.Fatalf("Custom failed: %v", err)
		}
		if spec.CaPMin != DefaultCaPMin || spec.CaPMax != DefaultCaPMax {
			t.Errorf("Expected default Ca:P bounds, got [%v, %v]", spec.CaPMin, spec.CaPMax)
		}
	})

	t.Run("within sum tolerance", func(t *testing.T) {
		if _, err := Custom(40, 30, 30.9, 0, 0); err != nil {
			t.Errorf("Expected sum of 100.9 to pass within tolerance, got %v", err)
		}
	})

	tests := []struct {
		name                              string
		protein, fat, carb, caMin, caMax float64
	}{
		{"sum too low", 40, 30, 20, 0, 0},
		{"sum too high", 50, 40, 30, 0, 0},
		{"negative share", -10, 60, 50, 0, 0},
		{"NaN share", math.NaN(), 50, 50, 0, 0},
		{"inverted CaP bounds", 40, 30, 30, 2.0, 1.0},
		{"negative CaP bound", 40, 30, 30, -1.0, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Custom(tt.protein, tt.fat, tt.carb, tt.caMin, tt.caMax)
			if err == nil {
				t.Fatal("Expected a spec error, got nil")
			}
			var specErr *SpecError
			if !errors.As(err, &specErr) {
				t.Errorf("Expected *SpecError, got %T: %v", err, err)
			}
		})
	}
}
