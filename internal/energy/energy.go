// Package energy computes resting and maintenance energy requirements from a
// dog's profile. All functions are pure and deterministic.
package energy

import (
	"fmt"
	"math"
)

// LifeStage buckets a dog's age for energy purposes.
type LifeStage string

const (
	StagePuppy  LifeStage = "puppy"
	StageAdult  LifeStage = "adult"
	StageSenior LifeStage = "senior"
)

// ActivityLevel describes typical daily exercise.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityNormal   ActivityLevel = "normal"
	ActivityHigh     ActivityLevel = "high"
	ActivityAthletic ActivityLevel = "athletic"
)

// HealthFlag marks a consideration that adjusts the energy target or feeding
// strategy.
type HealthFlag string

const (
	FlagWeightLoss       HealthFlag = "weight_loss"
	FlagSensitiveStomach HealthFlag = "sensitive_stomach"
	FlagPancreatitisRisk HealthFlag = "pancreatitis_risk"
	FlagKidneyConcern    HealthFlag = "kidney_concern"
	FlagPickyEater       HealthFlag = "picky_eater"
	FlagSkinCoat         HealthFlag = "skin_coat"
	FlagJointSupport     HealthFlag = "joint_support"
	FlagFoodAllergy      HealthFlag = "food_allergy"
)

// AnimalProfile describes the dog a plan is computed for. Owned by the
// planning session; the engine never mutates it.
type AnimalProfile struct {
	Breed       string        `json:"breed,omitempty"`
	WeightKg    float64       `json:"weight_kg"`
	AgeYears    float64       `json:"age_years"`
	Activity    ActivityLevel `json:"activity"`
	Neutered    bool          `json:"neutered"`
	HealthFlags []HealthFlag  `json:"health_flags,omitempty"`
}

// HasFlag reports whether the profile carries the given health flag.
func (p AnimalProfile) HasFlag(f HealthFlag) bool {
	for _, hf := range p.HealthFlags {
		if hf == f {
			return true
		}
	}
	return false
}

// EnergyTarget is the derived daily energy requirement. It is recomputed
// whenever the profile changes and never persisted on its own.
type EnergyTarget struct {
	RER       float64   `json:"rer_kcal"`
	MER       float64   `json:"mer_kcal"`
	Stage     LifeStage `json:"life_stage"`
	Rationale []string  `json:"rationale,omitempty"`
}

// InvalidProfileError rejects non-physical profile input before estimation.
type InvalidProfileError struct {
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid animal profile: %s", e.Reason)
}

// StageForAge maps age in years to a life stage.
func StageForAge(ageYears float64) LifeStage {
	switch {
	case ageYears < 1:
		return StagePuppy
	case ageYears < 7:
		return StageAdult
	default:
		return StageSenior
	}
}

// RER computes the resting energy requirement using the standard allometric
// formula 70 * kg^0.75.
func RER(weightKg float64) float64 {
	return 70 * math.Pow(weightKg, 0.75)
}

var activityBoost = map[ActivityLevel]float64{
	ActivityLow:      0.9,
	ActivityNormal:   1.0,
	ActivityHigh:     1.2,
	ActivityAthletic: 1.35,
}

// merFactor returns the stage multiplier before activity adjustment.
func merFactor(stage LifeStage, neutered bool) float64 {
	switch stage {
	case StagePuppy:
		if neutered {
			return 2.2
		}
		return 2.4
	case StageSenior:
		if neutered {
			return 1.3
		}
		return 1.4
	default:
		if neutered {
			return 1.6
		}
		return 1.8
	}
}

// Estimate derives the energy target from a profile. Health flags narrow the
// maintenance target conservatively; each adjustment is recorded in the
// rationale so callers can surface it.
func Estimate(profile AnimalProfile) (EnergyTarget, error) {
	if math.IsNaN(profile.WeightKg) || math.IsInf(profile.WeightKg, 0) {
		return EnergyTarget{}, &InvalidProfileError{Reason: "weight is not a finite number"}
	}
	if profile.WeightKg <= 0 {
		return EnergyTarget{}, &InvalidProfileError{Reason: "weight must be positive"}
	}
	if profile.AgeYears < 0 {
		return EnergyTarget{}, &InvalidProfileError{Reason: "age must not be negative"}
	}

	boost, ok := activityBoost[profile.Activity]
	if !ok {
		boost = activityBoost[ActivityNormal]
	}

	stage := StageForAge(profile.AgeYears)
	rer := RER(profile.WeightKg)
	mer := rer * merFactor(stage, profile.Neutered) * boost

	var rationale []string
	if profile.HasFlag(FlagWeightLoss) {
		mer *= 0.85
		rationale = append(rationale, "Reduced target for weight loss.")
	}
	if profile.HasFlag(FlagPancreatitisRisk) {
		mer *= 0.95
		rationale = append(rationale, "Conservative energy target for fat-sensitive context.")
	}
	if profile.HasFlag(FlagKidneyConcern) {
		mer *= 0.95
		rationale = append(rationale, "Energy kept conservative; protein strategy must be vet-guided.")
	}
	if profile.HasFlag(FlagPickyEater) {
		rationale = append(rationale, "Use palatability tactics (warm, rotate, gentle oils).")
	}

	return EnergyTarget{
		RER:       rer,
		MER:       mer,
		Stage:     stage,
		Rationale: rationale,
	}, nil
}
