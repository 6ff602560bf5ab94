package planner

import (
	"time"

	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/ratio"
)

// Severity grades a validation finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// Finding is a single validation result.
type Finding struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationReport maps warning codes to findings.
type ValidationReport map[string]Finding

// Add records a finding. If the code already exists, the higher severity wins.
func (r ValidationReport) Add(code string, severity Severity, message string) {
	if existing, ok := r[code]; ok && severityRank(existing.Severity) >= severityRank(severity) {
		return
	}
	r[code] = Finding{Message: message, Severity: severity}
}

// Merge copies all findings from other into r.
func (r ValidationReport) Merge(other ValidationReport) {
	for code, f := range other {
		r.Add(code, f.Severity, f.Message)
	}
}

// Worst returns the highest severity present, or empty for a clean report.
func (r ValidationReport) Worst() Severity {
	worst := Severity("")
	rank := -1
	for _, f := range r {
		if severityRank(f.Severity) > rank {
			rank = severityRank(f.Severity)
			worst = f.Severity
		}
	}
	return worst
}

// Portion is a single ingredient and its gram quantity within a day's meal.
type Portion struct {
	Ingredient catalog.Ingredient `json:"ingredient"`
	Grams      float64            `json:"grams"`
}

// NutrientTotals aggregates a day's nutritional content.
type NutrientTotals struct {
	Kcal        float64 `json:"kcal"`
	ProteinG    float64 `json:"protein_g"`
	FatG        float64 `json:"fat_g"`
	CarbG       float64 `json:"carb_g"`
	FiberG      float64 `json:"fiber_g"`
	CalciumG    float64 `json:"calcium_g"`
	PhosphorusG float64 `json:"phosphorus_g"`
}

// MealPlanEntry is the meal for a single day. Entries are immutable once
// produced; recomputation supersedes the whole plan.
type MealPlanEntry struct {
	Day            int            `json:"day"`
	Portions       []Portion      `json:"portions"`
	Totals         NutrientTotals `json:"totals"`
	CaPRatio       float64        `json:"cap_ratio"`
	Note           string         `json:"note,omitempty"`
	UsedFullPantry bool           `json:"used_full_pantry,omitempty"`
}

// TotalGrams returns the day's cooked mix weight.
func (e MealPlanEntry) TotalGrams() float64 {
	var g float64
	for _, p := range e.Portions {
		g += p.Grams
	}
	return g
}

// WeeklyPlan is the root aggregate for a planning session's output. It is
// either fully computed and internally consistent or not produced at all.
type WeeklyPlan struct {
	ID        string              `json:"id,omitempty"`
	CreatedAt time.Time           `json:"created_at,omitempty"`
	Target    energy.EnergyTarget `json:"target"`
	Spec      ratio.Spec          `json:"spec"`
	Days      []MealPlanEntry     `json:"days"`
	Report    ValidationReport    `json:"report"`
}

// newEntry builds a day entry with totals computed from its portions.
func newEntry(day int, portions []Portion, note string, usedFullPantry bool) MealPlanEntry {
	var t NutrientTotals
	for _, p := range portions {
		f := p.Grams / 100
		t.Kcal += p.Ingredient.Kcal * f
		t.ProteinG += p.Ingredient.ProteinG * f
		t.FatG += p.Ingredient.FatG * f
		t.CarbG += p.Ingredient.CarbG * f
		t.FiberG += p.Ingredient.FiberG * f
		t.CalciumG += p.Ingredient.CalciumG * f
		t.PhosphorusG += p.Ingredient.PhosphorusG * f
	}
	capRatio := 0.0
	if t.PhosphorusG > 0 {
		capRatio = t.CalciumG / t.PhosphorusG
	}
	return MealPlanEntry{
		Day:            day,
		Portions:       portions,
		Totals:         t,
		CaPRatio:       capRatio,
		Note:           note,
		UsedFullPantry: usedFullPantry,
	}
}
