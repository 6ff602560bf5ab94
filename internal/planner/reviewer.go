package planner

import (
	"fmt"
	"math"

	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/ratio"
)

// CriticalKcalDeviation is the relative energy deviation beyond which a day
// is flagged critical rather than merely warned about.
const CriticalKcalDeviation = 0.15

// Review checks a finished plan against nutritional and safety thresholds.
// It is read-only and never mutates the plan; callers merge the returned
// report into the plan they hold.
func Review(plan *WeeklyPlan) ValidationReport {
	report := ValidationReport{}
	if plan == nil {
		return report
	}

	organMeatSeen := false
	for _, entry := range plan.Days {
		reviewEnergy(report, plan, entry)
		reviewCalciumPhosphorus(report, plan, entry)

		cautioned := false
		for _, p := range entry.Portions {
			if p.Ingredient.HasTag(catalog.TagOrganMeat) {
				organMeatSeen = true
			}
			if len(p.Ingredient.Cautions) > 0 {
				cautioned = true
			}
		}
		if cautioned && entry.Note == "" {
			report.Add(
				fmt.Sprintf("caution_unnoted.day_%d", entry.Day),
				SeverityWarning,
				fmt.Sprintf("day %d includes caution-flagged ingredients without a serving note", entry.Day),
			)
		}
	}

	if !organMeatSeen && len(plan.Days) > 0 {
		report.Add(
			"organ_meat_coverage",
			SeverityInfo,
			"no organ-meat ingredient appears across the week; consider adding one for micronutrient coverage",
		)
	}
	return report
}

func reviewEnergy(report ValidationReport, plan *WeeklyPlan, entry MealPlanEntry) {
	if !(plan.Target.MER > 0) {
		return
	}
	dev := math.Abs(entry.Totals.Kcal-plan.Target.MER) / plan.Target.MER
	code := fmt.Sprintf("kcal_deviation.day_%d", entry.Day)
	switch {
	case dev > CriticalKcalDeviation:
		report.Add(code, SeverityCritical,
			fmt.Sprintf("day %d energy %.0f kcal is %.0f%% off the %.0f kcal maintenance target", entry.Day, entry.Totals.Kcal, dev*100, plan.Target.MER))
	case dev > KcalTolerance:
		report.Add(code, SeverityWarning,
			fmt.Sprintf("day %d energy %.0f kcal is %.0f%% off the %.0f kcal maintenance target", entry.Day, entry.Totals.Kcal, dev*100, plan.Target.MER))
	}
}

func reviewCalciumPhosphorus(report ValidationReport, plan *WeeklyPlan, entry MealPlanEntry) {
	code := fmt.Sprintf("calcium_phosphorus.day_%d", entry.Day)
	r := entry.CaPRatio
	switch {
	case r < ratio.DefaultCaPMin || r > ratio.DefaultCaPMax:
		report.Add(code, SeverityCritical,
			fmt.Sprintf("day %d calcium:phosphorus ratio %.2f is outside the safe range [%.1f, %.1f]", entry.Day, r, ratio.DefaultCaPMin, ratio.DefaultCaPMax))
	case r < plan.Spec.CaPMin || r > plan.Spec.CaPMax:
		report.Add(code, SeverityWarning,
			fmt.Sprintf("day %d calcium:phosphorus ratio %.2f is outside the spec bounds [%.2f, %.2f]", entry.Day, r, plan.Spec.CaPMin, plan.Spec.CaPMax))
	}
}
