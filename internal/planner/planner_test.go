package planner

import (
	"errors"
	"math"
	"strings"
	"testing"

	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/ratio"
)

// testPantry builds a pantry with enough variety for rotation: three
// proteins, two carbs, two fats, two vegetables, and a calcium supplement.
func testPantry() []catalog.Ingredient {
	turkey := testChicken()
	turkey.ID = "turkey_breast"
	turkey.Name = "Turkey breast"

	beef := testChicken()
	beef.ID = "beef_lean"
	beef.Name = "Lean beef"
	beef.Kcal = 170
	beef.ProteinG = 26
	beef.FatG = 7

	oats := testRice()
	oats.ID = "oats_cooked"
	oats.Name = "Oats (cooked)"
	oats.Kcal = 71
	oats.ProteinG = 2.5
	oats.CarbG = 12

	olive := testOil()
	olive.ID = "olive_oil"
	olive.Name = "Olive oil"

	carrot := testPumpkin()
	carrot.ID = "carrot"
	carrot.Name = "Carrot (cooked)"

	return []catalog.Ingredient{
		testChicken(), turkey, beef,
		testRice(), oats,
		testOil(), olive,
		testPumpkin(), carrot,
		testEggshell(),
	}
}

func TestPlan(t *testing.T) {
	target := testTarget(630)
	plan, err := Plan(testPantry(), target, ratio.DefaultSpec(), PlanRequest{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(plan.Days) != DefaultDays {
		t.Fatalf("Expected %d days, got %d", DefaultDays, len(plan.Days))
	}

	t.Run("days are numbered and energy-correct", func(t *testing.T) {
		for i, day := range plan.Days {
			if day.Day != i+1 {
				t.Errorf("Expected day %d, got %d", i+1, day.Day)
			}
			if math.Abs(day.Totals.Kcal-target.MER)/target.MER > KcalTolerance {
				t.Errorf("Day %d energy %.1f kcal outside tolerance of %.1f", day.Day, day.Totals.Kcal, target.MER)
			}
		}
	})

	t.Run("proteins rotate without immediate repeats", func(t *testing.T) {
		prev := ""
		for _, day := range plan.Days {
			cur := ""
			for _, p := range day.Portions {
				if p.Ingredient.Category == catalog.CategoryProtein {
					cur = p.Ingredient.ID
				}
			}
			if cur == "" {
				t.Fatalf("Day %d has no protein portion", day.Day)
			}
			if cur == prev {
				t.Errorf("Day %d repeats protein %q from the previous day", day.Day, cur)
			}
			prev = cur
		}
	})

	t.Run("week covers multiple proteins", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, day := range plan.Days {
			for _, p := range day.Portions {
				if p.Ingredient.Category == catalog.CategoryProtein {
					seen[p.Ingredient.ID] = true
				}
			}
		}
		if len(seen) < 2 {
			t.Errorf("Expected rotation across proteins, saw only %v", seen)
		}
	})
}

func TestPlanDeterministic(t *testing.T) {
	target := testTarget(500)
	a, err := Plan(testPantry(), target, ratio.DefaultSpec(), PlanRequest{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	b, err := Plan(testPantry(), target, ratio.DefaultSpec(), PlanRequest{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(a.Days) != len(b.Days) {
		t.Fatalf("Differing day counts: %d vs %d", len(a.Days), len(b.Days))
	}
	for i := range a.Days {
		if len(a.Days[i].Portions) != len(b.Days[i].Portions) {
			t.Fatalf("Day %d portion counts differ", i+1)
		}
		for j := range a.Days[i].Portions {
			pa, pb := a.Days[i].Portions[j], b.Days[i].Portions[j]
			if pa.Ingredient.ID != pb.Ingredient.ID || pa.Grams != pb.Grams {
				t.Errorf("Day %d portion %d differs: %v vs %v", i+1, j, pa, pb)
			}
		}
	}
}

func TestPlanSeedChangesRotation(t *testing.T) {
	target := testTarget(630)
	base, err := Plan(testPantry(), target, ratio.DefaultSpec(), PlanRequest{Seed: 1})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	differs := false
	for seed := int64(2); seed <= 10 && !differs; seed++ {
		other, err := Plan(testPantry(), target, ratio.DefaultSpec(), PlanRequest{Seed: seed})
		if err != nil {
			t.Fatalf("Plan failed for seed %d: %v", seed, err)
		}
		for i := range base.Days {
			for j := range base.Days[i].Portions {
				if base.Days[i].Portions[j].Ingredient.ID != other.Days[i].Portions[j].Ingredient.ID {
					differs = true
				}
			}
		}
	}
	if !differs {
		t.Error("Expected at least one seed in 2..10 to rotate differently from seed 1")
	}
}

func TestPlanCustomDayCount(t *testing.T) {
	plan, err := Plan(testPantry(), testTarget(630), ratio.DefaultSpec(), PlanRequest{Days: 3})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan.Days) != 3 {
		t.Errorf("Expected 3 days, got %d", len(plan.Days))
	}
}

func TestPlanSingleCandidatePerRole(t *testing.T) {
	// With one ingredient per role, repeats are unavoidable and allowed.
	pantry := []catalog.Ingredient{testChicken(), testRice(), testOil(), testEggshell()}
	plan, err := Plan(pantry, testTarget(630), ratio.DefaultSpec(), PlanRequest{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for _, day := range plan.Days {
		found := false
		for _, p := range day.Portions {
			if p.Ingredient.ID == "chicken_breast" {
				found = true
			}
		}
		if !found {
			t.Errorf("Day %d should use the only protein available", day.Day)
		}
	}
}

func TestPlanInsufficientPantry(t *testing.T) {
	pantry := []catalog.Ingredient{testChicken(), testOil(), testEggshell()}
	_, err := Plan(pantry, testTarget(630), ratio.DefaultSpec(), PlanRequest{})
	if err == nil {
		t.Fatal("Expected an error for a pantry without carbs")
	}
	var insufficient *InsufficientCandidatesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("Expected *InsufficientCandidatesError, got %T: %v", err, err)
	}
	if insufficient.Category != catalog.CategoryCarb {
		t.Errorf("Expected the carb category to be reported, got %q", insufficient.Category)
	}
}

func TestPlanInfeasiblePantry(t *testing.T) {
	// Every role is covered, but without any calcium source the Ca:P ratio
	// can never be fixed, so even the full-pantry fallback fails.
	pantry := []catalog.Ingredient{testChicken(), testRice(), testOil()}
	_, err := Plan(pantry, testTarget(630), ratio.DefaultSpec(), PlanRequest{})
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	var planErr *PlanningError
	if !errors.As(err, &planErr) {
		t.Fatalf("Expected *PlanningError, got %T: %v", err, err)
	}
	if planErr.Day != 1 {
		t.Errorf("Expected failure on day 1, got day %d", planErr.Day)
	}
	var balanceErr *BalanceError
	if !errors.As(err, &balanceErr) {
		t.Errorf("Expected the planning error to wrap a *BalanceError, got %v", err)
	}
}

func TestPlanFallbackToFullPantry(t *testing.T) {
	// One of the rotating proteins is so calcium-heavy that its day cannot be
	// balanced. The planner should fall back to the full pantry for that day
	// and record a warning instead of failing the week.
	bonyFish := testChicken()
	bonyFish.ID = "sardines_with_bones"
	bonyFish.Name = "Sardines with bones"
	bonyFish.Kcal = 208
	bonyFish.CalciumG = 3.8
	bonyFish.PhosphorusG = 0.5

	pantry := append(testPantry(), bonyFish)
	plan, err := Plan(pantry, testTarget(630), ratio.DefaultSpec(), PlanRequest{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(plan.Days) != DefaultDays {
		t.Fatalf("Expected a full week despite the fallback, got %d days", len(plan.Days))
	}

	sawFallback := false
	for code, f := range plan.Report {
		if strings.HasPrefix(code, "rotation_fallback.day_") {
			sawFallback = true
			if f.Severity != SeverityWarning {
				t.Errorf("Expected fallback finding to be a warning, got %q", f.Severity)
			}
		}
	}
	if !sawFallback {
		t.Error("Expected a rotation_fallback finding in the report")
	}

	fallbackDays := 0
	for _, day := range plan.Days {
		if day.UsedFullPantry {
			fallbackDays++
			if math.Abs(day.Totals.Kcal-630)/630 > KcalTolerance {
				t.Errorf("Fallback day %d still off target: %.1f kcal", day.Day, day.Totals.Kcal)
			}
		}
	}
	if fallbackDays == 0 {
		t.Error("Expected at least one day to use the full pantry")
	}
}

func TestPlanCautionNotes(t *testing.T) {
	oily := testOil()
	oily.Cautions = []string{"introduce gradually"}
	pantry := []catalog.Ingredient{testChicken(), testRice(), oily, testEggshell()}

	plan, err := Plan(pantry, testTarget(630), ratio.DefaultSpec(), PlanRequest{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	for _, day := range plan.Days {
		if !strings.Contains(day.Note, "introduce gradually") {
			t.Errorf("Day %d note %q does not carry the ingredient caution", day.Day, day.Note)
		}
	}
}

func TestPlanRejectsInvalidSpec(t *testing.T) {
	bad := ratio.Spec{Name: "broken", ProteinPct: 80, FatPct: 10, CarbPct: 30, CaPMin: 1, CaPMax: 2}
	_, err := Plan(testPantry(), testTarget(630), bad, PlanRequest{})
	var specErr *ratio.SpecError
	if !errors.As(err, &specErr) {
		t.Fatalf("Expected *ratio.SpecError, got %T: %v", err, err)
	}
}
