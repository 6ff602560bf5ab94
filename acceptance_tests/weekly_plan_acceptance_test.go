package acceptance_tests

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"paw-kitchen/internal/app"
	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/database"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/metrics"
	"paw-kitchen/internal/planner"
	"paw-kitchen/internal/shopping"
	"paw-kitchen/internal/tastelog"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "acceptance.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return app.NewApp(
		catalog.Default(),
		planner.NewPlanRepository(db.SQL),
		metrics.NewStore(db.SQL),
		tastelog.NewStore(db.SQL),
		nil,
	)
}

// TestWeeklyPlanEndToEnd drives the whole pipeline the way the CLI does:
// profile in, validated and persisted weekly plan out.
func TestWeeklyPlanEndToEnd(t *testing.T) {
	ctx := context.Background()
	application := newTestApp(t)

	input := app.PlanInput{
		Profile: energy.AnimalProfile{
			WeightKg: 10,
			AgeYears: 4,
			Activity: energy.ActivityNormal,
			Neutered: true,
		},
	}

	plan, err := application.ComputeWeeklyPlan(ctx, input)
	if err != nil {
		t.Fatalf("ComputeWeeklyPlan failed: %v", err)
	}

	t.Run("plan shape", func(t *testing.T) {
		if len(plan.Days) != planner.DefaultDays {
			t.Errorf("Expected %d days, got %d", planner.DefaultDays, len(plan.Days))
		}
		if plan.ID == "" {
			t.Error("Expected the plan to be assigned an ID on persistence")
		}
		if math.Abs(plan.Target.MER-629.8) > 0.5 {
			t.Errorf("Expected MER of ~629.8 kcal for the test profile, got %.1f", plan.Target.MER)
		}
	})

	t.Run("days hit the energy target", func(t *testing.T) {
		for _, day := range plan.Days {
			dev := math.Abs(day.Totals.Kcal-plan.Target.MER) / plan.Target.MER
			if dev > planner.KcalTolerance {
				t.Errorf("Day %d energy %.1f kcal deviates %.1f%% from target", day.Day, day.Totals.Kcal, dev*100)
			}
		}
	})

	t.Run("no critical findings", func(t *testing.T) {
		if plan.Report.Worst() == planner.SeverityCritical {
			t.Errorf("Expected no critical findings from the default catalog, got %v", plan.Report)
		}
	})

	t.Run("persisted plan roundtrips", func(t *testing.T) {
		loaded, err := application.GetPlan(ctx, plan.ID)
		if err != nil {
			t.Fatalf("GetPlan failed: %v", err)
		}
		if loaded == nil {
			t.Fatal("Expected the stored plan, got nil")
		}
		if len(loaded.Days) != len(plan.Days) {
			t.Errorf("Stored plan has %d days, expected %d", len(loaded.Days), len(plan.Days))
		}
	})

	t.Run("shopping list covers the week", func(t *testing.T) {
		list := shopping.FromPlan(plan)
		items := list.Items()
		if len(items) == 0 {
			t.Fatal("Expected a non-empty shopping list")
		}
		var listGrams float64
		for _, item := range items {
			listGrams += item.TotalGrams
		}
		var planGrams float64
		for _, day := range plan.Days {
			planGrams += day.TotalGrams()
		}
		if listGrams < planGrams {
			t.Errorf("Shopping list totals %.0f g, less than the plan's %.0f g", listGrams, planGrams)
		}
	})
}

// TestWeeklyPlanIdempotent verifies that the same input produces the same
// plan, portion for portion.
func TestWeeklyPlanIdempotent(t *testing.T) {
	ctx := context.Background()
	application := newTestApp(t)

	input := app.PlanInput{
		Profile: energy.AnimalProfile{WeightKg: 22, AgeYears: 2, Activity: energy.ActivityHigh, Neutered: true},
		Preset:  "active",
		Seed:    99,
	}

	first, err := application.ComputeWeeklyPlan(ctx, input)
	if err != nil {
		t.Fatalf("ComputeWeeklyPlan failed: %v", err)
	}
	second, err := application.ComputeWeeklyPlan(ctx, input)
	if err != nil {
		t.Fatalf("ComputeWeeklyPlan failed: %v", err)
	}

	if len(first.Days) != len(second.Days) {
		t.Fatalf("Day counts differ: %d vs %d", len(first.Days), len(second.Days))
	}
	for i := range first.Days {
		a, b := first.Days[i], second.Days[i]
		if len(a.Portions) != len(b.Portions) {
			t.Fatalf("Day %d portion counts differ", i+1)
		}
		for j := range a.Portions {
			if a.Portions[j].Ingredient.ID != b.Portions[j].Ingredient.ID || a.Portions[j].Grams != b.Portions[j].Grams {
				t.Errorf("Day %d portion %d differs: %v vs %v", i+1, j, a.Portions[j], b.Portions[j])
			}
		}
	}
}

// TestRestrictedPantry plans against a deliberate subset of the catalog.
func TestRestrictedPantry(t *testing.T) {
	ctx := context.Background()
	application := newTestApp(t)

	input := app.PlanInput{
		Profile:   energy.AnimalProfile{WeightKg: 8, AgeYears: 5, Activity: energy.ActivityNormal, Neutered: true},
		PantryIDs: []string{"chicken_breast", "turkey_breast", "white_rice", "sweet_potato", "fish_oil", "olive_oil", "pumpkin", "eggshell_powder"},
	}

	plan, err := application.ComputeWeeklyPlan(ctx, input)
	if err != nil {
		t.Fatalf("ComputeWeeklyPlan failed: %v", err)
	}

	allowed := make(map[string]bool)
	for _, id := range input.PantryIDs {
		allowed[id] = true
	}
	for _, day := range plan.Days {
		for _, p := range day.Portions {
			if !allowed[p.Ingredient.ID] {
				t.Errorf("Day %d uses %q, which is outside the pantry selection", day.Day, p.Ingredient.ID)
			}
		}
	}
}
