package planner

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/ratio"
)

// Rotation defaults.
const (
	DefaultDays = 7
	DefaultSeed = 42
)

// PlanningError reports whole-week infeasibility: even the full pantry
// cannot satisfy the balancer. Terminal for the planning request.
type PlanningError struct {
	Day int
	Err error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("weekly plan infeasible at day %d: %v", e.Day, e.Err)
}

func (e *PlanningError) Unwrap() error {
	return e.Err
}

// PlanRequest carries the rotation parameters. Zero values fall back to the
// defaults, keeping identical requests bit-identical in output.
type PlanRequest struct {
	Days int   `json:"days,omitempty"`
	Seed int64 `json:"seed,omitempty"`
}

func (r PlanRequest) withDefaults() PlanRequest {
	if r.Days <= 0 {
		r.Days = DefaultDays
	}
	if r.Seed == 0 {
		r.Seed = DefaultSeed
	}
	return r
}

// Plan sequences balanced meals across the requested days. Each day uses a
// rotation-constrained subset of the pantry; a day whose subset is
// infeasible falls back to the full pantry and records a warning rather
// than failing. The function is pure: same pantry, target, spec, and
// request yield an identical plan.
func Plan(pantry []catalog.Ingredient, target energy.EnergyTarget, spec ratio.Spec, req PlanRequest) (*WeeklyPlan, error) {
	req = req.withDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	sorted := make([]catalog.Ingredient, len(pantry))
	copy(sorted, pantry)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byRole := eligibleByRole(sorted)
	for _, r := range roles {
		if len(byRole[r.category]) == 0 {
			return nil, &InsufficientCandidatesError{Category: r.category}
		}
	}
	proteins := byRole[catalog.CategoryProtein]
	carbs := byRole[catalog.CategoryCarb]
	fats := byRole[catalog.CategoryFat]
	vegs := byRole[catalog.CategoryVegetable]
	supplements := byRole[catalog.CategorySupplement]

	// Seeded offsets plus a daily advance give each role a round-robin
	// rotation: consecutive days repeat an ingredient only when its list has
	// a single member, which satisfies the soft no-immediate-repeat rule.
	rng := rand.New(rand.NewSource(req.Seed))
	proteinOff := rng.Intn(len(proteins))
	carbOff := rng.Intn(len(carbs))
	fatOff := rng.Intn(len(fats))
	vegOff := 0
	if len(vegs) > 0 {
		vegOff = rng.Intn(len(vegs))
	}

	report := ValidationReport{}
	days := make([]MealPlanEntry, 0, req.Days)
	for d := 0; d < req.Days; d++ {
		subset := []catalog.Ingredient{
			proteins[(proteinOff+d)%len(proteins)],
			carbs[(carbOff+d)%len(carbs)],
			fats[(fatOff+d)%len(fats)],
		}
		if len(vegs) > 0 {
			subset = append(subset, vegs[(vegOff+d)%len(vegs)])
		}
		subset = append(subset, supplements...)

		usedFullPantry := false
		portions, err := Balance(target, spec, subset)
		if err != nil {
			portions, err = Balance(target, spec, sorted)
			if err != nil {
				return nil, &PlanningError{Day: d + 1, Err: err}
			}
			usedFullPantry = true
			report.Add(
				fmt.Sprintf("rotation_fallback.day_%d", d+1),
				SeverityWarning,
				fmt.Sprintf("day %d rotation subset was infeasible; balanced against the full pantry instead", d+1),
			)
		}

		days = append(days, newEntry(d+1, portions, cautionNote(portions), usedFullPantry))
	}

	return &WeeklyPlan{
		Target: target,
		Spec:   spec,
		Days:   days,
		Report: report,
	}, nil
}

// cautionNote folds the day's ingredient cautions into a serving note so a
// caution-flagged ingredient never appears without one.
func cautionNote(portions []Portion) string {
	seen := make(map[string]bool)
	var notes []string
	for _, p := range portions {
		for _, c := range p.Ingredient.Cautions {
			if !seen[c] {
				seen[c] = true
				notes = append(notes, c)
			}
		}
	}
	return strings.Join(notes, " ")
}
