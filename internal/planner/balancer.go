package planner

import (
	"fmt"
	"math"
	"sort"

	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/ratio"
)

// Solver defaults. These are domain defaults, not fixed truths; tolerances
// are deliberately loose enough for whole-food macro profiles.
const (
	// KcalTolerance is the acceptable relative deviation of a day's total
	// energy from the maintenance requirement.
	KcalTolerance = 0.05

	// ShareTolerancePts is the acceptable absolute deviation, in percentage
	// points, of each macro's calorie share from its target.
	ShareTolerancePts = 1.0

	// VegBulkShare is the calorie share allocated to a vegetable when the
	// candidate set includes one.
	VegBulkShare = 0.05

	maxIterations = 500
	damping       = 0.5
)

// Atwater energy factors, kcal per gram of macronutrient.
const (
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
	kcalPerGramCarb    = 4
)

// BalanceError reports an infeasible allocation, naming the unsatisfied
// constraint. Constraints are never silently relaxed.
type BalanceError struct {
	Constraint string
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("balance infeasible: %s", e.Constraint)
}

// InsufficientCandidatesError reports that a macro category has no eligible
// ingredient among the candidates.
type InsufficientCandidatesError struct {
	Category catalog.Category
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("no eligible %s candidates to balance against", e.Category)
}

type macro int

const (
	macroProtein macro = iota
	macroFat
	macroCarb
	macroCount
)

func (m macro) String() string {
	switch m {
	case macroProtein:
		return "protein"
	case macroFat:
		return "fat"
	default:
		return "carb"
	}
}

// macroKcal returns the Atwater calorie contribution per macro for the given
// grams of an ingredient.
func macroKcal(ing catalog.Ingredient, grams float64) [macroCount]float64 {
	f := grams / 100
	return [macroCount]float64{
		macroProtein: ing.ProteinG * kcalPerGramProtein * f,
		macroFat:     ing.FatG * kcalPerGramFat * f,
		macroCarb:    ing.CarbG * kcalPerGramCarb * f,
	}
}

// dominantMacro returns the macro contributing the most calories per 100 g.
// ok is false when the ingredient carries no macro calories at all.
func dominantMacro(ing catalog.Ingredient) (macro, bool) {
	k := macroKcal(ing, 100)
	best, bestVal := macroProtein, k[macroProtein]
	for m := macroFat; m < macroCount; m++ {
		if k[m] > bestVal {
			best, bestVal = m, k[m]
		}
	}
	return best, bestVal > 0
}

// role ties a balancing slot to a catalog category and the macro it must
// dominate. Fat-heavy "protein" ingredients are not eligible protein sources.
type role struct {
	category catalog.Category
	macro    macro
}

var roles = [...]role{
	{catalog.CategoryProtein, macroProtein},
	{catalog.CategoryCarb, macroCarb},
	{catalog.CategoryFat, macroFat},
}

func eligibleForRole(ing catalog.Ingredient, r role) bool {
	if ing.Category != r.category {
		return false
	}
	dom, ok := dominantMacro(ing)
	return ok && dom == r.macro
}

// eligibleByRole partitions candidates into per-role eligible lists, sorted
// by ID for determinism.
func eligibleByRole(candidates []catalog.Ingredient) map[catalog.Category][]catalog.Ingredient {
	sorted := make([]catalog.Ingredient, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	out := make(map[catalog.Category][]catalog.Ingredient)
	for _, r := range roles {
		for _, ing := range sorted {
			if eligibleForRole(ing, r) {
				out[r.category] = append(out[r.category], ing)
			}
		}
	}
	for _, ing := range sorted {
		if ing.Category == catalog.CategoryVegetable || ing.Category == catalog.CategorySupplement {
			out[ing.Category] = append(out[ing.Category], ing)
		}
	}
	return out
}

// pickDensest selects the ingredient whose energy density is closest to
// 1 kcal/g, the most practical portion size. Ties resolve to the lower ID
// because the input is ID-sorted.
func pickDensest(list []catalog.Ingredient) catalog.Ingredient {
	best := list[0]
	bestDist := math.Abs(best.KcalPerGram() - 1.0)
	for _, ing := range list[1:] {
		d := math.Abs(ing.KcalPerGram() - 1.0)
		if d < bestDist {
			best, bestDist = ing, d
		}
	}
	return best
}

// Balance computes gram quantities for one day's meal from the candidate
// set: total energy matches the maintenance requirement, each macro's
// calorie share matches the spec within tolerance, and the calcium to
// phosphorus ratio lands inside the spec's bounds (dosing a calcium
// supplement from the candidates when one is available). Gram quantities are
// always finite and non-negative; a solver excursion outside that range is
// reported as infeasible, never clamped.
func Balance(target energy.EnergyTarget, spec ratio.Spec, candidates []catalog.Ingredient) ([]Portion, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if !(target.MER > 0) {
		return nil, &BalanceError{Constraint: "maintenance energy requirement is not positive"}
	}

	byRole := eligibleByRole(candidates)
	chosen := make(map[macro]catalog.Ingredient, macroCount)
	for _, r := range roles {
		list := byRole[r.category]
		if len(list) == 0 {
			return nil, &InsufficientCandidatesError{Category: r.category}
		}
		chosen[r.macro] = pickDensest(list)
	}

	var veg *catalog.Ingredient
	if vegs := byRole[catalog.CategoryVegetable]; len(vegs) > 0 {
		v := pickDensest(vegs)
		if v.Kcal > 0 {
			veg = &v
		}
	}

	targetPct := [macroCount]float64{
		macroProtein: spec.ProteinPct,
		macroFat:     spec.FatPct,
		macroCarb:    spec.CarbPct,
	}

	// Fixed vegetable bulk; its macro calories become a baseline the three
	// role quantities are fitted around.
	var vegGrams float64
	var base [macroCount]float64
	if veg != nil {
		vegGrams = VegBulkShare * target.MER / veg.KcalPerGram()
		base = macroKcal(*veg, vegGrams)
	}

	// Initial estimate: size each role so its own contribution to its macro
	// meets the target, ignoring cross-contamination.
	grams := [macroCount]float64{}
	for m := macro(0); m < macroCount; m++ {
		own := macroKcal(chosen[m], 100)[m]
		want := target.MER*targetPct[m]/100 - base[m]
		if want < 1 {
			want = 1
		}
		grams[m] = want * 100 / own
	}

	// Iterative proportional fitting on macro calorie shares.
	converged := false
	var worstMacro macro
	var worstDev float64
	for iter := 0; iter < maxIterations; iter++ {
		tot := base
		for m := macro(0); m < macroCount; m++ {
			k := macroKcal(chosen[m], grams[m])
			for i := macro(0); i < macroCount; i++ {
				tot[i] += k[i]
			}
		}
		total := tot[macroProtein] + tot[macroFat] + tot[macroCarb]
		if !(total > 0) {
			return nil, &BalanceError{Constraint: "candidates carry no macro energy"}
		}

		worstDev, worstMacro = 0, macroProtein
		for m := macro(0); m < macroCount; m++ {
			dev := math.Abs(100*tot[m]/total - targetPct[m])
			if dev > worstDev {
				worstDev, worstMacro = dev, m
			}
		}
		if worstDev <= ShareTolerancePts {
			converged = true
			break
		}

		for m := macro(0); m < macroCount; m++ {
			cur := tot[m]
			if !(cur > 0) {
				return nil, &BalanceError{Constraint: fmt.Sprintf("no %s calories available from candidates", m)}
			}
			factor := (total * targetPct[m] / 100) / cur
			grams[m] *= 1 + damping*(factor-1)
		}
	}
	if !converged {
		return nil, &BalanceError{
			Constraint: fmt.Sprintf("%s share off target by %.1f points after %d iterations", worstMacro, worstDev, maxIterations),
		}
	}

	// Uniform rescale so labelled energy hits the maintenance requirement
	// exactly. Shares are ratios and survive the scaling.
	labelKcal := vegGrams / 100 * vegKcal(veg)
	for m := macro(0); m < macroCount; m++ {
		labelKcal += grams[m] / 100 * chosen[m].Kcal
	}
	if !(labelKcal > 0) {
		return nil, &BalanceError{Constraint: "candidates carry no labelled energy"}
	}
	scale := target.MER / labelKcal
	vegGrams *= scale
	for m := macro(0); m < macroCount; m++ {
		grams[m] *= scale
	}

	portions := []Portion{
		{Ingredient: chosen[macroProtein], Grams: grams[macroProtein]},
		{Ingredient: chosen[macroCarb], Grams: grams[macroCarb]},
		{Ingredient: chosen[macroFat], Grams: grams[macroFat]},
	}
	if veg != nil {
		portions = append(portions, Portion{Ingredient: *veg, Grams: vegGrams})
	}

	portions, err := fitCalciumPhosphorus(portions, spec, byRole[catalog.CategorySupplement])
	if err != nil {
		return nil, err
	}

	for i := range portions {
		g := math.Round(portions[i].Grams*10) / 10
		if math.IsNaN(g) || math.IsInf(g, 0) || g < 0 {
			return nil, &BalanceError{Constraint: "solver produced a non-physical gram quantity"}
		}
		portions[i].Grams = g
	}
	return portions, nil
}

func vegKcal(veg *catalog.Ingredient) float64 {
	if veg == nil {
		return 0
	}
	return veg.Kcal
}

// fitCalciumPhosphorus doses a calcium supplement so the meal's Ca:P ratio
// lands mid-bounds. A ratio above the upper bound cannot be corrected by
// adding calcium and is infeasible.
func fitCalciumPhosphorus(portions []Portion, spec ratio.Spec, supplements []catalog.Ingredient) ([]Portion, error) {
	var ca, ph float64
	for _, p := range portions {
		ca += p.Ingredient.CalciumG * p.Grams / 100
		ph += p.Ingredient.PhosphorusG * p.Grams / 100
	}
	if !(ph > 0) {
		return nil, &BalanceError{Constraint: "meal carries no phosphorus; calcium:phosphorus ratio is undefined"}
	}

	r := ca / ph
	if r >= spec.CaPMin && r <= spec.CaPMax {
		return portions, nil
	}
	if r > spec.CaPMax {
		return nil, &BalanceError{
			Constraint: fmt.Sprintf("calcium:phosphorus ratio %.2f above maximum %.2f", r, spec.CaPMax),
		}
	}

	mid := (spec.CaPMin + spec.CaPMax) / 2
	var best *catalog.Ingredient
	var bestLift float64
	for i := range supplements {
		lift := supplements[i].CalciumG - mid*supplements[i].PhosphorusG
		if lift > bestLift {
			best = &supplements[i]
			bestLift = lift
		}
	}
	if best == nil {
		return nil, &BalanceError{
			Constraint: fmt.Sprintf("calcium:phosphorus ratio %.2f below minimum %.2f and no calcium supplement among candidates", r, spec.CaPMin),
		}
	}

	grams := 100 * (mid*ph - ca) / bestLift
	if math.IsNaN(grams) || math.IsInf(grams, 0) || grams < 0 {
		return nil, &BalanceError{Constraint: "calcium supplement dose is not solvable"}
	}
	return append(portions, Portion{Ingredient: *best, Grams: grams}), nil
}
