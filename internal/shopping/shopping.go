// Package shopping turns a weekly plan into an aggregated shopping list.
package shopping

import (
	"math"
	"sort"

	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/planner"
)

// Item is one line of the shopping list: an ingredient and the total amount
// needed for the whole week.
type Item struct {
	IngredientID string            `json:"ingredient_id"`
	Name         string            `json:"name"`
	Category     catalog.Category  `json:"category"`
	ShelfLife    catalog.ShelfLife `json:"shelf_life,omitempty"`
	TotalGrams   float64           `json:"total_grams"`
	Days         int               `json:"days"`
}

// List groups the week's purchases by storage class so fresh items are easy
// to split across shop runs.
type List struct {
	PlanID string `json:"plan_id,omitempty"`
	Fresh  []Item `json:"fresh,omitempty"`
	Frozen []Item `json:"frozen,omitempty"`
	Pantry []Item `json:"pantry,omitempty"`
}

// Items returns the full list flattened in fresh, frozen, pantry order.
func (l List) Items() []Item {
	out := make([]Item, 0, len(l.Fresh)+len(l.Frozen)+len(l.Pantry))
	out = append(out, l.Fresh...)
	out = append(out, l.Frozen...)
	out = append(out, l.Pantry...)
	return out
}

// FromPlan aggregates portion grams per ingredient across the plan's days.
// Totals are rounded up to the next 5 g so the list reads as buy amounts
// rather than kitchen-scale precision.
func FromPlan(plan *planner.WeeklyPlan) List {
	type agg struct {
		item Item
	}
	byID := make(map[string]*agg)
	for _, day := range plan.Days {
		for _, p := range day.Portions {
			a, ok := byID[p.Ingredient.ID]
			if !ok {
				a = &agg{item: Item{
					IngredientID: p.Ingredient.ID,
					Name:         p.Ingredient.Name,
					Category:     p.Ingredient.Category,
					ShelfLife:    p.Ingredient.ShelfLife,
				}}
				byID[p.Ingredient.ID] = a
			}
			a.item.TotalGrams += p.Grams
			a.item.Days++
		}
	}

	list := List{PlanID: plan.ID}
	for _, a := range byID {
		a.item.TotalGrams = math.Ceil(a.item.TotalGrams/5) * 5
		switch a.item.ShelfLife {
		case catalog.ShelfFrozen:
			list.Frozen = append(list.Frozen, a.item)
		case catalog.ShelfPantry:
			list.Pantry = append(list.Pantry, a.item)
		default:
			list.Fresh = append(list.Fresh, a.item)
		}
	}

	for _, group := range [][]Item{list.Fresh, list.Frozen, list.Pantry} {
		sort.Slice(group, func(i, j int) bool { return group[i].IngredientID < group[j].IngredientID })
	}
	return list
}
