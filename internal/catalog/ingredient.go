package catalog

// Category classifies an ingredient by its role in a meal. The set is closed;
// balancing logic dispatches on it rather than on ingredient subtypes.
type Category string

const (
	CategoryProtein    Category = "protein"
	CategoryCarb       Category = "carb"
	CategoryFat        Category = "fat"
	CategoryVegetable  Category = "vegetable"
	CategorySupplement Category = "supplement"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryProtein, CategoryCarb, CategoryFat, CategoryVegetable, CategorySupplement:
		return true
	}
	return false
}

// ShelfLife is a coarse storage class used for pantry hints.
type ShelfLife string

const (
	ShelfFresh  ShelfLife = "fresh"
	ShelfFrozen ShelfLife = "frozen"
	ShelfPantry ShelfLife = "pantry"
)

// TagOrganMeat marks organ-meat ingredients; the plan reviewer checks that a
// week includes at least one.
const TagOrganMeat = "organ_meat"

// Ingredient describes a single cooked ingredient with its nutritional
// profile per 100 g. Values are immutable once the catalog is loaded.
type Ingredient struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`

	// Per 100 g cooked.
	Kcal        float64 `json:"kcal"`
	ProteinG    float64 `json:"protein_g"`
	FatG        float64 `json:"fat_g"`
	CarbG       float64 `json:"carb_g"`
	FiberG      float64 `json:"fiber_g"`
	CalciumG    float64 `json:"calcium_g"`
	PhosphorusG float64 `json:"phosphorus_g"`

	Cautions  []string  `json:"cautions,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	ShelfLife ShelfLife `json:"shelf_life,omitempty"`
}

// KcalPerGram returns the labelled energy density.
func (i Ingredient) KcalPerGram() float64 {
	return i.Kcal / 100
}

// HasTag reports whether the ingredient carries the given tag.
func (i Ingredient) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
