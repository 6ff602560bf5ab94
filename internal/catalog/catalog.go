package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

//go:embed data/ingredients.json
var defaultCatalogJSON []byte

// LoadError reports a malformed catalog source. A failed load never corrupts
// a previously loaded catalog; the caller keeps whatever it had.
type LoadError struct {
	Entry  string
	Reason string
}

func (e *LoadError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("catalog load failed: %s", e.Reason)
	}
	return fmt.Sprintf("catalog load failed at entry %q: %s", e.Entry, e.Reason)
}

// ErrNotFound is returned by Lookup for unknown ingredient IDs.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ingredient %q not found in catalog", e.ID)
}

// Catalog is a read-only in-memory table of ingredients. It is safe to share
// across planning sessions after load.
type Catalog struct {
	byID  map[string]Ingredient
	order []string
}

// rawIngredient mirrors Ingredient but keeps kcal optional so a missing
// required field can be told apart from an explicit zero.
type rawIngredient struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Kcal        *float64  `json:"kcal"`
	ProteinG    float64   `json:"protein_g"`
	FatG        float64   `json:"fat_g"`
	CarbG       float64   `json:"carb_g"`
	FiberG      float64   `json:"fiber_g"`
	CalciumG    float64   `json:"calcium_g"`
	PhosphorusG float64   `json:"phosphorus_g"`
	Cautions    []string  `json:"cautions"`
	Tags        []string  `json:"tags"`
	ShelfLife   ShelfLife `json:"shelf_life"`
}

// Default returns the built-in ingredient catalog.
func Default() *Catalog {
	c, err := decode(defaultCatalogJSON)
	if err != nil {
		// The embedded catalog is part of the build; a decode failure here is
		// a programming error, not a runtime condition.
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadFile loads a catalog from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Reason: err.Error()}
	}
	return decode(data)
}

// Load loads a catalog from a JSON stream.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Reason: err.Error()}
	}
	return decode(data)
}

// FromIngredients builds a catalog from already-validated ingredients, for
// example the output of the HTML importer.
func FromIngredients(items []Ingredient) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Ingredient, len(items))}
	for _, ing := range items {
		if err := validate(ing); err != nil {
			return nil, err
		}
		if _, dup := c.byID[ing.ID]; dup {
			return nil, &LoadError{Entry: ing.ID, Reason: "duplicate ingredient id"}
		}
		c.byID[ing.ID] = ing
		c.order = append(c.order, ing.ID)
	}
	sort.Strings(c.order)
	return c, nil
}

func decode(data []byte) (*Catalog, error) {
	var raws []rawIngredient
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &LoadError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	items := make([]Ingredient, 0, len(raws))
	for _, r := range raws {
		if r.Kcal == nil {
			return nil, &LoadError{Entry: r.ID, Reason: "missing required field kcal"}
		}
		items = append(items, Ingredient{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Kcal:        *r.Kcal,
			ProteinG:    r.ProteinG,
			FatG:        r.FatG,
			CarbG:       r.CarbG,
			FiberG:      r.FiberG,
			CalciumG:    r.CalciumG,
			PhosphorusG: r.PhosphorusG,
			Cautions:    r.Cautions,
			Tags:        r.Tags,
			ShelfLife:   r.ShelfLife,
		})
	}
	return FromIngredients(items)
}

func validate(ing Ingredient) error {
	if ing.ID == "" {
		return &LoadError{Entry: ing.Name, Reason: "missing ingredient id"}
	}
	if ing.Name == "" {
		return &LoadError{Entry: ing.ID, Reason: "missing ingredient name"}
	}
	if !ValidCategory(ing.Category) {
		return &LoadError{Entry: ing.ID, Reason: fmt.Sprintf("unknown category %q", ing.Category)}
	}
	for _, v := range []struct {
		field string
		value float64
	}{
		{"kcal", ing.Kcal},
		{"protein_g", ing.ProteinG},
		{"fat_g", ing.FatG},
		{"carb_g", ing.CarbG},
		{"fiber_g", ing.FiberG},
		{"calcium_g", ing.CalciumG},
		{"phosphorus_g", ing.PhosphorusG},
	} {
		if v.value < 0 {
			return &LoadError{Entry: ing.ID, Reason: fmt.Sprintf("negative value for %s", v.field)}
		}
	}
	return nil
}

// Lookup returns the ingredient with the given ID.
func (c *Catalog) Lookup(id string) (Ingredient, error) {
	ing, ok := c.byID[id]
	if !ok {
		return Ingredient{}, &NotFoundError{ID: id}
	}
	return ing, nil
}

// Filter returns all ingredients matching the predicate, ordered by ID.
func (c *Catalog) Filter(pred func(Ingredient) bool) []Ingredient {
	var out []Ingredient
	for _, id := range c.order {
		ing := c.byID[id]
		if pred == nil || pred(ing) {
			out = append(out, ing)
		}
	}
	return out
}

// ByCategory returns all ingredients of a category, ordered by ID.
func (c *Catalog) ByCategory(cat Category) []Ingredient {
	return c.Filter(func(i Ingredient) bool { return i.Category == cat })
}

// All returns every ingredient, ordered by ID.
func (c *Catalog) All() []Ingredient {
	return c.Filter(nil)
}

// Len returns the number of ingredients in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// Select resolves a pantry selection of ingredient IDs against the catalog.
// Unknown IDs fail the whole selection.
func (c *Catalog) Select(ids []string) ([]Ingredient, error) {
	out := make([]Ingredient, 0, len(ids))
	for _, id := range ids {
		ing, err := c.Lookup(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, nil
}
