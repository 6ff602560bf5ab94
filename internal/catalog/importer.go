package catalog

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Importer clips ingredient nutrition tables out of HTML pages. It expects a
// table whose header row names the columns; recognized headers are matched
// case-insensitively and by common aliases (e.g. "kcal/100g", "Protein(g)").
type Importer struct {
	client *http.Client
}

// NewImporter creates an Importer with a bounded HTTP client.
func NewImporter() *Importer {
	return &Importer{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// ImportURL fetches a page and extracts ingredient rows from the first
// recognizable nutrition table.
func (im *Importer) ImportURL(url string) ([]Ingredient, error) {
	resp, err := im.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	return im.Import(resp.Body)
}

// Import extracts ingredient rows from an HTML document.
func (im *Importer) Import(r io.Reader) ([]Ingredient, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var items []Ingredient
	var tableErr error
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerColumns(table)
		if _, ok := cols["name"]; !ok {
			return true // not a nutrition table, keep looking
		}

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			cells := row.Find("td")
			if i == 0 || cells.Length() == 0 {
				return // header row
			}
			ing, err := rowToIngredient(cols, cells)
			if err != nil {
				tableErr = err
				return
			}
			items = append(items, ing)
		})
		return false
	})

	if tableErr != nil {
		return nil, tableErr
	}
	if len(items) == 0 {
		return nil, &LoadError{Reason: "no nutrition table found in document"}
	}
	return items, nil
}

// headerAliases maps normalized header text to canonical column names.
var headerAliases = map[string]string{
	"ingredient": "name",
	"name":       "name",
	"category":   "category",
	"kcal":       "kcal",
	"kcal/100g":  "kcal",
	"energy":     "kcal",
	"protein":    "protein",
	"protein(g)": "protein",
	"fat":        "fat",
	"fat(g)":     "fat",
	"carbs":      "carb",
	"carb":       "carb",
	"carbs(g)":   "carb",
	"fiber":      "fiber",
	"fiber(g)":   "fiber",
	"calcium":    "calcium",
	"ca":         "calcium",
	"phosphorus": "phosphorus",
	"p":          "phosphorus",
}

func headerColumns(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	table.Find("tr").First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		key := strings.ToLower(strings.TrimSpace(cell.Text()))
		key = strings.ReplaceAll(key, " ", "")
		if canonical, ok := headerAliases[key]; ok {
			cols[canonical] = i
		}
	})
	return cols
}

var idSanitizer = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns an ingredient display name into a stable catalog ID.
func slugify(name string) string {
	id := strings.ToLower(strings.TrimSpace(name))
	id = idSanitizer.ReplaceAllString(id, "_")
	return strings.Trim(id, "_")
}

func rowToIngredient(cols map[string]int, cells *goquery.Selection) (Ingredient, error) {
	text := func(col string) string {
		i, ok := cols[col]
		if !ok || i >= cells.Length() {
			return ""
		}
		return strings.TrimSpace(cells.Eq(i).Text())
	}
	num := func(col string) (float64, error) {
		s := text(col)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &LoadError{Entry: text("name"), Reason: fmt.Sprintf("bad numeric value %q for %s", s, col)}
		}
		return v, nil
	}

	name := text("name")
	if name == "" {
		return Ingredient{}, &LoadError{Reason: "table row is missing an ingredient name"}
	}
	if text("kcal") == "" {
		return Ingredient{}, &LoadError{Entry: name, Reason: "missing required field kcal"}
	}

	ing := Ingredient{
		ID:       slugify(name),
		Name:     name,
		Category: Category(strings.ToLower(text("category"))),
	}

	var err error
	if ing.Kcal, err = num("kcal"); err != nil {
		return Ingredient{}, err
	}
	if ing.ProteinG, err = num("protein"); err != nil {
		return Ingredient{}, err
	}
	if ing.FatG, err = num("fat"); err != nil {
		return Ingredient{}, err
	}
	if ing.CarbG, err = num("carb"); err != nil {
		return Ingredient{}, err
	}
	if ing.FiberG, err = num("fiber"); err != nil {
		return Ingredient{}, err
	}
	if ing.CalciumG, err = num("calcium"); err != nil {
		return Ingredient{}, err
	}
	if ing.PhosphorusG, err = num("phosphorus"); err != nil {
		return Ingredient{}, err
	}

	if err := validate(ing); err != nil {
		return Ingredient{}, err
	}
	return ing, nil
}
