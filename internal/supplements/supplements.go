// Package supplements carries the conservative, non-prescriptive supplement
// guidance table and the focus-based suggestion mapping.
package supplements

// Focus is an owner-selected priority used to highlight guide entries.
type Focus string

const (
	FocusSkinCoat    Focus = "skin_coat"
	FocusGut         Focus = "gut"
	FocusJoint       Focus = "joint"
	FocusPuppyGrowth Focus = "puppy_growth"
	FocusSenior      Focus = "senior"
	FocusWeight      Focus = "weight"
	FocusDental      Focus = "dental"
	FocusUrinary     Focus = "urinary"
)

// Entry is one guide row. Educational only; dosing stays with the vet.
type Entry struct {
	Name     string   `json:"name"`
	Why      string   `json:"why"`
	BestFor  []string `json:"best_for"`
	Cautions string   `json:"cautions"`
	Pairing  string   `json:"pairing"`
}

var guide = []Entry{
	{
		Name:     "Omega-3 (Fish Oil)",
		Why:      "Supports skin/coat, joint comfort, and inflammatory balance.",
		BestFor:  []string{"Dry/itchy skin", "Senior dogs", "Joint support plans"},
		Cautions: "Dose carefully; may loosen stool. Check with vet if on medications affecting clotting.",
		Pairing:  "Pairs well with lean proteins and antioxidant-rich vegetables.",
	},
	{
		Name:     "Probiotics",
		Why:      "May improve gut resilience and stool stability.",
		BestFor:  []string{"Sensitive stomach", "Diet transitions", "Stress-related GI changes"},
		Cautions: "Choose canine-specific or veterinary-formulated options.",
		Pairing:  "Works nicely with pumpkin, oats, and gentle proteins.",
	},
	{
		Name:     "Prebiotic Fiber",
		Why:      "Feeds beneficial gut bacteria and may support stool quality.",
		BestFor:  []string{"Soft stools", "Post-antibiotic recovery (vet guided)"},
		Cautions: "Too much can cause gas.",
		Pairing:  "Combine with probiotics for a gentle synbiotic approach.",
	},
	{
		Name:     "Calcium Support",
		Why:      "Home-cooked diets often need calcium balancing.",
		BestFor:  []string{"Puppies", "Long-term cooked fresh routines"},
		Cautions: "Over/under supplementation can be risky; confirm with a vet nutritionist.",
		Pairing:  "Essential when not using balanced commercial bases.",
	},
	{
		Name:     "Canine Multivitamin",
		Why:      "Helps cover micronutrient gaps in simplified home recipes.",
		BestFor:  []string{"Limited ingredient variety", "Long-term home cooking"},
		Cautions: "Avoid human multivitamins unless a vet approves.",
		Pairing:  "Best used with rotation-based weekly menus.",
	},
	{
		Name:     "Joint Support (Glucosamine/Chondroitin)",
		Why:      "May support mobility and cartilage health.",
		BestFor:  []string{"Large breeds", "Senior dogs", "Highly active dogs"},
		Cautions: "Effects vary and usually take time.",
		Pairing:  "Pairs with omega-3 and weight control.",
	},
	{
		Name:     "Vitamin E",
		Why:      "Antioxidant support, often paired with long-term omega-3 use.",
		BestFor:  []string{"Dogs receiving omega-3 long-term"},
		Cautions: "Avoid excessive dosing without guidance.",
		Pairing:  "Consider when fish oil is used regularly.",
	},
	{
		Name:     "L-Carnitine",
		Why:      "May assist certain weight management strategies.",
		BestFor:  []string{"Vet-supervised weight plans"},
		Cautions: "Use under professional advice.",
		Pairing:  "Best with lean proteins and higher vegetable ratios.",
	},
	{
		Name:     "Dental Additives",
		Why:      "Helps reduce plaque in dogs that resist brushing.",
		BestFor:  []string{"Small breeds prone to dental issues"},
		Cautions: "Not a replacement for brushing.",
		Pairing:  "Pairs with crunchy safe veggie textures when appropriate.",
	},
	{
		Name:     "Urinary Support",
		Why:      "Some dogs need tailored mineral/pH strategies.",
		BestFor:  []string{"Vet-diagnosed urinary issues"},
		Cautions: "Dietary mineral balancing is medical; vet required.",
		Pairing:  "Consider hydration-rich meal design.",
	},
}

var focusSuggestions = map[Focus][]string{
	FocusSkinCoat:    {"Omega-3 (Fish Oil)", "Vitamin E"},
	FocusGut:         {"Probiotics", "Prebiotic Fiber"},
	FocusJoint:       {"Joint Support (Glucosamine/Chondroitin)", "Omega-3 (Fish Oil)"},
	FocusPuppyGrowth: {"Calcium Support", "Canine Multivitamin"},
	FocusSenior:      {"Omega-3 (Fish Oil)", "Joint Support (Glucosamine/Chondroitin)", "Probiotics"},
	FocusWeight:      {"Probiotics", "L-Carnitine"},
	FocusDental:      {"Dental Additives"},
	FocusUrinary:     {"Urinary Support"},
}

// Guide returns the full guidance table.
func Guide() []Entry {
	out := make([]Entry, len(guide))
	copy(out, guide)
	return out
}

// SuggestFor returns guide entries matching the given focus priorities, in
// guide order, without duplicates.
func SuggestFor(focuses ...Focus) []Entry {
	wanted := make(map[string]bool)
	for _, f := range focuses {
		for _, name := range focusSuggestions[f] {
			wanted[name] = true
		}
	}

	var out []Entry
	for _, e := range guide {
		if wanted[e.Name] {
			out = append(out, e)
		}
	}
	return out
}
