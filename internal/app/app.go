// Package app wires the planning engine to the application's stores and
// exposes the entry points used by the CLI, HTTP API, and Telegram bot.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/config"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/metrics"
	"paw-kitchen/internal/planner"
	"paw-kitchen/internal/ratio"
	"paw-kitchen/internal/tastelog"
)

// App holds the application's dependencies. The catalog is the only shared
// long-lived structure; each planning request owns its own inputs and plan.
type App struct {
	catalog      *catalog.Catalog
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
	tasteStore   *tastelog.Store
	cfg          *config.Config
}

// NewApp creates and initializes a new App instance. planRepo, metricsStore,
// and tasteStore may be nil for a purely in-memory session (tests, one-shot
// CLI runs without persistence).
func NewApp(
	cat *catalog.Catalog,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
	tasteStore *tastelog.Store,
	cfg *config.Config,
) *App {
	return &App{
		catalog:      cat,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		tasteStore:   tasteStore,
		cfg:          cfg,
	}
}

// LoadCatalog resolves the catalog source from configuration: a JSON file
// when CATALOG_PATH is set, the embedded catalog otherwise.
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg != nil && cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Default(), nil
}

// Catalog returns the shared ingredient catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// TasteLog returns the taste log store, or nil when persistence is off.
func (a *App) TasteLog() *tastelog.Store {
	return a.tasteStore
}

// EstimateEnergy derives the daily energy target from an animal profile.
func (a *App) EstimateEnergy(profile energy.AnimalProfile) (energy.EnergyTarget, error) {
	return energy.Estimate(profile)
}

// PlanInput collects everything a weekly plan computation needs. Exactly one
// of Spec or Preset is used; both empty means the default preset. An empty
// pantry selection plans against the whole catalog.
type PlanInput struct {
	Profile   energy.AnimalProfile `json:"profile"`
	Spec      *ratio.Spec          `json:"spec,omitempty"`
	Preset    string               `json:"preset,omitempty"`
	PantryIDs []string             `json:"pantry_ids,omitempty"`
	Days      int                  `json:"days,omitempty"`
	Seed      int64                `json:"seed,omitempty"`
}

// resolveSpec picks the ratio spec for a request.
func resolveSpec(in PlanInput) (ratio.Spec, error) {
	if in.Spec != nil {
		if err := in.Spec.Validate(); err != nil {
			return ratio.Spec{}, err
		}
		return *in.Spec, nil
	}
	if in.Preset != "" {
		return ratio.Preset(in.Preset)
	}
	return ratio.DefaultSpec(), nil
}

// ComputeWeeklyPlan runs the full pipeline: energy estimation, rotation
// planning with balancing, validation, and persistence. The returned plan is
// complete and internally consistent, or an error is returned and nothing is
// stored.
func (a *App) ComputeWeeklyPlan(ctx context.Context, in PlanInput) (*planner.WeeklyPlan, error) {
	spec, err := resolveSpec(in)
	if err != nil {
		return nil, err
	}

	target, err := energy.Estimate(in.Profile)
	if err != nil {
		return nil, err
	}

	var pantry []catalog.Ingredient
	if len(in.PantryIDs) == 0 {
		pantry = a.catalog.All()
	} else {
		pantry, err = a.catalog.Select(in.PantryIDs)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	plan, err := planner.Plan(pantry, target, spec, planner.PlanRequest{Days: in.Days, Seed: in.Seed})
	if err != nil {
		return nil, err
	}
	plan.Report.Merge(planner.Review(plan))

	if a.planRepo != nil {
		if err := a.planRepo.Save(ctx, plan); err != nil {
			return nil, fmt.Errorf("plan computed but could not be stored: %w", err)
		}
	}

	if a.metricsStore != nil {
		fallbackDays := 0
		for _, d := range plan.Days {
			if d.UsedFullPantry {
				fallbackDays++
			}
		}
		m := metrics.PlanningMetric{
			DurationMS:   time.Since(start).Milliseconds(),
			Days:         len(plan.Days),
			FallbackDays: fallbackDays,
		}
		if err := a.metricsStore.Record(ctx, m); err != nil {
			log.Printf("Warning: failed to record planning metric: %v", err)
		}
	}

	return plan, nil
}

// ValidatePlan re-checks a finished plan without mutating it.
func (a *App) ValidatePlan(plan *planner.WeeklyPlan) planner.ValidationReport {
	return planner.Review(plan)
}

// GetPlan retrieves a stored plan by ID. Returns (nil, nil) when absent or
// when persistence is off.
func (a *App) GetPlan(ctx context.Context, id string) (*planner.WeeklyPlan, error) {
	if a.planRepo == nil {
		return nil, nil
	}
	return a.planRepo.Get(ctx, id)
}
