// Package server exposes the planning engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"paw-kitchen/internal/app"
	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/planner"
	"paw-kitchen/internal/ratio"
	"paw-kitchen/internal/shopping"
	"paw-kitchen/internal/supplements"
	"paw-kitchen/internal/tastelog"
)

// Options configures the router. AuthSecret empty disables auth (dev mode).
type Options struct {
	App        *app.App
	AuthSecret string
}

// NewRouter builds the HTTP handler. All API routes live under /api/v1 and
// are bearer-token protected when an auth secret is configured; /health is
// always open.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	a := opts.App
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(BearerAuth(opts.AuthSecret))

		api.Get("/ingredients", listIngredientsHandler(a))
		api.Get("/ingredients/{ingredientID}", getIngredientHandler(a))
		api.Get("/presets", listPresetsHandler())
		api.Get("/supplements", supplementsHandler())
		api.Post("/energy", estimateEnergyHandler(a))
		api.Post("/plans", createPlanHandler(a))
		api.Get("/plans/{planID}", getPlanHandler(a))
		api.Get("/plans/{planID}/shopping-list", shoppingListHandler(a))
		api.Post("/taste-log", recordTasteHandler(a))
		api.Get("/taste-log/summary", tasteSummaryHandler(a))
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes: bad input is 400,
// missing resources are 404, and infeasible-but-well-formed requests are 422.
func writeError(w http.ResponseWriter, err error) {
	var (
		notFound     *catalog.NotFoundError
		badProfile   *energy.InvalidProfileError
		badSpec      *ratio.SpecError
		noCandidates *planner.InsufficientCandidatesError
		noBalance    *planner.BalanceError
		noPlan       *planner.PlanningError
	)
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &badProfile), errors.As(err, &badSpec):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &noCandidates), errors.As(err, &noBalance), errors.As(err, &noPlan):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func listIngredientsHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := a.Catalog().All()

		if cat := r.URL.Query().Get("category"); cat != "" {
			filtered := items[:0:0]
			for _, ing := range items {
				if string(ing.Category) == cat {
					filtered = append(filtered, ing)
				}
			}
			items = filtered
		}
		if q := strings.ToLower(r.URL.Query().Get("q")); q != "" {
			filtered := items[:0:0]
			for _, ing := range items {
				if strings.Contains(strings.ToLower(ing.Name), q) || strings.Contains(ing.ID, q) {
					filtered = append(filtered, ing)
				}
			}
			items = filtered
		}

		writeJSON(w, http.StatusOK, map[string]any{"ingredients": items})
	}
}

func getIngredientHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "ingredientID")
		ing, err := a.Catalog().Lookup(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ing)
	}
}

func listPresetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"presets": ratio.Presets()})
	}
}

func supplementsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		focuses := r.URL.Query()["focus"]
		if len(focuses) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"supplements": supplements.Guide()})
			return
		}
		var fs []supplements.Focus
		for _, f := range focuses {
			fs = append(fs, supplements.Focus(f))
		}
		writeJSON(w, http.StatusOK, map[string]any{"supplements": supplements.SuggestFor(fs...)})
	}
}

func estimateEnergyHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile energy.AnimalProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		target, err := a.EstimateEnergy(profile)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, target)
	}
}

func createPlanHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in app.PlanInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		plan, err := a.ComputeWeeklyPlan(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, plan)
	}
}

func getPlanHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "planID")
		plan, err := a.GetPlan(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if plan == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "plan not found: " + id})
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

func shoppingListHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "planID")
		plan, err := a.GetPlan(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if plan == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "plan not found: " + id})
			return
		}
		writeJSON(w, http.StatusOK, shopping.FromPlan(plan))
	}
}

type tasteRequest struct {
	IngredientID string `json:"ingredient_id"`
	Preference   string `json:"preference"`
	Notes        string `json:"notes,omitempty"`
}

func recordTasteHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := a.TasteLog()
		if store == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "taste log requires persistence"})
			return
		}
		var req tasteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if _, err := a.Catalog().Lookup(req.IngredientID); err != nil {
			writeError(w, err)
			return
		}
		pref := tastelog.Preference(req.Preference)
		if !pref.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "preference must be one of dislike, neutral, like, love"})
			return
		}
		entry, err := store.Record(r.Context(), req.IngredientID, pref, req.Notes)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

func tasteSummaryHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := a.TasteLog()
		if store == nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "taste log requires persistence"})
			return
		}
		summaries, err := store.Summaries(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"summaries": summaries})
	}
}
