package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paw-kitchen/internal/app"
	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/planner"
)

func testRouter(t *testing.T, secret string) http.Handler {
	t.Helper()
	application := app.NewApp(catalog.Default(), nil, nil, nil, nil)
	return NewRouter(Options{App: application, AuthSecret: secret})
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	router := testRouter(t, "test-secret")

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("minted token", func(t *testing.T) {
		token, err := MintToken("test-secret", "tests", time.Minute)
		if err != nil {
			t.Fatalf("MintToken failed: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := MintToken("other-secret", "tests", time.Minute)
		if err != nil {
			t.Fatalf("MintToken failed: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})
}

func TestListIngredients(t *testing.T) {
	router := testRouter(t, "")

	t.Run("all ingredients", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}

		var body struct {
			Ingredients []catalog.Ingredient `json:"ingredients"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(body.Ingredients) == 0 {
			t.Error("Expected a non-empty ingredient list")
		}
	})

	t.Run("category filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ingredients?category=supplement", nil))

		var body struct {
			Ingredients []catalog.Ingredient `json:"ingredients"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(body.Ingredients) == 0 {
			t.Fatal("Expected supplement ingredients")
		}
		for _, ing := range body.Ingredients {
			if ing.Category != catalog.CategorySupplement {
				t.Errorf("Expected only supplements, got %q", ing.ID)
			}
		}
	})

	t.Run("single ingredient", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/chicken_breast", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ingredients/tofu", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestEstimateEnergyEndpoint(t *testing.T) {
	router := testRouter(t, "")

	t.Run("valid profile", func(t *testing.T) {
		body := `{"weight_kg": 10, "age_years": 4, "activity": "normal", "neutered": true}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/energy", strings.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var target struct {
			MER float64 `json:"mer_kcal"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&target); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if target.MER < 600 || target.MER > 660 {
			t.Errorf("Expected MER near 630 kcal, got %.1f", target.MER)
		}
	})

	t.Run("invalid profile", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/energy", strings.NewReader(`{"weight_kg": -1}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/energy", strings.NewReader(`{`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestCreatePlanEndpoint(t *testing.T) {
	router := testRouter(t, "")

	t.Run("full catalog plan", func(t *testing.T) {
		body := `{"profile": {"weight_kg": 10, "age_years": 4, "activity": "normal", "neutered": true}}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/plans", strings.NewReader(body)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var plan planner.WeeklyPlan
		if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
			t.Fatalf("Failed to decode plan: %v", err)
		}
		if len(plan.Days) != planner.DefaultDays {
			t.Errorf("Expected %d days, got %d", planner.DefaultDays, len(plan.Days))
		}
	})

	t.Run("unknown preset", func(t *testing.T) {
		body := `{"profile": {"weight_kg": 10, "age_years": 4}, "preset": "keto"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/plans", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("pantry without carbs", func(t *testing.T) {
		body := `{"profile": {"weight_kg": 10, "age_years": 4}, "pantry_ids": ["chicken_breast", "fish_oil", "eggshell_powder"]}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/plans", strings.NewReader(body)))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown pantry id", func(t *testing.T) {
		body := `{"profile": {"weight_kg": 10, "age_years": 4}, "pantry_ids": ["tofu"]}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/plans", strings.NewReader(body)))
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestGetPlanWithoutPersistence(t *testing.T) {
	router := testRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/plans/abc", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestTasteLogWithoutPersistence(t *testing.T) {
	router := testRouter(t, "")
	rec := httptest.NewRecorder()
	body := `{"ingredient_id": "chicken_breast", "preference": "love"}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/taste-log", strings.NewReader(body)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}

func TestSupplementsEndpoint(t *testing.T) {
	router := testRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/supplements?focus=gut", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Probiotics") {
		t.Errorf("Expected gut focus to suggest probiotics: %s", rec.Body.String())
	}
}

func TestPresetsEndpoint(t *testing.T) {
	router := testRouter(t, "")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/presets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "balanced") {
		t.Error("Expected the balanced preset in the response")
	}
}
