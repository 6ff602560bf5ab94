// Package storage provides a file-based export store for computed plans, so
// a week's plan can be kept as a plain JSON file next to the kitchen notes.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"paw-kitchen/internal/planner"
)

// PlanStore writes plans as versioned JSON files under a base directory.
type PlanStore struct {
	basePath string
}

// NewPlanStore creates a new PlanStore and ensures the base directory exists.
func NewPlanStore(basePath string) (*PlanStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &PlanStore{basePath: basePath}, nil
}

// sanitizeTimestamp makes the timestamp safe for filenames.
func sanitizeTimestamp(ts string) string {
	return strings.ReplaceAll(ts, ":", "-")
}

func (s *PlanStore) planPath(plan *planner.WeeklyPlan) string {
	filename := fmt.Sprintf("%s_%s.json", plan.ID, sanitizeTimestamp(plan.CreatedAt.UTC().Format("2006-01-02T15:04:05")))
	return filepath.Join(s.basePath, filename)
}

// Save writes the plan to its versioned file and returns the path.
func (s *PlanStore) Save(plan *planner.WeeklyPlan) (string, error) {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan: %w", err)
	}

	filePath := s.planPath(plan)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write plan file: %w", err)
	}
	return filePath, nil
}

// Load reads a plan back from an exported file.
func (s *PlanStore) Load(path string) (*planner.WeeklyPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan planner.WeeklyPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan file %s: %w", path, err)
	}
	return &plan, nil
}

// List returns the exported plan files, newest first by filename.
func (s *PlanStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, filepath.Join(s.basePath, e.Name()))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files, nil
}
