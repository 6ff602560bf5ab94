package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"paw-kitchen/internal/app"
	"paw-kitchen/internal/catalog"
	"paw-kitchen/internal/config"
	"paw-kitchen/internal/database"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/metrics"
	"paw-kitchen/internal/planner"
	"paw-kitchen/internal/server"
	"paw-kitchen/internal/shopping"
	"paw-kitchen/internal/storage"
	"paw-kitchen/internal/supplements"
	"paw-kitchen/internal/tastelog"
)

func main() {
	// A missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "plan":
		runPlan(ctx, cfg, os.Args[2:])
	case "energy":
		runEnergy(cfg, os.Args[2:])
	case "catalog":
		runCatalog(cfg, os.Args[2:])
	case "supplements":
		runSupplements(os.Args[2:])
	case "token":
		runToken(cfg, os.Args[2:])
	case "metrics-cleanup":
		runMetricsCleanup(ctx, cfg, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: paw-kitchen <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan              Compute a weekly feeding plan")
	fmt.Println("  energy            Estimate the daily energy target")
	fmt.Println("  catalog           List or import catalog ingredients")
	fmt.Println("  supplements       Show the supplement guide")
	fmt.Println("  token             Mint an API bearer token")
	fmt.Println("  metrics-cleanup   Remove old planning metric records")
}

// newApp wires the application with persistence. Commands that only read the
// catalog use loadCatalog directly and skip the database.
func newApp(cfg *config.Config) (*app.App, func(), error) {
	cat, err := app.LoadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	application := app.NewApp(
		cat,
		planner.NewPlanRepository(db.SQL),
		metrics.NewStore(db.SQL),
		tastelog.NewStore(db.SQL),
		cfg,
	)
	return application, func() { db.Close() }, nil
}

func runPlan(ctx context.Context, cfg *config.Config, args []string) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	weight := planCmd.Float64("weight", 0, "Dog weight in kg (required)")
	age := planCmd.Float64("age", 0, "Dog age in years")
	activity := planCmd.String("activity", "normal", "Activity level: low, normal, high, athletic")
	intact := planCmd.Bool("intact", false, "Dog is not neutered")
	breed := planCmd.String("breed", "", "Breed name (optional)")
	flags := planCmd.String("flags", "", "Comma-separated health flags (e.g. weight_loss,kidney_concern)")
	preset := planCmd.String("preset", "", "Macro preset name (default balanced)")
	pantry := planCmd.String("pantry", "", "Comma-separated ingredient IDs; empty uses the full catalog")
	days := planCmd.Int("days", 0, "Number of days to plan (default 7)")
	seed := planCmd.Int64("seed", 0, "Rotation seed (default 42)")
	asJSON := planCmd.Bool("json", false, "Print the plan as JSON")
	exportDir := planCmd.String("export", "", "Also write the plan as a JSON file into this directory")
	planCmd.Parse(args)

	application, closeFn, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer closeFn()

	in := app.PlanInput{
		Profile: energy.AnimalProfile{
			Breed:    *breed,
			WeightKg: *weight,
			AgeYears: *age,
			Activity: energy.ActivityLevel(*activity),
			Neutered: !*intact,
		},
		Preset:    *preset,
		PantryIDs: splitList(*pantry),
		Days:      *days,
		Seed:      *seed,
	}
	for _, f := range splitList(*flags) {
		in.Profile.HealthFlags = append(in.Profile.HealthFlags, energy.HealthFlag(f))
	}

	plan, err := application.ComputeWeeklyPlan(ctx, in)
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	if *exportDir != "" {
		store, err := storage.NewPlanStore(*exportDir)
		if err != nil {
			log.Fatalf("Failed to open export directory: %v", err)
		}
		path, err := store.Save(plan)
		if err != nil {
			log.Fatalf("Failed to export plan: %v", err)
		}
		log.Printf("Plan exported to %s", path)
	}

	if *asJSON {
		out, _ := json.MarshalIndent(plan, "", "  ")
		fmt.Println(string(out))
		return
	}
	printPlan(plan)
}

func printPlan(plan *planner.WeeklyPlan) {
	fmt.Printf("Plan %s — target %.0f kcal/day (%s preset)\n\n", plan.ID, plan.Target.MER, plan.Spec.Name)
	for _, day := range plan.Days {
		fmt.Printf("Day %d: %.0f kcal, Ca:P %.2f\n", day.Day, day.Totals.Kcal, day.CaPRatio)
		for _, p := range day.Portions {
			fmt.Printf("  %-24s %6.1f g\n", p.Ingredient.Name, p.Grams)
		}
		if day.Note != "" {
			fmt.Printf("  note: %s\n", day.Note)
		}
		fmt.Println()
	}
	if len(plan.Report) > 0 {
		fmt.Println("Findings:")
		for code, f := range plan.Report {
			fmt.Printf("  [%s] %s: %s\n", f.Severity, code, f.Message)
		}
		fmt.Println()
	}

	list := shopping.FromPlan(plan)
	fmt.Println("Shopping list:")
	for _, item := range list.Items() {
		fmt.Printf("  %-24s %6.0f g  (%s, %d days)\n", item.Name, item.TotalGrams, item.ShelfLife, item.Days)
	}
}

func runEnergy(cfg *config.Config, args []string) {
	energyCmd := flag.NewFlagSet("energy", flag.ExitOnError)
	weight := energyCmd.Float64("weight", 0, "Dog weight in kg (required)")
	age := energyCmd.Float64("age", 0, "Dog age in years")
	activity := energyCmd.String("activity", "normal", "Activity level: low, normal, high, athletic")
	intact := energyCmd.Bool("intact", false, "Dog is not neutered")
	flags := energyCmd.String("flags", "", "Comma-separated health flags")
	energyCmd.Parse(args)

	profile := energy.AnimalProfile{
		WeightKg: *weight,
		AgeYears: *age,
		Activity: energy.ActivityLevel(*activity),
		Neutered: !*intact,
	}
	for _, f := range splitList(*flags) {
		profile.HealthFlags = append(profile.HealthFlags, energy.HealthFlag(f))
	}

	target, err := energy.Estimate(profile)
	if err != nil {
		log.Fatalf("Estimation failed: %v", err)
	}

	fmt.Printf("RER: %.1f kcal\nMER: %.1f kcal (%s)\n", target.RER, target.MER, target.Stage)
	for _, r := range target.Rationale {
		fmt.Printf("  - %s\n", r)
	}
}

func runCatalog(cfg *config.Config, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		cat, err := app.LoadCatalog(cfg)
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
		for _, ing := range cat.All() {
			fmt.Printf("%-24s %-10s %6.0f kcal/100g\n", ing.ID, ing.Category, ing.Kcal)
		}
	case "import":
		if len(args) < 2 {
			log.Fatal("Usage: paw-kitchen catalog import <url>")
		}
		items, err := catalog.NewImporter().ImportURL(args[1])
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		out, _ := json.MarshalIndent(items, "", "  ")
		fmt.Println(string(out))
		log.Printf("Imported %d ingredients. Review the JSON above, then merge it into your catalog file.", len(items))
	default:
		log.Fatalf("Unknown catalog subcommand: %s (want list or import)", args[0])
	}
}

func runSupplements(args []string) {
	var entries []supplements.Entry
	if len(args) == 0 {
		entries = supplements.Guide()
	} else {
		var focuses []supplements.Focus
		for _, a := range args {
			focuses = append(focuses, supplements.Focus(a))
		}
		entries = supplements.SuggestFor(focuses...)
	}

	for _, e := range entries {
		fmt.Printf("%s\n  why: %s\n  best for: %s\n", e.Name, e.Why, strings.Join(e.BestFor, ", "))
		if e.Cautions != "" {
			fmt.Printf("  cautions: %s\n", e.Cautions)
		}
		fmt.Println()
	}
}

func runToken(cfg *config.Config, args []string) {
	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	subject := tokenCmd.String("subject", "cli", "Token subject")
	ttl := tokenCmd.Duration("ttl", 24*time.Hour, "Token lifetime")
	tokenCmd.Parse(args)

	token, err := server.MintToken(cfg.AuthSecret, *subject, *ttl)
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}
	fmt.Println(token)
}

func runMetricsCleanup(ctx context.Context, cfg *config.Config, args []string) {
	cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
	cleanupCmd.Parse(args)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	affected, err := metrics.NewStore(db.SQL).Cleanup(ctx, *days)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
