package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"paw-kitchen/internal/app"
	"paw-kitchen/internal/config"
	"paw-kitchen/internal/database"
	"paw-kitchen/internal/metrics"
	"paw-kitchen/internal/planner"
	"paw-kitchen/internal/server"
	"paw-kitchen/internal/tastelog"
	"paw-kitchen/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cat, err := app.LoadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	application := app.NewApp(
		cat,
		planner.NewPlanRepository(db.SQL),
		metrics.NewStore(db.SQL),
		tastelog.NewStore(db.SQL),
		cfg,
	)

	mux := http.NewServeMux()
	mux.Handle("/", server.NewRouter(server.Options{
		App:        application,
		AuthSecret: cfg.AuthSecret,
	}))

	// The Telegram bot is optional; without a token the server is API-only.
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.NewBot(cfg, application)
		if err != nil {
			log.Fatalf("Failed to initialize Telegram Bot: %v", err)
		}
		bot.RegisterHandlers(mux)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
