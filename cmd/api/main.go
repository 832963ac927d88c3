package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"cattery-site/internal/adapters/auth/statictoken"
	pg "cattery-site/internal/adapters/storage/postgres"
	"cattery-site/internal/platform/cron"
	"cattery-site/internal/platform/logger"
	"cattery-site/internal/ports/auth"
	"cattery-site/internal/router"
)

func main() {
	// .env es opcional; en prod las vars vienen del entorno
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin ADMIN_TOKEN queda modo dev: las rutas de admin se abren con el
	// header X-Debug-Admin. Nunca dejar así en prod.
	var verifier auth.SessionVerifier
	if token := os.Getenv("ADMIN_TOKEN"); token != "" {
		v, err := statictoken.NewVerifier(token)
		if err != nil {
			log.Error("invalid admin token", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = v
	} else {
		log.Warn("ADMIN_TOKEN not set, running in dev mode", nil)
	}

	opts := router.Options{
		Verifier: verifier,
		Logger:   log,
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := pg.Open(dsn)
		if err != nil {
			log.Error("postgres connection failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
		log.Info("storage: postgres", nil)
	} else {
		log.Info("storage: in-memory", nil)
	}

	app := router.New(opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Job diario de visitas sintéticas. Fecha vacía = hoy; el alta es
	// idempotente, así que repetir tras un reinicio no duplica.
	go cron.Daily(ctx, func(ctx context.Context) {
		res, err := app.Analytics.CreateDailySynthetic(ctx, "")
		if err != nil {
			log.Error("daily synthetic visits failed", map[string]any{"error": err.Error()})
			return
		}
		log.Info("daily synthetic visits", map[string]any{
			"success": res.Success,
			"count":   res.Count,
		})
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
