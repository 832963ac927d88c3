package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "cattery-site/internal/adapters/storage/memory"
	pg "cattery-site/internal/adapters/storage/postgres"
	"cattery-site/internal/domain/analytics"
	"cattery-site/internal/domain/announcements"
	"cattery-site/internal/domain/cats"
	"cattery-site/internal/domain/pedigree"
	"cattery-site/internal/middleware"
	"cattery-site/internal/platform/logger"
	"cattery-site/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Verifier auth.SessionVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
}

// App expone el handler y el service de analytics, que main necesita
// para el job diario de visitas sintéticas.
type App struct {
	Handler   http.Handler
	Analytics *analytics.Service
}

func New(opts Options) *App {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Logger != nil {
		r.Use(middleware.RequestLog(opts.Logger))
	}

	r.Use(middleware.AuthContext(opts.Verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		catsRepo          cats.Repository
		pedigreeRepo      pedigree.Repository
		analyticsRepo     analytics.Repository
		announcementsRepo announcements.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		catsRepo = pg.NewCatsRepo(db)
		pedigreeRepo = pg.NewPedigreeRepo(db)
		analyticsRepo = pg.NewAnalyticsRepo(db)
		announcementsRepo = pg.NewAnnouncementsRepo(db)
	} else {
		// los repos in-memory comparten el store para que el borrado en
		// cascada de gatos vea las conexiones y los árboles
		store := mem.NewStore()
		catsRepo = mem.NewCatsRepo(store)
		pedigreeRepo = mem.NewPedigreeRepo(store)
		analyticsRepo = mem.NewAnalyticsRepo(store)
		announcementsRepo = mem.NewAnnouncementsRepo(store)
	}

	// Services por módulo
	catsSvc := cats.NewService(catsRepo)
	pedigreeSvc := pedigree.NewService(pedigreeRepo, catsSvc)
	analyticsSvc := analytics.NewService(analyticsRepo)
	announcementsSvc := announcements.NewService(announcementsRepo)

	// Rutas por módulo
	cats.RegisterRoutes(r, catsSvc)
	pedigree.RegisterRoutes(r, pedigreeSvc)
	analytics.RegisterRoutes(r, analyticsSvc)
	announcements.RegisterRoutes(r, announcementsSvc)

	return &App{
		Handler:   r,
		Analytics: analyticsSvc,
	}
}
