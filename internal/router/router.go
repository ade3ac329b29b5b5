package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pet-care-marketplace/internal/adapters/capabilities/plansfeatures"
	redisadapter "pet-care-marketplace/internal/adapters/cache/redis"
	"pet-care-marketplace/internal/adapters/storage/cached"
	mem "pet-care-marketplace/internal/adapters/storage/memory"
	pg "pet-care-marketplace/internal/adapters/storage/postgres"
	"pet-care-marketplace/internal/domain/bookings"
	"pet-care-marketplace/internal/domain/casefiles"
	"pet-care-marketplace/internal/domain/cases"
	"pet-care-marketplace/internal/domain/catalog"
	"pet-care-marketplace/internal/domain/providers"
	"pet-care-marketplace/internal/domain/staff"
	"pet-care-marketplace/internal/middleware"
	"pet-care-marketplace/internal/ports/auth"
	"pet-care-marketplace/internal/ports/cache"
	"pet-care-marketplace/internal/ports/capabilities"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: cache para el catálogo público. Si no viene, se intenta por
	// env (REDIS_ADDR) y si tampoco, se sirve sin cache.
	Cache cache.Cache

	// Opcional: resolver de features del plan. Nil = sin gating remoto
	// (el service aplica el límite free).
	Capabilities capabilities.Resolver

	Log zerolog.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.RequestLogger(opts.Log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		bookingsRepo  bookings.Repository
		caseFilesRepo casefiles.Repository
		providersRepo providers.Repository
		catalogRepo   catalog.Repository
		staffRepo     staff.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				opts.Log.Warn().Err(err).Msg("no se pudo abrir postgres, se usa in-memory")
			}
		}
	}

	if db != nil {
		bookingsRepo = pg.NewBookingsRepo(db)
		caseFilesRepo = pg.NewCaseFilesRepo(db)
		providersRepo = pg.NewProvidersRepo(db)
		catalogRepo = pg.NewCatalogRepo(db)
		staffRepo = pg.NewStaffRepo(db)
	} else {
		bookingsRepo = mem.NewBookingsRepo()
		caseFilesRepo = mem.NewCaseFilesRepo()
		providersRepo = mem.NewProvidersRepo()
		catalogRepo = mem.NewCatalogRepo()
		staffRepo = mem.NewStaffRepo()
	}

	c := opts.Cache
	if c == nil {
		if addr := os.Getenv("REDIS_ADDR"); addr != "" {
			opened, err := redisadapter.Open(addr, os.Getenv("REDIS_PASSWORD"), 0)
			if err == nil {
				c = opened
			} else {
				opts.Log.Warn().Err(err).Msg("no se pudo conectar a redis, catálogo sin cache")
			}
		}
	}
	if c != nil {
		catalogRepo = cached.NewCatalogRepo(catalogRepo, c, opts.Log)
	}

	caps := opts.Capabilities
	if caps == nil {
		if baseURL := os.Getenv("PLANS_BASE_URL"); baseURL != "" {
			client, err := plansfeatures.NewClient(plansfeatures.Config{
				BaseURL: baseURL,
				APIKey:  os.Getenv("PLANS_API_KEY"),
			})
			if err == nil {
				caps = plansfeatures.NewResolver(client)
			} else {
				opts.Log.Warn().Err(err).Msg("cliente de plans-features inválido")
			}
		}
	}

	// Services por módulo
	bookingsSvc := bookings.NewService(bookingsRepo)
	caseFilesSvc := casefiles.NewService(caseFilesRepo)
	providersSvc := providers.NewService(providersRepo)
	catalogSvc := catalog.NewService(catalogRepo, caps)
	staffSvc := staff.NewService(staffRepo)

	// Motor de casos: agrega las tres fuentes y rutea write-backs.
	casesSvc := cases.NewService(
		cases.NewAggregator(caseFilesSvc, bookingsSvc, opts.Log),
		caseFilesSvc,
		bookingsSvc,
		opts.Log,
	)

	// Rutas por módulo
	bookings.RegisterRoutes(r, bookingsSvc)
	casefiles.RegisterRoutes(r, caseFilesSvc)
	cases.RegisterRoutes(r, casesSvc)
	providers.RegisterRoutes(r, providersSvc)
	catalog.RegisterRoutes(r, catalogSvc)
	staff.RegisterRoutes(r, staffSvc)

	return r
}
