package router

import (
	"database/sql"
	"net/http"

	_ "pura-pata/docs"
	mem "pura-pata/internal/adapters/storage/memory"
	pg "pura-pata/internal/adapters/storage/postgres"
	"pura-pata/internal/domain/dogs"
	"pura-pata/internal/domain/history"
	"pura-pata/internal/domain/photos"
	"pura-pata/internal/domain/publishers"
	"pura-pata/internal/middleware"
	"pura-pata/internal/platform/logger"
	"pura-pata/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Opcionales: sin Events no se notifica, sin Presigner /dogs/photos responde 503.
	Events             dogs.EventPublisher
	Presigner          photos.Presigner
	PublicPhotoBaseURL string

	AllowedOrigins []string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(opts.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID", "X-Debug-User-Email"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		dogRepo       dogs.Repository
		historyRepo   history.Repository
		publisherRepo publishers.Repository
	)

	if opts.DB != nil {
		dogRepo = pg.NewDogsRepo(opts.DB)
		historyRepo = pg.NewHistoryRepo(opts.DB)
		publisherRepo = pg.NewPublishersRepo(opts.DB)
	} else {
		store := mem.NewStore()
		dogRepo = store.Dogs()
		historyRepo = store.History()
		publisherRepo = store.Publishers()
	}

	// Services por módulo
	publishersSvc := publishers.NewService(publisherRepo, log)
	dogsSvc := dogs.NewService(dogRepo,
		dogs.WithPublisherDirectory(publishersSvc),
		dogs.WithEventPublisher(opts.Events),
		dogs.WithLogger(log),
	)
	historySvc := history.NewService(historyRepo, dogsSvc)
	photosSvc := photos.NewService(opts.Presigner, opts.PublicPhotoBaseURL)

	// Rutas por módulo
	r.Route("/api/v1", func(api chi.Router) {
		publishers.RegisterRoutes(api, publishersSvc, log)
		photos.RegisterRoutes(api, photosSvc, log)
		dogs.RegisterRoutes(api, dogsSvc, log)
		history.RegisterRoutes(api, historySvc, log)
	})

	return r
}

func allowedOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}
