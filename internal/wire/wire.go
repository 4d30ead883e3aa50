package wire

import (
	"context"
	"net/http"
	"time"

	"review-catalog/internal/adaptor"
	"review-catalog/internal/data/repository"
	"review-catalog/internal/usecase"
	"review-catalog/pkg/mailer"
	"review-catalog/pkg/middleware"
	"review-catalog/pkg/token"
	"review-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable. A nil Pinger makes the
// health check report only the process.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the assembled application.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo.
func Wiring(repo *repository.Repository, db Pinger, mail mailer.Sender, config *utils.Config, logger *zap.Logger) *App {
	tokens := token.NewManager(config.JWT.Secret, time.Duration(config.JWT.ExpiryHours)*time.Hour)

	service := usecase.NewService(repo, config, mail, tokens, logger)
	handler := adaptor.NewHandler(service, config, logger)

	return &App{
		Router:  setupRouter(handler, repo, db, tokens, logger),
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	db Pinger,
	tokens *token.Manager,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(chimw.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseMethodNotAllowed(w)
	})

	r.Get("/health", health(db, logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, repo.User, logger))

		wireAuth(r, handler.Auth)
		wireUser(r, handler.User)
		wireCatalog(r, handler)
	})

	return r
}

func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		utils.ResponseSuccess(w, map[string]string{"status": "ok"})
	}
}
