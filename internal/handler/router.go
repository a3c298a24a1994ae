package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Shivanand-hulikatti/activity-board/internal/board"
)

// NewAPIRouter builds the activities API router.
func NewAPIRouter(h *ActivityHandler, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger(log))             // structured access log
	r.Use(CORS)

	r.Get("/healthz", HealthCheck)

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.ListActivities)
		r.Post("/{name}/signup", h.Signup)
		r.Delete("/{name}/participants", h.Unregister)
	})

	return r
}

// BoardRouterOptions configures the board front end router.
type BoardRouterOptions struct {
	// CSRFKey enables CSRF protection of the form posts when non-empty (32 bytes).
	CSRFKey []byte
	// Secure marks cookies Secure and expects HTTPS.
	Secure bool
}

// NewBoardRouter builds the board front end router.
func NewBoardRouter(h *BoardHandler, log *zap.SugaredLogger, opts BoardRouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(log))

	r.Get("/healthz", HealthCheck)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(board.StaticFiles))))

	r.Group(func(r chi.Router) {
		if len(opts.CSRFKey) > 0 {
			if !opts.Secure {
				r.Use(plaintextHTTP)
			}
			r.Use(csrf.Protect(opts.CSRFKey,
				csrf.Secure(opts.Secure),
				csrf.Path("/"),
				csrf.SameSite(csrf.SameSiteLaxMode),
			))
		}
		r.Get("/", h.Index)
		r.Post("/signup", h.Signup)
		r.Post("/unregister", h.Unregister)
	})

	return r
}

// plaintextHTTP tells csrf the request arrived over plain HTTP so it skips
// the HTTPS-only Referer check.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
