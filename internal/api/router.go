package api

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/wonny/cinemood/internal/api/handlers"
	"github.com/wonny/cinemood/pkg/logger"
)

// RouterConfig holds the cross-cutting HTTP settings
type RouterConfig struct {
	CORSAllowedOrigins []string
	Limiter            *ClientLimiter // nil = 레이트 리밋 없음
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(catalogHandler *handlers.CatalogHandler, cfg RouterConfig, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", catalogHandler.Health).Methods("GET")
	r.HandleFunc("/titles", catalogHandler.Titles).Methods("GET")
	r.HandleFunc("/recommendations", catalogHandler.Recommendations).Methods("GET")
	r.HandleFunc("/moods", catalogHandler.Moods).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Apply middleware (outermost first)
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))
	r.Use(metricsMiddleware())
	if cfg.Limiter != nil {
		r.Use(rateLimitMiddleware(cfg.Limiter, log))
	}

	// CORS wraps the router so preflight requests never reach route matching
	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	})(r)
}
