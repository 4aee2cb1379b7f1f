package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hrms.console/internal/web/handler"
	"hrms.console/pkg/logger"
)

// NewRouter sets up the gorilla/mux router and defines all console routes.
func NewRouter(console *handler.Console) *mux.Router {
	r := mux.NewRouter()

	r.Use(requestMiddleware)

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusFound)
	}).Methods(http.MethodGet)

	r.HandleFunc("/dashboard", console.ShowDashboard).Methods(http.MethodGet)

	r.HandleFunc("/employees", console.ShowEmployees).Methods(http.MethodGet)
	r.HandleFunc("/employees", console.CreateEmployee).Methods(http.MethodPost)
	r.HandleFunc("/employees/{id:[0-9]+}", console.ShowEmployee).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id:[0-9]+}/delete", console.ConfirmDeleteEmployee).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id:[0-9]+}/delete", console.DeleteEmployee).Methods(http.MethodPost)

	r.HandleFunc("/attendance", console.ShowAttendance).Methods(http.MethodGet)
	r.HandleFunc("/attendance", console.MarkAttendance).Methods(http.MethodPost)
	r.HandleFunc("/attendance/summary/refresh", console.RefreshSummary).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Console is operational."))
	}).Methods(http.MethodGet)

	return r
}

// requestMiddleware tags every request with an ID and a trace-aware logger.
func requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.EnrichContextWithLogger(r.Context())

		base := log.Logger
		if ctxLogger := zerolog.Ctx(ctx); ctxLogger.GetLevel() != zerolog.Disabled {
			base = *ctxLogger
		}
		l := base.With().Str("request_id", uuid.NewString()).Logger()
		ctx = l.WithContext(ctx)

		l.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
