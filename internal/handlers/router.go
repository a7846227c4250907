package handlers

import (
	"net/http"

	customMiddleware "tech-hub-backend/internal/middleware"
	"tech-hub-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Registration   *service.RegistrationService
	Submission     *service.SubmissionService
	Query          *service.QueryService
	Live           http.Handler
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	attendeeHandler := NewAttendeeHandler(cfg.Registration, cfg.Logger)
	feedbackHandler := NewFeedbackHandler(cfg.Submission, cfg.Query, cfg.Logger)
	qrHandler := NewQRHandler(cfg.Registration, cfg.Logger)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"tech-hub-backend"}`))
	})

	r.Route("/attendees", func(r chi.Router) {
		r.Post("/", attendeeHandler.Register)
		r.Get("/{token}", attendeeHandler.GetByToken)
		r.Get("/{token}/qr", qrHandler.AttendeeCode)
	})
	r.Get("/event/qr", qrHandler.EventCode)

	r.Post("/feedback", feedbackHandler.SubmitFeedback)
	r.Get("/feedback", feedbackHandler.ListFeedback)

	if cfg.Live != nil {
		r.Handle("/live", cfg.Live)
	}

	return r
}
