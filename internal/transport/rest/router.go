package rest

import (
	"net/http"
	"os"

	"emtsim/internal/service"
	"emtsim/internal/transport/rest/handler"
	"emtsim/internal/transport/rest/middleware"
	"emtsim/internal/transport/ws"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	ScenarioService  *service.ScenarioService
	EncounterService *service.EncounterService
	ExamService      *service.ExamService
	ReportService    *service.ReportService
	WSHub            *ws.Hub
	Logger           zerolog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	scenarioHandler := handler.NewScenarioHandler(c.ScenarioService)
	sessionHandler := handler.NewSessionHandler(c.ScenarioService, c.EncounterService)
	examHandler := handler.NewExamHandler(c.ExamService)
	reportHandler := handler.NewReportHandler(c.ReportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.ScenarioService, c.EncounterService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/trainee", authHandler.Register).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	r.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Trainee routes (require trainee auth)
	traineeRoutes := api.NewRoute().Subrouter()
	traineeRoutes.Use(authMW.RequireTrainee)

	traineeRoutes.HandleFunc("/scenarios", scenarioHandler.List).Methods("GET", "OPTIONS")
	traineeRoutes.HandleFunc("/scenarios/start", scenarioHandler.Start).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}/vitals", sessionHandler.Vitals).Methods("GET", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}/message", sessionHandler.Message).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}/end", sessionHandler.End).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}/exam/start", examHandler.Start).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}/exam/answer", examHandler.Answer).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}/report", reportHandler.Get).Methods("GET", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{id}/report/pdf", reportHandler.GetPDF).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
