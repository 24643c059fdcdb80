package http

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"survey-service/internal/app"
)

// NewRouter creates the API router with all endpoints.
func NewRouter(service *app.SurveyService, seeds []app.SurveyDraft) http.Handler {
	h := NewHandler(service, seeds)

	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/init", h.InitSurveys).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys", h.CreateSurvey).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys", h.ListSurveys).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}", h.GetSurvey).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}", h.DeleteSurvey).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/responses", h.SubmitResponse).Methods("POST", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/responses", h.ListResponses).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/analytics", h.Analytics).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/export", h.Export).Methods("GET", "OPTIONS")
	v1.HandleFunc("/surveys/{surveyId}/qrcode", h.QRCode).Methods("GET", "OPTIONS")

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
			allowedMethods = "GET, POST, DELETE, OPTIONS"
		}
		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
