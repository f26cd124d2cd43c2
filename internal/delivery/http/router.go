package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	host := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireHost(h))
	}

	// Auth
	mux.HandleFunc("POST /auth/register", authController.Register)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /events/create", host(eventController.Create))
	mux.HandleFunc("GET /events/all", eventController.All)
	mux.HandleFunc("GET /events/hosted", host(eventController.Hosted))
	mux.HandleFunc("GET /events/{eventID}", eventController.GetByID)
	mux.HandleFunc("PUT /events/{eventID}", auth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))

	// Registrations
	mux.HandleFunc("POST /register", registrationController.Register)
	mux.HandleFunc("GET /register/user-events", registrationController.UserEvents)
	mux.HandleFunc("GET /register/event/{eventID}", auth(registrationController.EventRegistrations))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
