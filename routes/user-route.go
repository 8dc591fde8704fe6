package routes

import (
	"net/http"

	"registration-service/handlers"
	"registration-service/middleware"

	"github.com/gorilla/mux"
)

func SetupRoutes(userHandler *handlers.UserHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", middleware.ErrorHandler(userHandler.Index)).Methods("GET")
	router.HandleFunc("/signup", middleware.ErrorHandler(userHandler.SignupForm)).Methods("GET")
	router.HandleFunc("/signup", middleware.ErrorHandler(userHandler.Signup)).Methods("POST")
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	// Unknown paths and known paths with the wrong method both collapse to
	// a plain-text 404.
	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	router.MethodNotAllowedHandler = http.HandlerFunc(notFoundHandler)

	return router
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("404 not found"))
}
