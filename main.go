package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"registration-service/config"
	"registration-service/db"
	"registration-service/handlers"
	"registration-service/middleware"
	"registration-service/registration"
	"registration-service/routes"
	"registration-service/secretmanager"
	"registration-service/store"
	"registration-service/telemetry"
	"registration-service/views"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	loadEnv       = godotenv.Load
	loadConfig    = config.Load
	connectDB     = db.Connect
	ensureSchema  = db.EnsureSchema
	newRenderer   = views.NewRenderer
	setupRoutes   = routes.SetupRoutes
	initTelemetry = telemetry.Init
	getSecret     = secretmanager.GetSecret
	serveHTTP     = func(srv *http.Server) error { return srv.ListenAndServe() }
	logFatal      = log.Fatal
)

func loadProdSecrets() error {
	pgSecret, err := getSecret("prod/postgres")
	if err != nil {
		return fmt.Errorf("error retrieving Postgres secret: %w", err)
	}
	var pgValues map[string]interface{}
	if err := json.Unmarshal([]byte(pgSecret), &pgValues); err != nil {
		return fmt.Errorf("error parsing Postgres secret JSON: %w", err)
	}
	os.Setenv("DB_ENGINE", "postgres")
	os.Setenv("DB_USERNAME", pgValues["username"].(string))
	os.Setenv("DB_PASSWORD", pgValues["password"].(string))
	os.Setenv("DB_HOST", pgValues["host"].(string))
	os.Setenv("DB_PORT", fmt.Sprintf("%v", pgValues["port"]))
	os.Setenv("DB_NAME", pgValues["dbname"].(string))
	return nil
}

func main() {
	if err := run(); err != nil {
		logFatal(err)
	}
}

func run() error {
	if err := loadEnv(); err != nil {
		log.Println("No .env file found; using system environment variables")
	}
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	log.Println("Environment:", appEnv)

	if appEnv == "prod" {
		if err := loadProdSecrets(); err != nil {
			return err
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx := context.Background()
	shutdownTelemetry, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("telemetry error: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(ctx); err != nil {
			log.Printf("telemetry shutdown error: %v", err)
		}
	}()

	database, err := connectDB(cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := ensureSchema(database, cfg.DB.Engine); err != nil {
		return err
	}

	renderer, err := newRenderer(cfg.Views.Dir)
	if err != nil {
		return fmt.Errorf("view error: %w", err)
	}

	userStore := store.NewSQLUserStore(database, cfg.DB.Engine)
	registrationService := registration.NewService(userStore, cfg.Registration)
	userHandler := handlers.NewUserHandler(registrationService, renderer)
	router := setupRoutes(userHandler)

	corsOpts := []gorillaHandlers.CORSOption{
		gorillaHandlers.AllowedOrigins(cfg.CORS.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With"}),
	}

	handler := middleware.RequestLogger(
		otelhttp.NewHandler(gorillaHandlers.CORS(corsOpts...)(router), "http.server"),
	)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	log.Printf("Starting server on port %s in %s environment (CORS: %s)", port, cfg.AppEnv, strings.Join(cfg.CORS.AllowedOrigins, ","))
	return serveHTTP(srv)
}
