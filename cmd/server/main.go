package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/taxfolk/selfassess/internal/auth"
	"github.com/taxfolk/selfassess/internal/middleware"
	"github.com/taxfolk/selfassess/internal/service"
	"github.com/taxfolk/selfassess/internal/storage/sqlite"
	"github.com/taxfolk/selfassess/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/selfassess.db")
	addr := getEnv("LISTEN_ADDR", ":8080")
	operator := getEnv("OPERATOR_NAME", "admin")
	passwordHash := os.Getenv("OPERATOR_PASSWORD_HASH")
	jwtSecret := os.Getenv("JWT_SECRET")

	if passwordHash == "" || jwtSecret == "" {
		slog.Error("OPERATOR_PASSWORD_HASH and JWT_SECRET must be set")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	authenticator := auth.NewPasswordAuthenticator(operator, passwordHash)
	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)

	mux := http.NewServeMux()
	service.NewAuthService(authenticator, jwtManager).Register(mux)

	taxMux := http.NewServeMux()
	service.NewTaxService(store).Register(taxMux)
	mux.Handle("/api/tax/", middleware.RequireAuth(jwtManager)(taxMux))

	mux.Handle("GET /metrics", middleware.MetricsHandler())

	handler := middleware.Logging(middleware.Metrics(middleware.CORS(mux)))

	// h2c lets HTTP/2 clients connect without TLS behind a local proxy
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
