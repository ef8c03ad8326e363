package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/arin-r/splitlyx/docs"
	"github.com/arin-r/splitlyx/internal/auth"
	"github.com/arin-r/splitlyx/internal/config"
	"github.com/arin-r/splitlyx/internal/database"
	"github.com/arin-r/splitlyx/internal/expense"
	"github.com/arin-r/splitlyx/internal/group"
	"github.com/arin-r/splitlyx/internal/settlement"
	"github.com/arin-r/splitlyx/internal/user"
	"github.com/arin-r/splitlyx/pkg/logging"
	"github.com/arin-r/splitlyx/pkg/metrics"
	mw "github.com/arin-r/splitlyx/pkg/middleware"
)

// @title           splitlyx API
// @version         1.0
// @description     Group expense-splitting ledger with minimal suggested settlements.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envErr := godotenv.Load()
	logging.Setup()
	if envErr != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, jwtManager)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(db, groupRepo)
	groupHandler := group.NewHandler(groupService)

	// Settlement feature: the ledger engine is shared with the expense feature
	settlementRepo := settlement.NewRepository(db)
	ledger := settlement.NewLedger(settlementRepo)
	settlementService := settlement.NewService(db, settlementRepo, groupRepo, ledger)
	settlementHandler := settlement.NewHandler(settlementService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(db, expenseRepo, groupRepo, ledger)
	expenseHandler := expense.NewHandler(expenseService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", userHandler.PublicRoutes())

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(jwtManager))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/settlements", settlementHandler.Routes())
		})
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
