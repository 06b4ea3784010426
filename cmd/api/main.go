package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/fuelpoint/fuelpoint-api/internal/config"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/assignment"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/auth"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/dashboard"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/gift"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/notification"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/pump"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/redemption"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/settings"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/tier"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/transaction"
	"github.com/fuelpoint/fuelpoint-api/internal/domain/user"
	"github.com/fuelpoint/fuelpoint-api/internal/middleware"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/database"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/jwt"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/logger"
	"github.com/fuelpoint/fuelpoint-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	response.ExposeErrors(cfg.IsDevelopment())

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting FuelPoint API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	pumpRepo := pump.NewRepository(db)
	giftRepo := gift.NewRepository(db)
	tierRepo := tier.NewRepository(db)
	assignmentRepo := assignment.NewRepository(db)
	transactionRepo := transaction.NewRepository(db)
	redemptionRepo := redemption.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	settingsRepo := settings.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(db)

	// ---------- Realtime hub ----------
	hub := notification.NewHub(redisClient)
	go hub.Run()
	defer hub.Stop()

	// ---------- Services ----------
	notificationService := notification.NewService(notificationRepo, hub)
	scope := assignment.NewResolver(assignmentRepo)

	authService := auth.NewService(userRepo, jwtService, redisClient)
	transactionService := transaction.NewService(transactionRepo, tierRepo, userRepo, pumpRepo, settingsRepo, notificationService)
	redemptionService := redemption.NewService(redemptionRepo, giftRepo, tierRepo, scope, notificationService)
	assignmentService := assignment.NewService(assignmentRepo, userRepo, pumpRepo, giftRepo, tierRepo, redemptionService, notificationService)
	pumpService := pump.NewService(pumpRepo, assignmentRepo)
	userService := user.NewService(userRepo, transactionService)
	employerUserService := user.NewEmployerService(userRepo, assignmentRepo, transactionService)
	dashboardService := dashboard.NewService(dashboardRepo, transactionRepo, pumpRepo, userRepo, giftRepo, tierRepo, scope, redisClient, cfg.StatsCacheTTL)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService, tierRepo)
	employerUserHandler := user.NewEmployerHandler(employerUserService)
	pumpHandler := pump.NewHandler(pumpService)
	giftHandler := gift.NewHandler(giftRepo)
	tierHandler := tier.NewHandler(tierRepo)
	settingsHandler := settings.NewHandler(settingsRepo)
	assignmentHandler := assignment.NewHandler(assignmentService)
	transactionHandler := transaction.NewHandler(transactionService)
	redemptionHandler := redemption.NewHandler(redemptionService)
	notificationHandler := notification.NewHandler(notificationService, hub)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint; browsers cannot set headers here, so the token
	// rides in the query string.
	r.Get("/ws/notifications", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(notificationHandler.ServeWS)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/users", userHandler.Routes(authMiddleware, redemptionHandler.ListMine))
		r.Mount("/gifts", giftHandler.Routes(authMiddleware))
		r.Mount("/redemptions", redemptionHandler.Routes(authMiddleware))
		r.Mount("/notifications", notificationHandler.Routes(authMiddleware))
		r.Mount("/dashboard", dashboardHandler.Routes(authMiddleware, dashboard.TransactionLookups{
			Get:          transactionHandler.Get,
			GetByInvoice: transactionHandler.GetByInvoice,
			Recent:       transactionHandler.Recent,
		}, redemptionHandler.ListMine))

		r.Route("/admin", func(r chi.Router) {
			r.Mount("/pumps", pumpHandler.AdminRoutes(authMiddleware))
			r.Mount("/transactions", transactionHandler.AdminRoutes(authMiddleware))
			r.Mount("/settings", settingsHandler.Routes(authMiddleware))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RequireAdmin())
				r.Get("/stats", dashboardHandler.AdminStats)
				r.Get("/customer-tiers", tierHandler.List)
				r.Post("/backfill-customer-tiers", tierHandler.Backfill)
			})

			r.Mount("/", assignmentHandler.AdminRoutes(authMiddleware))
		})

		r.Route("/supervisor", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RequireSupervisor())
				r.Get("/dashboard", dashboardHandler.SupervisorStats)
			})

			r.Mount("/", assignmentHandler.SupervisorRoutes(authMiddleware))
		})

		r.Route("/employer", func(r chi.Router) {
			r.Mount("/transactions", transactionHandler.EmployerRoutes(authMiddleware))
			r.Mount("/gifts", assignmentHandler.EmployerGiftRoutes(authMiddleware))
			r.Mount("/users", employerUserHandler.EmployerRoutes(authMiddleware))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RequireEmployer())
				r.Get("/pumps", pumpHandler.MyPumps)
				r.Post("/meter-reading", pumpHandler.RecordMeterReading)
				r.Post("/maintenance", pumpHandler.ReportMaintenance)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
