package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tradeup/internal/config"
	"tradeup/internal/database"
	"tradeup/internal/handlers"
	"tradeup/internal/market"
	"tradeup/internal/repository"
	"tradeup/internal/security"
	"tradeup/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	healthHandler := handlers.NewHealthHandler()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	progressRepo := repository.NewSQLProgressRepository(db)
	localProgressRepo := repository.NewLocalProgressRepository(cfg.LocalProgressPath)
	lessonRepo := repository.NewLessonRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)

	// Initialize services
	tokens, err := security.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}

	authService := service.NewAuthService(userRepo, tokens, cfg.SessionDuration)
	progressService := service.NewProgressService(progressRepo)
	guestProgressService := service.NewProgressService(localProgressRepo)

	gameService, err := service.NewGameService(progressService)
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}
	guestGameService, err := service.NewGameService(guestProgressService)
	if err != nil {
		log.Fatalf("Failed to create guest game service: %v", err)
	}
	lessonService, err := service.NewLessonService(lessonRepo, progressService, cfg.HeartLossPerMistake)
	if err != nil {
		log.Fatalf("Failed to create lesson service: %v", err)
	}
	portfolioService := service.NewPortfolioService(portfolioRepo)

	fromAddress := cfg.SESFromAddress
	if !cfg.EmailEnabled {
		fromAddress = ""
	}
	emailService, err := service.NewEmailService(cfg.AWSRegion, fromAddress, "TradeUp", cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to create email service: %v", err)
	}

	stockClient := market.NewAlphaVantageClient(cfg.AlphaVantageAPIKey)
	cryptoClient := market.NewCoinGeckoClient(cfg.CoinGeckoBaseURL)

	oauthProviders := map[string]*handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.OAuthRedirectBaseURL + "/api/auth/google/callback",
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
		},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService)
	authLimiter := security.NewRateLimiter(10, time.Minute)

	authHandler := handlers.NewAuthHandler(authService, oauthProviders)
	progressHandler := handlers.NewProgressHandler(progressService, progressRepo)
	guestProgressHandler := handlers.NewProgressHandler(guestProgressService, progressRepo)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	practiceHandler := handlers.NewPracticeHandler(gameService, authService, emailService)
	guestPracticeHandler := handlers.NewPracticeHandler(guestGameService, authService, emailService)
	marketHandler := handlers.NewMarketHandler(stockClient, cryptoClient)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	billingHandler := handlers.NewBillingHandler(progressService, cfg.BillingWebhookSecret)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler.Healthz)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)

	// Auth
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authLimiter, authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authLimiter, authHandler.Login))
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /api/auth/{provider}/callback", authHandler.OAuthCallback)
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("PUT /api/me/display-name", middleware.RequireAuth(authHandler.UpdateDisplayName))

	// Progress and economy
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(progressHandler.GetProgress))
	mux.HandleFunc("POST /api/progress/hearts/refill", middleware.RequireAuth(progressHandler.RefillHearts))
	mux.HandleFunc("PUT /api/progress/daily-goal", middleware.RequireAuth(progressHandler.SetDailyGoal))
	mux.HandleFunc("GET /api/leaderboard", middleware.RequireAuth(progressHandler.Leaderboard))

	// Lessons
	mux.HandleFunc("GET /api/lessons", middleware.RequireAuth(lessonHandler.ListLessons))
	mux.HandleFunc("POST /api/lessons/{id}/start", middleware.RequireAuth(lessonHandler.StartLesson))
	mux.HandleFunc("GET /api/lessons/sessions/{sessionId}/question", middleware.RequireAuth(lessonHandler.CurrentQuestion))
	mux.HandleFunc("POST /api/lessons/sessions/{sessionId}/answer", middleware.RequireAuth(lessonHandler.SubmitAnswer))
	mux.HandleFunc("POST /api/lessons/sessions/{sessionId}/finish", middleware.RequireAuth(lessonHandler.FinishLesson))

	// Practice games
	registerPracticeRoutes(mux, "/api/practice", middleware.RequireAuth, practiceHandler)
	mux.HandleFunc("POST /api/practice/battle/invite", middleware.RequireAuth(practiceHandler.InviteToBattle))

	// Anonymous play: progress and games keyed by device ID, no account.
	// Lessons and the portfolio stay account-only.
	mux.HandleFunc("GET /api/guest/progress", middleware.RequireDevice(guestProgressHandler.GetProgress))
	mux.HandleFunc("POST /api/guest/progress/hearts/refill", middleware.RequireDevice(guestProgressHandler.RefillHearts))
	mux.HandleFunc("PUT /api/guest/progress/daily-goal", middleware.RequireDevice(guestProgressHandler.SetDailyGoal))
	registerPracticeRoutes(mux, "/api/guest/practice", middleware.RequireDevice, guestPracticeHandler)

	// Market data
	mux.HandleFunc("GET /api/market/quote/{symbol}", middleware.RequireAuth(marketHandler.GetQuote))
	mux.HandleFunc("GET /api/market/search", middleware.RequireAuth(marketHandler.SearchSymbols))
	mux.HandleFunc("GET /api/market/coins", middleware.RequireAuth(marketHandler.ListCoins))

	// Paper trading
	mux.HandleFunc("GET /api/portfolio", middleware.RequireAuth(portfolioHandler.GetPortfolio))
	mux.HandleFunc("GET /api/portfolio/holdings", middleware.RequireAuth(portfolioHandler.GetHoldings))
	mux.HandleFunc("GET /api/portfolio/trades", middleware.RequireAuth(portfolioHandler.GetTrades))
	mux.HandleFunc("POST /api/portfolio/trades", middleware.RequireAuth(portfolioHandler.ExecuteTrade))

	// Billing provider callback
	mux.HandleFunc("POST /api/billing/webhook", billingHandler.Webhook)

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	healthHandler.SetReady()

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// registerPracticeRoutes mounts the game endpoints under a prefix. The
// guard decides how callers are identified.
func registerPracticeRoutes(mux *http.ServeMux, prefix string, guard func(http.HandlerFunc) http.HandlerFunc, h *handlers.PracticeHandler) {
	mux.HandleFunc("POST "+prefix+"/quiz/start", guard(h.StartQuiz))
	mux.HandleFunc("POST "+prefix+"/quiz/{sessionId}/answer", guard(h.AnswerQuiz))
	mux.HandleFunc("POST "+prefix+"/quiz/{sessionId}/advance", guard(h.AdvanceQuiz))
	mux.HandleFunc("POST "+prefix+"/quiz/{sessionId}/finish", guard(h.FinishQuiz))

	mux.HandleFunc("POST "+prefix+"/drill/start", guard(h.StartDrill))
	mux.HandleFunc("POST "+prefix+"/drill/{sessionId}/answer", guard(h.AnswerDrill))
	mux.HandleFunc("POST "+prefix+"/drill/{sessionId}/advance", guard(h.AdvanceDrill))
	mux.HandleFunc("POST "+prefix+"/drill/{sessionId}/end", guard(h.EndDrill))

	mux.HandleFunc("POST "+prefix+"/chart/start", guard(h.StartChart))
	mux.HandleFunc("POST "+prefix+"/chart/{sessionId}/answer", guard(h.AnswerChart))
	mux.HandleFunc("POST "+prefix+"/chart/{sessionId}/advance", guard(h.AdvanceChart))
	mux.HandleFunc("POST "+prefix+"/chart/{sessionId}/finish", guard(h.FinishChart))

	mux.HandleFunc("POST "+prefix+"/battle/start", guard(h.StartBattle))
	mux.HandleFunc("POST "+prefix+"/battle/{sessionId}/answer", guard(h.AnswerBattle))
	mux.HandleFunc("POST "+prefix+"/battle/{sessionId}/timeout", guard(h.TimeoutBattle))
	mux.HandleFunc("POST "+prefix+"/battle/{sessionId}/advance", guard(h.AdvanceBattle))
	mux.HandleFunc("POST "+prefix+"/battle/{sessionId}/finish", guard(h.FinishBattle))
}

// cleanupExpiredSessions periodically removes expired refresh sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Failed to cleanup expired sessions: %v", err)
		}
	}
}
