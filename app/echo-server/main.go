package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashMarket/app/echo-server/router"
	"flashMarket/business/admission"
	"flashMarket/business/category"
	"flashMarket/business/ledger"
	"flashMarket/business/merchant"
	"flashMarket/business/moderation"
	"flashMarket/business/product"
	"flashMarket/business/slot"
	userService "flashMarket/business/user"
	"flashMarket/internal/middleware"
	"flashMarket/internal/repository/geoip"
	"flashMarket/internal/repository/notification"
	psqlRepo "flashMarket/internal/repository/postgres"
	redisRepo "flashMarket/internal/repository/redis"
	"flashMarket/internal/rest"
	"flashMarket/pkg/clock"
	"flashMarket/pkg/config"
	"flashMarket/pkg/database"
	redisdb "flashMarket/pkg/database/redis"
	"flashMarket/pkg/logger"
	"flashMarket/pkg/metrics"
	"flashMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting FlashMarket", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	// Init validate
	validate := validator.New()

	systemClock := clock.NewSystem()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	merchantRepo := psqlRepo.NewMerchantRepository(db)
	moderatorRepo := psqlRepo.NewModeratorRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	slotRepo := psqlRepo.NewSlotRepository(db)
	admissionRepo := psqlRepo.NewAdmissionRepository(db)
	ledgerRepo := psqlRepo.NewLedgerRepository(db)
	visitorRepo := psqlRepo.NewVisitorRepository(db)

	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	visitorCache := redisRepo.NewVisitorCache(redisClient)
	geoipRepo := geoip.NewGeoIPRepository("")

	// Init service
	usrService := userService.NewUserService(userRepo, validate, mailjetEmail, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	categoryService := category.NewCategoryService(categoryRepo)
	merchantService := merchant.NewMerchantService(merchantRepo, userRepo)
	productService := product.NewProductService(productRepo, categoryRepo)
	ledgerService := ledger.NewLedgerService(ledgerRepo, systemClock)
	slotService := slot.NewSlotService(slotRepo, admissionRepo, ledgerService, moderatorRepo, systemClock, cfg.Slot.LiveThreshold)
	admissionService := admission.NewAdmissionService(admissionRepo, slotRepo, productRepo, ledgerService, slotService)
	notifier := moderation.NewEmailNotifier(mailjetEmail, productRepo, merchantRepo, userRepo)
	moderationService := moderation.NewModerationService(admissionService, moderatorRepo, productRepo, slotRepo, notifier)
	profileService := moderation.NewProfileService(moderatorRepo, userRepo, categoryRepo)

	// Init handler
	userHandler := rest.NewUserHandler(usrService, tokenRepo)
	categoryHandler := rest.NewCategoryHandler(categoryService)
	merchantHandler := rest.NewMerchantHandler(merchantService)
	moderatorHandler := rest.NewModeratorHandler(profileService)
	productHandler := rest.NewProductHandler(productService, merchantService)
	slotHandler := rest.NewSlotHandler(slotService)
	admissionHandler := rest.NewAdmissionHandler(admissionService, merchantService)
	moderationHandler := rest.NewModerationHandler(moderationService)
	historyHandler := rest.NewHistoryHandler(ledgerService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.VisitorTracking(visitorCache, geoipRepo, visitorRepo))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(tokenRepo)
	moderatorOnly := middleware.ModeratorOnly()
	merchantOnly := middleware.MerchantOnly()

	// Setup routes
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, moderatorOnly)
	router.SetupMerchantRoutes(api, merchantHandler, authRequired, merchantOnly)
	router.SetupModeratorRoutes(api, moderatorHandler, authRequired, moderatorOnly)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired, moderatorOnly)
	router.SetupProductRoutes(api, productHandler, authRequired, merchantOnly)
	router.SetupSlotRoutes(api, slotHandler, admissionHandler, authRequired, moderatorOnly)
	router.SetupAdmissionRoutes(api, admissionHandler, moderationHandler, authRequired, merchantOnly, moderatorOnly)
	router.SetupHistoryRoutes(api, historyHandler, authRequired)

	// Periodic reconciliation sweep: catches slots whose start or end time
	// passed without any request touching them.
	reconcileCtx, stopReconcile := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(cfg.Slot.ReconcileInterval)
		defer ticker.Stop()

		for {
			select {
			case <-reconcileCtx.Done():
				return
			case <-ticker.C:
				sweepCtx, cancel := context.WithTimeout(reconcileCtx, 30*time.Second)
				changed, err := slotService.Reconcile(sweepCtx)
				cancel()
				if err != nil {
					logger.Error("Reconciliation sweep failed", "error", err)
					continue
				}
				if changed > 0 {
					logger.Info("Reconciliation sweep complete", "changed", changed)
				}
			}
		}
	}()

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	stopReconcile()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
