package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "medcamp/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"medcamp/internal/auth"
	"medcamp/internal/cache"
	"medcamp/internal/config"
	"medcamp/internal/db"
	"medcamp/internal/events"
	"medcamp/internal/handler"
	"medcamp/internal/notify"
	"medcamp/internal/repository"
	"medcamp/internal/router"
	"medcamp/internal/service"
	"medcamp/internal/telemetry"
)

const mailQueueSize = 64

// @title Medical Camp Review API
// @version 1.0
// @description Organizations submit medical camp proposals; admins review, approve or reject them.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "medcamp", cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("telemetry init: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		db.Reset(gormDB)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Printf("Warning: redis unreachable at %s, sessions cannot be stored: %v", cfg.RedisAddr, err)
	}

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)

	var mailer notify.Mailer
	if m := notify.NewSMTPMailer(notify.SMTPConfig(cfg.SMTP)); m != nil {
		mailer = m
	}
	dispatcher := notify.NewDispatcher(mailer, mailQueueSize)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	campRepo := repository.NewCampRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	policy := auth.NewPolicy(cfg.AdminEmail)

	// Initialize services
	authService := service.NewAuthService(userRepo, profileRepo, jwtService, tokenStore, policy)
	profileService := service.NewProfileService(profileRepo)
	campService := service.NewCampService(campRepo, userRepo, policy, loc, publisher, dispatcher)

	e := echo.New()
	router.Register(e, cfg, jwtService, authService, policy, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Profile: handler.NewProfileHandler(profileService),
		Camp:    handler.NewCampHandler(campService),
		Admin:   handler.NewAdminHandler(campService),
	})

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	if !strings.HasPrefix(swaggerHost, "http://") && !strings.HasPrefix(swaggerHost, "https://") {
		swaggerHost = "http://" + swaggerHost
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	dispatcher.Close()
	if err := publisher.Close(); err != nil {
		log.Printf("event publisher close: %v", err)
	}
	if err := cacheClient.Close(); err != nil {
		log.Printf("redis close: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
}
