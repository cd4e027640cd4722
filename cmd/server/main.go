package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/farmlink/marketplace-api/docs" // swagger docs

	"github.com/farmlink/marketplace-api/internal/api"
	"github.com/farmlink/marketplace-api/internal/api/handler"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
	"github.com/farmlink/marketplace-api/internal/core/service"
	"github.com/farmlink/marketplace-api/internal/infrastructure/db/mongo"
	"github.com/farmlink/marketplace-api/internal/infrastructure/db/redis"
	"github.com/farmlink/marketplace-api/internal/pkg/config"
	"github.com/farmlink/marketplace-api/pkg/logger"
)

// @title Livestock Marketplace API
// @version 1.0
// @description Accounts, catalog, veterinary appointments and ratings.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "marketplace-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	log.Info().Str("db", cfg.Mongo.Database).Msg("connected to mongo")

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// Repositories
	accountRepo := mongo.NewAccountRepository(db)
	cattleRepo := mongo.NewCattleRepository(db)
	productRepo := mongo.NewProductRepository(db)
	newsRepo := mongo.NewNewsRepository(db)
	appointmentRepo := mongo.NewAppointmentRepository(db)
	ratingRepo := mongo.NewRatingRepository(db)

	if err := mongo.EnsureIndexes(ctx, accountRepo, cattleRepo, productRepo, newsRepo, appointmentRepo, ratingRepo); err != nil {
		return err
	}

	revocations := redis.NewRevocationStore(rdb)
	tokens := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Services
	authService := service.NewAuthService(accountRepo, tokens, revocations, logger.Component("auth"))
	resolver := service.NewIdentityResolver(tokens, accountRepo, revocations)
	accountService := service.NewAccountService(accountRepo)
	cattleService := service.NewResourceService[*domain.Cattle](domain.KindCattle, cattleRepo,
		domain.ProducerRoles[domain.KindCattle], logger.Component("cattle"))
	productService := service.NewResourceService[*domain.Product](domain.KindProduct, productRepo,
		domain.ProducerRoles[domain.KindProduct], logger.Component("products"))
	newsService := service.NewResourceService[*domain.NewsItem](domain.KindNews, newsRepo,
		domain.ProducerRoles[domain.KindNews], logger.Component("news"))
	appointmentService := service.NewAppointmentService(appointmentRepo, accountRepo, logger.Component("appointments"))
	ratingService := service.NewRatingService(ratingRepo, accountRepo, logger.Component("ratings"))
	adminService := service.NewAdminService(accountRepo, map[domain.ResourceKind]ports.OwnedCollection{
		domain.KindCattle:  cattleRepo,
		domain.KindProduct: productRepo,
		domain.KindNews:    newsRepo,
	}, appointmentRepo, ratingRepo, logger.Component("admin"))

	if cfg.Admin.Enabled() {
		admin, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		log.Info().Str("account_id", admin.ID).Msg("admin account ready")
	}

	e := api.NewRouter(api.Deps{
		Log:          logger.Component("http"),
		Resolver:     resolver,
		Auth:         authService,
		Accounts:     accountService,
		Cattle:       cattleService,
		Products:     productService,
		News:         newsService,
		Appointments: appointmentService,
		Ratings:      ratingService,
		Admin:        adminService,
		Health: map[string]handler.Pinger{
			"mongo": mongo.NewPinger(mongoClient),
			"redis": redis.NewPinger(rdb),
		},
		AuthRateLimit: cfg.AuthRateLimit,
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
