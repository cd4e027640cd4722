package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/farmlink/marketplace-api/internal/api/handler"
	"github.com/farmlink/marketplace-api/internal/api/middleware"
	"github.com/farmlink/marketplace-api/internal/core/domain"
	"github.com/farmlink/marketplace-api/internal/core/ports"
)

const defaultAuthRateLimit = 5

// Deps carries everything the HTTP layer needs. Health maps a dependency
// name to its readiness probe.
type Deps struct {
	Log           zerolog.Logger
	Resolver      ports.IdentityResolver
	Auth          ports.AuthService
	Accounts      ports.AccountService
	Cattle        ports.ResourceService[*domain.Cattle]
	Products      ports.ResourceService[*domain.Product]
	News          ports.ResourceService[*domain.NewsItem]
	Appointments  ports.AppointmentService
	Ratings       ports.RatingService
	Admin         ports.AdminService
	Health        map[string]handler.Pinger
	AuthRateLimit float64
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("marketplace"))
	e.Use(echomiddleware.BodyLimit("1M"))

	requireAuth := middleware.RequireAuth(d.Resolver)
	optionalAuth := middleware.OptionalAuth(d.Resolver)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register, authRateLimiter(d.AuthRateLimit))
	auth.POST("/login", authHandler.Login, authRateLimiter(d.AuthRateLimit))
	auth.POST("/logout", authHandler.Logout, requireAuth)

	// --- Accounts ---
	accountHandler := handler.NewAccountHandler(d.Accounts)
	v1.GET("/me", accountHandler.Me, requireAuth)
	v1.PATCH("/me", accountHandler.UpdateMe, requireAuth)
	v1.GET("/veterinarians", accountHandler.ListVeterinarians)
	v1.GET("/accounts/:id", accountHandler.PublicProfile)

	// --- Catalog ---
	registerResource(v1.Group("/cattle"), handler.NewCattleHandler(d.Cattle), domain.KindCattle, requireAuth, optionalAuth)
	registerResource(v1.Group("/products"), handler.NewProductHandler(d.Products), domain.KindProduct, requireAuth, optionalAuth)
	registerResource(v1.Group("/news"), handler.NewNewsHandler(d.News), domain.KindNews, requireAuth, optionalAuth)

	// --- Appointments ---
	appointmentHandler := handler.NewAppointmentHandler(d.Appointments)
	appts := v1.Group("/appointments", requireAuth)
	appts.POST("", appointmentHandler.Book)
	appts.GET("/mine", appointmentHandler.ListMine)
	appts.GET("/assigned", appointmentHandler.ListAssigned, middleware.RBAC(domain.RoleVeterinarian))
	appts.GET("/stats", appointmentHandler.Stats, middleware.RBAC(domain.RoleVeterinarian))
	appts.GET("/:id", appointmentHandler.Get)
	appts.PATCH("/:id/status", appointmentHandler.UpdateStatus, middleware.RBAC(domain.RoleVeterinarian))

	// --- Ratings ---
	ratingHandler := handler.NewRatingHandler(d.Ratings)
	v1.GET("/veterinarians/:id/ratings", ratingHandler.ListForSubject)
	v1.POST("/veterinarians/:id/ratings", ratingHandler.Create, requireAuth, middleware.RBAC(domain.RoleFarmer))
	v1.GET("/veterinarians/:id/ratings/mine", ratingHandler.Mine, requireAuth)
	v1.PUT("/ratings/:id", ratingHandler.Update, requireAuth)
	v1.DELETE("/ratings/:id", ratingHandler.Delete, requireAuth)

	// --- Admin ---
	adminHandler := handler.NewAdminHandler(d.Admin)
	admin := v1.Group("/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts", adminHandler.ListAccounts)
	admin.PATCH("/accounts/:id/active", adminHandler.SetActive)
	admin.DELETE("/accounts/:id", adminHandler.DeleteAccount)
	admin.GET("/stats", adminHandler.Dashboard)

	return e
}

func registerResource[T domain.Resource](g *echo.Group, h *handler.ResourceHandler[T], kind domain.ResourceKind, requireAuth, optionalAuth echo.MiddlewareFunc) {
	g.GET("", h.List, optionalAuth)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, requireAuth, middleware.RBAC(domain.ProducerRoles[kind]...))
	g.PUT("/:id", h.Replace, requireAuth)
	g.DELETE("/:id", h.Delete, requireAuth)
}

// authRateLimiter throttles credential endpoints per client IP.
func authRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = defaultAuthRateLimit
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     authBurst(perSecond),
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.ErrTooManyRequests
		},
	})
}

// authBurst allows short retries on top of the steady rate and never drops to zero.
func authBurst(perSecond float64) int {
	return max(1, int(perSecond*2))
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
