package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/barracks/account-service/internal/api/handler"
	"github.com/barracks/account-service/internal/api/middleware"
	"github.com/barracks/account-service/internal/core/policy"
	"github.com/barracks/account-service/internal/core/ports"
	"github.com/barracks/account-service/internal/core/service"
	mongostore "github.com/barracks/account-service/internal/infrastructure/db/mongo"
	redisstore "github.com/barracks/account-service/internal/infrastructure/db/redis"
	"github.com/barracks/account-service/internal/pkg/password"
)

// Options carries the tunables the router needs beyond its connections.
type Options struct {
	TokenTTL   time.Duration
	BcryptCost int
	MailQueue  ports.MailEnqueuer
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	tokenStore := redisstore.NewTokenStore(rdb)
	hasher := password.NewHasher(opts.BcryptCost)

	tokenService := service.NewTokenService(tokenStore, userRepo, opts.TokenTTL, opts.Logger)
	authService := service.NewAuthService(userRepo, tokenService, hasher, opts.MailQueue, opts.Logger)
	userService := service.NewUserService(userRepo, tokenService, opts.Logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	authRequired := middleware.Auth(tokenService)

	// --- Public routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Authenticated routes ---
	e.GET("/logout", authHandler.Logout, authRequired)
	e.POST("/logout", authHandler.Logout, authRequired)
	e.GET("/user", userHandler.Me, authRequired)
	e.POST("/change-password", authHandler.ChangePassword, authRequired)
	e.POST("/user/:id/update", userHandler.Update, authRequired)
	e.POST("/profile-picture", userHandler.ProfilePicture, authRequired)
	e.POST("/delete-account", userHandler.DeleteAccount, authRequired)

	// --- Elevated routes ---
	e.GET("/users", userHandler.List, authRequired, middleware.RequireAction(policy.ActionListAll))
	e.POST("/admin/impersonate/:id", userHandler.Impersonate, authRequired, middleware.RequireAction(policy.ActionImpersonate))

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
