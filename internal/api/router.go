package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/accessdesk/user-directory/docs"
	"github.com/accessdesk/user-directory/internal/api/handler"
	"github.com/accessdesk/user-directory/internal/api/middleware"
	"github.com/accessdesk/user-directory/internal/core/domain"
	"github.com/accessdesk/user-directory/internal/core/ports"
)

// Dependencies are the services and probes the router wires into handlers.
type Dependencies struct {
	Users     ports.UserService
	Roles     ports.RoleService
	Auth      ports.AuthService
	Readiness map[string]handler.Pinger
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	userHandler := handler.NewUserHandler(deps.Users)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	landingHandler := handler.NewLandingHandler()

	authenticate := middleware.Auth(deps.Auth)
	signedIn := middleware.Require(domain.AuthenticatedAny())
	adminOnly := middleware.Require(domain.RequiresRole(domain.RoleAdmin))

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authenticate, signedIn)
	e.GET("/api/user/info", authHandler.Info, authenticate, signedIn)

	// --- Landing destinations ---
	e.GET("/", landingHandler.Home)
	e.GET("/admin", landingHandler.Admin, authenticate, adminOnly)
	e.GET("/user", landingHandler.User, authenticate,
		middleware.Require(domain.RequiresAnyRole(domain.RoleUser, domain.RoleAdmin)))

	// --- Admin directory ---
	admin := e.Group("/api/admin", authenticate, adminOnly)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.GET("/users/exists", userHandler.Exists)
	admin.GET("/users/:id", userHandler.Get)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/roles", roleHandler.List)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
