package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"medcamp/docs"
	"medcamp/internal/auth"
	"medcamp/internal/config"
	"medcamp/internal/handler"
	authmw "medcamp/internal/middleware"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Camp    *handler.CampHandler
	Admin   *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	resolver authmw.IdentityResolver,
	policy *auth.Policy,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = handler.NewValidator()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", h.Auth.SignUp)
	api.POST("/auth/signin", h.Auth.SignIn)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// Secured routes (require a live access token)
	secured := api.Group("", authmw.Authenticate(jwtService, resolver))

	secured.POST("/auth/signout", h.Auth.SignOut)
	secured.GET("/auth/me", h.Auth.Me)

	secured.GET("/profile", h.Profile.GetProfile)
	secured.PUT("/profile", h.Profile.UpdateProfile)

	secured.POST("/camps", h.Camp.Submit)
	secured.GET("/camps", h.Camp.ListMine)
	secured.GET("/camps/:id", h.Camp.Get)

	// Review routes; the camp service checks the admin capability again.
	admin := secured.Group("/admin", authmw.RequireAdmin(policy))
	admin.GET("/camps", h.Admin.ListCamps)
	admin.PATCH("/camps/:id/status", h.Admin.UpdateStatus)
}
