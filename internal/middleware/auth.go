package middleware

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"medcamp/internal/auth"
	apperrors "medcamp/internal/errors"
)

const (
	claimsKey   = "claims"
	identityKey = "identity"
)

// IdentityResolver turns validated access claims into the caller's identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, access *auth.Claims) (auth.Identity, error)
}

// Authenticate validates the bearer access token and resolves the caller from the stored
// user record. Handlers behind it can rely on IdentityFrom.
func Authenticate(jwtService *auth.JWTService, resolver IdentityResolver) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token, auth.TokenTypeAccess)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized()
		},
	})

	resolve := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return unauthorized()
			}
			identity, err := resolver.ResolveIdentity(c.Request().Context(), claims)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			SetIdentity(c, identity)
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(resolve(next))
	}
}

// RequireAdmin rejects callers without the admin capability. It must run after Authenticate.
func RequireAdmin(policy *auth.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return unauthorized()
			}
			if !policy.IsAdmin(identity) {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: apperrors.ErrForbidden.Error(),
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity placed on the context by Authenticate.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	identity, ok := c.Get(identityKey).(auth.Identity)
	return identity, ok
}

// SetIdentity places the caller on the request context.
func SetIdentity(c echo.Context, identity auth.Identity) {
	c.Set(identityKey, identity)
}

// ClaimsFrom returns the validated access token claims, or nil.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

func unauthorized() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrUnauthenticated.Error(),
		Code:  "UNAUTHENTICATED",
	})
}
