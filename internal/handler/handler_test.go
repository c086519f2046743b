package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"medcamp/internal/auth"
	"medcamp/internal/errors"
	"medcamp/internal/middleware"
	"medcamp/internal/model"
)

var testCaller = auth.Identity{UserID: uuid.New(), Email: "org@example.com", Role: model.RoleUser}

// serve runs h against a request, with identity placed on the context when non-nil.
func serve(t *testing.T, method, target, body string, identity *auth.Identity, route string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var mw []echo.MiddlewareFunc
	if identity != nil {
		mw = append(mw, func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				middleware.SetIdentity(c, *identity)
				return next(c)
			}
		})
	}
	e.Add(method, route, h, mw...)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorResponse {
	t.Helper()
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
