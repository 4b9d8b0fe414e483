package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenValidator verifies a bearer token and returns its subject. It is
// satisfied by auth.Issuer; middleware depends on the interface so tests
// can substitute their own validator.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// BearerAuth returns an Echo middleware that authenticates every request
// passing through it. It is the single choke point in front of all
// protected endpoints: handlers behind it can read the caller's username
// from the context via c.Get("username") without re-checking anything.
//
// A missing or malformed Authorization header (no "Bearer " prefix) is a
// 400: the caller did not present a token at all. A token that fails
// validation — bad signature, unparseable, or expired — is a 403, and the
// three cases are deliberately indistinguishable so callers learn nothing
// about why a stolen or stale token stopped working.
func BearerAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid authorization header"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			subject, err := v.Validate(raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("username", subject)
			return next(c)
		}
	}
}

// Username reads the authenticated caller set by BearerAuth. It returns
// an empty string when the middleware did not run, which handlers treat
// as an internal error rather than an anonymous user.
func Username(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok {
		return v
	}
	return ""
}
