package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/godsaeng/godsaeng-backend/internal/session"
)

// CookieName is the cookie carrying the opaque session identifier.
const CookieName = "session"

// SessionAuth returns an Echo middleware that resolves the session cookie
// against the session store and injects the session id and the bag's
// user_id into the request context. Handlers behind it read the identity
// via handler.getUserID; a missing cookie, an expired session or a bag
// without a usable user_id all end in 401 before any handler runs.
func SessionAuth(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			attrs, err := store.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				// Expired, unknown and unreadable sessions are
				// indistinguishable to the caller.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			c.Set("session_id", cookie.Value)
			c.Set("user_id", attrs["user_id"])
			return next(c)
		}
	}
}
