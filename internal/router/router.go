package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/godsaeng/godsaeng-backend/internal/handler"
	"github.com/godsaeng/godsaeng-backend/internal/metrics"
	"github.com/godsaeng/godsaeng-backend/internal/middleware"
	"github.com/godsaeng/godsaeng-backend/internal/session"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the health check and the Prometheus endpoint.
func RegisterRoutes(e *echo.Echo, collector *metrics.Collector) {
	if collector != nil {
		e.Use(collector.Middleware())
		e.GET("/metrics", echo.WrapHandler(collector.Handler()))
	}
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers account and session routes. Signup, login and
// logout are anonymous; everything else sits behind the session middleware
// so that handlers always start from a resolved caller identity.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, store session.Store) {
	e.POST("/user", a.Signup)
	e.POST("/login", a.Login)
	// Logout reads the cookie directly; an expired session must still be
	// able to clear itself.
	e.POST("/logout", a.Logout)

	auth := e.Group("", middleware.SessionAuth(store))
	auth.GET("/me", a.Me)
	auth.PATCH("/user", a.UpdateAccount)
	auth.DELETE("/user", a.DeleteAccount)
}

// RegisterEvents registers the schedule event routes. All of them require
// an authenticated session. Event ids travel in the JSON body, matching
// the wire shape clients already speak.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, store session.Store) {
	g := e.Group("", middleware.SessionAuth(store))
	g.GET("/events", h.ListEvents)
	g.POST("/event", h.CreateEvent)
	g.PATCH("/event", h.PatchEvent)
	g.DELETE("/event", h.DeleteEvent)
}
