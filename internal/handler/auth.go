package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/godsaeng/godsaeng-backend/internal/config"
	"github.com/godsaeng/godsaeng-backend/internal/middleware"
	"github.com/godsaeng/godsaeng-backend/internal/repository"
	"github.com/godsaeng/godsaeng-backend/internal/session"
	"github.com/godsaeng/godsaeng-backend/internal/utils"
)

// AuthHandler bundles dependencies for account and session endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    repository.UserStore
	Events   repository.EventStore
	Sessions session.Store
}

func NewAuthHandler(cfg config.Config, u repository.UserStore, e repository.EventStore, s session.Store) *AuthHandler {
	if u == nil || e == nil || s == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: u, Events: e, Sessions: s}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
type loginReq struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
type patchUserReq struct {
	NewName     string `json:"new_name"`
	NewPassword string `json:"new_password"`
}

// setSessionCookie attaches the opaque session identifier to the response.
func (h *AuthHandler) setSessionCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   h.Cfg.SessionTTLMin * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie on the client.
func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Signup handles POST /user and creates a new account. The request is
// anonymous; duplication is decided solely by the unique key on users.name.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/password required"})
	}

	id, err := h.Users.Create(c.Request().Context(), name, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create user"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": name})
}

// Login handles POST /login. A lookup miss and a wrong password produce the
// same response so callers cannot probe which names exist. On success the
// session identifier is always freshly minted: any identifier presented
// before authentication is discarded, its attributes carried into the new
// session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.Name)

	u, err := h.Users.FindByName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid name or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid name or password"})
	}

	ctx := c.Request().Context()
	attrs := session.Attributes{}
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if old, err := h.Sessions.Get(ctx, cookie.Value); err == nil {
			attrs = old
		}
		_ = h.Sessions.Delete(ctx, cookie.Value)
	}
	attrs["user_id"] = u.ID

	id, err := h.Sessions.New(ctx, attrs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	h.setSessionCookie(c, id)
	return c.JSON(http.StatusOK, u.Public())
}

// Logout handles POST /logout. It requires no authenticated identity; any
// presented session is invalidated server-side and the cookie is cleared.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		_ = h.Sessions.Delete(c.Request().Context(), cookie.Value)
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /me and returns the authenticated account's public view.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.FindByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, u.Public())
}

// UpdateAccount handles PATCH /user and replaces the caller's name and
// password together. The caller is whoever the session says; the body
// carries no credentials to re-check.
func (h *AuthHandler) UpdateAccount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req patchUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(req.NewName)
	if name == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_name/new_password required"})
	}

	u, err := h.Users.UpdateCredentials(c.Request().Context(), uid, name, req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "name already exists"})
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update user"})
	}
	return c.JSON(http.StatusOK, u.Public())
}

// DeleteAccount handles DELETE /user. What happens to the account's events
// is governed by ACCOUNT_DELETE_POLICY: "cascade" removes them first,
// "orphan" (the default) leaves them in place. The session is destroyed
// either way.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	if h.Cfg.DeletePolicy == config.DeletePolicyCascade {
		if _, err := h.Events.DeleteByOwner(ctx, uid); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete user"})
		}
	}
	if err := h.Users.Delete(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete user"})
	}

	if sid, ok := c.Get("session_id").(string); ok && sid != "" {
		_ = h.Sessions.Delete(ctx, sid)
	}
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}
