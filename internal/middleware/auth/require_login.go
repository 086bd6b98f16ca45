package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/repo"
	"github.com/avdeenkov/marketplace/internal/service"
	"github.com/avdeenkov/marketplace/pkg/tokens"
)

const identityKey = "identity"

type Middleware struct {
	Repo         *repo.GormRepo
	AccessSecret []byte
}

func New(r *repo.GormRepo, accessSecret []byte) *Middleware {
	return &Middleware{Repo: r, AccessSecret: accessSecret}
}

// RequireAuth resolves the bearer credential to an Identity. The token only
// proves signature and expiry; the user record is re-fetched so blocked or
// deleted accounts are rejected even with a live token.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.AccessClaimsFromToken(tokenStr, m.AccessSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
		}

		user, err := m.Repo.GetUserByID(c.Request().Context(), userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
		}
		if user.IsBlocked {
			return echo.NewHTTPError(http.StatusForbidden, "account blocked")
		}

		c.Set(identityKey, service.Identity{UserID: user.ID, Role: user.Role})
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, models.RoleAdmin)
}

func (m *Middleware) RequireVendor(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireRole(next, models.RoleVendor, models.RoleAdmin)
}

func (m *Middleware) requireRole(next echo.HandlerFunc, roles ...models.Role) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		}
		for _, r := range roles {
			if id.Role == r {
				return next(c)
			}
		}
		return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
	})
}

func IdentityFrom(c echo.Context) (service.Identity, bool) {
	id, ok := c.Get(identityKey).(service.Identity)
	return id, ok
}
