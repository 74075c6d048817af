package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mockshop/internal/models"
	"github.com/Skotchmaster/mockshop/internal/repo"
	"github.com/Skotchmaster/mockshop/pkg/logging"
	"github.com/Skotchmaster/mockshop/pkg/tokens"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"

	MsgTokenMissing = "Authorization token missing or invalid"
	MsgInvalidToken = "Invalid token"
)

type TokenVerifier interface {
	Verify(raw string) (string, error)
}

type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type BearerAuth struct {
	Tokens TokenVerifier
	Users  UserLookup
}

func NewBearerAuth(t TokenVerifier, u UserLookup) *BearerAuth {
	return &BearerAuth{Tokens: t, Users: u}
}

// RequireAuth accepts a request only when its bearer token is the one
// currently stored for the user it names.
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenMissing)
		}

		username, err := m.Tokens.Verify(raw)
		if err != nil {
			l.Warn("auth_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		}

		user, err := m.Users.GetUserByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				l.Warn("auth_failed", "status", 401, "reason", "unknown user")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
			}
			l.Error("auth_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
		}

		if user.TokenDigest == nil || !sameDigest(*user.TokenDigest, tokens.Digest(raw)) {
			l.Warn("auth_failed", "status", 401, "reason", "token revoked or superseded", "user_id", user.ID)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", user.ID))))
		return next(c)
	}
}

func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(ContextUserKey).(*models.User)
	return u, ok && u != nil
}

// bearerToken accepts exactly "Bearer <token>" with a single space and no
// surrounding whitespace.
func bearerToken(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" || strings.ContainsAny(raw, " \t") {
		return "", false
	}
	return raw, true
}

func sameDigest(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
