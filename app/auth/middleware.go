package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gamestore/store-admin/app/api"
	"github.com/gamestore/store-admin/models"
	"github.com/pkg/errors"
)

// ErrUnauthenticated is returned when a request carries no live session.
var ErrUnauthenticated = errors.New("unauthenticated")

type SessionProvider interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindSession(ctx context.Context, client string) (*models.UserSession, error)
}

type contextKey struct{}

type Identity struct {
	User   *models.User
	Client string
}

// CurrentIdentity returns the identity stored by the authenticator.
func CurrentIdentity(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

type Authenticator struct {
	tokens   *Tokens
	sessions SessionProvider
}

func NewAuthenticator(tokens *Tokens, sessions SessionProvider) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions}
}

// Identify resolves the user behind the request token. The token is read
// from "Authorization: Bearer" or the access-token header.
func (a *Authenticator) Identify(r *http.Request) (*Identity, error) {
	raw := bearer(r.Header.Get("Authorization"))
	if raw == "" {
		raw = strings.TrimSpace(r.Header.Get(HeaderAccessToken))
	}
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := a.tokens.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(ErrUnauthenticated, err.Error())
	}
	session, err := a.sessions.FindSession(r.Context(), claims.Client)
	if err != nil {
		return nil, errors.Wrap(ErrUnauthenticated, err.Error())
	}
	if session.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}
	user, err := a.sessions.GetUser(r.Context(), session.UserID)
	if err != nil {
		return nil, errors.Wrap(ErrUnauthenticated, err.Error())
	}
	return &Identity{User: user, Client: session.Client}, nil
}

func bearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin lets through requests of signed in admins only.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := a.Identify(r)
		if err != nil {
			api.JSON(w, http.StatusUnauthorized, map[string]interface{}{
				"errors": []string{"You need to sign in or sign up before continuing."},
			})
			return
		}
		if !id.User.IsAdmin() {
			api.JSON(w, http.StatusForbidden, map[string]interface{}{
				"errors": map[string]string{"message": "Forbidden access"},
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
	})
}
