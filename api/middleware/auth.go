package middleware

import (
	"context"
	"net/http"

	"github.com/nurulloasawear/order-app/api/responses"
	"github.com/nurulloasawear/order-app/api/validators"
	"github.com/nurulloasawear/order-app/pkg/auth/session"
	"github.com/nurulloasawear/order-app/pkg/db/models"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

// ActorSource resolves a session username to its user record.
type ActorSource interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Auth resolves the bearer token against the sessions table and seeds the
// request context with the actor's username, role, and assigned campaigns.
func Auth(resolver session.Resolver, users ActorSource, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			username, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session"))
				return
			}

			user, err := users.FindByUsername(r.Context(), username)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
				return
			}
			if user == nil || !user.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account unavailable"))
				return
			}

			ctx := WithActor(r.Context(), user.Username, user.Role, user.AssignedStores)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"username":   user.Username,
					"actor_role": string(user.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
