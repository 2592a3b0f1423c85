package middleware

import (
	"net/http"
	"strings"

	"github.com/reelbites/reelbites-backend/api/responses"
	pkgauth "github.com/reelbites/reelbites-backend/pkg/auth"
	"github.com/reelbites/reelbites-backend/pkg/auth/session"
	"github.com/reelbites/reelbites-backend/pkg/config"
	"github.com/reelbites/reelbites-backend/pkg/enums"
	pkgerrors "github.com/reelbites/reelbites-backend/pkg/errors"
	"github.com/reelbites/reelbites-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.ID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if verifier != nil {
				ok, err := verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked or expired"))
					return
				}
			}

			ctx := WithPrincipal(r.Context(), claims.PrincipalID, claims.Role)
			ctx = withAccessID(ctx, claims.ID)

			if logg != nil {
				ctx = logg.WithActorRole(ctx, claims.Role.String())
				switch claims.Role {
				case enums.ActorRolePartner:
					ctx = logg.WithPartnerID(ctx, claims.PrincipalID.String())
				default:
					ctx = logg.WithUserID(ctx, claims.PrincipalID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the context when a valid bearer token is present but lets
// anonymous requests through. Used by the feed so logged-in viewers get their
// liked/saved flags.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	authed := Auth(cfg, verifier, logg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearerToken(r) == "" {
				next.ServeHTTP(w, r)
				return
			}
			authed(next).ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
