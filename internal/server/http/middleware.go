package httpserver

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

// tokenCookie is the cookie checked after the Authorization header.
const tokenCookie = "token"

// Logging logs one line per request with status, duration and remote address.
func Logging(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("dur", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
			)
		})
	}
}

// Recover converts handler panics into plain 500s.
func Recover(log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic",
						zap.Any("reason", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("path", r.URL.Path),
					)
					writeJSON(w, http.StatusInternalServerError, errEnvelope{Error: "internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// extractToken locates the session token: bearer header first, cookie second.
func extractToken(r *http.Request) (string, bool) {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		if len(h) >= 7 && strings.EqualFold(h[:7], "bearer ") {
			if t := strings.TrimSpace(h[7:]); t != "" {
				return t, true
			}
		}
	}
	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// RequireAuth verifies the session token, resolves the user and rejects stale
// tokens. Every failure collapses to the same 401 so callers cannot tell a
// missing token from an expired one or a deleted account.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := extractToken(r)
		if !ok {
			s.respondError(w, r, errs.ErrUnauthorized)
			return
		}
		claims, err := s.tokens.Verify(raw)
		if err != nil {
			s.respondError(w, r, errs.ErrUnauthorized)
			return
		}
		u, err := s.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// covers deleted accounts; same generic 401
			s.respondError(w, r, errs.ErrUnauthorized)
			return
		}
		// Tokens issued before the last password change are stale. The
		// comparison runs at second granularity to match JWT iat.
		if u.PasswordChangedAt != nil && u.PasswordChangedAt.Truncate(time.Second).After(claims.IssuedAt) {
			s.respondError(w, r, errs.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireRoles gates a route to the given roles. Must run after RequireAuth.
func (s *Server) RequireRoles(roles ...model.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromCtx(r.Context())
			if !ok {
				s.respondError(w, r, errs.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			s.respondError(w, r, errs.ErrForbidden)
		})
	}
}

// resourceLoader loads an ownership-checked resource by path id.
type resourceLoader func(ctx context.Context, id uuid.UUID) (model.Owned, error)

// RequireOwner loads the resource named by the {id} path variable and checks
// ownership. A resource owned by someone else surfaces as 404, exactly like
// an absent one, unless the caller is an admin. The loaded resource is cached
// in the request context.
func (s *Server) RequireOwner(load resourceLoader) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromCtx(r.Context())
			if !ok {
				s.respondError(w, r, errs.ErrUnauthorized)
				return
			}
			id, err := uuid.FromString(mux.Vars(r)["id"])
			if err != nil {
				s.respondError(w, r, errs.ErrValidation)
				return
			}
			res, err := load(r.Context(), id)
			if err != nil {
				s.respondError(w, r, err)
				return
			}
			if res.OwnerID() != u.ID && u.Role != model.RoleAdmin {
				s.respondError(w, r, errs.ErrNotFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithResource(r.Context(), res)))
		})
	}
}
