package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	"github.com/go-chi/jwtauth/v5"
)

const MessageSessionEnded = "Your account has changed. Please log in again."

// SessionToken runs after jwtauth.Verifier. A signed-in session must present
// the bearer token it was issued at login, unexpired and not revoked.
// Anonymous sessions pass through untouched. A session whose account was
// deleted or changed since login carries on as anonymous.
func SessionToken(jwtService jwt.Service, authService auth.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFrom(r.Context())
			if !ok || !s.IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}

			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			issued, found, err := s.Token(r.Context())
			if err != nil {
				slog.Error("SessionToken marker read error", "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}
			if !found || raw != issued || jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := jwtService.ParseSessionToken(raw)
			identity, _ := s.Identity()
			if err != nil || claims.Email != identity.Email || claims.Role != identity.Role {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ended, err := authService.RefreshIdentity(r.Context(), s)
			if err != nil {
				slog.Error("SessionToken identity refresh error", "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}
			if ended {
				response.Notifier(w).Notify(MessageSessionEnded, router.SeverityWarning)
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
