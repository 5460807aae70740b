package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
)

const SessionCookie = "sid"

type sessionKey struct{}

// Sessions attaches the caller's session, issuing a cookie for new ones, and
// wraps the writer so handlers can raise notices.
func Sessions(m *session.Manager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}

			s, _ := m.Resolve(id)
			if s.ID != id {
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    s.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithSession(r.Context(), s)
			next.ServeHTTP(response.NewNoticeWriter(w), r.WithContext(ctx))
		})
	}
}

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFrom(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*session.Session)
	return s, ok && s != nil
}
