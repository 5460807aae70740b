package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
)

// RequireLocation admits a request only when its session may enter loc, so
// actions share the guards of the view that owns them.
func RequireLocation(rt *router.Router, loc router.Location) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFrom(r.Context())
			if !ok {
				response.InternalServerError(w, "Session unavailable")
				return
			}

			decision, err := rt.Check(r.Context(), s, loc)
			if err != nil {
				slog.Error("RequireLocation check error", "location", loc, "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}

			if !decision.Admitted {
				metrics.GuardRedirects.WithLabelValues(string(decision.Guard)).Inc()
				if decision.Notice != nil {
					response.Notifier(w).Notify(decision.Notice.Message, decision.Notice.Severity)
				}
				response.SetNext(w, decision.Redirect)
				denied(w, decision)
				return
			}

			response.SetNext(w, loc)
			next.ServeHTTP(w, r)
		})
	}
}

func denied(w http.ResponseWriter, d router.Decision) {
	switch d.Guard {
	case router.GuardAuthentication:
		response.Unauthorized(w, "Please log in")
	case router.GuardAdminOnly:
		response.Forbidden(w, router.MessageAdminsOnly)
	case router.GuardUserOnly:
		response.Forbidden(w, router.MessageUseAdmin)
	case router.GuardAlreadyAuthenticated:
		response.Conflict(w, "Already signed in")
	default:
		response.BadRequest(w, "No email is waiting for verification", nil)
	}
}
