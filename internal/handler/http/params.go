package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-portal-go/internal/session"
	"github.com/go-chi/chi/v5"
)

// parseID reads the {id} path parameter.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func currentSession(r *http.Request) *session.Session {
	s, _ := middleware.SessionFrom(r.Context())
	return s
}

func currentIdentity(r *http.Request) (account.Identity, error) {
	s := currentSession(r)
	if s == nil {
		return account.Identity{}, auth.ErrNotAuthenticated
	}
	identity, ok := s.Identity()
	if !ok {
		return account.Identity{}, auth.ErrNotAuthenticated
	}
	return identity, nil
}
