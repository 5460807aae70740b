package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
	"github.com/go-chi/chi/v5"
)

type ViewHandler interface {
	Navigate(w http.ResponseWriter, r *http.Request)
}

type ViewHandlerImpl struct {
	router *router.Router
}

func NewViewHandler(rt *router.Router) ViewHandler {
	return &ViewHandlerImpl{router: rt}
}

// Navigate implements ViewHandler. The response names the location actually
// entered, which differs from the requested one when a guard redirected.
func (h *ViewHandlerImpl) Navigate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "location")

	result, err := h.router.Navigate(r.Context(), currentSession(r), token, response.Notifier(w))
	if err != nil {
		slog.Error("Navigate error", "location", token, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SetNext(w, result.Page.Location)
	response.Success(w, result)
}
