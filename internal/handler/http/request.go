package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
)

type RequestHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	DeleteMine(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type decideFunc func(ctx context.Context, actor account.Identity, id int64) (request.RequestResponse, error)

type requestHandlerImpl struct {
	requestService request.RequestService
}

func NewRequestHandler(requestService request.RequestService) RequestHandler {
	return &requestHandlerImpl{requestService: requestService}
}

func (h *requestHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := currentIdentity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req request.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.requestService.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Notifier(w).Notify("Request submitted.", router.SeveritySuccess)
	response.Created(w, "Request submitted successfully", created)
}

func (h *requestHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := currentIdentity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	mine, err := h.requestService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, mine)
}

func (h *requestHandlerImpl) DeleteMine(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	actor, err := currentIdentity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.requestService.DeleteMine(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Notifier(w).Notify("Request deleted.", router.SeveritySuccess)
	response.SuccessWithMessage(w, "Request deleted successfully", nil)
}

func (h *requestHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.requestService.ListAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, all)
}

func (h *requestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requestService.Approve, "Request approved.")
}

func (h *requestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requestService.Reject, "Request rejected.")
}

func (h *requestHandlerImpl) decide(w http.ResponseWriter, r *http.Request, fn decideFunc, message string) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	actor, err := currentIdentity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := fn(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Notifier(w).Notify(message, router.SeveritySuccess)
	response.SuccessWithMessage(w, message, updated)
}
