package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-portal-go/internal/router"
)

type AccountHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type accountHandlerImpl struct {
	accountService account.AccountService
}

func NewAccountHandler(accountService account.AccountService) AccountHandler {
	return &accountHandlerImpl{accountService: accountService}
}

func (h *accountHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, accounts)
}

func (h *accountHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req account.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateAccount decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.accountService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Notifier(w).Notify("Account created.", router.SeveritySuccess)
	response.Created(w, "Account created successfully", created)
}

func (h *accountHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Account ID is required", nil)
		return
	}

	var req account.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateAccount decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	updated, err := h.accountService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Notifier(w).Notify("Account updated.", router.SeveritySuccess)
	response.SuccessWithMessage(w, "Account updated successfully", updated)
}

func (h *accountHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		response.BadRequest(w, "Account ID is required", nil)
		return
	}

	actor, err := currentIdentity(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.accountService.Delete(r.Context(), actor, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Notifier(w).Notify("Account deleted.", router.SeveritySuccess)
	response.SuccessWithMessage(w, "Account deleted successfully", nil)
}
