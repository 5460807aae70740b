package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
)

type RequestServiceImpl struct {
	store *store.Store
}

func NewRequestService(st *store.Store) request.RequestService {
	return &RequestServiceImpl{store: st}
}

// Submit implements request.RequestService.
func (s *RequestServiceImpl) Submit(ctx context.Context, actor account.Identity, req request.SubmitRequest) (request.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}

	var created request.Request
	email := validator.NormalizeEmail(actor.Email)
	err := s.store.Mutate(ctx, func() error {
		if _, ok := s.store.Accounts.Find(func(a account.Account) bool {
			return validator.NormalizeEmail(a.Email) == email
		}); !ok {
			return auth.ErrNotAuthenticated
		}

		var err error
		created, err = s.store.Requests.Insert(request.Request{
			RequesterEmail: email,
			Type:           strings.TrimSpace(req.Type),
			Items:          req.NamedItems(),
			Status:         request.StatusPending,
			Date:           s.store.Now().Format("2006-01-02"),
		})
		return err
	})
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return request.RequestResponse{}, err
	}
	if err != nil {
		return request.RequestResponse{}, fmt.Errorf("failed to submit request: %w", err)
	}

	slog.Info("Request submitted", "request_id", created.ID, "type", created.Type, "items", len(created.Items))
	return request.NewRequestResponse(created), nil
}

// ListMine implements request.RequestService.
func (s *RequestServiceImpl) ListMine(ctx context.Context, actor account.Identity) ([]request.RequestResponse, error) {
	email := validator.NormalizeEmail(actor.Email)

	var mine []request.Request
	_ = s.store.Read(func() error {
		mine = s.store.Requests.FindAll(func(r request.Request) bool {
			return validator.NormalizeEmail(r.RequesterEmail) == email
		})
		return nil
	})
	return toResponses(mine), nil
}

// DeleteMine implements request.RequestService. Only pending requests can be withdrawn.
func (s *RequestServiceImpl) DeleteMine(ctx context.Context, actor account.Identity, id int64) error {
	err := s.store.Mutate(ctx, func() error {
		r, err := s.store.Requests.Get(id)
		if err != nil {
			return err
		}
		if validator.NormalizeEmail(r.RequesterEmail) != validator.NormalizeEmail(actor.Email) {
			return request.ErrNotRequestOwner
		}
		if !r.IsPending() {
			return request.ErrRequestAlreadyProcessed
		}
		return s.store.Requests.Delete(id)
	})
	if err != nil {
		return mapStoreError(err)
	}
	return nil
}

// ListAll implements request.RequestService.
func (s *RequestServiceImpl) ListAll(ctx context.Context) ([]request.RequestResponse, error) {
	var all []request.Request
	_ = s.store.Read(func() error {
		all = s.store.Requests.List()
		return nil
	})
	return toResponses(all), nil
}

// Approve implements request.RequestService.
func (s *RequestServiceImpl) Approve(ctx context.Context, actor account.Identity, id int64) (request.RequestResponse, error) {
	return s.decide(ctx, actor, id, request.StatusApproved)
}

// Reject implements request.RequestService.
func (s *RequestServiceImpl) Reject(ctx context.Context, actor account.Identity, id int64) (request.RequestResponse, error) {
	return s.decide(ctx, actor, id, request.StatusRejected)
}

func (s *RequestServiceImpl) decide(ctx context.Context, actor account.Identity, id int64, status request.Status) (request.RequestResponse, error) {
	if !actor.IsAdmin() {
		return request.RequestResponse{}, account.ErrAdminPrivilegeRequired
	}

	var updated request.Request
	err := s.store.Mutate(ctx, func() error {
		var err error
		updated, err = s.store.Requests.Update(id, func(r *request.Request) error {
			if !r.IsPending() {
				return request.ErrRequestAlreadyProcessed
			}
			r.Status = status
			return nil
		})
		return err
	})
	if err != nil {
		return request.RequestResponse{}, mapStoreError(err)
	}

	slog.Info("Request decided", "request_id", id, "status", status, "by", actor.AccountID)
	return request.NewRequestResponse(updated), nil
}

func toResponses(requests []request.Request) []request.RequestResponse {
	responses := make([]request.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, request.NewRequestResponse(r))
	}
	return responses
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return request.ErrRequestNotFound
	case errors.Is(err, request.ErrNotRequestOwner), errors.Is(err, request.ErrRequestAlreadyProcessed):
		return err
	default:
		return fmt.Errorf("request store: %w", err)
	}
}
