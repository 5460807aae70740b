package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/password"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
)

type AccountServiceImpl struct {
	store  *store.Store
	hasher password.Hasher
}

func NewAccountService(st *store.Store, hasher password.Hasher) account.AccountService {
	return &AccountServiceImpl{
		store:  st,
		hasher: hasher,
	}
}

// List implements account.AccountService.
func (s *AccountServiceImpl) List(ctx context.Context) ([]account.AccountResponse, error) {
	var accounts []account.Account
	_ = s.store.Read(func() error {
		accounts = s.store.Accounts.List()
		return nil
	})

	responses := make([]account.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		responses = append(responses, account.NewAccountResponse(a))
	}
	return responses, nil
}

// Create implements account.AccountService.
func (s *AccountServiceImpl) Create(ctx context.Context, req account.CreateAccountRequest) (account.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return account.AccountResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return account.AccountResponse{}, err
	}

	var created account.Account
	err = s.store.Mutate(ctx, func() error {
		var err error
		created, err = s.store.Accounts.Insert(account.Account{
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Email:        validator.NormalizeEmail(req.Email),
			PasswordHash: hash,
			Role:         account.Role(req.Role),
			Verified:     req.Verified,
		})
		return err
	})
	if err != nil {
		return account.AccountResponse{}, mapStoreError(err)
	}

	slog.Info("Account created", "account_id", created.ID, "role", created.Role)
	return account.NewAccountResponse(created), nil
}

// Update implements account.AccountService.
func (s *AccountServiceImpl) Update(ctx context.Context, req account.UpdateAccountRequest) (account.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return account.AccountResponse{}, err
	}

	var newHash string
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return account.AccountResponse{}, err
		}
		newHash = hash
	}

	var updated account.Account
	err := s.store.Mutate(ctx, func() error {
		existing, err := s.store.Accounts.Get(req.ID)
		if err != nil {
			return err
		}
		oldEmail := validator.NormalizeEmail(existing.Email)

		updated, err = s.store.Accounts.Update(req.ID, func(a *account.Account) error {
			if req.FirstName != nil {
				a.FirstName = strings.TrimSpace(*req.FirstName)
			}
			if req.LastName != nil {
				a.LastName = strings.TrimSpace(*req.LastName)
			}
			if req.Email != nil {
				a.Email = validator.NormalizeEmail(*req.Email)
			}
			if newHash != "" {
				a.PasswordHash = newHash
			}
			if req.Role != nil {
				a.Role = account.Role(*req.Role)
			}
			if req.Verified != nil {
				a.Verified = *req.Verified
			}
			return nil
		})
		if err != nil {
			return err
		}

		// Employee records follow the account to its new email
		if validator.NormalizeEmail(updated.Email) != oldEmail {
			linked := s.store.Employees.FindAll(func(e employee.Employee) bool {
				return validator.NormalizeEmail(e.Email) == oldEmail
			})
			for _, e := range linked {
				if _, err := s.store.Employees.Update(e.ID, func(e *employee.Employee) error {
					e.Email = updated.Email
					return nil
				}); err != nil {
					return err
				}
			}

			// So do the requests filed under the old email
			filed := s.store.Requests.FindAll(func(r request.Request) bool {
				return validator.NormalizeEmail(r.RequesterEmail) == oldEmail
			})
			for _, r := range filed {
				if _, err := s.store.Requests.Update(r.ID, func(r *request.Request) error {
					r.RequesterEmail = updated.Email
					return nil
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return account.AccountResponse{}, mapStoreError(err)
	}

	return account.NewAccountResponse(updated), nil
}

// Delete implements account.AccountService.
func (s *AccountServiceImpl) Delete(ctx context.Context, actor account.Identity, id int64) error {
	if !actor.IsAdmin() {
		return account.ErrAdminPrivilegeRequired
	}
	if actor.AccountID == id {
		return account.ErrSelfDelete
	}

	err := s.store.Mutate(ctx, func() error {
		target, err := s.store.Accounts.Get(id)
		if err != nil {
			return err
		}

		email := validator.NormalizeEmail(target.Email)
		if _, linked := s.store.Employees.Find(func(e employee.Employee) bool {
			return validator.NormalizeEmail(e.Email) == email
		}); linked {
			return account.ErrAccountInUse
		}

		return s.store.Accounts.Delete(id)
	})
	if err != nil {
		return mapStoreError(err)
	}

	slog.Info("Account deleted", "account_id", id, "by", actor.AccountID)
	return nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return account.ErrAccountNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		return account.ErrEmailExists
	case errors.Is(err, account.ErrAccountInUse):
		return err
	default:
		return fmt.Errorf("account store: %w", err)
	}
}
