package account

import (
	"context"
)

// AccountService is the admin accounts screen
type AccountService interface {
	List(ctx context.Context) ([]AccountResponse, error)
	Create(ctx context.Context, req CreateAccountRequest) (AccountResponse, error)
	Update(ctx context.Context, req UpdateAccountRequest) (AccountResponse, error)

	// Delete refuses to remove the actor's own account
	Delete(ctx context.Context, actor Identity, id int64) error
}
