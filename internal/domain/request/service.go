package request

import (
	"context"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
)

type RequestService interface {
	// Submit files a new Pending request for the actor
	Submit(ctx context.Context, actor account.Identity, req SubmitRequest) (RequestResponse, error)
	ListMine(ctx context.Context, actor account.Identity) ([]RequestResponse, error)
	// DeleteMine withdraws one of the actor's own Pending requests
	DeleteMine(ctx context.Context, actor account.Identity, id int64) error

	ListAll(ctx context.Context) ([]RequestResponse, error)
	Approve(ctx context.Context, actor account.Identity, id int64) (RequestResponse, error)
	Reject(ctx context.Context, actor account.Identity, id int64) (RequestResponse, error)
}
