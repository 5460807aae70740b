package request

import "errors"

var (
	ErrRequestNotFound         = errors.New("request not found")
	ErrRequestAlreadyProcessed = errors.New("request already processed")
	ErrNotRequestOwner         = errors.New("request belongs to another account")
)
