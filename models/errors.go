package models

import "errors"

// Ledger error taxonomy. Every state-changing handler maps one of these to a
// specific HTTP status and user-facing message; none are retried internally.
var (
	ErrUnauthorized          = errors.New("caller is not the resource owner")
	ErrNotFound              = errors.New("resource not found")
	ErrOutOfRange            = errors.New("index out of range")
	ErrPlanInactive          = errors.New("plan is not active")
	ErrTierInactive          = errors.New("tier is not active")
	ErrWrongAmount           = errors.New("payment amount does not match price")
	ErrSupplyExhausted       = errors.New("tier max supply reached")
	ErrInvalidRoyalty        = errors.New("royalty must be between 0 and 10000 basis points")
	ErrInvalidReference      = errors.New("gate references a plan or tier not owned by the caller")
	ErrNothingToWithdraw     = errors.New("no balance to withdraw")
	ErrInsufficientAllowance = errors.New("stablecoin allowance too low")
	ErrTransferFailed        = errors.New("token transfer failed")
)
