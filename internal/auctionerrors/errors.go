package auctionerrors

import (
	"errors"
	"fmt"
)

// Input and phase guard errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrAuctionStillActive = errors.New("auction has not ended yet")
)

// Lookup errors
var (
	ErrNotFound = errors.New("not found")
	ErrNoBids   = fmt.Errorf("no active bids for item: %w", ErrNotFound)
)

// ErrConflict reports a write rejected by a uniqueness rule of the store.
var ErrConflict = errors.New("conflicting record exists")

// Payment guard errors
var (
	ErrNotApproved      = errors.New("payment not approved")
	ErrIdentityMismatch = errors.New("payment identity mismatch")
)

// Infrastructure errors. Both are safe for the caller to retry.
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
