package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadySold indicates that the listing was consumed by a prior trade.
// The caller should refresh its view; retrying cannot turn a lost race into a win.
var ErrAlreadySold = errors.New("listing is no longer active")

// ErrSelfTrade indicates that a buyer attempted to buy their own listing.
var ErrSelfTrade = errors.New("buyer cannot trade with themselves")

// ErrInsufficientFunds indicates that the buyer's balance does not cover the listing price.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConflict indicates that the record store aborted a transaction because a
// record in its read set was modified by another committed transaction.
var ErrConflict = errors.New("transaction conflict")

// ErrStoreUnavailable indicates a transport or backend failure in the record store.
var ErrStoreUnavailable = errors.New("record store unavailable")

// ErrTradeContention is surfaced after repeated conflicts exhausted the retry budget.
var ErrTradeContention = errors.New("trade aborted due to contention")

// ErrStoreContract indicates that a record read back from the store does not
// match its expected schema. This is fatal, never retried.
var ErrStoreContract = errors.New("record store contract violation")

// IsRetryable reports whether an error is a transient infrastructure failure
// that a retry loop may absorb. Domain failures are never retryable: their
// underlying condition will not change by re-reading.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrStoreUnavailable)
}
