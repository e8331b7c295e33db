package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the authenticated user does not own the resource.
var ErrForbidden = errors.New("access to resource denied")

// ErrProviderUnavailable indicates the external rate-quote API could not be
// reached, timed out, or returned an unusable response.
var ErrProviderUnavailable = errors.New("exchange rate provider unavailable")

// ErrRateUnavailable indicates that no cached or fetchable exchange rate exists
// for a currency pair. Conversions never fall back to a stale or zero rate.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrInsufficientFunds indicates that a posting would drive an account below
// zero when its type does not allow a negative balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrDuplicateRate indicates the rate store rejected an insert because a quote
// already exists for the same (from, to, date, provider) key. Non-fatal for
// refresh batches.
var ErrDuplicateRate = errors.New("exchange rate already recorded for this pair and date")
