package domain

import (
	"errors"
	"math/big"
)

// Batch is the ledger-owned record this dashboard creates, transfers,
// completes and fetches. The contract is the source of truth; this type is
// only the decoded view of one `batches(id)` read.
type Batch struct {
	ID           *big.Int `json:"id"`
	ChemicalName string   `json:"chemical_name"`
	Location     string   `json:"location"`
	Owner        string   `json:"owner"`
	Completed    bool     `json:"completed"`
}

var ErrProviderUnavailable = errors.New("wallet provider unavailable")
var ErrAuthorizationDenied = errors.New("account authorization denied")
var ErrBindingUnavailable = errors.New("contract binding not initialized")
var ErrNoActiveAccount = errors.New("no active account")
var ErrOperationInFlight = errors.New("another operation is in flight")
var ErrMissingRequiredField = errors.New("missing required field")
var ErrRemoteCallFailed = errors.New("remote call failed")
var ErrBatchNotFound = errors.New("batch not found")
var ErrNotImplemented = errors.New("not implemented")
var ErrLocationUnavailable = errors.New("location unavailable")
var ErrLocationDenied = errors.New("location access denied")

// Coordinates is a geographic point returned by the location lookup.
// Informational only; never feeds a remote call.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
