package ports

import (
	"context"
	"math/big"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// CreateBatchInput carries the create panel's fields.
type CreateBatchInput struct {
	ChemicalName string
	LocationName string
}

// TransferBatchInput carries the transfer panel's fields.
type TransferBatchInput struct {
	ID          *big.Int
	NewOwner    string
	NewLocation string
}

// DispatchResult reports a successfully dispatched state-changing call.
type DispatchResult struct {
	TxHash string
}

// BatchService implements the four operation panels. Every operation is
// validate → dispatch → await → update state; state-changing dispatches
// are serialized by a shared one-at-a-time gate.
type BatchService interface {
	Create(ctx context.Context, input CreateBatchInput) (*DispatchResult, error)
	Transfer(ctx context.Context, input TransferBatchInput) (*DispatchResult, error)
	Complete(ctx context.Context, id *big.Int) (*DispatchResult, error)
	Get(ctx context.Context, id *big.Int) (*domain.Batch, error)
	// InFlight reports whether the gate is currently held.
	InFlight() bool
}

// BatchCache is an optional short-TTL read cache in front of GetBatch.
// The contract stays authoritative; a miss or error is never fatal.
type BatchCache interface {
	Get(ctx context.Context, id *big.Int) (*domain.Batch, error)
	Set(ctx context.Context, batch *domain.Batch) error
}

// GeoLocator resolves the caller's current position. Informational only.
type GeoLocator interface {
	Current(ctx context.Context) (*domain.Coordinates, error)
}
