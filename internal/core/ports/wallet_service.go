package ports

import (
	"context"
	"math/big"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// Provider is the wallet-capable RPC endpoint boundary. Consumed, never
// implemented, by the core.
type Provider interface {
	// RequestAccounts asks the provider for the authorized address set.
	// May prompt interactively on the provider side; denial surfaces as
	// domain.ErrAuthorizationDenied.
	RequestAccounts(ctx context.Context) ([]string, error)
	// Accounts returns the currently authorized address set without
	// prompting.
	Accounts(ctx context.Context) ([]string, error)
	// ChainID identifies the active network.
	ChainID(ctx context.Context) (string, error)
}

// ProviderEvents exposes the provider's standing change notifications as
// explicit channels. Both may fire at any time, including mid-operation.
type ProviderEvents interface {
	// AccountsChanged emits the replacement address set.
	AccountsChanged() <-chan []string
	// ChainChanged emits the new chain ID. The subscriber is expected to
	// reload the whole application; contract addresses are not portable
	// across networks.
	ChainChanged() <-chan string
}

// GasPolicy pins execution cost parameters for a state-changing call.
// The zero value delegates both to provider defaults.
type GasPolicy struct {
	Limit    uint64
	PriceWei *big.Int
}

// Pinned reports whether the policy overrides provider defaults.
func (g GasPolicy) Pinned() bool {
	return g.Limit != 0 || g.PriceWei != nil
}

// ContractBinding is the opaque handle to the ChemicalTracker contract.
// Constructed once per wallet session against a fixed address; the wire
// format behind it is not this core's concern.
type ContractBinding interface {
	CreateBatch(ctx context.Context, sender, chemicalName, locationName string) (txHash string, err error)
	TransferBatch(ctx context.Context, sender string, id *big.Int, newOwner, newLocation string, gas GasPolicy) (txHash string, err error)
	CompleteBatch(ctx context.Context, sender string, id *big.Int) (txHash string, err error)
	GetBatch(ctx context.Context, id *big.Int) (*domain.Batch, error)
}

// WalletService owns the wallet session: the active address set and the
// single contract binding. Initialize runs once per application
// generation.
type WalletService interface {
	Initialize(ctx context.Context) error
	// Sender returns activeAddresses[0], or domain.ErrNoActiveAccount
	// when the set is empty.
	Sender() (string, error)
	// Binding returns the contract binding, or
	// domain.ErrBindingUnavailable when bootstrap never completed.
	Binding() (ContractBinding, error)
}
