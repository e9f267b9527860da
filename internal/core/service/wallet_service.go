package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// BindingFactory constructs the contract binding for the fixed contract
// address. Called at most once per wallet session.
type BindingFactory func(contractAddress string) ports.ContractBinding

// WalletService owns the wallet session: the active address set, the
// single contract binding, and the two standing provider subscriptions.
type WalletService struct {
	provider     ports.Provider
	events       ports.ProviderEvents
	newBinding   BindingFactory
	reloader     ports.ReloadRequester
	contractAddr string
	log          zerolog.Logger

	mu          sync.Mutex
	initialized bool
	accounts    []string
	binding     ports.ContractBinding
}

func NewWalletService(
	provider ports.Provider,
	events ports.ProviderEvents,
	newBinding BindingFactory,
	reloader ports.ReloadRequester,
	contractAddr string,
	log zerolog.Logger,
) *WalletService {
	return &WalletService{
		provider:     provider,
		events:       events,
		newBinding:   newBinding,
		reloader:     reloader,
		contractAddr: contractAddr,
		log:          log,
	}
}

// Initialize bootstraps the wallet session. Runs exactly once per
// application generation; later calls are no-ops. The returned error is
// informational for the caller's log — the application stays up either
// way, with every remote call failing until the next reload.
func (w *WalletService) Initialize(ctx context.Context) error {
	w.mu.Lock()
	if w.initialized {
		w.mu.Unlock()
		return nil
	}
	w.initialized = true
	w.mu.Unlock()

	if w.provider == nil {
		w.log.Error().Msg("no wallet provider configured; install or configure an RPC provider (CHAIN_RPC_URL)")
		return domain.ErrProviderUnavailable
	}

	accounts, err := w.provider.RequestAccounts(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthorizationDenied) {
			w.log.Warn().Err(err).Msg("account authorization denied; remote calls will fail")
			return domain.ErrAuthorizationDenied
		}
		w.log.Error().Err(err).Msg("wallet provider unreachable")
		return domain.ErrProviderUnavailable
	}

	binding := w.newBinding(w.contractAddr)

	w.mu.Lock()
	w.accounts = accounts
	w.binding = binding
	w.mu.Unlock()

	w.log.Info().
		Str("contract", w.contractAddr).
		Int("accounts", len(accounts)).
		Msg("wallet session initialized")

	if w.events != nil {
		go w.watch(ctx)
	}
	return nil
}

// watch consumes the provider's change notifications. An address-set
// change replaces activeAddresses in place; a chain change always wins
// over any in-flight operation and forces a full reload.
func (w *WalletService) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case accounts, ok := <-w.events.AccountsChanged():
			if !ok {
				return
			}
			w.mu.Lock()
			w.accounts = accounts
			w.mu.Unlock()
			w.log.Info().Int("accounts", len(accounts)).Msg("active address set replaced")
		case chainID, ok := <-w.events.ChainChanged():
			if !ok {
				return
			}
			w.log.Warn().Str("chain_id", chainID).Msg("network changed, requesting reload")
			w.reloader.RequestReload("chain-changed")
			return
		}
	}
}

// Sender returns the first active address, the one that authorizes every
// state-changing call.
func (w *WalletService) Sender() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.accounts) == 0 {
		return "", domain.ErrNoActiveAccount
	}
	return w.accounts[0], nil
}

func (w *WalletService) Binding() (ports.ContractBinding, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.binding == nil {
		return nil, domain.ErrBindingUnavailable
	}
	return w.binding, nil
}
