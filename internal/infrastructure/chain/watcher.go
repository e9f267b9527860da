package chain

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

const defaultPollInterval = 5 * time.Second

// Watcher emulates the provider's accountsChanged / chainChanged
// subscriptions by polling, and surfaces them as explicit channels. One
// watcher runs per application generation; cancelling its context stops
// the loop and closes both channels.
type Watcher struct {
	provider *Provider
	interval time.Duration
	log      zerolog.Logger

	accounts chan []string
	chain    chan string
}

func NewWatcher(provider *Provider, interval time.Duration, log zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{
		provider: provider,
		interval: interval,
		log:      log,
		accounts: make(chan []string, 1),
		chain:    make(chan string, 1),
	}
}

func (w *Watcher) AccountsChanged() <-chan []string {
	return w.accounts
}

func (w *Watcher) ChainChanged() <-chan string {
	return w.chain
}

// Start launches the polling loop. The first successful poll establishes
// the baseline; only later divergence is emitted.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.accounts)
	defer close(w.chain)

	lastAccounts, _ := w.provider.Accounts(ctx)
	lastChain, _ := w.provider.ChainID(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if chainID, err := w.provider.ChainID(ctx); err == nil && lastChain != "" && chainID != lastChain {
			lastChain = chainID
			if !w.send(ctx, w.chain, chainID) {
				return
			}
			continue
		} else if err == nil && lastChain == "" {
			lastChain = chainID
		}

		if accounts, err := w.provider.Accounts(ctx); err == nil && !slices.Equal(accounts, lastAccounts) {
			lastAccounts = accounts
			if !sendAccounts(ctx, w.accounts, accounts) {
				return
			}
		} else if err != nil {
			w.log.Debug().Err(err).Msg("provider poll failed")
		}
	}
}

func (w *Watcher) send(ctx context.Context, ch chan string, v string) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

func sendAccounts(ctx context.Context, ch chan []string, v []string) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
