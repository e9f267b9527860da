package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub provider / events
// ---------------------------------------------------------------------------

type stubProvider struct {
	accounts     []string
	requestErr   error
	chainID      string
	requestCalls int
}

func (p *stubProvider) RequestAccounts(context.Context) ([]string, error) {
	p.requestCalls++
	if p.requestErr != nil {
		return nil, p.requestErr
	}
	return p.accounts, nil
}

func (p *stubProvider) Accounts(context.Context) ([]string, error) {
	return p.accounts, nil
}

func (p *stubProvider) ChainID(context.Context) (string, error) {
	return p.chainID, nil
}

type stubEvents struct {
	accounts chan []string
	chain    chan string
}

func newStubEvents() *stubEvents {
	return &stubEvents{
		accounts: make(chan []string, 1),
		chain:    make(chan string, 1),
	}
}

func (e *stubEvents) AccountsChanged() <-chan []string { return e.accounts }
func (e *stubEvents) ChainChanged() <-chan string      { return e.chain }

type chanReloader struct {
	ch chan string
}

func newChanReloader() *chanReloader {
	return &chanReloader{ch: make(chan string, 1)}
}

func (r *chanReloader) RequestReload(reason string) {
	select {
	case r.ch <- reason:
	default:
	}
}

const testContract = "0xCFc9917aeFa082CcA081C37bF08eba0131eEF9a9"

func recordingFactory(created *[]string) BindingFactory {
	return func(contractAddress string) ports.ContractBinding {
		*created = append(*created, contractAddress)
		return &stubBinding{}
	}
}

// ---------------------------------------------------------------------------
// Initialize
// ---------------------------------------------------------------------------

func TestWalletService_Initialize_Success(t *testing.T) {
	provider := &stubProvider{accounts: []string{"0xaaa", "0xbbb"}}
	var created []string
	svc := NewWalletService(provider, nil, recordingFactory(&created), newChanReloader(), testContract, discardLogger)

	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(created) != 1 || created[0] != testContract {
		t.Errorf("binding must be constructed once against the fixed address, got %v", created)
	}

	sender, err := svc.Sender()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender != "0xaaa" {
		t.Errorf("sender must be the first active address, got %q", sender)
	}
	if _, err := svc.Binding(); err != nil {
		t.Errorf("binding must be available after bootstrap: %v", err)
	}
}

func TestWalletService_Initialize_RunsOnce(t *testing.T) {
	provider := &stubProvider{accounts: []string{"0xaaa"}}
	var created []string
	svc := NewWalletService(provider, nil, recordingFactory(&created), newChanReloader(), testContract, discardLogger)

	_ = svc.Initialize(context.Background())
	_ = svc.Initialize(context.Background())

	if provider.requestCalls != 1 {
		t.Errorf("expected a single account request, got %d", provider.requestCalls)
	}
	if len(created) != 1 {
		t.Errorf("expected a single binding, got %d", len(created))
	}
}

func TestWalletService_Initialize_NoProvider(t *testing.T) {
	svc := NewWalletService(nil, nil, nil, newChanReloader(), testContract, discardLogger)

	if err := svc.Initialize(context.Background()); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
	if _, err := svc.Binding(); !errors.Is(err, domain.ErrBindingUnavailable) {
		t.Errorf("expected ErrBindingUnavailable, got %v", err)
	}
	if _, err := svc.Sender(); !errors.Is(err, domain.ErrNoActiveAccount) {
		t.Errorf("expected ErrNoActiveAccount, got %v", err)
	}
}

func TestWalletService_Initialize_AuthorizationDenied(t *testing.T) {
	provider := &stubProvider{requestErr: fmt.Errorf("%w: user rejected", domain.ErrAuthorizationDenied)}
	var created []string
	svc := NewWalletService(provider, nil, recordingFactory(&created), newChanReloader(), testContract, discardLogger)

	if err := svc.Initialize(context.Background()); !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Errorf("expected ErrAuthorizationDenied, got %v", err)
	}
	if len(created) != 0 {
		t.Error("denied bootstrap must not construct a binding")
	}
	if _, err := svc.Binding(); !errors.Is(err, domain.ErrBindingUnavailable) {
		t.Errorf("every remote call must fail after denial, got %v", err)
	}
}

func TestWalletService_Initialize_ProviderUnreachable(t *testing.T) {
	provider := &stubProvider{requestErr: errors.New("connection refused")}
	svc := NewWalletService(provider, nil, nil, newChanReloader(), testContract, discardLogger)

	if err := svc.Initialize(context.Background()); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Provider subscriptions
// ---------------------------------------------------------------------------

func TestWalletService_AccountsChanged_ReplacesAddressSet(t *testing.T) {
	provider := &stubProvider{accounts: []string{"0xaaa"}}
	events := newStubEvents()
	var created []string
	svc := NewWalletService(provider, events, recordingFactory(&created), newChanReloader(), testContract, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Initialize(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events.accounts <- []string{"0xccc", "0xddd"}

	deadline := time.Now().Add(2 * time.Second)
	for {
		sender, err := svc.Sender()
		if err == nil && sender == "0xccc" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("address set was never replaced, sender=%q err=%v", sender, err)
		}
		time.Sleep(time.Millisecond)
	}

	// The binding survives an address change.
	if len(created) != 1 {
		t.Errorf("address change must not rebuild the binding, got %d", len(created))
	}
}

func TestWalletService_AccountsChanged_EmptySet(t *testing.T) {
	provider := &stubProvider{accounts: []string{"0xaaa"}}
	events := newStubEvents()
	var created []string
	svc := NewWalletService(provider, events, recordingFactory(&created), newChanReloader(), testContract, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = svc.Initialize(ctx)

	events.accounts <- []string{}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := svc.Sender(); errors.Is(err, domain.ErrNoActiveAccount) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("empty address set must make Sender fail")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWalletService_ChainChanged_RequestsReload(t *testing.T) {
	provider := &stubProvider{accounts: []string{"0xaaa"}}
	events := newStubEvents()
	reloader := newChanReloader()
	var created []string
	svc := NewWalletService(provider, events, recordingFactory(&created), reloader, testContract, discardLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = svc.Initialize(ctx)

	events.chain <- "0x5"

	select {
	case reason := <-reloader.ch:
		if reason != "chain-changed" {
			t.Errorf("expected reload reason %q, got %q", "chain-changed", reason)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("chain change must request a reload")
	}
}
