package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// Provider adapts the JSON-RPC endpoint to the wallet provider boundary.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// RequestAccounts asks the provider for its authorized address set,
// preferring the interactive eth_requestAccounts and falling back to
// eth_accounts for endpoints that do not expose it. A user rejection
// (EIP-1193 code 4001) maps to domain.ErrAuthorizationDenied.
func (p *Provider) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	err := p.client.Call(ctx, "eth_requestAccounts", nil, &accounts)
	if err == nil {
		return accounts, nil
	}

	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		switch rpcErr.Code {
		case codeUserRejected:
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthorizationDenied, rpcErr.Message)
		case codeMethodNotFound:
			return p.Accounts(ctx)
		}
	}
	return nil, fmt.Errorf("request accounts: %w", err)
}

// Accounts returns the authorized address set without prompting.
func (p *Provider) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := p.client.Call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}
	return accounts, nil
}

// ChainID returns the provider-reported chain ID (hex-quantity string).
func (p *Provider) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := p.client.Call(ctx, "eth_chainId", nil, &chainID); err != nil {
		return "", fmt.Errorf("chain id: %w", err)
	}
	return chainID, nil
}
