package chain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

// rpcServer runs a JSON-RPC 2.0 endpoint whose per-method behaviour the
// test controls. It also records the methods called, in order.
func rpcServer(t *testing.T, respond func(method string, params []json.RawMessage) (any, *RPCError)) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad rpc request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		calls = append(calls, req.Method)

		result, rpcErr := respond(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestProvider_RequestAccounts_Success(t *testing.T) {
	srv, _ := rpcServer(t, func(method string, _ []json.RawMessage) (any, *RPCError) {
		if method != "eth_requestAccounts" {
			t.Errorf("unexpected method %q", method)
		}
		return []string{"0xaaa", "0xbbb"}, nil
	})
	p := NewProvider(NewClient(srv.URL, 0))

	accounts, err := p.RequestAccounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 || accounts[0] != "0xaaa" {
		t.Errorf("unexpected accounts: %v", accounts)
	}
}

func TestProvider_RequestAccounts_UserRejected(t *testing.T) {
	srv, _ := rpcServer(t, func(string, []json.RawMessage) (any, *RPCError) {
		return nil, &RPCError{Code: 4001, Message: "User rejected the request."}
	})
	p := NewProvider(NewClient(srv.URL, 0))

	_, err := p.RequestAccounts(context.Background())
	if !errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Errorf("code 4001 must map to ErrAuthorizationDenied, got %v", err)
	}
}

func TestProvider_RequestAccounts_FallsBackToAccounts(t *testing.T) {
	srv, calls := rpcServer(t, func(method string, _ []json.RawMessage) (any, *RPCError) {
		if method == "eth_requestAccounts" {
			return nil, &RPCError{Code: -32601, Message: "the method eth_requestAccounts does not exist"}
		}
		return []string{"0xccc"}, nil
	})
	p := NewProvider(NewClient(srv.URL, 0))

	accounts, err := p.RequestAccounts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "0xccc" {
		t.Errorf("unexpected accounts: %v", accounts)
	}

	want := []string{"eth_requestAccounts", "eth_accounts"}
	if len(*calls) != 2 || (*calls)[0] != want[0] || (*calls)[1] != want[1] {
		t.Errorf("expected call order %v, got %v", want, *calls)
	}
}

func TestProvider_RequestAccounts_OtherRPCError(t *testing.T) {
	srv, _ := rpcServer(t, func(string, []json.RawMessage) (any, *RPCError) {
		return nil, &RPCError{Code: -32000, Message: "busy"}
	})
	p := NewProvider(NewClient(srv.URL, 0))

	_, err := p.RequestAccounts(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrAuthorizationDenied) {
		t.Error("arbitrary errors must not be reported as denial")
	}
}

func TestProvider_ChainID(t *testing.T) {
	srv, _ := rpcServer(t, func(method string, _ []json.RawMessage) (any, *RPCError) {
		if method != "eth_chainId" {
			t.Errorf("unexpected method %q", method)
		}
		return "0x1", nil
	})
	p := NewProvider(NewClient(srv.URL, 0))

	chainID, err := p.ChainID(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chainID != "0x1" {
		t.Errorf("expected chain id 0x1, got %q", chainID)
	}
}

func TestProvider_Unreachable(t *testing.T) {
	srv, _ := rpcServer(t, func(string, []json.RawMessage) (any, *RPCError) { return nil, nil })
	srv.Close()
	p := NewProvider(NewClient(srv.URL, 0))

	if _, err := p.Accounts(context.Background()); err == nil {
		t.Error("expected transport error against a closed endpoint")
	}
}
