package handler

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"testing"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

type stubBatchService struct {
	createFn   func(ctx context.Context, input ports.CreateBatchInput) (*ports.DispatchResult, error)
	transferFn func(ctx context.Context, input ports.TransferBatchInput) (*ports.DispatchResult, error)
	completeFn func(ctx context.Context, id *big.Int) (*ports.DispatchResult, error)
	getFn      func(ctx context.Context, id *big.Int) (*domain.Batch, error)
}

func (s *stubBatchService) Create(ctx context.Context, input ports.CreateBatchInput) (*ports.DispatchResult, error) {
	return s.createFn(ctx, input)
}

func (s *stubBatchService) Transfer(ctx context.Context, input ports.TransferBatchInput) (*ports.DispatchResult, error) {
	return s.transferFn(ctx, input)
}

func (s *stubBatchService) Complete(ctx context.Context, id *big.Int) (*ports.DispatchResult, error) {
	return s.completeFn(ctx, id)
}

func (s *stubBatchService) Get(ctx context.Context, id *big.Int) (*domain.Batch, error) {
	return s.getFn(ctx, id)
}

func (s *stubBatchService) InFlight() bool { return false }

func TestBatchHandler_Create_Success(t *testing.T) {
	stub := &stubBatchService{
		createFn: func(_ context.Context, input ports.CreateBatchInput) (*ports.DispatchResult, error) {
			if input.ChemicalName != "H2O2" || input.LocationName != "Plant A" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.DispatchResult{TxHash: "0xabc"}, nil
		},
	}
	h := NewBatchHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/batches", `{"chemical_name":"H2O2","location_name":"Plant A"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["tx_hash"] != "0xabc" {
		t.Errorf("expected tx hash, got %v", resp["tx_hash"])
	}
}

func TestBatchHandler_Create_MissingField(t *testing.T) {
	stub := &stubBatchService{
		createFn: func(context.Context, ports.CreateBatchInput) (*ports.DispatchResult, error) {
			t.Fatal("service must not be called on validation failure")
			return nil, nil
		},
	}
	h := NewBatchHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/v1/batches", `{"chemical_name":"H2O2"}`)
	if code := httpErrorCode(t, h.Create(c)); code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", code)
	}
}

func TestBatchHandler_Create_InFlightPassesThrough(t *testing.T) {
	stub := &stubBatchService{
		createFn: func(context.Context, ports.CreateBatchInput) (*ports.DispatchResult, error) {
			return nil, domain.ErrOperationInFlight
		},
	}
	h := NewBatchHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/v1/batches", `{"chemical_name":"H2O2","location_name":"Plant A"}`)
	if err := h.Create(c); !errors.Is(err, domain.ErrOperationInFlight) {
		t.Errorf("expected ErrOperationInFlight, got %v", err)
	}
}

func TestBatchHandler_Transfer_Success(t *testing.T) {
	stub := &stubBatchService{
		transferFn: func(_ context.Context, input ports.TransferBatchInput) (*ports.DispatchResult, error) {
			if input.ID.Int64() != 7 {
				t.Fatalf("expected id 7, got %v", input.ID)
			}
			if input.NewOwner != "0xowner" || input.NewLocation != "Warehouse B" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.DispatchResult{TxHash: "0xdef"}, nil
		},
	}
	h := NewBatchHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/batches/7/transfer", `{"new_owner":"0xowner","new_location":"Warehouse B"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")

	if err := h.Transfer(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestBatchHandler_Transfer_InvalidID(t *testing.T) {
	stub := &stubBatchService{
		transferFn: func(context.Context, ports.TransferBatchInput) (*ports.DispatchResult, error) {
			t.Fatal("service must not be called with a bad id")
			return nil, nil
		},
	}
	h := NewBatchHandler(stub)

	for _, raw := range []string{"abc", "-1", "1.5", ""} {
		c, _ := newTestContext(t, http.MethodPost, "/v1/batches/"+raw+"/transfer", `{"new_owner":"a","new_location":"b"}`)
		c.SetParamNames("id")
		c.SetParamValues(raw)

		if code := httpErrorCode(t, h.Transfer(c)); code != http.StatusBadRequest {
			t.Errorf("id %q: expected 400, got %d", raw, code)
		}
	}
}

func TestBatchHandler_Complete_Success(t *testing.T) {
	stub := &stubBatchService{
		completeFn: func(_ context.Context, id *big.Int) (*ports.DispatchResult, error) {
			if id.Int64() != 3 {
				t.Fatalf("expected id 3, got %v", id)
			}
			return &ports.DispatchResult{TxHash: "0x123"}, nil
		},
	}
	h := NewBatchHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/v1/batches/3/complete", "")
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := h.Complete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestBatchHandler_Get_Success(t *testing.T) {
	// An ID beyond int64 still roundtrips as a decimal string.
	bigID, _ := new(big.Int).SetString("36893488147419103232", 10)
	stub := &stubBatchService{
		getFn: func(_ context.Context, id *big.Int) (*domain.Batch, error) {
			if id.Cmp(bigID) != 0 {
				t.Fatalf("unexpected id %v", id)
			}
			return &domain.Batch{
				ID:           id,
				ChemicalName: "H2O2",
				Location:     "Plant A",
				Owner:        "0xowner",
				Completed:    true,
			}, nil
		},
	}
	h := NewBatchHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/batches/36893488147419103232", "")
	c.SetParamNames("id")
	c.SetParamValues("36893488147419103232")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "36893488147419103232" {
		t.Errorf("id must render as a decimal string, got %v", resp["id"])
	}
	if resp["completed"] != true {
		t.Errorf("completed flag lost: %v", resp["completed"])
	}
}

func TestBatchHandler_Get_NotFound(t *testing.T) {
	stub := &stubBatchService{
		getFn: func(context.Context, *big.Int) (*domain.Batch, error) {
			return nil, domain.ErrBatchNotFound
		},
	}
	h := NewBatchHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/v1/batches/404", "")
	c.SetParamNames("id")
	c.SetParamValues("404")

	if err := h.Get(c); !errors.Is(err, domain.ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}
}
