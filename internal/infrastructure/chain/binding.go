package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// Method signatures of the ChemicalTracker contract. The contract itself
// is external; these mirror its public interface.
const (
	sigCreateBatch   = "createBatch(string,string)"
	sigTransferBatch = "transferBatch(uint256,address,string)"
	sigCompleteBatch = "completeBatch(uint256)"
	sigBatches       = "batches(uint256)"
)

// Binding is the single client-side handle to the ChemicalTracker
// contract at a fixed address. State-changing methods go through
// eth_sendTransaction (the provider signs with the given sender); the
// read goes through eth_call.
type Binding struct {
	client  *Client
	address string
}

func NewBinding(client *Client, contractAddress string) *Binding {
	return &Binding{client: client, address: contractAddress}
}

type txParams struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Data     string `json:"data"`
	Gas      string `json:"gas,omitempty"`
	GasPrice string `json:"gasPrice,omitempty"`
}

func (b *Binding) CreateBatch(ctx context.Context, sender, chemicalName, locationName string) (string, error) {
	data := encodeCall(sigCreateBatch, packString(chemicalName), packString(locationName))
	return b.sendTransaction(ctx, sender, data, ports.GasPolicy{})
}

func (b *Binding) TransferBatch(ctx context.Context, sender string, id *big.Int, newOwner, newLocation string, gas ports.GasPolicy) (string, error) {
	idArg, err := packUint(id)
	if err != nil {
		return "", fmt.Errorf("transfer batch: %w", err)
	}
	ownerArg, err := packAddress(newOwner)
	if err != nil {
		return "", fmt.Errorf("transfer batch: %w", err)
	}
	data := encodeCall(sigTransferBatch, idArg, ownerArg, packString(newLocation))
	return b.sendTransaction(ctx, sender, data, gas)
}

func (b *Binding) CompleteBatch(ctx context.Context, sender string, id *big.Int) (string, error) {
	idArg, err := packUint(id)
	if err != nil {
		return "", fmt.Errorf("complete batch: %w", err)
	}
	data := encodeCall(sigCompleteBatch, idArg)
	return b.sendTransaction(ctx, sender, data, ports.GasPolicy{})
}

// GetBatch reads the public batches mapping. An all-zero record means the
// ID was never created; that is reported as domain.ErrBatchNotFound.
func (b *Binding) GetBatch(ctx context.Context, id *big.Int) (*domain.Batch, error) {
	idArg, err := packUint(id)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	var result string
	call := map[string]string{
		"to":   b.address,
		"data": "0x" + fmt.Sprintf("%x", encodeCall(sigBatches, idArg)),
	}
	if err := b.client.Call(ctx, "eth_call", []any{call, "latest"}, &result); err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}

	payload, err := decodeHex(result)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	if len(payload) == 0 {
		return nil, domain.ErrBatchNotFound
	}

	batch, err := decodeBatch(payload)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	if batch.ChemicalName == "" && batch.Owner == "0x0000000000000000000000000000000000000000" {
		return nil, domain.ErrBatchNotFound
	}
	return batch, nil
}

// decodeBatch unpacks the batches(uint256) return tuple:
// (uint256 id, string chemicalName, string location, address owner, bool completed).
func decodeBatch(payload []byte) (*domain.Batch, error) {
	id, err := decodeUint(payload, 0)
	if err != nil {
		return nil, err
	}
	chemicalName, err := decodeString(payload, 1)
	if err != nil {
		return nil, err
	}
	location, err := decodeString(payload, 2)
	if err != nil {
		return nil, err
	}
	owner, err := decodeAddress(payload, 3)
	if err != nil {
		return nil, err
	}
	completed, err := decodeBool(payload, 4)
	if err != nil {
		return nil, err
	}

	return &domain.Batch{
		ID:           id,
		ChemicalName: chemicalName,
		Location:     location,
		Owner:        owner,
		Completed:    completed,
	}, nil
}

func (b *Binding) sendTransaction(ctx context.Context, sender string, data []byte, gas ports.GasPolicy) (string, error) {
	params := txParams{
		From: sender,
		To:   b.address,
		Data: "0x" + fmt.Sprintf("%x", data),
	}
	if gas.Limit != 0 {
		params.Gas = fmt.Sprintf("0x%x", gas.Limit)
	}
	if gas.PriceWei != nil {
		params.GasPrice = fmt.Sprintf("0x%x", gas.PriceWei)
	}

	var txHash string
	if err := b.client.Call(ctx, "eth_sendTransaction", []any{params}, &txHash); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return txHash, nil
}
