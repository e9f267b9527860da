package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// BatchService implements the four operation panels against the wallet
// session's contract binding. State-changing dispatches share a single
// one-at-a-time gate: while one is in flight, every other dispatch is
// rejected before reaching the provider. The gate is advisory
// serialization, not a lock around the provider itself.
type BatchService struct {
	wallet      ports.WalletService
	cache       ports.BatchCache // optional, nil disables caching
	transferGas ports.GasPolicy
	log         zerolog.Logger

	inFlight atomic.Bool
}

func NewBatchService(wallet ports.WalletService, cache ports.BatchCache, transferGas ports.GasPolicy, log zerolog.Logger) *BatchService {
	s := &BatchService{
		wallet:      wallet,
		cache:       cache,
		transferGas: transferGas,
		log:         log,
	}
	if transferGas.Pinned() {
		// Carried over from the original dashboard: only transfer pins
		// its cost parameters; create and complete delegate to provider
		// defaults. Adjust TRANSFER_GAS_* to change the policy.
		s.log.Warn().
			Uint64("gas_limit", transferGas.Limit).
			Str("gas_price_wei", transferGas.PriceWei.String()).
			Msg("transfer pins gas parameters while create/complete use provider defaults")
	}
	return s
}

// InFlight reports whether a state-changing dispatch is pending.
func (s *BatchService) InFlight() bool {
	return s.inFlight.Load()
}

// acquire takes the shared gate. A second dispatch attempted while one is
// pending is rejected, never queued.
func (s *BatchService) acquire() (release func(), err error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrOperationInFlight
	}
	return func() { s.inFlight.Store(false) }, nil
}

func (s *BatchService) Create(ctx context.Context, input ports.CreateBatchInput) (*ports.DispatchResult, error) {
	if strings.TrimSpace(input.ChemicalName) == "" || strings.TrimSpace(input.LocationName) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	binding, sender, err := s.dispatchContext()
	if err != nil {
		return nil, err
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	txHash, err := binding.CreateBatch(ctx, sender, input.ChemicalName, input.LocationName)
	if err != nil {
		s.log.Error().Err(err).Str("chemical_name", input.ChemicalName).Msg("create batch dispatch failed")
		return nil, fmt.Errorf("%w: create batch", domain.ErrRemoteCallFailed)
	}

	s.log.Info().Str("tx_hash", txHash).Str("sender", sender).Msg("batch created")
	return &ports.DispatchResult{TxHash: txHash}, nil
}

func (s *BatchService) Transfer(ctx context.Context, input ports.TransferBatchInput) (*ports.DispatchResult, error) {
	if input.ID == nil || strings.TrimSpace(input.NewOwner) == "" || strings.TrimSpace(input.NewLocation) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	binding, sender, err := s.dispatchContext()
	if err != nil {
		return nil, err
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	txHash, err := binding.TransferBatch(ctx, sender, input.ID, input.NewOwner, input.NewLocation, s.transferGas)
	if err != nil {
		s.log.Error().Err(err).Str("batch_id", input.ID.String()).Msg("transfer batch dispatch failed")
		return nil, fmt.Errorf("%w: transfer batch", domain.ErrRemoteCallFailed)
	}

	s.log.Info().Str("tx_hash", txHash).Str("batch_id", input.ID.String()).Str("new_owner", input.NewOwner).Msg("batch transferred")
	return &ports.DispatchResult{TxHash: txHash}, nil
}

func (s *BatchService) Complete(ctx context.Context, id *big.Int) (*ports.DispatchResult, error) {
	if id == nil {
		return nil, domain.ErrMissingRequiredField
	}

	binding, sender, err := s.dispatchContext()
	if err != nil {
		return nil, err
	}

	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	txHash, err := binding.CompleteBatch(ctx, sender, id)
	if err != nil {
		s.log.Error().Err(err).Str("batch_id", id.String()).Msg("complete batch dispatch failed")
		return nil, fmt.Errorf("%w: complete batch", domain.ErrRemoteCallFailed)
	}

	s.log.Info().Str("tx_hash", txHash).Str("batch_id", id.String()).Msg("batch completed")
	return &ports.DispatchResult{TxHash: txHash}, nil
}

// Get performs the read-only fetch. It respects the shared gate (the
// fetch action is disabled while a dispatch is pending) but does not hold
// it: reads never block the dispatch path.
func (s *BatchService) Get(ctx context.Context, id *big.Int) (*domain.Batch, error) {
	if id == nil {
		return nil, domain.ErrMissingRequiredField
	}
	if s.inFlight.Load() {
		return nil, domain.ErrOperationInFlight
	}

	binding, err := s.wallet.Binding()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil && cached != nil {
			s.log.Debug().Str("batch_id", id.String()).Msg("batch served from cache")
			return cached, nil
		}
	}

	batch, err := binding.GetBatch(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			return nil, err
		}
		s.log.Error().Err(err).Str("batch_id", id.String()).Msg("fetch batch failed")
		return nil, fmt.Errorf("%w: fetch batch", domain.ErrRemoteCallFailed)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, batch); err != nil {
			s.log.Debug().Err(err).Str("batch_id", id.String()).Msg("batch cache write skipped")
		}
	}

	return batch, nil
}

// dispatchContext resolves the binding and sender every state-changing
// call needs, rejecting before dispatch when either is missing.
func (s *BatchService) dispatchContext() (ports.ContractBinding, string, error) {
	binding, err := s.wallet.Binding()
	if err != nil {
		return nil, "", err
	}
	sender, err := s.wallet.Sender()
	if err != nil {
		return nil, "", err
	}
	return binding, sender, nil
}
