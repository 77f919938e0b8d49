package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/plagtech/spraay/internal/domain"
	"github.com/plagtech/spraay/internal/ports"
	"github.com/plagtech/spraay/internal/recipients"
)

// ExecuteOptions control one transfer run. The mode and wait semantics are
// fixed for every chunk of the run.
type ExecuteOptions struct {
	// KeepAlive selects the existential-deposit-protecting transfer
	// primitive instead of the one that allows zeroing the sender.
	KeepAlive bool

	Mode domain.BatchMode

	WaitForInclusion    bool
	WaitForFinalization bool
}

// DefaultExecuteOptions returns the safe defaults: atomic mode, keep-alive
// transfers, wait for inclusion but not finalization.
func DefaultExecuteOptions() ExecuteOptions {
	return ExecuteOptions{
		KeepAlive:        true,
		Mode:             domain.BatchAll,
		WaitForInclusion: true,
	}
}

// Executor runs fee estimation and batch submission against a chain client.
// Chunks are always submitted strictly sequentially: the pre-flight balance
// check covers the sum of all chunks and must not be invalidated by
// interleaved submissions.
type Executor struct {
	client ports.ChainClient
	policy Policy
	log    zerolog.Logger
}

// NewExecutor creates an executor bound to a chain client and policy.
func NewExecutor(client ports.ChainClient, policy Policy, logger zerolog.Logger) *Executor {
	return &Executor{client: client, policy: policy, log: logger}
}

// Estimate projects the cost of transferring to rs from wallet without
// submitting anything. The network fee is estimated once on a sample unit
// built from the first chunk and multiplied by the chunk count; chunks are
// assumed fee-equivalent. A chain client estimation failure aborts the whole
// estimate; no partial result is returned.
func (e *Executor) Estimate(ctx context.Context, wallet domain.Wallet, rs []domain.Recipient) (domain.FeeEstimate, error) {
	if len(rs) == 0 {
		return domain.FeeEstimate{}, domain.ErrNoRecipients
	}

	totalAmount := domain.TotalAmount(rs)
	chunks := e.policy.Chunks(rs)
	serviceFee := e.policy.TotalServiceFee(chunks)

	sample, _, err := e.buildUnit(ctx, chunks[0], domain.BatchAll, true)
	if err != nil {
		return domain.FeeEstimate{}, fmt.Errorf("build sample unit: %w", err)
	}

	feePerChunk, err := e.client.EstimateFee(ctx, sample, wallet.Address)
	if err != nil {
		return domain.FeeEstimate{}, fmt.Errorf("estimate fee: %w", err)
	}
	networkFee := feePerChunk.MulInt(len(chunks))

	balance, err := e.client.Balance(ctx, wallet.Address)
	if err != nil {
		return domain.FeeEstimate{}, fmt.Errorf("fetch balance: %w", err)
	}

	totalCost := totalAmount.Add(networkFee).Add(serviceFee)

	e.log.Debug().
		Int("chunks", len(chunks)).
		Str("network_fee", networkFee.String()).
		Str("service_fee", serviceFee.String()).
		Str("total_cost", totalCost.String()).
		Msg("fee estimate")

	return domain.FeeEstimate{
		NetworkFee:        networkFee,
		ServiceFee:        serviceFee,
		FeePercent:        e.policy.FeePercent,
		TotalAmount:       totalAmount,
		TotalCost:         totalCost,
		RecipientCount:    len(rs),
		ChunkCount:        len(chunks),
		BalanceSufficient: balance.Cmp(totalCost) >= 0,
		CurrentBalance:    balance,
	}, nil
}

// Execute submits rs as a sequence of batch chunks and returns one
// BatchResult per attempted chunk.
//
// Pre-flight checks are all-or-nothing: a validation failure or an
// insufficient balance returns a single synthetic failed result before any
// chunk is submitted. Once submission starts, each chunk's outcome is
// independent; a chain client failure on one chunk is recorded in that
// chunk's result and does not abort the remaining chunks.
func (e *Executor) Execute(ctx context.Context, wallet domain.Wallet, rs []domain.Recipient, opts ExecuteOptions) ([]domain.BatchResult, error) {
	if len(rs) == 0 {
		return nil, domain.ErrNoRecipients
	}

	// Defensive re-validation; callers must not be able to bypass it.
	if ok, errs := recipients.Validate(rs, e.policy.MinTransfer); !ok {
		return []domain.BatchResult{{
			Success: false,
			Message: fmt.Sprintf("validation failed with %d errors:\n%s",
				len(errs), strings.Join(errs, "\n")),
			RecipientCount: len(rs),
		}}, nil
	}

	totalAmount := domain.TotalAmount(rs)
	chunks := e.policy.Chunks(rs)
	serviceFee := e.policy.TotalServiceFee(chunks)

	balance, err := e.client.Balance(ctx, wallet.Address)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	required := totalAmount.Add(serviceFee)
	if balance.Cmp(required) < 0 {
		return []domain.BatchResult{{
			Success: false,
			Message: fmt.Sprintf(
				"insufficient balance: %s TAO available, but %s TAO needed (%s transfers + %s service fee)",
				balance.Format(4), required.Format(4), totalAmount.Format(4), serviceFee.Format(6)),
			TotalAmount:    totalAmount,
			ServiceFee:     serviceFee,
			RecipientCount: len(rs),
		}}, nil
	}

	results := make([]domain.BatchResult, 0, len(chunks))
	for i, chunk := range chunks {
		results = append(results, e.submitChunk(ctx, wallet, chunk, i, len(chunks), opts))
	}
	return results, nil
}

// submitChunk builds and submits one chunk's unit. Every failure path ends in
// a failed BatchResult; nothing escapes to abort the remaining chunks.
func (e *Executor) submitChunk(ctx context.Context, wallet domain.Wallet, chunk []domain.Recipient, idx, total int, opts ExecuteOptions) domain.BatchResult {
	start := time.Now()

	chunkAmount := domain.TotalAmount(chunk)
	var chunkFee domain.Amount
	if fee := e.policy.ServiceFee(chunk); fee != nil {
		chunkFee = fee.Amount
	}

	fail := func(format string, args ...any) domain.BatchResult {
		msg := fmt.Sprintf("batch %d/%d %s", idx+1, total, fmt.Sprintf(format, args...))
		e.log.Error().Str("result", msg).Msg("chunk failed")
		return domain.BatchResult{
			Success:        false,
			Message:        msg,
			TotalAmount:    chunkAmount,
			ServiceFee:     chunkFee,
			RecipientCount: len(chunk),
			Duration:       time.Since(start),
		}
	}

	call, _, err := e.buildUnit(ctx, chunk, opts.Mode, opts.KeepAlive)
	if err != nil {
		return fail("compose failed: %v", err)
	}

	resp, err := e.client.SignAndSubmit(ctx, call, wallet, opts.WaitForInclusion, opts.WaitForFinalization)
	if err != nil {
		return fail("submit failed: %v", err)
	}
	if !resp.Success {
		res := fail("failed: %s", resp.Message)
		res.FailedRecipients = resp.FailedAddresses
		return res
	}

	blockHash := resp.BlockHash
	if blockHash == "" {
		// Fall back to the current head when the client did not report
		// the including block.
		if h, err := e.client.BlockHash(ctx); err == nil {
			blockHash = h
		}
	}

	duration := time.Since(start)
	e.log.Info().
		Int("chunk", idx+1).
		Int("chunks", total).
		Int("recipients", len(chunk)).
		Str("amount", chunkAmount.String()).
		Dur("duration", duration).
		Msg("chunk submitted")

	return domain.BatchResult{
		Success:          true,
		Message:          fmt.Sprintf("batch %d/%d completed successfully", idx+1, total),
		BlockHash:        blockHash,
		ExtrinsicHash:    resp.ExtrinsicHash,
		TotalAmount:      chunkAmount,
		NetworkFee:       resp.NetworkFee,
		ServiceFee:       chunkFee,
		RecipientCount:   len(chunk),
		Duration:         duration,
		FailedRecipients: resp.FailedAddresses,
	}
}

// buildUnit composes one submission unit: the chunk's transfers plus, when
// chargeable, the service fee transfer appended exactly once as the last
// call. It returns the chunk's fee recipient when one was injected.
func (e *Executor) buildUnit(ctx context.Context, chunk []domain.Recipient, mode domain.BatchMode, keepAlive bool) (ports.Call, *domain.Recipient, error) {
	all := chunk
	fee := e.policy.ServiceFee(chunk)
	if fee != nil {
		all = make([]domain.Recipient, 0, len(chunk)+1)
		all = append(all, chunk...)
		all = append(all, *fee)
	}

	calls := make([]ports.Call, 0, len(all))
	for _, r := range all {
		call, err := e.client.ComposeTransfer(ctx, r.Address, r.Amount, keepAlive)
		if err != nil {
			return nil, nil, fmt.Errorf("compose transfer to %s: %w", r.DisplayName(), err)
		}
		calls = append(calls, call)
	}

	unit, err := e.client.ComposeBatch(ctx, mode, calls)
	if err != nil {
		return nil, nil, fmt.Errorf("compose %s: %w", mode, err)
	}
	return unit, fee, nil
}
