package ports

import (
	"context"

	"github.com/plagtech/spraay/internal/domain"
)

// Call is an opaque handle to a composed chain call. Its contents are produced
// and consumed by the chain client; the core only passes it around.
type Call []byte

// SubmitResult is the chain client's report for one signed submission.
type SubmitResult struct {
	Success bool
	Message string

	// BlockHash references the including block when the client waited for
	// inclusion.
	BlockHash     string
	ExtrinsicHash string

	// NetworkFee is the fee actually paid, when reported.
	NetworkFee domain.Amount

	// FailedAddresses lists transfers that failed inside a best-effort batch.
	FailedAddresses []string
}

// ChainClient is the external collaborator that talks to the network. All
// blocking operations take a context; timeout and cancellation policy belong
// to the implementation.
type ChainClient interface {
	// ComposeTransfer builds a single balance transfer call. keepAlive selects
	// the existential-deposit-protecting transfer primitive over the one that
	// allows zeroing the sender account.
	ComposeTransfer(ctx context.Context, dest string, amount domain.Amount, keepAlive bool) (Call, error)

	// ComposeBatch wraps calls into one submission unit with the given mode.
	ComposeBatch(ctx context.Context, mode domain.BatchMode, calls []Call) (Call, error)

	// EstimateFee projects the network fee for submitting call signed by the
	// given account.
	EstimateFee(ctx context.Context, call Call, signer string) (domain.Amount, error)

	// Balance returns the free balance of the given account.
	Balance(ctx context.Context, address string) (domain.Amount, error)

	// SignAndSubmit signs call with the named wallet and submits it,
	// optionally waiting for inclusion or finalization.
	SignAndSubmit(ctx context.Context, call Call, wallet domain.Wallet, waitForInclusion, waitForFinalization bool) (SubmitResult, error)

	// BlockHash returns the current chain head hash.
	BlockHash(ctx context.Context) (string, error)
}
