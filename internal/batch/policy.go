package batch

import "github.com/plagtech/spraay/internal/domain"

// serviceFeeWallet receives the service fee transfers. Fixed at build time.
const serviceFeeWallet = "5CZjqeHFjmj39KuXanRApouyKFXokjazeor6h3bPoCzuzmJC"

// Policy carries the deployment-fixed batching and fee constants. It is
// immutable and passed in at construction; there is no mutable package state.
type Policy struct {
	// MaxChunkSize caps the number of user transfers per submission unit.
	// 199 leaves headroom for the injected fee transfer under transports
	// that implicitly cap unit size at 200 calls.
	MaxChunkSize int

	// MinTransfer is the smallest allowed per-recipient amount
	// (existential deposit protection).
	MinTransfer domain.Amount

	// FeePercent is the service fee rate applied to each chunk's total.
	// Zero disables fees (e.g. for grant-funded deployments).
	FeePercent float64

	// FeeWallet is the service fee destination. Empty disables fees.
	FeeWallet string

	// MinFee is the smallest chargeable fee per chunk. Fees that round
	// below it are waived rather than sent as dust.
	MinFee domain.Amount
}

// DefaultPolicy returns the production policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxChunkSize: 199,
		MinTransfer:  domain.NewAmount(500_000),   // 0.0005 TAO
		FeePercent:   0.3,
		FeeWallet:    serviceFeeWallet,
		MinFee:       domain.NewAmount(1_000_000), // 0.001 TAO
	}
}
