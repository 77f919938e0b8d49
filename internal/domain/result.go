package domain

import (
	"fmt"
	"strings"
	"time"
)

// BatchResult is the outcome of one chunk's submission attempt. Constructed
// once by the executor and never mutated afterwards.
type BatchResult struct {
	Success bool
	Message string

	// BlockHash and ExtrinsicHash reference the chain inclusion when known.
	BlockHash     string
	ExtrinsicHash string

	// TotalAmount is the sum of user transfers in the chunk.
	TotalAmount Amount

	// NetworkFee is the network fee reported for the submission.
	NetworkFee Amount

	// ServiceFee is the service fee transfer carried by the chunk.
	ServiceFee Amount

	RecipientCount int
	Duration       time.Duration

	// FailedRecipients lists per-recipient failures reported in best-effort
	// mode.
	FailedRecipients []string
}

// Summary renders a human-readable multi-line report of the result.
func (r BatchResult) Summary() string {
	status := "SUCCESS"
	if !r.Success {
		status = "FAILED"
	}
	lines := []string{
		fmt.Sprintf("=== Spraay Batch Transfer: %s ===", status),
		fmt.Sprintf("Recipients: %d", r.RecipientCount),
		fmt.Sprintf("Total amount: %s TAO", r.TotalAmount.Format(4)),
		fmt.Sprintf("Network fee: %s TAO", r.NetworkFee.Format(6)),
	}
	if r.ServiceFee.IsPositive() {
		lines = append(lines, fmt.Sprintf("Service fee: %s TAO", r.ServiceFee.Format(6)))
	}
	lines = append(lines, fmt.Sprintf("Duration: %.1fs", r.Duration.Seconds()))
	if r.BlockHash != "" {
		lines = append(lines, fmt.Sprintf("Block hash: %s", r.BlockHash))
	}
	if r.ExtrinsicHash != "" {
		lines = append(lines, fmt.Sprintf("Extrinsic hash: %s", r.ExtrinsicHash))
	}
	if !r.Success {
		lines = append(lines, fmt.Sprintf("Error: %s", r.Message))
	}
	if len(r.FailedRecipients) > 0 {
		lines = append(lines, fmt.Sprintf("Failed recipients: %s", strings.Join(r.FailedRecipients, ", ")))
	}
	return strings.Join(lines, "\n")
}

// AllSucceeded reports whether every chunk result succeeded.
func AllSucceeded(results []BatchResult) bool {
	for _, r := range results {
		if !r.Success {
			return false
		}
	}
	return true
}

// FeeEstimate is a pre-execution projection of the cost of a run. Computed
// once per estimation request and not persisted.
type FeeEstimate struct {
	// NetworkFee is the projected network fee across all chunks.
	NetworkFee Amount

	// ServiceFee is the summed service fee across all chunks.
	ServiceFee Amount

	// FeePercent is the configured service fee rate, kept for rendering.
	FeePercent float64

	// TotalAmount is the sum going to recipients.
	TotalAmount Amount

	// TotalCost is amount + network fee + service fee.
	TotalCost Amount

	RecipientCount int
	ChunkCount     int

	BalanceSufficient bool
	CurrentBalance    Amount
}

// Summary renders a human-readable fee estimate.
func (e FeeEstimate) Summary() string {
	status := "SUFFICIENT"
	if !e.BalanceSufficient {
		status = "INSUFFICIENT"
	}
	lines := []string{
		"=== Spraay Fee Estimate ===",
		fmt.Sprintf("Recipients: %d", e.RecipientCount),
		fmt.Sprintf("Batch transactions needed: %d", e.ChunkCount),
		fmt.Sprintf("Total transfer amount: %s TAO", e.TotalAmount.Format(4)),
		fmt.Sprintf("Network fee (est.): %s TAO", e.NetworkFee.Format(6)),
	}
	if e.ServiceFee.IsPositive() {
		lines = append(lines, fmt.Sprintf("Service fee (%g%%): %s TAO", e.FeePercent, e.ServiceFee.Format(6)))
	}
	lines = append(lines,
		fmt.Sprintf("Total cost: %s TAO", e.TotalCost.Format(6)),
		fmt.Sprintf("Current balance: %s TAO", e.CurrentBalance.Format(4)),
		fmt.Sprintf("Balance: %s", status),
	)
	return strings.Join(lines, "\n")
}
