// Package receipts persists a record of every transfer run so payouts can be
// audited after the fact.
package receipts

import (
	"time"

	"github.com/plagtech/spraay/internal/domain"
)

// BatchRecord is the persisted form of one chunk's result.
type BatchRecord struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message,omitempty"`
	BlockHash        string   `json:"block_hash,omitempty"`
	ExtrinsicHash    string   `json:"extrinsic_hash,omitempty"`
	AmountRao        int64    `json:"amount_rao"`
	NetworkFeeRao    int64    `json:"network_fee_rao"`
	ServiceFeeRao    int64    `json:"service_fee_rao"`
	RecipientCount   int      `json:"recipient_count"`
	DurationMs       int64    `json:"duration_ms"`
	FailedRecipients []string `json:"failed_recipients,omitempty"`
}

// Receipt records one complete transfer run.
type Receipt struct {
	StartedAt time.Time `json:"started_at"`
	Network   string    `json:"network"`
	Wallet    string    `json:"wallet"`
	Mode      string    `json:"mode"`

	Batches []BatchRecord `json:"batches"`

	// Totals cover successful batches only.
	SentRao       int64 `json:"sent_rao"`
	NetworkFeeRao int64 `json:"network_fee_rao"`
	ServiceFeeRao int64 `json:"service_fee_rao"`
	Recipients    int   `json:"recipients"`
	Failed        int   `json:"failed_batches"`
}

// FromResults builds a receipt from the executor's per-chunk results.
func FromResults(network, wallet string, mode domain.BatchMode, startedAt time.Time, results []domain.BatchResult) Receipt {
	rec := Receipt{
		StartedAt: startedAt,
		Network:   network,
		Wallet:    wallet,
		Mode:      mode.String(),
		Batches:   make([]BatchRecord, 0, len(results)),
	}

	for _, r := range results {
		rec.Batches = append(rec.Batches, BatchRecord{
			Success:          r.Success,
			Message:          r.Message,
			BlockHash:        r.BlockHash,
			ExtrinsicHash:    r.ExtrinsicHash,
			AmountRao:        r.TotalAmount.Rao(),
			NetworkFeeRao:    r.NetworkFee.Rao(),
			ServiceFeeRao:    r.ServiceFee.Rao(),
			RecipientCount:   r.RecipientCount,
			DurationMs:       r.Duration.Milliseconds(),
			FailedRecipients: r.FailedRecipients,
		})

		if r.Success {
			rec.SentRao += r.TotalAmount.Rao()
			rec.NetworkFeeRao += r.NetworkFee.Rao()
			rec.ServiceFeeRao += r.ServiceFee.Rao()
			rec.Recipients += r.RecipientCount
		} else {
			rec.Failed++
		}
	}
	return rec
}

// Sent returns the total amount delivered by successful batches.
func (r Receipt) Sent() domain.Amount {
	return domain.NewAmount(r.SentRao)
}

// Succeeded reports whether the whole run completed without failed batches.
func (r Receipt) Succeeded() bool {
	return r.Failed == 0
}
