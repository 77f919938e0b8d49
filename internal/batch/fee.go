package batch

import "github.com/plagtech/spraay/internal/domain"

// ServiceFee computes the service fee for a chunk of recipients and returns
// it as a synthetic transfer to the fee wallet. It returns nil when fees are
// disabled or the rounded fee falls below the minimum threshold; absence, not
// zero, so no dust transfer is ever composed.
//
// The function is pure: the same input always yields the same recipient.
func (p Policy) ServiceFee(rs []domain.Recipient) *domain.Recipient {
	if p.FeeWallet == "" || p.FeePercent <= 0 {
		return nil
	}

	fee := domain.TotalAmount(rs).Percent(p.FeePercent)
	if fee.Cmp(p.MinFee) < 0 {
		return nil
	}

	return &domain.Recipient{
		Address: p.FeeWallet,
		Amount:  fee,
		Label:   "Spraay service fee",
		Kind:    domain.ServiceFeeTransfer,
	}
}

// TotalServiceFee sums the per-chunk service fees for an entire run.
func (p Policy) TotalServiceFee(chunks [][]domain.Recipient) domain.Amount {
	var total domain.Amount
	for _, chunk := range chunks {
		if fee := p.ServiceFee(chunk); fee != nil {
			total = total.Add(fee.Amount)
		}
	}
	return total
}
