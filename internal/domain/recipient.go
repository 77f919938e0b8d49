package domain

// TransferKind distinguishes user payouts from the synthetic service fee
// transfer. The tag keeps the planner from duplicating or dropping the fee
// entry when chunks are assembled.
type TransferKind int

const (
	// UserTransfer is a payout parsed from the recipient file.
	UserTransfer TransferKind = iota

	// ServiceFeeTransfer is the synthetic transfer to the service wallet.
	ServiceFeeTransfer
)

// Recipient is a single payment recipient. Immutable once created.
type Recipient struct {
	// Address is the ss58 destination account.
	Address string

	// Amount is the transfer value.
	Amount Amount

	// Label is an optional note, e.g. "Alice" or "Validator_1".
	Label string

	// Kind tags the transfer as a user payout or the service fee.
	Kind TransferKind
}

// DisplayName returns the label when present, otherwise a truncated address.
func (r Recipient) DisplayName() string {
	if r.Label != "" {
		return r.Label
	}
	if len(r.Address) > 12 {
		return r.Address[:12] + "..."
	}
	return r.Address
}

// TotalAmount sums the amounts of all recipients.
func TotalAmount(rs []Recipient) Amount {
	var total Amount
	for _, r := range rs {
		total = total.Add(r.Amount)
	}
	return total
}

// Wallet identifies the sending wallet. The private key never enters this
// process; signing is delegated to the chain client collaborator.
type Wallet struct {
	// Name is the wallet name known to the signer.
	Name string

	// Address is the wallet's ss58 account address.
	Address string
}
