package recipients

import (
	"fmt"

	"github.com/plagtech/spraay/internal/domain"
	"github.com/plagtech/spraay/internal/ss58"
)

// Validate checks every recipient and scans for duplicate addresses. It never
// fails; it returns whether the list is valid and the collected error strings.
// Positions in messages are 1-based. minTransfer is the smallest allowed
// transfer amount.
func Validate(rs []domain.Recipient, minTransfer domain.Amount) (bool, []string) {
	var errs []string

	firstSeen := make(map[string]int, len(rs))
	for i, r := range rs {
		for _, msg := range validateOne(r, minTransfer) {
			errs = append(errs, fmt.Sprintf("Recipient %d (%s): %s", i+1, r.DisplayName(), msg))
		}

		if prev, ok := firstSeen[r.Address]; ok {
			errs = append(errs, fmt.Sprintf(
				"Duplicate address at positions %d and %d: %s", prev+1, i+1, shortAddr(r.Address)))
		} else {
			firstSeen[r.Address] = i
		}
	}

	return len(errs) == 0, errs
}

func validateOne(r domain.Recipient, minTransfer domain.Amount) []string {
	var errs []string
	if !ss58.Valid(r.Address) {
		errs = append(errs, fmt.Sprintf("invalid ss58 address: %s", r.Address))
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, fmt.Sprintf("amount must be positive, got %s", r.Amount))
	} else if r.Amount.Cmp(minTransfer) < 0 {
		errs = append(errs, fmt.Sprintf("amount %s TAO below minimum %s TAO", r.Amount, minTransfer))
	}
	return errs
}

func shortAddr(addr string) string {
	if len(addr) > 16 {
		return addr[:16] + "..."
	}
	return addr
}
