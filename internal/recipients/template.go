package recipients

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/plagtech/spraay/internal/domain"
)

// Well-known Substrate development addresses used to seed templates.
var sampleAddresses = []string{
	"5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", // Alice
	"5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty", // Bob
	"5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y", // Charlie
	"5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy", // Dave
	"5HGjWAeFDfFCWPsjFQdVV2Msvz2XtMktvgocEZcCj68kUMaw", // Eve
}

var sampleLabels = []string{
	"Alice", "Bob", "Charlie", "Dave", "Eve",
	"Miner_1", "Miner_2", "Validator_1", "Contributor_1", "Bounty_Winner",
}

// SampleRecipients returns n template recipients cycling through the
// development addresses.
func SampleRecipients(n int) []domain.Recipient {
	rs := make([]domain.Recipient, 0, n)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("Recipient_%d", i+1)
		if i < len(sampleLabels) {
			label = sampleLabels[i]
		}
		rs = append(rs, domain.Recipient{
			Address: sampleAddresses[i%len(sampleAddresses)],
			Amount:  domain.FromFloat(1.0 + float64(i)*0.5),
			Label:   label,
			Kind:    domain.UserTransfer,
		})
	}
	return rs
}

// WriteTemplate writes a sample recipient file with n entries in the given
// format ("csv" or "json"). Re-parsing the file yields exactly n recipients.
func WriteTemplate(path, format string, n int) error {
	rs := SampleRecipients(n)

	switch format {
	case "json":
		type entry struct {
			Address string `json:"address"`
			Amount  string `json:"amount"`
			Label   string `json:"label"`
		}
		entries := make([]entry, len(rs))
		for i, r := range rs {
			entries[i] = entry{Address: r.Address, Amount: r.Amount.String(), Label: r.Label}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)

	case "csv":
		var b strings.Builder
		b.WriteString("address,amount,label\n")
		for _, r := range rs {
			fmt.Fprintf(&b, "%s,%s,%s\n", r.Address, r.Amount, r.Label)
		}
		return os.WriteFile(path, []byte(b.String()), 0o644)

	default:
		return fmt.Errorf("unknown template format %q", format)
	}
}
