package domain

// BatchMode selects how the chain treats failures inside one submission unit.
// The mode is chosen once per run and fixed for all chunks.
type BatchMode string

const (
	// BatchAll is atomic: every transfer in the unit succeeds or the whole
	// unit is reverted.
	BatchAll BatchMode = "batch_all"

	// BatchBestEffort lets individual transfer failures pass without
	// reverting the others.
	BatchBestEffort BatchMode = "batch"
)

// Atomic returns true for all-or-nothing submission.
func (m BatchMode) Atomic() bool { return m == BatchAll }

// String returns the on-wire pallet call name.
func (m BatchMode) String() string { return string(m) }
