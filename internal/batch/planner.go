package batch

import "github.com/plagtech/spraay/internal/domain"

// Chunks partitions recipients into contiguous slices of at most
// MaxChunkSize, preserving input order: recipient i lands in chunk
// i/MaxChunkSize. The planner assumes validation already passed.
//
// The returned slices alias the input; callers must treat them as read-only.
func (p Policy) Chunks(rs []domain.Recipient) [][]domain.Recipient {
	size := p.MaxChunkSize
	if size <= 0 {
		size = 1
	}

	chunks := make([][]domain.Recipient, 0, (len(rs)+size-1)/size)
	for start := 0; start < len(rs); start += size {
		end := start + size
		if end > len(rs) {
			end = len(rs)
		}
		chunks = append(chunks, rs[start:end])
	}
	return chunks
}
