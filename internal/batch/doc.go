// Package batch plans and executes batched balance transfers.
//
// A recipient list is partitioned into positional chunks of at most
// [Policy.MaxChunkSize] entries, each chunk mapped to exactly one atomic
// submission unit. A transparent service fee is computed per chunk and
// injected as the unit's last transfer. The [Executor] drives fee estimation
// and sequential submission through the [ports.ChainClient] collaborator.
package batch
