// Package ports defines the interfaces (ports) that connect the batching core
// to infrastructure adapters.
//
// The only port spraay needs is [ChainClient]: a narrow capability interface
// over the external collaborator that composes, estimates, signs and submits
// chain transactions. The core never touches key material or wire encoding.
//
// The batch executor (internal/batch) depends only on this interface.
// Infrastructure adapters (internal/adapters) implement it with concrete
// transports, and tests substitute a deterministic fake without any network
// dependency.
package ports
