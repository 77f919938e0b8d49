// Package domain contains the core domain entities and value objects for spraay.
//
// This package represents the innermost layer of the application. It has no
// dependencies on infrastructure concerns (RPC, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Amount]: A fixed-point TAO value in rao base units (1 TAO = 1e9 rao)
//   - [Recipient]: A single payment recipient with a tagged transfer kind
//   - [BatchResult]: The outcome of one submitted batch chunk
//   - [FeeEstimate]: A pre-execution cost and balance projection
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
