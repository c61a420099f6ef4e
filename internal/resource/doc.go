// Package resource implements the reconciliation core for Prism Central
// disk images.
//
// This package defines:
//   - ImageDescriptor, the desired state of a single image
//   - StateMatcher, which classifies how the remote state matches
//   - SpecBuilder and IdentifierResolver, which assemble create payloads
//   - TaskPoller, which drives asynchronous tasks to a terminal state
//   - ReconciliationController, which orchestrates a full pass
//
// A pass evaluates the remote inventory, decides on create, update,
// delete or no-op, executes the mutation and waits for its task.
// Validation and ambiguity problems surface as ReconciliationError
// before anything is mutated; remote task failures are reported in the
// Outcome instead.
package resource
