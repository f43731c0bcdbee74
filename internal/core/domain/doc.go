// Package domain defines the core business entities for granola-sync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: The OAuth refresh/access token pair for the Granola session
//   - Document: A meeting document as returned by the Granola API
//   - Transcript: The ordered speaker segments of a meeting
//   - SyncState: The set of already-delivered document IDs
//   - Payload: The outbound record posted to the webhook
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
