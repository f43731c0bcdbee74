// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TokenProvider: Supplies valid bearer tokens, refreshing transparently
//   - CredentialStore: Credential persistence
//   - DocumentSource: Fetches documents and transcripts from the vendor API
//   - SyncStateStore: Sync progress persistence
//   - DeliverySink: Posts payloads to the downstream webhook
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CredentialObserver: Notified after token rotation (mirror file)
//   - DeliveryArchive: Local journal of successful deliveries
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
