// Package granola implements the driven.DocumentSource port against
// the Granola HTTP API.
//
// The API is unusual in that reads are POSTs with JSON bodies: the
// document listing is offset-paginated via POST /v2/get-documents and
// transcripts come from POST /v1/get-document-transcript, where a 404
// means "no transcript yet" rather than an error. Requests carry a
// bearer token (injected by an oauth2 transport over the token
// provider) plus fixed client-identification headers matching the
// desktop app.
//
// The client rate-limits itself with a token bucket and retries
// transient failures (429, 5xx, connection errors) a bounded number of
// times with exponential backoff.
package granola
