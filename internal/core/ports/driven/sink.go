package driven

import (
	"context"

	"github.com/custodia-labs/granola-sync/internal/core/domain"
)

// DeliverySink posts normalised payloads downstream.
type DeliverySink interface {
	// Deliver posts one payload. Transient failures are retried a
	// bounded number of times inside the sink; an error return means
	// the payload was not accepted and the document must stay
	// unsynced. Errors wrap domain.ErrDeliveryFailed.
	Deliver(ctx context.Context, payload *domain.Payload) error
}
