package ports

import (
	"context"
	"errors"

	"github.com/itdesk/extract-service/internal/core/domain"
)

// ErrSourceUnavailable is returned by sources when the backing store
// cannot be reached.
var ErrSourceUnavailable = errors.New("ticket source unavailable")

// TicketSource loads the full ticket collection for a snapshot. The limit
// caps the number of records; the source decides ordering (newest first).
type TicketSource interface {
	LoadTickets(ctx context.Context, limit int) ([]*domain.Ticket, error)
}

// CategorySource loads the category id -> name mapping used by value
// extraction.
type CategorySource interface {
	LoadCategories(ctx context.Context) (domain.CategoryMap, error)
}

// EventBroadcaster pushes real-time events to connected clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
