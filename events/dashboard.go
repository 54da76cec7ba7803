// Package events publishes ledger change notifications.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DashboardInvalidatedKey is the routing key of dashboard invalidation events
const DashboardInvalidatedKey = "dashboard.invalidated"

// DashboardInvalidated tells subscribers to refetch a user's dashboard
type DashboardInvalidated struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is the transport used by DashboardNotifier
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
}

// DashboardNotifier publishes one invalidation event per user
type DashboardNotifier struct {
	publisher Publisher
	exchange  string
	now       func() time.Time
}

// NewDashboardNotifier creates a notifier publishing to exchange
func NewDashboardNotifier(publisher Publisher, exchange string) *DashboardNotifier {
	exchange = strings.TrimSpace(exchange)
	if exchange == "" {
		exchange = "congno.dashboard"
	}
	return &DashboardNotifier{publisher: publisher, exchange: exchange, now: time.Now}
}

// InvalidateDashboards publishes an event for each user and joins any failures
func (n *DashboardNotifier) InvalidateDashboards(ctx context.Context, userIDs ...string) error {
	var errs []error
	occurredAt := n.now().UTC()
	for _, id := range userIDs {
		event := DashboardInvalidated{UserID: id, OccurredAt: occurredAt}
		if err := n.publisher.Publish(ctx, n.exchange, DashboardInvalidatedKey, event); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// NoopNotifier is used when no broker is configured
type NoopNotifier struct{}

func (NoopNotifier) InvalidateDashboards(ctx context.Context, userIDs ...string) error {
	return nil
}
