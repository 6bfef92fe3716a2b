// Package notifier publishes ledger events for downstream consumers, such
// as the email service that tells users their bonus credits expired.
package notifier

import "context"

// ExpiryNotice describes one user's swept credits.
type ExpiryNotice struct {
	UserID         string   `json:"user_id"`
	ExpiredAmount  int64    `json:"expired_amount"`
	SourceGrantIDs []string `json:"source_grant_ids"`
}

// Notifier delivers expiry notices. Delivery is best-effort; the sweep does
// not fail when a notice cannot be sent.
type Notifier interface {
	NotifyExpiry(ctx context.Context, notice ExpiryNotice) error
}

// NoOpNotifier discards all notices.
type NoOpNotifier struct{}

// NotifyExpiry does nothing.
func (NoOpNotifier) NotifyExpiry(ctx context.Context, notice ExpiryNotice) error {
	return nil
}
