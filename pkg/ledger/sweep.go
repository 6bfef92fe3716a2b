package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/notifier"
)

// SweepExpired removes expired free credits. Grants are grouped by user and
// each user's expiry is one all-or-nothing storage transaction; a failure
// for one user is counted and logged but never aborts the sweep for others.
// Re-running the sweep is safe: already-zeroed grants no longer match the
// remaining-amount filter, so the second run finds nothing.
func (e *Engine) SweepExpired(ctx context.Context, now time.Time) (*models.SweepResult, error) {
	expired, err := e.Store.ListExpiredGrants(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired grants: %w", err)
	}

	byUser := make(map[string][]models.Transaction)
	var userOrder []string
	for _, grant := range expired {
		if _, seen := byUser[grant.UserID]; !seen {
			userOrder = append(userOrder, grant.UserID)
		}
		byUser[grant.UserID] = append(byUser[grant.UserID], grant)
	}

	result := &models.SweepResult{}
	for _, userID := range userOrder {
		grants := byUser[userID]

		var total int64
		sourceIDs := make([]string, 0, len(grants))
		for _, grant := range grants {
			total += grant.Remaining()
			sourceIDs = append(sourceIDs, grant.ID)
		}

		expiredTx := &models.Transaction{
			ID:          uuid.New().String(),
			UserID:      userID,
			Amount:      -total,
			Type:        models.EXPIRED,
			Description: fmt.Sprintf("%d free credits expired", total),
			Metadata: map[string]string{
				"source_transaction_ids": strings.Join(sourceIDs, ","),
			},
			CreatedAt: e.now(),
		}

		if err := e.Store.ExpireGrants(ctx, userID, sourceIDs, total, expiredTx); err != nil {
			slog.Error("failed to expire grants for user", "user_id", userID, "grants", len(sourceIDs), "error", err)
			result.Errors++
			if e.Metrics != nil {
				e.Metrics.SweepErrors.Inc()
			}
			continue
		}

		result.ProcessedUsers++
		result.TotalExpired += total
		if e.Metrics != nil {
			e.Metrics.SweepUsersSwept.Inc()
			e.Metrics.CreditsExpired.Add(float64(total))
		}

		e.notifyExpiry(ctx, notifier.ExpiryNotice{
			UserID:         userID,
			ExpiredAmount:  total,
			SourceGrantIDs: sourceIDs,
		})
	}

	slog.Info("expiry sweep finished",
		"processed_users", result.ProcessedUsers,
		"total_expired", result.TotalExpired,
		"errors", result.Errors)

	return result, nil
}

func (e *Engine) notifyExpiry(ctx context.Context, notice notifier.ExpiryNotice) {
	if e.Notifier == nil {
		return
	}
	if err := e.Notifier.NotifyExpiry(ctx, notice); err != nil {
		slog.Error("failed to send expiry notice", "user_id", notice.UserID, "error", err)
	}
}
