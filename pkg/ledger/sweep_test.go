package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/credits/pkg/models"
	"github.com/pixelforge/credits/pkg/notifier"
)

type recordingNotifier struct {
	notices []notifier.ExpiryNotice
}

func (n *recordingNotifier) NotifyExpiry(_ context.Context, notice notifier.ExpiryNotice) error {
	n.notices = append(n.notices, notice)
	return nil
}

func TestSweepExpired(t *testing.T) {
	engine, _ := newTestEngine()
	recorder := &recordingNotifier{}
	engine.Notifier = recorder
	ctx := context.Background()

	expired := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS, ExpiresAt: &expired})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 50, Type: models.PURCHASE})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u2", Amount: 20, Type: models.REFERRAL, ExpiresAt: &expired})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u3", Amount: 40, Type: models.BONUS, ExpiresAt: &future})
	require.NoError(t, err)

	result, err := engine.SweepExpired(ctx, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, result.ProcessedUsers)
	assert.Equal(t, int64(50), result.TotalExpired)
	assert.Equal(t, 0, result.Errors)

	// Expired free credits are gone; purchased and unexpired credits stay.
	balance, err := engine.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	balance, err = engine.GetBalance(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	balance, err = engine.GetBalance(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)

	// Each swept user gets an EXPIRED row pointing at the source grants.
	expiredType := models.EXPIRED
	txs, err := engine.GetTransactionHistory(ctx, "u1", 10, 0, &expiredType)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(-30), txs[0].Amount)
	assert.NotEmpty(t, txs[0].Metadata["source_transaction_ids"])

	require.Len(t, recorder.notices, 2)
	assert.Equal(t, "u1", recorder.notices[0].UserID)
	assert.Equal(t, int64(30), recorder.notices[0].ExpiredAmount)
}

func TestSweepExpired_SecondRunFindsNothing(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	expired := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS, ExpiresAt: &expired})
	require.NoError(t, err)

	cutoff := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	first, err := engine.SweepExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(30), first.TotalExpired)

	second, err := engine.SweepExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ProcessedUsers)
	assert.Equal(t, int64(0), second.TotalExpired)
}

func TestSweepExpired_ExpiresOnlyRemainingAmount(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	expired := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS, ExpiresAt: &expired})
	require.NoError(t, err)

	// Consume 10 before expiry; only the remaining 20 should lapse.
	_, err = engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 10, Type: models.GENERATION, Policy: models.PolicyFree})
	require.NoError(t, err)

	result, err := engine.SweepExpired(ctx, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(20), result.TotalExpired)

	balance, err := engine.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
