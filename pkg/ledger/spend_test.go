package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge/credits/pkg/models"
)

func TestSpend_Validation(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name string
		p    SpendParams
	}{
		{"empty user", SpendParams{Amount: 10, Type: models.GENERATION, Policy: models.PolicyAuto}},
		{"zero amount", SpendParams{UserID: "u1", Amount: 0, Type: models.GENERATION, Policy: models.PolicyAuto}},
		{"grant type", SpendParams{UserID: "u1", Amount: 10, Type: models.BONUS, Policy: models.PolicyAuto}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Spend(ctx, tc.p)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestSpend_UnknownPolicy(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 100, Type: models.PURCHASE})
	require.NoError(t, err)

	_, err = engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 10, Type: models.GENERATION, Policy: "platinum"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestSpend_FreePolicy(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 100, Type: models.PURCHASE})
	require.NoError(t, err)

	t.Run("insufficient free rejects even with purchased cover", func(t *testing.T) {
		_, err := engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 50, Type: models.GENERATION, Policy: models.PolicyFree})
		require.Error(t, err)
		var ice *InsufficientCreditsError
		require.ErrorAs(t, err, &ice)
		assert.Equal(t, int64(50), ice.Required)
		assert.Equal(t, int64(30), ice.Available)
		assert.Equal(t, models.ClassFree, ice.Class)
	})

	t.Run("success consumes free credits", func(t *testing.T) {
		result, err := engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 20, Type: models.GENERATION, Policy: models.PolicyFree})
		require.NoError(t, err)
		assert.Equal(t, int64(110), result.NewBalance)
		assert.Equal(t, models.ClassFree, result.UsedClass)
		assert.True(t, result.ApplyWatermark)

		detail, err := engine.GetBalanceDetail(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(10), detail.Free)
		assert.Equal(t, int64(100), detail.Purchased)
	})
}

func TestSpend_PurchasedPolicy(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 40, Type: models.PURCHASE})
	require.NoError(t, err)

	t.Run("insufficient purchased rejects even with free cover", func(t *testing.T) {
		_, err := engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 50, Type: models.UPSCALE, Policy: models.PolicyPurchased})
		require.Error(t, err)
		var ice *InsufficientCreditsError
		require.ErrorAs(t, err, &ice)
		assert.Equal(t, int64(40), ice.Available)
		assert.Equal(t, models.ClassPurchased, ice.Class)
	})

	t.Run("success leaves free grants untouched", func(t *testing.T) {
		result, err := engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 40, Type: models.UPSCALE, Policy: models.PolicyPurchased})
		require.NoError(t, err)
		assert.Equal(t, int64(30), result.NewBalance)
		assert.Equal(t, models.ClassPurchased, result.UsedClass)
		assert.False(t, result.ApplyWatermark)

		detail, err := engine.GetBalanceDetail(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(30), detail.Free)
		assert.Equal(t, int64(0), detail.Purchased)
	})
}

func TestSpend_FIFOConsumesOldestGrantFirst(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 50, Type: models.REFERRAL})
	require.NoError(t, err)

	_, err = engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 40, Type: models.GENERATION, Policy: models.PolicyFree})
	require.NoError(t, err)

	grants, err := engine.Store.QueryOpenGrants(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, grants, 1)

	// The older 30-credit grant is exhausted; the newer grant absorbed the
	// remaining 10.
	assert.Equal(t, models.REFERRAL, grants[0].Type)
	assert.Equal(t, int64(40), grants[0].Remaining())
}

func TestFifoPlan_MarksDrainedGrants(t *testing.T) {
	remaining := func(n int64) *int64 { return &n }
	grants := []models.Transaction{
		{ID: "g1", Type: models.BONUS, Amount: 30, RemainingAmount: remaining(30)},
		{ID: "g2", Type: models.REFERRAL, Amount: 50, RemainingAmount: remaining(50)},
	}

	plan, err := fifoPlan(grants, 40)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	// g1 is fully consumed and can leave the open-grants index; g2 keeps
	// 40 remaining and must stay.
	assert.True(t, plan[0].Drain)
	assert.Equal(t, int64(30), plan[0].Amount)
	assert.False(t, plan[1].Drain)
	assert.Equal(t, int64(10), plan[1].Amount)
}

func TestSpend_AutoPrefersFree(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 50, Type: models.PURCHASE})
	require.NoError(t, err)

	result, err := engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 20, Type: models.GENERATION, Policy: models.PolicyAuto})
	require.NoError(t, err)
	assert.Equal(t, models.ClassFree, result.UsedClass)
	assert.True(t, result.ApplyWatermark)

	detail, err := engine.GetBalanceDetail(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), detail.Free)
	assert.Equal(t, int64(50), detail.Purchased)
}

func TestSpend_AutoBlendsFreeAndPurchased(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)
	_, err = engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 50, Type: models.PURCHASE})
	require.NoError(t, err)

	// 40 > 30 free, but total covers: the spend drains the free grant and
	// takes the remaining 10 from purchased. A blended spend reports the
	// purchased class and no watermark.
	result, err := engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 40, Type: models.GENERATION, Policy: models.PolicyAuto})
	require.NoError(t, err)
	assert.Equal(t, int64(40), result.NewBalance)
	assert.Equal(t, models.ClassPurchased, result.UsedClass)
	assert.False(t, result.ApplyWatermark)

	detail, err := engine.GetBalanceDetail(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), detail.Free)
	assert.Equal(t, int64(40), detail.Purchased)
}

func TestSpend_AutoInsufficientTotal(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)

	_, err = engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 31, Type: models.GENERATION, Policy: models.PolicyAuto})
	require.Error(t, err)
	var ice *InsufficientCreditsError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, int64(31), ice.Required)
	assert.Equal(t, int64(30), ice.Available)

	// A rejected spend writes nothing.
	balance, err := engine.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(30), balance)
}

func TestSpend_RecordsUsedClassMetadata(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)
	_, err = engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 10, Type: models.GENERATION, Policy: models.PolicyFree})
	require.NoError(t, err)

	generation := models.GENERATION
	txs, err := engine.GetTransactionHistory(ctx, "u1", 10, 0, &generation)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "free", txs[0].Metadata["used_class"])
}

func TestSpend_LeavesCallerMetadataUntouched(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 30, Type: models.BONUS})
	require.NoError(t, err)

	meta := map[string]string{"prompt_id": "p-1"}
	_, err = engine.Spend(ctx, SpendParams{UserID: "u1", Amount: 10, Type: models.GENERATION, Policy: models.PolicyFree, Metadata: meta})
	require.NoError(t, err)

	// The used_class annotation lands on the recorded row only.
	assert.Equal(t, map[string]string{"prompt_id": "p-1"}, meta)

	generation := models.GENERATION
	txs, err := engine.GetTransactionHistory(ctx, "u1", 10, 0, &generation)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "free", txs[0].Metadata["used_class"])
	assert.Equal(t, "p-1", txs[0].Metadata["prompt_id"])
}

func TestSpendAtomic_Success(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 100, Type: models.PURCHASE})
	require.NoError(t, err)

	outcome, err := engine.SpendAtomic(ctx, "u1", 60, models.GENERATION, "4 images", nil)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, int64(40), outcome.Balance)
	assert.Empty(t, outcome.Message)
}

func TestSpendAtomic_InsufficientIsAnOutcomeNotAnError(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 15, Type: models.PURCHASE})
	require.NoError(t, err)

	outcome, err := engine.SpendAtomic(ctx, "u1", 20, models.UPSCALE, "", nil)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, int64(15), outcome.Balance)
	assert.Contains(t, outcome.Message, "insufficient credits")

	// No spend row is written for a rejected attempt.
	txs, err := engine.GetTransactionHistory(ctx, "u1", 10, 0, nil)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.PURCHASE, txs[0].Type)
}

func TestSpendAtomic_ConcurrentSpendsSingleWinner(t *testing.T) {
	engine, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.Grant(ctx, GrantParams{UserID: "u1", Amount: 15, Type: models.PURCHASE})
	require.NoError(t, err)

	var wg sync.WaitGroup
	outcomes := make([]*models.SpendOutcome, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcome, err := engine.SpendAtomic(ctx, "u1", 10, models.GENERATION, "", nil)
			assert.NoError(t, err)
			outcomes[i] = outcome
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, outcome := range outcomes {
		if outcome != nil && outcome.Success {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one of two racing spends may win")

	balance, err := engine.GetBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), balance)
}
