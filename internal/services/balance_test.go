package services

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"

	"trezzy/internal/models"
	"trezzy/internal/pkg/errorx"
)

func TestUpdateBalanceSequence(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, nil)
	service := do.MustInvoke[*ServiceBalance](container)
	history := do.MustInvoke[*ServiceHistory](container)

	balance, err := service.GetBalance(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	steps := []struct {
		action models.BalanceAction
		amount int64
		want   int64
	}{
		{models.BalanceActionAdd, 10, 10},
		{models.BalanceActionDeduct, 3, 7},
		{models.BalanceActionDeduct, 100, 0},
		{models.BalanceActionSet, 42, 42},
	}
	for _, step := range steps {
		balance, err = service.UpdateBalance(ctx, "u1", step.action, step.amount, "test")
		require.NoError(t, err)
		require.Equal(t, step.want, balance)
	}

	balance, err = service.GetBalance(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(42), balance)

	entries, err := history.GetHistory(ctx, "u1", 50)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		require.Equal(t, models.HistoryTypeBalance, entry.Type)
	}
}

func TestUpdateBalanceValidation(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, nil)
	service := do.MustInvoke[*ServiceBalance](container)

	_, err := service.UpdateBalance(ctx, "", models.BalanceActionAdd, 1, "")
	require.Equal(t, errorx.Validation, errorx.KindOf(err))

	_, err = service.UpdateBalance(ctx, "u1", models.BalanceAction("multiply"), 1, "")
	require.ErrorIs(t, err, ErrInvalidAction)

	_, err = service.UpdateBalance(ctx, "u1", models.BalanceActionAdd, 0, "")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.UpdateBalance(ctx, "u1", models.BalanceActionDeduct, -5, "")
	require.ErrorIs(t, err, ErrInvalidAmount)

	balance, err := service.GetBalance(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)
}

func TestUpdateBalanceConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, nil)
	service := do.MustInvoke[*ServiceBalance](container)

	// the in-memory sqlite test db has one connection, so statements interleave
	// but never run in parallel; RUN_INTEGRATION_TEST exercises real contention
	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.UpdateBalance(ctx, "u1", models.BalanceActionAdd, 1, "")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	balance, err := service.GetBalance(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(n), balance)
}
