package services

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"

	"trezzy/internal/chain"
	"trezzy/internal/pkg/errorx"
)

func TestGetOrCreateWalletIsIdempotent(t *testing.T) {
	ctx := context.Background()
	container, fc := newTestContainer(t, nil)
	fc.balance = "0.25"
	service := do.MustInvoke[*ServiceWallet](container)

	first, err := service.GetOrCreateWallet(ctx, "1001")
	require.NoError(t, err)
	require.True(t, first.Created)
	require.True(t, chain.IsAddress(first.Address))
	require.Equal(t, "0.25", first.Balance)

	second, err := service.GetOrCreateWallet(ctx, "1001")
	require.NoError(t, err)
	require.False(t, second.Created)
	require.Equal(t, first.Address, second.Address)
	require.Equal(t, 1, fc.accounts)
}

func TestGetOrCreateWalletConcurrentFirstCalls(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, nil)
	service := do.MustInvoke[*ServiceWallet](container)

	// the in-memory sqlite test db has one connection, so statements interleave
	// but never run in parallel; RUN_INTEGRATION_TEST exercises real contention
	const n = 8
	addresses := make([]string, n)
	created := make([]bool, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, err := service.GetOrCreateWallet(ctx, "2002")
			if err != nil {
				errs[i] = err
				return
			}
			addresses[i] = info.Address
			created[i] = info.Created
		}(i)
	}
	wg.Wait()

	createdCount := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, addresses[0], addresses[i])
		if created[i] {
			createdCount++
		}
	}
	require.Equal(t, 1, createdCount)

	secret, err := service.RevealWallet(ctx, "2002")
	require.NoError(t, err)
	require.Equal(t, addresses[0], secret.Address)
}

func TestGetOrCreateWalletErrors(t *testing.T) {
	ctx := context.Background()
	container, fc := newTestContainer(t, nil)
	service := do.MustInvoke[*ServiceWallet](container)

	_, err := service.GetOrCreateWallet(ctx, "")
	require.Equal(t, errorx.Validation, errorx.KindOf(err))

	fc.err = errRPCDown
	_, err = service.GetOrCreateWallet(ctx, "3003")
	require.Equal(t, errorx.Upstream, errorx.KindOf(err))
	require.ErrorIs(t, err, errRPCDown)
}

func TestRevealWalletNeverCreates(t *testing.T) {
	ctx := context.Background()
	container, fc := newTestContainer(t, nil)
	service := do.MustInvoke[*ServiceWallet](container)

	_, err := service.RevealWallet(ctx, "4004")
	require.Equal(t, errorx.NotExist, errorx.KindOf(err))
	require.Equal(t, 0, fc.accounts)

	info, err := service.GetOrCreateWallet(ctx, "4004")
	require.NoError(t, err)

	secret, err := service.RevealWallet(ctx, "4004")
	require.NoError(t, err)
	require.Equal(t, info.Address, secret.Address)
	require.NotEmpty(t, secret.PrivateKey)
}
