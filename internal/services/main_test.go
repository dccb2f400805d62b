package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"trezzy/internal/chain"
	"trezzy/internal/pkg/caching"
	"trezzy/internal/testutil"
)

type fakeChain struct {
	mu       sync.Mutex
	accounts int
	balance  string
	err      error
}

func (f *fakeChain) NewAccount() (*chain.Account, error) {
	f.mu.Lock()
	f.accounts++
	f.mu.Unlock()
	return chain.GenerateAccount()
}

func (f *fakeChain) BalanceOf(ctx context.Context, address string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.balance, nil
}

var errRPCDown = errors.New("rpc down")

func newTestContainer(t *testing.T, envs map[string]string) (*do.Injector, *fakeChain) {
	t.Helper()

	db := testutil.GetEmptyTestDB(t)
	_, rdb := testutil.GetTestRedis(t)
	if envs == nil {
		envs = map[string]string{}
	}

	injector := do.New()
	do.ProvideNamedValue(injector, "envs", envs)
	do.ProvideValue[*bun.DB](injector, db)
	do.ProvideNamedValue[*bun.DB](injector, "db-readonly", db)

	cache, err := caching.NewCacheRedis(rdb, false)
	require.NoError(t, err)
	do.ProvideValue[caching.Cache](injector, cache)
	do.ProvideValue(injector, redsync.New(goredis.NewPool(rdb)))

	fc := &fakeChain{balance: "0"}
	do.ProvideValue[chain.Chain](injector, fc)

	Provide(injector)
	return injector, fc
}
