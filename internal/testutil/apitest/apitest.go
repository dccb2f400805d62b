// Package apitest runs the real backend router over in-memory storage.
package apitest

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"trezzy/internal/api/handler"
	"trezzy/internal/chain"
	"trezzy/internal/pkg/caching"
	"trezzy/internal/services"
	"trezzy/internal/testutil"
)

const AdminAPIKey = "test-admin-key"

type FakeChain struct {
	mu      sync.Mutex
	Balance string
	Err     error
}

func (f *FakeChain) NewAccount() (*chain.Account, error) {
	return chain.GenerateAccount()
}

func (f *FakeChain) BalanceOf(ctx context.Context, address string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	return f.Balance, nil
}

func (f *FakeChain) Fail(err error) {
	f.mu.Lock()
	f.Err = err
	f.mu.Unlock()
}

type Server struct {
	*httptest.Server
	Container *do.Injector
	Chain     *FakeChain
}

func NewServer(t *testing.T, envs map[string]string) *Server {
	t.Helper()

	db := testutil.GetEmptyTestDB(t)
	_, rdb := testutil.GetTestRedis(t)
	if envs == nil {
		envs = map[string]string{}
	}

	container := do.New()
	do.ProvideNamedValue(container, "envs", envs)
	do.ProvideValue[*bun.DB](container, db)
	do.ProvideNamedValue[*bun.DB](container, "db-readonly", db)

	cache, err := caching.NewCacheRedis(rdb, false)
	require.NoError(t, err)
	do.ProvideValue[caching.Cache](container, cache)
	do.ProvideValue(container, redsync.New(goredis.NewPool(rdb)))

	fc := &FakeChain{Balance: "0"}
	do.ProvideValue[chain.Chain](container, fc)
	services.Provide(container)

	router, err := handler.New(&handler.Config{
		Container:      container,
		Mode:           "test",
		Origins:        []string{"*"},
		AdminAPIKey:    AdminAPIKey,
		RequestTimeout: 5 * time.Second,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &Server{Server: srv, Container: container, Chain: fc}
}
