package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/samber/do"
	"github.com/uptrace/bun"

	"trezzy/internal/chain"
	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg"
	"trezzy/internal/pkg/errorx"
)

type ServiceWallet struct {
	container  *do.Injector
	postgresDB *bun.DB
	chain      chain.Chain

	now func() time.Time
}

func NewServiceWallet(container *do.Injector) (*ServiceWallet, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	c, err := do.Invoke[chain.Chain](container)
	if err != nil {
		return nil, err
	}

	return &ServiceWallet{container, postgresDB, c, pkg.NowUTC}, nil
}

// GetOrCreateWallet issues a key pair on the first call for a user and returns
// the same address on every later call, with the live on-chain balance.
func (service *ServiceWallet) GetOrCreateWallet(ctx context.Context, userID string) (*models.WalletInfo, error) {
	if userID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	wallet, err := datastore.GetWallet(ctx, service.postgresDB, userID)
	if err != nil && !isNoRows(err) {
		return nil, err
	}

	created := false
	if wallet == nil {
		account, err := service.chain.NewAccount()
		if err != nil {
			return nil, err
		}

		created, err = datastore.InsertWalletIfAbsent(ctx, service.postgresDB, &models.Wallet{
			UserID:     userID,
			Address:    account.Address,
			PrivateKey: account.PrivateKey,
			CreatedAt:  service.now(),
		})
		if err != nil {
			return nil, err
		}

		// a concurrent caller may have won the insert, read back the stored row
		wallet, err = datastore.GetWallet(ctx, service.postgresDB, userID)
		if err != nil {
			return nil, err
		}

		if created {
			WalletsCreated.Inc()
			log.WithField("user_id", userID).Info("wallet created")
		}
	}

	balance, err := service.chain.BalanceOf(ctx, wallet.Address)
	if err != nil {
		return nil, errorx.Wrap(fmt.Errorf("balance of %s: %w", wallet.Address, err), errorx.Upstream)
	}

	return &models.WalletInfo{
		Address: wallet.Address,
		Balance: balance,
		Created: created,
	}, nil
}

// RevealWallet returns the stored credential. It never creates a wallet.
func (service *ServiceWallet) RevealWallet(ctx context.Context, userID string) (*models.WalletSecret, error) {
	if userID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	wallet, err := datastore.GetWallet(ctx, service.postgresDB, userID)
	if isNoRows(err) {
		return nil, errorx.Wrap(ErrWalletNotFound, errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", userID).Info("wallet credential revealed")
	return &models.WalletSecret{
		Address:    wallet.Address,
		PrivateKey: wallet.PrivateKey,
	}, nil
}
