package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"trezzy/internal/models"
)

func CreateTableWallet(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Wallet)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// InsertWalletIfAbsent stores the wallet unless the user already has one.
// It reports whether this call created the row.
func InsertWalletIfAbsent(ctx context.Context, db bun.IDB, wallet *models.Wallet) (bool, error) {
	res, err := db.NewInsert().Model(wallet).On("CONFLICT (user_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func GetWallet(ctx context.Context, db bun.IDB, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.NewSelect().Model(&wallet).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func ExistsWallet(ctx context.Context, db bun.IDB, userID string) (bool, error) {
	return db.NewSelect().Model((*models.Wallet)(nil)).Where("user_id = ?", userID).Exists(ctx)
}
