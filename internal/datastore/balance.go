package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"trezzy/internal/models"
)

func CreateTableUserBalance(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.UserBalance)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// AddBalance increments the balance, creating the row at amount when absent.
func AddBalance(ctx context.Context, db bun.IDB, userID string, amount int64, now time.Time) (int64, error) {
	var balance int64
	err := db.NewRaw(`
		INSERT INTO user_balance (user_id, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
			SET balance = user_balance.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at
		RETURNING balance`, userID, amount, now).Scan(ctx, &balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// DeductBalance decrements the balance and clamps it at zero.
func DeductBalance(ctx context.Context, db bun.IDB, userID string, amount int64, now time.Time) (int64, error) {
	var balance int64
	err := db.NewRaw(`
		INSERT INTO user_balance (user_id, balance, updated_at) VALUES (?, 0, ?)
		ON CONFLICT (user_id) DO UPDATE
			SET balance = CASE WHEN user_balance.balance > ? THEN user_balance.balance - ? ELSE 0 END,
				updated_at = EXCLUDED.updated_at
		RETURNING balance`, userID, now, amount, amount).Scan(ctx, &balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func SetBalance(ctx context.Context, db bun.IDB, userID string, amount int64, now time.Time) (int64, error) {
	var balance int64
	err := db.NewRaw(`
		INSERT INTO user_balance (user_id, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE
			SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at
		RETURNING balance`, userID, amount, now).Scan(ctx, &balance)
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func GetUserBalance(ctx context.Context, db bun.IDB, userID string) (*models.UserBalance, error) {
	var balance models.UserBalance
	err := db.NewSelect().Model(&balance).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetBalancesPage lists balances from the highest down, ties by user id.
func GetBalancesPage(ctx context.Context, db bun.IDB, limit int, offset int) ([]*models.UserBalance, error) {
	var balances []*models.UserBalance
	err := db.NewSelect().Model(&balances).
		OrderExpr("balance DESC, user_id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return balances, nil
}
