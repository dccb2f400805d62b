package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"trezzy/internal/models"
)

func CreateTableReferral(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Referral)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Referral)(nil)).Index("index_referral_referrer_id").IfNotExists().Column("referrer_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// InsertReferralIfAbsent reports false when the referred user is already attributed.
func InsertReferralIfAbsent(ctx context.Context, db bun.IDB, referral *models.Referral) (bool, error) {
	res, err := db.NewInsert().Model(referral).On("CONFLICT (referred_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func CountReferrals(ctx context.Context, db bun.IDB, referrerID string) (int, error) {
	return db.NewSelect().Model((*models.Referral)(nil)).Where("referrer_id = ?", referrerID).Count(ctx)
}
