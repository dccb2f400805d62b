package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"trezzy/internal/models"
)

func CreateTableClaimState(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.ClaimState)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

// RecordClaim sets last_claim_at to now if the user never claimed or the
// previous claim is not later than threshold. It reports whether it wrote.
func RecordClaim(ctx context.Context, db bun.IDB, userID string, now, threshold time.Time) (bool, error) {
	res, err := db.NewRaw(`
		INSERT INTO claim_state (user_id, last_claim_at) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE
			SET last_claim_at = EXCLUDED.last_claim_at
			WHERE claim_state.last_claim_at <= ?`, userID, now, threshold).Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func GetClaimState(ctx context.Context, db bun.IDB, userID string) (*models.ClaimState, error) {
	var state models.ClaimState
	err := db.NewSelect().Model(&state).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &state, nil
}
