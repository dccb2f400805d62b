package datastore

import (
	"context"

	"github.com/uptrace/bun"
)

// CreateTables creates every table and index the backend needs. Safe to rerun.
func CreateTables(ctx context.Context, db bun.IDB) error {
	steps := []func(context.Context, bun.IDB) error{
		CreateTableConfig,
		CreateTableWallet,
		CreateTableUserBalance,
		CreateTableClaimState,
		CreateTableHistory,
		CreateTableTask,
		CreateTableTaskSubmission,
		CreateTableReferral,
	}

	for _, step := range steps {
		if err := step(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
