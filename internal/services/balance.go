package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samber/do"
	"github.com/uptrace/bun"

	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg"
	"trezzy/internal/pkg/errorx"
)

type ServiceBalance struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB

	now func() time.Time
}

func NewServiceBalance(container *do.Injector) (*ServiceBalance, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	return &ServiceBalance{container, postgresDB, readonlyPostgresDB, pkg.NowUTC}, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// credit adds amount to the user's balance and records one history entry, on db
// which is usually a transaction owned by the caller.
func credit(ctx context.Context, db bun.IDB, userID string, amount int64, historyType models.HistoryType, message string, now time.Time) (int64, error) {
	balance, err := datastore.AddBalance(ctx, db, userID, amount, now)
	if err != nil {
		return 0, err
	}

	err = datastore.InsertHistory(ctx, db, &models.HistoryEntry{
		UserID:    userID,
		Type:      historyType,
		Message:   message,
		CreatedAt: now,
	})
	if err != nil {
		return 0, err
	}

	BalanceUpdates.WithLabelValues(string(models.BalanceActionAdd)).Inc()
	return balance, nil
}

func (service *ServiceBalance) UpdateBalance(ctx context.Context, userID string, action models.BalanceAction, amount int64, reason string) (int64, error) {
	if userID == "" {
		return 0, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}
	if !action.Valid() {
		return 0, errorx.Wrap(ErrInvalidAction, errorx.Validation)
	}
	if amount <= 0 {
		return 0, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}

	now := service.now()
	var balance int64
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		switch action {
		case models.BalanceActionAdd:
			balance, err = datastore.AddBalance(ctx, tx, userID, amount, now)
		case models.BalanceActionDeduct:
			balance, err = datastore.DeductBalance(ctx, tx, userID, amount, now)
		case models.BalanceActionSet:
			balance, err = datastore.SetBalance(ctx, tx, userID, amount, now)
		}
		if err != nil {
			return err
		}

		if action == models.BalanceActionSet {
			return nil
		}

		return datastore.InsertHistory(ctx, tx, &models.HistoryEntry{
			UserID:    userID,
			Type:      models.HistoryTypeBalance,
			Message:   balanceMessage(action, amount, reason),
			CreatedAt: now,
		})
	})
	if err != nil {
		return 0, err
	}

	BalanceUpdates.WithLabelValues(string(action)).Inc()
	return balance, nil
}

func balanceMessage(action models.BalanceAction, amount int64, reason string) string {
	sign := "+"
	if action == models.BalanceActionDeduct {
		sign = "-"
	}
	if reason == "" {
		return fmt.Sprintf("%s%d points", sign, amount)
	}
	return fmt.Sprintf("%s%d points: %s", sign, amount, reason)
}

// GetBalance returns 0 for users that never had a balance change.
func (service *ServiceBalance) GetBalance(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	balance, err := datastore.GetUserBalance(ctx, service.postgresDB, userID)
	if isNoRows(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return balance.Balance, nil
}
