package services

import (
	"context"
	"strings"
	"time"

	"github.com/samber/do"
	"github.com/uptrace/bun"

	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg"
	"trezzy/internal/pkg/errorx"
)

type ServiceHistory struct {
	container  *do.Injector
	postgresDB *bun.DB

	now func() time.Time
}

func NewServiceHistory(container *do.Injector) (*ServiceHistory, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	return &ServiceHistory{container, postgresDB, pkg.NowUTC}, nil
}

func (service *ServiceHistory) SaveHistory(ctx context.Context, userID string, historyType models.HistoryType, message string) (*models.HistoryEntry, error) {
	if userID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}
	if !historyType.Valid() {
		return nil, errorx.Wrap(ErrInvalidHistoryType, errorx.Validation)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errorx.Wrap(ErrMessageRequired, errorx.Validation)
	}

	entry := &models.HistoryEntry{
		UserID:    userID,
		Type:      historyType,
		Message:   message,
		CreatedAt: service.now(),
	}
	if err := datastore.InsertHistory(ctx, service.postgresDB, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetHistory returns the newest entries first. A limit outside 1..HISTORY_MAX_LIMIT
// falls back to the default or the maximum.
func (service *ServiceHistory) GetHistory(ctx context.Context, userID string, limit int) ([]*models.HistoryEntry, error) {
	if userID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}
	if limit <= 0 {
		limit = HISTORY_DEFAULT_LIMIT
	}
	if limit > HISTORY_MAX_LIMIT {
		limit = HISTORY_MAX_LIMIT
	}

	return datastore.GetHistory(ctx, service.postgresDB, userID, limit)
}

func (service *ServiceHistory) DeleteHistory(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	return datastore.DeleteHistory(ctx, service.postgresDB, userID)
}

func (service *ServiceHistory) HasUnread(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	return datastore.HasUnreadHistory(ctx, service.postgresDB, userID)
}

func (service *ServiceHistory) MarkRead(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	return datastore.MarkHistoryRead(ctx, service.postgresDB, userID)
}
