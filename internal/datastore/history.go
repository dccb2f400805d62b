package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"trezzy/internal/models"
)

func CreateTableHistory(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.HistoryEntry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.HistoryEntry)(nil)).Index("index_history_user_id_created_at").IfNotExists().Column("user_id", "created_at").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertHistory(ctx context.Context, db bun.IDB, entry *models.HistoryEntry) error {
	_, err := db.NewInsert().Model(entry).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetHistory(ctx context.Context, db bun.IDB, userID string, limit int) ([]*models.HistoryEntry, error) {
	entries := make([]*models.HistoryEntry, 0)
	err := db.NewSelect().Model(&entries).
		Where("user_id = ?", userID).
		Order("created_at DESC", "id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func DeleteHistory(ctx context.Context, db bun.IDB, userID string) (int64, error) {
	res, err := db.NewDelete().Model((*models.HistoryEntry)(nil)).Where("user_id = ?", userID).Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func HasUnreadHistory(ctx context.Context, db bun.IDB, userID string) (bool, error) {
	return db.NewSelect().Model((*models.HistoryEntry)(nil)).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Exists(ctx)
}

func MarkHistoryRead(ctx context.Context, db bun.IDB, userID string) (int64, error) {
	res, err := db.NewUpdate().Model((*models.HistoryEntry)(nil)).
		Set("is_read = ?", true).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
