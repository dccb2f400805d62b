package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"trezzy/internal/models"
)

func CreateTableTask(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Task)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Task)(nil)).Index("index_task_active").IfNotExists().Column("active").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func CreateTableTaskSubmission(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.TaskSubmission)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.TaskSubmission)(nil)).Index("index_task_submission_user_id_task_id").IfNotExists().Unique().Column("user_id", "task_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.TaskSubmission)(nil)).Index("index_task_submission_status").IfNotExists().Column("status").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func InsertTask(ctx context.Context, db bun.IDB, task *models.Task) error {
	_, err := db.NewInsert().Model(task).Exec(ctx)
	if err != nil {
		return err
	}
	return nil
}

func GetTask(ctx context.Context, db bun.IDB, taskID string) (*models.Task, error) {
	var task models.Task
	err := db.NewSelect().Model(&task).Where("id = ?", taskID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func GetActiveTasks(ctx context.Context, db bun.IDB) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	err := db.NewSelect().Model(&tasks).Where("active = ?", true).Order("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func DeactivateTask(ctx context.Context, db bun.IDB, taskID string) (bool, error) {
	res, err := db.NewUpdate().Model((*models.Task)(nil)).
		Set("active = ?", false).
		Where("id = ?", taskID).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeactivateExpiredTasks turns off every active task whose expiry is not after now.
func DeactivateExpiredTasks(ctx context.Context, db bun.IDB, now time.Time) (int64, error) {
	res, err := db.NewUpdate().Model((*models.Task)(nil)).
		Set("active = ?", false).
		Where("active = ?", true).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", now).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// InsertSubmissionIfAbsent reports false when the user already submitted the task.
func InsertSubmissionIfAbsent(ctx context.Context, db bun.IDB, submission *models.TaskSubmission) (bool, error) {
	res, err := db.NewInsert().Model(submission).On("CONFLICT (user_id, task_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func GetSubmittedTaskIDs(ctx context.Context, db bun.IDB, userID string) ([]string, error) {
	ids := make([]string, 0)
	err := db.NewSelect().Model((*models.TaskSubmission)(nil)).
		Column("task_id").
		Where("user_id = ?", userID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func GetSubmission(ctx context.Context, db bun.IDB, id int64) (*models.TaskSubmission, error) {
	var submission models.TaskSubmission
	err := db.NewSelect().Model(&submission).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func GetAllSubmissions(ctx context.Context, db bun.IDB) ([]*models.TaskSubmission, error) {
	submissions := make([]*models.TaskSubmission, 0)
	err := db.NewSelect().Model(&submissions).Order("created_at DESC", "id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// ReviewSubmission moves a pending submission to status. It reports false
// when the submission is missing or already reviewed.
func ReviewSubmission(ctx context.Context, db bun.IDB, id int64, status models.SubmissionStatus, now time.Time) (bool, error) {
	res, err := db.NewUpdate().Model((*models.TaskSubmission)(nil)).
		Set("status = ?", status).
		Set("reviewed_at = ?", now).
		Where("id = ?", id).
		Where("status = ?", models.SubmissionStatusPending).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func GetSubmissionsByUser(ctx context.Context, db bun.IDB, userID string) ([]*models.TaskSubmission, error) {
	submissions := make([]*models.TaskSubmission, 0)
	err := db.NewSelect().Model(&submissions).Where("user_id = ?", userID).Order("created_at DESC", "id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
