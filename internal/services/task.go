package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/samber/do"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"trezzy/internal/chain"
	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg"
	"trezzy/internal/pkg/caching"
	"trezzy/internal/pkg/errorx"
)

type ServiceTask struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache

	serviceConfig *ServiceConfig

	now func() time.Time
}

func NewServiceTask(container *do.Injector) (*ServiceTask, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceTask{container, postgresDB, readonlyPostgresDB, cache, serviceConfig, pkg.NowUTC}, nil
}

func (service *ServiceTask) activeTasks(ctx context.Context) ([]*models.Task, error) {
	return caching.UseCache(ctx, service.cache, DBKeyActiveTasks(), CACHE_TTL_5_MINS, func() ([]*models.Task, error) {
		return datastore.GetActiveTasks(ctx, service.readonlyPostgresDB)
	})
}

func (service *ServiceTask) invalidateActiveTasks(ctx context.Context) {
	if err := caching.Invalidate(ctx, service.cache, DBKeyActiveTasks()); err != nil {
		log.WithError(err).Warn("invalidate active tasks")
	}
}

// ListOpenTasks returns active, unexpired tasks the user has not submitted yet.
// An empty userID lists every open task.
func (service *ServiceTask) ListOpenTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := service.activeTasks(ctx)
	if err != nil {
		return nil, err
	}

	submitted := map[string]bool{}
	if userID != "" {
		ids, err := datastore.GetSubmittedTaskIDs(ctx, service.postgresDB, userID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			submitted[id] = true
		}
	}

	now := service.now()
	open := make([]*models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Open(now) && !submitted[task.ID] {
			open = append(open, task)
		}
	}

	return open, nil
}

func (service *ServiceTask) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	if taskID == "" {
		return nil, errorx.Wrap(ErrTaskNotFound, errorx.NotExist)
	}

	task, err := datastore.GetTask(ctx, service.postgresDB, taskID)
	if isNoRows(err) {
		return nil, errorx.Wrap(ErrTaskNotFound, errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	return task, nil
}

func validLink(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (service *ServiceTask) CreateTask(ctx context.Context, input *models.TaskInput) (*models.Task, error) {
	taskType := strings.TrimSpace(input.Type)
	description := strings.TrimSpace(input.Description)
	link := strings.TrimSpace(input.Link)
	if taskType == "" || description == "" || link == "" {
		return nil, errorx.Wrap(ErrTaskFieldsRequired, errorx.Validation)
	}
	if !validLink(link) {
		return nil, errorx.Wrap(ErrInvalidLink, errorx.Validation)
	}
	if input.Reward < 0 {
		return nil, errorx.Wrap(ErrInvalidAmount, errorx.Validation)
	}

	now := service.now()
	task := &models.Task{
		ID:          uuid.NewString(),
		Type:        taskType,
		Slug:        slug.Make(taskType),
		Description: description,
		Link:        link,
		Reward:      input.Reward,
		Active:      true,
		CreatedAt:   now,
	}
	if input.ExpiresAt != nil {
		expiresAt := input.ExpiresAt.UTC().Truncate(time.Second)
		if !expiresAt.After(now) {
			return nil, errorx.Wrap(fmt.Errorf("expiresAt must be in the future"), errorx.Validation)
		}
		task.ExpiresAt = &expiresAt
	}

	if err := datastore.InsertTask(ctx, service.postgresDB, task); err != nil {
		return nil, err
	}

	service.invalidateActiveTasks(ctx)
	log.WithFields(log.Fields{"task_id": task.ID, "slug": task.Slug}).Info("task created")
	return task, nil
}

func (service *ServiceTask) DeactivateTask(ctx context.Context, taskID string) error {
	updated, err := datastore.DeactivateTask(ctx, service.postgresDB, taskID)
	if err != nil {
		return err
	}
	if !updated {
		return errorx.Wrap(ErrTaskNotFound, errorx.NotExist)
	}

	service.invalidateActiveTasks(ctx)
	return nil
}

// ExpireTasks deactivates every task past its expiry and reports how many changed.
func (service *ServiceTask) ExpireTasks(ctx context.Context) (int64, error) {
	n, err := datastore.DeactivateExpiredTasks(ctx, service.postgresDB, service.now())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		service.invalidateActiveTasks(ctx)
	}
	return n, nil
}

func (service *ServiceTask) SubmitTask(ctx context.Context, input *models.SubmissionInput) (*models.TaskSubmission, error) {
	if input.UserID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}
	walletAddress := strings.TrimSpace(input.WalletAddress)
	if !chain.IsAddress(walletAddress) {
		return nil, errorx.Wrap(ErrInvalidWallet, errorx.Validation)
	}

	task, err := service.GetTask(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	now := service.now()
	if !task.Open(now) {
		return nil, errorx.Wrap(ErrTaskClosed, errorx.Conflict)
	}

	submission := &models.TaskSubmission{
		UserID:        input.UserID,
		TaskID:        task.ID,
		WalletAddress: walletAddress,
		Handle:        strings.TrimPrefix(strings.TrimSpace(input.Handle), "@"),
		Status:        models.SubmissionStatusPending,
		CreatedAt:     now,
	}

	inserted := false
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		inserted, err = datastore.InsertSubmissionIfAbsent(ctx, tx, submission)
		if err != nil || !inserted {
			return err
		}

		return datastore.InsertHistory(ctx, tx, &models.HistoryEntry{
			UserID:    input.UserID,
			Type:      models.HistoryTypeTaskSubmission,
			Message:   fmt.Sprintf("submitted task %s, pending review", task.Slug),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		return nil, errorx.WithDetails(ErrAlreadySubmitted, errorx.Conflict, map[string]any{"reason": REASON_ALREADY_SUBMITTED})
	}

	TaskSubmissions.WithLabelValues(string(models.SubmissionStatusPending)).Inc()
	return submission, nil
}

// ListSubmissions groups every submission by user, most recently active user first.
func (service *ServiceTask) ListSubmissions(ctx context.Context) ([]*models.UserSubmissions, error) {
	submissions, err := datastore.GetAllSubmissions(ctx, service.postgresDB)
	if err != nil {
		return nil, err
	}

	return groupSubmissions(submissions), nil
}

func groupSubmissions(submissions []*models.TaskSubmission) []*models.UserSubmissions {
	groups := make([]*models.UserSubmissions, 0)
	byUser := map[string]*models.UserSubmissions{}
	for _, submission := range submissions {
		group, ok := byUser[submission.UserID]
		if !ok {
			group = &models.UserSubmissions{UserID: submission.UserID, Submissions: make([]*models.TaskSubmission, 0)}
			byUser[submission.UserID] = group
			groups = append(groups, group)
		}
		if group.Handle == "" {
			group.Handle = submission.Handle
		}
		group.Submissions = append(group.Submissions, submission)
	}
	return groups
}

func (service *ServiceTask) ListUserSubmissions(ctx context.Context, userID string) (*models.UserSubmissions, error) {
	if userID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	submissions, err := datastore.GetSubmissionsByUser(ctx, service.postgresDB, userID)
	if err != nil {
		return nil, err
	}

	groups := groupSubmissions(submissions)
	if len(groups) == 0 {
		return &models.UserSubmissions{UserID: userID, Submissions: submissions}, nil
	}
	return groups[0], nil
}

// ReviewSubmissions moves pending submissions to status. Accepted submissions
// credit the task reward once. Already reviewed ids are skipped.
func (service *ServiceTask) ReviewSubmissions(ctx context.Context, ids []int64, status models.SubmissionStatus) (*models.ReviewResult, error) {
	if status != models.SubmissionStatusAccepted && status != models.SubmissionStatusDeclined {
		return nil, errorx.Wrap(ErrInvalidStatus, errorx.Validation)
	}
	if len(ids) == 0 {
		return nil, errorx.Wrap(ErrNoSubmissions, errorx.Validation)
	}

	defaultReward, _ := service.serviceConfig.GetIntConfig(ctx, models.CONFIG_TASK_REWARD, DEFAULT_TASK_REWARD)
	now := service.now()
	result := &models.ReviewResult{}
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, id := range ids {
			submission, err := datastore.GetSubmission(ctx, tx, id)
			if isNoRows(err) {
				continue
			}
			if err != nil {
				return err
			}

			updated, err := datastore.ReviewSubmission(ctx, tx, id, status, now)
			if err != nil {
				return err
			}
			if !updated {
				continue
			}
			result.Updated++

			taskName := submission.TaskID
			reward := int64(defaultReward)
			task, err := datastore.GetTask(ctx, tx, submission.TaskID)
			if err != nil && !isNoRows(err) {
				return err
			}
			if task != nil {
				taskName = task.Slug
				if task.Reward > 0 {
					reward = task.Reward
				}
			}

			if status == models.SubmissionStatusDeclined {
				err = datastore.InsertHistory(ctx, tx, &models.HistoryEntry{
					UserID:    submission.UserID,
					Type:      models.HistoryTypeTaskReview,
					Message:   fmt.Sprintf("task %s was declined", taskName),
					CreatedAt: now,
				})
				if err != nil {
					return err
				}
				continue
			}

			_, err = credit(ctx, tx, submission.UserID, reward, models.HistoryTypeTaskReview, fmt.Sprintf("+%d points: task %s accepted", reward, taskName), now)
			if err != nil {
				return err
			}
			result.Credited++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	TaskSubmissions.WithLabelValues(string(status)).Add(float64(result.Updated))
	return result, nil
}
