package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const (
	DEFAULT_TASK_EXPIRY_SCHEDULE = "@every 5m"
	TASK_EXPIRY_TIMEOUT          = 30 * time.Second
)

type taskExpirer interface {
	ExpireTasks(ctx context.Context) (int64, error)
}

// TaskExpiryJob deactivates tasks whose expiry has passed.
type TaskExpiryJob struct {
	tasks    taskExpirer
	schedule string
}

func NewTaskExpiryJob(tasks taskExpirer, schedule string) *TaskExpiryJob {
	if schedule == "" {
		schedule = DEFAULT_TASK_EXPIRY_SCHEDULE
	}
	return &TaskExpiryJob{tasks, schedule}
}

func (j *TaskExpiryJob) Start(cronRunner *cron.Cron) error {
	_, err := cronRunner.AddFunc(j.schedule, j.runScheduledTask)
	if err != nil {
		return err
	}

	log.WithField("cron", j.schedule).Info("Task expiry cronjob start")
	j.runScheduledTask()
	return nil
}

func (j *TaskExpiryJob) runScheduledTask() {
	ctx, cancel := context.WithTimeout(context.Background(), TASK_EXPIRY_TIMEOUT)
	defer cancel()

	n, err := j.tasks.ExpireTasks(ctx)
	if err != nil {
		log.WithError(err).Error("expire tasks")
		return
	}
	if n > 0 {
		log.WithField("count", n).Info("tasks expired")
	}
}
