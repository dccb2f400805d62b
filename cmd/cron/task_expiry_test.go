package main

import (
	"context"
	"errors"
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	calls int
	err   error
}

func (f *fakeExpirer) ExpireTasks(ctx context.Context) (int64, error) {
	f.calls++
	return 1, f.err
}

func TestTaskExpiryJobRunsOnStart(t *testing.T) {
	f := &fakeExpirer{}
	job := NewTaskExpiryJob(f, "")
	require.Equal(t, DEFAULT_TASK_EXPIRY_SCHEDULE, job.schedule)

	runner := cron.New()
	require.NoError(t, job.Start(runner))
	require.Equal(t, 1, f.calls)
	require.Len(t, runner.Entries(), 1)

	f.err = errors.New("db down")
	job.runScheduledTask()
	require.Equal(t, 2, f.calls)
}

func TestTaskExpiryJobRejectsBadSchedule(t *testing.T) {
	job := NewTaskExpiryJob(&fakeExpirer{}, "not a schedule")
	require.Error(t, job.Start(cron.New()))
}
