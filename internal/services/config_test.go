package services

import (
	"context"
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg/errorx"
)

func TestIsAdmin(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, map[string]string{models.CONFIG_ADMIN_IDS: "1001,1002"})
	service := do.MustInvoke[*ServiceConfig](container)

	ok, err := service.IsAdmin(ctx, "1001")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = service.IsAdmin(ctx, "2002")
	require.NoError(t, err)
	require.False(t, ok)

	// the config row replaces the environment list immediately
	require.NoError(t, service.SetConfig(ctx, models.CONFIG_ADMIN_IDS, "2002"))

	ok, err = service.IsAdmin(ctx, "2002")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = service.IsAdmin(ctx, "1001")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGetIntConfig(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, map[string]string{models.CONFIG_TASK_REWARD: "300"})
	service := do.MustInvoke[*ServiceConfig](container)

	v, _ := service.GetIntConfig(ctx, models.CONFIG_TASK_REWARD, DEFAULT_TASK_REWARD)
	require.Equal(t, 300, v)

	v, _ = service.GetIntConfig(ctx, models.CONFIG_CLAIM_AMOUNT, DEFAULT_CLAIM_AMOUNT)
	require.Equal(t, DEFAULT_CLAIM_AMOUNT, v)

	require.NoError(t, service.SetConfig(ctx, models.CONFIG_CLAIM_AMOUNT, "55"))
	v, err := service.GetIntConfig(ctx, models.CONFIG_CLAIM_AMOUNT, DEFAULT_CLAIM_AMOUNT)
	require.NoError(t, err)
	require.Equal(t, 55, v)
}

func TestSetConfigRejectsNonPositiveIntegers(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, nil)
	service := do.MustInvoke[*ServiceConfig](container)

	for _, key := range []string{models.CONFIG_CLAIM_AMOUNT, models.CONFIG_CLAIM_COOLDOWN_HOURS, models.CONFIG_TASK_REWARD} {
		for _, value := range []string{"-50", "0", "ten"} {
			err := service.SetConfig(ctx, key, value)
			require.ErrorIs(t, err, ErrConfigValue, "%s=%s", key, value)
			require.Equal(t, errorx.Validation, errorx.KindOf(err))
		}
	}

	err := service.SetConfig(ctx, "SOMETHING", "1")
	require.ErrorIs(t, err, ErrUnknownConfigKey)
}

func TestGetIntConfigIgnoresNonPositiveValues(t *testing.T) {
	ctx := context.Background()
	container, _ := newTestContainer(t, map[string]string{
		models.CONFIG_CLAIM_AMOUNT:         "-50",
		models.CONFIG_CLAIM_COOLDOWN_HOURS: "0",
	})
	service := do.MustInvoke[*ServiceConfig](container)

	v, _ := service.GetIntConfig(ctx, models.CONFIG_CLAIM_AMOUNT, DEFAULT_CLAIM_AMOUNT)
	require.Equal(t, DEFAULT_CLAIM_AMOUNT, v)
	v, _ = service.GetIntConfig(ctx, models.CONFIG_CLAIM_COOLDOWN_HOURS, DEFAULT_CLAIM_COOLDOWN_HOURS)
	require.Equal(t, DEFAULT_CLAIM_COOLDOWN_HOURS, v)

	// a row written around the validation, e.g. by hand
	db := do.MustInvoke[*bun.DB](container)
	require.NoError(t, datastore.UpsertConfig(ctx, db, &models.Config{Key: models.CONFIG_TASK_REWARD, Value: "-1"}))
	v, _ = service.GetIntConfig(ctx, models.CONFIG_TASK_REWARD, DEFAULT_TASK_REWARD)
	require.Equal(t, DEFAULT_TASK_REWARD, v)
}
