package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/samber/do"
	"github.com/uptrace/bun"

	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg"
	"trezzy/internal/pkg/caching"
	"trezzy/internal/pkg/errorx"
)

type ServiceConfig struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	envs               map[string]string
}

func NewServiceConfig(container *do.Injector) (*ServiceConfig, error) {
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

	envs, err := do.InvokeNamed[map[string]string](container, "envs")
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{container, postgresDB, readonlyPostgresDB, cache, envs}, nil
}

// intConfigKeys are the config rows holding positive integers.
var intConfigKeys = map[string]bool{
	models.CONFIG_CLAIM_AMOUNT:         true,
	models.CONFIG_CLAIM_COOLDOWN_HOURS: true,
	models.CONFIG_TASK_REWARD:          true,
}

// ValidateConfig rejects unknown keys and integer values below 1.
func ValidateConfig(key string, value string) error {
	if key == models.CONFIG_ADMIN_IDS {
		return nil
	}
	if !intConfigKeys[key] {
		return errorx.Wrap(ErrUnknownConfigKey, errorx.Validation)
	}
	if _, ok := positiveInt(value); !ok {
		return errorx.Wrap(ErrConfigValue, errorx.Validation)
	}
	return nil
}

func positiveInt(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// defaultFor prefers the process environment over the compiled-in default.
func (service *ServiceConfig) defaultFor(key string, defaultValue int) int {
	if n, ok := positiveInt(service.envs[key]); ok {
		return n
	}
	return defaultValue
}

// GetIntConfig falls back to the default when the stored value is missing or
// not a positive integer, so a bad row can never turn a credit negative.
func (service *ServiceConfig) GetIntConfig(ctx context.Context, key string, defaultValue int) (int, error) {
	defaultValue = service.defaultFor(key, defaultValue)
	callback := func() (int, error) {
		config, err := datastore.GetConfigByKey(ctx, service.readonlyPostgresDB, key)
		if err != nil {
			return defaultValue, err
		}

		intValue, ok := positiveInt(config.Value)
		if !ok {
			return defaultValue, errorx.Wrap(ErrConfigValue, errorx.Validation)
		}

		return intValue, nil
	}

	value, err := caching.UseCache(ctx, service.cache, DBKeyConfig(key), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return defaultValue, err
	}

	return value, nil
}

func (service *ServiceConfig) SetConfig(ctx context.Context, key string, value string) error {
	if err := ValidateConfig(key, value); err != nil {
		return err
	}

	err := datastore.UpsertConfig(ctx, service.postgresDB, &models.Config{Key: key, Value: strings.TrimSpace(value)})
	if err != nil {
		return err
	}

	return caching.Invalidate(ctx, service.cache, DBKeyConfig(key))
}

// IsAdmin reads the allow-list on every call so edits apply without a restart.
// The ADMIN_IDS config row wins over the environment.
func (service *ServiceConfig) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	list := service.envs[models.CONFIG_ADMIN_IDS]
	config, err := datastore.GetConfigByKey(ctx, service.postgresDB, models.CONFIG_ADMIN_IDS)
	if err == nil {
		list = config.Value
	} else if !isNoRows(err) {
		return false, err
	}

	return pkg.ParseIDSet(list)[userID], nil
}
