package main

import (
	"database/sql"
	"os"

	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"trezzy/internal/pkg/caching"
	"trezzy/internal/services"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

type CronJob interface {
	Start(cronRunner *cron.Cron) error
}

func main() {
	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob() *cli.Command {
	return &cli.Command{
		Name: "cron",
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired("DB_DSN")
			if err != nil {
				return err
			}

			container, err := newContainer(vs)
			if err != nil {
				return err
			}

			serviceTask, err := do.Invoke[*services.ServiceTask](container)
			if err != nil {
				return err
			}

			cronRunner := cron.New()
			jobs := []CronJob{
				NewTaskExpiryJob(serviceTask, os.Getenv("CRON_TASK_EXPIRY")),
			}
			for _, job := range jobs {
				if err := job.Start(cronRunner); err != nil {
					return err
				}
			}

			log.Info("Start cronjob")
			cronRunner.Run()
			return nil
		},
	}
}

func newContainer(vs map[string]string) (*do.Injector, error) {
	postgresDB, err := getDb()
	if err != nil {
		return nil, err
	}
	dbRedis, err := getRedis()
	if err != nil {
		return nil, err
	}
	cache, err := caching.NewCacheRedis(dbRedis, false)
	if err != nil {
		return nil, err
	}

	injector := do.New()
	do.ProvideNamedValue(injector, "envs", vs)
	do.ProvideValue(injector, postgresDB)
	do.ProvideNamedValue(injector, "db-readonly", postgresDB)
	do.ProvideValue[caching.Cache](injector, cache)
	services.Provide(injector)
	return injector, nil
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}

// getRedis connects to the API's cache so task list invalidation reaches it.
func getRedis() (redis.UniversalClient, error) {
	clusterRedisURL := os.Getenv("CLUSTER_REDIS_CACHE")
	if clusterRedisURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterRedisURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClusterClient(clusterOpts), nil
	}

	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv("REDIS_CACHE"),
	})
}
