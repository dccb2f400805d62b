package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"trezzy/internal/api/client"
	"trezzy/internal/datastore"
)

const MIGRATE_TIMEOUT = time.Minute

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandImportTasks(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Description: "Create tables and indexes",
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithTimeout(context.Background(), MIGRATE_TIMEOUT)
			defer cancel()

			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := datastore.CreateTables(ctx, db); err != nil {
				return err
			}

			log.Info("Migration success")
			return nil
		},
	}
}

func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite values already stored",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithTimeout(context.Background(), MIGRATE_TIMEOUT)
			defer cancel()

			db, err := getDb()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := seedConfigs(ctx, db, defaultConfigs(os.LookupEnv), c.Bool("force"))
			if err != nil {
				return err
			}

			log.WithField("written", n).Info("Config migration success")
			return nil
		},
	}
}

func commandImportTasks() *cli.Command {
	return &cli.Command{
		Name:        "import-tasks",
		Description: "Create tasks from a csv file with columns type,description,link,reward[,expiresAt] through the backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired("BACKEND_URL", "ADMIN_API_KEY")
			if err != nil {
				return err
			}

			f, err := os.Open(c.String("file"))
			if err != nil {
				return err
			}
			defer f.Close()

			inputs, err := readTaskCSV(f)
			if err != nil {
				return err
			}

			backend := client.New(&client.Config{
				BaseURL:     vs["BACKEND_URL"],
				AdminAPIKey: vs["ADMIN_API_KEY"],
			})

			var errs []error
			for i, input := range inputs {
				ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
				task, err := backend.CreateTask(ctx, input)
				cancel()
				if err != nil {
					log.WithError(err).WithField("row", i+2).Error("create task")
					errs = append(errs, err)
					continue
				}
				log.WithFields(log.Fields{"id": task.ID, "slug": task.Slug}).Info("task imported")
			}

			return errors.Join(errs...)
		},
	}
}

func getDb() (*bun.DB, error) {
	if _, err := env.EnvsRequired("DB_DSN"); err != nil {
		return nil, err
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
