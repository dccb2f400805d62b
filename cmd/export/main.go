package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"

	"trezzy/internal/datastore"
)

const EXPORT_PAGE_SIZE = 100

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
		Name: "export",
		Commands: []*cli.Command{
			commandExport(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandExport() *cli.Command {
	return &cli.Command{
		Name:  "balances",
		Usage: "write every point balance as csv, highest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "output file, stdout when empty",
			},
		},
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired("DB_DSN")
			if err != nil {
				return err
			}

			sqldb := sql.OpenDB(pgdriver.NewConnector(
				pgdriver.WithDSN(vs["DB_DSN"]),
				pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
			))
			db := bun.NewDB(sqldb, pgdialect.New())
			defer db.Close()

			var out io.Writer = os.Stdout
			if path := c.String("out"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			n, err := exportBalances(context.Background(), db, out, EXPORT_PAGE_SIZE)
			if err != nil {
				return err
			}

			log.WithField("rows", n).Info("DONE ALL")
			return nil
		},
	}
}

func exportBalances(ctx context.Context, db bun.IDB, out io.Writer, limit int) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"user_id", "balance", "updated_at"}); err != nil {
		return 0, err
	}

	rows := 0
	for offset := 0; ; offset += limit {
		balances, err := datastore.GetBalancesPage(ctx, db, limit, offset)
		if err != nil {
			return rows, err
		}
		if len(balances) == 0 {
			break
		}

		for _, b := range balances {
			record := []string{b.UserID, strconv.FormatInt(b.Balance, 10), b.UpdatedAt.UTC().Format(time.RFC3339)}
			if err := w.Write(record); err != nil {
				return rows, err
			}
			rows++
		}
		log.WithFields(log.Fields{"offset": offset, "limit": limit}).Debug("page exported")
	}

	w.Flush()
	return rows, w.Error()
}
