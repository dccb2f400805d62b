package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/services"
)

func defaultConfigs(lookup func(string) (string, bool)) []models.Config {
	configs := []models.Config{
		{Key: models.CONFIG_CLAIM_AMOUNT, Value: strconv.Itoa(services.DEFAULT_CLAIM_AMOUNT)},
		{Key: models.CONFIG_CLAIM_COOLDOWN_HOURS, Value: strconv.Itoa(services.DEFAULT_CLAIM_COOLDOWN_HOURS)},
		{Key: models.CONFIG_TASK_REWARD, Value: strconv.Itoa(services.DEFAULT_TASK_REWARD)},
		{Key: models.CONFIG_ADMIN_IDS, Value: ""},
	}

	for i := range configs {
		v, ok := lookup(configs[i].Key)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if err := services.ValidateConfig(configs[i].Key, v); err != nil {
			log.WithError(err).WithField("key", configs[i].Key).Warn("ignoring env override")
			continue
		}
		configs[i].Value = v
	}
	return configs
}

// seedConfigs writes configs, keeping stored values unless force is set.
func seedConfigs(ctx context.Context, db bun.IDB, configs []models.Config, force bool) (int, error) {
	written := 0
	for _, config := range configs {
		if !force {
			_, err := datastore.GetConfigByKey(ctx, db, config.Key)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return written, err
			}
		}

		config := config
		if err := datastore.UpsertConfig(ctx, db, &config); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func readTaskCSV(r io.Reader) ([]*models.TaskInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var inputs []*models.TaskInput
	// first row is the header
	for i, record := range records[1:] {
		row := i + 2
		if len(record) < 4 {
			return nil, fmt.Errorf("row %d: expected at least 4 columns, got %d", row, len(record))
		}

		reward, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: reward: %w", row, err)
		}

		input := &models.TaskInput{
			Type:        record[0],
			Description: record[1],
			Link:        record[2],
			Reward:      reward,
		}
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			expiresAt, err := time.Parse(time.RFC3339, strings.TrimSpace(record[4]))
			if err != nil {
				return nil, fmt.Errorf("row %d: expiresAt: %w", row, err)
			}
			input.ExpiresAt = &expiresAt
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
