package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg"
	"trezzy/internal/pkg/errorx"
)

type ServiceClaim struct {
	container  *do.Injector
	postgresDB *bun.DB
	rs         *redsync.Redsync

	serviceConfig *ServiceConfig

	now func() time.Time
}

func NewServiceClaim(container *do.Injector) (*ServiceClaim, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceClaim{container, postgresDB, rs, serviceConfig, pkg.NowUTC}, nil
}

// AttemptClaim grants the periodic reward at most once per cooldown window.
// The window is recorded before the balance is credited, both in one
// transaction, so a concurrent attempt always observes the new timestamp.
func (service *ServiceClaim) AttemptClaim(ctx context.Context, userID string) (*models.ClaimResult, error) {
	if userID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	mutex := service.rs.NewMutex(LockKeyUserClaim(userID))
	if err := mutex.TryLockContext(ctx); err != nil {
		return nil, lockError(err)
	}
	//nolint:errcheck
	defer mutex.UnlockContext(ctx)

	amount, _ := service.serviceConfig.GetIntConfig(ctx, models.CONFIG_CLAIM_AMOUNT, DEFAULT_CLAIM_AMOUNT)
	hours, _ := service.serviceConfig.GetIntConfig(ctx, models.CONFIG_CLAIM_COOLDOWN_HOURS, DEFAULT_CLAIM_COOLDOWN_HOURS)
	cooldown := time.Duration(hours) * time.Hour

	now := service.now()
	granted := false
	var balance int64
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		granted, err = datastore.RecordClaim(ctx, tx, userID, now, now.Add(-cooldown))
		if err != nil || !granted {
			return err
		}

		balance, err = credit(ctx, tx, userID, int64(amount), models.HistoryTypeClaim, fmt.Sprintf("+%d points: claim", amount), now)
		return err
	})
	if err != nil {
		ClaimAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	if !granted {
		ClaimAttempts.WithLabelValues("denied").Inc()
		return nil, service.cooldownError(ctx, userID, now, cooldown)
	}

	ClaimAttempts.WithLabelValues("granted").Inc()
	log.WithFields(log.Fields{"user_id": userID, "amount": amount}).Info("claim granted")
	return &models.ClaimResult{Success: true, Amount: int64(amount), Balance: balance}, nil
}

// lockError reports a held lock as a conflict. Anything else means redis could
// not be reached.
func lockError(err error) error {
	var taken *redsync.ErrTaken
	if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
		return errorx.Wrap(ErrUserLock, errorx.Conflict)
	}
	return errorx.Wrap(err, errorx.Upstream)
}

func (service *ServiceClaim) cooldownError(ctx context.Context, userID string, now time.Time, cooldown time.Duration) error {
	hoursRemaining := 1
	state, err := datastore.GetClaimState(ctx, service.postgresDB, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("read claim state")
	} else {
		hoursRemaining = pkg.CeilHours(state.LastClaimAt.Add(cooldown).Sub(now))
		if hoursRemaining < 1 {
			hoursRemaining = 1
		}
	}

	return errorx.WithDetails(ErrClaimCooldown, errorx.State, map[string]any{
		"reason":         REASON_COOLDOWN,
		"hoursRemaining": hoursRemaining,
	})
}
