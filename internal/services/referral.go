package services

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/bun"

	"trezzy/internal/datastore"
	"trezzy/internal/models"
	"trezzy/internal/pkg"
	"trezzy/internal/pkg/errorx"
)

type ServiceReferral struct {
	container  *do.Injector
	postgresDB *bun.DB
	rewards    *ServiceGacha[int64]

	now func() time.Time
}

func NewServiceReferral(container *do.Injector) (*ServiceReferral, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rewards, err := NewServiceGacha(ReferralRewardTiers)
	if err != nil {
		return nil, err
	}

	return &ServiceReferral{container, postgresDB, rewards, pkg.NowUTC}, nil
}

// RegisterReferral attributes newUserID to referrerID once and credits the
// referrer. Any later attempt for the same new user is denied.
func (service *ServiceReferral) RegisterReferral(ctx context.Context, referrerID string, newUserID string, handle string) (*models.ReferralResult, error) {
	if referrerID == "" || newUserID == "" {
		return nil, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}
	if referrerID == newUserID {
		ReferralAttempts.WithLabelValues("self").Inc()
		return nil, errorx.WithDetails(ErrSelfReferral, errorx.Conflict, map[string]any{"reason": REASON_SELF_REFERRAL})
	}

	exists, err := datastore.ExistsWallet(ctx, service.postgresDB, referrerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errorx.Wrap(ErrReferrerNotFound, errorx.NotExist)
	}

	now := service.now()
	reward := service.rewards.Pick()
	inserted := false
	err = service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		inserted, err = datastore.InsertReferralIfAbsent(ctx, tx, &models.Referral{
			ReferredID: newUserID,
			ReferrerID: referrerID,
			Handle:     handle,
			Reward:     reward,
			CreatedAt:  now,
		})
		if err != nil || !inserted {
			return err
		}

		_, err = credit(ctx, tx, referrerID, reward, models.HistoryTypeReferral, referralMessage(reward, newUserID, handle), now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !inserted {
		ReferralAttempts.WithLabelValues("duplicate").Inc()
		return nil, errorx.WithDetails(ErrAlreadyReferred, errorx.Conflict, map[string]any{"reason": REASON_ALREADY_REFERRED})
	}

	ReferralAttempts.WithLabelValues("granted").Inc()
	log.WithFields(log.Fields{"referrer_id": referrerID, "user_id": newUserID, "reward": reward}).Info("referral registered")
	return &models.ReferralResult{Success: true, Reward: reward}, nil
}

func referralMessage(reward int64, newUserID string, handle string) string {
	if handle != "" {
		return fmt.Sprintf("+%d points: invited @%s", reward, handle)
	}
	return fmt.Sprintf("+%d points: invited user %s", reward, newUserID)
}

func (service *ServiceReferral) CountReferrals(ctx context.Context, referrerID string) (int, error) {
	if referrerID == "" {
		return 0, errorx.Wrap(ErrUserIDRequired, errorx.Validation)
	}

	return datastore.CountReferrals(ctx, service.postgresDB, referrerID)
}
