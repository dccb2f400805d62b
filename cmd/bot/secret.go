package main

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"

	"trezzy/internal/datastore/redis_store"
)

// secretKeeper deletes credential messages once their ttl passes. Records are
// mirrored in Redis so a restarted bot can finish the job.
type secretKeeper struct {
	bot     *tele.Bot
	rdb     redis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
}

func (keeper *secretKeeper) send(to tele.Recipient, text string) error {
	msg, err := keeper.bot.Send(to, text, tele.ModeHTML)
	if err != nil {
		return err
	}

	secret := &redis_store.SecretMessage{
		StoredMessage: tele.StoredMessage{MessageID: strconv.Itoa(msg.ID), ChatID: msg.Chat.ID},
		ExpiresAt:     time.Now().Add(keeper.ttl),
	}

	ctx, cancel := context.WithTimeout(context.Background(), keeper.timeout)
	defer cancel()
	if err := redis_store.SaveSecretMessage(ctx, keeper.rdb, secret); err != nil {
		log.WithError(err).Warn("save secret message")
	}

	keeper.schedule(secret)
	return nil
}

func (keeper *secretKeeper) schedule(secret *redis_store.SecretMessage) {
	time.AfterFunc(time.Until(secret.ExpiresAt), func() {
		keeper.delete(secret)
	})
}

func (keeper *secretKeeper) delete(secret *redis_store.SecretMessage) {
	fields := log.Fields{"chat_id": secret.ChatID, "message_id": secret.MessageID}
	if err := keeper.bot.Delete(&secret.StoredMessage); err != nil {
		log.WithError(err).WithFields(fields).Warn("delete secret message")
	}

	ctx, cancel := context.WithTimeout(context.Background(), keeper.timeout)
	defer cancel()
	if err := redis_store.DeleteSecretMessage(ctx, keeper.rdb, secret); err != nil {
		log.WithError(err).WithFields(fields).Warn("forget secret message")
	}
}

// sweep reschedules the records a previous process left behind. Expired ones
// are deleted right away.
func (keeper *secretKeeper) sweep(ctx context.Context) error {
	secrets, err := redis_store.ListSecretMessages(ctx, keeper.rdb)
	if err != nil {
		return err
	}

	for _, secret := range secrets {
		if time.Now().After(secret.ExpiresAt) {
			keeper.delete(secret)
			continue
		}
		keeper.schedule(secret)
	}

	log.WithField("count", len(secrets)).Info("secret messages swept")
	return nil
}
