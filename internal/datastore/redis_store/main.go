package redis_store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	tele "gopkg.in/telebot.v3"
)

const (
	UPDATE_SEEN_TTL = 10 * time.Minute
)

// SecretMessage is a chat message carrying a credential that must be deleted
// once ExpiresAt has passed.
type SecretMessage struct {
	tele.StoredMessage
	ExpiresAt time.Time `msgpack:"expires_at"`
}

func dbKeySecretMessage(chatID int64, messageID string) string {
	return fmt.Sprintf("secret_message:%d:%s", chatID, messageID)
}

func dbKeySecretMessagePattern() string {
	return "secret_message:*"
}

func dbKeyUpdateSeen(updateID int) string {
	return fmt.Sprintf("update_seen:%d", updateID)
}

func SaveSecretMessage(ctx context.Context, cmd redis.Cmdable, v *SecretMessage) error {
	b, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	// the key outlives the message so a restarted bot still finds it
	ttl := time.Until(v.ExpiresAt) + time.Hour
	err = cmd.Set(ctx, dbKeySecretMessage(v.ChatID, v.MessageID), b, ttl).Err()
	if err != nil {
		return err
	}

	return nil
}

func DeleteSecretMessage(ctx context.Context, cmd redis.Cmdable, v *SecretMessage) error {
	return cmd.Del(ctx, dbKeySecretMessage(v.ChatID, v.MessageID)).Err()
}

func ListSecretMessages(ctx context.Context, cmd redis.Cmdable) ([]*SecretMessage, error) {
	keys, err := cmd.Keys(ctx, dbKeySecretMessagePattern()).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*SecretMessage, 0, len(keys))
	for _, key := range keys {
		b, err := cmd.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}

		var v SecretMessage
		if err := msgpack.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		results = append(results, &v)
	}

	return results, nil
}

// MarkUpdateSeen reports true the first time an update id is seen.
func MarkUpdateSeen(ctx context.Context, cmd redis.Cmdable, updateID int) (bool, error) {
	return cmd.SetNX(ctx, dbKeyUpdateSeen(updateID), 1, UPDATE_SEEN_TTL).Result()
}
