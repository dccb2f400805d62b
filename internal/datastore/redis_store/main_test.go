package redis_store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func newTestClient(t *testing.T) redis.UniversalClient {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSecretMessages(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	msg := &SecretMessage{
		StoredMessage: tele.StoredMessage{MessageID: "42", ChatID: 1001},
		ExpiresAt:     time.Now().Add(30 * time.Second).UTC().Truncate(time.Second),
	}
	require.NoError(t, SaveSecretMessage(ctx, client, msg))

	msgs, err := ListSecretMessages(ctx, client)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "42", msgs[0].MessageID)
	require.Equal(t, int64(1001), msgs[0].ChatID)
	require.True(t, msgs[0].ExpiresAt.Equal(msg.ExpiresAt))

	require.NoError(t, DeleteSecretMessage(ctx, client, msg))
	msgs, err = ListSecretMessages(ctx, client)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestMarkUpdateSeen(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	first, err := MarkUpdateSeen(ctx, client, 7)
	require.NoError(t, err)
	require.True(t, first)

	first, err = MarkUpdateSeen(ctx, client, 7)
	require.NoError(t, err)
	require.False(t, first)
}
