package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"trezzy/internal/api/client"
	"trezzy/internal/bot"
	"trezzy/internal/datastore/redis_store"
	"trezzy/internal/interfaces"
	"trezzy/internal/pkg/limiter"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

const (
	contextMenu    = "context-menu"
	contextRedis   = "context-redis"
	contextSecrets = "context-secrets"

	DEFAULT_SECRET_TTL          = 30 * time.Second
	DEFAULT_BOT_RATE_PER_MINUTE = 30
	REDIS_TIMEOUT               = 3 * time.Second
)

func main() {
	app := &cli.App{
		Name: "bot-telegram",
		Commands: []*cli.Command{
			commandBot(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandBot() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Usage:  "start the telegram bot",
		Action: action,
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("invalid duration, using default")
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getRedis() (redis.UniversalClient, error) {
	clusterRedisURL := os.Getenv("CLUSTER_REDIS_BOT")
	if clusterRedisURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterRedisURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClusterClient(clusterOpts), nil
	}

	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv("REDIS_BOT"),
	})
}

func action(c *cli.Context) error {
	vs, err := env.EnvsRequired(
		"BOT_TOKEN",
		"BACKEND_URL",
		"ADMIN_API_KEY",
	)
	if err != nil {
		return err
	}

	dbRedis, err := getRedis()
	if err != nil {
		return err
	}

	labels, err := bot.ParseLabels(os.Getenv("BUTTON_LABELS"))
	if err != nil {
		return err
	}

	backend := client.New(&client.Config{
		BaseURL:     vs["BACKEND_URL"],
		AdminAPIKey: vs["ADMIN_API_KEY"],
		Timeout:     envDuration("BACKEND_TIMEOUT", client.DefaultTimeout),
		ReadRetries: 1,
	})

	pref := tele.Settings{
		Token:     vs["BOT_TOKEN"],
		ParseMode: tele.ModeHTML,
		Poller:    poller(),
		OnError: func(err error, c tele.Context) {
			entry := log.WithError(err)
			if c != nil {
				entry = entry.WithField("update_id", c.Update().ID)
			}
			entry.Error("bot update failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	secretTTL := envDuration("SECRET_TTL", DEFAULT_SECRET_TTL)
	menu := bot.NewMenu(&bot.Config{
		Backend:     backend,
		Labels:      labels,
		BotUsername: b.Me.Username,
		SecretTTL:   secretTTL,
	})
	secrets := &secretKeeper{bot: b, rdb: dbRedis, ttl: secretTTL, timeout: REDIS_TIMEOUT}

	b.Use(middleware.Recover(func(err error) {
		log.WithError(err).Error("bot handler panicked")
	}))
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(contextMenu, menu)
			c.Set(contextRedis, dbRedis)
			c.Set(contextSecrets, secrets)
			return next(c)
		}
	})
	b.Use(dedupeUpdates)
	b.Use(rateLimit(limiter.NewRedisLimiter(dbRedis), envInt("BOT_RATE_PER_MINUTE", DEFAULT_BOT_RATE_PER_MINUTE)))

	handleMenu(b)

	sweepCtx, cancel := context.WithTimeout(context.Background(), REDIS_TIMEOUT)
	if err := secrets.sweep(sweepCtx); err != nil {
		log.WithError(err).Warn("sweep secret messages")
	}
	cancel()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		b.Stop()
	}()

	log.WithField("username", b.Me.Username).Info("bot started")
	b.Start()
	return nil
}

func poller() tele.Poller {
	publicURL := os.Getenv("WEBHOOK_URL")
	if publicURL == "" {
		return &tele.LongPoller{Timeout: 10 * time.Second}
	}

	listen := os.Getenv("WEBHOOK_LISTEN")
	if listen == "" {
		listen = ":8443"
	}
	return &tele.Webhook{
		Listen:      listen,
		SecretToken: os.Getenv("WEBHOOK_SECRET"),
		Endpoint:    &tele.WebhookEndpoint{PublicURL: publicURL},
	}
}

// dedupeUpdates drops an update whose id was already handled, which happens
// when Telegram retries a webhook delivery.
func dedupeUpdates(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		dbRedis, err := getContextRedis(c)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), REDIS_TIMEOUT)
		first, err := redis_store.MarkUpdateSeen(ctx, dbRedis, c.Update().ID)
		cancel()
		if err != nil {
			log.WithError(err).Warn("mark update seen")
			return next(c)
		}
		if !first {
			return nil
		}

		return next(c)
	}
}

func rateLimit(l interfaces.Limiter, perMinute int) tele.MiddlewareFunc {
	limit := redis_rate.PerMinute(perMinute)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), REDIS_TIMEOUT)
			err := l.Allow(ctx, fmt.Sprintf("bot:%d", sender.ID), limit)
			cancel()
			if err == limiter.ErrRateLimited {
				if c.Callback() != nil {
					return c.Respond(&tele.CallbackResponse{Text: "🐢 Slow down a little and try again."})
				}
				return nil
			}
			if err != nil {
				log.WithError(err).Warn("rate limit")
			}

			return next(c)
		}
	}
}
