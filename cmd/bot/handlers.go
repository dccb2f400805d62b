package main

import (
	"bytes"
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"

	"trezzy/internal/bot"
	"trezzy/internal/models"
)

const UPDATE_TIMEOUT = 30 * time.Second

type screenFunc func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error)

func handleMenu(b *tele.Bot) {
	b.Handle("/start", handle(func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
		return menu.Start(ctx, user, c.Message().Payload)
	}))

	callbacks := map[string]screenFunc{
		bot.UniqueHome: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Home(ctx, user)
		},
		bot.UniqueClaim: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Claim(ctx, user)
		},
		bot.UniqueDeposit: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Deposit(ctx, user)
		},
		bot.UniqueTasks: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Tasks(ctx, user)
		},
		bot.UniqueTask: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Task(ctx, user, c.Data())
		},
		bot.UniqueSubmitTask: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.SubmitTask(ctx, user, c.Data())
		},
		bot.UniqueHistory: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.History(ctx, user)
		},
		bot.UniqueClearHistory: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.ClearHistory(ctx, user)
		},
		bot.UniqueSettings: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Settings(ctx, user)
		},
		bot.UniqueRevealKey: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.RevealKey(ctx, user)
		},
		bot.UniqueFrens: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Frens(ctx, user)
		},
		bot.UniqueAdmin: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Admin(ctx, user)
		},
		bot.UniqueAdminUser: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.AdminUser(ctx, user, c.Data())
		},
		bot.UniqueAdminAccept: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Review(ctx, user, c.Data(), models.SubmissionStatusAccepted)
		},
		bot.UniqueAdminDecline: func(ctx context.Context, menu *bot.Menu, user bot.User, c tele.Context) (*bot.Screen, error) {
			return menu.Review(ctx, user, c.Data(), models.SubmissionStatusDeclined)
		},
	}

	for _, unique := range bot.Uniques {
		fn, ok := callbacks[unique]
		if !ok {
			log.WithField("unique", unique).Fatal("callback without handler")
		}
		b.Handle(&tele.Btn{Unique: unique}, handle(fn))
	}
}

// handle runs fn with a bounded context and renders its screen. Failures are
// logged and shown with the uniform wording, never raw.
func handle(fn screenFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		menu, err := getContextMenu(c)
		if err != nil {
			return err
		}

		sender := c.Sender()
		if sender == nil {
			return nil
		}
		user := bot.User{ID: sender.ID, Username: sender.Username}

		ctx, cancel := context.WithTimeout(context.Background(), UPDATE_TIMEOUT)
		defer cancel()

		screen, err := fn(ctx, menu, user, c)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": user.ID, "update_id": c.Update().ID}).Warn("handle update")
			return respondError(c, err)
		}

		return render(c, screen)
	}
}

func respondError(c tele.Context, err error) error {
	text := bot.ErrorText(err)
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
	}
	return c.Send(text)
}

func render(c tele.Context, screen *bot.Screen) error {
	if screen.Photo != nil {
		photo := &tele.Photo{File: tele.FromReader(bytes.NewReader(screen.Photo.PNG)), Caption: screen.Photo.Caption}
		if err := c.Send(photo); err != nil {
			return err
		}
	}

	if screen.Secret != "" {
		secrets, err := getContextSecrets(c)
		if err != nil {
			return err
		}
		if err := secrets.send(c.Recipient(), screen.Secret); err != nil {
			return err
		}
	}

	if screen.Text != "" {
		if err := show(c, screen); err != nil {
			return err
		}
	}

	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: screen.Alert, ShowAlert: screen.Alert != ""})
	}
	return nil
}

// show edits the pressed message in place, or sends a new one for commands.
func show(c tele.Context, screen *bot.Screen) error {
	if c.Callback() == nil {
		return c.Send(screen.Text, screen.Markup, tele.NoPreview)
	}

	err := c.Edit(screen.Text, screen.Markup, tele.NoPreview)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}
