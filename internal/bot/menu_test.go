package bot_test

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"

	"trezzy/internal/api/client"
	"trezzy/internal/bot"
	"trezzy/internal/models"
	"trezzy/internal/services"
	"trezzy/internal/testutil/apitest"
)

func newMenu(t *testing.T, envs map[string]string) (*bot.Menu, *client.Client, *apitest.Server) {
	srv := apitest.NewServer(t, envs)
	c := client.New(&client.Config{BaseURL: srv.URL, AdminAPIKey: apitest.AdminAPIKey, Timeout: 5 * time.Second})
	menu := bot.NewMenu(&bot.Config{Backend: c, BotUsername: "trezzy_bot", SecretTTL: 30 * time.Second})
	return menu, c, srv
}

func uniques(m *tele.ReplyMarkup) []string {
	var out []string
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			if btn.Unique != "" {
				out = append(out, btn.Unique)
			}
		}
	}
	return out
}

func TestStartClaimScenario(t *testing.T) {
	menu, c, _ := newMenu(t, nil)
	ctx := context.Background()
	u1 := bot.User{ID: 1001, Username: "alice"}

	screen, err := menu.Start(ctx, u1, "")
	require.NoError(t, err)
	require.Contains(t, screen.Text, "1001")
	require.Contains(t, screen.Text, "Trezzy Points:</b> 0")
	require.ElementsMatch(t, []string{bot.UniqueClaim, bot.UniqueDeposit, bot.UniqueTasks, bot.UniqueHistory, bot.UniqueSettings, bot.UniqueFrens}, uniques(screen.Markup))

	history, err := c.GetHistory(ctx, "1001", 0)
	require.NoError(t, err)
	require.Len(t, history, 0)

	screen, err = menu.Claim(ctx, u1)
	require.NoError(t, err)
	require.Contains(t, screen.Alert, "+100")
	require.Contains(t, screen.Text, "Trezzy Points:</b> 100")

	history, err = c.GetHistory(ctx, "1001", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.HistoryTypeClaim, history[0].Type)

	_, err = menu.Claim(ctx, u1)
	require.Error(t, err)
	require.Contains(t, bot.ErrorText(err), "Come back in 24 hours")
}

func TestStartReferralScenario(t *testing.T) {
	menu, c, _ := newMenu(t, nil)
	ctx := context.Background()
	u1 := bot.User{ID: 1001}
	u2 := bot.User{ID: 1002, Username: "bob"}

	_, err := menu.Start(ctx, u1, "")
	require.NoError(t, err)

	_, err = menu.Start(ctx, u2, "1001")
	require.NoError(t, err)

	balance, err := c.GetBalance(ctx, "1001")
	require.NoError(t, err)
	require.GreaterOrEqual(t, balance, int64(50))
	require.LessOrEqual(t, balance, int64(100))

	history, err := c.GetHistory(ctx, "1001", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.HistoryTypeReferral, history[0].Type)

	// a returning user never registers again
	_, err = menu.Start(ctx, u2, "1001")
	require.NoError(t, err)
	count, err := c.CountReferrals(ctx, "1001")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	screen, err := menu.Frens(ctx, u1)
	require.NoError(t, err)
	require.Contains(t, screen.Text, "Invited: 1")
	require.Contains(t, screen.Text, "https://t.me/trezzy_bot?start=1001")
}

func TestSelfReferralPayloadIgnored(t *testing.T) {
	menu, c, _ := newMenu(t, nil)
	ctx := context.Background()

	_, err := menu.Start(ctx, bot.User{ID: 5}, "5")
	require.NoError(t, err)

	count, err := c.CountReferrals(ctx, "5")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestTaskScreens(t *testing.T) {
	menu, c, _ := newMenu(t, nil)
	ctx := context.Background()
	u := bot.User{ID: 77, Username: "carol"}

	task, err := c.CreateTask(ctx, &models.TaskInput{Type: "follow", Description: "Follow us on X", Link: "https://x.com/trezzy", Reward: 250})
	require.NoError(t, err)

	screen, err := menu.Tasks(ctx, u)
	require.NoError(t, err)
	require.Equal(t, []string{bot.UniqueTask, bot.UniqueHome}, uniques(screen.Markup))
	require.Equal(t, task.ID, screen.Markup.InlineKeyboard[0][0].Data)

	screen, err = menu.Task(ctx, u, task.ID)
	require.NoError(t, err)
	require.Contains(t, screen.Text, "Follow us on X")
	require.Contains(t, uniques(screen.Markup), bot.UniqueSubmitTask)

	screen, err = menu.SubmitTask(ctx, u, task.ID)
	require.NoError(t, err)
	require.NotEmpty(t, screen.Alert)
	require.Equal(t, []string{bot.UniqueHome}, uniques(screen.Markup))

	_, err = menu.SubmitTask(ctx, u, task.ID)
	require.Error(t, err)
	require.Contains(t, bot.ErrorText(err), "already submitted")

	submissions, err := c.UserSubmissions(ctx, "77")
	require.NoError(t, err)
	require.Equal(t, "carol", submissions.Handle)
}

func TestHistoryScreenMarksRead(t *testing.T) {
	menu, c, _ := newMenu(t, nil)
	ctx := context.Background()
	u := bot.User{ID: 31}

	_, err := c.UpdateBalance(ctx, "31", models.BalanceActionAdd, 5, "gift")
	require.NoError(t, err)

	home, err := menu.Home(ctx, u)
	require.NoError(t, err)
	require.Contains(t, home.Text, "new history")

	screen, err := menu.History(ctx, u)
	require.NoError(t, err)
	require.Contains(t, screen.Text, "gift")

	unread, err := c.HasUnread(ctx, "31")
	require.NoError(t, err)
	require.False(t, unread)

	screen, err = menu.ClearHistory(ctx, u)
	require.NoError(t, err)
	require.Contains(t, screen.Alert, "1 entries")
	require.Contains(t, screen.Text, "Nothing here yet")
}

func TestSettingsAndAdminReview(t *testing.T) {
	menu, c, srv := newMenu(t, map[string]string{"ADMIN_IDS": "900"})
	ctx := context.Background()
	admin := bot.User{ID: 900}
	user := bot.User{ID: 901, Username: "dave"}

	screen, err := menu.Settings(ctx, user)
	require.NoError(t, err)
	require.NotContains(t, uniques(screen.Markup), bot.UniqueAdmin)

	_, err = menu.Admin(ctx, user)
	require.Error(t, err)
	require.Equal(t, "⛔ Admins only.", bot.ErrorText(err))

	screen, err = menu.Settings(ctx, admin)
	require.NoError(t, err)
	require.Contains(t, uniques(screen.Markup), bot.UniqueAdmin)

	var ids []string
	for _, input := range []models.TaskInput{
		{Type: "a", Description: "A", Link: "https://a.example"},
		{Type: "b", Description: "B", Link: "https://b.example", Reward: 40},
	} {
		task, err := c.CreateTask(ctx, &input)
		require.NoError(t, err)
		_, err = menu.SubmitTask(ctx, user, task.ID)
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	require.Len(t, ids, 2)

	screen, err = menu.Admin(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, "901", screen.Markup.InlineKeyboard[0][0].Data)
	require.Equal(t, []string{bot.UniqueAdminUser, bot.UniqueHome}, uniques(screen.Markup))

	screen, err = menu.AdminUser(ctx, admin, "901")
	require.NoError(t, err)
	require.Contains(t, uniques(screen.Markup), bot.UniqueAdminAccept)
	require.Contains(t, uniques(screen.Markup), bot.UniqueAdmin)

	screen, err = menu.Review(ctx, admin, "901|all", models.SubmissionStatusAccepted)
	require.NoError(t, err)
	require.Contains(t, screen.Alert, "accepted 2")
	require.NotContains(t, uniques(screen.Markup), bot.UniqueAdminAccept)

	balance, err := c.GetBalance(ctx, "901")
	require.NoError(t, err)
	require.EqualValues(t, services.DEFAULT_TASK_REWARD+40, balance)

	// admin status is read on every render
	serviceConfig := do.MustInvoke[*services.ServiceConfig](srv.Container)
	require.NoError(t, serviceConfig.SetConfig(ctx, models.CONFIG_ADMIN_IDS, "1"))
	screen, err = menu.Settings(ctx, admin)
	require.NoError(t, err)
	require.NotContains(t, uniques(screen.Markup), bot.UniqueAdmin)
}

func TestRevealKeyAndDeposit(t *testing.T) {
	menu, _, _ := newMenu(t, nil)
	ctx := context.Background()
	u := bot.User{ID: 12}

	screen, err := menu.Start(ctx, u, "")
	require.NoError(t, err)
	require.NotEmpty(t, screen.Text)

	screen, err = menu.RevealKey(ctx, u)
	require.NoError(t, err)
	require.Contains(t, screen.Secret, "0x")
	require.Contains(t, screen.Alert, "30 seconds")
	require.Empty(t, screen.Text)

	screen, err = menu.Deposit(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, screen.Photo.PNG)
	require.Contains(t, screen.Photo.Caption, "0x")
}

func TestErrorTextIsUniform(t *testing.T) {
	require.Equal(t, "❌ Operation failed, try again later.", bot.ErrorText(client.ErrUnavailable))
	require.Equal(t, "❌ Operation failed, try again later.", bot.ErrorText(&client.APIError{Status: 500, Message: "Server error"}))
}
