// Package bot renders the chat menu. Every callback unique maps to one screen;
// the menu fetches what the screen needs from the backend and returns it
// without touching Telegram.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	tele "gopkg.in/telebot.v3"

	"trezzy/internal/api/client"
	"trezzy/internal/models"
)

const (
	UniqueHome         = "home"
	UniqueClaim        = "claim"
	UniqueDeposit      = "deposit"
	UniqueTasks        = "tasks"
	UniqueTask         = "task"
	UniqueSubmitTask   = "submit_task"
	UniqueHistory      = "history"
	UniqueClearHistory = "clear_history"
	UniqueSettings     = "settings"
	UniqueRevealKey    = "reveal_key"
	UniqueFrens        = "frens"
	UniqueAdmin        = "admin"
	UniqueAdminUser    = "admin_user"
	UniqueAdminAccept  = "admin_accept"
	UniqueAdminDecline = "admin_decline"

	labelBack       = "back"
	labelAcceptAll  = "accept_all"
	labelDeclineAll = "decline_all"
	labelOpenLink   = "open_link"

	reviewAll = "all"

	HISTORY_LIMIT = 10
)

// Uniques lists every callback the menu answers.
var Uniques = []string{
	UniqueHome, UniqueClaim, UniqueDeposit, UniqueTasks, UniqueTask, UniqueSubmitTask,
	UniqueHistory, UniqueClearHistory, UniqueSettings, UniqueRevealKey, UniqueFrens,
	UniqueAdmin, UniqueAdminUser, UniqueAdminAccept, UniqueAdminDecline,
}

var errNotAdmin = errors.New("not an admin")

// Backend is the part of the backend API the menu calls. *client.Client
// satisfies it.
type Backend interface {
	GetWallet(ctx context.Context, userID string) (*models.WalletInfo, error)
	RevealWallet(ctx context.Context, userID string) (*models.WalletSecret, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
	CheckClaim(ctx context.Context, userID string) (*models.ClaimResult, error)
	RegisterReferral(ctx context.Context, referrerID string, userID string, handle string) (*models.ReferralResult, error)
	CountReferrals(ctx context.Context, userID string) (int, error)
	GetTasks(ctx context.Context, userID string) ([]*models.Task, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	SubmitTask(ctx context.Context, input *models.SubmissionInput) (*models.TaskSubmission, error)
	GetHistory(ctx context.Context, userID string, limit int) ([]*models.HistoryEntry, error)
	DeleteHistory(ctx context.Context, userID string) (int64, error)
	HasUnread(ctx context.Context, userID string) (bool, error)
	MarkRead(ctx context.Context, userID string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
	AllSubmissions(ctx context.Context) ([]*models.UserSubmissions, error)
	UserSubmissions(ctx context.Context, userID string) (*models.UserSubmissions, error)
	ReviewSubmissions(ctx context.Context, ids []int64, status models.SubmissionStatus) (*models.ReviewResult, error)
}

// User is the caller as Telegram reports it.
type User struct {
	ID       int64
	Username string
}

func (u User) key() string {
	return strconv.FormatInt(u.ID, 10)
}

// Screen is what a handler should show. An empty Text leaves the current
// message as is. Alert answers the callback. Photo and Secret are sent as new
// messages.
type Screen struct {
	Text   string
	Markup *tele.ReplyMarkup
	Alert  string
	Photo  *Photo
	Secret string
}

type Photo struct {
	PNG     []byte
	Caption string
}

type Config struct {
	Backend     Backend
	Labels      *Labels
	BotUsername string
	SecretTTL   time.Duration
}

type Menu struct {
	backend     Backend
	labels      *Labels
	botUsername string
	secretTTL   time.Duration
}

func NewMenu(cfg *Config) *Menu {
	labels := cfg.Labels
	if labels == nil {
		labels, _ = ParseLabels("")
	}
	return &Menu{cfg.Backend, labels, cfg.BotUsername, cfg.SecretTTL}
}

func (menu *Menu) button(m *tele.ReplyMarkup, unique string, data ...string) tele.Btn {
	return m.Data(menu.labels.Pick(unique), unique, data...)
}

func (menu *Menu) back(m *tele.ReplyMarkup, unique string, data ...string) tele.Btn {
	return m.Data(menu.labels.Pick(labelBack), unique, data...)
}

// Start handles /start. A referral payload is honoured only when this very
// call created the wallet, so it runs once per user.
func (menu *Menu) Start(ctx context.Context, user User, payload string) (*Screen, error) {
	wallet, err := menu.backend.GetWallet(ctx, user.key())
	if err != nil {
		return nil, err
	}

	if wallet.Created {
		if referrerID := referrerFromPayload(payload, user); referrerID != "" {
			_, err := menu.backend.RegisterReferral(ctx, referrerID, user.key(), user.Username)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{"user_id": user.ID, "referrer_id": referrerID}).Warn("register referral")
			}
		}
	}

	return menu.home(ctx, user, wallet)
}

func referrerFromPayload(payload string, user User) string {
	payload = strings.TrimSpace(payload)
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil || id <= 0 || id == user.ID {
		return ""
	}
	return payload
}

func (menu *Menu) Home(ctx context.Context, user User) (*Screen, error) {
	wallet, err := menu.backend.GetWallet(ctx, user.key())
	if err != nil {
		return nil, err
	}
	return menu.home(ctx, user, wallet)
}

func (menu *Menu) home(ctx context.Context, user User, wallet *models.WalletInfo) (*Screen, error) {
	points, err := menu.backend.GetBalance(ctx, user.key())
	if err != nil {
		return nil, err
	}
	unread, err := menu.backend.HasUnread(ctx, user.key())
	if err != nil {
		return nil, err
	}

	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(menu.button(m, UniqueClaim), menu.button(m, UniqueDeposit)),
		m.Row(menu.button(m, UniqueTasks)),
		m.Row(menu.button(m, UniqueHistory), menu.button(m, UniqueSettings)),
		m.Row(menu.button(m, UniqueFrens)),
	)

	return &Screen{Text: textHome(user, wallet, points, unread), Markup: m}, nil
}

func (menu *Menu) Claim(ctx context.Context, user User) (*Screen, error) {
	result, err := menu.backend.CheckClaim(ctx, user.key())
	if err != nil {
		return nil, err
	}

	screen, err := menu.Home(ctx, user)
	if err != nil {
		return nil, err
	}
	screen.Alert = fmt.Sprintf("🎁 +%d points claimed!", result.Amount)
	return screen, nil
}

func (menu *Menu) Deposit(ctx context.Context, user User) (*Screen, error) {
	wallet, err := menu.backend.GetWallet(ctx, user.key())
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(wallet.Address, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}

	return &Screen{Photo: &Photo{PNG: png, Caption: textDeposit(wallet.Address)}}, nil
}

func (menu *Menu) Tasks(ctx context.Context, user User) (*Screen, error) {
	tasks, err := menu.backend.GetTasks(ctx, user.key())
	if err != nil {
		return nil, err
	}

	m := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(tasks)+1)
	for _, task := range tasks {
		rows = append(rows, m.Row(m.Data(taskButtonText(task), UniqueTask, task.ID)))
	}
	rows = append(rows, m.Row(menu.back(m, UniqueHome)))
	m.Inline(rows...)

	return &Screen{Text: textTasks(tasks), Markup: m}, nil
}

func (menu *Menu) Task(ctx context.Context, user User, taskID string) (*Screen, error) {
	task, err := menu.backend.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	m := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	if task.Link != "" {
		rows = append(rows, m.Row(m.URL(menu.labels.Pick(labelOpenLink), task.Link)))
	}
	rows = append(rows,
		m.Row(menu.button(m, UniqueSubmitTask, task.ID)),
		m.Row(menu.back(m, UniqueTasks), menu.button(m, UniqueHome)),
	)
	m.Inline(rows...)

	return &Screen{Text: textTask(task), Markup: m}, nil
}

// SubmitTask submits with the user's own wallet and Telegram handle.
func (menu *Menu) SubmitTask(ctx context.Context, user User, taskID string) (*Screen, error) {
	wallet, err := menu.backend.GetWallet(ctx, user.key())
	if err != nil {
		return nil, err
	}

	_, err = menu.backend.SubmitTask(ctx, &models.SubmissionInput{
		UserID:        user.key(),
		TaskID:        taskID,
		WalletAddress: wallet.Address,
		Handle:        user.Username,
	})
	if err != nil {
		return nil, err
	}

	screen, err := menu.Tasks(ctx, user)
	if err != nil {
		return nil, err
	}
	screen.Alert = "✅ Submitted! An admin will review it soon."
	return screen, nil
}

// History shows the latest entries and then marks them read.
func (menu *Menu) History(ctx context.Context, user User) (*Screen, error) {
	entries, err := menu.backend.GetHistory(ctx, user.key(), HISTORY_LIMIT)
	if err != nil {
		return nil, err
	}

	if err := menu.backend.MarkRead(ctx, user.key()); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("mark history read")
	}

	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(menu.button(m, UniqueClearHistory)),
		m.Row(menu.back(m, UniqueHome)),
	)
	return &Screen{Text: textHistory(entries), Markup: m}, nil
}

func (menu *Menu) ClearHistory(ctx context.Context, user User) (*Screen, error) {
	deleted, err := menu.backend.DeleteHistory(ctx, user.key())
	if err != nil {
		return nil, err
	}

	screen, err := menu.History(ctx, user)
	if err != nil {
		return nil, err
	}
	screen.Alert = fmt.Sprintf("🧹 %d entries cleared", deleted)
	return screen, nil
}

// Settings asks the backend for admin status on every render.
func (menu *Menu) Settings(ctx context.Context, user User) (*Screen, error) {
	admin, err := menu.backend.IsAdmin(ctx, user.key())
	if err != nil {
		return nil, err
	}

	m := &tele.ReplyMarkup{}
	rows := []tele.Row{m.Row(menu.button(m, UniqueRevealKey))}
	if admin {
		rows = append(rows, m.Row(menu.button(m, UniqueAdmin)))
	}
	rows = append(rows, m.Row(menu.back(m, UniqueHome)))
	m.Inline(rows...)

	return &Screen{Text: textSettings, Markup: m}, nil
}

func (menu *Menu) RevealKey(ctx context.Context, user User) (*Screen, error) {
	secret, err := menu.backend.RevealWallet(ctx, user.key())
	if err != nil {
		return nil, err
	}

	return &Screen{
		Secret: textSecret(secret, menu.secretTTL),
		Alert:  fmt.Sprintf("🔐 Sent. It disappears in %d seconds.", int(menu.secretTTL.Seconds())),
	}, nil
}

func (menu *Menu) Frens(ctx context.Context, user User) (*Screen, error) {
	count, err := menu.backend.CountReferrals(ctx, user.key())
	if err != nil {
		return nil, err
	}

	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(menu.back(m, UniqueHome)))
	return &Screen{Text: textFrens(menu.referralLink(user), count), Markup: m}, nil
}

func (menu *Menu) referralLink(user User) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", menu.botUsername, user.ID)
}

func (menu *Menu) requireAdmin(ctx context.Context, user User) error {
	admin, err := menu.backend.IsAdmin(ctx, user.key())
	if err != nil {
		return err
	}
	if !admin {
		return errNotAdmin
	}
	return nil
}

func (menu *Menu) Admin(ctx context.Context, user User) (*Screen, error) {
	if err := menu.requireAdmin(ctx, user); err != nil {
		return nil, err
	}

	users, err := menu.backend.AllSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	m := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(users)+1)
	for _, u := range users {
		rows = append(rows, m.Row(m.Data(adminUserButtonText(u), UniqueAdminUser, u.UserID)))
	}
	rows = append(rows, m.Row(menu.back(m, UniqueHome)))
	m.Inline(rows...)

	return &Screen{Text: textAdmin(users), Markup: m}, nil
}

func (menu *Menu) AdminUser(ctx context.Context, user User, userID string) (*Screen, error) {
	if err := menu.requireAdmin(ctx, user); err != nil {
		return nil, err
	}

	submissions, err := menu.backend.UserSubmissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	pending := 0
	for _, s := range submissions.Submissions {
		if s.Status != models.SubmissionStatusPending {
			continue
		}
		pending++
		id := strconv.FormatInt(s.ID, 10)
		rows = append(rows, m.Row(
			m.Data(fmt.Sprintf("✅ #%s", id), UniqueAdminAccept, userID, id),
			m.Data(fmt.Sprintf("❌ #%s", id), UniqueAdminDecline, userID, id),
		))
	}
	if pending > 1 {
		rows = append(rows, m.Row(
			m.Data(menu.labels.Pick(labelAcceptAll), UniqueAdminAccept, userID, reviewAll),
			m.Data(menu.labels.Pick(labelDeclineAll), UniqueAdminDecline, userID, reviewAll),
		))
	}
	rows = append(rows, m.Row(menu.back(m, UniqueAdmin)))
	m.Inline(rows...)

	return &Screen{Text: textAdminUser(submissions), Markup: m}, nil
}

// Review applies status to one submission, or to every pending one of the
// user when target is "all". data is "<userId>|<submissionId|all>".
func (menu *Menu) Review(ctx context.Context, user User, data string, status models.SubmissionStatus) (*Screen, error) {
	if err := menu.requireAdmin(ctx, user); err != nil {
		return nil, err
	}

	userID, target, _ := strings.Cut(data, "|")
	ids := []int64{}
	if target == reviewAll {
		submissions, err := menu.backend.UserSubmissions(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, s := range submissions.Submissions {
			if s.Status == models.SubmissionStatusPending {
				ids = append(ids, s.ID)
			}
		}
	} else {
		id, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad review target %q: %w", data, err)
		}
		ids = append(ids, id)
	}

	alert := "Nothing to review"
	if len(ids) > 0 {
		result, err := menu.backend.ReviewSubmissions(ctx, ids, status)
		if err != nil {
			return nil, err
		}
		alert = fmt.Sprintf("%s %d, credited %d", status, result.Updated, result.Credited)
	}

	screen, err := menu.AdminUser(ctx, user, userID)
	if err != nil {
		return nil, err
	}
	screen.Alert = alert
	return screen, nil
}

// ErrorText is the only error wording users see. Known reasons get a specific
// message and everything else the uniform one.
func ErrorText(err error) string {
	if errors.Is(err, errNotAdmin) {
		return "⛔ Admins only."
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Reason {
		case client.ReasonCooldown:
			return fmt.Sprintf("⏳ Already claimed. Come back in %d hours.", apiErr.HoursRemaining)
		case client.ReasonAlreadySubmitted:
			return "📝 You already submitted this task."
		case client.ReasonAlreadyReferred:
			return "👥 This user was already referred."
		case client.ReasonSelfReferral:
			return "👥 You cannot refer yourself."
		}
	}

	return textOperationFailed
}
