package bot

import (
	"fmt"
	"html"
	"strings"
	"time"

	"trezzy/internal/models"
)

const (
	textOperationFailed = "❌ Operation failed, try again later."
	textSettings        = "⚙️ <b>Settings</b>\n\nNuts and bolts 🔩"
)

func textHome(user User, wallet *models.WalletInfo, points int64, unread bool) string {
	var b strings.Builder
	b.WriteString("🎉 <b>TREZZY AIRDROP IS LIVE!</b>\n\n")
	b.WriteString("🔥 Earn free Trezzy points\n\n")
	fmt.Fprintf(&b, "⚡ <b>User:</b> <code>%d</code>\n", user.ID)
	fmt.Fprintf(&b, "📍 <b>Wallet Address:</b> <code>%s</code>\n", html.EscapeString(wallet.Address))
	fmt.Fprintf(&b, "💰 <b>BNB Balance:</b> %s BNB\n", html.EscapeString(wallet.Balance))
	fmt.Fprintf(&b, "🤟 <b>Trezzy Points:</b> %d\n", points)
	if unread {
		b.WriteString("📬 You have new history entries\n")
	}
	b.WriteString("\n✨ Claim daily, complete tasks and invite frens for bonus points.")
	return b.String()
}

func textDeposit(address string) string {
	return fmt.Sprintf("📥 Send BNB (BSC) to your wallet:\n<code>%s</code>", html.EscapeString(address))
}

func taskButtonText(task *models.Task) string {
	if task.Reward > 0 {
		return fmt.Sprintf("%s (+%d)", task.Description, task.Reward)
	}
	return task.Description
}

func textTasks(tasks []*models.Task) string {
	if len(tasks) == 0 {
		return "🐬 <b>Tasks</b>\n\nNo open tasks right now. Check back later!"
	}
	return fmt.Sprintf("🐬 <b>Tasks</b>\n\n%d open tasks. Pick one:", len(tasks))
}

func textTask(task *models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🐬 <b>%s</b>\n\n", html.EscapeString(task.Description))
	fmt.Fprintf(&b, "Type: %s\n", html.EscapeString(task.Type))
	if task.Reward > 0 {
		fmt.Fprintf(&b, "Reward: %d points\n", task.Reward)
	}
	if task.ExpiresAt != nil {
		fmt.Fprintf(&b, "Ends: %s UTC\n", task.ExpiresAt.UTC().Format("2006-01-02 15:04"))
	}
	b.WriteString("\nComplete the task, then press submit.")
	return b.String()
}

func textHistory(entries []*models.HistoryEntry) string {
	if len(entries) == 0 {
		return "📜 <b>History</b>\n\nNothing here yet."
	}

	var b strings.Builder
	b.WriteString("📜 <b>History</b>\n")
	for _, entry := range entries {
		marker := ""
		if !entry.Read {
			marker = "🆕 "
		}
		fmt.Fprintf(&b, "\n%s<i>%s</i> %s", marker, entry.CreatedAt.UTC().Format("01-02 15:04"), html.EscapeString(entry.Message))
	}
	return b.String()
}

func textSecret(secret *models.WalletSecret, ttl time.Duration) string {
	return fmt.Sprintf(
		"🔐 <b>Your Private Key</b>\n\n<code>%s</code>\n\n⚠️ <b>WARNING:</b> Never share this key with anyone. This message is deleted in %d seconds.",
		html.EscapeString(secret.PrivateKey), int(ttl.Seconds()),
	)
}

func textFrens(link string, count int) string {
	return fmt.Sprintf("💁 <b>Frens</b>\n\nInvited: %d\n\nShare your link and earn bonus points for every fren who joins:\n%s", count, html.EscapeString(link))
}

func adminUserButtonText(u *models.UserSubmissions) string {
	pending := 0
	for _, s := range u.Submissions {
		if s.Status == models.SubmissionStatusPending {
			pending++
		}
	}

	name := u.UserID
	if u.Handle != "" {
		name = "@" + u.Handle
	}
	return fmt.Sprintf("%s (%d pending)", name, pending)
}

func textAdmin(users []*models.UserSubmissions) string {
	if len(users) == 0 {
		return "🛠 <b>Admin Panel</b>\n\nNo submissions yet."
	}
	return fmt.Sprintf("🛠 <b>Admin Panel</b>\n\n%d users submitted tasks.", len(users))
}

func textAdminUser(u *models.UserSubmissions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛠 <b>User %s</b>", html.EscapeString(u.UserID))
	if u.Handle != "" {
		fmt.Fprintf(&b, " @%s", html.EscapeString(u.Handle))
	}
	b.WriteString("\n")
	if len(u.Submissions) == 0 {
		b.WriteString("\nNo submissions.")
	}
	for _, s := range u.Submissions {
		fmt.Fprintf(&b, "\n#%d %s <code>%s</code> %s", s.ID, html.EscapeString(s.TaskID), html.EscapeString(s.WalletAddress), s.Status)
	}
	return b.String()
}
