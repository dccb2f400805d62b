package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trezzy/internal/api/client"
	"trezzy/internal/models"
	"trezzy/internal/testutil/apitest"
)

func newClient(t *testing.T, envs map[string]string) (*client.Client, *apitest.Server) {
	srv := apitest.NewServer(t, envs)
	return client.New(&client.Config{BaseURL: srv.URL, AdminAPIKey: apitest.AdminAPIKey, Timeout: 5 * time.Second}), srv
}

func TestClientWalletAndClaim(t *testing.T) {
	c, _ := newClient(t, nil)
	ctx := context.Background()

	wallet, err := c.GetWallet(ctx, "500")
	require.NoError(t, err)
	require.True(t, wallet.Created)

	secret, err := c.RevealWallet(ctx, "500")
	require.NoError(t, err)
	require.Equal(t, wallet.Address, secret.Address)
	require.NotEmpty(t, secret.PrivateKey)

	result, err := c.CheckClaim(ctx, "500")
	require.NoError(t, err)
	require.True(t, result.Success)

	_, err = c.CheckClaim(ctx, "500")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	require.Equal(t, client.ReasonCooldown, apiErr.Reason)
	require.Equal(t, 24, apiErr.HoursRemaining)
	require.False(t, apiErr.Transient())

	balance, err := c.GetBalance(ctx, "500")
	require.NoError(t, err)
	require.Equal(t, result.Amount, balance)
}

func TestClientReferralReason(t *testing.T) {
	c, _ := newClient(t, nil)
	ctx := context.Background()

	_, err := c.GetWallet(ctx, "1")
	require.NoError(t, err)

	_, err = c.RegisterReferral(ctx, "1", "2", "")
	require.NoError(t, err)

	_, err = c.RegisterReferral(ctx, "1", "2", "")
	require.Equal(t, client.ReasonAlreadyReferred, client.ReasonOf(err))

	count, err := c.CountReferrals(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestClientTasksAndHistory(t *testing.T) {
	c, _ := newClient(t, nil)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, &models.TaskInput{Type: "Retweet", Description: "Retweet the pin", Link: "https://x.com/p/1"})
	require.NoError(t, err)
	require.Equal(t, "retweet", task.Slug)

	tasks, err := c.GetTasks(ctx, "9")
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	submission, err := c.SubmitTask(ctx, &models.SubmissionInput{UserID: "9", TaskID: task.ID, WalletAddress: "0x00000000000000000000000000000000000000bb", Handle: "carol"})
	require.NoError(t, err)

	users, err := c.AllSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	review, err := c.ReviewSubmissions(ctx, []int64{submission.ID}, models.SubmissionStatusDeclined)
	require.NoError(t, err)
	require.Equal(t, 1, review.Updated)
	require.Equal(t, 0, review.Credited)

	mine, err := c.UserSubmissions(ctx, "9")
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusDeclined, mine.Submissions[0].Status)

	unread, err := c.HasUnread(ctx, "9")
	require.NoError(t, err)
	require.True(t, unread)

	history, err := c.GetHistory(ctx, "9", 5)
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.NoError(t, c.MarkRead(ctx, "9"))
	unread, err = c.HasUnread(ctx, "9")
	require.NoError(t, err)
	require.False(t, unread)

	deleted, err := c.DeleteHistory(ctx, "9")
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)
}

func TestClientUnavailable(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer slow.Close()

	c := client.New(&client.Config{BaseURL: slow.URL, Timeout: 50 * time.Millisecond})
	_, err := c.GetBalance(context.Background(), "1")
	require.True(t, errors.Is(err, client.ErrUnavailable))
}

func TestClientServerErrorIsTransient(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	c := client.New(&client.Config{BaseURL: broken.URL})
	_, err := c.IsAdmin(context.Background(), "1")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.True(t, apiErr.Transient())
	require.Equal(t, "Service Unavailable", apiErr.Message)
}
