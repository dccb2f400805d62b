// Package client is the typed HTTP client the bot uses to reach the backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"

	"trezzy/internal/models"
)

const (
	DefaultTimeout = 10 * time.Second

	ReasonCooldown         = "cooldown"
	ReasonSelfReferral     = "self_referral"
	ReasonAlreadyReferred  = "already_referred"
	ReasonAlreadySubmitted = "already_submitted"
)

// ErrUnavailable marks a transport failure or timeout. Callers should treat it
// as transient.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx answer decoded from the backend's {error, ...} body.
type APIError struct {
	Status         int    `json:"-"`
	Message        string `json:"error"`
	Reason         string `json:"reason"`
	HoursRemaining int    `json:"hoursRemaining"`
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%d %s (%s)", e.Status, e.Message, e.Reason)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Transient reports whether retrying later may succeed.
func (e *APIError) Transient() bool {
	return e.Status >= http.StatusInternalServerError
}

// ReasonOf returns the structured reason of an APIError, or "".
func ReasonOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Reason
	}
	return ""
}

type Config struct {
	BaseURL     string
	AdminAPIKey string
	Timeout     time.Duration
	// ReadRetries applies to GET requests only. Writes are never retried.
	ReadRetries int
}

type Client struct {
	baseURL     string
	adminAPIKey string
	reader      *httpclient.Client
	writer      *httpclient.Client
}

func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	backoff := heimdall.NewConstantBackoff(200*time.Millisecond, 100*time.Millisecond)
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		adminAPIKey: cfg.AdminAPIKey,
		reader: httpclient.NewClient(
			httpclient.WithHTTPTimeout(timeout),
			httpclient.WithRetryCount(cfg.ReadRetries),
			httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
		),
		writer: httpclient.NewClient(
			httpclient.WithHTTPTimeout(timeout),
		),
	}
}

func (client *Client) do(ctx context.Context, method string, path string, admin bool, body any, out any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("X-Api-Key", client.adminAPIKey)
	}

	c := client.writer
	if method == http.MethodGet {
		c = client.reader
	}

	resp, err := c.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type userBody struct {
	UserID string `json:"userId"`
}

func (client *Client) GetWallet(ctx context.Context, userID string) (*models.WalletInfo, error) {
	var out models.WalletInfo
	if err := client.do(ctx, http.MethodPost, "/get-wallet", false, userBody{userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) RevealWallet(ctx context.Context, userID string) (*models.WalletSecret, error) {
	var out models.WalletSecret
	if err := client.do(ctx, http.MethodPost, "/reveal-wallet", true, userBody{userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type balanceBody struct {
	Balance int64 `json:"balance"`
}

func (client *Client) GetBalance(ctx context.Context, userID string) (int64, error) {
	var out balanceBody
	err := client.do(ctx, http.MethodGet, "/get-balance/"+url.PathEscape(userID), false, nil, &out)
	return out.Balance, err
}

func (client *Client) UpdateBalance(ctx context.Context, userID string, action models.BalanceAction, amount int64, reason string) (int64, error) {
	body := map[string]any{"userId": userID, "action": action, "amount": amount, "reason": reason}
	var out balanceBody
	err := client.do(ctx, http.MethodPost, "/update-balance", true, body, &out)
	return out.Balance, err
}

func (client *Client) CheckClaim(ctx context.Context, userID string) (*models.ClaimResult, error) {
	var out models.ClaimResult
	if err := client.do(ctx, http.MethodPost, "/check-claim", false, userBody{userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) RegisterReferral(ctx context.Context, referrerID string, userID string, handle string) (*models.ReferralResult, error) {
	body := map[string]string{"referrerId": referrerID, "userId": userID, "handle": handle}
	var out models.ReferralResult
	if err := client.do(ctx, http.MethodPost, "/register-referral", false, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) CountReferrals(ctx context.Context, userID string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := client.do(ctx, http.MethodGet, "/get-referrals/"+url.PathEscape(userID), false, nil, &out)
	return out.Count, err
}

func (client *Client) GetTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	var out struct {
		Tasks []*models.Task `json:"tasks"`
	}
	err := client.do(ctx, http.MethodGet, "/get-tasks?userId="+url.QueryEscape(userID), false, nil, &out)
	return out.Tasks, err
}

func (client *Client) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	var out models.Task
	if err := client.do(ctx, http.MethodGet, "/get-task/"+url.PathEscape(taskID), false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) CreateTask(ctx context.Context, input *models.TaskInput) (*models.Task, error) {
	var out models.Task
	if err := client.do(ctx, http.MethodPost, "/create-task", true, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) SubmitTask(ctx context.Context, input *models.SubmissionInput) (*models.TaskSubmission, error) {
	var out models.TaskSubmission
	if err := client.do(ctx, http.MethodPost, "/submit-task", false, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) AllSubmissions(ctx context.Context) ([]*models.UserSubmissions, error) {
	var out struct {
		Users []*models.UserSubmissions `json:"users"`
	}
	err := client.do(ctx, http.MethodGet, "/all-submitted-tasks", true, nil, &out)
	return out.Users, err
}

func (client *Client) UserSubmissions(ctx context.Context, userID string) (*models.UserSubmissions, error) {
	var out models.UserSubmissions
	if err := client.do(ctx, http.MethodGet, "/submitted-tasks/"+url.PathEscape(userID), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) ReviewSubmissions(ctx context.Context, ids []int64, status models.SubmissionStatus) (*models.ReviewResult, error) {
	body := map[string]any{"submissionIds": ids, "status": status}
	var out models.ReviewResult
	if err := client.do(ctx, http.MethodPost, "/review-submissions", true, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (client *Client) GetHistory(ctx context.Context, userID string, limit int) ([]*models.HistoryEntry, error) {
	path := "/get-history/" + url.PathEscape(userID)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out struct {
		History []*models.HistoryEntry `json:"history"`
	}
	err := client.do(ctx, http.MethodGet, path, false, nil, &out)
	return out.History, err
}

func (client *Client) DeleteHistory(ctx context.Context, userID string) (int64, error) {
	var out struct {
		Deleted int64 `json:"deleted"`
	}
	err := client.do(ctx, http.MethodDelete, "/delete-history/"+url.PathEscape(userID), true, nil, &out)
	return out.Deleted, err
}

func (client *Client) HasUnread(ctx context.Context, userID string) (bool, error) {
	var out struct {
		Unread bool `json:"unread"`
	}
	err := client.do(ctx, http.MethodGet, "/has-unread-history/"+url.PathEscape(userID), false, nil, &out)
	return out.Unread, err
}

func (client *Client) MarkRead(ctx context.Context, userID string) error {
	return client.do(ctx, http.MethodPost, "/mark-history-read/"+url.PathEscape(userID), false, nil, nil)
}

func (client *Client) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var out struct {
		Admin bool `json:"admin"`
	}
	err := client.do(ctx, http.MethodGet, "/is-admin/"+url.PathEscape(userID), false, nil, &out)
	return out.Admin, err
}
