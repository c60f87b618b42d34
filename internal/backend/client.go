package backend

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Client calls the Roomily backend REST API. Every authenticated method
// takes the admin's bearer token explicitly.
type Client struct {
	http *HTTPClient
}

func NewClient(baseURL string, timeoutSec int) *Client {
	return &Client{http: NewHTTPClient(strings.TrimRight(baseURL, "/"), timeoutSec)}
}

// call issues the request and decodes a successful body into out (when non-nil).
func (c *Client) call(ctx context.Context, op, method, endpoint, token string, payload, out interface{}) error {
	resp, err := c.http.Do(ctx, method, endpoint, token, payload)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	if !resp.IsSuccess() {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp)}
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := resp.UnmarshalJSON(out); err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts {"message": "..."} from an error body. Plain text
// bodies are used only when served as text/plain; HTML error pages from
// proxies are never shown.
func errorMessage(resp *HTTPResponse) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := resp.UnmarshalJSON(&body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	mt, _, err := mime.ParseMediaType(resp.Headers.Get("Content-Type"))
	if err != nil || mt != "text/plain" {
		return ""
	}
	return truncate(strings.TrimSpace(resp.String()), maxMessageBytes)
}

const maxMessageBytes = 200

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func pathID(id string) string { return url.PathEscape(strings.TrimSpace(id)) }

// Login exchanges admin credentials for an access token.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	req := map[string]string{"usernameOrEmail": usernameOrEmail, "password": password}
	if err := c.call(ctx, "login", http.MethodPost, "/api/v1/auth/login", "", req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{Op: "login", StatusCode: http.StatusOK, Message: "response carried no access token"}
	}
	return out.AccessToken, nil
}

func (c *Client) Dashboard(ctx context.Context, token string) (DashboardMetrics, error) {
	var out DashboardMetrics
	err := c.call(ctx, "dashboard", http.MethodGet, "/api/v1/admin/dashboard", token, nil, &out)
	return out, err
}

func (c *Client) SystemStatistics(ctx context.Context, token string) (SystemStatistics, error) {
	var out SystemStatistics
	err := c.call(ctx, "system_statistics", http.MethodGet, "/api/v1/admin/system-statistics", token, nil, &out)
	return out, err
}

func (c *Client) transactions(ctx context.Context, op, endpoint, token string) ([]Transaction, error) {
	var out contentEnvelope[Transaction]
	if err := c.call(ctx, op, http.MethodGet, endpoint, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Content, nil
}

// PendingWithdrawalSummary lists the dashboard's pending withdrawals.
func (c *Client) PendingWithdrawalSummary(ctx context.Context, token string) ([]Transaction, error) {
	return c.transactions(ctx, "pending_withdrawals", "/api/v1/admin/transactions/pending-withdrawals", token)
}

func (c *Client) TransactionsByType(ctx context.Context, token, txType string) ([]Transaction, error) {
	return c.transactions(ctx, "transactions_by_type", "/api/v1/admin/transactions/type/"+pathID(txType), token)
}

func (c *Client) TransactionsByStatus(ctx context.Context, token, status string) ([]Transaction, error) {
	return c.transactions(ctx, "transactions_by_status", "/api/v1/admin/transactions/status/"+pathID(status), token)
}

func (c *Client) UsersByStatus(ctx context.Context, token, status string, page int) (UserPage, error) {
	var out UserPage
	endpoint := "/api/v1/admin/users/status/" + pathID(status) + "?page=" + strconv.Itoa(page)
	err := c.call(ctx, "users_by_status", http.MethodGet, endpoint, token, nil, &out)
	return out, err
}

func (c *Client) PendingRoomReports(ctx context.Context, token string) ([]RoomReport, error) {
	var out []RoomReport
	err := c.call(ctx, "room_reports", http.MethodGet, "/api/v1/room-reports/status/PENDING", token, nil, &out)
	return out, err
}

// ProcessRoomReport marks a room report valid (the room is actioned) or invalid (the report is dismissed).
func (c *Client) ProcessRoomReport(ctx context.Context, token, reportID string, valid bool) error {
	endpoint := "/api/v1/room-reports/process/" + pathID(reportID) + "/" + strconv.FormatBool(valid)
	return c.call(ctx, "process_room_report", http.MethodPost, endpoint, token, struct{}{}, nil)
}

func (c *Client) PendingUserReports(ctx context.Context, token string) ([]UserReport, error) {
	var out []UserReport
	err := c.call(ctx, "user_reports", http.MethodGet, "/api/v1/user-reports/pending", token, nil, &out)
	return out, err
}

// ListUsers returns one page of users sorted by balance, highest first.
func (c *Client) ListUsers(ctx context.Context, token string, page, size int) (UserPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", "balance")
	q.Set("sortDir", "desc")
	var out UserPage
	err := c.call(ctx, "list_users", http.MethodGet, "/api/v1/users?"+q.Encode(), token, nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, token, userID string) (User, error) {
	var out User
	err := c.call(ctx, "get_user", http.MethodGet, "/api/v1/users/"+pathID(userID), token, nil, &out)
	return out, err
}

func (c *Client) IsBanned(ctx context.Context, token, userID string) (bool, error) {
	var out bool
	err := c.call(ctx, "is_banned", http.MethodGet, "/api/v1/ban/isBanned/"+pathID(userID), token, nil, &out)
	return out, err
}

func (c *Client) BanUser(ctx context.Context, token string, req BanRequest) error {
	return c.call(ctx, "ban_user", http.MethodPost, "/api/v1/ban/ban", token, req, nil)
}

func (c *Client) ActiveBans(ctx context.Context, token string) ([]Ban, error) {
	var out []Ban
	err := c.call(ctx, "active_bans", http.MethodGet, "/api/v1/ban/active", token, nil, &out)
	return out, err
}

func (c *Client) Unban(ctx context.Context, token, userID string) error {
	return c.call(ctx, "unban", http.MethodPost, "/api/v1/ban/unban/"+pathID(userID), token, nil, nil)
}

func (c *Client) BanHistory(ctx context.Context, token, userID string) ([]Ban, error) {
	var out []Ban
	err := c.call(ctx, "ban_history", http.MethodGet, "/api/v1/ban/history/"+pathID(userID), token, nil, &out)
	return out, err
}

func (c *Client) PendingWithdrawals(ctx context.Context, token string) ([]Transaction, error) {
	return c.transactions(ctx, "withdrawals", "/api/v1/transactions/type/WITHDRAWAL/status/PENDING", token)
}

func (c *Client) WithdrawInfo(ctx context.Context, token, userID string) (BankInfo, error) {
	var out BankInfo
	err := c.call(ctx, "withdraw_info", http.MethodGet, "/api/wallet/withdraw-info/"+pathID(userID), token, nil, &out)
	return out, err
}

func (c *Client) ConfirmWithdraw(ctx context.Context, token, requestID string) error {
	return c.call(ctx, "confirm_withdraw", http.MethodPost, "/api/wallet/confirm-withdraw/"+pathID(requestID), token, nil, nil)
}

func (c *Client) CancelWithdraw(ctx context.Context, token, requestID, reason string) error {
	body := map[string]string{"reason": reason}
	return c.call(ctx, "cancel_withdraw", http.MethodPost, "/api/wallet/cancel-withdraw/"+pathID(requestID), token, body, nil)
}

// Verifications lists identity verification requests; status "ALL" lists every request.
func (c *Client) Verifications(ctx context.Context, token, status string, page, size int) ([]Verification, error) {
	endpoint := "/api/v1/user-verification/admin/all"
	if status != "" && status != "ALL" {
		endpoint = "/api/v1/user-verification/admin/status/" + pathID(status)
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out []Verification
	err := c.call(ctx, "verifications", http.MethodGet, endpoint+"?"+q.Encode(), token, nil, &out)
	return out, err
}

func (c *Client) VerificationByUser(ctx context.Context, token, userID string) (Verification, error) {
	var out Verification
	err := c.call(ctx, "verification_by_user", http.MethodGet, "/api/v1/user-verification/user/"+pathID(userID), token, nil, &out)
	return out, err
}

func (c *Client) ProcessVerification(ctx context.Context, token, userID string, approve bool) error {
	endpoint := "/api/v1/user-verification/admin/" + pathID(userID) + "/process?isApprove=" + strconv.FormatBool(approve)
	return c.call(ctx, "process_verification", http.MethodPatch, endpoint, token, nil, nil)
}
