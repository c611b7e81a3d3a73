package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"admin_go/internal/domain"
	"admin_go/internal/infra"
)

// Client is the Admin REST API boundary. It owns no business logic; every
// method is a single request/response exchange with the backend, with the
// session bearer token attached when one is active.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
	logger     *slog.Logger
}

// NewClient creates a new admin API client. token supplies the current
// opaque session token; it returns "" before login.
func NewClient(cfg *infra.Config, token func() string) *Client {
	return &Client{
		baseURL: cfg.Backend.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Backend.RequestTimeoutSec) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		token:  token,
		logger: slog.Default().With("module", "admin_api"),
	}
}

// doRequest handles auth headers, serialization, and the error taxonomy:
// transport failures (timeout flagged separately) and non-2xx backend
// responses with their message extracted.
func (c *Client) doRequest(ctx context.Context, op, method, path string, query url.Values, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	infra.GlobalMetrics.RecordRequest(time.Since(start).Nanoseconds())
	if err != nil {
		infra.GlobalMetrics.RecordError()
		return nil, &domain.TransportError{Op: op, Err: err, Timeout: isTimeout(err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		infra.GlobalMetrics.RecordError()
		return nil, &domain.TransportError{Op: op, Err: err, Timeout: isTimeout(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		infra.GlobalMetrics.RecordError()
		apiErr := &domain.APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody),
		}
		c.logger.Warn("backend rejected request",
			"op", op, "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	return respBody, nil
}

// isTimeout distinguishes the bounded-timeout case from other transport
// failures so the operator sees "timed out" rather than a generic notice.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// extractMessage pulls the backend's failure message out of a non-2xx
// payload when one exists.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// ==================================================================
// Auth
// ==================================================================

// Login exchanges credentials for an opaque session token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	raw, err := c.doRequest(ctx, "login", http.MethodPost, "/login", nil, body)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ==================================================================
// Aggregate snapshots
// ==================================================================

// GetStats fetches the backend's dashboard aggregate snapshot.
func (c *Client) GetStats(ctx context.Context) (*domain.Stats, error) {
	raw, err := c.doRequest(ctx, "stats", http.MethodGet, "/stats", nil, nil)
	if err != nil {
		return nil, err
	}

	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetAnalytics fetches the backend-computed analytics snapshot. The
// console computes its own aggregations; this passthrough exists for
// comparison against the backend's numbers.
func (c *Client) GetAnalytics(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, "analytics", http.MethodGet, "/analytics", nil, nil)
}

// ==================================================================
// Users
// ==================================================================

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, page, limit int) (Page[domain.User], error) {
	raw, err := c.doRequest(ctx, "list users", http.MethodGet, "/users", pageQuery(page, limit), nil)
	if err != nil {
		return Page[domain.User]{}, err
	}
	return decodePage[wireUser, domain.User](raw, "users", wireUser.toDomain)
}

// UpdateUserWallet overwrites both balances of a user's wallet. This is an
// absolute write, not a delta.
func (c *Client) UpdateUserWallet(ctx context.Context, userID string, wallets domain.Wallets) error {
	_, err := c.doRequest(ctx, "update wallet", http.MethodPut, "/users/"+userID+"/wallet", nil, wallets)
	return err
}

// ==================================================================
// Deposits / withdrawals
// ==================================================================

type resolveRequest struct {
	Status     domain.Status `json:"status"`
	AdminNotes string        `json:"adminNotes"`
}

// ListDeposits fetches one page of deposits, normalized and kind-tagged.
func (c *Client) ListDeposits(ctx context.Context, page, limit int) (Page[domain.FundRequest], error) {
	raw, err := c.doRequest(ctx, "list deposits", http.MethodGet, "/deposits", pageQuery(page, limit), nil)
	if err != nil {
		return Page[domain.FundRequest]{}, err
	}
	return decodePage(raw, "deposits", func(w wireFundRequest) domain.FundRequest {
		return w.toDomain(domain.DirectionDeposit)
	})
}

// ResolveDeposit drives a pending deposit to a terminal status.
func (c *Client) ResolveDeposit(ctx context.Context, id string, status domain.Status, notes string) error {
	_, err := c.doRequest(ctx, "resolve deposit", http.MethodPut, "/deposits/"+id, nil,
		resolveRequest{Status: status, AdminNotes: notes})
	return err
}

// ListWithdrawals fetches one page of withdrawals, normalized and
// kind-tagged.
func (c *Client) ListWithdrawals(ctx context.Context, page, limit int) (Page[domain.FundRequest], error) {
	raw, err := c.doRequest(ctx, "list withdrawals", http.MethodGet, "/withdrawals", pageQuery(page, limit), nil)
	if err != nil {
		return Page[domain.FundRequest]{}, err
	}
	return decodePage(raw, "withdrawals", func(w wireFundRequest) domain.FundRequest {
		return w.toDomain(domain.DirectionWithdrawal)
	})
}

// ResolveWithdrawal drives a pending withdrawal to a terminal status.
func (c *Client) ResolveWithdrawal(ctx context.Context, id string, status domain.Status, notes string) error {
	_, err := c.doRequest(ctx, "resolve withdrawal", http.MethodPut, "/withdrawals/"+id, nil,
		resolveRequest{Status: status, AdminNotes: notes})
	return err
}

// ==================================================================
// Transactions
// ==================================================================

// ListTransactions fetches one page of completed trades.
func (c *Client) ListTransactions(ctx context.Context, page, limit int) (Page[domain.Transaction], error) {
	raw, err := c.doRequest(ctx, "list transactions", http.MethodGet, "/transactions", pageQuery(page, limit), nil)
	if err != nil {
		return Page[domain.Transaction]{}, err
	}
	return decodePage[wireTransaction, domain.Transaction](raw, "transactions", wireTransaction.toDomain)
}

// ==================================================================
// KYC
// ==================================================================

// ListKYC fetches all KYC records awaiting or past review.
func (c *Client) ListKYC(ctx context.Context) ([]domain.KYCRecord, error) {
	raw, err := c.doRequest(ctx, "list kyc", http.MethodGet, "/kyc", nil, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[wireKYCRecord, domain.KYCRecord](raw, "kyc", wireKYCRecord.toDomain)
	return page.Items, err
}

// GetKYC fetches one KYC record with its document references.
func (c *Client) GetKYC(ctx context.Context, id string) (*domain.KYCRecord, error) {
	raw, err := c.doRequest(ctx, "get kyc", http.MethodGet, "/kyc/"+id, nil, nil)
	if err != nil {
		return nil, err
	}

	var w wireKYCRecord
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	rec := w.toDomain()
	return &rec, nil
}

// ReviewKYC writes the admin's review decision.
func (c *Client) ReviewKYC(ctx context.Context, id string, status domain.Status, notes string) error {
	_, err := c.doRequest(ctx, "review kyc", http.MethodPut, "/kyc/"+id, nil,
		resolveRequest{Status: status, AdminNotes: notes})
	return err
}

// ==================================================================
// Settings
// ==================================================================

// GetSettings fetches the platform settings singleton.
func (c *Client) GetSettings(ctx context.Context) (*domain.Settings, error) {
	raw, err := c.doRequest(ctx, "get settings", http.MethodGet, "/settings", nil, nil)
	if err != nil {
		return nil, err
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the settings singleton wholesale.
func (c *Client) UpdateSettings(ctx context.Context, settings *domain.Settings) error {
	_, err := c.doRequest(ctx, "update settings", http.MethodPut, "/settings", nil, settings)
	return err
}

// decodePage decodes a list payload (bare array or keyed envelope) and
// normalizes every item.
func decodePage[W any, T any](raw []byte, key string, convert func(W) T) (Page[T], error) {
	items, hasNext, err := listPayload(raw, key)
	if err != nil {
		return Page[T]{}, err
	}

	var wire []W
	if err := json.Unmarshal(items, &wire); err != nil {
		return Page[T]{}, err
	}

	out := make([]T, 0, len(wire))
	for _, w := range wire {
		out = append(out, convert(w))
	}
	return Page[T]{Items: out, HasNext: hasNext}, nil
}
