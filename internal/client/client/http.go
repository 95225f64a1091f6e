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
	"strings"

	"github.com/dmitrijs2005/credebt/internal/client/auth"
	"github.com/dmitrijs2005/credebt/internal/client/models"
)

const maxErrorBody = 64 << 10

// HTTPClient implements Client against the REST API rooted at baseURL.
type HTTPClient struct {
	baseURL string
	authed  *http.Client
	plain   *http.Client
}

// NewHTTPClient uses authed for protected endpoints and plain for the
// login family.
func NewHTTPClient(baseURL string, authed, plain *http.Client) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), authed: authed, plain: plain}
}

func seg(id models.ID) string { return url.PathEscape(string(id)) }

func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (auth.Tokens, error) {
	var out models.TokenResponse
	err := c.do(ctx, c.plain, http.MethodPost, "/auth/login",
		models.LoginRequest{LoginIdentifier: identifier, Password: password}, &out)
	if err != nil {
		return auth.Tokens{}, err
	}
	return tokensOf(out)
}

func (c *HTTPClient) Register(ctx context.Context, in models.RegisterRequest) (auth.Tokens, error) {
	var out models.TokenResponse
	if err := c.do(ctx, c.plain, http.MethodPost, "/users", in, &out); err != nil {
		return auth.Tokens{}, err
	}
	return tokensOf(out)
}

func tokensOf(r models.TokenResponse) (auth.Tokens, error) {
	if r.Token == "" {
		return auth.Tokens{}, fmt.Errorf("%w: no token in response", ErrUnavailable)
	}
	return auth.Tokens{AccessToken: r.Token, RefreshToken: r.RefreshToken}, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, c.plain, http.MethodPost, "/auth/forgot-password", models.ForgotPasswordRequest{Email: email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, c.plain, http.MethodPost, "/auth/reset-password",
		models.ResetPasswordRequest{Token: token, Password: password}, nil)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, c.authed, http.MethodGet, "/users", nil, &out)
	return out, err
}

func (c *HTTPClient) GetUser(ctx context.Context, id models.ID) (models.User, error) {
	var out models.User
	err := c.do(ctx, c.authed, http.MethodGet, "/users/"+seg(id), nil, &out)
	return out, err
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id models.ID, in models.ProfileUpdate) (models.User, error) {
	var out models.User
	err := c.do(ctx, c.authed, http.MethodPut, "/users/"+seg(id), in, &out)
	return out, err
}

// SearchUsersByPhone returns no users, not an error, when nobody matches.
// The backend answers with a single user or a list depending on version.
func (c *HTTPClient) SearchUsersByPhone(ctx context.Context, phone string) ([]models.User, error) {
	var raw json.RawMessage
	err := c.do(ctx, c.authed, http.MethodGet, "/users/search?phone="+url.QueryEscape(phone), nil, &raw)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return nil, nil
	case raw[0] == '[':
		var users []models.User
		if err := json.Unmarshal(raw, &users); err != nil {
			return nil, fmt.Errorf("decode users: %w", err)
		}
		return users, nil
	default:
		var u models.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		if u.ID == "" {
			return nil, nil
		}
		return []models.User{u}, nil
	}
}

func (c *HTTPClient) RecentUsers(ctx context.Context, id models.ID) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, c.authed, http.MethodGet, "/users/"+seg(id)+"/recent-users", nil, &out)
	return out, err
}

func (c *HTTPClient) TouchRecentUser(ctx context.Context, id, contact models.ID) error {
	return c.do(ctx, c.authed, http.MethodPost, "/users/"+seg(id)+"/recent-users",
		models.RecentContact{ContactUserID: contact}, nil)
}

func (c *HTTPClient) ListBooklets(ctx context.Context) ([]models.Booklet, error) {
	var out []models.Booklet
	err := c.do(ctx, c.authed, http.MethodGet, "/booklets", nil, &out)
	return out, err
}

func (c *HTTPClient) GetBooklet(ctx context.Context, id models.ID) (models.Booklet, error) {
	var out models.Booklet
	err := c.do(ctx, c.authed, http.MethodGet, "/booklets/"+seg(id), nil, &out)
	return out, err
}

func (c *HTTPClient) CreateBooklet(ctx context.Context, in models.BookletInput) (models.Booklet, error) {
	var out models.Booklet
	err := c.do(ctx, c.authed, http.MethodPost, "/booklets", in, &out)
	return out, err
}

func (c *HTTPClient) UpdateBooklet(ctx context.Context, id models.ID, in models.BookletInput) (models.Booklet, error) {
	var out models.Booklet
	err := c.do(ctx, c.authed, http.MethodPut, "/booklets/"+seg(id), in, &out)
	return out, err
}

func (c *HTTPClient) DeleteBooklet(ctx context.Context, id models.ID) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/booklets/"+seg(id), nil, nil)
}

func (c *HTTPClient) ListRecords(ctx context.Context, bookletID models.ID) ([]models.Record, error) {
	var out []models.Record
	err := c.do(ctx, c.authed, http.MethodGet, "/booklets/"+seg(bookletID)+"/income-expenses", nil, &out)
	return out, err
}

func (c *HTTPClient) AddRecord(ctx context.Context, bookletID models.ID, in models.RecordInput) error {
	return c.do(ctx, c.authed, http.MethodPost, "/booklets/"+seg(bookletID)+"/income-expenses", in, nil)
}

func (c *HTTPClient) UpdateRecord(ctx context.Context, recordID models.ID, in models.RecordInput) error {
	return c.do(ctx, c.authed, http.MethodPut, "/booklets/income-expenses/"+seg(recordID), in, nil)
}

func (c *HTTPClient) DeleteRecord(ctx context.Context, recordID models.ID) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/booklets/income-expenses/"+seg(recordID), nil, nil)
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, in models.TransactionInput) error {
	return c.do(ctx, c.authed, http.MethodPost, "/transactions", in, nil)
}

func (c *HTTPClient) Conversation(ctx context.Context, a, b models.ID) ([]models.Transaction, error) {
	var out models.Conversation
	if err := c.do(ctx, c.authed, http.MethodGet, "/chat/"+seg(a)+"/"+seg(b), nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

func (c *HTTPClient) Balance(ctx context.Context, a, b models.ID) (float64, error) {
	var out models.Balance
	if err := c.do(ctx, c.authed, http.MethodGet, "/transactions/balance/"+seg(a)+"/"+seg(b), nil, &out); err != nil {
		return 0, err
	}
	return out.NetBalance, nil
}

func (c *HTTPClient) RequestClear(ctx context.Context, in models.ClearRequestInput) error {
	return c.do(ctx, c.authed, http.MethodPost, "/transactions/clear/request", in, nil)
}

// PendingClear returns nil when there is no request between the two users.
func (c *HTTPClient) PendingClear(ctx context.Context, receiver, sender models.ID) (*models.ClearRequest, error) {
	var out *models.ClearRequest
	err := c.do(ctx, c.authed, http.MethodGet, "/transactions/clear/"+seg(receiver)+"/"+seg(sender), nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil || out.ID == "" {
		return nil, nil
	}
	return out, nil
}

func (c *HTTPClient) AcceptClear(ctx context.Context, receiver, sender models.ID) error {
	return c.do(ctx, c.authed, http.MethodPost, "/transactions/clear/"+seg(receiver)+"/"+seg(sender), struct{}{}, nil)
}

// do sends in as JSON and decodes the answer into out. An empty 2xx body
// leaves out untouched.
func (c *HTTPClient) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return mapTransportError(method, path, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func mapTransportError(method, path string, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthorized),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s %s: %w", method, path, err)
	default:
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnavailable, err)
	}
}

func mapStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	}

	var eb models.ErrorBody
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(b))
	if json.Unmarshal(b, &eb) == nil && eb.Text() != "" {
		msg = eb.Text()
	}
	return &APIError{StatusCode: code, Message: msg}
}
