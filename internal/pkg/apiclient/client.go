package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/morshidulrahman/testomg-babe/internal/pkg/viewmodel"
)

// UnauthorizedMessage is the notification shown for every failed call.
const UnauthorizedMessage = "Unauthorized access"

const defaultTimeout = 15 * time.Second

// Notifier shows a message to the user.
type Notifier func(message string)

// Client calls the account API with the stored session token.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	notify         Notifier
	onUnauthorized func(status int)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notify = n }
}

// WithOnUnauthorized sets the sign-out hook run on 401 and 403 responses.
func WithOnUnauthorized(fn func(status int)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		notify: func(message string) {
			log.Warn(message)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends a JSON request and decodes a 2xx body into out when it is not nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Without a token the request still goes out; the server answers 401.
	token, err := c.tokens.Token()
	switch {
	case err == nil:
		req.Header.Set("Authorization", "Bearer "+token)
	case !errors.Is(err, ErrNoToken):
		return fmt.Errorf("read access token: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, apiErr)
		c.handleFailure(apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) handleFailure(apiErr *Error) {
	if c.notify != nil {
		c.notify(UnauthorizedMessage)
	}
	if apiErr.Unauthorized() && c.onUnauthorized != nil {
		c.onUnauthorized(apiErr.StatusCode)
	}
}

// Period is the current subscription period of an account.
type Period struct {
	Plan      string    `json:"plan"`
	Period    string    `json:"period"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Active    bool      `json:"active"`
}

type Account struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Plan          string  `json:"plan"`
	CustomerID    string  `json:"customer_id"`
	HasCustomer   bool    `json:"has_customer"`
	CurrentPeriod *Period `json:"current_period"`
}

func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.Do(ctx, http.MethodGet, "/api/v1/user/account", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) GetTransactions(ctx context.Context) ([]viewmodel.TransactionRow, error) {
	var out struct {
		Transactions []viewmodel.TransactionRow `json:"transactions"`
	}
	if err := c.Do(ctx, http.MethodGet, "/api/v1/user/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

type redirect struct {
	URL string `json:"url"`
}

// CreateCheckout returns the Stripe Checkout URL for a monthly or yearly plan.
func (c *Client) CreateCheckout(ctx context.Context, period string) (string, error) {
	var out redirect
	body := map[string]string{"period": period}
	if err := c.Do(ctx, http.MethodPost, "/api/v1/billing/checkout", body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) CreatePortal(ctx context.Context) (string, error) {
	var out redirect
	if err := c.Do(ctx, http.MethodPost, "/api/v1/billing/portal", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
