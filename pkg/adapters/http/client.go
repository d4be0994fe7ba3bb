package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single call to the scheduling service.
const DefaultTimeout = 30 * time.Second

const genericRemoteError = "the scheduling service could not process the request"

// Client implements ports.SchedulingClient over the scheduling service's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	secret     []byte
	logger     *slog.Logger
}

var _ ports.SchedulingClient = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It keeps any client given to
// WithHTTPClient, working on a copy so the caller's client is not modified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithAuthSecret signs every request with a short-lived HS256 bearer token.
func WithAuthSecret(secret string) ClientOption {
	return func(c *Client) {
		if secret != "" {
			c.secret = []byte(secret)
		}
	}
}

// WithClientLogger sets the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryAvailability lists the slots of typ on date, in service order.
func (c *Client) QueryAvailability(ctx context.Context, date string, typ domain.AppointmentTypeKey) ([]domain.AvailabilitySlot, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("appointmentType", string(typ))

	var slots []domain.AvailabilitySlot
	if err := c.do(ctx, domain.OpAvailability, http.MethodGet, "/api/availability?"+q.Encode(), nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) Book(ctx context.Context, req domain.BookingRequest) (domain.BookingConfirmation, error) {
	var out domain.BookingConfirmation
	err := c.do(ctx, domain.OpBook, http.MethodPost, "/api/book", req, &out)
	return out, err
}

func (c *Client) Reschedule(ctx context.Context, req domain.RescheduleRequest) (domain.RescheduleConfirmation, error) {
	var out domain.RescheduleConfirmation
	err := c.do(ctx, domain.OpReschedule, http.MethodPost, "/api/reschedule", req, &out)
	return out, err
}

func (c *Client) Cancel(ctx context.Context, req domain.CancelRequest) (domain.CancelConfirmation, error) {
	var out domain.CancelConfirmation
	err := c.do(ctx, domain.OpCancel, http.MethodPost, "/api/cancel", req, &out)
	return out, err
}

// errorBody is the failure payload of every endpoint.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &domain.RemoteCallError{Op: op, Message: "failed to encode request", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.RemoteCallError{Op: op, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != nil {
		token, err := c.sign()
		if err != nil {
			return &domain.RemoteCallError{Op: op, Message: "failed to sign request", Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("scheduling service unreachable", "op", op, "err", err)
		return &domain.RemoteCallError{Op: op, Message: "scheduling service unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteCallError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response from scheduling service", Err: err}
	}
	return nil
}

func (c *Client) remoteError(op string, resp *http.Response) error {
	e := &domain.RemoteCallError{Op: op, StatusCode: resp.StatusCode, Message: genericRemoteError}

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error != "" {
		e.Message = eb.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		e.Err = domain.ErrBookingNotFound
	case http.StatusConflict:
		e.Err = domain.ErrSlotUnavailable
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Err = domain.ErrInvalidRequest
	}

	c.logger.Warn("scheduling service rejected request", "op", op, "status", resp.StatusCode, "message", e.Message)
	return e
}

// TokenIssuer is the issuer claim of tokens signed by the client.
const TokenIssuer = "medibook"

func (c *Client) sign() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   "conversation",
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
