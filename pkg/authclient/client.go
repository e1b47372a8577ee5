package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/microshop/pkg/logging"
	"github.com/labstack/echo/v4"
)

const maxErrorBody = 4 << 10

// Identity is the user record the identity service returns from /validate.
type Identity struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsAdmin   bool      `json:"is_admin"`
}

// UpstreamError is a non-200 answer from the identity service.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("validate failed with status: %d", e.Status)
	}
	return fmt.Sprintf("validate failed with status: %d: %s", e.Status, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(authServiceURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(authServiceURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Validate forwards the Authorization header value unchanged to
// POST /validate and returns the identity it resolves to.
func (c *Client) Validate(ctx context.Context, authorization string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(echo.HeaderAuthorization, authorization)
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set(echo.HeaderXRequestID, rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: ReadErrorBody(resp.Body)}
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if id.Username == "" {
		return nil, errors.New("decode response: empty username")
	}

	return &id, nil
}

// ReadErrorBody extracts the "error"/"msg" field of a JSON error body, or
// the trimmed raw body when it is not JSON.
func ReadErrorBody(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Msg != "" {
			return body.Msg
		}
	}
	return strings.TrimSpace(string(raw))
}
