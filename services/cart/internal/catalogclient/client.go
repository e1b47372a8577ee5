package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/microshop/pkg/authclient"
	"github.com/Skotchmaster/microshop/pkg/logging"
)

var ErrNotFound = errors.New("catalog: product or stock does not exist")

type Product struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type Stock struct {
	ProductID uint            `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Completed bool            `json:"completed"`
	Product   *Product        `json:"product"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(catalogURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(catalogURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetStock reads the completed stock of productID on behalf of the caller
// whose Authorization header value is forwarded unchanged.
func (c *Client) GetStock(ctx context.Context, authorization string, productID uint) (*Stock, error) {
	url := c.baseURL + "/products/" + strconv.FormatUint(uint64(productID), 10) + "/stocks"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &authclient.UpstreamError{Status: resp.StatusCode, Body: authclient.ReadErrorBody(resp.Body)}
	}

	var stock Stock
	if err := json.NewDecoder(resp.Body).Decode(&stock); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if stock.Product == nil {
		return nil, errors.New("decode response: stock without product")
	}
	return &stock, nil
}
