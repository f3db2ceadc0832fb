package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"sf-dashboard-pos/checkout-svc/internal/domain"
	"sf-dashboard-pos/checkout-svc/internal/service"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type BackendConfig struct {
	BaseURL string
	Token   string
	// Breaker opens after this many consecutive failures.
	MaxFailures  uint32
	BreakerReset time.Duration
}

// APIError is a non-2xx answer of the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domain.ErrRejected:
		return e.StatusCode == http.StatusBadRequest ||
			e.StatusCode == http.StatusConflict ||
			e.StatusCode == http.StatusUnprocessableEntity
	case domain.ErrUpstream:
		return true
	}
	return false
}

// BackendClient talks to the remote POS REST API. Every call goes through a
// circuit breaker that counts transport errors and 5xx answers.
type BackendClient struct {
	config  BackendConfig
	client  HTTPClient
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

func NewBackendClient(config BackendConfig, client HTTPClient) *BackendClient {
	if config.MaxFailures == 0 {
		config.MaxFailures = 5
	}
	if config.BreakerReset == 0 {
		config.BreakerReset = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    "pos-backend",
		Timeout: config.BreakerReset,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		// A caller that gave up says nothing about the backend's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &BackendClient{
		config:  config,
		client:  client,
		breaker: breaker,
	}
}

func (c *BackendClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			defer resp.Body.Close()
			return nil, &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrBackendUnavailable, method, path, err)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: %w", method, path, &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)})
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func readMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return err.Error()
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}

func cartPath(cartID string, rest ...string) string {
	path := "/carts/" + url.PathEscape(cartID)
	for _, part := range rest {
		path += "/" + part
	}
	return path
}

func (c *BackendClient) GetCartSummary(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	var summary domain.CartSummary
	if err := c.do(ctx, http.MethodGet, cartPath(cartID, "summary"), nil, &summary); err != nil {
		return nil, err
	}
	if summary.Items == nil {
		summary.Items = []domain.CartLine{}
	}
	return &summary, nil
}

func (c *BackendClient) AddCartItem(ctx context.Context, cartID string, productID int64, quantity int) error {
	body := map[string]interface{}{"product_id": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, cartPath(cartID, "items"), body, nil)
}

func (c *BackendClient) UpdateCartItem(ctx context.Context, cartID string, itemID int64, quantity int) error {
	body := map[string]interface{}{"quantity": quantity}
	return c.do(ctx, http.MethodPut, cartPath(cartID, "items", strconv.FormatInt(itemID, 10)), body, nil)
}

func (c *BackendClient) RemoveCartItem(ctx context.Context, cartID string, itemID int64) error {
	return c.do(ctx, http.MethodDelete, cartPath(cartID, "items", strconv.FormatInt(itemID, 10)), nil, nil)
}

func (c *BackendClient) EmptyCart(ctx context.Context, cartID string) error {
	return c.do(ctx, http.MethodPost, cartPath(cartID, "empty"), nil, nil)
}

func (c *BackendClient) ProductByBarcode(ctx context.Context, barcode string, geo domain.GeoHint) (*domain.Product, error) {
	path := "/products/barcode/" + url.PathEscape(barcode)
	if !geo.IsZero() {
		query := url.Values{}
		query.Set("latitude", strconv.FormatFloat(geo.Latitude, 'f', -1, 64))
		query.Set("longitude", strconv.FormatFloat(geo.Longitude, 'f', -1, 64))
		path += "?" + query.Encode()
	}
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *BackendClient) CreateOrder(ctx context.Context, draft *domain.OrderDraft) (string, error) {
	var created struct {
		OrderNumber string `json:"order_number"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders/checkout", draft, &created); err != nil {
		return "", err
	}
	if created.OrderNumber == "" {
		return "", fmt.Errorf("%w: checkout response has no order_number", domain.ErrUpstream)
	}
	return created.OrderNumber, nil
}

func (c *BackendClient) VerifyOrder(ctx context.Context, orderNumber string, paid decimal.Decimal, confirm bool) error {
	body := struct {
		OrderNumber string          `json:"order_number"`
		PaidAmount  decimal.Decimal `json:"paid_amount"`
		Confirm     bool            `json:"confirm"`
	}{orderNumber, paid, confirm}
	return c.do(ctx, http.MethodPost, "/orders/verify", body, nil)
}

func (c *BackendClient) VoidOrder(ctx context.Context, orderNumber, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderNumber)+"/void", body, nil)
}

func (c *BackendClient) GetOrder(ctx context.Context, orderNumber string) (*domain.QROrderContext, error) {
	var order domain.QROrderContext
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderNumber), nil, &order); err != nil {
		return nil, err
	}
	if order.OrderNumber == "" {
		order.OrderNumber = orderNumber
	}
	return &order, nil
}

var (
	_ service.CartAPI    = (*BackendClient)(nil)
	_ service.ProductAPI = (*BackendClient)(nil)
	_ service.OrderAPI   = (*BackendClient)(nil)
)
