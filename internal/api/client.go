package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/session-service/internal/domain"
	"github.com/fjod/go_cart/session-service/pkg/circuitbreaker"
	"github.com/fjod/go_cart/session-service/pkg/logger"
	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxResponseSize = 1 << 20 // 1MB

type response struct {
	status int
	body   []byte
}

// Client talks to the ordering backend. Every method maps the outcome to one
// of: a decoded value, *domain.ValidationError, domain.ErrSessionExpired, or a
// transport error.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[response]
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, breaker circuitbreaker.Settings, lg *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: circuitbreaker.New[response](breaker, lg),
		logger:  lg,
	}
}

type SessionResponse struct {
	Token string      `json:"token"`
	Cart  domain.Cart `json:"cart"`
}

type sessionRequest struct {
	Restaurant string `json:"restaurant"`
}

type addItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type payRequest struct {
	PaymentToken string `json:"paymentToken"`
}

func restaurantIRI(id int64) string {
	return "/api/restaurants/" + strconv.FormatInt(id, 10)
}

func orderPath(cartID int64) string {
	return "/api/orders/" + strconv.FormatInt(cartID, 10)
}

// CreateSession starts a cart for the restaurant and returns the cart token.
func (c *Client) CreateSession(ctx context.Context, restaurantID int64) (*SessionResponse, error) {
	var out SessionResponse
	err := c.call(ctx, http.MethodPost, "/api/carts/session", "", sessionRequest{Restaurant: restaurantIRI(restaurantID)}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddItem(ctx context.Context, token string, cartID int64, productCode string, quantity int) (*domain.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, orderPath(cartID)+"/items", token, addItemRequest{Product: productCode, Quantity: quantity})
}

func (c *Client) UpdateItem(ctx context.Context, token string, cartID, itemID int64, quantity int) (*domain.Cart, error) {
	path := fmt.Sprintf("%s/items/%d", orderPath(cartID), itemID)
	return c.cartCall(ctx, http.MethodPut, path, token, quantityRequest{Quantity: quantity})
}

func (c *Client) RemoveItem(ctx context.Context, token string, cartID, itemID int64) (*domain.Cart, error) {
	path := fmt.Sprintf("%s/items/%d", orderPath(cartID), itemID)
	return c.cartCall(ctx, http.MethodDelete, path, token, nil)
}

// AssignAddress fails with *domain.ValidationError when the restaurant does
// not deliver to the address.
func (c *Client) AssignAddress(ctx context.Context, token string, cartID int64, address domain.Address) (*domain.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, orderPath(cartID), token, map[string]any{"shippingAddress": address})
}

// SetShippingTime with a nil time asks for delivery as soon as possible.
func (c *Client) SetShippingTime(ctx context.Context, token string, cartID int64, shippedAt *time.Time) (*domain.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, orderPath(cartID), token, map[string]any{"shippedAt": shippedAt})
}

func (c *Client) SetFulfillmentMethod(ctx context.Context, token string, cartID int64, method domain.FulfillmentMethod) (*domain.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, orderPath(cartID), token, map[string]any{"fulfillmentMethod": method})
}

func (c *Client) Validate(ctx context.Context, token string, cartID int64) (*domain.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, orderPath(cartID)+"/validate", token, nil)
}

func (c *Client) Checkout(ctx context.Context, token string, cartID int64, paymentToken string) (*domain.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, orderPath(cartID)+"/pay", token, payRequest{PaymentToken: paymentToken})
}

// LoadRestaurants accepts both a bare array and a hydra collection.
func (c *Client) LoadRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/restaurants", "", nil)
	if err != nil {
		return nil, err
	}

	payload := res.body
	if doc := gjson.ParseBytes(res.body); !doc.IsArray() {
		members := doc.Get("hydra:member")
		if !members.IsArray() {
			return nil, fmt.Errorf("decode restaurants: missing hydra:member")
		}
		payload = []byte(members.Raw)
	}

	var restaurants []domain.Restaurant
	if err := json.Unmarshal(payload, &restaurants); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	return restaurants, nil
}

func (c *Client) LoadTiming(ctx context.Context, restaurantID int64) (*domain.Timing, error) {
	var timing domain.Timing
	if err := c.call(ctx, http.MethodGet, restaurantIRI(restaurantID)+"/timing", "", nil, &timing); err != nil {
		return nil, err
	}
	return &timing, nil
}

func (c *Client) cartCall(ctx context.Context, method, path, token string, body any) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.call(ctx, method, path, token, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) call(ctx context.Context, method, path, token string, body, out any) error {
	res, err := c.do(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// do runs the request through the breaker. Only transport errors and 5xx
// count as breaker failures; 4xx outcomes are classified afterwards.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return response{}, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}

	res, err := c.breaker.Execute(func() (response, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return response{}, fmt.Errorf("build %s %s: %w", method, path, err)
		}
		req.Header.Set("Accept", "application/ld+json, application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return response{}, fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return response{}, fmt.Errorf("read %s %s: %w", method, path, err)
		}
		r := response{status: resp.StatusCode, body: data}
		if resp.StatusCode >= http.StatusInternalServerError {
			return r, &StatusError{Method: method, Path: path, Status: resp.StatusCode}
		}
		return r, nil
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			return response{}, fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
		}
		logger.WithTrace(ctx, c.logger).Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return response{}, err
	}

	switch {
	case res.status == http.StatusUnauthorized:
		return res, fmt.Errorf("%s %s: %w", method, path, domain.ErrSessionExpired)
	case res.status >= http.StatusBadRequest:
		if list, ok := domain.ParseViolationList(res.body); ok {
			return res, &domain.ValidationError{Violations: list.Violations}
		}
		return res, &StatusError{Method: method, Path: path, Status: res.status}
	}
	return res, nil
}
