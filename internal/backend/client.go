// Package backend предоставляет клиент для внешнего бэкенда витрины.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/gvmbt/pvndora-storefront/internal/model"
)

// ErrNotFound возвращается, когда бэкенд не знает указанный ресурс.
var (
	ErrNotFound = errors.New("backend: resource not found")
	// ErrConflict возвращается, когда бэкенд отклонил операцию из-за состояния ресурса.
	ErrConflict = errors.New("backend: operation conflicts with resource state")
)

// Client инкапсулирует HTTP-взаимодействие с бэкендом витрины.
// Временные сбои и 429 ретраятся на уровне транспорта.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент бэкенда по указанному адресу.
func NewClient(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: rc.StandardClient(),
	}
}

// GetOrders возвращает сырые заказы пользователя.
func (c *Client) GetOrders(ctx context.Context, userID int64) ([]model.RawOrder, error) {
	var orders []model.RawOrder
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders", userID, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder возвращает один сырой заказ пользователя.
func (c *Client) GetOrder(ctx context.Context, userID int64, orderID string) (*model.RawOrder, error) {
	var order model.RawOrder
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/"+orderID, userID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder просит бэкенд отменить заказ.
func (c *Client) CancelOrder(ctx context.Context, userID int64, orderID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/orders/"+orderID+"/cancel", userID, nil, nil)
}

// RequestRefund просит бэкенд открыть возврат по заказу.
func (c *Client) RequestRefund(ctx context.Context, userID int64, orderID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/orders/"+orderID+"/refund", userID, nil, nil)
}

// GetProfile возвращает сырой профиль пользователя со всеми историями.
func (c *Client) GetProfile(ctx context.Context, userID int64) (*model.RawProfile, error) {
	var profile model.RawProfile
	if err := c.doJSON(ctx, http.MethodGet, "/api/profile", userID, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetLeaderboard возвращает страницу рейтинга. userID = 0 означает анонимный
// запрос без строки текущего пользователя (его использует фоновый снапшот).
func (c *Client) GetLeaderboard(ctx context.Context, userID int64, limit int) (*model.RawLeaderboard, error) {
	path := "/api/leaderboard"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var lb model.RawLeaderboard
	if err := c.doJSON(ctx, http.MethodGet, path, userID, nil, &lb); err != nil {
		return nil, err
	}
	return &lb, nil
}

// GetCart возвращает сырую корзину пользователя.
func (c *Client) GetCart(ctx context.Context, userID int64) (*model.RawCart, error) {
	var cart model.RawCart
	if err := c.doJSON(ctx, http.MethodGet, "/api/cart", userID, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type promoRequest struct {
	Code string `json:"code"`
}

// ApplyPromo применяет промокод и возвращает пересчитанную корзину.
func (c *Client) ApplyPromo(ctx context.Context, userID int64, code string) (*model.RawCart, error) {
	var cart model.RawCart
	if err := c.doJSON(ctx, http.MethodPost, "/api/cart/promo", userID, promoRequest{Code: code}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Checkout оформляет корзину в заказ и возвращает созданный сырой заказ.
func (c *Client) Checkout(ctx context.Context, userID int64) (*model.RawOrder, error) {
	var order model.RawOrder
	if err := c.doJSON(ctx, http.MethodPost, "/api/cart/checkout", userID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, userID int64, body, out any) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("backend client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
