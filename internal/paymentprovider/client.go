// Package paymentprovider клиент платёжного провайдера с размещённой
// страницей оплаты: товар, цена, платёжная сессия и её статус.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client клиент REST API провайдера. Тело запросов кодируется как форма,
// авторизация по секретному ключу.
type Client struct {
	secretKey  string
	apiURL     string
	currency   string
	successURL string
	cancelURL  string
	httpClient *http.Client
	newKey     func() string
}

// Options параметры клиента.
type Options struct {
	APIURL     string
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

// NewClient создаёт новый клиент провайдера.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		secretKey:  opts.SecretKey,
		apiURL:     strings.TrimRight(opts.APIURL, "/"),
		currency:   opts.Currency,
		successURL: opts.SuccessURL,
		cancelURL:  opts.CancelURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		newKey:     uuid.NewString,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Idempotency-Key", c.newKey())
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env errorEnvelope
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(data, &env) == nil && env.Error != nil {
			apiErr.Type = env.Error.Type
			apiErr.Message = env.Error.Message
		} else {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateProduct регистрирует товар с названием name.
func (c *Client) CreateProduct(ctx context.Context, name string) (*Product, error) {
	const op = "paymentprovider.CreateProduct"
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/products", url.Values{"name": {name}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var p Product
	if err := c.do(req, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// CreatePrice регистрирует цену товара productID; amount в минимальных единицах.
func (c *Client) CreatePrice(ctx context.Context, productID string, amount int64) (*Price, error) {
	const op = "paymentprovider.CreatePrice"
	form := url.Values{
		"product":     {productID},
		"unit_amount": {strconv.FormatInt(amount, 10)},
		"currency":    {c.currency},
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/v1/prices", form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var p Price
	if err := c.do(req, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// CreateCheckoutSession создаёт платёжную сессию на одну единицу цены.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	const op = "paymentprovider.CreateCheckoutSession"
	form := url.Values{
		"mode":                    {"payment"},
		"line_items[0][price]":    {params.PriceID},
		"line_items[0][quantity]": {"1"},
		"success_url":             {c.successURL + "?session_id={CHECKOUT_SESSION_ID}"},
		"cancel_url":              {c.cancelURL},
	}
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var s Session
	if err := c.do(req, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// RetrieveCheckoutSession возвращает текущее состояние сессии.
func (c *Client) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*Session, error) {
	const op = "paymentprovider.RetrieveCheckoutSession"
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var s Session
	if err := c.do(req, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
