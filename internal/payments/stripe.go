package payments

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

	"therawking/internal/apperrors"
)

const defaultStripeBaseURL = "https://api.stripe.com"

// StripeClient talks to Stripe's hosted checkout session API. Stripe takes
// form-encoded requests and answers JSON.
type StripeClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewStripeClient creates a client with the given secret key. The timeout
// bounds every gateway call; a timeout surfaces as a PaymentGatewayError.
func NewStripeClient(secretKey string, timeout time.Duration) *StripeClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StripeClient{
		secretKey: secretKey,
		baseURL:   defaultStripeBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local server.
func (c *StripeClient) WithBaseURL(baseURL string) *StripeClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type stripeSessionResponse struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentIntent string `json:"payment_intent"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateCheckoutSession creates a hosted checkout session in payment mode.
func (c *StripeClient) CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}
	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}
	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", item.Currency)
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		if item.ImageURL != "" {
			form.Set(prefix+"[price_data][product_data][images][0]", item.ImageURL)
		}
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitAmount, 10))
		form.Set(prefix+"[quantity]", strconv.FormatInt(item.Quantity, 10))
	}

	endpoint := c.baseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build checkout session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.PaymentGatewayError{Detail: "provider unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.PaymentGatewayError{Detail: "reading provider response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var stripeErr stripeErrorResponse
		detail := fmt.Sprintf("provider returned status %d", resp.StatusCode)
		if json.Unmarshal(body, &stripeErr) == nil && stripeErr.Error.Message != "" {
			detail = stripeErr.Error.Message
		}
		return nil, &apperrors.PaymentGatewayError{Detail: detail}
	}

	var session stripeSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, &apperrors.PaymentGatewayError{Detail: "malformed provider response", Err: err}
	}

	return &Session{
		ID:              session.ID,
		URL:             session.URL,
		PaymentIntentID: session.PaymentIntent,
	}, nil
}
