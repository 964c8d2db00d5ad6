package payments

import "context"

// LineItem is one priced line of a checkout session. UnitAmount is in minor
// currency units (cents) and must match the order snapshot exactly.
type LineItem struct {
	Currency   string
	Name       string
	ImageURL   string
	UnitAmount int64
	Quantity   int64
}

// SessionParams describes a hosted checkout session to create.
type SessionParams struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

// Session is a created hosted checkout session. PaymentIntentID may be empty;
// the gateway populates it lazily.
type Session struct {
	ID              string
	URL             string
	PaymentIntentID string
}

// Gateway creates hosted checkout sessions with the payment provider.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error)
}
