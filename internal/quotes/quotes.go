// Package quotes provides shipping-rate quotes. The only implementation today
// is a static placeholder; a real carrier integration slots in behind the
// Provider interface without touching the HTTP response envelope.
package quotes

import "context"

// CarrierQuote is a single named shipping option with a price.
type CarrierQuote struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"display_name"`
	Cost        float64 `json:"cost"`
}

// Provider returns quotes for a cart. Implementations may inspect the raw
// cart payload; the static provider ignores it entirely.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Quote returns the ordered list of quotes for a checkout.
	Quote(ctx context.Context, cartPayload []byte) ([]CarrierQuote, error)
}

// StaticProvider serves a fixed two-quote table regardless of cart contents.
type StaticProvider struct{}

func NewStatic() *StaticProvider { return &StaticProvider{} }

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Quote(ctx context.Context, cartPayload []byte) ([]CarrierQuote, error) {
	return []CarrierQuote{
		{Code: "sameday", DisplayName: "Same Day Delivery", Cost: 11.50},
		{Code: "nextday", DisplayName: "Next Day Delivery", Cost: 7.99},
	}, nil
}
