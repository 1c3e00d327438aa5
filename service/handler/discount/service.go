// Package discount implements the APPLY_DISCOUNT action: mutating a quote
// through the billing collaborator.
package discount

import (
	"context"
	"reflect"

	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/handler"
)

// Billing is the quote/billing mutation collaborator.
type Billing interface {
	ApplyDiscount(ctx context.Context, tenantID, quoteID string, percent float64, reason string) (newTotal float64, err error)
}

// Input is the typed view of the action params.
type Input struct {
	QuoteID string  `json:"quoteId"`
	Percent float64 `json:"percent"`
	Reason  string  `json:"reason,omitempty"`
}

// Output is the success payload recorded on the action.
type Output struct {
	QuoteID  string  `json:"quoteId"`
	Percent  float64 `json:"percent"`
	NewTotal float64 `json:"newTotal"`
}

// Service handles APPLY_DISCOUNT actions.
type Service struct {
	billing Billing
}

// New creates a discount handler.
func New(billing Billing) *Service {
	return &Service{billing: billing}
}

func (s *Service) Kind() action.Type {
	return action.TypeApplyDiscount
}

func (s *Service) Signature() handler.Signature {
	return handler.Signature{
		Kind:        action.TypeApplyDiscount,
		Description: "Applies a percentage discount to an open quote.",
		Input:       reflect.TypeOf(&Input{}),
	}
}

func (s *Service) Execute(ctx context.Context, tenantID string, in interface{}) (interface{}, error) {
	input, ok := in.(*Input)
	if !ok {
		return nil, handler.NewBadRequest("unexpected input type %T", in)
	}
	if input.QuoteID == "" {
		return nil, handler.NewBadRequest("quoteId is required")
	}
	if input.Percent <= 0 || input.Percent > 100 {
		return nil, handler.NewBadRequest("percent must be in (0, 100], got %v", input.Percent)
	}
	newTotal, err := s.billing.ApplyDiscount(ctx, tenantID, input.QuoteID, input.Percent, input.Reason)
	if err != nil {
		return nil, err
	}
	return &Output{QuoteID: input.QuoteID, Percent: input.Percent, NewTotal: newTotal}, nil
}

var _ handler.Service = (*Service)(nil)
