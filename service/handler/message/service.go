// Package message implements the SEND_MESSAGE action: delivering an
// outbound SMS or email to a customer through an injected messenger.
package message

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/handler"
)

// Messenger is the outbound delivery collaborator. Implementations own the
// channel credentials; the handler only hands over tenant-scoped content.
type Messenger interface {
	Send(ctx context.Context, tenantID, customerID, channel, body string) (deliveryID string, err error)
}

// Input is the typed view of the action params.
type Input struct {
	CustomerID string `json:"customerId"`
	Channel    string `json:"channel,omitempty"` // sms | email, defaults to sms
	Body       string `json:"body"`
}

// Output is the success payload recorded on the action.
type Output struct {
	DeliveryID string `json:"deliveryId"`
	Channel    string `json:"channel"`
}

// Service handles SEND_MESSAGE actions.
type Service struct {
	messenger Messenger
}

// New creates a message handler.
func New(messenger Messenger) *Service {
	return &Service{messenger: messenger}
}

func (s *Service) Kind() action.Type {
	return action.TypeSendMessage
}

func (s *Service) Signature() handler.Signature {
	return handler.Signature{
		Kind:        action.TypeSendMessage,
		Description: "Sends an outbound message to a customer.",
		Input:       reflect.TypeOf(&Input{}),
	}
}

func (s *Service) Execute(ctx context.Context, tenantID string, in interface{}) (interface{}, error) {
	input, ok := in.(*Input)
	if !ok {
		return nil, handler.NewBadRequest("unexpected input type %T", in)
	}
	if input.CustomerID == "" {
		return nil, handler.NewBadRequest("customerId is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, handler.NewBadRequest("body is required")
	}
	channel := input.Channel
	if channel == "" {
		channel = "sms"
	}
	switch channel {
	case "sms", "email":
	default:
		return nil, handler.NewBadRequest("unsupported channel %q", channel)
	}
	deliveryID, err := s.messenger.Send(ctx, tenantID, input.CustomerID, channel, input.Body)
	if err != nil {
		return nil, err
	}
	return &Output{DeliveryID: deliveryID, Channel: channel}, nil
}

var _ handler.Service = (*Service)(nil)
