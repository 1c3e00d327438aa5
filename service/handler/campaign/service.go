// Package campaign implements the CREATE_CAMPAIGN action.
package campaign

import (
	"context"
	"reflect"
	"time"

	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/handler"
)

// Spec is what the handler passes to the campaign collaborator.
type Spec struct {
	Name       string
	Audience   string
	TemplateID string
	StartAt    *time.Time
}

// Creator is the campaign-management collaborator.
type Creator interface {
	Create(ctx context.Context, tenantID string, spec Spec) (campaignID string, err error)
}

// Input is the typed view of the action params.
type Input struct {
	Name       string     `json:"name"`
	Audience   string     `json:"audience,omitempty"` // segment identifier, defaults to all customers
	TemplateID string     `json:"templateId,omitempty"`
	StartAt    *time.Time `json:"startAt,omitempty"`
}

// Output is the success payload recorded on the action.
type Output struct {
	CampaignID string `json:"campaignId"`
}

// Service handles CREATE_CAMPAIGN actions.
type Service struct {
	creator Creator
}

// New creates a campaign handler.
func New(creator Creator) *Service {
	return &Service{creator: creator}
}

func (s *Service) Kind() action.Type {
	return action.TypeCreateCampaign
}

func (s *Service) Signature() handler.Signature {
	return handler.Signature{
		Kind:        action.TypeCreateCampaign,
		Description: "Creates a marketing campaign.",
		Input:       reflect.TypeOf(&Input{}),
	}
}

func (s *Service) Execute(ctx context.Context, tenantID string, in interface{}) (interface{}, error) {
	input, ok := in.(*Input)
	if !ok {
		return nil, handler.NewBadRequest("unexpected input type %T", in)
	}
	if input.Name == "" {
		return nil, handler.NewBadRequest("name is required")
	}
	audience := input.Audience
	if audience == "" {
		audience = "all"
	}
	campaignID, err := s.creator.Create(ctx, tenantID, Spec{
		Name:       input.Name,
		Audience:   audience,
		TemplateID: input.TemplateID,
		StartAt:    input.StartAt,
	})
	if err != nil {
		return nil, err
	}
	return &Output{CampaignID: campaignID}, nil
}

var _ handler.Service = (*Service)(nil)
