// Package followup implements the SCHEDULE_FOLLOWUP action.
package followup

import (
	"context"
	"reflect"
	"time"

	"github.com/viant/actiongate/internal/clock"
	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/handler"
)

// Scheduler is the appointment-scheduling collaborator.
type Scheduler interface {
	ScheduleFollowUp(ctx context.Context, tenantID, customerID string, at time.Time, note string) (appointmentID string, err error)
}

// Input is the typed view of the action params. Either At or OffsetHours
// must be supplied; OffsetHours counts from now.
type Input struct {
	CustomerID  string     `json:"customerId"`
	At          *time.Time `json:"at,omitempty"`
	OffsetHours int        `json:"offsetHours,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// Output is the success payload recorded on the action.
type Output struct {
	AppointmentID string    `json:"appointmentId"`
	At            time.Time `json:"at"`
}

// Service handles SCHEDULE_FOLLOWUP actions.
type Service struct {
	scheduler Scheduler
}

// New creates a follow-up handler.
func New(scheduler Scheduler) *Service {
	return &Service{scheduler: scheduler}
}

func (s *Service) Kind() action.Type {
	return action.TypeScheduleFollowUp
}

func (s *Service) Signature() handler.Signature {
	return handler.Signature{
		Kind:        action.TypeScheduleFollowUp,
		Description: "Schedules a follow-up appointment with a customer.",
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
	var at time.Time
	switch {
	case input.At != nil:
		at = *input.At
	case input.OffsetHours > 0:
		at = clock.Now().Add(time.Duration(input.OffsetHours) * time.Hour)
	default:
		return nil, handler.NewBadRequest("either at or offsetHours is required")
	}
	if at.Before(clock.Now()) {
		return nil, handler.NewBadRequest("follow-up time %v is in the past", at)
	}
	appointmentID, err := s.scheduler.ScheduleFollowUp(ctx, tenantID, input.CustomerID, at, input.Note)
	if err != nil {
		return nil, err
	}
	return &Output{AppointmentID: appointmentID, At: at}, nil
}

var _ handler.Service = (*Service)(nil)
