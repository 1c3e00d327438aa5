package handler_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/actiongate/model/action"
	"github.com/viant/actiongate/service/handler"
)

type echoInput struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type echoHandler struct {
	kind action.Type
	got  *echoInput
}

func (h *echoHandler) Kind() action.Type { return h.kind }

func (h *echoHandler) Signature() handler.Signature {
	return handler.Signature{Kind: h.kind, Input: reflect.TypeOf(&echoInput{})}
}

func (h *echoHandler) Execute(_ context.Context, tenantID string, in interface{}) (interface{}, error) {
	input, ok := in.(*echoInput)
	if !ok {
		return nil, handler.NewBadRequest("unexpected input type %T", in)
	}
	h.got = input
	return map[string]interface{}{"tenant": tenantID, "name": input.Name}, nil
}

func TestRegistryValidate(t *testing.T) {
	registry := handler.NewRegistry()
	err := registry.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, handler.ErrNotRegistered))

	for _, kind := range action.Types() {
		registry.Register(&echoHandler{kind: kind})
	}
	assert.NoError(t, registry.Validate())
}

func TestRegistryExecuteCoercesParams(t *testing.T) {
	registry := handler.NewRegistry()
	h := &echoHandler{kind: action.TypeSendMessage}
	registry.Register(h)

	result, err := registry.Execute(context.Background(), "t1", action.TypeSendMessage,
		map[string]interface{}{"name": "alpha", "count": 3})
	require.NoError(t, err)
	require.NotNil(t, h.got)
	assert.Equal(t, "alpha", h.got.Name)
	assert.Equal(t, 3, h.got.Count)
	assert.Equal(t, map[string]interface{}{"tenant": "t1", "name": "alpha"}, result)
}

func TestRegistryExecuteNilParams(t *testing.T) {
	registry := handler.NewRegistry()
	h := &echoHandler{kind: action.TypeSendMessage}
	registry.Register(h)

	_, err := registry.Execute(context.Background(), "t1", action.TypeSendMessage, nil)
	require.NoError(t, err)
	require.NotNil(t, h.got)
	assert.Equal(t, "", h.got.Name)
}

func TestRegistryExecuteMissingHandler(t *testing.T) {
	registry := handler.NewRegistry()
	_, err := registry.Execute(context.Background(), "t1", action.TypeCreateCampaign, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, handler.ErrNotRegistered))
}

func TestIsBadRequest(t *testing.T) {
	err := handler.NewBadRequest("percent must be in (0, 100], got %v", 120)
	assert.True(t, handler.IsBadRequest(err))
	assert.False(t, handler.IsBadRequest(errors.New("collaborator down")))
}
