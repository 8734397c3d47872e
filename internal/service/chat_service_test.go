package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"medicart/internal/llm"
	"medicart/internal/llm/mocks"
)

func TestChatReply_UsesModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	svc := NewChatService(completer, zerolog.Nop())

	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
			assert.Equal(t, "Do you deliver?", req.User)
			assert.True(t, strings.HasPrefix(req.System, "You are a helpful AI assistant for MediCart Pharmacy."))
			assert.True(t, strings.HasSuffix(req.System, "when asked\n\nCurrent context: {\"page\":\"cart\"}"), req.System)
			assert.InDelta(t, 0.7, req.Temperature, 1e-6)
			assert.Equal(t, 1024, req.MaxTokens)
			assert.InDelta(t, 1, req.TopP, 1e-6)
			return "Yes, in 2-3 days.", nil
		})

	reply, err := svc.Reply(context.Background(), "Do you deliver?", json.RawMessage(`{ "page": "cart" }`))
	require.NoError(t, err)
	assert.Equal(t, "Yes, in 2-3 days.", reply)
}

func TestChatReply_FallbackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	svc := NewChatService(completer, zerolog.Nop())

	for _, failure := range []error{llm.ErrNotConfigured, llm.ErrUpstreamUnavailable, llm.ErrMalformedResponse, errors.New("boom")} {
		completer.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("", failure)
		reply, err := svc.Reply(context.Background(), "This is an EMERGENCY", nil)
		require.NoError(t, err)
		assert.Equal(t, "For emergency requests, please use our emergency services page. We prioritize urgent medication needs.", reply)
	}
}

func TestChatReply_StringContextAndEmptyMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := mocks.NewMockCompleter(ctrl)
	svc := NewChatService(completer, zerolog.Nop())

	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
			assert.True(t, strings.HasSuffix(req.System, "\nCurrent context: viewing Napa"), req.System)
			return "ok", nil
		})
	_, err := svc.Reply(context.Background(), "hi", json.RawMessage(`"viewing Napa"`))
	require.NoError(t, err)

	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
			assert.True(t, strings.HasSuffix(req.System, "interactions when asked\n"), req.System)
			assert.NotContains(t, req.System, "Current context")
			return "ok", nil
		})
	_, err = svc.Reply(context.Background(), "hi", nil)
	require.NoError(t, err)

	_, err = svc.Reply(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFallbackReply(t *testing.T) {
	cases := map[string]string{
		"Need a PRESCRIPTION refill": "You can request medicines or upload prescriptions through our services. Would you like me to direct you to the appropriate page?",
		"urgent medicine please":     "You can request medicines or upload prescriptions through our services. Would you like me to direct you to the appropriate page?",
		"what does it cost":          "Product prices vary. You can check our products page for detailed pricing information.",
		"shipping time?":             "We offer delivery services for all orders. Standard delivery takes 2-3 business days, with express options available.",
		"are you open on Sunday":     "Our opening hours are Monday-Friday 8:00-17:00, Saturday 9:30-17:30, and Sunday 8:30-16:00.",
		"phone number":               "You can contact us at support@medicart.com or call +880-XXXX-XXXX during business hours.",
		"hello there":                "I'm here to help with MediCart services. You can ask about medicines, prescriptions, consultations, or our other services.",
	}
	for msg, want := range cases {
		assert.Equal(t, want, FallbackReply(msg), msg)
	}
}
