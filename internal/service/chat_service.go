package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"medicart/internal/llm"
)

const systemPrompt = `You are a helpful AI assistant for MediCart Pharmacy. You provide information about:
- Medicine availability and pricing
- Prescription requirements and upload process
- Pharmacist consultation services
- Medical equipment rental
- Supplement recommendations
- Health tips and resources
- Emergency services
- General pharmacy information

Be friendly, professional, and helpful. If you don't know something, suggest contacting our support team.

Important guidelines:
- Never provide medical diagnosis or treatment advice
- Always recommend consulting with healthcare professionals for medical concerns
- For prescription medications, emphasize the need for proper medical consultation
- For emergencies, direct users to emergency services immediately
- Be clear about medication side effects and interactions when asked
`

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1024
	chatTopP        = 1
)

// fallback replies, checked in order against the lower-cased message
var fallbacks = []struct {
	keywords []string
	reply    string
}{
	{[]string{"medicine", "prescription"}, "You can request medicines or upload prescriptions through our services. Would you like me to direct you to the appropriate page?"},
	{[]string{"emergency", "urgent"}, "For emergency requests, please use our emergency services page. We prioritize urgent medication needs."},
	{[]string{"price", "cost"}, "Product prices vary. You can check our products page for detailed pricing information."},
	{[]string{"delivery", "shipping"}, "We offer delivery services for all orders. Standard delivery takes 2-3 business days, with express options available."},
	{[]string{"hours", "open"}, "Our opening hours are Monday-Friday 8:00-17:00, Saturday 9:30-17:30, and Sunday 8:30-16:00."},
	{[]string{"contact", "phone"}, "You can contact us at support@medicart.com or call +880-XXXX-XXXX during business hours."},
}

const genericFallback = "I'm here to help with MediCart services. You can ask about medicines, prescriptions, consultations, or our other services."

// ChatService forwards customer questions to the language model and falls
// back to canned replies when the model cannot answer.
type ChatService struct {
	llm llm.Completer
	log zerolog.Logger
}

func NewChatService(completer llm.Completer, log zerolog.Logger) *ChatService {
	return &ChatService{llm: completer, log: log}
}

func (s *ChatService) Model() string { return s.llm.Model() }

// Reply never fails on upstream problems; it only rejects an empty message.
// chatContext may be a JSON object, a JSON string or empty.
func (s *ChatService) Reply(ctx context.Context, message string, chatContext json.RawMessage) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", invalid("message is required")
	}
	prompt := systemPrompt
	if rendered := renderContext(chatContext); rendered != "" {
		prompt += "\nCurrent context: " + rendered
	}

	reply, err := s.llm.Complete(ctx, llm.Request{
		System:      prompt,
		User:        message,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        chatTopP,
	})
	if err == nil {
		return reply, nil
	}

	kind := "unknown"
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		kind = "not_configured"
	case errors.Is(err, llm.ErrUpstreamUnavailable):
		kind = "upstream_unavailable"
	case errors.Is(err, llm.ErrMalformedResponse):
		kind = "malformed_response"
	}
	s.log.Warn().Err(err).Str("kind", kind).Msg("chat completion failed, using fallback")
	return FallbackReply(message), nil
}

// FallbackReply picks the canned reply for a message
func FallbackReply(message string) string {
	lower := strings.ToLower(message)
	for _, f := range fallbacks {
		for _, kw := range f.keywords {
			if strings.Contains(lower, kw) {
				return f.reply
			}
		}
	}
	return genericFallback
}

func renderContext(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
