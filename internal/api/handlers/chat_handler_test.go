package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"shopsmart/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAssistant struct {
	reply    string
	messages []string
}

func (s *stubAssistant) HandleMessage(ctx context.Context, message string) string {
	s.messages = append(s.messages, message)
	return s.reply
}

func newChatApp(assistant Assistant) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/chat", NewChatHandler(assistant, zap.NewNop()).Chat)
	return app
}

func TestChatReturnsReply(t *testing.T) {
	assistant := &stubAssistant{reply: "Dạ, shop có 3 mẫu giày ạ! 👟"}
	app := newChatApp(assistant)

	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(`{"message":"tìm giày nike"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body dto.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Dạ, shop có 3 mẫu giày ạ! 👟", body.Reply)
	assert.Equal(t, []string{"tìm giày nike"}, assistant.messages)
}

func TestChatRejectsMalformedBody(t *testing.T) {
	app := newChatApp(&stubAssistant{reply: "ok"})

	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatRejectsBlankMessage(t *testing.T) {
	assistant := &stubAssistant{reply: "ok"}
	app := newChatApp(assistant)

	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(`{"message":"   "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, assistant.messages)
}
