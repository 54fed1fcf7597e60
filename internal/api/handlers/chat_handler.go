package handlers

import (
	"context"
	"strings"

	"shopsmart/internal/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Assistant handles one chat turn and always produces a reply string.
type Assistant interface {
	HandleMessage(ctx context.Context, message string) string
}

type ChatHandler struct {
	assistant Assistant
	logger    *zap.Logger
}

func NewChatHandler(assistant Assistant, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// Chat godoc
// @Summary Ask the product-search assistant
// @Description One stateless chat turn: free-text message in, natural-language reply out
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Customer message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	// Well-formed requests always get a reply; degradation happens inside.
	reply := h.assistant.HandleMessage(c.Context(), req.Message)

	return c.JSON(dto.ChatResponse{Reply: reply})
}
