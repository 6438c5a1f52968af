package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"website-chatbot-be/internal/dto"
	"website-chatbot-be/internal/pkg/logger"
	"website-chatbot-be/internal/pkg/serverutils"
	"website-chatbot-be/internal/service"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
	log            logger.ILogger
}

func NewChatbotController(chatbotService service.IChatbotService, log logger.ILogger) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
		log:            log,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Post("/chatbot", c.Chat)
	r.Get("/healthz", c.Health)
}

func (c *chatbotController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// First contact without a session id starts a fresh conversation.
	if req.SessionId == "" {
		req.SessionId = uuid.New().String()
	}

	res, err := c.chatbotService.Chat(ctx.Context(), &req)
	if err != nil {
		c.log.Error("CHATBOT", "Chat turn failed", map[string]interface{}{
			"session_id": req.SessionId,
			"error":      err.Error(),
		})
		return err
	}

	c.log.Info("CHATBOT", "Chat turn completed", map[string]interface{}{
		"session_id": req.SessionId,
	})
	return ctx.JSON(res)
}

func (c *chatbotController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}
