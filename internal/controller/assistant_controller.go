package controller

import (
	"github.com/gofiber/fiber/v2"

	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/pkg/serverutils"
	"jewelry-assistant-be/internal/service"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	NewSession(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("chat", c.Chat)
	h.Post("new-session", c.NewSession)
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *assistantController) NewSession(ctx *fiber.Ctx) error {
	var req dto.NewSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.NewSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
