package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/pkg/serverutils"
	"jewelry-assistant-be/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
	SessionTranscript(ctx *fiber.Ctx) error
	SessionRecommendations(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("login", c.Login)

	protected := h.Group("")
	protected.Use(serverutils.JwtMiddleware)
	protected.Get("sessions", c.Sessions)
	protected.Get("sessions/:id/transcript", c.SessionTranscript)
	protected.Get("sessions/:id/recommendations", c.SessionRecommendations)
	protected.Get("stats", c.Stats)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adminService.Login(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid credentials"))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success login", res))
}

func (c *adminController) Sessions(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)
	activeOnly := ctx.QueryBool("active", false)

	res, err := c.adminService.GetSessions(ctx.Context(), page, limit, activeOnly)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *adminController) SessionTranscript(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetSessionTranscript(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show transcript", res))
}

func (c *adminController) SessionRecommendations(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetRecommendationEvents(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list recommendation events", res))
}

func (c *adminController) Stats(ctx *fiber.Ctx) error {
	res, err := c.adminService.GetStats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show stats", res))
}
