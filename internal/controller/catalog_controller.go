package controller

import (
	"github.com/gofiber/fiber/v2"

	"jewelry-assistant-be/internal/dto"
	"jewelry-assistant-be/internal/pkg/serverutils"
	"jewelry-assistant-be/internal/service"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	CreateBulk(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalogService service.ICatalogService
}

func NewCatalogController(catalogService service.ICatalogService) ICatalogController {
	return &catalogController{
		catalogService: catalogService,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Get("products", c.List)
	h.Get("products/:id", c.Show)

	protected := h.Group("")
	protected.Use(serverutils.JwtMiddleware)
	protected.Post("products", c.Create)
	protected.Post("products/bulk", c.CreateBulk)
	protected.Put("products/:id", c.Update)
	protected.Delete("products/:id", c.Delete)
	protected.Post("reindex", c.Reindex)
}

func (c *catalogController) List(ctx *fiber.Ctx) error {
	category := ctx.Query("category", "")
	page := ctx.QueryInt("page", 1)
	pageSize := ctx.QueryInt("page_size", 20)

	res, err := c.catalogService.List(ctx.Context(), category, page, pageSize)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list products", res))
}

func (c *catalogController) Show(ctx *fiber.Ctx) error {
	res, err := c.catalogService.GetById(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Product not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}

func (c *catalogController) Create(ctx *fiber.Ctx) error {
	var req dto.ProductCreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create product", res))
}

func (c *catalogController) CreateBulk(ctx *fiber.Ctx) error {
	var reqs []dto.ProductCreateRequest
	if err := ctx.BodyParser(&reqs); err != nil {
		return err
	}
	for i := range reqs {
		if err := serverutils.ValidateRequest(reqs[i]); err != nil {
			return err
		}
	}

	created, err := c.catalogService.CreateBulk(ctx.Context(), reqs)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create products", fiber.Map{"created": created}))
}

func (c *catalogController) Update(ctx *fiber.Ctx) error {
	var req dto.ProductCreateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = ctx.Params("id")
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update product", res))
}

func (c *catalogController) Delete(ctx *fiber.Ctx) error {
	if err := c.catalogService.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete product", nil))
}

func (c *catalogController) Reindex(ctx *fiber.Ctx) error {
	queued, err := c.catalogService.ReindexAll(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success queue reindex", fiber.Map{"queued": queued}))
}
