package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	DownloadFile(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("", c.List)
	h.Post("search", c.Search)
	h.Get(":id/file", c.DownloadFile)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	ownerId := ctx.Query("owner_id")
	if ownerId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "owner_id is required")
	}

	res, err := c.documentService.ListDocuments(ctx.Context(), ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Documents", res))
}

func (c *documentController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchDocumentsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.SearchDocuments(ctx.Context(), req.OwnerId, req.Query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}

func (c *documentController) DownloadFile(ctx *fiber.Ctx) error {
	ownerId := ctx.Query("owner_id")
	if ownerId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "owner_id is required")
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	file, err := c.documentService.GetDocumentFile(ctx.Context(), ownerId, id)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return ctx.Download(file.FilePath, file.FileName)
}
