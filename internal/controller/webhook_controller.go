package controller

import (
	"fmt"
	"strconv"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IWebhookController accepts messaging-provider callbacks (Twilio-style
// form encoding: From, Body, NumMedia, MediaUrlN, MediaContentTypeN).
type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	ReceiveMessage(ctx *fiber.Ctx) error
}

type webhookController struct {
	assistantService service.IAssistantService
}

func NewWebhookController(assistantService service.IAssistantService) IWebhookController {
	return &webhookController{
		assistantService: assistantService,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Post("message", c.ReceiveMessage)
}

func (c *webhookController) ReceiveMessage(ctx *fiber.Ctx) error {
	from := ctx.FormValue("From")
	if from == "" {
		return fiber.NewError(fiber.StatusBadRequest, "From is required")
	}
	body := ctx.FormValue("Body")

	numMedia, _ := strconv.Atoi(ctx.FormValue("NumMedia", "0"))
	attachments := make([]dto.AttachmentDTO, 0, numMedia)
	for i := 0; i < numMedia; i++ {
		url := ctx.FormValue(fmt.Sprintf("MediaUrl%d", i))
		if url == "" {
			continue
		}
		attachments = append(attachments, dto.AttachmentDTO{
			FileName: fmt.Sprintf("media-%d", i),
			FileType: ctx.FormValue(fmt.Sprintf("MediaContentType%d", i)),
			MediaURL: url,
		})
	}

	reply := c.assistantService.HandleIncoming(ctx.Context(), from, body, attachments)

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.SendString(reply)
}
