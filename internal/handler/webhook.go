package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"pos-dashboard-sync/internal/dto"
	"pos-dashboard-sync/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// PosWebhook receives provider event deliveries. The body must reach the
// verifier byte-for-byte, so it is read raw and never bound.
func (h *WebhookHandler) PosWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	outcome, err := h.webhookService.Handle(ctx, c.Request().Header, body)
	if err != nil {
		if errors.Is(err, service.ErrWebhookRejected) {
			log.Printf("webhook rejected: %v", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid webhook"})
		}
		log.Printf("webhook processing failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, &dto.WebhookResponse{Status: outcome})
}
