package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/pkg/response"
)

type ticketVerifier interface {
	Verify(ctx context.Context, token string) (*models.TicketVerification, error)
}

// TicketHandler checks scanned entry tickets.
type TicketHandler struct {
	service ticketVerifier
}

// NewTicketHandler builds a new handler.
func NewTicketHandler(svc ticketVerifier) *TicketHandler {
	return &TicketHandler{service: svc}
}

// Verify godoc
// @Summary Verify an entry ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param payload body dto.TicketVerifyRequest true "Scanned token"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tickets/verify [post]
func (h *TicketHandler) Verify(c *gin.Context) {
	var req dto.TicketVerifyRequest
	if !bindJSON(c, &req, "invalid ticket payload", false) {
		return
	}
	result, err := h.service.Verify(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
