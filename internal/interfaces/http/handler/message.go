package handler

import (
	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/creditcore/backend/internal/infrastructure/messaging"
	"github.com/creditcore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// MessageHandler exposes a test endpoint for publishing plain messages
// to the simple message stream.
type MessageHandler struct {
	BaseHandler
	publisher *messaging.StreamPublisher
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(publisher *messaging.StreamPublisher) *MessageHandler {
	return &MessageHandler{
		publisher: publisher,
	}
}

// SendMessageRequest represents a request to publish a plain text message
type SendMessageRequest struct {
	Message string `json:"message" binding:"required,max=1000"`
}

// SendMessageResponse confirms a published message
type SendMessageResponse struct {
	Status string `json:"status"`
}

// Send godoc
// @ID           sendSimpleMessage
// @Summary      Publish a test message
// @Description  Publish a plain text message to the simple message stream
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        request body SendMessageRequest true "Message to publish"
// @Success      200 {object} APIResponse[SendMessageResponse]
// @Failure      400 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /messages/simple [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.publisher.PublishSimpleMessage(c.Request.Context(), req.Message); err != nil {
		h.InternalError(c, "Failed to publish message")
		return
	}

	h.Success(c, SendMessageResponse{Status: "sent"})
}

// SendTest godoc
// @ID           sendTestEvent
// @Summary      Publish a test customer event
// @Description  Publish a synthetic customer created event to the customer event stream
// @Tags         messages
// @Produce      json
// @Success      200 {object} APIResponse[SendMessageResponse]
// @Failure      500 {object} dto.Response
// @Router       /messages/test [post]
func (h *MessageHandler) SendTest(c *gin.Context) {
	sample, err := customer.NewCustomer("Test", "Customer", "test.customer@example.com", "+10000000000", 700, 50000)
	if err != nil {
		h.InternalError(c, "Failed to build test event")
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), customer.NewCreatedEvent(sample)); err != nil {
		h.InternalError(c, "Failed to publish test event")
		return
	}

	h.Success(c, SendMessageResponse{Status: "sent"})
}
