package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorlink/internal/app/models/dto"
	"github.com/yigit/mentorlink/internal/app/services"
	"github.com/yigit/mentorlink/internal/middleware"
)

// MessageController handles request thread messages
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{
		messageService: messageService,
	}
}

// ListMessages godoc
// @Summary Get request thread messages
// @Description Messages in send order. Pass after=<message id> to poll for newer messages only.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param after query int false "Return messages with a greater ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id}/messages [get]
func (c *MessageController) ListMessages(ctx *gin.Context) {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "request")
	if !ok {
		return
	}

	var req dto.ListMessagesRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	messages, err := c.messageService.ListMessages(ctx.Request.Context(), identity, id, req.After)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewMessageListResponse(messages)))
}

// SendMessage godoc
// @Summary Send a message on an accepted request
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 400 {object} dto.ErrorResponse "Request must be accepted"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id}/messages [post]
func (c *MessageController) SendMessage(ctx *gin.Context) {
	identity, ok := callerIdentity(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "request")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.messageService.SendMessage(ctx.Request.Context(), identity, id, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewMessageResponse(&message.Message, message.Sender)))
}
