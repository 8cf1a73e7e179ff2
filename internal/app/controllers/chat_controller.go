package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/eventhub/internal/app/models/dto"
	"github.com/yigit/eventhub/internal/app/services"
	"github.com/yigit/eventhub/internal/middleware"
)

// ChatController exposes the AI assistant
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Chat answers the last user message of a conversation
// @Summary AI assistant chat
// @Description Sends the conversation history to the configured AI provider and returns its reply
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChatRequest true "Conversation"
// @Success 200 {object} dto.APIResponse{data=dto.ChatResponse}
// @Failure 502 {object} dto.ErrorResponse "Provider failure"
// @Failure 503 {object} dto.ErrorResponse "Assistant not configured"
// @Router /ai/chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	var req dto.ChatRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.chatService.Chat(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
