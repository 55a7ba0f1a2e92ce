package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/service"
)

type MessageController struct {
	messageService service.MessageService
	userService    service.UserService
}

func NewMessageController(messageService service.MessageService, userService service.UserService) *MessageController {
	return &MessageController{messageService: messageService, userService: userService}
}

func (c *MessageController) RegisterRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/messages")
	messages.GET("/users", c.SidebarUsers)
	messages.GET("/:user_id", c.Conversation)
	messages.POST("/send/:user_id", c.Send)
}

// SidebarUsers godoc
// @Summary Everyone the caller can message
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserSummaryDTO
// @Router /messages/users [get]
func (c *MessageController) SidebarUsers(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	users, err := c.userService.Others(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve users")
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// Conversation godoc
// @Summary Messages between the caller and another user, oldest first
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Other user ID"
// @Success 200 {array} dto.MessageResponseDTO
// @Router /messages/{user_id} [get]
func (c *MessageController) Conversation(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	otherID, ok := parseIDParam(ctx, "user_id")
	if !ok {
		return
	}
	msgs, err := c.messageService.Conversation(ctx.Request.Context(), userID, otherID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve messages")
		return
	}
	ctx.JSON(http.StatusOK, msgs)
}

// Send godoc
// @Summary Send a message
// @Description Persists the message and pushes a newMessage event if the receiver is online.
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "Receiver ID"
// @Param message body dto.SendMessageDTO true "Text and/or image URL"
// @Success 201 {object} dto.MessageResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Empty message or self as receiver"
// @Router /messages/send/{user_id} [post]
func (c *MessageController) Send(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	receiverID, ok := parseIDParam(ctx, "user_id")
	if !ok {
		return
	}
	var req dto.SendMessageDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	msg, err := c.messageService.Send(ctx.Request.Context(), userID, receiverID, req)
	if err != nil {
		respondError(ctx, err, "Failed to send message")
		return
	}
	ctx.JSON(http.StatusCreated, msg)
}
