package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/conversation"
)

type ConversationHandler struct {
	getConversationUC *conversation.GetConversationUseCase
	listMyUC          *conversation.ListMyConversationsUseCase
}

func NewConversationHandler(
	getConversationUC *conversation.GetConversationUseCase,
	listMyUC *conversation.ListMyConversationsUseCase,
) *ConversationHandler {
	return &ConversationHandler{
		getConversationUC: getConversationUC,
		listMyUC:          listMyUC,
	}
}

func (h *ConversationHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	conversationID, ok := pathUUID(c, "conversationId", "некорректный ID беседы")
	if !ok {
		return
	}

	conv, err := h.getConversationUC.Execute(c.Request.Context(), conversationID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToConversationResponse(conv))
}

func (h *ConversationHandler) ListMyConversations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	convs, err := h.listMyUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToConversationResponses(convs))
}
