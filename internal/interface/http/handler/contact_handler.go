package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/contact"
)

type ContactHandler struct {
	gate *contact.Gate
}

func NewContactHandler(gate *contact.Gate) *ContactHandler {
	return &ContactHandler{gate: gate}
}

// CanView обрабатывает GET /api/gigs/:id/contact/access. Квота не расходуется.
func (h *ContactHandler) CanView(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	decision, err := h.gate.CanViewContact(c.Request.Context(), userID, gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToContactDecisionResponse(decision))
}

// View обрабатывает POST /api/gigs/:id/contact. Первое раскрытие списывает contact_view.
func (h *ContactHandler) View(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	info, err := h.gate.ViewContact(c.Request.Context(), userID, gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToContactInfoResponse(info))
}
