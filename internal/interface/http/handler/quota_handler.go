package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/quota"
)

type QuotaHandler struct {
	ledger *quota.Ledger
}

func NewQuotaHandler(ledger *quota.Ledger) *QuotaHandler {
	return &QuotaHandler{ledger: ledger}
}

func (h *QuotaHandler) Summary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	summary, err := h.ledger.Summary(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToQuotaSummaryResponse(summary))
}

// Check обрабатывает GET /api/quota/:action.
func (h *QuotaHandler) Check(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	action, err := valueobject.NewActionType(c.Param("action"))
	if err != nil {
		response.Error(c, err)
		return
	}

	status, err := h.ledger.CanPerformAction(c.Request.Context(), userID, action)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToQuotaStatusResponse(status))
}
