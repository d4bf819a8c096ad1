package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/wallet"
)

type WalletHandler struct {
	wallet *wallet.Service
}

func NewWalletHandler(walletService *wallet.Service) *WalletHandler {
	return &WalletHandler{wallet: walletService}
}

// walletRole читает ?role=client|provider, по умолчанию client.
func walletRole(c *gin.Context) (valueobject.WalletRole, bool) {
	raw := c.DefaultQuery("role", string(valueobject.WalletRoleClient))
	role, err := valueobject.NewWalletRole(raw)
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return role, true
}

func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	role, ok := walletRole(c)
	if !ok {
		return
	}

	balance, err := h.wallet.Balance(c.Request.Context(), userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToBalanceResponse(balance))
}

func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	role, ok := walletRole(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", wallet.DefaultHistoryLimit)
	offset := parseIntQuery(c, "offset", 0)
	if limit <= 0 {
		limit = wallet.DefaultHistoryLimit
	}
	if limit > wallet.MaxHistoryLimit {
		limit = wallet.MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	history, err := h.wallet.History(c.Request.Context(), userID, role, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToTransactionResponses(history.Items), history.Total, limit, offset)
}
