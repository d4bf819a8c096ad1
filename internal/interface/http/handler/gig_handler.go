package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/domain/valueobject"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/gig"
)

type GigHandler struct {
	createGigUC  *gig.CreateGigUseCase
	getGigUC     *gig.GetGigUseCase
	listGigsUC   *gig.ListGigsUseCase
	approveGigUC *gig.ApproveGigUseCase
	cancelGigUC  *gig.CancelGigUseCase
	fundGigUC    *gig.FundGigUseCase
}

func NewGigHandler(
	createGigUC *gig.CreateGigUseCase,
	getGigUC *gig.GetGigUseCase,
	listGigsUC *gig.ListGigsUseCase,
	approveGigUC *gig.ApproveGigUseCase,
	cancelGigUC *gig.CancelGigUseCase,
	fundGigUC *gig.FundGigUseCase,
) *GigHandler {
	return &GigHandler{
		createGigUC:  createGigUC,
		getGigUC:     getGigUC,
		listGigsUC:   listGigsUC,
		approveGigUC: approveGigUC,
		cancelGigUC:  cancelGigUC,
		fundGigUC:    fundGigUC,
	}
}

func (h *GigHandler) CreateGig(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateGigRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.createGigUC.Execute(c.Request.Context(), gig.CreateGigInput{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToGigResponse(created))
}

func (h *GigHandler) GetGig(c *gin.Context) {
	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	g, err := h.getGigUC.Execute(c.Request.Context(), gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigResponse(g))
}

// ListGigs обрабатывает GET /api/gigs?status=&limit=&offset=.
// Без фильтра по статусу отдаются только одобренные заказы.
func (h *GigHandler) ListGigs(c *gin.Context) {
	status := valueobject.GigStatusApproved
	if raw := c.Query("status"); raw != "" {
		parsed, err := valueobject.NewGigStatus(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		status = parsed
	}

	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	gigs, total, err := h.listGigsUC.Execute(c.Request.Context(), repository.GigFilter{
		Status: &status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToGigResponses(gigs), total, limit, offset)
}

func (h *GigHandler) ListMyGigs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	gigs, total, err := h.listGigsUC.Execute(c.Request.Context(), repository.GigFilter{
		AuthorID: &userID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dto.ToGigResponses(gigs), total, limit, offset)
}

// ApproveGig - модерация, маршрут доступен только администратору.
func (h *GigHandler) ApproveGig(c *gin.Context) {
	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	g, err := h.approveGigUC.Execute(c.Request.Context(), gigID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigResponse(g))
}

func (h *GigHandler) CancelGig(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	g, err := h.cancelGigUC.Execute(c.Request.Context(), gigID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToGigResponse(g))
}

// FundGig фиксирует оплату заказа картой клиента.
func (h *GigHandler) FundGig(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	txs, err := h.fundGigUC.Execute(c.Request.Context(), gigID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToTransactionResponses(txs))
}
