package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/proposal"
)

type ProposalHandler struct {
	createProposalUC  *proposal.CreateProposalUseCase
	counterProposalUC *proposal.CreateCounterProposalUseCase
	acceptProposalUC  *proposal.AcceptProposalUseCase
	rejectProposalUC  *proposal.RejectProposalUseCase
	getProposalUC     *proposal.GetProposalUseCase
	listGigUC         *proposal.ListGigProposalsUseCase
	listMyUC          *proposal.ListMyProposalsUseCase
}

func NewProposalHandler(
	createProposalUC *proposal.CreateProposalUseCase,
	counterProposalUC *proposal.CreateCounterProposalUseCase,
	acceptProposalUC *proposal.AcceptProposalUseCase,
	rejectProposalUC *proposal.RejectProposalUseCase,
	getProposalUC *proposal.GetProposalUseCase,
	listGigUC *proposal.ListGigProposalsUseCase,
	listMyUC *proposal.ListMyProposalsUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		createProposalUC:  createProposalUC,
		counterProposalUC: counterProposalUC,
		acceptProposalUC:  acceptProposalUC,
		rejectProposalUC:  rejectProposalUC,
		getProposalUC:     getProposalUC,
		listGigUC:         listGigUC,
		listMyUC:          listMyUC,
	}
}

// CreateProposal обрабатывает POST /api/gigs/:id/proposals.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	expiresAt, err := dto.ParseTimestamp(req.ExpiresAt)
	if err != nil {
		response.BadRequest(c, "некорректный формат срока действия")
		return
	}

	result, err := h.createProposalUC.Execute(c.Request.Context(), proposal.CreateProposalInput{
		GigID:         gigID,
		ResponderID:   userID,
		Title:         req.Title,
		Description:   req.Description,
		ProposedPrice: req.ProposedPrice,
		TimelineDays:  req.TimelineDays,
		Deliverables:  req.Deliverables,
		Terms:         req.Terms,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.CreateProposalResponse{Proposal: dto.ToProposalResponse(result.Proposal)}
	if result.Conversation != nil {
		conv := dto.ToConversationResponse(result.Conversation)
		resp.Conversation = &conv
	}
	response.Created(c, resp)
}

// CounterProposal обрабатывает POST /api/proposals/:proposalId/counter.
func (h *ProposalHandler) CounterProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	parentID, ok := pathUUID(c, "proposalId", "некорректный ID предложения")
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	expiresAt, err := dto.ParseTimestamp(req.ExpiresAt)
	if err != nil {
		response.BadRequest(c, "некорректный формат срока действия")
		return
	}

	created, err := h.counterProposalUC.Execute(c.Request.Context(), proposal.CreateCounterProposalInput{
		ParentProposalID: parentID,
		AuthorID:         userID,
		Title:            req.Title,
		Description:      req.Description,
		ProposedPrice:    req.ProposedPrice,
		TimelineDays:     req.TimelineDays,
		Deliverables:     req.Deliverables,
		Terms:            req.Terms,
		ExpiresAt:        expiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProposalResponse(created))
}

func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	proposalID, ok := pathUUID(c, "proposalId", "некорректный ID предложения")
	if !ok {
		return
	}

	accepted, err := h.acceptProposalUC.Execute(c.Request.Context(), proposalID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(accepted))
}

// RejectProposal принимает необязательную причину; пустое тело допустимо.
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	proposalID, ok := pathUUID(c, "proposalId", "некорректный ID предложения")
	if !ok {
		return
	}

	var req dto.RejectProposalRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	rejected, err := h.rejectProposalUC.Execute(c.Request.Context(), proposalID, userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(rejected))
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	proposalID, ok := pathUUID(c, "proposalId", "некорректный ID предложения")
	if !ok {
		return
	}

	p, err := h.getProposalUC.Execute(c.Request.Context(), proposalID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponse(p))
}

func (h *ProposalHandler) ListGigProposals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	proposals, err := h.listGigUC.Execute(c.Request.Context(), gigID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	proposals, err := h.listMyUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}
