package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/dto"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/response"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/completion"
)

type CompletionHandler struct {
	submitUC  *completion.SubmitCompletionUseCase
	approveUC *completion.ApproveCompletionUseCase
	rejectUC  *completion.RejectCompletionUseCase
	getUC     *completion.GetCompletionUseCase
	listUC    *completion.ListGigCompletionsUseCase
	uploadUC  *completion.UploadEvidenceUseCase
	presignUC *completion.PresignEvidenceUseCase
}

func NewCompletionHandler(
	submitUC *completion.SubmitCompletionUseCase,
	approveUC *completion.ApproveCompletionUseCase,
	rejectUC *completion.RejectCompletionUseCase,
	getUC *completion.GetCompletionUseCase,
	listUC *completion.ListGigCompletionsUseCase,
	uploadUC *completion.UploadEvidenceUseCase,
	presignUC *completion.PresignEvidenceUseCase,
) *CompletionHandler {
	return &CompletionHandler{
		submitUC:  submitUC,
		approveUC: approveUC,
		rejectUC:  rejectUC,
		getUC:     getUC,
		listUC:    listUC,
		uploadUC:  uploadUC,
		presignUC: presignUC,
	}
}

// SubmitCompletion обрабатывает POST /api/gigs/:id/completions.
func (h *CompletionHandler) SubmitCompletion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	var req dto.SubmitCompletionRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.submitUC.Execute(c.Request.Context(), completion.SubmitCompletionInput{
		GigID:       gigID,
		ProviderID:  userID,
		Description: req.Description,
		Attachments: req.Attachments,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToCompletionResponse(created))
}

func (h *CompletionHandler) ApproveCompletion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	completionID, ok := pathUUID(c, "completionId", "некорректный ID запроса на завершение")
	if !ok {
		return
	}

	approved, err := h.approveUC.Execute(c.Request.Context(), completionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCompletionResponse(approved))
}

func (h *CompletionHandler) RejectCompletion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	completionID, ok := pathUUID(c, "completionId", "некорректный ID запроса на завершение")
	if !ok {
		return
	}

	var req dto.RejectCompletionRequest
	if !bindJSON(c, &req) {
		return
	}

	rejected, err := h.rejectUC.Execute(c.Request.Context(), completionID, userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCompletionResponse(rejected))
}

func (h *CompletionHandler) GetCompletion(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	completionID, ok := pathUUID(c, "completionId", "некорректный ID запроса на завершение")
	if !ok {
		return
	}

	found, err := h.getUC.Execute(c.Request.Context(), completionID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCompletionResponse(found))
}

func (h *CompletionHandler) ListGigCompletions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	gigID, ok := pathUUID(c, "id", "некорректный ID заказа")
	if !ok {
		return
	}

	items, err := h.listUC.Execute(c.Request.Context(), gigID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToCompletionResponses(items))
}

// UploadEvidence принимает multipart-форму с полем file и возвращает URL вложения.
func (h *CompletionHandler) UploadEvidence(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "файл обязателен")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	uploaded, err := h.uploadUC.Execute(c.Request.Context(), userID, header.Filename, header.Size, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToEvidenceResponse(uploaded))
}

// PresignEvidence выдаёт ссылку для прямой загрузки в бакет.
func (h *CompletionHandler) PresignEvidence(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.PresignEvidenceRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.presignUC.Execute(c.Request.Context(), userID, req.FileName)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToPresignedUploadResponse(upload))
}
