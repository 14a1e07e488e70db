package handler

import (
	"context"

	"staffhub/internal/dto"
	"staffhub/internal/pkg/response"
	"staffhub/internal/service"
	"staffhub/internal/telemetry"
	"staffhub/utils/validate"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SwapHandler struct {
	trace       *telemetry.Trace
	swapService *service.SwapService
}

func NewSwapHandler(trace *telemetry.Trace, swapService *service.SwapService) *SwapHandler {
	return &SwapHandler{trace: trace, swapService: swapService}
}

// Request 提出換班申請
// @Summary 對自己的班次提出換班申請
// @Tags Admin-Rota-Swap
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Param body body dto.SwapRequestDto true "換班對象與原因"
// @Success 200 {object} dto.AssignmentResponseDto
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/rota/assignments/{assignmentID}/swap [post]
func (h *SwapHandler) Request(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	callerID, err := callerIdentity(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	id, cause, respErr := validate.ParseObjectID(c, "assignmentID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.SwapRequestDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	res, err := h.swapService.RequestSwap(ctx, callerID, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Approve 核准換班
// @Summary 核准換班申請（唯一會變更 employeeId 的操作）
// @Tags Admin-Rota-Swap
// @Security BearerAuth
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponseDto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/rota/assignments/{assignmentID}/swap/approve [patch]
func (h *SwapHandler) Approve(c *gin.Context) {
	h.review(c, h.swapService.ApproveSwap)
}

// Reject 駁回換班
// @Summary 駁回換班申請，班次維持原指派
// @Tags Admin-Rota-Swap
// @Security BearerAuth
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponseDto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/rota/assignments/{assignmentID}/swap/reject [patch]
func (h *SwapHandler) Reject(c *gin.Context) {
	h.review(c, h.swapService.RejectSwap)
}

func (h *SwapHandler) review(c *gin.Context, decide func(ctx context.Context, reviewerID, assignmentID primitive.ObjectID) (*dto.AssignmentResponseDto, error)) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	reviewerID, err := callerIdentity(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	id, cause, respErr := validate.ParseObjectID(c, "assignmentID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	res, err := decide(ctx, reviewerID, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}
