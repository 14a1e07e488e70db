package handler

import (
	"staffhub/internal/core"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"
	"staffhub/internal/pkg/response"
	"staffhub/internal/service"
	"staffhub/internal/telemetry"
	"staffhub/utils/validate"

	"github.com/gin-gonic/gin"
)

type RotaHandler struct {
	trace       *telemetry.Trace
	rotaService *service.RotaService
}

func NewRotaHandler(trace *telemetry.Trace, rotaService *service.RotaService) *RotaHandler {
	return &RotaHandler{trace: trace, rotaService: rotaService}
}

// Create 建立排班
// @Summary 建立單筆排班
// @Tags Admin-Rota
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateAssignmentDto true "排班資訊"
// @Success 201 {object} dto.AssignmentResponseDto
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "時間窗與既有班次重疊，衝突明細在 data"
// @Router /admin/rota/assignments [post]
func (h *RotaHandler) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	callerID, err := callerIdentity(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	var req dto.CreateAssignmentDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if !validate.IsValidWorkType(string(req.WorkType)) {
		response.AbortWithError(c, cErr.ValidateErr("invalid workType"))
		return
	}

	res, err := h.rotaService.CreateAssignment(ctx, callerID, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, res)
}

// List 排班列表（攤平，不分組）
// @Summary 查詢排班列表
// @Tags Admin-Rota
// @Security BearerAuth
// @Produce json
// @Param from query string false "起日 2006-01-02"
// @Param to query string false "迄日 2006-01-02"
// @Param employeeId query string false "員工"
// @Param location query string false "地點"
// @Param workType query string false "班別"
// @Param status query string false "狀態"
// @Param bucket query string false "active / old / all"
// @Success 200 {array} dto.AssignmentResponseDto
// @Failure 400 {object} map[string]string
// @Router /admin/rota/assignments [get]
func (h *RotaHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	query, respErr := bindRotaQuery(c)
	if respErr != nil {
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.rotaService.ListAssignments(ctx, query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// ListGroups 分組排班列表
// @Summary 查詢邏輯班次群組
// @Tags Admin-Rota
// @Security BearerAuth
// @Produce json
// @Param from query string false "起日 2006-01-02"
// @Param to query string false "迄日 2006-01-02"
// @Param employeeId query string false "員工"
// @Param location query string false "地點"
// @Param workType query string false "班別"
// @Param status query string false "狀態"
// @Param bucket query string false "active / old / all"
// @Success 200 {array} dto.RotaGroup
// @Failure 400 {object} map[string]string
// @Router /admin/rota/assignments/groups [get]
func (h *RotaHandler) ListGroups(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	query, respErr := bindRotaQuery(c)
	if respErr != nil {
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.rotaService.ListGroupedAssignments(ctx, query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Get 取得單筆排班
// @Summary 取得單筆排班
// @Tags Admin-Rota
// @Security BearerAuth
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponseDto
// @Failure 404 {object} map[string]string
// @Router /admin/rota/assignments/{assignmentID} [get]
func (h *RotaHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "assignmentID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.rotaService.GetAssignment(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Update 更新排班
// @Summary 更新排班一般欄位（employeeId 只能經由換班核准變更）
// @Tags Admin-Rota
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Param body body dto.UpdateAssignmentDto true "欲更新欄位"
// @Success 200 {object} dto.AssignmentResponseDto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/rota/assignments/{assignmentID} [put]
func (h *RotaHandler) Update(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "assignmentID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.UpdateAssignmentDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if req.WorkType != nil && !validate.IsValidWorkType(string(*req.WorkType)) {
		response.AbortWithError(c, cErr.ValidateErr("invalid workType"))
		return
	}
	if req.Status != nil && !validate.IsValidAssignmentStatus(string(*req.Status)) {
		response.AbortWithError(c, cErr.ValidateErr("invalid status"))
		return
	}

	res, err := h.rotaService.UpdateAssignment(ctx, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Delete 刪除排班
// @Summary 刪除單筆排班
// @Tags Admin-Rota
// @Security BearerAuth
// @Produce json
// @Param assignmentID path string true "Assignment ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/rota/assignments/{assignmentID} [delete]
func (h *RotaHandler) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "assignmentID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.rotaService.DeleteAssignment(ctx, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, "assignment deleted successfully")
}

// DeleteGroup 整組刪除
// @Summary 刪除同一群組的所有排班
// @Tags Admin-Rota
// @Security BearerAuth
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} map[string]string
// @Router /admin/rota/groups/{groupID} [delete]
func (h *RotaHandler) DeleteGroup(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	callerID, err := callerIdentity(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	groupID, cause, respErr := validate.ParseObjectID(c, "groupID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	deleted, err := h.rotaService.DeleteGroup(ctx, callerID, groupID)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"deletedCount": deleted})
}

// Hours 工時統計
// @Summary 區間內各員工的排班工時彙總
// @Tags Admin-Rota
// @Security BearerAuth
// @Produce json
// @Param from query string false "起日 2006-01-02"
// @Param to query string false "迄日 2006-01-02"
// @Param employeeId query string false "員工"
// @Success 200 {array} dto.EmployeeHoursDto
// @Failure 400 {object} map[string]string
// @Router /admin/rota/statistics/hours [get]
func (h *RotaHandler) Hours(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	query, respErr := bindRotaQuery(c)
	if respErr != nil {
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.rotaService.HoursStatistics(ctx, query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

func bindRotaQuery(c *gin.Context) (dto.ListRotaQuery, error) {
	query := dto.ListRotaQuery{
		From:       c.Query("from"),
		To:         c.Query("to"),
		EmployeeID: c.Query("employeeId"),
		Location:   c.Query("location"),
	}
	if workType := c.Query("workType"); workType != "" {
		if !validate.IsValidWorkType(workType) {
			return query, cErr.ValidateErr("invalid workType")
		}
		query.WorkType = core.WorkType(workType)
	}
	if status := c.Query("status"); status != "" {
		if !validate.IsValidAssignmentStatus(status) {
			return query, cErr.ValidateErr("invalid status")
		}
		query.Status = core.AssignmentStatus(status)
	}
	if bucket := c.Query("bucket"); bucket != "" {
		if !validate.IsValidRangeBucket(bucket) {
			return query, cErr.ValidateErr("invalid bucket")
		}
		query.Bucket = core.RangeBucket(bucket)
	}
	return query, nil
}
