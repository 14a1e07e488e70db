package handler

import (
	"staffhub/internal/dto"
	"staffhub/internal/pkg/response"
	"staffhub/internal/service"
	"staffhub/internal/telemetry"
	"staffhub/utils/validate"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	trace       *telemetry.Trace
	teamService *service.TeamService
}

func NewTeamHandler(trace *telemetry.Trace, teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{trace: trace, teamService: teamService}
}

// Create 新增班組
// @Summary 新增班組
// @Tags Admin-Team
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateTeamDto true "班組資訊"
// @Success 201 {object} dto.TeamResponseDto
// @Failure 400 {object} map[string]string
// @Router /admin/teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.CreateTeamDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.teamService.Create(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, res)
}

// List 班組列表
// @Summary 取得班組列表
// @Tags Admin-Team
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.TeamResponseDto
// @Router /admin/teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	res, err := h.teamService.List(ctx)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Get 取得班組
// @Summary 取得單一班組
// @Tags Admin-Team
// @Security BearerAuth
// @Produce json
// @Param teamID path string true "Team ID"
// @Success 200 {object} dto.TeamResponseDto
// @Failure 404 {object} map[string]string
// @Router /admin/teams/{teamID} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "teamID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.teamService.GetByID(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Update 更新班組
// @Summary 更新班組資訊
// @Tags Admin-Team
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param teamID path string true "Team ID"
// @Param body body dto.UpdateTeamDto true "欲更新欄位"
// @Success 200 {object} dto.TeamResponseDto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/teams/{teamID} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "teamID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.UpdateTeamDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.teamService.Update(ctx, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Delete 刪除班組
// @Summary 刪除班組（不影響成員本身與既有排班）
// @Tags Admin-Team
// @Security BearerAuth
// @Produce json
// @Param teamID path string true "Team ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/teams/{teamID} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "teamID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.teamService.Delete(ctx, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, "team deleted successfully")
}
