package handler

import (
	"staffhub/internal/dto"
	"staffhub/internal/pkg/response"
	"staffhub/internal/service"
	"staffhub/internal/telemetry"
	"staffhub/utils/validate"

	"github.com/gin-gonic/gin"
)

type TeamRotaHandler struct {
	trace           *telemetry.Trace
	teamRotaService *service.TeamRotaService
}

func NewTeamRotaHandler(trace *telemetry.Trace, teamRotaService *service.TeamRotaService) *TeamRotaHandler {
	return &TeamRotaHandler{trace: trace, teamRotaService: teamRotaService}
}

// Assign 班組批次排班
// @Summary 對班組全員批次指派同一班次（部分失敗不回滾）
// @Tags Admin-Rota-Team
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param teamID path string true "Team ID"
// @Param body body dto.TeamAssignDto true "班次資訊"
// @Success 200 {object} dto.TeamAssignResultDto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/rota/teams/{teamID}/assignments [post]
func (h *TeamRotaHandler) Assign(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	callerID, err := callerIdentity(c)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	teamID, cause, respErr := validate.ParseObjectID(c, "teamID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.TeamAssignDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}

	res, err := h.teamRotaService.AssignToTeam(ctx, callerID, teamID, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}
