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

type EmployeeHandler struct {
	trace           *telemetry.Trace
	employeeService *service.EmployeeService
}

func NewEmployeeHandler(trace *telemetry.Trace, employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{trace: trace, employeeService: employeeService}
}

// Create 新增員工
// @Summary 新增員工
// @Tags Admin-Employee
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CreateEmployeeDto true "員工資訊"
// @Success 201 {object} dto.EmployeeResponseDto
// @Failure 400 {object} map[string]string
// @Router /admin/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.CreateEmployeeDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if req.Status != "" && !validate.IsValidEmployeeStatus(string(req.Status)) {
		response.AbortWithError(c, cErr.ValidateErr("invalid status"))
		return
	}

	res, err := h.employeeService.Create(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, res)
}

// List 員工列表
// @Summary 取得員工列表
// @Tags Admin-Employee
// @Security BearerAuth
// @Produce json
// @Param status query string false "僱用狀態"
// @Success 200 {array} dto.EmployeeResponseDto
// @Router /admin/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	status := c.Query("status")
	if status != "" && !validate.IsValidEmployeeStatus(status) {
		response.AbortWithError(c, cErr.ValidateErr("invalid status"))
		return
	}
	res, err := h.employeeService.List(ctx, core.EmployeeStatus(status))
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Get 取得員工
// @Summary 取得單一員工
// @Tags Admin-Employee
// @Security BearerAuth
// @Produce json
// @Param employeeID path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponseDto
// @Failure 404 {object} map[string]string
// @Router /admin/employees/{employeeID} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "employeeID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	res, err := h.employeeService.GetByID(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Update 更新員工
// @Summary 更新員工資訊
// @Tags Admin-Employee
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param employeeID path string true "Employee ID"
// @Param body body dto.UpdateEmployeeDto true "欲更新欄位"
// @Success 200 {object} dto.EmployeeResponseDto
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/employees/{employeeID} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "employeeID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.UpdateEmployeeDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if req.Status != nil && !validate.IsValidEmployeeStatus(string(*req.Status)) {
		response.AbortWithError(c, cErr.ValidateErr("invalid status"))
		return
	}

	res, err := h.employeeService.Update(ctx, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, res)
}

// Delete 刪除員工
// @Summary 刪除員工並清理其班組成員資格與全部排班
// @Tags Admin-Employee
// @Security BearerAuth
// @Produce json
// @Param employeeID path string true "Employee ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/employees/{employeeID} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "employeeID")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.employeeService.Delete(ctx, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, "employee deleted successfully")
}
