package dto

import (
	"time"

	"staffhub/internal/core"
)

// 建立單筆（或跨多日一組）排班
type CreateAssignmentDto struct {
	EmployeeID string `json:"employeeId" binding:"required"`
	ShiftName  string `json:"shiftName" binding:"required"`
	// 單一日曆日，格式 2006-01-02
	Date string `json:"date" binding:"required"`
	// 輔助欄位：作為群組日期跨度的種子，非權威值
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	// 補零 24 小時制 HH:MM
	StartTime     string        `json:"startTime" binding:"required"`
	EndTime       string        `json:"endTime" binding:"required"`
	Location      string        `json:"location" binding:"required"`
	WorkType      core.WorkType `json:"workType" binding:"required"`
	BreakDuration int           `json:"breakDuration,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	GroupID       string        `json:"groupId,omitempty"`
}

// 更新排班（一般欄位；employeeId 只能由換班核准變更）
type UpdateAssignmentDto struct {
	ShiftName     *string                `json:"shiftName,omitempty"`
	Date          *string                `json:"date,omitempty"`
	StartTime     *string                `json:"startTime,omitempty"`
	EndTime       *string                `json:"endTime,omitempty"`
	Location      *string                `json:"location,omitempty"`
	WorkType      *core.WorkType         `json:"workType,omitempty"`
	BreakDuration *int                   `json:"breakDuration,omitempty"`
	Notes         *string                `json:"notes,omitempty"`
	Status        *core.AssignmentStatus `json:"status,omitempty"`
}

type SwapRequestSubDto struct {
	RequestedBy   string          `json:"requestedBy"`
	RequestedWith string          `json:"requestedWith"`
	Status        core.SwapStatus `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	RequestedAt   time.Time       `json:"requestedAt"`
	ReviewedBy    string          `json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewedAt,omitempty"`
}

type AssignmentResponseDto struct {
	ID            string                `json:"id"`
	EmployeeID    string                `json:"employeeId"`
	Employee      *EmployeeBriefDto     `json:"employee,omitempty"`
	GroupID       string                `json:"groupId,omitempty"`
	ShiftName     string                `json:"shiftName"`
	Date          string                `json:"date"`
	StartDate     string                `json:"startDate,omitempty"`
	EndDate       string                `json:"endDate,omitempty"`
	StartTime     string                `json:"startTime"`
	EndTime       string                `json:"endTime"`
	Location      string                `json:"location"`
	WorkType      core.WorkType         `json:"workType"`
	BreakDuration int                   `json:"breakDuration,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	AssignedBy    string                `json:"assignedBy"`
	Status        core.AssignmentStatus `json:"status"`
	SwapRequest   *SwapRequestSubDto    `json:"swapRequest,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// AssignedEmployeeDto 群組名單成員（首次出現順序）
type AssignedEmployeeDto struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Email        string `json:"email,omitempty"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// RotaGroup 邏輯班次群組：一次排班動作產生的所有單日紀錄重建後的樣貌
type RotaGroup struct {
	ID                string                `json:"id"`
	GroupID           string                `json:"groupId,omitempty"`
	ShiftName         string                `json:"shiftName"`
	StartDate         string                `json:"startDate"`
	EndDate           string                `json:"endDate"`
	StartTime         string                `json:"startTime"`
	EndTime           string                `json:"endTime"`
	Location          string                `json:"location"`
	WorkType          core.WorkType         `json:"workType"`
	AssignedBy        string                `json:"assignedBy"`
	AssignedEmployees []AssignedEmployeeDto `json:"assignedEmployees"`
	AssignmentIDs     []string              `json:"assignmentIds"`
}

// 班表查詢條件（raw 與 grouped 列表共用）
type ListRotaQuery struct {
	From       string                `json:"from,omitempty"`
	To         string                `json:"to,omitempty"`
	EmployeeID string                `json:"employeeId,omitempty"`
	Location   string                `json:"location,omitempty"`
	WorkType   core.WorkType         `json:"workType,omitempty"`
	Status     core.AssignmentStatus `json:"status,omitempty"`
	Bucket     core.RangeBucket      `json:"bucket,omitempty"`
}

// 排班工時統計（breakDuration 唯一的使用處）
type EmployeeHoursDto struct {
	EmployeeID       string `json:"employeeId"`
	EmployeeName     string `json:"employeeName"`
	ShiftCount       int    `json:"shiftCount"`
	ScheduledMinutes int    `json:"scheduledMinutes"`
	BreakMinutes     int    `json:"breakMinutes"`
	NetMinutes       int    `json:"netMinutes"`
}
