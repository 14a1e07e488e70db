package dto

import "staffhub/internal/core"

// 對整個班組批次指派同一班次
type TeamAssignDto struct {
	ShiftName     string        `json:"shiftName" binding:"required"`
	Date          string        `json:"date" binding:"required"`
	StartDate     string        `json:"startDate,omitempty"`
	EndDate       string        `json:"endDate,omitempty"`
	StartTime     string        `json:"startTime" binding:"required"`
	EndTime       string        `json:"endTime" binding:"required"`
	Location      string        `json:"location" binding:"required"`
	WorkType      core.WorkType `json:"workType" binding:"required"`
	BreakDuration int           `json:"breakDuration,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

type TeamAssignSuccessDto struct {
	Employee     EmployeeBriefDto `json:"employee"`
	AssignmentID string           `json:"assignmentId"`
}

type TeamAssignFailureDto struct {
	Employee EmployeeBriefDto `json:"employee"`
	Reason   string           `json:"reason"`
}

// 批次結果：部分失敗不是錯誤，成功與失敗並列回傳
type TeamAssignResultDto struct {
	TeamID     string                 `json:"teamId"`
	GroupID    string                 `json:"groupId"`
	Successful []TeamAssignSuccessDto `json:"successful"`
	Failed     []TeamAssignFailureDto `json:"failed"`
}
