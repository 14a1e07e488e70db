package dto

import "time"

// 建立班組
type CreateTeamDto struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description,omitempty"`
	SupervisorID string   `json:"supervisorId" binding:"required"`
	MemberIDs    []string `json:"memberIds,omitempty"`
}

// 更新班組
type UpdateTeamDto struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	SupervisorID *string   `json:"supervisorId,omitempty"`
	MemberIDs    *[]string `json:"memberIds,omitempty"`
}

type TeamResponseDto struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	SupervisorID string    `json:"supervisorId"`
	MemberIDs    []string  `json:"memberIds"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
