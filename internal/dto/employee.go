package dto

import (
	"time"

	"staffhub/internal/core"
)

// 建立員工
type CreateEmployeeDto struct {
	FirstName string              `json:"firstName" binding:"required"`
	LastName  string              `json:"lastName" binding:"required"`
	Email     string              `json:"email" binding:"required,email"`
	JobTitle  string              `json:"jobTitle,omitempty"`
	Status    core.EmployeeStatus `json:"status,omitempty"`
}

// 更新員工
type UpdateEmployeeDto struct {
	FirstName *string              `json:"firstName,omitempty"`
	LastName  *string              `json:"lastName,omitempty"`
	Email     *string              `json:"email,omitempty" binding:"omitempty,email"`
	JobTitle  *string              `json:"jobTitle,omitempty"`
	Status    *core.EmployeeStatus `json:"status,omitempty"`
}

type EmployeeResponseDto struct {
	ID        string              `json:"id"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	Email     string              `json:"email"`
	JobTitle  string              `json:"jobTitle,omitempty"`
	Status    core.EmployeeStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// EmployeeBriefDto 批次結果與群組名單中的精簡身分
type EmployeeBriefDto struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
