package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staffhub/internal/core"
)

// SwapRequest 換班申請（嵌入於 ShiftAssignment；其狀態獨立於班次本身）
type SwapRequest struct {
	RequestedBy   primitive.ObjectID  `json:"requestedBy" bson:"requestedBy"`
	RequestedWith primitive.ObjectID  `json:"requestedWith" bson:"requestedWith"`
	Status        core.SwapStatus     `json:"status" bson:"status"`
	Reason        string              `json:"reason,omitempty" bson:"reason,omitempty"`
	RequestedAt   time.Time           `json:"requestedAt" bson:"requestedAt"`
	ReviewedBy    *primitive.ObjectID `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time          `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
}

// Pending 是否有尚未審核的換班申請
func (r *SwapRequest) Pending() bool {
	return r != nil && r.Status == core.SwapPending
}

// ShiftAssignment 單日排班紀錄；跨多日的排班以共享 groupId 的多筆單日紀錄表示，
// 一天一筆，而不是一筆帶整段日期區間（startDate/endDate 只是輔助欄位）。
type ShiftAssignment struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id"`
	EmployeeID primitive.ObjectID  `json:"employeeId" bson:"employeeId"`
	GroupID    *primitive.ObjectID `json:"groupId,omitempty" bson:"groupId,omitempty"`
	ShiftName  string              `json:"shiftName" bson:"shiftName"`
	// 此紀錄所覆蓋的單一日曆日
	Date      time.Time  `json:"date" bson:"date"`
	StartDate *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	// 當日時刻字串，固定補零的 24 小時制 HH:MM
	StartTime     string                `json:"startTime" bson:"startTime"`
	EndTime       string                `json:"endTime" bson:"endTime"`
	Location      string                `json:"location" bson:"location"`
	WorkType      core.WorkType         `json:"workType" bson:"workType"`
	BreakDuration int                   `json:"breakDuration,omitempty" bson:"breakDuration,omitempty"`
	Notes         string                `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedBy    primitive.ObjectID    `json:"assignedBy" bson:"assignedBy"`
	Status        core.AssignmentStatus `json:"status" bson:"status"`
	SwapRequest   *SwapRequest          `json:"swapRequest,omitempty" bson:"swapRequest,omitempty"`
	CreatedAt     time.Time             `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt" bson:"updatedAt"`

	// populate 後的精簡資訊；上游可能只帶 id，也可能帶展開物件
	Employee       *EmployeeSummary `json:"employee,omitempty" bson:"-"`
	AssignedByInfo *EmployeeSummary `json:"assignedByInfo,omitempty" bson:"-"`
}

var ShiftAssignmentIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "employeeId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_employeeId_date_status"),
	},
	{
		Keys:    bson.D{{Key: "groupId", Value: 1}},
		Options: options.Index().SetName("idx_groupId").SetSparse(true),
	},
	{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("idx_date"),
	},
	{
		Keys:    bson.D{{Key: "location", Value: 1}, {Key: "workType", Value: 1}},
		Options: options.Index().SetName("idx_location_workType"),
	},
}
