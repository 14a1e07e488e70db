package model

// RotaAuditLog 排班異動稽核：建立 / 換班審核 / 群組刪除 都各記一筆
type RotaAuditLog struct {
	RequestID    string `bson:"request_id,omitempty" json:"request_id,omitempty"`
	ProjectName  string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Action       string `bson:"action" json:"action"` // assign / team_assign / swap_request / swap_approve / swap_reject / group_delete
	ActorID      string `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	EmployeeID   string `bson:"employee_id,omitempty" json:"employee_id,omitempty"`
	AssignmentID string `bson:"assignment_id,omitempty" json:"assignment_id,omitempty"`
	GroupID      string `bson:"group_id,omitempty" json:"group_id,omitempty"`
	TeamID       string `bson:"team_id,omitempty" json:"team_id,omitempty"`
	Date         string `bson:"date,omitempty" json:"date,omitempty"`
	StartTime    string `bson:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime      string `bson:"end_time,omitempty" json:"end_time,omitempty"`
	Detail       string `bson:"detail,omitempty" json:"detail,omitempty"`
	Version      string `bson:"version,omitempty" json:"version,omitempty"`
	LoggedAt     string `bson:"logged_at" json:"logged_at"`
}
