package core

// ─── Assignment ────────────────────────────────────────────────────────────────

// AssignmentStatus 班次狀態
type AssignmentStatus string

const (
	AssignmentScheduled AssignmentStatus = "Scheduled" // 已排班
	AssignmentCompleted AssignmentStatus = "Completed" // 已完成
	AssignmentMissed    AssignmentStatus = "Missed"    // 未出勤
	AssignmentSwapped   AssignmentStatus = "Swapped"   // 已換班（轉給他人）
	AssignmentCancelled AssignmentStatus = "Cancelled" // 已取消
)

// ConflictExemptStatuses 不佔用員工行事曆的狀態（衝突檢查時排除）
var ConflictExemptStatuses = []AssignmentStatus{AssignmentCancelled, AssignmentSwapped}

// SwapStatus 換班申請狀態（獨立於班次本身的狀態）
type SwapStatus string

const (
	SwapPending  SwapStatus = "Pending"
	SwapApproved SwapStatus = "Approved"
	SwapRejected SwapStatus = "Rejected"
)

// WorkType 班別分類，僅用於篩選與統計，不參與重疊判斷
type WorkType string

const (
	WorkTypeRegular  WorkType = "Regular"
	WorkTypeOvertime WorkType = "Overtime"
	WorkTypeOnCall   WorkType = "OnCall"
	WorkTypeTraining WorkType = "Training"
)

// RangeBucket 以今天為界的粗篩選：進行中 / 歷史 / 全部
type RangeBucket string

const (
	RangeBucketActive RangeBucket = "active"
	RangeBucketOld    RangeBucket = "old"
	RangeBucketAll    RangeBucket = "all"
)

// ─── Employee ──────────────────────────────────────────────────────────────────

// EmployeeStatus 員工僱用狀態
type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeOnLeave    EmployeeStatus = "on_leave"
	EmployeeSuspended  EmployeeStatus = "suspended"
	EmployeeTerminated EmployeeStatus = "terminated"
	EmployeeDeleted    EmployeeStatus = "deleted" // 軟刪除
)
