package service

import (
	"context"
	"testing"

	"staffhub/internal/core"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func createReq(employeeID primitive.ObjectID, date, startTime, endTime string) *dto.CreateAssignmentDto {
	return &dto.CreateAssignmentDto{
		EmployeeID: employeeID.Hex(),
		ShiftName:  "Morning Shift",
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Location:   "Main Site",
		WorkType:   core.WorkTypeRegular,
	}
}

func requireAppError(t *testing.T, err error, httpCode, errorCode int) *cErr.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*cErr.Error)
	require.True(t, ok, "expected *cErr.Error, got %T", err)
	assert.Equal(t, httpCode, appErr.HttpCode())
	assert.Equal(t, errorCode, appErr.ErrorCode())
	return appErr
}

func TestCreateAssignment_Succeeds(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)

	created, err := f.rota.CreateAssignment(context.Background(), caller, createReq(employee.ID, "2024-05-01", "09:00", "17:00"))
	require.NoError(t, err)

	assert.Equal(t, employee.ID.Hex(), created.EmployeeID)
	assert.Equal(t, core.AssignmentScheduled, created.Status)
	assert.Equal(t, "2024-05-01", created.Date)
	assert.Equal(t, caller.Hex(), created.AssignedBy)
	require.NotNil(t, created.Employee)
	assert.Equal(t, "Alice", created.Employee.FirstName)

	assert.Equal(t, 1, f.cache.bumps)
	assert.Equal(t, "assign", f.audit.lastAction())
}

func TestCreateAssignment_RejectsOverlap(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	f.seedShift(t, employee.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.rota.CreateAssignment(context.Background(), caller, createReq(employee.ID, "2024-05-01", "16:00", "20:00"))
	appErr := requireAppError(t, err, 409, cErr.SHIFT_CONFLICT)

	// details 附上完整衝突清單
	details, ok := appErr.Details().([]*dto.AssignmentResponseDto)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "09:00", details[0].StartTime)
}

func TestCreateAssignment_AbutmentIsNotConflict(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	f.seedShift(t, employee.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	// 一班結束即另一班開始，不算重疊
	created, err := f.rota.CreateAssignment(context.Background(), caller, createReq(employee.ID, "2024-05-01", "17:00", "21:00"))
	require.NoError(t, err)
	assert.Equal(t, "17:00", created.StartTime)
}

func TestCreateAssignment_CancelledAndSwappedDoNotBlock(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	f.seedShift(t, employee.ID, "2024-05-01", "09:00", "17:00", core.AssignmentCancelled)
	f.seedShift(t, employee.ID, "2024-05-01", "10:00", "18:00", core.AssignmentSwapped)

	_, err := f.rota.CreateAssignment(context.Background(), caller, createReq(employee.ID, "2024-05-01", "09:00", "17:00"))
	assert.NoError(t, err)
}

func TestCreateAssignment_SameWindowDifferentDayIsFine(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	f.seedShift(t, employee.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.rota.CreateAssignment(context.Background(), caller, createReq(employee.ID, "2024-05-02", "09:00", "17:00"))
	assert.NoError(t, err)
}

func TestCreateAssignment_ValidatesInput(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)

	_, err := f.rota.CreateAssignment(context.Background(), caller, createReq(employee.ID, "2024-05-01", "9:00", "17:00"))
	requireAppError(t, err, 400, cErr.INVALID_TIME_WINDOW)

	_, err = f.rota.CreateAssignment(context.Background(), caller, createReq(employee.ID, "not-a-date", "09:00", "17:00"))
	requireAppError(t, err, 400, cErr.BAD_REQUEST_BODY)

	_, err = f.rota.CreateAssignment(context.Background(), caller, createReq(primitive.NewObjectID(), "2024-05-01", "09:00", "17:00"))
	requireAppError(t, err, 404, cErr.NOT_FOUND)

	inactive := f.addEmployee(t, "Dev", "Patel", core.EmployeeOnLeave)
	_, err = f.rota.CreateAssignment(context.Background(), caller, createReq(inactive.ID, "2024-05-01", "09:00", "17:00"))
	requireAppError(t, err, 400, cErr.BAD_REQUEST_BODY)
}

func TestUpdateAssignment_WindowMoveSkipsSelf(t *testing.T) {
	f := newRotaFixture(t)
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	seeded := f.seedShift(t, employee.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	// 只改自己的窗，不應撞到自己
	newStart := "10:00"
	updated, err := f.rota.UpdateAssignment(context.Background(), seeded.ID, &dto.UpdateAssignmentDto{StartTime: &newStart})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)
}

func TestUpdateAssignment_WindowMoveDetectsConflict(t *testing.T) {
	f := newRotaFixture(t)
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	f.seedShift(t, employee.ID, "2024-05-01", "09:00", "12:00", core.AssignmentScheduled)
	seeded := f.seedShift(t, employee.ID, "2024-05-01", "13:00", "17:00", core.AssignmentScheduled)

	newStart := "11:00"
	_, err := f.rota.UpdateAssignment(context.Background(), seeded.ID, &dto.UpdateAssignmentDto{StartTime: &newStart})
	requireAppError(t, err, 409, cErr.SHIFT_CONFLICT)
}

func TestUpdateAssignment_NoFields(t *testing.T) {
	f := newRotaFixture(t)
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	seeded := f.seedShift(t, employee.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.rota.UpdateAssignment(context.Background(), seeded.ID, &dto.UpdateAssignmentDto{})
	requireAppError(t, err, 400, cErr.BAD_REQUEST_BODY)
}

func TestDeleteGroup(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	employee := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	groupID := primitive.NewObjectID()

	first := f.seedShift(t, employee.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)
	second := f.seedShift(t, employee.ID, "2024-05-02", "09:00", "17:00", core.AssignmentScheduled)
	first.GroupID = &groupID
	second.GroupID = &groupID
	f.seedShift(t, employee.ID, "2024-05-03", "09:00", "17:00", core.AssignmentScheduled)

	deleted, err := f.rota.DeleteGroup(context.Background(), caller, groupID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, "group_delete", f.audit.lastAction())

	// 群組已清空，再刪一次回 404
	_, err = f.rota.DeleteGroup(context.Background(), caller, groupID)
	requireAppError(t, err, 404, cErr.NOT_FOUND)
}

func TestHoursStatistics(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)

	first := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)
	first.BreakDuration = 60
	second := f.seedShift(t, alice.ID, "2024-05-02", "09:00", "13:00", core.AssignmentScheduled)
	second.BreakDuration = 30
	f.seedShift(t, bob.ID, "2024-05-01", "22:00", "23:00", core.AssignmentScheduled)
	// 已取消與已換班的班次不入帳
	f.seedShift(t, alice.ID, "2024-05-03", "09:00", "17:00", core.AssignmentCancelled)
	f.seedShift(t, alice.ID, "2024-05-04", "09:00", "17:00", core.AssignmentSwapped)

	stats, err := f.rota.HoursStatistics(context.Background(), dto.ListRotaQuery{})
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, alice.ID.Hex(), stats[0].EmployeeID)
	assert.Equal(t, "Alice Wong", stats[0].EmployeeName)
	assert.Equal(t, 2, stats[0].ShiftCount)
	assert.Equal(t, 720, stats[0].ScheduledMinutes)
	assert.Equal(t, 90, stats[0].BreakMinutes)
	assert.Equal(t, 630, stats[0].NetMinutes)

	assert.Equal(t, bob.ID.Hex(), stats[1].EmployeeID)
	assert.Equal(t, 60, stats[1].ScheduledMinutes)
	assert.Equal(t, 60, stats[1].NetMinutes)
}

func TestListAssignments_Filters(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)

	f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)
	f.seedShift(t, alice.ID, "2024-05-10", "09:00", "17:00", core.AssignmentScheduled)
	f.seedShift(t, bob.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	byEmployee, err := f.rota.ListAssignments(context.Background(), dto.ListRotaQuery{EmployeeID: alice.ID.Hex()})
	require.NoError(t, err)
	assert.Len(t, byEmployee, 2)

	byRange, err := f.rota.ListAssignments(context.Background(), dto.ListRotaQuery{From: "2024-05-01", To: "2024-05-02"})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)

	_, err = f.rota.ListAssignments(context.Background(), dto.ListRotaQuery{EmployeeID: "not-hex"})
	requireAppError(t, err, 400, cErr.BAD_REQUEST_PARAMS)
}

func TestListGroupedAssignments_CachesResult(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	groupID := primitive.NewObjectID()
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)
	seeded.GroupID = &groupID

	query := dto.ListRotaQuery{From: "2024-05-01", To: "2024-05-02"}

	first, err := f.rota.ListGroupedAssignments(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, groupID.Hex(), first[0].ID)
	assert.Equal(t, 1, f.cache.sets)

	// 第二次同樣查詢直接命中快取，不再回寫
	second, err := f.rota.ListGroupedAssignments(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, f.cache.sets)

	// 寫入後快取失效，下一次查詢重建
	caller := primitive.NewObjectID()
	_, err = f.rota.CreateAssignment(context.Background(), caller, createReq(alice.ID, "2024-05-02", "09:00", "17:00"))
	require.NoError(t, err)

	third, err := f.rota.ListGroupedAssignments(context.Background(), query)
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.Equal(t, 2, f.cache.sets)
}
