package service

import (
	"testing"
	"time"

	"staffhub/internal/database/mongodb/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func shiftOn(id, employeeID, assignedBy primitive.ObjectID, groupID *primitive.ObjectID, date time.Time) *model.ShiftAssignment {
	return &model.ShiftAssignment{
		ID:         id,
		EmployeeID: employeeID,
		GroupID:    groupID,
		ShiftName:  "Morning Shift",
		Date:       date,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Location:   "Main Site",
		WorkType:   "Regular",
		AssignedBy: assignedBy,
		CreatedAt:  time.Date(2024, 1, 1, 8, 0, 30, 0, time.UTC),
	}
}

func TestBuildRotaGroups_SpanCoversMinAndMaxDate(t *testing.T) {
	groupID := primitive.NewObjectID()
	employee := primitive.NewObjectID()
	assigner := primitive.NewObjectID()

	// 三筆單日紀錄亂序進來，跨度仍然是實際存在日期的 min/max
	rows := []*model.ShiftAssignment{
		shiftOn(primitive.NewObjectID(), employee, assigner, &groupID, day(t, "2024-01-03")),
		shiftOn(primitive.NewObjectID(), employee, assigner, &groupID, day(t, "2024-01-01")),
		shiftOn(primitive.NewObjectID(), employee, assigner, &groupID, day(t, "2024-01-02")),
	}

	groups := BuildRotaGroups(rows)
	require.Len(t, groups, 1)
	assert.Equal(t, groupID.Hex(), groups[0].ID)
	assert.Equal(t, groupID.Hex(), groups[0].GroupID)
	assert.Equal(t, "2024-01-01", groups[0].StartDate)
	assert.Equal(t, "2024-01-03", groups[0].EndDate)
	assert.Len(t, groups[0].AssignmentIDs, 3)
}

func TestBuildRotaGroups_OrderInvariant(t *testing.T) {
	groupA := primitive.NewObjectID()
	groupB := primitive.NewObjectID()
	employee := primitive.NewObjectID()
	assigner := primitive.NewObjectID()

	rows := []*model.ShiftAssignment{
		shiftOn(primitive.NewObjectID(), employee, assigner, &groupA, day(t, "2024-02-05")),
		shiftOn(primitive.NewObjectID(), employee, assigner, &groupB, day(t, "2024-02-01")),
		shiftOn(primitive.NewObjectID(), employee, assigner, &groupA, day(t, "2024-02-06")),
		shiftOn(primitive.NewObjectID(), employee, assigner, &groupB, day(t, "2024-02-02")),
	}
	reversed := make([]*model.ShiftAssignment, len(rows))
	for i, row := range rows {
		reversed[len(rows)-1-i] = row
	}

	forward := BuildRotaGroups(rows)
	backward := BuildRotaGroups(reversed)

	require.Len(t, forward, 2)
	require.Len(t, backward, 2)
	// 群組本身與排序和輸入順序無關
	assert.Equal(t, forward[0].ID, backward[0].ID)
	assert.Equal(t, forward[1].ID, backward[1].ID)
	// 輸出依推導出的 startDate 遞增
	assert.Equal(t, groupB.Hex(), forward[0].ID)
	assert.Equal(t, "2024-02-01", forward[0].StartDate)
	assert.Equal(t, groupA.Hex(), forward[1].ID)
	assert.Equal(t, "2024-02-05", forward[1].StartDate)
}

func TestBuildRotaGroups_LegacyKeyMergesSameMinuteBatch(t *testing.T) {
	employee := primitive.NewObjectID()
	assigner := primitive.NewObjectID()

	sameMinute := shiftOn(primitive.NewObjectID(), employee, assigner, nil, day(t, "2024-03-01"))
	sameMinuteToo := shiftOn(primitive.NewObjectID(), employee, assigner, nil, day(t, "2024-03-02"))
	// 同一分鐘內秒數不同，仍視為同一批歷史排班
	sameMinuteToo.CreatedAt = sameMinute.CreatedAt.Add(20 * time.Second)

	laterMinute := shiftOn(primitive.NewObjectID(), employee, assigner, nil, day(t, "2024-03-01"))
	laterMinute.CreatedAt = sameMinute.CreatedAt.Add(2 * time.Minute)

	groups := BuildRotaGroups([]*model.ShiftAssignment{sameMinute, sameMinuteToo, laterMinute})
	require.Len(t, groups, 2)

	merged := groups[0]
	assert.Empty(t, merged.GroupID)
	assert.Len(t, merged.AssignmentIDs, 2)
	assert.Equal(t, "2024-03-01", merged.StartDate)
	assert.Equal(t, "2024-03-02", merged.EndDate)
	assert.Len(t, groups[1].AssignmentIDs, 1)
}

func TestBuildRotaGroups_EmployeeFirstOccurrenceOrderAndDedupe(t *testing.T) {
	groupID := primitive.NewObjectID()
	assigner := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	rows := []*model.ShiftAssignment{
		shiftOn(primitive.NewObjectID(), bob, assigner, &groupID, day(t, "2024-04-01")),
		shiftOn(primitive.NewObjectID(), alice, assigner, &groupID, day(t, "2024-04-01")),
		shiftOn(primitive.NewObjectID(), bob, assigner, &groupID, day(t, "2024-04-02")),
	}
	rows[1].Employee = &model.EmployeeSummary{
		ID:        alice,
		FirstName: "Alice",
		LastName:  "Wong",
		Email:     "alice.wong@staffhub.test",
	}

	groups := BuildRotaGroups(rows)
	require.Len(t, groups, 1)

	members := groups[0].AssignedEmployees
	require.Len(t, members, 2)
	assert.Equal(t, bob.Hex(), members[0].EmployeeID)
	assert.Empty(t, members[0].EmployeeName)
	assert.Equal(t, alice.Hex(), members[1].EmployeeID)
	assert.Equal(t, "Alice Wong", members[1].EmployeeName)
	assert.Len(t, groups[0].AssignmentIDs, 3)
}

func TestBuildRotaGroups_SeedDatesExtendSpan(t *testing.T) {
	groupID := primitive.NewObjectID()
	employee := primitive.NewObjectID()
	assigner := primitive.NewObjectID()

	row := shiftOn(primitive.NewObjectID(), employee, assigner, &groupID, day(t, "2024-05-02"))
	seedStart := day(t, "2024-05-01")
	seedEnd := day(t, "2024-05-05")
	row.StartDate = &seedStart
	row.EndDate = &seedEnd

	groups := BuildRotaGroups([]*model.ShiftAssignment{row})
	require.Len(t, groups, 1)
	assert.Equal(t, "2024-05-01", groups[0].StartDate)
	assert.Equal(t, "2024-05-05", groups[0].EndDate)
}

func TestGroupKey_PrefersGroupID(t *testing.T) {
	groupID := primitive.NewObjectID()
	employee := primitive.NewObjectID()
	assigner := primitive.NewObjectID()

	withGroup := shiftOn(primitive.NewObjectID(), employee, assigner, &groupID, day(t, "2024-06-01"))
	withoutGroup := shiftOn(primitive.NewObjectID(), employee, assigner, nil, day(t, "2024-06-01"))

	assert.Equal(t, groupID.Hex(), GroupKey(withGroup))
	assert.Equal(t, LegacyGroupKey(withoutGroup), GroupKey(withoutGroup))
	assert.Contains(t, LegacyGroupKey(withoutGroup), "Morning Shift|09:00|17:00|Main Site|Regular|")
}
