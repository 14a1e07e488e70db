package service

import (
	"context"
	"testing"

	"staffhub/config"
	"staffhub/internal/core"
	"staffhub/internal/database/mongodb/model"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"
	"staffhub/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func teamAssignReq() *dto.TeamAssignDto {
	return &dto.TeamAssignDto{
		ShiftName: "Morning Shift",
		Date:      "2024-05-01",
		StartTime: "09:00",
		EndTime:   "17:00",
		Location:  "Main Site",
		WorkType:  core.WorkTypeRegular,
	}
}

func TestAssignToTeam_PartialFailureIsNotAnError(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()

	able := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	busy := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	inactive := f.addEmployee(t, "Dev", "Patel", core.EmployeeOnLeave)
	ghost := primitive.NewObjectID()

	f.seedShift(t, busy.ID, "2024-05-01", "12:00", "20:00", core.AssignmentScheduled)

	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:         "Day Shift Crew",
		SupervisorID: caller,
		MemberIDs:    []primitive.ObjectID{able.ID, busy.ID, inactive.ID, ghost},
	})
	require.NoError(t, err)

	result, err := f.teamRota.AssignToTeam(context.Background(), caller, team.ID, teamAssignReq())
	require.NoError(t, err)

	require.Len(t, result.Successful, 1)
	assert.Equal(t, able.ID.Hex(), result.Successful[0].Employee.ID)
	assert.NotEmpty(t, result.Successful[0].AssignmentID)

	// 不在職與查無此人都靜默排除，唯一的失敗是撞班
	require.Len(t, result.Failed, 1)
	assert.Equal(t, busy.ID.Hex(), result.Failed[0].Employee.ID)
	assert.Equal(t, "conflict detected", result.Failed[0].Reason)

	assert.Equal(t, "team_assign", f.audit.lastAction())
}

func TestAssignToTeam_AllMembersUnschedulable(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()

	onLeave := f.addEmployee(t, "Dev", "Patel", core.EmployeeOnLeave)
	suspended := f.addEmployee(t, "Eve", "Tsai", core.EmployeeSuspended)

	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:         "Benched Crew",
		SupervisorID: caller,
		MemberIDs:    []primitive.ObjectID{onLeave.ID, suspended.ID},
	})
	require.NoError(t, err)

	// 名單過濾後沒人可排，整批直接失敗而不是回空結果
	_, err = f.teamRota.AssignToTeam(context.Background(), caller, team.ID, teamAssignReq())
	requireAppError(t, err, 400, cErr.EMPTY_TEAM_ROSTER)
}

func TestAssignToTeam_MembersShareFreshGroupID(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()

	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)

	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:         "Night Shift Crew",
		SupervisorID: caller,
		MemberIDs:    []primitive.ObjectID{alice.ID, bob.ID},
	})
	require.NoError(t, err)

	result, err := f.teamRota.AssignToTeam(context.Background(), caller, team.ID, teamAssignReq())
	require.NoError(t, err)
	require.Len(t, result.Successful, 2)
	require.Empty(t, result.Failed)
	require.NotEmpty(t, result.GroupID)

	groupID, err := primitive.ObjectIDFromHex(result.GroupID)
	require.NoError(t, err)
	for _, success := range result.Successful {
		assignmentID, parseErr := primitive.ObjectIDFromHex(success.AssignmentID)
		require.NoError(t, parseErr)
		stored, getErr := f.assignments.GetByID(context.Background(), assignmentID)
		require.NoError(t, getErr)
		require.NotNil(t, stored.GroupID)
		assert.Equal(t, groupID, *stored.GroupID)
		assert.Equal(t, core.AssignmentScheduled, stored.Status)
		assert.Equal(t, caller, stored.AssignedBy)
	}

	// 事後可整組刪除
	deleted, err := f.rota.DeleteGroup(context.Background(), caller, groupID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestAssignToTeam_LaterMemberHitsEarlierCreation(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)

	// 同一位員工在名單出現兩次：先到先排，第二次撞到第一次剛建的班
	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:         "Duplicated Roster",
		SupervisorID: caller,
		MemberIDs:    []primitive.ObjectID{alice.ID, alice.ID},
	})
	require.NoError(t, err)

	result, err := f.teamRota.AssignToTeam(context.Background(), caller, team.ID, teamAssignReq())
	require.NoError(t, err)
	assert.Len(t, result.Successful, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "conflict detected", result.Failed[0].Reason)
}

func TestAssignToTeam_Guards(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()

	_, err := f.teamRota.AssignToTeam(context.Background(), caller, primitive.NewObjectID(), teamAssignReq())
	requireAppError(t, err, 404, cErr.NOT_FOUND)

	empty, err := f.teams.Create(context.Background(), &model.Team{Name: "Empty Crew", SupervisorID: caller})
	require.NoError(t, err)
	_, err = f.teamRota.AssignToTeam(context.Background(), caller, empty.ID, teamAssignReq())
	requireAppError(t, err, 400, cErr.EMPTY_TEAM_ROSTER)

	badWindow := teamAssignReq()
	badWindow.StartTime = "9:00"
	_, err = f.teamRota.AssignToTeam(context.Background(), caller, empty.ID, badWindow)
	requireAppError(t, err, 400, cErr.INVALID_TIME_WINDOW)
}

func TestAssignToTeam_StorageFailureRecordedPerMember(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)

	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:         "Unlucky Crew",
		SupervisorID: caller,
		MemberIDs:    []primitive.ObjectID{alice.ID},
	})
	require.NoError(t, err)

	f.assignments.createErr = assert.AnError
	result, err := f.teamRota.AssignToTeam(context.Background(), caller, team.ID, teamAssignReq())
	require.NoError(t, err)
	assert.Empty(t, result.Successful)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "database error", result.Failed[0].Reason)
}

func TestConflictMetric_LabelledByCallSource(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()

	// 不經 promauto 註冊，避免污染 default registry
	conflicts := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "conflicts_detected_total"},
		[]string{string(core.MetricLabelSource)},
	)
	metric := &telemetry.Metric{ConflictsDetectedTotal: conflicts}
	traceEntry, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	conf := &config.Configuration{Rota: config.Rota{CacheTTLSeconds: 300}}
	rota := NewRotaService(traceEntry, metric, conf, f.assignments, f.employees, f.cache, f.audit)
	teamRota := NewTeamRotaService(traceEntry, metric, rota, f.assignments, f.employees, f.teams, f.cache, f.audit)

	busy := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	f.seedShift(t, busy.ID, "2024-05-01", "12:00", "20:00", core.AssignmentScheduled)

	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:         "Metric Crew",
		SupervisorID: caller,
		MemberIDs:    []primitive.ObjectID{busy.ID},
	})
	require.NoError(t, err)

	// 批次指派撞班只記 team，不記 single
	result, err := teamRota.AssignToTeam(context.Background(), caller, team.ID, teamAssignReq())
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(conflicts.WithLabelValues("team")))
	assert.Equal(t, float64(0), testutil.ToFloat64(conflicts.WithLabelValues("single")))

	// 單筆指派撞班記 single，team 不動
	_, err = rota.CreateAssignment(context.Background(), caller, createReq(busy.ID, "2024-05-01", "11:00", "13:00"))
	requireAppError(t, err, 409, cErr.SHIFT_CONFLICT)
	assert.Equal(t, float64(1), testutil.ToFloat64(conflicts.WithLabelValues("team")))
	assert.Equal(t, float64(1), testutil.ToFloat64(conflicts.WithLabelValues("single")))
}

func TestAssignToTeam_NoSuccessNoCacheBump(t *testing.T) {
	f := newRotaFixture(t)
	caller := primitive.NewObjectID()
	busy := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	f.seedShift(t, busy.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:         "Busy Crew",
		SupervisorID: caller,
		MemberIDs:    []primitive.ObjectID{busy.ID},
	})
	require.NoError(t, err)

	bumpsBefore := f.cache.bumps
	result, err := f.teamRota.AssignToTeam(context.Background(), caller, team.ID, teamAssignReq())
	require.NoError(t, err)
	assert.Empty(t, result.Successful)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, bumpsBefore, f.cache.bumps)
}
