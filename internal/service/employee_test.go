package service

import (
	"context"
	"testing"

	"staffhub/internal/core"
	"staffhub/internal/database/mongodb/model"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEmployeeCreate_DefaultsToActive(t *testing.T) {
	f := newRotaFixture(t)

	created, err := f.employeeSvc.Create(context.Background(), &dto.CreateEmployeeDto{
		FirstName: "Alice",
		LastName:  "Wong",
		Email:     "alice.wong@staffhub.test",
	})
	require.NoError(t, err)
	assert.Equal(t, core.EmployeeActive, created.Status)
	assert.Equal(t, "Alice", created.FirstName)
}

func TestEmployeeDelete_CascadesShiftsAndTeams(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)

	f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)
	f.seedShift(t, alice.ID, "2024-05-02", "09:00", "17:00", core.AssignmentScheduled)
	bobShift := f.seedShift(t, bob.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	team, err := f.teams.Create(context.Background(), &model.Team{
		Name:      "Day Shift Crew",
		MemberIDs: []primitive.ObjectID{alice.ID, bob.ID},
	})
	require.NoError(t, err)

	require.NoError(t, f.employeeSvc.Delete(context.Background(), alice.ID))

	_, err = f.employeeSvc.GetByID(context.Background(), alice.ID)
	requireAppError(t, err, 404, cErr.NOT_FOUND)

	remaining, err := f.assignments.List(context.Background(), bson.M{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, bobShift.ID, remaining[0].ID)

	stored, err := f.teams.GetByID(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{bob.ID}, stored.MemberIDs)

	assert.Positive(t, f.cache.bumps)
}

func TestEmployeeDelete_Missing(t *testing.T) {
	f := newRotaFixture(t)
	err := f.employeeSvc.Delete(context.Background(), primitive.NewObjectID())
	requireAppError(t, err, 404, cErr.NOT_FOUND)
}

func TestTeamCreate_RejectsUnknownMembers(t *testing.T) {
	f := newRotaFixture(t)
	supervisor := f.addEmployee(t, "Amelia", "Chan", core.EmployeeActive)

	_, err := f.teamSvc.Create(context.Background(), &dto.CreateTeamDto{
		Name:         "Ghost Crew",
		SupervisorID: supervisor.ID.Hex(),
		MemberIDs:    []string{primitive.NewObjectID().Hex()},
	})
	requireAppError(t, err, 400, cErr.BAD_REQUEST_BODY)

	_, err = f.teamSvc.Create(context.Background(), &dto.CreateTeamDto{
		Name:         "Bad Id Crew",
		SupervisorID: supervisor.ID.Hex(),
		MemberIDs:    []string{"not-hex"},
	})
	requireAppError(t, err, 400, cErr.BAD_REQUEST_BODY)
}

func TestTeamCreate_Succeeds(t *testing.T) {
	f := newRotaFixture(t)
	supervisor := f.addEmployee(t, "Amelia", "Chan", core.EmployeeActive)
	member := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)

	created, err := f.teamSvc.Create(context.Background(), &dto.CreateTeamDto{
		Name:         "Day Shift Crew",
		SupervisorID: supervisor.ID.Hex(),
		MemberIDs:    []string{member.ID.Hex()},
	})
	require.NoError(t, err)
	assert.Equal(t, supervisor.ID.Hex(), created.SupervisorID)
	assert.Equal(t, []string{member.ID.Hex()}, created.MemberIDs)
}
