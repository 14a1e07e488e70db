package command

import (
	"context"
	"time"

	"staffhub/internal/core"
	"staffhub/internal/database/mongodb/model"
	mongoRepo "staffhub/internal/database/mongodb/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// SeedHandler 灌示範資料：幾位員工、一個班組、一週的排班
type SeedHandler struct {
	logger      *zap.Logger
	employees   *mongoRepo.EmployeeRepository
	teams       *mongoRepo.TeamRepository
	assignments *mongoRepo.ShiftAssignmentRepository
}

func NewSeedHandler(
	logger *zap.Logger,
	employees *mongoRepo.EmployeeRepository,
	teams *mongoRepo.TeamRepository,
	assignments *mongoRepo.ShiftAssignmentRepository,
) *SeedHandler {
	return &SeedHandler{
		logger:      logger,
		employees:   employees,
		teams:       teams,
		assignments: assignments,
	}
}

func (handler *SeedHandler) Seed(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedEmployees := []*model.Employee{
		{FirstName: "Amelia", LastName: "Chan", Email: "amelia.chan@example.com", JobTitle: "Shift Supervisor", Status: core.EmployeeActive},
		{FirstName: "Ben", LastName: "Osei", Email: "ben.osei@example.com", JobTitle: "Care Assistant", Status: core.EmployeeActive},
		{FirstName: "Carla", LastName: "Reyes", Email: "carla.reyes@example.com", JobTitle: "Care Assistant", Status: core.EmployeeActive},
		{FirstName: "Dev", LastName: "Patel", Email: "dev.patel@example.com", JobTitle: "Night Warden", Status: core.EmployeeOnLeave},
	}

	created := make([]*model.Employee, 0, len(seedEmployees))
	for _, employee := range seedEmployees {
		saved, err := handler.employees.Create(ctx, employee)
		if err != nil {
			handler.logger.Warn("seed employee skipped", zap.String("email", employee.Email), zap.Error(err))
			continue
		}
		created = append(created, saved)
	}
	if len(created) == 0 {
		cmd.Println("no employees seeded, aborting")
		return
	}

	team := &model.Team{
		Name:         "Day Shift Crew",
		Description:  "Front-of-house day rotation",
		SupervisorID: created[0].ID,
	}
	for _, employee := range created {
		team.MemberIDs = append(team.MemberIDs, employee.ID)
	}
	savedTeam, err := handler.teams.Create(ctx, team)
	if err != nil {
		handler.logger.Warn("seed team skipped", zap.Error(err))
	}

	// 一週早班，每人每天一筆
	weekStart := time.Now().UTC().Truncate(24 * time.Hour)
	assignmentCount := 0
	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		day := weekStart.AddDate(0, 0, dayOffset)
		for _, employee := range created {
			if employee.Status != core.EmployeeActive {
				continue
			}
			_, createErr := handler.assignments.Create(ctx, &model.ShiftAssignment{
				EmployeeID:    employee.ID,
				ShiftName:     "Morning Shift",
				Date:          day,
				StartTime:     "09:00",
				EndTime:       "17:00",
				Location:      "Main Site",
				WorkType:      core.WorkTypeRegular,
				BreakDuration: 60,
				AssignedBy:    created[0].ID,
				Status:        core.AssignmentScheduled,
			})
			if createErr != nil {
				handler.logger.Warn("seed assignment skipped", zap.Error(createErr))
				continue
			}
			assignmentCount++
		}
	}

	cmd.Printf("seeded %d employees, %d assignments\n", len(created), assignmentCount)
	if savedTeam != nil {
		cmd.Printf("team %s (%s)\n", savedTeam.Name, savedTeam.ID.Hex())
	}
}
