package service

import (
	"context"
	"errors"
	"time"

	"staffhub/internal/core"
	fluentdModel "staffhub/internal/database/fluentd/model"
	"staffhub/internal/database/mongodb/model"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"
	"staffhub/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TeamRotaService 對整個班組批次指派同一班次。
// 名單先過濾到在職成員（不在職者靜默排除），全數不在職才整批失敗；
// 之後逐一處理，有人衝突就記進 failed 名單繼續往下，
// 整批不回滾：部分失敗是正常結果，不是錯誤。
type TeamRotaService struct {
	trace       *telemetry.Trace
	metric      *telemetry.Metric
	rota        *RotaService
	assignments AssignmentStore
	employees   EmployeeDirectory
	teams       TeamDirectory
	cache       GroupCache
	audit       AuditSink
}

func NewTeamRotaService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	rota *RotaService,
	assignments AssignmentStore,
	employees EmployeeDirectory,
	teams TeamDirectory,
	cache GroupCache,
	audit AuditSink,
) *TeamRotaService {
	return &TeamRotaService{
		trace:       trace,
		metric:      metric,
		rota:        rota,
		assignments: assignments,
		employees:   employees,
		teams:       teams,
		cache:       cache,
		audit:       audit,
	}
}

// AssignToTeam 全體成員共用同一個新 groupId，事後可整組查詢或刪除
func (s *TeamRotaService) AssignToTeam(ctx context.Context, callerID, teamID primitive.ObjectID, req *dto.TeamAssignDto) (*dto.TeamAssignResultDto, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if !timeOfDayValid(req.StartTime) || !timeOfDayValid(req.EndTime) {
		return nil, cErr.InvalidTimeWindow("startTime and endTime must be zero-padded HH:MM")
	}
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, cErr.ValidateErr("invalid date: " + req.Date)
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("team not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}
	roster, err := s.employees.ListByIDs(ctx, team.MemberIDs)
	if err != nil {
		return nil, cErr.DatabaseError("database ListByIDs error")
	}
	// 名單先過濾：只留在職成員，查無此人或不在職者靜默排除，不記失敗
	rosterByID := make(map[primitive.ObjectID]*model.Employee, len(roster))
	for _, member := range roster {
		if member.Schedulable() {
			rosterByID[member.ID] = member
		}
	}
	if len(rosterByID) == 0 {
		return nil, cErr.EmptyTeamRoster("team has no schedulable members to assign")
	}

	var startDate, endDate *time.Time
	if req.StartDate != "" {
		if parsed, parseErr := parseDay(req.StartDate); parseErr == nil {
			startDate = &parsed
		}
	}
	if req.EndDate != "" {
		if parsed, parseErr := parseDay(req.EndDate); parseErr == nil {
			endDate = &parsed
		}
	}

	groupID := primitive.NewObjectID()
	result := &dto.TeamAssignResultDto{
		TeamID:     teamID.Hex(),
		GroupID:    groupID.Hex(),
		Successful: []dto.TeamAssignSuccessDto{},
		Failed:     []dto.TeamAssignFailureDto{},
	}

	// 名單順序處理；先到先排，後面的人撞到前面剛建的班也算衝突
	for _, memberID := range team.MemberIDs {
		member, schedulable := rosterByID[memberID]
		if !schedulable {
			continue
		}
		brief := dto.EmployeeBriefDto{
			ID:        member.ID.Hex(),
			FirstName: member.FirstName,
			LastName:  member.LastName,
			Email:     member.Email,
		}

		conflicts, detectErr := s.rota.DetectConflicts(ctx, member.ID, req.StartTime, req.EndTime, day, nil)
		if detectErr != nil {
			return nil, detectErr
		}
		if len(conflicts) > 0 {
			if s.metric.ConflictsDetectedTotal != nil {
				s.metric.ConflictsDetectedTotal.WithLabelValues("team").Inc()
			}
			result.Failed = append(result.Failed, dto.TeamAssignFailureDto{Employee: brief, Reason: "conflict detected"})
			continue
		}

		created, createErr := s.assignments.Create(ctx, &model.ShiftAssignment{
			EmployeeID:    member.ID,
			GroupID:       &groupID,
			ShiftName:     req.ShiftName,
			Date:          day,
			StartDate:     startDate,
			EndDate:       endDate,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Location:      req.Location,
			WorkType:      req.WorkType,
			BreakDuration: req.BreakDuration,
			Notes:         req.Notes,
			AssignedBy:    callerID,
			Status:        core.AssignmentScheduled,
		})
		if createErr != nil {
			result.Failed = append(result.Failed, dto.TeamAssignFailureDto{Employee: brief, Reason: "database error"})
			continue
		}
		result.Successful = append(result.Successful, dto.TeamAssignSuccessDto{
			Employee:     brief,
			AssignmentID: created.ID.Hex(),
		})
		if s.metric.AssignmentsCreatedTotal != nil {
			s.metric.AssignmentsCreatedTotal.WithLabelValues("team").Inc()
		}
	}

	if len(result.Successful) > 0 {
		_ = s.cache.Bump(ctx)
	}
	s.trace.ApplyTraceAttributes(span, core.TraceTeamAssignMeta{
		TeamID:       teamID.Hex(),
		RosterSize:   len(team.MemberIDs),
		SuccessCount: len(result.Successful),
		FailureCount: len(result.Failed),
	})
	_ = s.audit.LogRotaAudit(ctx, fluentdModel.RotaAuditLog{
		Action:    "team_assign",
		ActorID:   callerID.Hex(),
		TeamID:    teamID.Hex(),
		GroupID:   groupID.Hex(),
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})

	return result, nil
}
