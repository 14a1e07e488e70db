package service

import (
	"context"
	"errors"

	"staffhub/internal/database/mongodb/model"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"
	"staffhub/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TeamService 班組維護
type TeamService struct {
	trace     *telemetry.Trace
	teams     TeamDirectory
	employees EmployeeDirectory
}

func NewTeamService(trace *telemetry.Trace, teams TeamDirectory, employees EmployeeDirectory) *TeamService {
	return &TeamService{trace: trace, teams: teams, employees: employees}
}

func (s *TeamService) Create(ctx context.Context, req *dto.CreateTeamDto) (*dto.TeamResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	supervisorID, err := primitive.ObjectIDFromHex(req.SupervisorID)
	if err != nil {
		return nil, cErr.ValidateErr("invalid supervisorId")
	}
	memberIDs, appErr := s.resolveMembers(ctx, req.MemberIDs)
	if appErr != nil {
		return nil, appErr
	}

	created, err := s.teams.Create(ctx, &model.Team{
		Name:         req.Name,
		Description:  req.Description,
		SupervisorID: supervisorID,
		MemberIDs:    memberIDs,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, cErr.BadRequest("team name already exists")
		}
		return nil, cErr.DatabaseError("database Create error")
	}
	return toTeamDto(created), nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID primitive.ObjectID) (*dto.TeamResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("team not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}
	return toTeamDto(team), nil
}

func (s *TeamService) List(ctx context.Context) ([]*dto.TeamResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	teams, err := s.teams.List(ctx, bson.M{})
	if err != nil {
		return nil, cErr.DatabaseError("database List error")
	}
	resp := make([]*dto.TeamResponseDto, len(teams))
	for i, team := range teams {
		resp[i] = toTeamDto(team)
	}
	return resp, nil
}

func (s *TeamService) Update(ctx context.Context, teamID primitive.ObjectID, req *dto.UpdateTeamDto) (*dto.TeamResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	update := bson.M{}
	if req.Name != nil {
		update["name"] = *req.Name
	}
	if req.Description != nil {
		update["description"] = *req.Description
	}
	if req.SupervisorID != nil {
		supervisorID, err := primitive.ObjectIDFromHex(*req.SupervisorID)
		if err != nil {
			return nil, cErr.ValidateErr("invalid supervisorId")
		}
		update["supervisorId"] = supervisorID
	}
	if req.MemberIDs != nil {
		memberIDs, appErr := s.resolveMembers(ctx, *req.MemberIDs)
		if appErr != nil {
			return nil, appErr
		}
		update["memberIds"] = memberIDs
	}
	if len(update) == 0 {
		return nil, cErr.ValidateErr("no fields to update")
	}
	if _, err := s.teams.UpdateByID(ctx, teamID, bson.M{"$set": update}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("team not found")
		}
		return nil, cErr.DatabaseError("database Update error")
	}
	return s.GetByID(ctx, teamID)
}

func (s *TeamService) Delete(ctx context.Context, teamID primitive.ObjectID) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cErr.NotFound("team not found")
		}
		return cErr.DatabaseError("database GetByID error")
	}
	if err := s.teams.DeleteByID(ctx, teamID); err != nil {
		return cErr.DatabaseError("database Delete error")
	}
	return nil
}

// resolveMembers hex 轉 ObjectID 並確認每位成員都存在
func (s *TeamService) resolveMembers(ctx context.Context, hexIDs []string) ([]primitive.ObjectID, *cErr.Error) {
	memberIDs := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hexID := range hexIDs {
		memberID, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			return nil, cErr.ValidateErr("invalid member id: " + hexID)
		}
		memberIDs = append(memberIDs, memberID)
	}
	if len(memberIDs) == 0 {
		return memberIDs, nil
	}
	found, err := s.employees.ListByIDs(ctx, memberIDs)
	if err != nil {
		return nil, cErr.DatabaseError("database ListByIDs error")
	}
	if len(found) != len(memberIDs) {
		return nil, cErr.BadRequest("one or more members do not exist")
	}
	return memberIDs, nil
}

func toTeamDto(team *model.Team) *dto.TeamResponseDto {
	memberIDs := make([]string, len(team.MemberIDs))
	for i, memberID := range team.MemberIDs {
		memberIDs[i] = memberID.Hex()
	}
	return &dto.TeamResponseDto{
		ID:           team.ID.Hex(),
		Name:         team.Name,
		Description:  team.Description,
		SupervisorID: team.SupervisorID.Hex(),
		MemberIDs:    memberIDs,
		CreatedAt:    team.CreatedAt,
		UpdatedAt:    team.UpdatedAt,
	}
}
