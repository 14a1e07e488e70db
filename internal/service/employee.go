package service

import (
	"context"
	"errors"

	"staffhub/internal/core"
	"staffhub/internal/database/mongodb/model"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"
	"staffhub/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EmployeeService 員工名錄維護
type EmployeeService struct {
	trace       *telemetry.Trace
	employees   EmployeeDirectory
	teams       TeamDirectory
	assignments AssignmentStore
	cache       GroupCache
}

func NewEmployeeService(
	trace *telemetry.Trace,
	employees EmployeeDirectory,
	teams TeamDirectory,
	assignments AssignmentStore,
	cache GroupCache,
) *EmployeeService {
	return &EmployeeService{
		trace:       trace,
		employees:   employees,
		teams:       teams,
		assignments: assignments,
		cache:       cache,
	}
}

func (s *EmployeeService) Create(ctx context.Context, req *dto.CreateEmployeeDto) (*dto.EmployeeResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	status := req.Status
	if status == "" {
		status = core.EmployeeActive
	}
	created, err := s.employees.Create(ctx, &model.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		JobTitle:  req.JobTitle,
		Status:    status,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, cErr.BadRequest("email already registered")
		}
		return nil, cErr.DatabaseError("database Create error")
	}
	return toEmployeeDto(created), nil
}

func (s *EmployeeService) GetByID(ctx context.Context, employeeID primitive.ObjectID) (*dto.EmployeeResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("employee not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}
	return toEmployeeDto(employee), nil
}

func (s *EmployeeService) List(ctx context.Context, status core.EmployeeStatus) ([]*dto.EmployeeResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	employees, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, cErr.DatabaseError("database List error")
	}
	resp := make([]*dto.EmployeeResponseDto, len(employees))
	for i, employee := range employees {
		resp[i] = toEmployeeDto(employee)
	}
	return resp, nil
}

func (s *EmployeeService) Update(ctx context.Context, employeeID primitive.ObjectID, req *dto.UpdateEmployeeDto) (*dto.EmployeeResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	update := bson.M{}
	if req.FirstName != nil {
		update["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		update["lastName"] = *req.LastName
	}
	if req.Email != nil {
		update["email"] = *req.Email
	}
	if req.JobTitle != nil {
		update["jobTitle"] = *req.JobTitle
	}
	if req.Status != nil {
		update["status"] = *req.Status
	}
	if len(update) == 0 {
		return nil, cErr.ValidateErr("no fields to update")
	}
	if _, err := s.employees.UpdateByID(ctx, employeeID, bson.M{"$set": update}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("employee not found")
		}
		return nil, cErr.DatabaseError("database Update error")
	}
	return s.GetByID(ctx, employeeID)
}

// Delete 離職清理：移除員工本人、所有班組名單上的成員資格、其全部排班
func (s *EmployeeService) Delete(ctx context.Context, employeeID primitive.ObjectID) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cErr.NotFound("employee not found")
		}
		return cErr.DatabaseError("database GetByID error")
	}
	if err := s.employees.DeleteByID(ctx, employeeID); err != nil {
		return cErr.DatabaseError("database Delete error")
	}
	if _, err := s.teams.RemoveMemberEverywhere(ctx, employeeID); err != nil {
		return cErr.DatabaseError("database RemoveMemberEverywhere error")
	}
	if _, err := s.assignments.DeleteByEmployee(ctx, employeeID); err != nil {
		return cErr.DatabaseError("database DeleteByEmployee error")
	}
	_ = s.cache.Bump(ctx)
	return nil
}

func toEmployeeDto(employee *model.Employee) *dto.EmployeeResponseDto {
	return &dto.EmployeeResponseDto{
		ID:        employee.ID.Hex(),
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
		JobTitle:  employee.JobTitle,
		Status:    employee.Status,
		CreatedAt: employee.CreatedAt,
		UpdatedAt: employee.UpdatedAt,
	}
}
