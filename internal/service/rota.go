package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"staffhub/config"
	"staffhub/internal/core"
	fluentdModel "staffhub/internal/database/fluentd/model"
	"staffhub/internal/database/mongodb/model"
	redisRepo "staffhub/internal/database/redis/repository"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"
	"staffhub/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RotaService struct {
	trace       *telemetry.Trace
	metric      *telemetry.Metric
	conf        *config.Configuration
	assignments AssignmentStore
	employees   EmployeeDirectory
	cache       GroupCache
	audit       AuditSink
}

func NewRotaService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	conf *config.Configuration,
	assignments AssignmentStore,
	employees EmployeeDirectory,
	cache GroupCache,
	audit AuditSink,
) *RotaService {
	return &RotaService{
		trace:       trace,
		metric:      metric,
		conf:        conf,
		assignments: assignments,
		employees:   employees,
		cache:       cache,
		audit:       audit,
	}
}

// DetectConflicts 找出該員工同一日曆日內、與候選時間窗重疊的班次。
// Cancelled / Swapped 不佔行事曆所以排除；excludeID 供原地更新跳過自己。
// 純讀取，沒有副作用。
func (s *RotaService) DetectConflicts(
	ctx context.Context,
	employeeID primitive.ObjectID,
	candidateStart string,
	candidateEnd string,
	day time.Time,
	excludeID *primitive.ObjectID,
) ([]*model.ShiftAssignment, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	dayStart, dayEnd := dayBounds(day)
	candidates, err := s.assignments.FindForEmployeeOnDay(ctx, employeeID, dayStart, dayEnd, excludeID)
	if err != nil {
		return nil, cErr.DatabaseError("database DetectConflicts error")
	}

	var conflicts []*model.ShiftAssignment
	for _, existing := range candidates {
		if windowsOverlap(candidateStart, candidateEnd, existing.StartTime, existing.EndTime) {
			conflicts = append(conflicts, existing)
		}
	}

	meta := core.TraceConflictCheckMeta{
		EmployeeID:    employeeID.Hex(),
		Date:          dayStart.Format(rotaDateLayout),
		StartTime:     candidateStart,
		EndTime:       candidateEnd,
		Candidates:    len(candidates),
		ConflictCount: len(conflicts),
	}
	if excludeID != nil {
		meta.ExcludeID = excludeID.Hex()
	}
	s.trace.ApplyTraceAttributes(span, meta)

	return conflicts, nil
}

// CreateAssignment 建立單筆排班；寫入前必經衝突檢查，重疊就整筆拒絕並附上衝突明細
func (s *RotaService) CreateAssignment(ctx context.Context, callerID primitive.ObjectID, req *dto.CreateAssignmentDto) (*dto.AssignmentResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	assignment, appErr := s.buildAssignment(callerID, req)
	if appErr != nil {
		return nil, appErr
	}

	employee, err := s.employees.GetByID(ctx, assignment.EmployeeID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("employee not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}
	if !employee.Schedulable() {
		return nil, cErr.BadRequest("employee is not active and cannot be scheduled")
	}

	conflicts, err := s.DetectConflicts(ctx, assignment.EmployeeID, assignment.StartTime, assignment.EndTime, assignment.Date, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		if s.metric.ConflictsDetectedTotal != nil {
			s.metric.ConflictsDetectedTotal.WithLabelValues("single").Inc()
		}
		return nil, s.conflictError(conflicts)
	}

	created, err := s.assignments.Create(ctx, assignment)
	if err != nil {
		return nil, cErr.DatabaseError("database CreateAssignment error")
	}
	created.Employee = employee.Summary()

	_ = s.cache.Bump(ctx)
	if s.metric.AssignmentsCreatedTotal != nil {
		s.metric.AssignmentsCreatedTotal.WithLabelValues("single").Inc()
	}
	_ = s.audit.LogRotaAudit(ctx, fluentdModel.RotaAuditLog{
		Action:       "assign",
		ActorID:      callerID.Hex(),
		EmployeeID:   created.EmployeeID.Hex(),
		AssignmentID: created.ID.Hex(),
		Date:         created.Date.Format(rotaDateLayout),
		StartTime:    created.StartTime,
		EndTime:      created.EndTime,
	})

	return toAssignmentDto(created), nil
}

// ListAssignments 攤平列表（不分組），支援日期區間 / 員工 / 地點 / 班別 / 狀態 / 粗篩選
func (s *RotaService) ListAssignments(ctx context.Context, query dto.ListRotaQuery) ([]*dto.AssignmentResponseDto, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	filter, appErr := buildRotaFilter(query)
	if appErr != nil {
		return nil, appErr
	}

	rows, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, cErr.DatabaseError("database ListAssignments error")
	}
	if err := s.populateEmployees(ctx, rows); err != nil {
		return nil, err
	}

	s.trace.ApplyTraceAttributes(span, core.TraceRotaListMeta{
		From:       query.From,
		To:         query.To,
		EmployeeID: query.EmployeeID,
		Bucket:     string(query.Bucket),
		RowCount:   len(rows),
	})

	resp := make([]*dto.AssignmentResponseDto, len(rows))
	for i, row := range rows {
		resp[i] = toAssignmentDto(row)
	}
	return resp, nil
}

// GetAssignment 依 id 查詢單筆排班
func (s *RotaService) GetAssignment(ctx context.Context, assignmentID primitive.ObjectID) (*dto.AssignmentResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("assignment not found")
		}
		return nil, cErr.DatabaseError("database GetAssignment error")
	}
	if err := s.populateEmployees(ctx, []*model.ShiftAssignment{assignment}); err != nil {
		return nil, err
	}
	return toAssignmentDto(assignment), nil
}

// ListGroupedAssignments 把攤平紀錄重組為邏輯班次群組後回傳；結果進 Redis 快取
func (s *RotaService) ListGroupedAssignments(ctx context.Context, query dto.ListRotaQuery) ([]*dto.RotaGroup, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	fingerprint := redisRepo.Fingerprint(
		query.From, query.To, query.EmployeeID, query.Location,
		string(query.WorkType), string(query.Status), string(query.Bucket),
	)

	cacheOutcome := "miss"
	if payload, err := s.cache.GetGroups(ctx, fingerprint); err == nil {
		var cached []*dto.RotaGroup
		if unmarshalErr := json.Unmarshal(payload, &cached); unmarshalErr == nil {
			cacheOutcome = "hit"
			if s.metric.CacheHitTotal != nil {
				s.metric.CacheHitTotal.WithLabelValues(cacheOutcome).Inc()
			}
			s.trace.ApplyTraceAttributes(span, core.TraceRotaListMeta{CacheResult: cacheOutcome, GroupCount: len(cached)})
			return cached, nil
		}
	}
	if s.metric.CacheHitTotal != nil {
		s.metric.CacheHitTotal.WithLabelValues(cacheOutcome).Inc()
	}

	filter, appErr := buildRotaFilter(query)
	if appErr != nil {
		return nil, appErr
	}
	rows, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, cErr.DatabaseError("database ListGroupedAssignments error")
	}
	if err := s.populateEmployees(ctx, rows); err != nil {
		return nil, err
	}

	groups := BuildRotaGroups(rows)

	if payload, marshalErr := json.Marshal(groups); marshalErr == nil {
		_ = s.cache.SetGroups(ctx, fingerprint, payload, s.conf.Rota.CacheTTLSeconds)
	}

	s.trace.ApplyTraceAttributes(span, core.TraceRotaListMeta{
		From:        query.From,
		To:          query.To,
		EmployeeID:  query.EmployeeID,
		Bucket:      string(query.Bucket),
		RowCount:    len(rows),
		GroupCount:  len(groups),
		CacheResult: cacheOutcome,
	})
	return groups, nil
}

// UpdateAssignment 一般欄位更新；時間窗或日期有動時重跑衝突檢查（跳過自己）
func (s *RotaService) UpdateAssignment(ctx context.Context, assignmentID primitive.ObjectID, req *dto.UpdateAssignmentDto) (*dto.AssignmentResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	existing, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("assignment not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}

	update := bson.M{}
	effectiveStart, effectiveEnd, effectiveDay := existing.StartTime, existing.EndTime, existing.Date
	windowMoved := false

	if req.ShiftName != nil {
		update["shiftName"] = *req.ShiftName
	}
	if req.Date != nil {
		day, parseErr := parseDay(*req.Date)
		if parseErr != nil {
			return nil, cErr.ValidateErr("invalid date: " + *req.Date)
		}
		update["date"] = day
		effectiveDay = day
		windowMoved = true
	}
	if req.StartTime != nil {
		if !timeOfDayValid(*req.StartTime) {
			return nil, cErr.InvalidTimeWindow("startTime must be zero-padded HH:MM")
		}
		update["startTime"] = *req.StartTime
		effectiveStart = *req.StartTime
		windowMoved = true
	}
	if req.EndTime != nil {
		if !timeOfDayValid(*req.EndTime) {
			return nil, cErr.InvalidTimeWindow("endTime must be zero-padded HH:MM")
		}
		update["endTime"] = *req.EndTime
		effectiveEnd = *req.EndTime
		windowMoved = true
	}
	if req.Location != nil {
		update["location"] = *req.Location
	}
	if req.WorkType != nil {
		update["workType"] = *req.WorkType
	}
	if req.BreakDuration != nil {
		update["breakDuration"] = *req.BreakDuration
	}
	if req.Notes != nil {
		update["notes"] = *req.Notes
	}
	if req.Status != nil {
		update["status"] = *req.Status
	}
	if len(update) == 0 {
		return nil, cErr.ValidateErr("no fields to update")
	}

	if windowMoved {
		conflicts, detectErr := s.DetectConflicts(ctx, existing.EmployeeID, effectiveStart, effectiveEnd, effectiveDay, &assignmentID)
		if detectErr != nil {
			return nil, detectErr
		}
		if len(conflicts) > 0 {
			if s.metric.ConflictsDetectedTotal != nil {
				s.metric.ConflictsDetectedTotal.WithLabelValues("single").Inc()
			}
			return nil, s.conflictError(conflicts)
		}
	}

	if _, err := s.assignments.UpdateByID(ctx, assignmentID, bson.M{"$set": update}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("assignment not found")
		}
		return nil, cErr.DatabaseError("database UpdateAssignment error")
	}
	_ = s.cache.Bump(ctx)

	return s.GetAssignment(ctx, assignmentID)
}

// DeleteAssignment 刪除單筆排班
func (s *RotaService) DeleteAssignment(ctx context.Context, assignmentID primitive.ObjectID) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cErr.NotFound("assignment not found")
		}
		return cErr.DatabaseError("database GetByID error")
	}
	if err := s.assignments.DeleteByID(ctx, assignmentID); err != nil {
		return cErr.DatabaseError("database DeleteAssignment error")
	}
	_ = s.cache.Bump(ctx)
	return nil
}

// DeleteGroup 刪除同一次排班動作產生的所有單日紀錄；一筆都沒有就回 404
func (s *RotaService) DeleteGroup(ctx context.Context, callerID, groupID primitive.ObjectID) (int64, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	deleted, err := s.assignments.DeleteByGroup(ctx, groupID)
	if err != nil {
		return 0, cErr.DatabaseError("database DeleteGroup error")
	}
	if deleted == 0 {
		return 0, cErr.NotFound(fmt.Sprintf("no assignments found for group %s", groupID.Hex()))
	}
	_ = s.cache.Bump(ctx)
	_ = s.audit.LogRotaAudit(ctx, fluentdModel.RotaAuditLog{
		Action:  "group_delete",
		ActorID: callerID.Hex(),
		GroupID: groupID.Hex(),
		Detail:  strconv.FormatInt(deleted, 10) + " assignments deleted",
	})
	return deleted, nil
}

// HoursStatistics 區間內每位員工的排班工時彙總（breakDuration 在這裡入帳）
func (s *RotaService) HoursStatistics(ctx context.Context, query dto.ListRotaQuery) ([]*dto.EmployeeHoursDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	filter, appErr := buildRotaFilter(query)
	if appErr != nil {
		return nil, appErr
	}
	filter["status"] = bson.M{"$nin": core.ConflictExemptStatuses}

	rows, err := s.assignments.List(ctx, filter)
	if err != nil {
		return nil, cErr.DatabaseError("database HoursStatistics error")
	}
	if err := s.populateEmployees(ctx, rows); err != nil {
		return nil, err
	}

	totals := make(map[string]*dto.EmployeeHoursDto)
	var order []string
	for _, row := range rows {
		employeeID, employeeName, _ := EmployeeIdentity(row)
		entry, seen := totals[employeeID]
		if !seen {
			entry = &dto.EmployeeHoursDto{EmployeeID: employeeID, EmployeeName: employeeName}
			totals[employeeID] = entry
			order = append(order, employeeID)
		}
		scheduled := minutesBetween(row.StartTime, row.EndTime)
		entry.ShiftCount++
		entry.ScheduledMinutes += scheduled
		entry.BreakMinutes += row.BreakDuration
		entry.NetMinutes += scheduled - row.BreakDuration
	}

	resp := make([]*dto.EmployeeHoursDto, 0, len(order))
	for _, employeeID := range order {
		resp = append(resp, totals[employeeID])
	}
	return resp, nil
}

// ─── helpers ───────────────────────────────────────────────────────────────────

func (s *RotaService) buildAssignment(callerID primitive.ObjectID, req *dto.CreateAssignmentDto) (*model.ShiftAssignment, *cErr.Error) {
	if !timeOfDayValid(req.StartTime) || !timeOfDayValid(req.EndTime) {
		return nil, cErr.InvalidTimeWindow("startTime and endTime must be zero-padded HH:MM")
	}
	employeeID, err := primitive.ObjectIDFromHex(req.EmployeeID)
	if err != nil {
		return nil, cErr.ValidateErr("invalid employeeId")
	}
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, cErr.ValidateErr("invalid date: " + req.Date)
	}

	assignment := &model.ShiftAssignment{
		EmployeeID:    employeeID,
		ShiftName:     req.ShiftName,
		Date:          day,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Location:      req.Location,
		WorkType:      req.WorkType,
		BreakDuration: req.BreakDuration,
		Notes:         req.Notes,
		AssignedBy:    callerID,
		Status:        core.AssignmentScheduled,
	}
	if req.GroupID != "" {
		groupID, parseErr := primitive.ObjectIDFromHex(req.GroupID)
		if parseErr != nil {
			return nil, cErr.ValidateErr("invalid groupId")
		}
		assignment.GroupID = &groupID
	}
	if req.StartDate != "" {
		if startDate, parseErr := parseDay(req.StartDate); parseErr == nil {
			assignment.StartDate = &startDate
		}
	}
	if req.EndDate != "" {
		if endDate, parseErr := parseDay(req.EndDate); parseErr == nil {
			assignment.EndDate = &endDate
		}
	}
	return assignment, nil
}

func (s *RotaService) conflictError(conflicts []*model.ShiftAssignment) *cErr.Error {
	details := make([]*dto.AssignmentResponseDto, len(conflicts))
	for i, conflict := range conflicts {
		details[i] = toAssignmentDto(conflict)
	}
	desc := fmt.Sprintf("time window overlaps %d existing assignment(s)", len(conflicts))
	return cErr.ShiftConflict(desc).WithDetails(details)
}

// populateEmployees 補上 employee / assignedBy 的精簡身分（一次撈齊，避免 N+1）
func (s *RotaService) populateEmployees(ctx context.Context, rows []*model.ShiftAssignment) error {
	if len(rows) == 0 {
		return nil
	}
	idSet := make(map[primitive.ObjectID]bool)
	for _, row := range rows {
		idSet[row.EmployeeID] = true
		idSet[row.AssignedBy] = true
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	employees, err := s.employees.ListByIDs(ctx, ids)
	if err != nil {
		return cErr.DatabaseError("database ListByIDs error")
	}
	summaries := make(map[primitive.ObjectID]*model.EmployeeSummary, len(employees))
	for _, employee := range employees {
		summaries[employee.ID] = employee.Summary()
	}
	for _, row := range rows {
		if summary, ok := summaries[row.EmployeeID]; ok {
			row.Employee = summary
		}
		if summary, ok := summaries[row.AssignedBy]; ok {
			row.AssignedByInfo = summary
		}
	}
	return nil
}

func buildRotaFilter(query dto.ListRotaQuery) (bson.M, *cErr.Error) {
	filter := bson.M{}

	dateFilter := bson.M{}
	if query.From != "" {
		from, err := parseDay(query.From)
		if err != nil {
			return nil, cErr.ValidatePathParamsErr("invalid from date")
		}
		dateFilter["$gte"] = from
	}
	if query.To != "" {
		to, err := parseDay(query.To)
		if err != nil {
			return nil, cErr.ValidatePathParamsErr("invalid to date")
		}
		_, endOfDay := dayBounds(to)
		dateFilter["$lte"] = endOfDay
	}

	// active/old 以今天零點為界做粗篩選
	todayStart, _ := dayBounds(time.Now().UTC())
	switch query.Bucket {
	case core.RangeBucketActive:
		dateFilter["$gte"] = todayStart
	case core.RangeBucketOld:
		dateFilter["$lt"] = todayStart
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	if query.EmployeeID != "" {
		employeeID, err := primitive.ObjectIDFromHex(query.EmployeeID)
		if err != nil {
			return nil, cErr.ValidatePathParamsErr("invalid employeeId")
		}
		filter["employeeId"] = employeeID
	}
	if query.Location != "" {
		filter["location"] = query.Location
	}
	if query.WorkType != "" {
		filter["workType"] = query.WorkType
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	return filter, nil
}

func toAssignmentDto(assignment *model.ShiftAssignment) *dto.AssignmentResponseDto {
	resp := &dto.AssignmentResponseDto{
		ID:            assignment.ID.Hex(),
		EmployeeID:    assignment.EmployeeID.Hex(),
		ShiftName:     assignment.ShiftName,
		Date:          assignment.Date.Format(rotaDateLayout),
		StartTime:     assignment.StartTime,
		EndTime:       assignment.EndTime,
		Location:      assignment.Location,
		WorkType:      assignment.WorkType,
		BreakDuration: assignment.BreakDuration,
		Notes:         assignment.Notes,
		AssignedBy:    assignment.AssignedBy.Hex(),
		Status:        assignment.Status,
		CreatedAt:     assignment.CreatedAt,
		UpdatedAt:     assignment.UpdatedAt,
	}
	if assignment.GroupID != nil && !assignment.GroupID.IsZero() {
		resp.GroupID = assignment.GroupID.Hex()
	}
	if assignment.StartDate != nil {
		resp.StartDate = assignment.StartDate.Format(rotaDateLayout)
	}
	if assignment.EndDate != nil {
		resp.EndDate = assignment.EndDate.Format(rotaDateLayout)
	}
	if assignment.Employee != nil {
		resp.Employee = &dto.EmployeeBriefDto{
			ID:        assignment.Employee.ID.Hex(),
			FirstName: assignment.Employee.FirstName,
			LastName:  assignment.Employee.LastName,
			Email:     assignment.Employee.Email,
		}
	}
	if assignment.SwapRequest != nil {
		swap := &dto.SwapRequestSubDto{
			RequestedBy:   assignment.SwapRequest.RequestedBy.Hex(),
			RequestedWith: assignment.SwapRequest.RequestedWith.Hex(),
			Status:        assignment.SwapRequest.Status,
			Reason:        assignment.SwapRequest.Reason,
			RequestedAt:   assignment.SwapRequest.RequestedAt,
			ReviewedAt:    assignment.SwapRequest.ReviewedAt,
		}
		if assignment.SwapRequest.ReviewedBy != nil {
			swap.ReviewedBy = assignment.SwapRequest.ReviewedBy.Hex()
		}
		resp.SwapRequest = swap
	}
	return resp
}
