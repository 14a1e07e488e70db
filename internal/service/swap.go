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

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SwapService 換班申請與審核。
// 狀態機：無申請 → Pending → Approved / Rejected，駁回或核准後可重新申請；
// Pending 期間不得再提。核准是唯一會改 employeeId 的路徑。
type SwapService struct {
	trace       *telemetry.Trace
	metric      *telemetry.Metric
	rota        *RotaService
	assignments AssignmentStore
	employees   EmployeeDirectory
	cache       GroupCache
	audit       AuditSink
}

func NewSwapService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	rota *RotaService,
	assignments AssignmentStore,
	employees EmployeeDirectory,
	cache GroupCache,
	audit AuditSink,
) *SwapService {
	return &SwapService{
		trace:       trace,
		metric:      metric,
		rota:        rota,
		assignments: assignments,
		employees:   employees,
		cache:       cache,
		audit:       audit,
	}
}

// RequestSwap 由目前被指派者對自己的班次提出換班
func (s *SwapService) RequestSwap(ctx context.Context, callerID, assignmentID primitive.ObjectID, req *dto.SwapRequestDto) (*dto.AssignmentResponseDto, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("assignment not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}
	if assignment.EmployeeID != callerID {
		return nil, cErr.Forbidden("only the assigned employee can request a swap")
	}
	if assignment.SwapRequest != nil && assignment.SwapRequest.Pending() {
		return nil, cErr.SwapStateError("a swap request is already pending for this assignment")
	}

	requestedWith, err := primitive.ObjectIDFromHex(req.RequestedWith)
	if err != nil {
		return nil, cErr.ValidateErr("invalid requestedWith")
	}
	if requestedWith == callerID {
		return nil, cErr.SwapStateError("cannot request a swap with yourself")
	}
	counterpart, err := s.employees.GetByID(ctx, requestedWith)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("requested employee not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}
	if !counterpart.Schedulable() {
		return nil, cErr.BadRequest("requested employee is not active")
	}

	swap := &model.SwapRequest{
		RequestedBy:   callerID,
		RequestedWith: requestedWith,
		Status:        core.SwapPending,
		Reason:        req.Reason,
		RequestedAt:   time.Now().UTC(),
	}
	if _, err := s.assignments.UpdateByID(ctx, assignmentID, bson.M{"$set": bson.M{"swapRequest": swap}}); err != nil {
		return nil, cErr.DatabaseError("database RequestSwap error")
	}

	s.trace.ApplyTraceAttributes(span, core.TraceSwapMeta{
		AssignmentID: assignmentID.Hex(),
		RequestedBy:  callerID.Hex(),
		RequestedPal: requestedWith.Hex(),
	})
	_ = s.audit.LogRotaAudit(ctx, fluentdModel.RotaAuditLog{
		Action:       "swap_request",
		ActorID:      callerID.Hex(),
		EmployeeID:   requestedWith.Hex(),
		AssignmentID: assignmentID.Hex(),
		Detail:       req.Reason,
	})

	return s.rota.GetAssignment(ctx, assignmentID)
}

// ApproveSwap 核准換班：把班次改指派給 requestedWith，狀態標成 Swapped。
// 唯一前置條件是申請處於 Pending；不對接手者另做衝突檢查
func (s *SwapService) ApproveSwap(ctx context.Context, reviewerID, assignmentID primitive.ObjectID) (*dto.AssignmentResponseDto, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	assignment, appErr := s.pendingAssignment(ctx, assignmentID)
	if appErr != nil {
		return nil, appErr
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"employeeId":             assignment.SwapRequest.RequestedWith,
		"status":                 core.AssignmentSwapped,
		"swapRequest.status":     core.SwapApproved,
		"swapRequest.reviewedBy": reviewerID,
		"swapRequest.reviewedAt": now,
	}}
	if _, err := s.assignments.UpdateByID(ctx, assignmentID, update); err != nil {
		return nil, cErr.DatabaseError("database ApproveSwap error")
	}
	_ = s.cache.Bump(ctx)

	if s.metric.SwapDecisionsTotal != nil {
		s.metric.SwapDecisionsTotal.WithLabelValues("approved").Inc()
	}
	s.trace.ApplyTraceAttributes(span, core.TraceSwapMeta{
		AssignmentID: assignmentID.Hex(),
		Decision:     "approved",
		ReviewedBy:   reviewerID.Hex(),
	})
	_ = s.audit.LogRotaAudit(ctx, fluentdModel.RotaAuditLog{
		Action:       "swap_approve",
		ActorID:      reviewerID.Hex(),
		EmployeeID:   assignment.SwapRequest.RequestedWith.Hex(),
		AssignmentID: assignmentID.Hex(),
	})

	return s.rota.GetAssignment(ctx, assignmentID)
}

// RejectSwap 駁回換班：班次維持原指派，之後可重新申請
func (s *SwapService) RejectSwap(ctx context.Context, reviewerID, assignmentID primitive.ObjectID) (*dto.AssignmentResponseDto, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	assignment, appErr := s.pendingAssignment(ctx, assignmentID)
	if appErr != nil {
		return nil, appErr
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"swapRequest.status":     core.SwapRejected,
		"swapRequest.reviewedBy": reviewerID,
		"swapRequest.reviewedAt": now,
	}}
	if _, err := s.assignments.UpdateByID(ctx, assignmentID, update); err != nil {
		return nil, cErr.DatabaseError("database RejectSwap error")
	}

	if s.metric.SwapDecisionsTotal != nil {
		s.metric.SwapDecisionsTotal.WithLabelValues("rejected").Inc()
	}
	s.trace.ApplyTraceAttributes(span, core.TraceSwapMeta{
		AssignmentID: assignmentID.Hex(),
		Decision:     "rejected",
		ReviewedBy:   reviewerID.Hex(),
	})
	_ = s.audit.LogRotaAudit(ctx, fluentdModel.RotaAuditLog{
		Action:       "swap_reject",
		ActorID:      reviewerID.Hex(),
		EmployeeID:   assignment.SwapRequest.RequestedWith.Hex(),
		AssignmentID: assignmentID.Hex(),
	})

	return s.rota.GetAssignment(ctx, assignmentID)
}

func (s *SwapService) pendingAssignment(ctx context.Context, assignmentID primitive.ObjectID) (*model.ShiftAssignment, *cErr.Error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("assignment not found")
		}
		return nil, cErr.DatabaseError("database GetByID error")
	}
	if assignment.SwapRequest == nil || !assignment.SwapRequest.Pending() {
		return nil, cErr.SwapStateError("no pending swap request on this assignment")
	}
	return assignment, nil
}
