package service

import (
	"context"
	"time"

	fluentdModel "staffhub/internal/database/fluentd/model"
	fluentdRepo "staffhub/internal/database/fluentd/repository"
	"staffhub/internal/database/mongodb/model"
	mongoRepo "staffhub/internal/database/mongodb/repository"
	redisRepo "staffhub/internal/database/redis/repository"

	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 核心服務不直接抓全域 DB handle，改吃明確注入的 store port；
// 具體實作由 repository 層提供，wire 負責綁定。

// AssignmentStore 排班紀錄的持久層介面
type AssignmentStore interface {
	Create(ctx context.Context, assignment *model.ShiftAssignment) (*model.ShiftAssignment, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.ShiftAssignment, error)
	List(ctx context.Context, filter bson.M) ([]*model.ShiftAssignment, error)
	FindForEmployeeOnDay(ctx context.Context, employeeID primitive.ObjectID, dayStart, dayEnd time.Time, excludeID *primitive.ObjectID) ([]*model.ShiftAssignment, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error)
	DeleteByEmployee(ctx context.Context, employeeID primitive.ObjectID) (int64, error)
}

// EmployeeDirectory 員工名錄介面（換班對象驗證、名單解析）
type EmployeeDirectory interface {
	Create(ctx context.Context, employee *model.Employee) (*model.Employee, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Employee, error)
	List(ctx context.Context, filter bson.M) ([]*model.Employee, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Employee, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// TeamDirectory 班組名錄介面
type TeamDirectory interface {
	Create(ctx context.Context, team *model.Team) (*model.Team, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Team, error)
	List(ctx context.Context, filter bson.M) ([]*model.Team, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	RemoveMemberEverywhere(ctx context.Context, employeeID primitive.ObjectID) (int64, error)
}

// GroupCache 分組排班查詢快取
type GroupCache interface {
	GetGroups(ctx context.Context, filterFingerprint string) ([]byte, error)
	SetGroups(ctx context.Context, filterFingerprint string, payload []byte, ttlSeconds int64) error
	Bump(ctx context.Context) error
}

// AuditSink 排班異動稽核
type AuditSink interface {
	LogRotaAudit(ctx context.Context, audit fluentdModel.RotaAuditLog) error
}

var ProviderSet = wire.NewSet(
	NewRotaService,
	NewSwapService,
	NewTeamRotaService,
	NewEmployeeService,
	NewTeamService,
	NewHealthService,
	wire.Bind(new(AssignmentStore), new(*mongoRepo.ShiftAssignmentRepository)),
	wire.Bind(new(EmployeeDirectory), new(*mongoRepo.EmployeeRepository)),
	wire.Bind(new(TeamDirectory), new(*mongoRepo.TeamRepository)),
	wire.Bind(new(GroupCache), new(*redisRepo.RotaCacheRepository)),
	wire.Bind(new(AuditSink), new(*fluentdRepo.LogRepository)),
)
