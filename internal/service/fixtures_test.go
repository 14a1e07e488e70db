package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"staffhub/config"
	"staffhub/internal/core"
	fluentdModel "staffhub/internal/database/fluentd/model"
	"staffhub/internal/database/mongodb/model"
	"staffhub/internal/telemetry"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// 測試替身：以記憶體 map 模擬 repository 層，
// 過濾行為對齊 mongodb repository 的實際查詢條件。

type fakeAssignmentStore struct {
	rows      map[primitive.ObjectID]*model.ShiftAssignment
	order     []primitive.ObjectID
	createErr error // 設定後 Create 一律失敗，用來演練部分失敗
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{rows: make(map[primitive.ObjectID]*model.ShiftAssignment)}
}

func (s *fakeAssignmentStore) Create(_ context.Context, assignment *model.ShiftAssignment) (*model.ShiftAssignment, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if assignment.ID.IsZero() {
		assignment.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	s.rows[assignment.ID] = assignment
	s.order = append(s.order, assignment.ID)
	return assignment, nil
}

func (s *fakeAssignmentStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.ShiftAssignment, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return row, nil
}

func (s *fakeAssignmentStore) List(_ context.Context, filter bson.M) ([]*model.ShiftAssignment, error) {
	var matched []*model.ShiftAssignment
	for _, id := range s.order {
		row, ok := s.rows[id]
		if ok && matchAssignment(filter, row) {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (s *fakeAssignmentStore) FindForEmployeeOnDay(
	_ context.Context,
	employeeID primitive.ObjectID,
	dayStart, dayEnd time.Time,
	excludeID *primitive.ObjectID,
) ([]*model.ShiftAssignment, error) {
	var matched []*model.ShiftAssignment
	for _, id := range s.order {
		row := s.rows[id]
		if row == nil || row.EmployeeID != employeeID {
			continue
		}
		if row.Date.Before(dayStart) || row.Date.After(dayEnd) {
			continue
		}
		if statusExempt(row.Status) {
			continue
		}
		if excludeID != nil && row.ID == *excludeID {
			continue
		}
		matched = append(matched, row)
	}
	return matched, nil
}

func (s *fakeAssignmentStore) UpdateByID(_ context.Context, id primitive.ObjectID, update bson.M) (int64, error) {
	row, ok := s.rows[id]
	if !ok {
		return 0, mongo.ErrNoDocuments
	}
	set, _ := update["$set"].(bson.M)
	for key, value := range set {
		applyAssignmentField(row, key, value)
	}
	row.UpdatedAt = time.Now().UTC()
	return 1, nil
}

func (s *fakeAssignmentStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	delete(s.rows, id)
	return nil
}

func (s *fakeAssignmentStore) DeleteByGroup(_ context.Context, groupID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, row := range s.rows {
		if row.GroupID != nil && *row.GroupID == groupID {
			delete(s.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeAssignmentStore) DeleteByEmployee(_ context.Context, employeeID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, row := range s.rows {
		if row.EmployeeID == employeeID {
			delete(s.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

func statusExempt(status core.AssignmentStatus) bool {
	for _, exempt := range core.ConflictExemptStatuses {
		if status == exempt {
			return true
		}
	}
	return false
}

// matchAssignment 支援 service 層實際產生的過濾條件：
// 等值比對、date 的 $gte/$lte/$lt、status 的 $nin
func matchAssignment(filter bson.M, row *model.ShiftAssignment) bool {
	for key, condition := range filter {
		switch key {
		case "employeeId":
			if row.EmployeeID != condition.(primitive.ObjectID) {
				return false
			}
		case "location":
			if row.Location != condition.(string) {
				return false
			}
		case "workType":
			if row.WorkType != condition.(core.WorkType) {
				return false
			}
		case "status":
			switch cond := condition.(type) {
			case core.AssignmentStatus:
				if row.Status != cond {
					return false
				}
			case bson.M:
				for _, excluded := range cond["$nin"].([]core.AssignmentStatus) {
					if row.Status == excluded {
						return false
					}
				}
			}
		case "date":
			cond := condition.(bson.M)
			if from, ok := cond["$gte"].(time.Time); ok && row.Date.Before(from) {
				return false
			}
			if to, ok := cond["$lte"].(time.Time); ok && row.Date.After(to) {
				return false
			}
			if before, ok := cond["$lt"].(time.Time); ok && !row.Date.Before(before) {
				return false
			}
		}
	}
	return true
}

func applyAssignmentField(row *model.ShiftAssignment, key string, value interface{}) {
	switch key {
	case "employeeId":
		row.EmployeeID = value.(primitive.ObjectID)
	case "shiftName":
		row.ShiftName = value.(string)
	case "date":
		row.Date = value.(time.Time)
	case "startTime":
		row.StartTime = value.(string)
	case "endTime":
		row.EndTime = value.(string)
	case "location":
		row.Location = value.(string)
	case "workType":
		row.WorkType = value.(core.WorkType)
	case "breakDuration":
		row.BreakDuration = value.(int)
	case "notes":
		row.Notes = value.(string)
	case "status":
		row.Status = value.(core.AssignmentStatus)
	case "swapRequest":
		row.SwapRequest = value.(*model.SwapRequest)
	case "swapRequest.status":
		row.SwapRequest.Status = value.(core.SwapStatus)
	case "swapRequest.reviewedBy":
		reviewer := value.(primitive.ObjectID)
		row.SwapRequest.ReviewedBy = &reviewer
	case "swapRequest.reviewedAt":
		reviewedAt := value.(time.Time)
		row.SwapRequest.ReviewedAt = &reviewedAt
	}
}

type fakeEmployeeDirectory struct {
	rows  map[primitive.ObjectID]*model.Employee
	order []primitive.ObjectID
}

func newFakeEmployeeDirectory() *fakeEmployeeDirectory {
	return &fakeEmployeeDirectory{rows: make(map[primitive.ObjectID]*model.Employee)}
}

func (d *fakeEmployeeDirectory) Create(_ context.Context, employee *model.Employee) (*model.Employee, error) {
	if employee.ID.IsZero() {
		employee.ID = primitive.NewObjectID()
	}
	d.rows[employee.ID] = employee
	d.order = append(d.order, employee.ID)
	return employee, nil
}

func (d *fakeEmployeeDirectory) GetByID(_ context.Context, id primitive.ObjectID) (*model.Employee, error) {
	row, ok := d.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return row, nil
}

func (d *fakeEmployeeDirectory) List(_ context.Context, _ bson.M) ([]*model.Employee, error) {
	result := make([]*model.Employee, 0, len(d.order))
	for _, id := range d.order {
		result = append(result, d.rows[id])
	}
	return result, nil
}

func (d *fakeEmployeeDirectory) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]*model.Employee, error) {
	var result []*model.Employee
	for _, id := range ids {
		if row, ok := d.rows[id]; ok {
			result = append(result, row)
		}
	}
	return result, nil
}

func (d *fakeEmployeeDirectory) UpdateByID(_ context.Context, id primitive.ObjectID, _ bson.M) (int64, error) {
	if _, ok := d.rows[id]; !ok {
		return 0, mongo.ErrNoDocuments
	}
	return 1, nil
}

func (d *fakeEmployeeDirectory) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	delete(d.rows, id)
	return nil
}

type fakeTeamDirectory struct {
	rows map[primitive.ObjectID]*model.Team
}

func newFakeTeamDirectory() *fakeTeamDirectory {
	return &fakeTeamDirectory{rows: make(map[primitive.ObjectID]*model.Team)}
}

func (d *fakeTeamDirectory) Create(_ context.Context, team *model.Team) (*model.Team, error) {
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	d.rows[team.ID] = team
	return team, nil
}

func (d *fakeTeamDirectory) GetByID(_ context.Context, id primitive.ObjectID) (*model.Team, error) {
	row, ok := d.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return row, nil
}

func (d *fakeTeamDirectory) List(_ context.Context, _ bson.M) ([]*model.Team, error) {
	result := make([]*model.Team, 0, len(d.rows))
	for _, row := range d.rows {
		result = append(result, row)
	}
	return result, nil
}

func (d *fakeTeamDirectory) UpdateByID(_ context.Context, id primitive.ObjectID, _ bson.M) (int64, error) {
	if _, ok := d.rows[id]; !ok {
		return 0, mongo.ErrNoDocuments
	}
	return 1, nil
}

func (d *fakeTeamDirectory) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	delete(d.rows, id)
	return nil
}

func (d *fakeTeamDirectory) RemoveMemberEverywhere(_ context.Context, employeeID primitive.ObjectID) (int64, error) {
	var touched int64
	for _, team := range d.rows {
		kept := team.MemberIDs[:0]
		for _, memberID := range team.MemberIDs {
			if memberID != employeeID {
				kept = append(kept, memberID)
			}
		}
		if len(kept) != len(team.MemberIDs) {
			touched++
		}
		team.MemberIDs = kept
	}
	return touched, nil
}

type fakeGroupCache struct {
	entries map[string][]byte
	bumps   int
	sets    int
}

func newFakeGroupCache() *fakeGroupCache {
	return &fakeGroupCache{entries: make(map[string][]byte)}
}

func (c *fakeGroupCache) GetGroups(_ context.Context, fingerprint string) ([]byte, error) {
	payload, ok := c.entries[fingerprint]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return payload, nil
}

func (c *fakeGroupCache) SetGroups(_ context.Context, fingerprint string, payload []byte, _ int64) error {
	c.entries[fingerprint] = payload
	c.sets++
	return nil
}

func (c *fakeGroupCache) Bump(_ context.Context) error {
	c.bumps++
	c.entries = make(map[string][]byte)
	return nil
}

type fakeAuditSink struct {
	logs []fluentdModel.RotaAuditLog
}

func (s *fakeAuditSink) LogRotaAudit(_ context.Context, audit fluentdModel.RotaAuditLog) error {
	s.logs = append(s.logs, audit)
	return nil
}

func (s *fakeAuditSink) lastAction() string {
	if len(s.logs) == 0 {
		return ""
	}
	return s.logs[len(s.logs)-1].Action
}

type rotaFixture struct {
	assignments *fakeAssignmentStore
	employees   *fakeEmployeeDirectory
	teams       *fakeTeamDirectory
	cache       *fakeGroupCache
	audit       *fakeAuditSink

	rota        *RotaService
	swap        *SwapService
	teamRota    *TeamRotaService
	employeeSvc *EmployeeService
	teamSvc     *TeamService
}

func newRotaFixture(t *testing.T) *rotaFixture {
	t.Helper()

	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	metric := telemetry.NewMetric(nil)
	conf := &config.Configuration{Rota: config.Rota{CacheTTLSeconds: 300}}

	f := &rotaFixture{
		assignments: newFakeAssignmentStore(),
		employees:   newFakeEmployeeDirectory(),
		teams:       newFakeTeamDirectory(),
		cache:       newFakeGroupCache(),
		audit:       &fakeAuditSink{},
	}
	f.rota = NewRotaService(trace, metric, conf, f.assignments, f.employees, f.cache, f.audit)
	f.swap = NewSwapService(trace, metric, f.rota, f.assignments, f.employees, f.cache, f.audit)
	f.teamRota = NewTeamRotaService(trace, metric, f.rota, f.assignments, f.employees, f.teams, f.cache, f.audit)
	f.employeeSvc = NewEmployeeService(trace, f.employees, f.teams, f.assignments, f.cache)
	f.teamSvc = NewTeamService(trace, f.teams, f.employees)
	return f
}

func (f *rotaFixture) addEmployee(t *testing.T, firstName, lastName string, status core.EmployeeStatus) *model.Employee {
	t.Helper()
	employee, err := f.employees.Create(context.Background(), &model.Employee{
		FirstName: firstName,
		LastName:  lastName,
		Email:     firstName + "." + lastName + "@staffhub.test",
		Status:    status,
	})
	require.NoError(t, err)
	return employee
}

func (f *rotaFixture) seedShift(
	t *testing.T,
	employeeID primitive.ObjectID,
	date, startTime, endTime string,
	status core.AssignmentStatus,
) *model.ShiftAssignment {
	t.Helper()
	created, err := f.assignments.Create(context.Background(), &model.ShiftAssignment{
		EmployeeID: employeeID,
		ShiftName:  "Seeded Shift",
		Date:       mustDay(t, date),
		StartTime:  startTime,
		EndTime:    endTime,
		Location:   "Main Site",
		WorkType:   core.WorkTypeRegular,
		AssignedBy: primitive.NewObjectID(),
		Status:     status,
	})
	require.NoError(t, err)
	return created
}

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := parseDay(value)
	require.NoError(t, err)
	return day
}
