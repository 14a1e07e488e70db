package service

import (
	"sort"
	"strings"
	"time"

	"staffhub/internal/database/mongodb/model"
	"staffhub/internal/dto"
)

const (
	rotaDateLayout = "2006-01-02"
	// 舊資料沒有 groupId 時，以建立時間截到「分」當作同批次的判斷依據
	legacyKeyMinuteLayout = "2006-01-02T15:04"
)

// GroupKey 決定一筆單日紀錄屬於哪個邏輯班次群組：
// 有 groupId 就用 groupId，否則退回舊資料的推導鍵。
func GroupKey(assignment *model.ShiftAssignment) string {
	if assignment.GroupID != nil && !assignment.GroupID.IsZero() {
		return assignment.GroupID.Hex()
	}
	return LegacyGroupKey(assignment)
}

// LegacyGroupKey 舊資料的群組推導鍵：同分鐘內、參數完全相同的紀錄視為
// 同一次歷史批次排班。兩筆真正獨立但恰好同分鐘同參數的排班會被合併，
// 這是既有資料的已接受行為。
func LegacyGroupKey(assignment *model.ShiftAssignment) string {
	return strings.Join([]string{
		assignment.ShiftName,
		assignment.StartTime,
		assignment.EndTime,
		assignment.Location,
		string(assignment.WorkType),
		assignment.AssignedBy.Hex(),
		assignment.CreatedAt.UTC().Format(legacyKeyMinuteLayout),
	}, "|")
}

// EmployeeIdentity 把「可能只有 id、也可能已 populate」的紀錄統一成
// (id, 姓名, email)；未 populate 時姓名與 email 為空字串。
func EmployeeIdentity(assignment *model.ShiftAssignment) (employeeID, employeeName, email string) {
	if assignment.Employee != nil {
		return assignment.Employee.ID.Hex(), assignment.Employee.FullName(), assignment.Employee.Email
	}
	return assignment.EmployeeID.Hex(), "", ""
}

type groupAccumulator struct {
	group     *dto.RotaGroup
	seen      map[string]bool // employee id → 已加入名單
	spanStart time.Time
	spanEnd   time.Time
}

// BuildRotaGroups 把攤平的單日紀錄重組為邏輯班次群組。
// 群組以鍵聚合，與輸入順序無關；唯二跟著輸入順序走的是
// assignedEmployees（員工首次出現順序）與 assignmentIds。
// 輸出依推導出的 startDate 遞增排序。純轉換，無副作用。
func BuildRotaGroups(assignments []*model.ShiftAssignment) []*dto.RotaGroup {
	accumulators := make(map[string]*groupAccumulator)
	var keys []string

	for _, assignment := range assignments {
		key := GroupKey(assignment)
		acc, exists := accumulators[key]
		if !exists {
			groupID := ""
			if assignment.GroupID != nil && !assignment.GroupID.IsZero() {
				groupID = assignment.GroupID.Hex()
			}
			acc = &groupAccumulator{
				group: &dto.RotaGroup{
					ID:         key,
					GroupID:    groupID,
					ShiftName:  assignment.ShiftName,
					StartTime:  assignment.StartTime,
					EndTime:    assignment.EndTime,
					Location:   assignment.Location,
					WorkType:   assignment.WorkType,
					AssignedBy: assignment.AssignedBy.Hex(),
				},
				seen: make(map[string]bool),
			}
			accumulators[key] = acc
			keys = append(keys, key)
		}

		acc.group.AssignmentIDs = append(acc.group.AssignmentIDs, assignment.ID.Hex())

		employeeID, employeeName, email := EmployeeIdentity(assignment)
		if !acc.seen[employeeID] {
			acc.seen[employeeID] = true
			acc.group.AssignedEmployees = append(acc.group.AssignedEmployees, dto.AssignedEmployeeDto{
				EmployeeID:   employeeID,
				EmployeeName: employeeName,
				Email:        email,
				StartTime:    assignment.StartTime,
				EndTime:      assignment.EndTime,
			})
		}

		// 群組跨度永遠反映實際存在的紀錄：以每筆的 date 為主，
		// 輔以該筆自帶的 startDate / endDate 當種子，取整體 min/max
		acc.extendSpan(assignment.Date)
		if assignment.StartDate != nil {
			acc.extendSpan(*assignment.StartDate)
		}
		if assignment.EndDate != nil {
			acc.extendSpan(*assignment.EndDate)
		}
	}

	groups := make([]*dto.RotaGroup, 0, len(keys))
	for _, key := range keys {
		acc := accumulators[key]
		if !acc.spanStart.IsZero() {
			acc.group.StartDate = acc.spanStart.Format(rotaDateLayout)
		}
		if !acc.spanEnd.IsZero() {
			acc.group.EndDate = acc.spanEnd.Format(rotaDateLayout)
		}
		groups = append(groups, acc.group)
	}

	// 主排序鍵是推導出的 startDate；同日以群組鍵決勝，
	// 讓同一批輸入不論先後順序都得到同一個輸出
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].StartDate != groups[j].StartDate {
			return groups[i].StartDate < groups[j].StartDate
		}
		return groups[i].ID < groups[j].ID
	})

	return groups
}

func (acc *groupAccumulator) extendSpan(day time.Time) {
	if day.IsZero() {
		return
	}
	if acc.spanStart.IsZero() || day.Before(acc.spanStart) {
		acc.spanStart = day
	}
	if acc.spanEnd.IsZero() || day.After(acc.spanEnd) {
		acc.spanEnd = day
	}
}
