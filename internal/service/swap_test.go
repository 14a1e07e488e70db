package service

import (
	"context"
	"testing"

	"staffhub/internal/core"
	"staffhub/internal/dto"
	cErr "staffhub/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequestSwap_Succeeds(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	result, err := f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{
		RequestedWith: bob.ID.Hex(),
		Reason:        "dentist appointment",
	})
	require.NoError(t, err)

	require.NotNil(t, result.SwapRequest)
	assert.Equal(t, core.SwapPending, result.SwapRequest.Status)
	assert.Equal(t, alice.ID.Hex(), result.SwapRequest.RequestedBy)
	assert.Equal(t, bob.ID.Hex(), result.SwapRequest.RequestedWith)
	// 申請本身不改變班次歸屬
	assert.Equal(t, alice.ID.Hex(), result.EmployeeID)
	assert.Equal(t, core.AssignmentScheduled, result.Status)
	assert.Equal(t, "swap_request", f.audit.lastAction())
}

func TestRequestSwap_OnlyAssigneeMayRequest(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.swap.RequestSwap(context.Background(), bob.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: bob.ID.Hex()})
	requireAppError(t, err, 403, cErr.FORBIDDEN)
}

func TestRequestSwap_SinglePendingInvariant(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: bob.ID.Hex()})
	require.NoError(t, err)

	// Pending 期間不得再提
	_, err = f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: bob.ID.Hex()})
	requireAppError(t, err, 400, cErr.SWAP_STATE_ERROR)
}

func TestRequestSwap_RejectsBadCounterpart(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: alice.ID.Hex()})
	requireAppError(t, err, 400, cErr.SWAP_STATE_ERROR)

	_, err = f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: primitive.NewObjectID().Hex()})
	requireAppError(t, err, 404, cErr.NOT_FOUND)

	inactive := f.addEmployee(t, "Dev", "Patel", core.EmployeeSuspended)
	_, err = f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: inactive.ID.Hex()})
	requireAppError(t, err, 400, cErr.BAD_REQUEST_BODY)
}

func TestApproveSwap_ReassignsAssignment(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	reviewer := primitive.NewObjectID()
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: bob.ID.Hex()})
	require.NoError(t, err)
	bumpsBefore := f.cache.bumps

	result, err := f.swap.ApproveSwap(context.Background(), reviewer, seeded.ID)
	require.NoError(t, err)

	// 核准是唯一會改 employeeId 的路徑
	assert.Equal(t, bob.ID.Hex(), result.EmployeeID)
	assert.Equal(t, core.AssignmentSwapped, result.Status)
	require.NotNil(t, result.SwapRequest)
	assert.Equal(t, core.SwapApproved, result.SwapRequest.Status)
	assert.Equal(t, reviewer.Hex(), result.SwapRequest.ReviewedBy)
	assert.NotNil(t, result.SwapRequest.ReviewedAt)

	assert.Equal(t, bumpsBefore+1, f.cache.bumps)
	assert.Equal(t, "swap_approve", f.audit.lastAction())
}

func TestApproveSwap_CounterpartScheduleDoesNotGate(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)
	f.seedShift(t, bob.ID, "2024-05-01", "12:00", "20:00", core.AssignmentScheduled)

	_, err := f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: bob.ID.Hex()})
	require.NoError(t, err)

	// 核准的唯一前置條件是 Pending；接手者既有班表不影響核准
	result, err := f.swap.ApproveSwap(context.Background(), primitive.NewObjectID(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID.Hex(), result.EmployeeID)
	assert.Equal(t, core.AssignmentSwapped, result.Status)
}

func TestApproveSwap_MutualSwapSequence(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	reviewer := primitive.NewObjectID()

	aliceShift := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "13:00", core.AssignmentScheduled)
	bobShift := f.seedShift(t, bob.ID, "2024-05-01", "12:00", "17:00", core.AssignmentScheduled)

	_, err := f.swap.RequestSwap(context.Background(), alice.ID, aliceShift.ID, &dto.SwapRequestDto{RequestedWith: bob.ID.Hex()})
	require.NoError(t, err)
	_, err = f.swap.RequestSwap(context.Background(), bob.ID, bobShift.ID, &dto.SwapRequestDto{RequestedWith: alice.ID.Hex()})
	require.NoError(t, err)

	result, err := f.swap.ApproveSwap(context.Background(), reviewer, bobShift.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID.Hex(), result.EmployeeID)

	// 反向也核准，互換完成；Swapped 的舊紀錄不再佔行事曆
	final, err := f.swap.ApproveSwap(context.Background(), reviewer, aliceShift.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID.Hex(), final.EmployeeID)
	assert.Equal(t, core.AssignmentSwapped, final.Status)
}

func TestRejectSwap_KeepsAssignmentAndAllowsRetry(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	bob := f.addEmployee(t, "Bob", "Lin", core.EmployeeActive)
	carol := f.addEmployee(t, "Carol", "Chen", core.EmployeeActive)
	reviewer := primitive.NewObjectID()
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: bob.ID.Hex()})
	require.NoError(t, err)
	bumpsBefore := f.cache.bumps

	result, err := f.swap.RejectSwap(context.Background(), reviewer, seeded.ID)
	require.NoError(t, err)

	// 駁回：班次維持原指派原狀態
	assert.Equal(t, alice.ID.Hex(), result.EmployeeID)
	assert.Equal(t, core.AssignmentScheduled, result.Status)
	require.NotNil(t, result.SwapRequest)
	assert.Equal(t, core.SwapRejected, result.SwapRequest.Status)
	assert.Equal(t, bumpsBefore, f.cache.bumps)
	assert.Equal(t, "swap_reject", f.audit.lastAction())

	// 終局狀態後可重新申請
	retried, err := f.swap.RequestSwap(context.Background(), alice.ID, seeded.ID, &dto.SwapRequestDto{RequestedWith: carol.ID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, core.SwapPending, retried.SwapRequest.Status)
	assert.Equal(t, carol.ID.Hex(), retried.SwapRequest.RequestedWith)
}

func TestReviewWithoutPendingRequest(t *testing.T) {
	f := newRotaFixture(t)
	alice := f.addEmployee(t, "Alice", "Wong", core.EmployeeActive)
	reviewer := primitive.NewObjectID()
	seeded := f.seedShift(t, alice.ID, "2024-05-01", "09:00", "17:00", core.AssignmentScheduled)

	_, err := f.swap.ApproveSwap(context.Background(), reviewer, seeded.ID)
	requireAppError(t, err, 400, cErr.SWAP_STATE_ERROR)

	_, err = f.swap.RejectSwap(context.Background(), reviewer, seeded.ID)
	requireAppError(t, err, 400, cErr.SWAP_STATE_ERROR)

	_, err = f.swap.ApproveSwap(context.Background(), reviewer, primitive.NewObjectID())
	requireAppError(t, err, 404, cErr.NOT_FOUND)
}
