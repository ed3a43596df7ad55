package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, ok := range []string{"admin", "staff", "user"} {
		role, err := ParseRole(ok)
		assert.NoError(t, err)
		assert.Equal(t, Role(ok), role)
	}
	for _, bad := range []string{"", "Admin", "superuser", "USER"} {
		_, err := ParseRole(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseToolStatus(t *testing.T) {
	for _, ok := range []string{"AVAILABLE", "BORROWED", "MAINTENANCE", "RETIRED"} {
		_, err := ParseToolStatus(ok)
		assert.NoError(t, err)
	}
	_, err := ParseToolStatus("available")
	assert.Error(t, err)
}

func TestParseCondition(t *testing.T) {
	for _, ok := range []string{"NEW", "GOOD", "FAIR", "WORN", "DAMAGED", "BROKEN"} {
		_, err := ParseCondition(ok)
		assert.NoError(t, err)
	}
	_, err := ParseCondition("mint")
	assert.Error(t, err)
}

func TestTransactionStatusGuards(t *testing.T) {
	assert.True(t, TxPending.Decidable())
	for _, s := range []TransactionStatus{TxApproved, TxActive, TxCompleted, TxOverdue, TxRejected} {
		assert.False(t, s.Decidable(), string(s))
	}

	for _, s := range []TransactionStatus{TxApproved, TxActive, TxOverdue} {
		assert.True(t, s.Returnable(), string(s))
	}
	for _, s := range []TransactionStatus{TxPending, TxCompleted, TxRejected} {
		assert.False(t, s.Returnable(), string(s))
	}

	assert.True(t, TxCompleted.Terminal())
	assert.True(t, TxRejected.Terminal())
	assert.False(t, TxApproved.Terminal())
}

func TestToolStatusDeletable(t *testing.T) {
	assert.False(t, StatusBorrowed.Deletable())
	for _, s := range []ToolStatus{StatusAvailable, StatusMaintenance, StatusRetired} {
		assert.True(t, s.Deletable(), string(s))
	}
}

func TestNewBorrowRequest(t *testing.T) {
	now := time.Now().UTC()
	tool := Tool{ID: 3, Status: StatusAvailable, Condition: ConditionGood}

	tr, ok := NewBorrowRequest(&tool, 7, "site work", now)
	require.True(t, ok)
	assert.Equal(t, TxPending, tr.Status)
	assert.Equal(t, uint(3), tr.ToolID)
	assert.Equal(t, uint(7), tr.UserID)
	assert.Equal(t, ConditionGood, tr.ConditionBefore)
	require.NotNil(t, tr.BorrowDate)
	assert.Equal(t, now, *tr.BorrowDate)

	for _, s := range []ToolStatus{StatusBorrowed, StatusMaintenance, StatusRetired} {
		tool.Status = s
		_, ok := NewBorrowRequest(&tool, 7, "", now)
		assert.False(t, ok, string(s))
	}
}

func TestApplyDecisionApprove(t *testing.T) {
	now := time.Now().UTC()
	tool := Tool{ID: 3, Status: StatusAvailable}
	tr := Transaction{ToolID: 3, Status: TxPending}

	require.True(t, tr.ApplyDecision(&tool, true, now, 48*time.Hour))
	assert.Equal(t, TxApproved, tr.Status)
	assert.Equal(t, TypeBorrow, tr.Type)
	require.NotNil(t, tr.DueDate)
	assert.Equal(t, now.Add(48*time.Hour), *tr.DueDate)
	assert.Equal(t, StatusBorrowed, tool.Status)

	// One-shot: a second decision changes nothing.
	assert.False(t, tr.ApplyDecision(&tool, false, now, 48*time.Hour))
	assert.Equal(t, TxApproved, tr.Status)
}

func TestApplyDecisionReject(t *testing.T) {
	tool := Tool{Status: StatusAvailable}
	tr := Transaction{Status: TxPending}

	require.True(t, tr.ApplyDecision(&tool, false, time.Now(), time.Hour))
	assert.Equal(t, TxRejected, tr.Status)
	assert.Nil(t, tr.DueDate)
	assert.Equal(t, StatusAvailable, tool.Status)
}

func TestApplyReturn(t *testing.T) {
	now := time.Now().UTC()
	tool := Tool{Status: StatusBorrowed, Condition: ConditionGood}
	tr := Transaction{Status: TxApproved}

	require.True(t, tr.ApplyReturn(&tool, now, ConditionWorn))
	assert.Equal(t, TxCompleted, tr.Status)
	assert.Equal(t, TypeReturned, tr.Type)
	require.NotNil(t, tr.ReturnDate)
	assert.Equal(t, now, *tr.ReturnDate)
	assert.Equal(t, ConditionWorn, tr.ConditionAfter)
	assert.Equal(t, StatusAvailable, tool.Status)
	assert.Equal(t, ConditionWorn, tool.Condition)

	// Already completed; nothing left to apply.
	assert.False(t, tr.ApplyReturn(&tool, now, ""))
}

func TestApplyReturnGuards(t *testing.T) {
	for _, s := range []TransactionStatus{TxPending, TxRejected, TxCompleted} {
		tool := Tool{Status: StatusBorrowed}
		tr := Transaction{Status: s}
		assert.False(t, tr.ApplyReturn(&tool, time.Now(), ""), string(s))
	}
}

func TestUserFullName(t *testing.T) {
	u := User{FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", u.FullName())
}

func TestUserResponseHidesHash(t *testing.T) {
	hash := "secret-hash"
	u := User{FirstName: "A", LastName: "B", Email: "a@b.c", Role: RoleAdmin, PasswordHash: &hash}
	resp := u.Response()
	assert.Equal(t, "a@b.c", resp.Email)
	assert.Equal(t, RoleAdmin, resp.Role)
}
