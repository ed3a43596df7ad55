package models

import (
	"fmt"
	"time"
)

const (
	TransactionTable = "tool_transactions"
	ReturnImageTable = "return_transaction_images"
)

type TransactionType string

const (
	TypeBorrow   TransactionType = "borrow"
	TypeReturned TransactionType = "returned"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxApproved  TransactionStatus = "approved"
	TxActive    TransactionStatus = "active"
	TxCompleted TransactionStatus = "completed"
	TxOverdue   TransactionStatus = "overdue"
	TxRejected  TransactionStatus = "rejected"
)

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch TransactionStatus(s) {
	case TxPending, TxApproved, TxActive, TxCompleted, TxOverdue, TxRejected:
		return TransactionStatus(s), nil
	}
	return "", fmt.Errorf("unknown transaction status %q", s)
}

// Decidable reports whether an approval decision may still be applied.
// A transaction is decided exactly once; re-deciding is a conflict.
func (s TransactionStatus) Decidable() bool { return s == TxPending }

// Returnable reports whether the borrow can still be closed out.
func (s TransactionStatus) Returnable() bool { return s == TxApproved || s == TxActive || s == TxOverdue }

// Terminal statuses never change again.
func (s TransactionStatus) Terminal() bool { return s == TxCompleted || s == TxRejected }

type Transaction struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ToolID uint `gorm:"index;not null" json:"toolId"`
	UserID uint `gorm:"index;not null" json:"userId"`

	Type   TransactionType `gorm:"size:20" json:"transactionType,omitempty"`
	Reason string          `gorm:"size:512" json:"reason,omitempty"`

	ConditionBefore ToolCondition `gorm:"size:20" json:"conditionBefore,omitempty"`
	ConditionAfter  ToolCondition `gorm:"size:20" json:"conditionAfter,omitempty"`

	BorrowDate *time.Time `gorm:"index" json:"borrowDate,omitempty"`
	DueDate    *time.Time `gorm:"index" json:"dueDate,omitempty"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`

	Status TransactionStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }

// NewBorrowRequest opens a pending transaction for the tool. The tool must be
// available; the one-open-request-per-tool check stays with the store.
func NewBorrowRequest(tool *Tool, userID uint, reason string, now time.Time) (*Transaction, bool) {
	if tool.Status != StatusAvailable {
		return nil, false
	}
	return &Transaction{
		ToolID:          tool.ID,
		UserID:          userID,
		Reason:          reason,
		ConditionBefore: tool.Condition,
		BorrowDate:      &now,
		Status:          TxPending,
	}, true
}

// ApplyDecision applies the one-shot approval outcome to the transaction and
// its tool. Reports false when the transaction has already been decided.
func (t *Transaction) ApplyDecision(tool *Tool, approved bool, now time.Time, borrowPeriod time.Duration) bool {
	if !t.Status.Decidable() {
		return false
	}
	if !approved {
		t.Status = TxRejected
		return true
	}
	due := now.Add(borrowPeriod)
	t.DueDate = &due
	t.Type = TypeBorrow
	t.Status = TxApproved
	tool.Status = StatusBorrowed
	return true
}

// ApplyReturn closes out the borrow and puts the tool back in circulation.
// Reports false when the transaction cannot be returned.
func (t *Transaction) ApplyReturn(tool *Tool, now time.Time, after ToolCondition) bool {
	if !t.Status.Returnable() {
		return false
	}
	t.ReturnDate = &now
	t.Type = TypeReturned
	t.Status = TxCompleted
	if after != "" {
		t.ConditionAfter = after
		tool.Condition = after
	}
	tool.Status = StatusAvailable
	return true
}

// ReturnImage records the photo taken when a tool comes back.
type ReturnImage struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID uint      `gorm:"index;not null" json:"transactionId"`
	UserID        uint      `gorm:"index;not null" json:"userId"`
	ImageURL      string    `gorm:"size:512;not null" json:"imageUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (ReturnImage) TableName() string { return ReturnImageTable }
