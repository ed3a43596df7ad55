package db

import (
	"context"
	"strings"
	"time"

	"tooltrack/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionRow is the joined view the transaction endpoints return: the
// transaction plus the borrower and tool fields the frontend lists.
type TransactionRow struct {
	ID        uint   `json:"transactionId"`
	UserID    uint   `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	ToolID    uint   `json:"toolId"`
	ToolName  string `json:"toolName"`

	BorrowDate *time.Time `json:"borrowDate,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`

	Type    models.TransactionType   `json:"transactionType,omitempty"`
	Status  models.TransactionStatus `json:"status"`
	Overdue bool                     `json:"overdue"`
}

const txRowSelect = `
	t.id, t.user_id, u.first_name, u.last_name, u.email,
	t.tool_id, COALESCE(ti.name, '') AS tool_name,
	t.borrow_date, t.due_date, t.return_date,
	t.type, t.status,
	CASE WHEN t.due_date IS NOT NULL AND t.return_date IS NULL AND t.due_date < NOW()
	     THEN TRUE ELSE FALSE END AS overdue`

// The tool join is outer: history survives a tool leaving the inventory, with
// an empty tool name instead of a vanished row.
func (r *Repo) txRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.TransactionTable+" t").
		Select(txRowSelect).
		Joins("JOIN " + models.UserTable + " u ON u.id = t.user_id").
		Joins("LEFT JOIN " + models.ToolTable + " ti ON ti.id = t.tool_id")
}

// CreateBorrowRequest opens a pending transaction for (tool, user). The tool
// row is locked for the duration: the tool must be AVAILABLE and must not
// already have an open request. The partial unique index backs this up under
// concurrent writers.
func (r *Repo) CreateBorrowRequest(ctx context.Context, toolID uint, email, reason string) (*models.Transaction, error) {
	var created *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error; err != nil {
			return notFound(err)
		}

		var t models.Tool
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", toolID).Error; err != nil {
			return notFound(err)
		}

		tr, ok := models.NewBorrowRequest(&t, u.ID, reason, time.Now().UTC())
		if !ok {
			return ErrConflict
		}

		var open int64
		if err := tx.Model(&models.Transaction{}).
			Where("tool_id = ? AND status IN ?", toolID, openStatuses()).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrConflict
		}

		created = tr
		return tx.Create(created).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DecisionResult carries everything the caller needs to build the borrower's
// notification after the decision has committed.
type DecisionResult struct {
	Transaction *models.Transaction
	ToolName    string
	UserEmail   string
}

// Decide applies the one-shot approval decision. Only a pending transaction
// may be decided; anything else is a conflict, so re-approving never
// recomputes due dates or re-sends notifications. Approval flips the tool to
// BORROWED in the same database transaction.
func (r *Repo) Decide(ctx context.Context, txID uint, approved bool, borrowPeriod time.Duration) (*DecisionResult, error) {
	var res DecisionResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tr models.Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tr, "id = ?", txID).Error; err != nil {
			return notFound(err)
		}

		var t models.Tool
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", tr.ToolID).Error; err != nil {
			return notFound(err)
		}
		var u models.User
		if err := tx.First(&u, "id = ?", tr.UserID).Error; err != nil {
			return notFound(err)
		}

		if !tr.ApplyDecision(&t, approved, time.Now().UTC(), borrowPeriod) {
			return ErrConflict
		}
		if approved {
			if err := tx.Model(&models.Tool{}).
				Where("id = ?", t.ID).
				Update("status", t.Status).Error; err != nil {
				return err
			}
		}
		if err := tx.Save(&tr).Error; err != nil {
			return err
		}

		res = DecisionResult{Transaction: &tr, ToolName: t.Name, UserEmail: u.Email}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CompleteReturn closes out a borrow: records the return image, stamps the
// return date and after-condition, marks the transaction completed and frees
// the tool. Idempotent: returning an already-completed transaction is a no-op
// that hands back the existing record.
func (r *Repo) CompleteReturn(ctx context.Context, txID, userID uint, imageURL string, after models.ToolCondition) (*models.Transaction, error) {
	var tr models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&tr, "id = ?", txID).Error; err != nil {
			return notFound(err)
		}
		if tr.Status == models.TxCompleted {
			return nil
		}

		var t models.Tool
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, "id = ?", tr.ToolID).Error; err != nil {
			return notFound(err)
		}

		if !tr.ApplyReturn(&t, time.Now().UTC(), after) {
			return ErrConflict
		}
		if err := tx.Save(&tr).Error; err != nil {
			return err
		}

		if imageURL != "" {
			img := models.ReturnImage{TransactionID: tr.ID, UserID: userID, ImageURL: imageURL}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Tool{}).
			Where("id = ?", t.ID).
			Updates(map[string]any{"status": t.Status, "condition": t.Condition}).Error
	})
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func openStatuses() []models.TransactionStatus {
	return []models.TransactionStatus{models.TxPending, models.TxApproved, models.TxActive, models.TxOverdue}
}

func (r *Repo) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := r.txRows(ctx).Order("t.created_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *Repo) ListTransactionsByStatus(ctx context.Context, statuses ...models.TransactionStatus) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := r.txRows(ctx).
		Where("t.status IN ?", statuses).
		Order("t.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) ListTransactionsByEmail(ctx context.Context, email string) ([]TransactionRow, error) {
	var rows []TransactionRow
	err := r.txRows(ctx).
		Where("LOWER(u.email) = ?", strings.ToLower(email)).
		Order("t.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) FindTransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tr models.Transaction
	if err := r.DB.WithContext(ctx).First(&tr, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &tr, nil
}

// BorrowDates returns the borrow timestamps after the cutoff; a zero cutoff
// means all of them. Callers bucket these into month histograms.
func (r *Repo) BorrowDates(ctx context.Context, since time.Time) ([]time.Time, error) {
	q := r.DB.WithContext(ctx).Model(&models.Transaction{}).
		Where("borrow_date IS NOT NULL")
	if !since.IsZero() {
		q = q.Where("borrow_date >= ?", since)
	}
	var dates []time.Time
	err := q.Pluck("borrow_date", &dates).Error
	return dates, err
}

// ToolBorrowCount is one row of the popularity ranking.
type ToolBorrowCount struct {
	ToolName string `json:"toolName"`
	Borrows  int64  `json:"borrows"`
}

// popularStatuses are the borrows that count toward the ranking: everything
// that got past approval. Status alone drives the filter; a completed borrow's
// type flips to returned, so type is no basis for counting.
func popularStatuses() []models.TransactionStatus {
	return []models.TransactionStatus{models.TxApproved, models.TxActive, models.TxCompleted, models.TxOverdue}
}

// PopularTools counts approved borrows per tool, most borrowed first.
func (r *Repo) PopularTools(ctx context.Context, limit int) ([]ToolBorrowCount, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []ToolBorrowCount
	err := r.DB.WithContext(ctx).
		Table(models.TransactionTable+" t").
		Select("ti.name AS tool_name, COUNT(*) AS borrows").
		Joins("JOIN "+models.ToolTable+" ti ON ti.id = t.tool_id").
		Where("t.status IN ?", popularStatuses()).
		Group("ti.name").
		Order("borrows DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
