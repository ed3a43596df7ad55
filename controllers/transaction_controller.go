package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"tooltrack/app"
	"tooltrack/db"
	"tooltrack/models"

	"github.com/gin-gonic/gin"
)

type TransactionController struct{ *Srv }

func GetTransactionController(s *Srv) *TransactionController {
	return &TransactionController{Srv: s}
}

// POST /transaction/addTransaction
func (tc *TransactionController) AddTransaction(c *gin.Context) {
	var in struct {
		ToolID uint   `json:"toolId" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
		Reason string `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	tr, err := tc.Repo.CreateBorrowRequest(c.Request.Context(), in.ToolID, in.Email, in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"transaction": tr})
}

// PUT /transaction/approval/validate
func (tc *TransactionController) Validate(c *gin.Context) {
	var in struct {
		TransactionID  uint  `json:"transactionId" binding:"required"`
		ApprovalStatus *bool `json:"approvalStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	res, err := tc.Repo.Decide(c.Request.Context(), in.TransactionID, *in.ApprovalStatus, tc.Cfg.BorrowPeriod)
	if err != nil {
		fail(c, err)
		return
	}

	// Notify after the decision has committed. Fire and forget.
	tr := res.Transaction
	msg := "Your requested tool " + res.ToolName + " is approved"
	if tr.Status == models.TxRejected {
		msg = "Your requested tool " + res.ToolName + " is declined"
	}
	if err := tc.Notifier.Send(c.Request.Context(), res.UserEmail, models.Notification{
		ToolName:   res.ToolName,
		Message:    msg,
		Status:     string(tr.Status),
		BorrowDate: tr.BorrowDate,
		DueDate:    tr.DueDate,
	}); err != nil {
		log.Printf("transaction %d: notification: %v", tr.ID, err)
	}

	c.JSON(http.StatusOK, app.H{"transaction": tr})
}

// GET /transaction/getAllTransactions
func (tc *TransactionController) ListAll(c *gin.Context) {
	tc.respondRows(c, func(ctx context.Context) ([]db.TransactionRow, error) {
		return tc.Repo.ListTransactions(ctx)
	})
}

// GET /transaction/getAllPendings
func (tc *TransactionController) ListPending(c *gin.Context) {
	tc.respondRows(c, func(ctx context.Context) ([]db.TransactionRow, error) {
		return tc.Repo.ListTransactionsByStatus(ctx, models.TxPending)
	})
}

// GET /transaction/getAllProcessed
func (tc *TransactionController) ListProcessed(c *gin.Context) {
	tc.respondRows(c, func(ctx context.Context) ([]db.TransactionRow, error) {
		return tc.Repo.ListTransactionsByStatus(ctx,
			models.TxApproved, models.TxActive, models.TxCompleted, models.TxOverdue, models.TxRejected)
	})
}

// GET /transaction/getAllBorrowed
func (tc *TransactionController) ListBorrowed(c *gin.Context) {
	tc.respondRows(c, func(ctx context.Context) ([]db.TransactionRow, error) {
		return tc.Repo.ListTransactionsByStatus(ctx,
			models.TxApproved, models.TxActive, models.TxOverdue)
	})
}

// GET /transaction/getTransactions/:email
func (tc *TransactionController) ListByEmail(c *gin.Context) {
	email := c.Param("email")
	tc.respondRows(c, func(ctx context.Context) ([]db.TransactionRow, error) {
		return tc.Repo.ListTransactionsByEmail(ctx, email)
	})
}

func (tc *TransactionController) respondRows(c *gin.Context, load func(context.Context) ([]db.TransactionRow, error)) {
	rows, err := load(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, app.H{"message": "no transactions found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"transactions": rows})
}

// GET /transaction/getAllPopularTool
func (tc *TransactionController) PopularTools(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	rows, err := tc.Repo.PopularTools(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"popularTool": rows})
}

// GET /transaction/getSortedDates/:sortedBy
// sortedBy is one of Alltime, Last6months, Lastyear. Returns borrow counts
// bucketed by month name.
func (tc *TransactionController) SortedDates(c *gin.Context) {
	var since time.Time
	now := time.Now().UTC()
	switch c.Param("sortedBy") {
	case "Alltime":
		// zero cutoff: everything
	case "Last6months":
		since = now.AddDate(0, -6, 0)
	case "Lastyear":
		since = time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		c.JSON(http.StatusBadRequest, app.H{"error": "sortedBy must be Alltime, Last6months or Lastyear"})
		return
	}

	dates, err := tc.Repo.BorrowDates(c.Request.Context(), since)
	if err != nil {
		fail(c, err)
		return
	}
	if len(dates) == 0 {
		c.JSON(http.StatusNotFound, app.H{"message": "no transactions found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"timestamps": CountByMonth(dates)})
}

// CountByMonth buckets timestamps into month-name counts.
func CountByMonth(dates []time.Time) map[string]int {
	counts := make(map[string]int, 12)
	for _, d := range dates {
		counts[d.Month().String()]++
	}
	return counts
}
