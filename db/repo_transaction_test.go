package db

import (
	"testing"
	"time"

	"tooltrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A borrow that has come back still counts toward the popularity ranking:
// completing a return flips the record's type to returned, so the ranking
// filters on status alone and completed stays in the ranked set.
func TestPopularityCountsReturnedBorrows(t *testing.T) {
	now := time.Now().UTC()
	tool := models.Tool{ID: 1, Status: models.StatusAvailable}
	tr := models.Transaction{ToolID: 1, Status: models.TxPending}

	require.True(t, tr.ApplyDecision(&tool, true, now, 48*time.Hour))
	assert.Contains(t, popularStatuses(), tr.Status)

	require.True(t, tr.ApplyReturn(&tool, now.Add(time.Hour), models.ConditionGood))
	assert.Equal(t, models.TypeReturned, tr.Type)
	assert.Contains(t, popularStatuses(), tr.Status)
}

func TestOpenStatuses(t *testing.T) {
	open := openStatuses()
	for _, s := range []models.TransactionStatus{models.TxPending, models.TxApproved, models.TxActive, models.TxOverdue} {
		assert.Contains(t, open, s)
	}
	assert.NotContains(t, open, models.TxCompleted)
	assert.NotContains(t, open, models.TxRejected)
}
