package notify

import (
	"encoding/json"
	"testing"
	"time"

	"tooltrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserChannelNaming(t *testing.T) {
	assert.Equal(t, "notify:user:jane@example.com", userChannel("jane@example.com"))
	// Channel addressing is case-insensitive on the email.
	assert.Equal(t, "notify:user:jane@example.com", userChannel("Jane@Example.COM"))
}

func TestNotificationPayloadShape(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	due := now.Add(48 * time.Hour)
	n := models.Notification{
		ToolName:   "Impact Driver",
		Message:    "Your requested tool Impact Driver is approved",
		Status:     "approved",
		BorrowDate: &now,
		DueDate:    &due,
		UserEmail:  "jane@example.com",
	}

	b, err := json.Marshal(n)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "Impact Driver", got["toolName"])
	assert.Equal(t, "approved", got["status"])
	assert.Equal(t, "jane@example.com", got["userEmail"])
	assert.Contains(t, got, "borrowDate")
	assert.Contains(t, got, "dueDate")
}
