package models

import "time"

// Notification is the ephemeral payload pushed to a borrower over the
// notification channel. It is never persisted.
type Notification struct {
	ToolName   string     `json:"toolName"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	BorrowDate *time.Time `json:"borrowDate,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	UserEmail  string     `json:"userEmail"`
}
