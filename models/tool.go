package models

import (
	"fmt"
	"time"
)

const (
	ToolTable     = "tool_items"
	CategoryTable = "tool_categories"
)

type ToolCondition string

const (
	ConditionNew     ToolCondition = "NEW"
	ConditionGood    ToolCondition = "GOOD"
	ConditionFair    ToolCondition = "FAIR"
	ConditionWorn    ToolCondition = "WORN"
	ConditionDamaged ToolCondition = "DAMAGED"
	ConditionBroken  ToolCondition = "BROKEN"
)

func ParseCondition(s string) (ToolCondition, error) {
	switch ToolCondition(s) {
	case ConditionNew, ConditionGood, ConditionFair, ConditionWorn, ConditionDamaged, ConditionBroken:
		return ToolCondition(s), nil
	}
	return "", fmt.Errorf("unknown tool condition %q", s)
}

type ToolStatus string

const (
	StatusAvailable   ToolStatus = "AVAILABLE"
	StatusBorrowed    ToolStatus = "BORROWED"
	StatusMaintenance ToolStatus = "MAINTENANCE"
	StatusRetired     ToolStatus = "RETIRED"
)

// Deletable reports whether a tool in this status may leave the inventory.
// A tool that is out with a borrower has to come back first.
func (s ToolStatus) Deletable() bool { return s != StatusBorrowed }

func ParseToolStatus(s string) (ToolStatus, error) {
	switch ToolStatus(s) {
	case StatusAvailable, StatusBorrowed, StatusMaintenance, StatusRetired:
		return ToolStatus(s), nil
	}
	return "", fmt.Errorf("unknown tool status %q", s)
}

type ToolCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ToolCategory) TableName() string { return CategoryTable }

// Tool references its category by id only; the category's tool list is a
// query, not a stored back-pointer.
type Tool struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	CategoryID  *uint         `gorm:"index" json:"categoryId,omitempty"`
	Name        string        `gorm:"size:200;not null" json:"name"`
	SerialNo    string        `gorm:"size:120;index" json:"serialNumber,omitempty"`
	Condition   ToolCondition `gorm:"size:20;not null;default:'NEW'" json:"condition"`
	Status      ToolStatus    `gorm:"size:20;not null;default:'AVAILABLE'" json:"status"`
	Location    string        `gorm:"size:255" json:"location,omitempty"`
	Description string        `gorm:"size:1024" json:"description,omitempty"`

	DateAcquired *time.Time `json:"dateAcquired,omitempty"`

	// Object names are kept alongside URLs so delete can address the blobs.
	ImageURL  string `gorm:"size:512" json:"imageUrl,omitempty"`
	ImageName string `gorm:"size:255" json:"imageName,omitempty"`
	QRURL     string `gorm:"size:512" json:"qrCodeUrl,omitempty"`
	QRName    string `gorm:"size:255" json:"qrCodeName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tool) TableName() string { return ToolTable }
