package models

import (
	"fmt"
	"time"
)

const UserTable = "users"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
)

// ParseRole rejects anything outside the closed set at the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStaff, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EmployeeID string `gorm:"size:64;index" json:"employeeId,omitempty"`
	FirstName  string `gorm:"size:120;not null" json:"firstName"`
	LastName   string `gorm:"size:120;not null" json:"lastName"`
	Email      string `gorm:"size:255;uniqueIndex;not null" json:"email"`

	// Null for federated-login users, they never set a password here.
	PasswordHash *string `gorm:"size:120" json:"-"`
	IsFederated  bool    `gorm:"not null;default:false" json:"isFederated"`

	Role     Role   `gorm:"size:20;not null;default:'user'" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
	ImageURL string `gorm:"size:512" json:"imageUrl,omitempty"`

	LastSeenAt *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

func (u *User) FullName() string { return u.FirstName + " " + u.LastName }

// UserResponse is what auth endpoints hand back, never the password hash.
type UserResponse struct {
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) Response() UserResponse {
	return UserResponse{Email: u.Email, Role: u.Role, FirstName: u.FirstName, LastName: u.LastName}
}
