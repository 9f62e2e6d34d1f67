package models

import "time"

// Employee is a member of the brewery roster.
// Shift rows and event assignments reference employees; they never own them.
type Employee struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Session is the authenticated caller as carried by the JWT.
type Session struct {
	EmployeeID int64     `json:"employee_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role"`
	Token      string    `json:"token,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}
