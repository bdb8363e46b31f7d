// Package domain contains core types for the auth service.
package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role grants a set of permissions through the authorization enforcer.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

var Roles = []Role{RoleAdmin, RoleAnalyst, RoleViewer}

func ParseRole(value string) (Role, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, role := range Roles {
		if string(role) == value {
			return role, true
		}
	}
	return "", false
}

// User represents a person allowed to use the service.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Username     string       `gorm:"type:varchar(100);not null;uniqueIndex:ux_users_username" json:"username"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null" json:"-"`
	FullName     string       `gorm:"column:full_name;type:varchar(255)" json:"full_name"`
	TaxID        string       `gorm:"column:tax_id;type:varchar(20)" json:"tax_id"`
	Department   string       `gorm:"type:varchar(100)" json:"department"`
	Role         Role         `gorm:"type:varchar(20);not null;default:viewer" json:"role"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
