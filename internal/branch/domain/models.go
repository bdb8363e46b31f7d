package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Branch is an office that owes invoices.
type Branch struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"type:varchar(20);not null;uniqueIndex:ux_branches_code" json:"code"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

func (Branch) TableName() string { return "branches" }
