// Package domain contains the invoice model and the contracts around it.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
)

// DefaultSeries is used when an invoice is entered without a series.
const DefaultSeries = "U"

// Invoice is a payable owed by a branch to a supplier. DueDate and SentAt are
// calendar dates stored as midnight UTC.
type Invoice struct {
	ID                  snowflake.ID    `gorm:"primaryKey" json:"id"`
	BranchID            snowflake.ID    `gorm:"not null;index" json:"branch_id"`
	SupplierID          snowflake.ID    `gorm:"not null;index" json:"supplier_id"`
	Amount              decimal.Decimal `gorm:"type:numeric(15,2);not null" json:"amount"`
	Number              string          `gorm:"type:varchar(100);not null;index" json:"number"`
	Series              string          `gorm:"type:varchar(10);not null;default:'U'" json:"series"`
	DueDate             time.Time       `gorm:"not null;index" json:"due_date"`
	SentAt              *time.Time      `json:"sent_at"`
	CNPJ                string          `gorm:"column:cnpj;type:text" json:"cnpj"`
	Contract            string          `gorm:"type:text" json:"contract"`
	CostCenter          string          `gorm:"type:text" json:"cost_center"`
	ServiceDescription  string          `gorm:"type:text" json:"service_description"`
	ServiceCode         string          `gorm:"type:text" json:"service_code"`
	MeasurementNumber   string          `gorm:"type:text" json:"measurement_number"`
	PurchaseOrderNumber string          `gorm:"type:text" json:"purchase_order_number"`
	RequestNumber       string          `gorm:"type:text" json:"request_number"`
	Notes               string          `gorm:"type:text" json:"notes"`
	InvoiceFile         *string         `gorm:"type:text" json:"invoice_file"`
	PaymentSlipFile     *string         `gorm:"type:text" json:"payment_slip_file"`
	Status              Status          `gorm:"type:varchar(32);not null;index" json:"status"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`

	Branch   *branchdomain.Branch     `gorm:"foreignKey:BranchID;constraint:OnDelete:RESTRICT" json:"branch,omitempty"`
	Supplier *supplierdomain.Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"supplier,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// SupplierCompanyName returns the loaded supplier's company name, if any.
func (i Invoice) SupplierCompanyName() string {
	if i.Supplier == nil {
		return ""
	}
	return i.Supplier.CompanyName
}

// Tier ranks an invoice by how close it is to its due date.
type Tier string

const (
	TierCompleted Tier = "COMPLETED"
	TierOverdue   Tier = "OVERDUE"
	TierDueToday  Tier = "DUE_TODAY"
	TierCritical  Tier = "CRITICAL"
	TierUpcoming  Tier = "UPCOMING"
	TierNormal    Tier = "NORMAL"
)

// Tiers lists every tier from most to least urgent.
var Tiers = []Tier{TierOverdue, TierDueToday, TierCritical, TierUpcoming, TierNormal, TierCompleted}
