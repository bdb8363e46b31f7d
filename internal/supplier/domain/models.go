package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Supplier is a vendor that issues invoices. The CNPJ, contract and cost
// center lists are the values an invoice may pick from.
type Supplier struct {
	ID                        snowflake.ID                `gorm:"primaryKey" json:"id"`
	CompanyName               string                      `gorm:"type:varchar(255);not null;index" json:"company_name"`
	CNPJs                     datatypes.JSONSlice[string] `gorm:"column:cnpjs;not null" json:"cnpjs"`
	Contracts                 datatypes.JSONSlice[string] `gorm:"not null" json:"contracts"`
	CostCenters               datatypes.JSONSlice[string] `gorm:"not null" json:"cost_centers"`
	DefaultServiceDescription string                      `gorm:"type:text" json:"default_service_description"`
	DefaultServiceCode        string                      `gorm:"type:text" json:"default_service_code"`
	CreatedAt                 time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt                 time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Supplier) TableName() string { return "suppliers" }

// HasCNPJ reports whether cnpj is one of the supplier's registered tax ids.
func (s Supplier) HasCNPJ(cnpj string) bool {
	for _, known := range s.CNPJs {
		if strings.EqualFold(strings.TrimSpace(known), strings.TrimSpace(cnpj)) {
			return true
		}
	}
	return false
}

// StringList decodes either a JSON array of strings or a single
// semicolon-delimited string such as "00.123.456/0001-00; 11.222.333/0001-44".
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = Clean(items)
		return nil
	}
	var joined *string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	if joined == nil {
		*l = StringList{}
		return nil
	}
	*l = SplitList(*joined)
	return nil
}

// SplitList splits a semicolon-delimited list, dropping blank entries.
func SplitList(value string) StringList {
	return Clean(strings.Split(value, ";"))
}

// Clean trims every entry and drops blanks, keeping order.
func Clean(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
