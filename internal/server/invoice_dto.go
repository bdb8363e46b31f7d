package server

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
)

// flexID accepts an id sent as a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type invoiceRequest struct {
	BranchID            flexID          `json:"branch_id"`
	SupplierID          flexID          `json:"supplier_id"`
	Amount              decimal.Decimal `json:"amount"`
	Number              string          `json:"number"`
	Series              string          `json:"series"`
	DueDate             string          `json:"due_date"`
	SentAt              string          `json:"sent_at"`
	CNPJ                string          `json:"cnpj"`
	Contract            string          `json:"contract"`
	CostCenter          string          `json:"cost_center"`
	ServiceDescription  string          `json:"service_description"`
	ServiceCode         string          `json:"service_code"`
	MeasurementNumber   string          `json:"measurement_number"`
	PurchaseOrderNumber string          `json:"purchase_order_number"`
	RequestNumber       string          `json:"request_number"`
	Notes               string          `json:"notes"`
	InvoiceFile         string          `json:"invoice_file"`
	PaymentSlipFile     string          `json:"payment_slip_file"`
	Status              string          `json:"status"`
}

type createInvoiceRequest struct {
	invoiceRequest
	Repetitions int `json:"repetitions"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (r invoiceRequest) toInput() invoicedomain.InvoiceInput {
	return invoicedomain.InvoiceInput{
		BranchID:            string(r.BranchID),
		SupplierID:          string(r.SupplierID),
		Amount:              r.Amount,
		Number:              r.Number,
		Series:              r.Series,
		DueDate:             r.DueDate,
		SentAt:              r.SentAt,
		CNPJ:                r.CNPJ,
		Contract:            r.Contract,
		CostCenter:          r.CostCenter,
		ServiceDescription:  r.ServiceDescription,
		ServiceCode:         r.ServiceCode,
		MeasurementNumber:   r.MeasurementNumber,
		PurchaseOrderNumber: r.PurchaseOrderNumber,
		RequestNumber:       r.RequestNumber,
		Notes:               r.Notes,
		InvoiceFile:         r.InvoiceFile,
		PaymentSlipFile:     r.PaymentSlipFile,
		Status:              r.Status,
	}
}

// invoiceResponse is the wire shape of an invoice. Calendar dates are
// YYYY-MM-DD.
type invoiceResponse struct {
	ID                  snowflake.ID       `json:"id"`
	BranchID            snowflake.ID       `json:"branch_id"`
	SupplierID          snowflake.ID       `json:"supplier_id"`
	SupplierName        string             `json:"supplier_name,omitempty"`
	Amount              decimal.Decimal    `json:"amount"`
	Number              string             `json:"number"`
	Series              string             `json:"series"`
	DueDate             string             `json:"due_date"`
	SentAt              *string            `json:"sent_at"`
	CNPJ                string             `json:"cnpj"`
	Contract            string             `json:"contract"`
	CostCenter          string             `json:"cost_center"`
	ServiceDescription  string             `json:"service_description"`
	ServiceCode         string             `json:"service_code"`
	MeasurementNumber   string             `json:"measurement_number"`
	PurchaseOrderNumber string             `json:"purchase_order_number"`
	RequestNumber       string             `json:"request_number"`
	Notes               string             `json:"notes"`
	InvoiceFile         *string            `json:"invoice_file"`
	PaymentSlipFile     *string            `json:"payment_slip_file"`
	Status              string             `json:"status"`
	StatusCode          string             `json:"status_code"`
	DaysUntilDue        *int               `json:"days_until_due,omitempty"`
	Urgency             invoicedomain.Tier `json:"urgency,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type supplierGroupResponse struct {
	Supplier supplierdomain.Supplier `json:"supplier"`
	Invoices []invoiceResponse       `json:"invoices"`
	Total    decimal.Decimal         `json:"total"`
}

type groupedResponse struct {
	Groups   []supplierGroupResponse `json:"groups"`
	Invoices []invoiceResponse       `json:"invoices"`
	Total    decimal.Decimal         `json:"total"`
}

func fromInvoice(inv invoicedomain.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:                  inv.ID,
		BranchID:            inv.BranchID,
		SupplierID:          inv.SupplierID,
		SupplierName:        inv.SupplierCompanyName(),
		Amount:              inv.Amount,
		Number:              inv.Number,
		Series:              inv.Series,
		DueDate:             inv.DueDate.Format(dateOnlyLayout),
		CNPJ:                inv.CNPJ,
		Contract:            inv.Contract,
		CostCenter:          inv.CostCenter,
		ServiceDescription:  inv.ServiceDescription,
		ServiceCode:         inv.ServiceCode,
		MeasurementNumber:   inv.MeasurementNumber,
		PurchaseOrderNumber: inv.PurchaseOrderNumber,
		RequestNumber:       inv.RequestNumber,
		Notes:               inv.Notes,
		InvoiceFile:         inv.InvoiceFile,
		PaymentSlipFile:     inv.PaymentSlipFile,
		Status:              string(inv.Status),
		StatusCode:          inv.Status.Code(),
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	if inv.SentAt != nil {
		sent := inv.SentAt.Format(dateOnlyLayout)
		resp.SentAt = &sent
	}
	return resp
}

func fromView(view invoicedomain.InvoiceView) invoiceResponse {
	resp := fromInvoice(view.Invoice)
	if view.SupplierName != "" {
		resp.SupplierName = view.SupplierName
	}
	days := view.DaysUntilDue
	resp.DaysUntilDue = &days
	resp.Urgency = view.Urgency
	return resp
}

func fromViews(views []invoicedomain.InvoiceView) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(views))
	for _, view := range views {
		out = append(out, fromView(view))
	}
	return out
}

func fromGrouped(grouped invoicedomain.GroupedResponse) groupedResponse {
	resp := groupedResponse{
		Groups:   make([]supplierGroupResponse, 0, len(grouped.Groups)),
		Invoices: fromViews(grouped.Invoices),
		Total:    decimal.Zero,
	}
	for _, group := range grouped.Groups {
		resp.Groups = append(resp.Groups, supplierGroupResponse{
			Supplier: group.Supplier,
			Invoices: fromViews(group.Invoices),
			Total:    group.Total,
		})
		resp.Total = resp.Total.Add(group.Total)
	}
	return resp
}
