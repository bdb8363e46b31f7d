package search

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	"github.com/smallbiznis/payables/internal/invoice/domain"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/smallbiznis/payables/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestBuildDetectsOnlyFullNumericTerms(t *testing.T) {
	cases := []struct {
		term    string
		numeric bool
	}{
		{"1500", true},
		{" 1500.50 ", true},
		{"-3", true},
		{"NF1500", false},
		{"1500abc", false},
		{"1.500,00", false},
		{"NaN", false},
		{"Inf", false},
		{"1e400", false},
		{"1e99999999", false},
		{"", false},
	}
	for _, tc := range cases {
		_, ok := Build(tc.term).Amount()
		assert.Equal(t, tc.numeric, ok, "term %q", tc.term)
	}
	amount, ok := Build("1.5e3").Amount()
	require.True(t, ok)
	assert.Equal(t, "1500", amount.String())

	assert.True(t, Build("   ").MatchAll())
	assert.False(t, Build("x").MatchAll())
}

func TestMatchesInMemory(t *testing.T) {
	supplier := &supplierdomain.Supplier{
		CompanyName: "DELL COMPUTADORES",
		CNPJs:       datatypes.JSONSlice[string]{"00.123.456/0001-00"},
	}
	invoice := domain.Invoice{
		Number:              "NF-2025-0042",
		PurchaseOrderNumber: "PO-77",
		ServiceDescription:  "Locação de notebooks",
		Amount:              decimal.RequireFromString("1500"),
	}

	assert.True(t, Build("").Matches(invoice, supplier))
	assert.True(t, Build("nf-2025").Matches(invoice, supplier))
	assert.True(t, Build("0042").Matches(invoice, supplier))
	assert.True(t, Build("po-77").Matches(invoice, supplier))
	assert.True(t, Build("dell").Matches(invoice, supplier))
	assert.True(t, Build("0001-00").Matches(invoice, supplier))
	assert.True(t, Build("1500").Matches(invoice, supplier), "numeric equality")
	assert.True(t, Build("1500.00").Matches(invoice, supplier), "numeric equality ignores scale")
	assert.False(t, Build("150").Matches(invoice, supplier))
	assert.False(t, Build("g7").Matches(invoice, nil))
}

func TestApplyAgainstDatabase(t *testing.T) {
	conn := testutil.NewDB(t, &branchdomain.Branch{}, &supplierdomain.Supplier{}, &domain.Invoice{})
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	branch := branchdomain.Branch{ID: 1, Code: "01", Name: "01 MATRIZ", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(&branch).Error)
	dell := supplierdomain.Supplier{
		ID: 10, CompanyName: "DELL COMPUTADORES",
		CNPJs:     datatypes.JSONSlice[string]{"00.123.456/0001-00"},
		Contracts: datatypes.JSONSlice[string]{}, CostCenters: datatypes.JSONSlice[string]{},
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, conn.Create(&dell).Error)

	rows := []domain.Invoice{
		{ID: 100, Number: "NF_100%", Amount: decimal.RequireFromString("1500")},
		{ID: 101, Number: "NF-101", Amount: decimal.RequireFromString("99.90"), RequestNumber: "SOL-1500"},
		{ID: 102, Number: "NFX101", Amount: decimal.RequireFromString("10")},
	}
	for i := range rows {
		rows[i].BranchID = branch.ID
		rows[i].SupplierID = dell.ID
		rows[i].Series = domain.DefaultSeries
		rows[i].DueDate = now
		rows[i].Status = domain.StatusPendingEntry
		rows[i].CreatedAt = now
		rows[i].UpdatedAt = now
		require.NoError(t, conn.Omit("Branch", "Supplier").Create(&rows[i]).Error)
	}

	find := func(term string) []snowflake.ID {
		var got []domain.Invoice
		require.NoError(t, conn.WithContext(ctx).
			Model(&domain.Invoice{}).
			Scopes(Build(term).Apply).
			Order("invoices.id desc").
			Find(&got).Error)
		ids := make([]snowflake.ID, 0, len(got))
		for _, inv := range got {
			ids = append(ids, inv.ID)
		}
		return ids
	}

	assert.Equal(t, []snowflake.ID{102, 101, 100}, find(""))
	assert.Equal(t, []snowflake.ID{101, 100}, find("1500"), "amount equality plus request number substring")
	assert.Equal(t, []snowflake.ID{100}, find("nf_"), "underscore is literal")
	assert.Equal(t, []snowflake.ID{100}, find("100%"), "percent is literal")
	assert.Equal(t, []snowflake.ID{101}, find("nf-101"))
	assert.Equal(t, []snowflake.ID{102, 101, 100}, find("dell"))
	assert.Equal(t, []snowflake.ID{102, 101, 100}, find("456/0001"))
	assert.Empty(t, find("g7"))
}

func TestApplyUsesILikeOnPostgres(t *testing.T) {
	conn, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=payables dbname=payables sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	query := conn.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var got []domain.Invoice
		return tx.Model(&domain.Invoice{}).Scopes(Build("LOCAÇÃO").Apply).Find(&got)
	})

	assert.Contains(t, query, `invoices.service_description ILIKE '%locação%'`)
	assert.Contains(t, query, "CAST(suppliers.cnpjs AS TEXT) ILIKE")
	assert.NotContains(t, query, "LOWER(")
}
