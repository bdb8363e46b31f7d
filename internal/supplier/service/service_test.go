package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/smallbiznis/payables/internal/clock"
	"github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/smallbiznis/payables/internal/supplier/repository"
	"github.com/smallbiznis/payables/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func setupSupplierService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	conn := testutil.NewDB(t, &domain.Supplier{})
	require.NoError(t, conn.Exec(`CREATE TABLE invoices (
		id INTEGER PRIMARY KEY,
		supplier_id INTEGER NOT NULL REFERENCES suppliers(id)
	)`).Error)

	svc := New(Params{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		GenID: testutil.NewNode(t),
		Clock: clock.NewFakeClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func TestStringListAcceptsArrayOrDelimitedString(t *testing.T) {
	var req domain.SupplierRequest
	body := `{
		"company_name": "DELL COMPUTADORES",
		"cnpjs": "00.123.456/0001-00; 11.222.333/0001-44;",
		"contracts": ["CTR-DELL-2025", " "],
		"cost_centers": null
	}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, domain.StringList{"00.123.456/0001-00", "11.222.333/0001-44"}, req.CNPJs)
	assert.Equal(t, domain.StringList{"CTR-DELL-2025"}, req.Contracts)
	assert.Empty(t, req.CostCenters)
}

func TestCreateRoundTripsLists(t *testing.T) {
	svc, _ := setupSupplierService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.SupplierRequest{
		CompanyName:               " G7 TECNOLOGIA ",
		CNPJs:                     domain.StringList{"99.888.777/0001-11"},
		Contracts:                 domain.StringList{"CTR-G7-DBA"},
		CostCenters:               domain.StringList{"1.05 - SISTEMAS"},
		DefaultServiceDescription: "DBA ORACLE E SUPORTE SIMPLIVITY",
		DefaultServiceCode:        "005 - SUPORTE BANCO DE DADOS",
	})
	require.NoError(t, err)
	assert.Equal(t, "G7 TECNOLOGIA", created.CompanyName)

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{"99.888.777/0001-11"}, []string(got.CNPJs))
	assert.Equal(t, []string{"CTR-G7-DBA"}, []string(got.Contracts))
	assert.Equal(t, []string{"1.05 - SISTEMAS"}, []string(got.CostCenters))
	assert.True(t, got.HasCNPJ("99.888.777/0001-11"))
	assert.False(t, got.HasCNPJ("00.000.000/0000-00"))

	_, err = svc.Create(ctx, domain.SupplierRequest{CompanyName: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidCompanyName)
}

func TestListOrderedByCompanyName(t *testing.T) {
	svc, _ := setupSupplierService(t)
	ctx := context.Background()

	for _, name := range []string{"G7 TECNOLOGIA", "DELL COMPUTADORES"} {
		_, err := svc.Create(ctx, domain.SupplierRequest{CompanyName: name})
		require.NoError(t, err)
	}

	suppliers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "DELL COMPUTADORES", suppliers[0].CompanyName)
	assert.NotNil(t, suppliers[0].CNPJs)
}

func TestUpdateAndDelete(t *testing.T) {
	svc, conn := setupSupplierService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.SupplierRequest{CompanyName: "DELL"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.String(), domain.SupplierRequest{
		CompanyName: "DELL COMPUTADORES",
		CNPJs:       domain.SplitList("00.123.456/0001-00"),
	})
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "DELL COMPUTADORES", got.CompanyName)
	assert.Equal(t, []string{"00.123.456/0001-00"}, []string(got.CNPJs))

	require.NoError(t, conn.Exec(`INSERT INTO invoices (id, supplier_id) VALUES (1, ?)`, created.ID).Error)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID.String()), domain.ErrInUse)

	require.NoError(t, conn.Exec(`DELETE FROM invoices`).Error)
	require.NoError(t, svc.Delete(ctx, created.ID.String()))
	_, err = svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
