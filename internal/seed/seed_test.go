package seed

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/smallbiznis/payables/internal/auth/domain"
	"github.com/smallbiznis/payables/internal/auth/password"
	authrepo "github.com/smallbiznis/payables/internal/auth/repository"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	branchrepo "github.com/smallbiznis/payables/internal/branch/repository"
	"github.com/smallbiznis/payables/internal/clock"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	supplierrepo "github.com/smallbiznis/payables/internal/supplier/repository"
	"github.com/smallbiznis/payables/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*Seeder, *gorm.DB) {
	t.Helper()
	conn := testutil.NewDB(t, &branchdomain.Branch{}, &supplierdomain.Supplier{}, &authdomain.User{})
	return New(Params{
		DB:           conn,
		Log:          zaptest.NewLogger(t),
		GenID:        testutil.NewNode(t),
		Clock:        clock.NewFakeClock(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		BranchRepo:   branchrepo.Provide(),
		SupplierRepo: supplierrepo.Provide(),
		UserRepo:     authrepo.New(conn),
	}), conn
}

func TestDemoDataIsIdempotent(t *testing.T) {
	seeder, conn := newSeeder(t)
	ctx := context.Background()

	first, err := seeder.DemoData(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Branches: 2, Suppliers: 2}, first)

	second, err := seeder.DemoData(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	var suppliers []supplierdomain.Supplier
	require.NoError(t, conn.Order("company_name").Find(&suppliers).Error)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "DELL COMPUTADORES", suppliers[0].CompanyName)
	assert.Equal(t, []string{"00.123.456/0001-00"}, []string(suppliers[0].CNPJs))
	assert.Equal(t, "005 - SUPORTE BANCO DE DADOS", suppliers[1].DefaultServiceCode)
}

func TestEnsureAdmin(t *testing.T) {
	seeder, _ := newSeeder(t)
	ctx := context.Background()

	created, err := seeder.EnsureAdmin(ctx, "admin", "")
	require.NoError(t, err)
	assert.False(t, created, "no password, no admin")

	created, err = seeder.EnsureAdmin(ctx, " Admin ", "bootstrap-pass")
	require.NoError(t, err)
	assert.True(t, created)

	user, err := seeder.userRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleAdmin, user.Role)
	assert.True(t, password.Verify("bootstrap-pass", user.PasswordHash))

	created, err = seeder.EnsureAdmin(ctx, "other", "another-pass")
	require.NoError(t, err)
	assert.False(t, created, "users already exist")
}
