package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/payables/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) (Service, *ServiceImpl) {
	t.Helper()
	enforcer, err := NewEnforcer(testutil.NewDB(t))
	require.NoError(t, err)
	svc := NewService(Params{Log: zaptest.NewLogger(t), Enforcer: enforcer})
	return svc, svc.(*ServiceImpl)
}

func TestRolePermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		role, object, action string
		allowed              bool
	}{
		{"admin", ObjectUser, ActionWrite, true},
		{"admin", ObjectSeed, ActionWrite, true},
		{"admin", ObjectBranch, ActionWrite, true},
		{"analyst", ObjectInvoice, ActionWrite, true},
		{"analyst", ObjectUpload, ActionWrite, true},
		{"analyst", ObjectReport, ActionRead, true},
		{"analyst", ObjectSupplier, ActionRead, true},
		{"analyst", ObjectSupplier, ActionWrite, false},
		{"analyst", ObjectUser, ActionRead, false},
		{"viewer", ObjectInvoice, ActionRead, true},
		{"viewer", ObjectInvoice, ActionWrite, false},
		{"viewer", ObjectUpload, ActionWrite, false},
		{"stranger", ObjectInvoice, ActionRead, false},
	}
	for _, tc := range cases {
		err := svc.Authorize(ctx, "user-"+tc.role, tc.role, tc.object, tc.action)
		if tc.allowed {
			assert.NoError(t, err, "%s %s %s", tc.role, tc.action, tc.object)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s %s %s", tc.role, tc.action, tc.object)
		}
	}
}

func TestRoleChangeReplacesGrouping(t *testing.T) {
	svc, impl := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, "maria", "admin", ObjectUser, ActionWrite))
	assert.ErrorIs(t, svc.Authorize(ctx, "maria", "viewer", ObjectUser, ActionWrite), ErrForbidden)

	rules, err := impl.enforcer.GetFilteredGroupingPolicy(0, "user:maria")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"user:maria", "role:viewer"}}, rules)
}

func TestAuthorizeValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Authorize(ctx, "", "admin", ObjectUser, ActionRead), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "x", "admin", "", ActionRead), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, "x", "admin", ObjectUser, " "), ErrInvalidAction)
}

func TestSeedIsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	first, err := NewEnforcer(conn)
	require.NoError(t, err)
	count, err := first.GetPolicy()
	require.NoError(t, err)

	second, err := NewEnforcer(conn)
	require.NoError(t, err)
	again, err := second.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, again, len(count))
}
