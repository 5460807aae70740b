package department

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/department"
	"github.com/cmlabs-hris/hris-portal-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/password"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (department.DepartmentService, *store.Store) {
	t.Helper()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	st := store.New(kv.NewMemorySlot(), fixtures.PortalDefaults(password.NewBcryptHasher(bcrypt.MinCost)),
		store.WithClock(func() time.Time { return now }))
	require.NoError(t, st.Restore(context.Background()))
	return NewDepartmentService(st), st
}

func TestDepartmentService_CRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Engineering", list[0].Name)

	desc := "  Money  "
	created, err := svc.Create(ctx, department.CreateDepartmentRequest{Name: " Finance ", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Finance", created.Name)
	require.NotNil(t, created.Description)
	assert.Equal(t, "Money", *created.Description)

	name := "Finance & Ops"
	blank := ""
	updated, err := svc.Update(ctx, department.UpdateDepartmentRequest{ID: created.ID, Name: &name, Description: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Finance & Ops", updated.Name)
	assert.Nil(t, updated.Description)

	require.NoError(t, svc.Delete(ctx, created.ID))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDepartmentService_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	name := "Ghost"

	_, err := svc.Update(context.Background(), department.UpdateDepartmentRequest{ID: 1, Name: &name})
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), department.ErrDepartmentNotFound)
}

func TestDepartmentService_Validation(t *testing.T) {
	svc, st := newTestService(t)

	_, err := svc.Create(context.Background(), department.CreateDepartmentRequest{Name: "   "})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has("name"))
	assert.Equal(t, 2, st.Departments.Len())
}
