package account

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-portal-go/internal/domain/account"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-portal-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-portal-go/internal/fixtures"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/kv"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/password"
	"github.com/cmlabs-hris/hris-portal-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-portal-go/internal/repository/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (account.AccountService, *store.Store, password.Hasher) {
	t.Helper()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	st := store.New(kv.NewMemorySlot(), fixtures.PortalDefaults(hasher), store.WithClock(func() time.Time { return now }))
	require.NoError(t, st.Restore(context.Background()))
	return NewAccountService(st, hasher), st, hasher
}

func adminIdentity(t *testing.T, st *store.Store) account.Identity {
	t.Helper()
	admin, ok := st.Accounts.Find(func(a account.Account) bool { return a.Email == fixtures.AdminEmail })
	require.True(t, ok)
	return account.NewIdentity(admin)
}

func TestAccountService_CreateAndList(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, account.CreateAccountRequest{
		FirstName: "Bob", LastName: "Smith", Email: "Bob@Y.io", Password: "secret1", Role: "user", Verified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "bob@y.io", created.Email)
	assert.True(t, created.Verified)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, fixtures.AdminEmail, list[0].Email)
	assert.Equal(t, "bob@y.io", list[1].Email)
}

func TestAccountService_CreateDuplicate(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := svc.Create(context.Background(), account.CreateAccountRequest{
		FirstName: "Again", LastName: "Admin", Email: fixtures.AdminEmail, Password: "secret1", Role: "admin",
	})
	assert.ErrorIs(t, err, account.ErrEmailExists)
	assert.Equal(t, 1, st.Accounts.Len())
}

func TestAccountService_CreateValidation(t *testing.T) {
	svc, st, _ := newTestService(t)

	_, err := svc.Create(context.Background(), account.CreateAccountRequest{Email: "nope", Password: "123", Role: "owner"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	for _, field := range []string{"first_name", "last_name", "email", "password", "role"} {
		assert.True(t, verrs.Has(field), field)
	}
	assert.Equal(t, 1, st.Accounts.Len())
}

func TestAccountService_Update(t *testing.T) {
	svc, st, hasher := newTestService(t)
	ctx := context.Background()

	bob, err := svc.Create(ctx, account.CreateAccountRequest{
		FirstName: "Bob", LastName: "Smith", Email: "bob@y.io", Password: "secret1", Role: "user",
	})
	require.NoError(t, err)
	_, err = st.Employees.Insert(employee.Employee{EmployeeCode: "EMP-001", Email: "bob@y.io", Position: "Dev"})
	require.NoError(t, err)

	role := "admin"
	newEmail := "robert@y.io"
	newPassword := "changed1"
	updated, err := svc.Update(ctx, account.UpdateAccountRequest{ID: bob.ID, Role: &role, Email: &newEmail, Password: &newPassword})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)
	assert.Equal(t, "robert@y.io", updated.Email)

	stored, err := st.Accounts.Get(bob.ID)
	require.NoError(t, err)
	assert.True(t, hasher.Compare(stored.PasswordHash, newPassword))

	// The employee record follows the new email
	_, linked := st.Employees.Find(func(e employee.Employee) bool { return e.Email == "robert@y.io" })
	assert.True(t, linked)
}

func TestAccountService_UpdateEmailMovesRequests(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	bob, err := svc.Create(ctx, account.CreateAccountRequest{
		FirstName: "Bob", LastName: "Smith", Email: "bob@y.io", Password: "secret1", Role: "user",
	})
	require.NoError(t, err)
	filed, err := st.Requests.Insert(request.Request{
		RequesterEmail: "bob@y.io", Type: "Leave", Status: request.StatusPending,
		Items: []request.LineItem{{Name: "Day off", Quantity: 1}},
	})
	require.NoError(t, err)

	newEmail := "robert@y.io"
	_, err = svc.Update(ctx, account.UpdateAccountRequest{ID: bob.ID, Email: &newEmail})
	require.NoError(t, err)

	stored, err := st.Requests.Get(filed.ID)
	require.NoError(t, err)
	assert.Equal(t, "robert@y.io", stored.RequesterEmail)

	orphaned := st.Requests.FindAll(func(r request.Request) bool { return r.RequesterEmail == "bob@y.io" })
	assert.Empty(t, orphaned)
}

func TestAccountService_UpdateDuplicateLeavesAccount(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	bob, err := svc.Create(ctx, account.CreateAccountRequest{
		FirstName: "Bob", LastName: "Smith", Email: "bob@y.io", Password: "secret1", Role: "user",
	})
	require.NoError(t, err)

	taken := "ADMIN@example.com"
	name := "Robert"
	_, err = svc.Update(ctx, account.UpdateAccountRequest{ID: bob.ID, Email: &taken, FirstName: &name})
	assert.ErrorIs(t, err, account.ErrEmailExists)

	stored, err := st.Accounts.Get(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@y.io", stored.Email)
	assert.Equal(t, "Bob", stored.FirstName)
}

func TestAccountService_UpdateMissing(t *testing.T) {
	svc, _, _ := newTestService(t)
	name := "Ghost"

	_, err := svc.Update(context.Background(), account.UpdateAccountRequest{ID: 42, FirstName: &name})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestAccountService_DeleteSelfRefused(t *testing.T) {
	svc, st, _ := newTestService(t)
	admin := adminIdentity(t, st)
	before := st.Snapshot()

	err := svc.Delete(context.Background(), admin, admin.AccountID)
	assert.ErrorIs(t, err, account.ErrSelfDelete)
	assert.Equal(t, before, st.Snapshot())
}

func TestAccountService_Delete(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	admin := adminIdentity(t, st)

	bob, err := svc.Create(ctx, account.CreateAccountRequest{
		FirstName: "Bob", LastName: "Smith", Email: "bob@y.io", Password: "secret1", Role: "user",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, bob.ID))
	assert.Equal(t, 1, st.Accounts.Len())

	assert.ErrorIs(t, svc.Delete(ctx, admin, bob.ID), account.ErrAccountNotFound)
}

func TestAccountService_DeleteBlockedByEmployee(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	admin := adminIdentity(t, st)

	bob, err := svc.Create(ctx, account.CreateAccountRequest{
		FirstName: "Bob", LastName: "Smith", Email: "bob@y.io", Password: "secret1", Role: "user",
	})
	require.NoError(t, err)
	_, err = st.Employees.Insert(employee.Employee{EmployeeCode: "EMP-001", Email: "bob@y.io", Position: "Dev"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, admin, bob.ID), account.ErrAccountInUse)
	assert.Equal(t, 2, st.Accounts.Len())
}

func TestAccountService_DeleteRequiresAdmin(t *testing.T) {
	svc, st, _ := newTestService(t)
	admin := adminIdentity(t, st)

	user := account.Identity{AccountID: 99, Email: "bob@y.io", Role: account.RoleUser}
	assert.ErrorIs(t, svc.Delete(context.Background(), user, admin.AccountID), account.ErrAdminPrivilegeRequired)
	assert.Equal(t, 1, st.Accounts.Len())
}
