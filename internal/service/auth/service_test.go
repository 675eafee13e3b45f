package auth

import (
	"context"
	"testing"

	"github.com/aurelhr/payroll-backend-go/internal/domain/auth"
	"github.com/aurelhr/payroll-backend-go/internal/domain/user"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo keeps accounts in memory so password flows can be tested
// without a database.
type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmpID(ctx context.Context, empID string) (user.User, error) {
	for _, u := range r.users {
		if u.EmpID != nil && *u.EmpID == empID {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) SetCanLogin(ctx context.Context, id string, canLogin bool) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.CanLogin = canLogin
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestChangePassword(t *testing.T) {
	empID := "EMP-001"
	repo := newFakeUserRepo(user.User{
		ID:           "user-1",
		Email:        "emp-001@payroll.local",
		PasswordHash: hashOf(t, "EMP-001"),
		Role:         user.RoleEmployee,
		EmpID:        &empID,
		CanLogin:     true,
	})
	svc := NewAuthService(repo, nil)

	err := svc.ChangePassword(context.Background(), "user-1", auth.ChangePasswordRequest{
		CurrentPassword: "EMP-001",
		NewPassword:     "a-much-better-one",
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("a-much-better-one")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("EMP-001")))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	repo := newFakeUserRepo(user.User{
		ID:           "user-1",
		PasswordHash: hashOf(t, "correct-password"),
		CanLogin:     true,
	})
	svc := NewAuthService(repo, nil)

	err := svc.ChangePassword(context.Background(), "user-1", auth.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "a-much-better-one",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	stored, getErr := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, getErr)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-password")))
}

func TestChangePasswordTooShort(t *testing.T) {
	repo := newFakeUserRepo(user.User{
		ID:           "user-1",
		PasswordHash: hashOf(t, "correct-password"),
		CanLogin:     true,
	})
	svc := NewAuthService(repo, nil)

	err := svc.ChangePassword(context.Background(), "user-1", auth.ChangePasswordRequest{
		CurrentPassword: "correct-password",
		NewPassword:     "short",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "new_password", verrs[0].Field)
}

func TestChangePasswordUnknownUser(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil)

	err := svc.ChangePassword(context.Background(), "nobody", auth.ChangePasswordRequest{
		CurrentPassword: "whatever-it-was",
		NewPassword:     "a-much-better-one",
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
