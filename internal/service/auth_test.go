package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lanpahub/lanpa-api/internal/domain"
)

type fakeAuthUserRepo struct {
	store *fakeStore
}

func (r *fakeAuthUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.store.mu.Lock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			r.store.mu.Unlock()
			return domain.User{}, ErrUserEmailExists
		}
	}
	r.store.mu.Unlock()
	return r.store.addUser(user), nil
}

func (r *fakeAuthUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

func TestSignupAndLogin(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeAuthUserRepo{store})

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "fragger@example.com",
		Password: "hunter2hunter2",
		Username: "fragger",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", created.Password, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("hunter2hunter2")))

	user, err := svc.Login(context.Background(), "fragger@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeAuthUserRepo{store})

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "fragger@example.com",
		Password: "hunter2hunter2",
		Username: "fragger",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "fragger@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeAuthUserRepo{store})

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := NewAuthService(&fakeAuthUserRepo{store})

	_, err := svc.Signup(context.Background(), domain.User{Email: "a@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "a@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}
