package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishwell/wishwell-server/pkg/apperror"
	"github.com/wishwell/wishwell-server/pkg/helpers"
)

func newUserService() *UserService {
	return &UserService{
		Repo: newMemUserRepo(),
		JWT:  helpers.NewJWTManager("test-secret", time.Hour),
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newUserService()
	u, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "Alice@Example.com", Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "password123"))
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := newUserService()
	_, err := svc.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@b.com"})
	assert.True(t, apperror.IsType(err, apperror.Validation))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "alice@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.Conflict))
	ae, _ := apperror.As(err)
	assert.Equal(t, "email already registered", ae.Message)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "other@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.Conflict))
	ae, _ := apperror.As(err)
	assert.Equal(t, "username already taken", ae.Message)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, _, errWrongPwd := svc.Login(ctx, "alice@example.com", "wrongwrong")
	_, _, _, errNoUser := svc.Login(ctx, "nobody@example.com", "password123")

	require.Error(t, errWrongPwd)
	require.Error(t, errNoUser)
	aeWrong, _ := apperror.As(errWrongPwd)
	aeNone, _ := apperror.As(errNoUser)
	assert.Equal(t, apperror.Auth, aeWrong.Type)
	assert.Equal(t, apperror.Auth, aeNone.Type)
	assert.Equal(t, aeWrong.Message, aeNone.Message)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	logged, token, exp, err := svc.Login(ctx, "ALICE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestGetProfileMissing(t *testing.T) {
	svc := newUserService()
	_, err := svc.GetProfile(context.Background(), "ghost")
	assert.True(t, apperror.IsType(err, apperror.NotFound))
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()
	age := 30
	u, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123", Age: &age})
	require.NoError(t, err)

	name := "alice-v2"
	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Username: &name})
	require.NoError(t, err)
	assert.Equal(t, "alice-v2", updated.Username)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 30, *updated.Age)

	bad := "ab"
	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Username: &bad})
	assert.True(t, apperror.IsType(err, apperror.Validation))
}
