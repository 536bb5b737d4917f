package service

import (
	"context"
	"testing"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser_HashesPasswordAndDefaultsRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	txManager := new(MockTransactionManager)
	svc := NewUserService(userRepo, txManager)
	ctx := context.Background()

	var saved *domain.User
	txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
	userRepo.On("SaveUser", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.User) }).
		Return(nil)

	resp, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleStudent}, resp.Roles)
	assert.True(t, resp.Active)
	require.NotNil(t, saved)
	assert.NotEqual(t, "s3cret", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("s3cret")))
}

func TestCreateUser_RequiresPassword(t *testing.T) {
	svc := NewUserService(new(MockUserRepository), new(MockTransactionManager))

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrValidation, domainErr.Code)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		user     *domain.User
		role     string
		wantCode domain.ErrorCode
	}{
		{
			name: "active admin",
			user: &domain.User{ID: "user1", Active: true, Roles: domain.RoleSet{domain.RoleAdmin}},
			role: domain.RoleAdmin,
		},
		{
			name:     "unknown user",
			user:     nil,
			role:     domain.RoleAdmin,
			wantCode: domain.ErrUnauthorized,
		},
		{
			name:     "deactivated account",
			user:     &domain.User{ID: "user1", Active: false, Roles: domain.RoleSet{domain.RoleAdmin}},
			role:     domain.RoleAdmin,
			wantCode: domain.ErrUnauthorized,
		},
		{
			name:     "missing role",
			user:     &domain.User{ID: "user1", Active: true, Roles: domain.RoleSet{domain.RoleStudent}},
			role:     domain.RoleAdmin,
			wantCode: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			svc := NewUserService(userRepo, new(MockTransactionManager))
			ctx := context.Background()
			userRepo.On("GetUserByID", ctx, "user1").Return(tt.user, nil)

			err := svc.Authorize(ctx, "user1", tt.role)

			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestToggleActive(t *testing.T) {
	userRepo := new(MockUserRepository)
	txManager := new(MockTransactionManager)
	svc := NewUserService(userRepo, txManager)
	ctx := context.Background()

	userRepo.On("GetUserByID", ctx, "user1").Return(&domain.User{
		ID: "user1", Username: "alice", Active: true, Roles: domain.RoleSet{domain.RoleStudent},
	}, nil)
	txManager.On("WithTransaction", ctx, mock.Anything).Return(nil)
	userRepo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return !u.Active
	})).Return(nil)

	resp, err := svc.ToggleActive(ctx, "user1")

	require.NoError(t, err)
	assert.False(t, resp.Active)
	userRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := NewUserService(userRepo, new(MockTransactionManager))
	ctx := context.Background()

	userRepo.On("GetUserByID", ctx, "user1").Return(nil, nil)

	err := svc.DeleteUser(ctx, "user1")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNotFound, domainErr.Code)
	userRepo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}
