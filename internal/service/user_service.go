package service

import (
	"context"
	"fmt"

	"quiz-master/internal/domain"
	"quiz-master/internal/dto"
	"quiz-master/internal/logger"
	"quiz-master/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages accounts and role assignments.
type UserService interface {
	GetUsers(ctx context.Context) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*dto.UserResponse, error)
	Authorize(ctx context.Context, userID string, role string) error
}

type userServiceImpl struct {
	userRepo  domain.UserRepository
	txManager domain.TransactionManager
}

// NewUserService creates a new UserService.
func NewUserService(userRepo domain.UserRepository, txManager domain.TransactionManager) UserService {
	return &userServiceImpl{userRepo: userRepo, txManager: txManager}
}

func (s *userServiceImpl) GetUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to list users: %w", err))
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	return resp, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user", id)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if req.Password == "" {
		return nil, domain.NewValidationError("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to hash password: %w", err))
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleStudent}
	}
	user := domain.NewUser(req.Username, req.Email, string(hash), roles...)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	user.ID = util.NewULID()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.SaveUser(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	logger.Get().Info("user created", zap.String("userID", user.ID), zap.String("email", user.Email))
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user", id)
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Roles != nil {
		user.Roles = domain.RoleSet(*req.Roles)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.UpdateUser(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id string) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if user == nil {
		return domain.NewNotFoundError("user", id)
	}
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return domain.NewInternalError(err)
	}
	logger.Get().Info("user deleted", zap.String("userID", id))
	return nil
}

func (s *userServiceImpl) ToggleActive(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("user", id)
	}
	user.Active = !user.Active

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.userRepo.UpdateUser(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	logger.Get().Info("user active flag toggled", zap.String("userID", id), zap.Bool("active", user.Active))
	resp := toUserResponse(user)
	return &resp, nil
}

// Authorize checks that the user exists, is active and holds the given role.
func (s *userServiceImpl) Authorize(ctx context.Context, userID string, role string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if user == nil {
		return domain.NewUnauthorizedError("unknown user")
	}
	if !user.Active {
		return domain.NewUnauthorizedError("account is deactivated")
	}
	if !user.Roles.HasRole(role) {
		return domain.NewUnauthorizedError(fmt.Sprintf("role %q required", role))
	}
	return nil
}

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Active:   u.Active,
		Roles:    []string(u.Roles),
	}
}
