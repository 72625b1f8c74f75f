package services

import (
	"context"
	"errors"

	"sipinjam/internal/adapters/persistence/models"
	"sipinjam/internal/adapters/persistence/repositories"
	"sipinjam/internal/core/domain"
	"sipinjam/internal/pkg/pagination"
	"sipinjam/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles user management business logic
type UserService struct {
	userRepo *repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the caller's own profile
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// List returns users filtered by optional role
func (s *UserService) List(ctx context.Context, params *pagination.Params, role domain.Role) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, params, role)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, total, nil
}

// CreateStaffInput represents an admin-created account
type CreateStaffInput struct {
	Username string      `json:"username" validate:"required,min=3,max=50"`
	Nama     string      `json:"nama" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     domain.Role `json:"role" validate:"required"`
}

// CreateStaff creates a petugas or admin account. The auth service only
// registers peminjam; privileged roles go through here.
func (s *UserService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*models.UserResponse, error) {
	if input.Role != domain.RolePetugas && input.Role != domain.RoleAdmin {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Nama:     input.Nama,
		Email:    input.Email,
		Password: hashed,
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}
