package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/api/dto"
	"storefront/internal/api/models"
	"storefront/internal/api/repository"
)

// ErrUserHasItems signals a delete rejected because the user still owns
// items. Handlers translate it to 409.
var ErrUserHasItems = errors.New("user still owns items")

type UserService interface {
	Create(ctx context.Context, in dto.CreateUserDTO) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, skip, limit int) ([]models.User, error)
	Update(ctx context.Context, id int64, in dto.UpdateUserDTO) (*models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type userService struct {
	repo  repository.UserRepository
	items repository.ItemRepository
}

func NewUserService(repo repository.UserRepository, items repository.ItemRepository) UserService {
	return &userService{repo: repo, items: items}
}

func (s *userService) Create(ctx context.Context, in dto.CreateUserDTO) (*models.User, error) {
	user := models.User{
		Username:       strings.TrimSpace(in.Username),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		HashedPassword: hashPassword(in.Password),
		IsActive:       true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *userService) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	return s.repo.List(ctx, skip, limit)
}

// Update applies only the fields present in the payload. Returns (nil, nil)
// when the user does not exist.
func (s *userService) Update(ctx context.Context, id int64, in dto.UpdateUserDTO) (*models.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	in.ApplyTo(existing)
	existing.Username = strings.TrimSpace(existing.Username)
	existing.Email = strings.ToLower(strings.TrimSpace(existing.Email))
	now := time.Now()
	existing.UpdatedAt = &now

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete refuses to remove a user that still owns items (the foreign key
// would reject it anyway; checking here gives a clean error instead of a
// constraint failure).
func (s *userService) Delete(ctx context.Context, id int64) (bool, error) {
	count, err := s.items.CountByOwner(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, ErrUserHasItems
	}
	return s.repo.Delete(ctx, id)
}

// hashPassword is a placeholder. Real credential hashing is out of scope
// here; the stored value is treated as an opaque string everywhere else.
func hashPassword(password string) string {
	return "notreallyhashed:" + password
}
