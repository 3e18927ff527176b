package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/api/cache"
	"storefront/internal/api/dto"
	"storefront/internal/api/models"
	"storefront/internal/api/repository"
)

// ErrOwnerNotFound signals that the referenced owning user does not exist.
// Handlers translate it to 404.
var ErrOwnerNotFound = errors.New("owner not found")

type ItemService interface {
	List(ctx context.Context, skip, limit int) ([]models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]models.Item, error)
	Create(ctx context.Context, ownerID int64, in dto.CreateItemDTO) (*models.Item, error)
	Update(ctx context.Context, id int64, in dto.UpdateItemDTO) (*models.Item, error)
	Delete(ctx context.Context, id int64) (bool, error)

	Search(ctx context.Context, query string, minPrice, maxPrice *float64) ([]models.Item, error)
	UserStatistics(ctx context.Context, userID int64) (*repository.UserStats, error)
	Recent(ctx context.Context, days int) ([]models.Item, error)
	Expensive(ctx context.Context, threshold float64) ([]models.Item, error)
	BulkUpdateAvailability(ctx context.Context, itemIDs []int64, isAvailable bool) (int64, error)
	WithOwner(ctx context.Context) ([]repository.ItemWithOwner, error)
}

type itemService struct {
	repo    repository.ItemRepository
	queries repository.ItemQueryRepository
	users   repository.UserRepository
	stats   *cache.StatsCache
	logger  *slog.Logger
}

// NewItemService wires the item CRUD and query repositories together with the
// owner lookups needed for referential checks. stats may be nil (no caching).
func NewItemService(
	repo repository.ItemRepository,
	queries repository.ItemQueryRepository,
	users repository.UserRepository,
	stats *cache.StatsCache,
	logger *slog.Logger,
) ItemService {
	return &itemService{repo: repo, queries: queries, users: users, stats: stats, logger: logger}
}

func (s *itemService) List(ctx context.Context, skip, limit int) ([]models.Item, error) {
	return s.repo.List(ctx, skip, limit)
}

func (s *itemService) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *itemService) GetByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// Create checks that the owner exists before inserting. The check lives here,
// not in a database constraint check at the handler layer.
func (s *itemService) Create(ctx context.Context, ownerID int64, in dto.CreateItemDTO) (*models.Item, error) {
	exists, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	item := in.ToModel(ownerID)
	item.Title = strings.TrimSpace(item.Title)

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, ownerID)
	return &item, nil
}

// Update applies only the fields present in the payload and refreshes the
// update timestamp. Returns (nil, nil) when the item does not exist; no write
// is attempted in that case.
func (s *itemService) Update(ctx context.Context, id int64, in dto.UpdateItemDTO) (*models.Item, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	in.ApplyTo(existing)
	existing.Title = strings.TrimSpace(existing.Title)
	now := time.Now()
	existing.UpdatedAt = &now

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, existing.OwnerID)
	return existing, nil
}

func (s *itemService) Delete(ctx context.Context, id int64) (bool, error) {
	// fetch first so the owner's cached stats can be dropped
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateStats(ctx, existing.OwnerID)
	}
	return deleted, nil
}

func (s *itemService) Search(ctx context.Context, query string, minPrice, maxPrice *float64) ([]models.Item, error) {
	return s.queries.Search(ctx, strings.TrimSpace(query), minPrice, maxPrice)
}

// UserStatistics serves the aggregate from the cache when possible. An
// unknown user is a 404 at the handler; a known user with no items gets
// all-zero stats.
func (s *itemService) UserStatistics(ctx context.Context, userID int64) (*repository.UserStats, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	if cached, err := s.stats.Get(ctx, userID); err == nil && cached != nil {
		return cached, nil
	}

	stats, err := s.queries.UserStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.stats.Set(ctx, userID, stats); err != nil {
		s.logger.Warn("failed to cache user stats", "user_id", userID, "error", err)
	}
	return stats, nil
}

func (s *itemService) Recent(ctx context.Context, days int) ([]models.Item, error) {
	return s.queries.Recent(ctx, days)
}

func (s *itemService) Expensive(ctx context.Context, threshold float64) ([]models.Item, error) {
	return s.queries.Expensive(ctx, threshold)
}

// BulkUpdateAvailability reports only the affected-row count; ids that match
// nothing are ignored without error.
func (s *itemService) BulkUpdateAvailability(ctx context.Context, itemIDs []int64, isAvailable bool) (int64, error) {
	count, err := s.queries.BulkUpdateAvailability(ctx, itemIDs, isAvailable)
	if err != nil {
		return 0, err
	}
	// availability feeds the available_items aggregate; cheap to flush per id owner
	for _, id := range itemIDs {
		if item, err := s.repo.GetByID(ctx, id); err == nil && item != nil {
			s.invalidateStats(ctx, item.OwnerID)
		}
	}
	return count, nil
}

func (s *itemService) WithOwner(ctx context.Context) ([]repository.ItemWithOwner, error) {
	return s.queries.WithOwner(ctx)
}

func (s *itemService) invalidateStats(ctx context.Context, ownerID int64) {
	if err := s.stats.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn("failed to invalidate stats cache", "user_id", ownerID, "error", err)
	}
}
