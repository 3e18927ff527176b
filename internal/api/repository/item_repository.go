package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/api/models"

	"gorm.io/gorm"
)

// ItemRepository is the per-item CRUD contract. Same absence convention as
// UserRepository: (nil, nil) on a lookup miss, (false, nil) on a no-op delete.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]models.Item, error)
	List(ctx context.Context, skip, limit int) ([]models.Item, error)
	Save(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return &item, nil
}

func (r *itemRepository) GetByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	var list []models.Item
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	return list, nil
}

// List returns items ordered by id ascending (insertion order).
func (r *itemRepository) List(ctx context.Context, skip, limit int) ([]models.Item, error) {
	var list []models.Item
	if err := r.db.WithContext(ctx).
		Order("id asc").
		Offset(skip).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

func (r *itemRepository) Save(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Item{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete item: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *itemRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count items by owner: %w", err)
	}
	return count, nil
}
