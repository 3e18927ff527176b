package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/api/models"

	"gorm.io/gorm"
)

// UserStats holds the aggregates over one user's items. COALESCE in the
// queries guarantees zeroes (not NULLs) for a user with no items.
type UserStats struct {
	TotalItems     int64
	AvailableItems int64
	TotalValue     float64
	AveragePrice   float64
}

// ItemWithOwner is the inner-join projection of an item and its owning user.
type ItemWithOwner struct {
	ItemID        int64
	Title         string
	Price         float64
	OwnerUsername string
	OwnerEmail    string
}

// ItemQueryRepository covers the parameterized reads and the one bulk write
// that go beyond single-entity CRUD.
type ItemQueryRepository interface {
	Search(ctx context.Context, query string, minPrice, maxPrice *float64) ([]models.Item, error)
	UserStatistics(ctx context.Context, userID int64) (*UserStats, error)
	Recent(ctx context.Context, days int) ([]models.Item, error)
	Expensive(ctx context.Context, threshold float64) ([]models.Item, error)
	BulkUpdateAvailability(ctx context.Context, itemIDs []int64, isAvailable bool) (int64, error)
	WithOwner(ctx context.Context) ([]ItemWithOwner, error)
}

type itemQueryRepository struct {
	db *gorm.DB
}

func NewItemQueryRepository(db *gorm.DB) ItemQueryRepository {
	return &itemQueryRepository{db: db}
}

// Search performs a case-insensitive substring match on title or description,
// AND'ed with the optional price bounds. COALESCE avoids NULL descriptions
// breaking the ILIKE.
func (r *itemQueryRepository) Search(ctx context.Context, query string, minPrice, maxPrice *float64) ([]models.Item, error) {
	var list []models.Item
	p := "%" + query + "%"

	db := r.db.WithContext(ctx).
		Where("(title ILIKE ? OR COALESCE(description,'') ILIKE ?)", p, p)
	if minPrice != nil {
		db = db.Where("price >= ?", *minPrice)
	}
	if maxPrice != nil {
		db = db.Where("price <= ?", *maxPrice)
	}

	if err := db.Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return list, nil
}

// UserStatistics aggregates a user's items in a single scan. A user with zero
// items yields all-zero stats rather than an absent value.
func (r *itemQueryRepository) UserStatistics(ctx context.Context, userID int64) (*UserStats, error) {
	var stats UserStats
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select(
			"COUNT(*) as total_items, " +
				"COUNT(*) FILTER (WHERE is_available) as available_items, " +
				"COALESCE(SUM(price), 0) as total_value, " +
				"COALESCE(AVG(price), 0) as average_price",
		).
		Where("owner_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("user statistics: %w", err)
	}
	return &stats, nil
}

// Recent returns items created within the last N days, newest first.
func (r *itemQueryRepository) Recent(ctx context.Context, days int) ([]models.Item, error) {
	var list []models.Item
	cutoff := time.Now().AddDate(0, 0, -days)
	if err := r.db.WithContext(ctx).
		Where("created_at >= ?", cutoff).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("recent items: %w", err)
	}
	return list, nil
}

// Expensive returns items priced at or above the threshold, priciest first.
func (r *itemQueryRepository) Expensive(ctx context.Context, threshold float64) ([]models.Item, error) {
	var list []models.Item
	if err := r.db.WithContext(ctx).
		Where("price >= ?", threshold).
		Order("price desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("expensive items: %w", err)
	}
	return list, nil
}

// BulkUpdateAvailability flips the availability flag for every listed id in
// one statement and reports how many rows actually changed. Ids that match
// no row are silently ignored.
func (r *itemQueryRepository) BulkUpdateAvailability(ctx context.Context, itemIDs []int64, isAvailable bool) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id IN ?", itemIDs).
		Updates(map[string]interface{}{
			"is_available": isAvailable,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("bulk update availability: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// WithOwner joins each item to its owning user. Inner join: items without a
// resolvable owner are excluded.
func (r *itemQueryRepository) WithOwner(ctx context.Context) ([]ItemWithOwner, error) {
	var list []ItemWithOwner
	if err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Select("items.id as item_id, items.title, items.price, users.username as owner_username, users.email as owner_email").
		Joins("INNER JOIN users ON users.id = items.owner_id").
		Order("items.id asc").
		Scan(&list).Error; err != nil {
		return nil, fmt.Errorf("items with owner: %w", err)
	}
	return list, nil
}
