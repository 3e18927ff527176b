package dto

import (
	"time"

	"storefront/internal/api/models"
)

// CreateItemDTO used for POST /api/items
type CreateItemDTO struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// UpdateItemDTO used for PUT /api/items/:item_id (partial updates allowed).
// A field left out of the payload keeps its stored value; only present
// fields are applied.
type UpdateItemDTO struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,max=100"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

// BulkAvailabilityDTO used for PUT /api/items/bulk/availability
type BulkAvailabilityDTO struct {
	ItemIDs     []int64 `json:"item_ids" binding:"required,min=1"`
	IsAvailable *bool   `json:"is_available" binding:"required"`
}

// ItemResponse DTO for responses
type ItemResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Price       float64    `json:"price"`
	IsAvailable bool       `json:"is_available"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Converters
func (d CreateItemDTO) ToModel(ownerID int64) models.Item {
	m := models.Item{
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		IsAvailable: true,
		OwnerID:     ownerID,
	}
	if d.IsAvailable != nil {
		m.IsAvailable = *d.IsAvailable
	}
	return m
}

func (d UpdateItemDTO) ApplyTo(m *models.Item) {
	if d.Title != nil {
		m.Title = *d.Title
	}
	if d.Description != nil {
		m.Description = d.Description
	}
	if d.Price != nil {
		m.Price = *d.Price
	}
	if d.IsAvailable != nil {
		m.IsAvailable = *d.IsAvailable
	}
}

// Empty reports whether the payload carries no fields at all.
func (d UpdateItemDTO) Empty() bool {
	return d.Title == nil && d.Description == nil && d.Price == nil && d.IsAvailable == nil
}

func FromItemToResponse(m models.Item) ItemResponse {
	return ItemResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		IsAvailable: m.IsAvailable,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromItemsToResponse(list []models.Item) []ItemResponse {
	resp := make([]ItemResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, FromItemToResponse(m))
	}
	return resp
}

// UserStatsResponse mirrors the aggregate query over a user's items.
// A user with no items gets all zeroes, not a 404.
type UserStatsResponse struct {
	UserID         int64   `json:"user_id"`
	TotalItems     int64   `json:"total_items"`
	AvailableItems int64   `json:"available_items"`
	TotalValue     float64 `json:"total_value"`
	AveragePrice   float64 `json:"average_price"`
}

// ItemWithOwnerResponse is the join projection of an item with its owner.
type ItemWithOwnerResponse struct {
	ItemID        int64   `json:"item_id"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	OwnerUsername string  `json:"owner_username"`
	OwnerEmail    string  `json:"owner_email"`
}
