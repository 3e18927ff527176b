package models

import "time"

type Item struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"size:100;not null;index"`
	Description *string    `json:"description,omitempty"`
	Price       float64    `json:"price" gorm:"not null"`
	IsAvailable bool       `json:"is_available" gorm:"default:true;not null"`
	OwnerID     int64      `json:"owner_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"` // stays NULL until the first update

	// association; RESTRICT keeps items from being orphaned when a user goes away
	Owner User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT"`
}

func (Item) TableName() string {
	return "items"
}
