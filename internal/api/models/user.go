package models

import "time"

type User struct {
	ID             int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email          string     `json:"email" gorm:"uniqueIndex;size:100;not null"`
	HashedPassword string     `json:"-" gorm:"column:hashed_password;not null"` // Not shown in JSON
	IsActive       bool       `json:"is_active" gorm:"default:true;not null"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"` // stays NULL until the first update

	// association
	Items []Item `json:"items,omitempty" gorm:"foreignKey:OwnerID"`
}

func (User) TableName() string {
	return "users"
}
