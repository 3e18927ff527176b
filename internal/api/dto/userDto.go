package dto

import (
	"time"

	"storefront/internal/api/models"
)

// CreateUserDTO used for POST /api/users
type CreateUserDTO struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateUserDTO used for PUT /api/users/:user_id (partial updates allowed)
type UpdateUserDTO struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// UserResponse DTO for responses. The credential hash never leaves the server.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (d UpdateUserDTO) ApplyTo(u *models.User) {
	if d.Username != nil {
		u.Username = *d.Username
	}
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.IsActive != nil {
		u.IsActive = *d.IsActive
	}
}

func FromUserToResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromUsersToResponse(list []models.User) []UserResponse {
	resp := make([]UserResponse, 0, len(list))
	for _, u := range list {
		resp = append(resp, FromUserToResponse(u))
	}
	return resp
}
