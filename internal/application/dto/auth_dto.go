package dto

import "time"

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	BusinessID string `json:"business_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// UserResponse usuario sin datos sensibles.
type UserResponse struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse token + usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
