package model

import "time"

// AdminUser is a back-office account.
type AdminUser struct {
	Base `bson:",inline"`

	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"password" json:"-"`
	Role         AdminRole  `bson:"role" json:"role"`
	Active       bool       `bson:"active" json:"active"`
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// CreateAdminUserRequest is the payload for creating an admin.
type CreateAdminUserRequest struct {
	Name     string    `json:"name" binding:"required,min=2,max=120"`
	Email    string    `json:"email" binding:"required,email,max=255"`
	Password string    `json:"password" binding:"required,min=6,max=128"`
	Role     AdminRole `json:"role" binding:"required,oneof=super_admin staff data_entry"`
	Active   *bool     `json:"active"`
}

// UpdateAdminUserRequest leaves the hash untouched when Password is empty.
type UpdateAdminUserRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=2,max=120"`
	Email    *string    `json:"email" binding:"omitempty,email,max=255"`
	Password string     `json:"password" binding:"omitempty,min=6,max=128"`
	Role     *AdminRole `json:"role" binding:"omitempty,oneof=super_admin staff data_entry"`
	Active   *bool      `json:"active"`
}
