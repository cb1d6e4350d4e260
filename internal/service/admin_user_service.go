package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

// Sentinel errors for admin user management.
var (
	ErrAdminNotFound          = errors.New("admin not found")
	ErrEmailExists            = errors.New("email already registered")
	ErrCannotDeleteSuperAdmin = errors.New("super admin accounts cannot be deleted")
	ErrCannotDeleteSelf       = errors.New("admins cannot delete themselves")
	ErrInvalidRole            = errors.New("invalid role")
)

type AdminUserService struct {
	users      AdminUserStore
	bcryptCost int
	now        func() time.Time
}

func NewAdminUserService(users AdminUserStore, bcryptCost int) *AdminUserService {
	return &AdminUserService{users: users, bcryptCost: bcryptCost, now: time.Now}
}

// List returns every admin account, newest first.
func (s *AdminUserService) List(ctx context.Context) ([]model.AdminUser, error) {
	return s.users.List(ctx, repository.ListQuery{})
}

// Get loads one admin account.
func (s *AdminUserService) Get(ctx context.Context, id string) (*model.AdminUser, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if isMissing(err) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return u, nil
}

// Create adds an admin. Emails are unique with case-sensitive comparison.
func (s *AdminUserService) Create(ctx context.Context, req model.CreateAdminUserRequest) (*model.AdminUser, error) {
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.AdminUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	u.Stamp(s.now().UTC())

	if _, err := s.users.Insert(ctx, u); err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return u, nil
}

// Update applies the present fields. An empty password keeps the stored hash.
func (s *AdminUserService) Update(ctx context.Context, id string, req model.UpdateAdminUserRequest) (int64, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	if req.Email != nil && *req.Email != u.Email {
		if err := s.ensureEmailFree(ctx, *req.Email, u.ID.Hex()); err != nil {
			return 0, err
		}
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return 0, ErrInvalidRole
		}
		u.Role = *req.Role
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
		if err != nil {
			return 0, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	u.Touch(s.now().UTC())

	return s.users.Replace(ctx, u.ID, u)
}

// Delete removes an admin. Super admins and the acting admin are refused.
func (s *AdminUserService) Delete(ctx context.Context, id, actorID string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == model.RoleSuperAdmin {
		return ErrCannotDeleteSuperAdmin
	}
	if u.ID.Hex() == actorID {
		return ErrCannotDeleteSelf
	}

	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAdminNotFound
	}
	return nil
}

func (s *AdminUserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check email: %w", err)
	case existing.ID.Hex() == selfID:
		return nil
	}
	return ErrEmailExists
}
