package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"artmarket/internal/domain"
	"artmarket/pkg/utils"
)

// BootstrapSuperAdmin creates the configured super admin when no user has
// that email yet. An existing account is left untouched. Without a
// configured email and password it does nothing.
func (a *App) BootstrapSuperAdmin(ctx context.Context) error {
	b := a.Cfg.Bootstrap
	email := strings.TrimSpace(b.Email)
	if email == "" {
		return nil
	}
	if b.Password == "" {
		a.Log.Warn("bootstrap.password not set, super admin not created", zap.String("email", email))
		return nil
	}
	u, err := a.Users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if !u.IsSuperAdmin() {
			a.Log.Warn("bootstrap email belongs to a non-admin account", zap.String("email", email))
		}
		return nil
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	if len(b.Password) < 6 {
		return domain.E(domain.ErrValidation, "bootstrap.password must be at least 6 characters")
	}
	hash, err := utils.HashPassword(b.Password, a.Cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(b.Name)
	if name == "" {
		name = "Super Admin"
	}
	admin := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := a.Users.Create(ctx, admin); err != nil {
		return err
	}
	a.Log.Info("super admin created", zap.String("email", email), zap.String("id", admin.ID))
	return nil
}
