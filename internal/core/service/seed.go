package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mylaundry/order-system/internal/core/domain"
	"github.com/mylaundry/order-system/internal/core/ports"
)

// AdminSeed describes the bootstrap admin account.
type AdminSeed struct {
	Username string
	Password string
	FullName string
	Cost     int
}

// EnsureAdmin creates the admin account when its username is free. An
// existing account is left untouched.
func EnsureAdmin(ctx context.Context, users ports.UserRepository, seed AdminSeed, log zerolog.Logger) error {
	if seed.Username == "" || seed.Password == "" {
		log.Warn().Msg("admin seed skipped: username or password not configured")
		return nil
	}

	_, err := users.FindByUsername(ctx, seed.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	cost := seed.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), cost)
	if err != nil {
		return err
	}

	fullName := seed.FullName
	if fullName == "" {
		fullName = "Administrator"
	}
	admin := &domain.User{
		FullName:     fullName,
		Username:     seed.Username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil
		}
		return err
	}

	log.Info().Int64("user_id", admin.ID).Str("username", admin.Username).Msg("admin account seeded")
	return nil
}

// EnsureCatalog fills an empty catalog with the default services.
func EnsureCatalog(ctx context.Context, catalog ports.CatalogRepository, log zerolog.Logger) error {
	n, err := catalog.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, svc := range domain.DefaultCatalog() {
		svc := svc
		if err := catalog.Create(ctx, &svc); err != nil {
			return err
		}
	}
	log.Info().Int("services", len(domain.DefaultCatalog())).Msg("service catalog seeded")
	return nil
}
