package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/app/models"
	"github.com/yigit/eventhub/internal/pkg/apperrors"
	"github.com/yigit/eventhub/internal/pkg/auth"
)

// AdminAccount is the bootstrap administrator taken from configuration
type AdminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AdminStore is the subset of the user repository needed for seeding
type AdminStore interface {
	AdminExists(ctx context.Context) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

// EnsureAdmin creates the configured administrator when no ADMIN account exists yet.
// It is a no-op when no admin email is configured.
func EnsureAdmin(ctx context.Context, users AdminStore, account AdminAccount, lgr zerolog.Logger) error {
	if strings.TrimSpace(account.Email) == "" {
		lgr.Info().Msg("No bootstrap admin configured, skipping admin seed")
		return nil
	}

	exists, err := users.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for admin accounts: %w", err)
	}
	if exists {
		lgr.Debug().Msg("Admin user already exists, skipping creation")
		return nil
	}

	if len(account.Password) < 8 {
		return errors.New("bootstrap admin password must be at least 8 characters")
	}
	hashed, err := auth.HashPassword(account.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:     strings.TrimSpace(account.Email),
		Password:  hashed,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		RoleType:  models.RoleAdmin,
		IsActive:  true,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return fmt.Errorf("bootstrap admin email %s is taken by a non-admin account", admin.Email)
		}
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Str("email", admin.Email).Msg("Default admin user created successfully")
	return nil
}
