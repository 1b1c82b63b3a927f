package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
)

// AdminAccount describes the operator account created by EnsureSiteAdmin.
type AdminAccount struct {
	Username string
	Name     string
	Email    string
	Password string
}

// EnsureSiteAdmin creates the account when the username is free and makes it a site admin.
// An existing account keeps its password. It reports whether the role was newly granted.
func EnsureSiteAdmin(ctx context.Context, container *portssvc.ServiceContainer, account AdminAccount) (*domain.User, bool, error) {
	user, err := container.User.GetUserByUsername(ctx, account.Username)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		name := account.Name
		if name == "" {
			name = account.Username
		}
		user, err = container.User.CreateUser(ctx, account.Username, name, account.Email, account.Password, "")
		if err != nil {
			return nil, false, fmt.Errorf("creating admin user %q: %w", account.Username, err)
		}
	case err != nil:
		return nil, false, fmt.Errorf("looking up admin user %q: %w", account.Username, err)
	}

	granted, err := container.Role.BootstrapSiteAdmin(ctx, user.UserID)
	if err != nil {
		return nil, false, err
	}
	return user, granted, nil
}
