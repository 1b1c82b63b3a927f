package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/core/services"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	"github.com/SscSPs/editorial_workflow/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSiteAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{JWTSecret: "s", JWTIssuer: "i", JWTExpiryDuration: time.Hour, VersionCreateMaxAttempts: 3}
	container := services.NewServiceContainer(cfg, memory.NewStore().Provider(), nil)
	account := services.AdminAccount{Username: "root", Email: "root@example.org", Password: "initial-password"}

	user, granted, err := services.EnsureSiteAdmin(ctx, container, account)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, "root", user.Name)

	ok, err := container.Authorizer.IsAuthorized(ctx, user.UserID, nil, domain.SiteScope())
	require.NoError(t, err)
	assert.True(t, ok)

	report, err := container.Role.CheckRoleConsistency(ctx, user.UserID, nil)
	require.NoError(t, err)
	assert.True(t, report.Consistent(), "bootstrap writes both role forms")

	account.Password = "another-password"
	again, granted, err := services.EnsureSiteAdmin(ctx, container, account)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, user.UserID, again.UserID)

	_, err = container.User.AuthenticateUser(ctx, "root", "initial-password")
	assert.NoError(t, err, "an existing account keeps its password")
}

func TestEnsureSiteAdmin_ShortPassword(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s", VersionCreateMaxAttempts: 3}
	container := services.NewServiceContainer(cfg, memory.NewStore().Provider(), nil)

	_, _, err := services.EnsureSiteAdmin(context.Background(), container, services.AdminAccount{Username: "root", Password: "short"})
	assert.Error(t, err)
}
