// Package cli holds fixtures for command tests. It lives apart from testutil
// so service tests importing testutil do not pull in the app package.
package cli

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/motoloc/motocrm/internal/app"
	clipkg "github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/config"
	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/testutil"
)

// TestUserEmail is the account CreateTestUser registers
const TestUserEmail = "rider@example.com"

// SetupCLITest creates an in-memory app and a context carrying the CLI
func SetupCLITest(t *testing.T) (context.Context, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	cfg := &config.Config{
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour, Issuer: "motocrm"},
		Timezone: "UTC",
		FollowUp: config.FollowUpConfig{PollInterval: time.Minute},
	}
	// EventPublisher is left unset, event publishing is tested elsewhere
	a, err := app.New(context.Background(), db, cfg, app.WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	return clipkg.WithCLI(context.Background(), clipkg.NewFromApp(a)), a
}

// CreateTestUser signs up TestUserEmail with the default board
func CreateTestUser(t *testing.T, a *app.App) *models.User {
	t.Helper()
	user, err := a.Auth.SignUp(context.Background(), TestUserEmail, "secret1")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}
