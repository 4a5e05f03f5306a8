// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/store"
)

// Epoch is the creation time of the first seeded credential
var Epoch = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// New opens a migrated in-memory sqlite store closed with the test
func New(t *testing.T, clk clock.Clock) *store.Store {
	t.Helper()

	db, err := store.Open(&config.DatabaseConfig{
		Driver:      "sqlite",
		DSN:         ":memory:",
		AutoMigrate: true,
	})
	require.NoError(t, err)

	s := store.New(db, clk)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// SeedPool adds available credentials named by usernames, oldest first. Each
// credential's session cookie carries its username so fake browsers can
// script it.
func SeedPool(t *testing.T, s *store.Store, usernames ...string) []models.Credential {
	t.Helper()

	creds := make([]models.Credential, 0, len(usernames))
	for i, name := range usernames {
		c := models.Credential{
			Username:  name,
			Password:  "pw-" + name,
			Cookies:   Cookie(name),
			Status:    models.CredentialAvailable,
			CreatedAt: Epoch.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Credentials.Create(context.Background(), &c))
		creds = append(creds, c)
	}
	return creds
}

// Cookie is the session header stored for username
func Cookie(username string) string {
	return fmt.Sprintf("NetflixId=%s; SecureNetflixId=s-%s", username, username)
}

// SeedOrder creates a paid customer order assigned to username
func SeedOrder(t *testing.T, s *store.Store, username string) (*models.Customer, *models.Order) {
	t.Helper()
	ctx := context.Background()

	customer := &models.Customer{Phone: "0900" + username, Name: username, Balance: 1_000_000}
	require.NoError(t, s.Customers.Create(ctx, customer))

	order := &models.Order{
		CustomerID:      customer.ID,
		Plan:            "Netflix 30 days",
		Duration:        30,
		Amount:          50000,
		AccountEmail:    username,
		AccountPassword: "pw-" + username,
		AccountCookies:  Cookie(username),
		Status:          models.OrderPaid,
		PurchaseDate:    Epoch,
		ExpiresAt:       Epoch.AddDate(0, 0, 30),
	}
	require.NoError(t, s.Orders.Create(ctx, order))
	return customer, order
}
