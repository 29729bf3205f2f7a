// Package dbtest opens migrated in-memory sqlite databases and inserts fixtures for package tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/migrate"
)

// Open returns a client over a fresh named in-memory database with the full schema.
func Open(t testing.TB) *db.Client {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()),
	}
	client, err := db.New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := migrate.AutoMigrate(context.Background(), client.DB()); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return client
}

// MustCreateAccount inserts an active shopper with the given email.
func MustCreateAccount(t testing.TB, conn *gorm.DB, email string) *models.Account {
	t.Helper()
	account := &models.Account{
		Name:         "Test " + strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: "hash",
		IsActive:     true,
	}
	if err := conn.Create(account).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

// MustCreateProduct inserts an in-stock product.
func MustCreateProduct(t testing.TB, conn *gorm.DB, title, price string, section enums.Section) *models.Product {
	t.Helper()
	product := &models.Product{
		Title:       title,
		Price:       price,
		Image:       "images/test.jpg",
		Section:     section,
		Description: title + " description",
		InStock:     true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

// MustCreateAddress inserts an address for the account.
func MustCreateAddress(t testing.TB, conn *gorm.DB, accountID uint, isDefault bool) *models.Address {
	t.Helper()
	address := &models.Address{
		AccountID:   accountID,
		Name:        "Recipient",
		Phone:       "9876543210",
		Line1:       "12 MG Road",
		City:        "Bengaluru",
		State:       "Karnataka",
		PostalCode:  "560001",
		AddressType: enums.AddressTypeHome,
		IsDefault:   isDefault,
	}
	if err := conn.Create(address).Error; err != nil {
		t.Fatalf("create address: %v", err)
	}
	return address
}
