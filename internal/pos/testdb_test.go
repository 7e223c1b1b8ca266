package pos

import (
	"testing"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedStaff(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, PasswordHash: "irrelevant", Role: models.RoleCashier, Active: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price int64) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: price}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func newActiveCart(t *testing.T, db *gorm.DB, staffID uint) *models.Cart {
	t.Helper()
	cart, err := CreateCart(db, &staffID)
	require.NoError(t, err)
	return cart
}

// backdate rewrites a cart's creation instant so hold-expiry scenarios can
// cross the business-day cutover.
func backdate(t *testing.T, db *gorm.DB, cartID uint, to any) {
	t.Helper()
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", cartID).Update("created_at", to).Error)
}
