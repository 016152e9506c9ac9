package pricing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lemawe69/milky-shaky-backend/internal/models"
)

func setupSnapshotDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database: " + err.Error())
	}
	if err := testDB.AutoMigrate(&models.Lookup{}); err != nil {
		panic("failed to auto-migrate models: " + err.Error())
	}
	return testDB
}

func createLookup(testDB *gorm.DB, lookupType, key, value string, active bool) {
	testDB.Create(&models.Lookup{Type: lookupType, Key: key, Value: value, Active: active})
}

func TestLoadSnapshotDefaults(t *testing.T) {
	testDB := setupSnapshotDB(t)

	snap, err := LoadSnapshot(testDB)
	assert.NoError(t, err)
	assert.Empty(t, snap.PriceTable)
	assert.Equal(t, 15.00, snap.Config.VATPercent)
	assert.Equal(t, 10, snap.Config.MaxDrinks)
	assert.Len(t, snap.Config.DiscountTiers, 3)
	assert.Equal(t, DiscountTier{MinOrders: 3, MinDrinksPerOrder: 1, Percent: 5}, snap.Config.DiscountTiers[0])
}

func TestLoadSnapshotOnlyActiveRowsPrice(t *testing.T) {
	testDB := setupSnapshotDB(t)
	createLookup(testDB, models.LookupFlavour, "Vanilla", "50.00", true)
	createLookup(testDB, models.LookupFlavour, "Banana", "55.00", false)

	snap, err := LoadSnapshot(testDB)
	assert.NoError(t, err)
	assert.Contains(t, snap.PriceTable, "flavour-Vanilla")
	assert.NotContains(t, snap.PriceTable, "flavour-Banana")
}

func TestLoadSnapshotSkipsMalformedRows(t *testing.T) {
	testDB := setupSnapshotDB(t)
	createLookup(testDB, models.LookupFlavour, "Vanilla", "50.00", true)
	createLookup(testDB, models.LookupFlavour, "Broken", "cheap", true)

	snap, err := LoadSnapshot(testDB)
	assert.NoError(t, err)
	assert.Contains(t, snap.PriceTable, "flavour-Vanilla")
	// The malformed row is skipped, not priced at zero and not fatal.
	assert.NotContains(t, snap.PriceTable, "flavour-Broken")
}

func TestLoadSnapshotConfigMerge(t *testing.T) {
	testDB := setupSnapshotDB(t)
	createLookup(testDB, models.LookupConfig, "vatPercent", "20", true)
	createLookup(testDB, models.LookupConfig, "maxDrinks", "4", true)
	createLookup(testDB, models.LookupConfig, "promoBanner", "Summer special!", true)

	snap, err := LoadSnapshot(testDB)
	assert.NoError(t, err)
	assert.Equal(t, 20.00, snap.Config.VATPercent)
	assert.Equal(t, 4, snap.Config.MaxDrinks)
	// Non-numeric config values pass through as strings.
	assert.Equal(t, "Summer special!", snap.Config.Values["promoBanner"])
}

func TestLoadSnapshotConfigLastWriteWins(t *testing.T) {
	testDB := setupSnapshotDB(t)
	// Duplicate keys cannot exist due to the unique index, so
	// last-write-wins is about rows overriding the hard defaults.
	createLookup(testDB, models.LookupConfig, "vatPercent", "banana", true)

	snap, err := LoadSnapshot(testDB)
	assert.NoError(t, err)
	// Unparseable known key keeps the default and lands in Values.
	assert.Equal(t, 15.00, snap.Config.VATPercent)
	assert.Equal(t, "banana", snap.Config.Values["vatPercent"])
}

func TestLoadSnapshotDiscountTierOverride(t *testing.T) {
	testDB := setupSnapshotDB(t)
	createLookup(testDB, models.LookupConfig, "discountTiers",
		`[{"min_orders":1,"min_drinks_per_order":1,"percent":50}]`, true)

	snap, err := LoadSnapshot(testDB)
	assert.NoError(t, err)
	assert.Len(t, snap.Config.DiscountTiers, 1)
	assert.Equal(t, 50.00, snap.Config.DiscountTiers[0].Percent)
}

func TestLoadSnapshotConfigRowsIgnoreActiveFlag(t *testing.T) {
	testDB := setupSnapshotDB(t)
	createLookup(testDB, models.LookupConfig, "vatPercent", "20", false)

	snap, err := LoadSnapshot(testDB)
	assert.NoError(t, err)
	// Config rows merge regardless of the active flag; only price rows
	// honor it.
	assert.Equal(t, 20.00, snap.Config.VATPercent)
}
