// Package modelstest provides an in-memory database and record factories
// for tests.
package modelstest

import (
	"fmt"
	"testing"
	"time"

	"github.com/gamestore/store-admin/config"
	"github.com/gamestore/store-admin/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Paging is the default pagination used by repositories under test.
var Paging = config.DefaultPagination()

// Open returns a migrated sqlite database private to the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

func Count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateCategories(t *testing.T, db *gorm.DB, n int) []*models.Category {
	t.Helper()
	out := make([]*models.Category, n)
	for i := range out {
		out[i] = CreateCategory(t, db, fmt.Sprintf("Category %s", uuid.NewString()[:8]))
	}
	return out
}

func CreateSystemRequirement(t *testing.T, db *gorm.DB) *models.SystemRequirement {
	t.Helper()
	s := &models.SystemRequirement{
		Name:              "Requirement " + uuid.NewString()[:8],
		OperationalSystem: "Windows 10",
		Storage:           "500 Gb",
		Processor:         "AMD Ryzen 7",
		Memory:            "2 Gb",
		VideoBoard:        "GeForce X",
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateGame(t *testing.T, db *gorm.DB) *models.Game {
	t.Helper()
	release := time.Date(2020, 11, 6, 10, 23, 25, 0, time.UTC)
	g := &models.Game{
		Mode:                models.GamePvP,
		ReleaseDate:         &release,
		Developer:           "Developer " + uuid.NewString()[:8],
		SystemRequirementID: CreateSystemRequirement(t, db).ID,
	}
	require.NoError(t, db.Create(g).Error)
	return g
}

// CreateProduct stores a game product linked to categories.
func CreateProduct(t *testing.T, db *gorm.DB, name string, categories ...*models.Category) *models.Product {
	t.Helper()
	g := CreateGame(t, db)
	p := &models.Product{
		Name:            name,
		Description:     "A game",
		Price:           decimal.RequireFromString("19.99"),
		Status:          models.ProductAvailable,
		ProductableType: g.Kind(),
		ProductableID:   g.ID,
		Productable:     g,
	}
	require.NoError(t, db.Create(p).Error)
	for _, c := range categories {
		require.NoError(t, db.Create(&models.ProductCategory{ProductID: p.ID, CategoryID: c.ID}).Error)
		p.Categories = append(p.Categories, *c)
	}
	return p
}

func CreateCoupon(t *testing.T, db *gorm.DB, code string) *models.Coupon {
	t.Helper()
	c := &models.Coupon{
		Code:          code,
		Status:        models.CouponActive,
		DiscountValue: decimal.RequireFromString("10"),
		DueDate:       time.Now().Add(72 * time.Hour),
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateLicense(t *testing.T, db *gorm.DB, key string, game *models.Game) *models.License {
	t.Helper()
	l := &models.License{
		Key:      key,
		GameID:   game.ID,
		Status:   models.LicenseAvailable,
		Platform: models.PlatformSteam,
	}
	require.NoError(t, db.Create(l).Error)
	return l
}

// CreateUser stores a user whose password is "secret123".
func CreateUser(t *testing.T, db *gorm.DB, profile models.UserProfile) *models.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Name:           "User",
		Email:          uuid.NewString()[:8] + "@example.com",
		PasswordDigest: string(digest),
		Profile:        profile,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
