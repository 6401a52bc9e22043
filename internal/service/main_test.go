package service

import (
	"testing"
	"time"

	"oqunet/internal/model"
	"oqunet/internal/repository/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection so the in-memory database is shared across the
	// pool and transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.Book{},
		&model.BookHistory{},
		&model.Message{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string, communityID *uint64) *model.User {
	t.Helper()
	user := &model.User{
		Name:        name,
		Email:       name + "@example.com",
		Password:    "x",
		Role:        role,
		CommunityID: communityID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCommunity(t *testing.T, db *gorm.DB, name, code string, ownerID *uint64) *model.Community {
	t.Helper()
	community := &model.Community{
		Name:       name,
		AccessCode: model.NormalizeAccessCode(code),
		OwnerID:    ownerID,
	}
	require.NoError(t, db.Create(community).Error)
	return community
}

func createBook(t *testing.T, db *gorm.DB, title string, communityID uint64, borrowDays int) *model.Book {
	t.Helper()
	book := &model.Book{
		Title:       title,
		CommunityID: communityID,
		BorrowDays:  borrowDays,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func reloadUser(t *testing.T, db *gorm.DB, id uint64) *model.User {
	t.Helper()
	user, err := (&mysql.UserRepository{DB: db}).FindByID(id)
	require.NoError(t, err)
	return user
}

func reloadBook(t *testing.T, db *gorm.DB, id uint64) *model.Book {
	t.Helper()
	book, err := (&mysql.BookRepository{DB: db}).FindByID(id)
	require.NoError(t, err)
	return book
}

func holdBook(t *testing.T, db *gorm.DB, bookID, userID uint64, since time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&model.Book{}).Where("id = ?", bookID).
		Updates(map[string]any{"current_holder_id": userID, "borrowed_at": since}).Error)
}
