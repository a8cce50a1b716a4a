package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/postline/postline/models"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory SQLite database per test and migrates the
// full schema. The shared-cache DSN keeps the database alive across pooled
// connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createGroup(t *testing.T, db *gorm.DB, title, slug string) *models.Group {
	t.Helper()
	group := models.Group{Title: title, Slug: slug, Description: "test group"}
	require.NoError(t, db.Create(&group).Error)
	return &group
}

// createPostAt seeds a post with an explicit creation time, bypassing the
// service so ordering scenarios can control timestamps.
func createPostAt(t *testing.T, db *gorm.DB, user *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	post := models.Post{UserID: user.ID, Text: text, CreatedAt: at}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}
