// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"anoa.com/bloggerplatform/internal/bootstrap"
	"anoa.com/bloggerplatform/internal/entity"
	"anoa.com/bloggerplatform/pkg/database"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
// A single connection keeps every goroutine on the same in-memory database
// and serializes sqlite writers.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewFileDB opens a file-backed sqlite database through the production
// connection factory with a real connection pool, so concurrent
// transactions interleave the way they do in a deployment.
func NewFileDB(t testing.TB, maxOpenConns int) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver:       "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "reactions.db"),
		MaxOpenConns: maxOpenConns,
		LogLevel:     logger.Silent,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, login string) *entity.User {
	t.Helper()
	u := &entity.User{Login: login, Email: login + "@example.com"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreatePost(t testing.TB, db *gorm.DB, title string) *entity.Post {
	t.Helper()
	p := &entity.Post{
		BlogID:   uuid.New(),
		BlogName: "engineering",
		Title:    title,
		Content:  "content of " + title,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func CreateComment(t testing.TB, db *gorm.DB, post *entity.Post, author *entity.User) *entity.Comment {
	t.Helper()
	c := &entity.Comment{
		PostID:           post.ID,
		Content:          "a comment long enough to pass validation",
		CommentatorID:    author.ID,
		CommentatorLogin: author.Login,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

// Fixtures binds the create helpers to one test and database.
type Fixtures struct {
	t  testing.TB
	db *gorm.DB
}

func NewFixtures(t testing.TB, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) User(login string) *entity.User {
	f.t.Helper()
	return CreateUser(f.t, f.db, login)
}

func (f *Fixtures) Post(title string) *entity.Post {
	f.t.Helper()
	return CreatePost(f.t, f.db, title)
}

func (f *Fixtures) Comment(post *entity.Post, author *entity.User) *entity.Comment {
	f.t.Helper()
	return CreateComment(f.t, f.db, post, author)
}
