package engagement

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory sqlite database with the full
// schema. cache=shared plus a single connection keeps the database
// alive and serialized for the test's lifetime.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:engagement_test_%d?mode=memory&cache=shared&_foreign_keys=on", testDBSeq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return gdb
}

type services struct {
	notifier *Notifier
	counters *Counters
	threads  *Threads
	posts    *Posts
	feed     *Feed
	reposts  *Reposts
	graph    *Graph
	msgr     *Messenger
}

func newServices(gdb *gorm.DB) *services {
	notifier := NewNotifier(gdb)
	counters := NewCounters(gdb, notifier)
	posts := NewPosts(gdb, counters)
	return &services{
		notifier: notifier,
		counters: counters,
		threads:  NewThreads(gdb, notifier),
		posts:    posts,
		feed:     NewFeed(gdb, posts),
		reposts:  NewReposts(gdb, posts, notifier),
		graph:    NewGraph(gdb, notifier),
		msgr:     NewMessenger(gdb, notifier),
	}
}

func createUser(t *testing.T, gdb *gorm.DB, handle string) *models.User {
	t.Helper()
	user := &models.User{
		Handle:                     handle,
		DisplayName:                handle,
		PasswordHash:               "x",
		CreatedAt:                  time.Now().UTC(),
		NotifyOnLike:               true,
		NotifyOnComment:            true,
		NotifyOnReply:              true,
		NotifyOnConnectionRequest:  true,
		NotifyOnConnectionAccepted: true,
		NotifyOnMessage:            true,
		NotifyOnRepost:             true,
		NotifyOnTeamInvite:         true,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", handle, err)
	}
	return user
}

func createPost(t *testing.T, gdb *gorm.DB, authorID int64, content string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := gdb.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func createTeam(t *testing.T, gdb *gorm.DB, name, slug string) *models.Team {
	t.Helper()
	team := &models.Team{
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	if err := gdb.Create(team).Error; err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	return team
}

// connect creates an accepted connection between two users directly
func connect(t *testing.T, gdb *gorm.DB, a, b int64) *models.Connection {
	t.Helper()
	pairMin, pairMax := models.NormalizePair(a, b)
	conn := &models.Connection{
		RequesterID: a,
		AddresseeID: b,
		PairMin:     pairMin,
		PairMax:     pairMax,
		Status:      models.ConnectionAccepted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := gdb.Create(conn).Error; err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	return conn
}

func notificationsFor(t *testing.T, gdb *gorm.DB, recipientID int64) []*models.Notification {
	t.Helper()
	var notifs []*models.Notification
	if err := gdb.Where("recipient_id = ?", recipientID).Order("id ASC").Find(&notifs).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	return notifs
}

func likeComment(t *testing.T, gdb *gorm.DB, userID, commentID int64) {
	t.Helper()
	like := &models.CommentLike{
		UserID:    userID,
		CommentID: commentID,
		CreatedAt: time.Now().UTC(),
	}
	if err := gdb.Create(like).Error; err != nil {
		t.Fatalf("failed to like comment: %v", err)
	}
}

var testCtx = context.Background()
