package engagement

import (
	"testing"

	"github.com/cheerhub/cheerhub/internal/models"
)

func TestNotifySuppressesSelf(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	post := createPost(t, gdb, author.ID, "post")

	if err := svc.counters.LikePost(testCtx, Viewer{UserID: author.ID}, post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}
	if got := len(notificationsFor(t, gdb, author.ID)); got != 0 {
		t.Errorf("self-like produced %d notifications, want 0", got)
	}
}

func TestNotifyPreferenceGating(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	post := createPost(t, gdb, author.ID, "post")

	author.NotifyOnLike = false
	if err := gdb.Save(author).Error; err != nil {
		t.Fatalf("failed to update preferences: %v", err)
	}

	if err := svc.counters.LikePost(testCtx, Viewer{UserID: fan.ID}, post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}
	if got := len(notificationsFor(t, gdb, author.ID)); got != 0 {
		t.Errorf("gated like produced %d notifications, want 0", got)
	}

	// The like itself still landed
	counts, err := svc.counters.ForPost(testCtx, post.ID, Viewer{})
	if err != nil {
		t.Fatalf("ForPost failed: %v", err)
	}
	if counts.LikesCount != 1 {
		t.Errorf("likes = %d, want 1", counts.LikesCount)
	}

	// Comments use a separate flag and still fan out
	if _, err := svc.threads.Create(testCtx, Viewer{UserID: fan.ID}, post.ID, "hi", nil); err != nil {
		t.Fatalf("comment Create failed: %v", err)
	}
	notifs := notificationsFor(t, gdb, author.ID)
	if len(notifs) != 1 || notifs[0].Type != models.NotifyTypePostCommented {
		t.Fatalf("notifications after comment = %d, want 1 post_commented", len(notifs))
	}
}

func TestNotificationMessageRendering(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	fan.DisplayName = "Megaphone Mel"
	if err := gdb.Save(fan).Error; err != nil {
		t.Fatalf("failed to update user: %v", err)
	}
	post := createPost(t, gdb, author.ID, "post")

	if err := svc.counters.LikePost(testCtx, Viewer{UserID: fan.ID}, post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}

	notifs := notificationsFor(t, gdb, author.ID)
	if len(notifs) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "Megaphone Mel liked your post" {
		t.Errorf("message = %q", notifs[0].Message)
	}

	// Renaming the actor later must not rewrite the stored message
	fan.DisplayName = "Quiet Quinn"
	if err := gdb.Save(fan).Error; err != nil {
		t.Fatalf("failed to rename user: %v", err)
	}
	views, err := svc.notifier.List(testCtx, Viewer{UserID: author.ID}, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != 1 || views[0].Message != "Megaphone Mel liked your post" {
		t.Errorf("message after rename = %q, want the original rendering", views[0].Message)
	}
}

func TestNotificationListChangesSince(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	viewer := Viewer{UserID: author.ID}

	for i := 0; i < 3; i++ {
		post := createPost(t, gdb, author.ID, "post")
		if err := svc.counters.LikePost(testCtx, Viewer{UserID: fan.ID}, post.ID); err != nil {
			t.Fatalf("LikePost failed: %v", err)
		}
	}

	newest, err := svc.notifier.List(testCtx, viewer, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(newest) != 3 {
		t.Fatalf("notifications = %d, want 3", len(newest))
	}
	if newest[0].ID < newest[1].ID {
		t.Error("default listing should be newest first")
	}

	// Pull everything after the oldest id, oldest first
	oldest := newest[len(newest)-1].ID
	delta, err := svc.notifier.List(testCtx, viewer, oldest, 10)
	if err != nil {
		t.Fatalf("List after failed: %v", err)
	}
	if len(delta) != 2 {
		t.Fatalf("delta = %d, want 2", len(delta))
	}
	if delta[0].ID >= delta[1].ID {
		t.Error("changes-since listing should be oldest first")
	}
	if delta[0].ID <= oldest {
		t.Error("changes-since listing must be strictly after the cursor")
	}
}

func TestNotificationReadState(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	other := createUser(t, gdb, "other")
	viewer := Viewer{UserID: author.ID}

	post := createPost(t, gdb, author.ID, "post")
	if err := svc.counters.LikePost(testCtx, Viewer{UserID: fan.ID}, post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}
	if _, err := svc.threads.Create(testCtx, Viewer{UserID: fan.ID}, post.ID, "hi", nil); err != nil {
		t.Fatalf("comment Create failed: %v", err)
	}

	count, err := svc.notifier.UnreadCount(testCtx, viewer)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("unread = %d, want 2", count)
	}

	notifs := notificationsFor(t, gdb, author.ID)

	// Another user cannot mark someone else's notifications
	if err := svc.notifier.MarkRead(testCtx, Viewer{UserID: other.ID}, []int64{notifs[0].ID}); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if count, _ = svc.notifier.UnreadCount(testCtx, viewer); count != 2 {
		t.Errorf("unread after foreign MarkRead = %d, want 2", count)
	}

	if err := svc.notifier.MarkRead(testCtx, viewer, []int64{notifs[0].ID}); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if count, _ = svc.notifier.UnreadCount(testCtx, viewer); count != 1 {
		t.Errorf("unread after MarkRead = %d, want 1", count)
	}

	// Marking the same row again is a no-op
	if err := svc.notifier.MarkRead(testCtx, viewer, []int64{notifs[0].ID}); err != nil {
		t.Fatalf("repeat MarkRead failed: %v", err)
	}

	if err := svc.notifier.MarkAllRead(testCtx, viewer); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if count, _ = svc.notifier.UnreadCount(testCtx, viewer); count != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", count)
	}
}
