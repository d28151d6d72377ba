package engagement

import (
	"testing"

	"github.com/cheerhub/cheerhub/internal/models"
)

func TestLikeRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	post := createPost(t, gdb, author.ID, "go team")
	viewer := Viewer{UserID: fan.ID}

	if err := svc.counters.LikePost(testCtx, viewer, post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}

	counts, err := svc.counters.ForPost(testCtx, post.ID, viewer)
	if err != nil {
		t.Fatalf("ForPost failed: %v", err)
	}
	if counts.LikesCount != 1 || !counts.IsLiked {
		t.Errorf("after like: likes=%d isLiked=%v, want 1/true", counts.LikesCount, counts.IsLiked)
	}

	if err := svc.counters.UnlikePost(testCtx, viewer, post.ID); err != nil {
		t.Fatalf("UnlikePost failed: %v", err)
	}
	counts, err = svc.counters.ForPost(testCtx, post.ID, viewer)
	if err != nil {
		t.Fatalf("ForPost failed: %v", err)
	}
	if counts.LikesCount != 0 || counts.IsLiked {
		t.Errorf("after unlike: likes=%d isLiked=%v, want 0/false", counts.LikesCount, counts.IsLiked)
	}

	// The toggle is restorable
	if err := svc.counters.LikePost(testCtx, viewer, post.ID); err != nil {
		t.Fatalf("re-LikePost failed: %v", err)
	}
}

func TestLikePostDuplicate(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	post := createPost(t, gdb, author.ID, "hello")
	viewer := Viewer{UserID: fan.ID}

	if err := svc.counters.LikePost(testCtx, viewer, post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}
	if err := svc.counters.LikePost(testCtx, viewer, post.ID); err != ErrAlreadyLiked {
		t.Errorf("duplicate LikePost = %v, want ErrAlreadyLiked", err)
	}
}

func TestUnlikeAbsentIsNoOp(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	post := createPost(t, gdb, author.ID, "hello")

	if err := svc.counters.UnlikePost(testCtx, Viewer{UserID: fan.ID}, post.ID); err != nil {
		t.Errorf("UnlikePost absent = %v, want nil", err)
	}
}

func TestLikePostMissing(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	fan := createUser(t, gdb, "fan")

	if err := svc.counters.LikePost(testCtx, Viewer{UserID: fan.ID}, 999); err != ErrPostNotFound {
		t.Errorf("LikePost missing post = %v, want ErrPostNotFound", err)
	}
}

func TestLikeRepostLandsOnOriginal(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	sharer := createUser(t, gdb, "sharer")
	fan := createUser(t, gdb, "fan")
	post := createPost(t, gdb, author.ID, "original")

	repost, err := svc.reposts.Create(testCtx, Viewer{UserID: sharer.ID}, post.ID)
	if err != nil {
		t.Fatalf("repost Create failed: %v", err)
	}

	viewer := Viewer{UserID: fan.ID}
	if err := svc.counters.LikePost(testCtx, viewer, repost.ID); err != nil {
		t.Fatalf("LikePost on repost failed: %v", err)
	}

	counts, err := svc.counters.ForPost(testCtx, post.ID, viewer)
	if err != nil {
		t.Fatalf("ForPost failed: %v", err)
	}
	if counts.LikesCount != 1 || !counts.IsLiked {
		t.Errorf("original counts after repost like: likes=%d isLiked=%v, want 1/true", counts.LikesCount, counts.IsLiked)
	}

	// Reading counts through the wrapper id reports the original's
	wrapperCounts, err := svc.counters.ForPost(testCtx, repost.ID, viewer)
	if err != nil {
		t.Fatalf("ForPost on wrapper failed: %v", err)
	}
	if wrapperCounts != counts {
		t.Errorf("wrapper counts = %+v, want the original's %+v", wrapperCounts, counts)
	}

	// Liking the wrapper and then the original is the same pair
	if err := svc.counters.LikePost(testCtx, viewer, post.ID); err != ErrAlreadyLiked {
		t.Errorf("LikePost on original after repost like = %v, want ErrAlreadyLiked", err)
	}

	// The notification goes to the original author, not the sharer.
	// The author holds two rows: the repost itself plus the like.
	if got := len(notificationsFor(t, gdb, author.ID)); got != 2 {
		t.Errorf("author notifications = %d, want 2", got)
	}
	for _, n := range notificationsFor(t, gdb, sharer.ID) {
		if n.Type == models.NotifyTypePostLiked {
			t.Error("sharer should not receive a like notification")
		}
	}
}

func TestCommentLikeRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	post := createPost(t, gdb, author.ID, "post")
	viewer := Viewer{UserID: fan.ID}

	comment, err := svc.threads.Create(testCtx, Viewer{UserID: author.ID}, post.ID, "first", nil)
	if err != nil {
		t.Fatalf("comment Create failed: %v", err)
	}

	if err := svc.counters.LikeComment(testCtx, viewer, comment.ID); err != nil {
		t.Fatalf("LikeComment failed: %v", err)
	}
	if err := svc.counters.LikeComment(testCtx, viewer, comment.ID); err != ErrAlreadyLiked {
		t.Errorf("duplicate LikeComment = %v, want ErrAlreadyLiked", err)
	}

	counts, err := svc.counters.ForComment(testCtx, comment.ID, viewer)
	if err != nil {
		t.Fatalf("ForComment failed: %v", err)
	}
	if counts.LikesCount != 1 || !counts.IsLiked {
		t.Errorf("comment counts: likes=%d isLiked=%v, want 1/true", counts.LikesCount, counts.IsLiked)
	}

	if err := svc.counters.UnlikeComment(testCtx, viewer, comment.ID); err != nil {
		t.Fatalf("UnlikeComment failed: %v", err)
	}
	if err := svc.counters.UnlikeComment(testCtx, viewer, comment.ID); err != nil {
		t.Errorf("UnlikeComment absent = %v, want nil", err)
	}
}

func TestCountsAnonymousViewer(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	author := createUser(t, gdb, "author")
	fan := createUser(t, gdb, "fan")
	post := createPost(t, gdb, author.ID, "post")

	if err := svc.counters.LikePost(testCtx, Viewer{UserID: fan.ID}, post.ID); err != nil {
		t.Fatalf("LikePost failed: %v", err)
	}

	counts, err := svc.counters.ForPost(testCtx, post.ID, Viewer{})
	if err != nil {
		t.Fatalf("ForPost failed: %v", err)
	}
	if counts.LikesCount != 1 || counts.IsLiked {
		t.Errorf("anonymous counts: likes=%d isLiked=%v, want 1/false", counts.LikesCount, counts.IsLiked)
	}
}
