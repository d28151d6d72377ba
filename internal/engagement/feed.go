package engagement

import (
	"context"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
)

// FeedPage is one page of the viewer's feed. NextCursor is zero on the
// last page.
type FeedPage struct {
	Posts      []PostView `json:"posts"`
	NextCursor int64      `json:"nextCursor,omitempty"`
	HasMore    bool       `json:"hasMore"`
}

// Feed assembles the viewer-specific activity feed. The visible set is
// the viewer, their accepted connections in either direction, and the
// teams they follow; it is recomputed per request, so accepting a
// connection changes the very next page.
type Feed struct {
	db    *gorm.DB
	posts *Posts
}

// NewFeed creates a new feed assembler
func NewFeed(gdb *gorm.DB, posts *Posts) *Feed {
	return &Feed{db: gdb, posts: posts}
}

// Page returns one keyset page of the viewer's feed, newest first
func (f *Feed) Page(ctx context.Context, viewer Viewer, cursor int64, limit int) (*FeedPage, error) {
	limit = clampLimit(limit)

	repo := db.NewRepository(f.db)
	connections := db.NewConnectionRepository(repo)
	teams := db.NewTeamRepository(repo)

	peers, err := connections.AcceptedPeerIDs(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	authorIDs := append([]int64{viewer.UserID}, peers...)

	teamIDs, err := teams.FollowedTeamIDs(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	rows, err := db.NewPostRepository(repo).ListFeed(ctx, authorIDs, teamIDs, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{Posts: []PostView{}}
	if len(rows) > limit {
		rows = rows[:limit]
		page.HasMore = true
		page.NextCursor = rows[len(rows)-1].ID
	}

	if page.Posts, err = f.posts.RenderAll(ctx, viewer, rows); err != nil {
		return nil, err
	}
	return page, nil
}
