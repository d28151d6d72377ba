package engagement

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
)

// Posts manages post creation and viewer-specific rendering
type Posts struct {
	db       *gorm.DB
	counters *Counters
}

// NewPosts creates a new posts service
func NewPosts(gdb *gorm.DB, counters *Counters) *Posts {
	return &Posts{db: gdb, counters: counters}
}

// Create publishes a post, optionally on a team's page
func (p *Posts) Create(ctx context.Context, viewer Viewer, content string, media []string, teamID *int64) (*PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(media) == 0 {
		return nil, ErrEmptyContent
	}

	post := &models.Post{
		AuthorID:  viewer.UserID,
		Content:   content,
		Media:     media,
		CreatedAt: time.Now().UTC(),
	}
	if teamID != nil {
		teams := db.NewTeamRepository(db.NewRepository(p.db))
		team, err := teams.GetByID(ctx, *teamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, ErrTeamNotFound
		}
		post.TeamID = sql.NullInt64{Int64: team.ID, Valid: true}
	}

	if err := db.NewPostRepository(db.NewRepository(p.db)).Create(ctx, post); err != nil {
		return nil, err
	}
	return p.Render(ctx, viewer, post)
}

// Get returns a single post decorated for the viewer
func (p *Posts) Get(ctx context.Context, viewer Viewer, postID int64) (*PostView, error) {
	posts := db.NewPostRepository(db.NewRepository(p.db))
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return p.Render(ctx, viewer, post)
}

// Render decorates a post for the viewer. A repost wrapper embeds the
// fully decorated original; the wrapper itself carries the original's
// counts and like state, so clients can treat either shape uniformly.
func (p *Posts) Render(ctx context.Context, viewer Viewer, post *models.Post) (*PostView, error) {
	repo := db.NewRepository(p.db)
	users := db.NewUserRepository(repo)

	author, err := users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	view := &PostView{
		ID:        post.ID,
		Author:    summarize(author),
		Content:   post.Content,
		Media:     post.Media,
		CreatedAt: post.CreatedAt,
	}
	if post.TeamID.Valid {
		teamID := post.TeamID.Int64
		view.TeamID = &teamID
	}

	if post.IsRepost() {
		posts := db.NewPostRepository(repo)
		original, err := posts.GetByID(ctx, post.OriginalPostID.Int64)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return nil, ErrPostNotFound
		}
		if view.Original, err = p.Render(ctx, viewer, original); err != nil {
			return nil, err
		}
		view.PostCounts = view.Original.PostCounts
		return view, nil
	}

	if view.PostCounts, err = p.counters.ForPost(ctx, post.ID, viewer); err != nil {
		return nil, err
	}
	return view, nil
}

// RenderAll decorates a batch of posts preserving order
func (p *Posts) RenderAll(ctx context.Context, viewer Viewer, posts []*models.Post) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		view, err := p.Render(ctx, viewer, post)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
