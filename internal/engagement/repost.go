package engagement

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
)

// Reposts manages repost wrappers. A repost is a Post row pointing at
// its original; chains and self-reposts are rejected, and each user gets
// at most one repost per original.
type Reposts struct {
	db       *gorm.DB
	posts    *Posts
	notifier *Notifier
}

// NewReposts creates a new reposts service
func NewReposts(gdb *gorm.DB, posts *Posts, notifier *Notifier) *Reposts {
	return &Reposts{db: gdb, posts: posts, notifier: notifier}
}

// Create shares another user's post onto the viewer's feed
func (r *Reposts) Create(ctx context.Context, viewer Viewer, postID int64) (*PostView, error) {
	repo := db.NewRepository(r.db)
	posts := db.NewPostRepository(repo)

	original, err := posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, ErrPostNotFound
	}
	if original.IsRepost() {
		return nil, ErrRepostOfRepost
	}
	if original.AuthorID == viewer.UserID {
		return nil, ErrSelfRepost
	}

	existing, err := posts.GetRepostBy(ctx, viewer.UserID, original.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyReposted
	}

	repost := &models.Post{
		AuthorID:       viewer.UserID,
		OriginalPostID: sql.NullInt64{Int64: original.ID, Valid: true},
		CreatedAt:      time.Now().UTC(),
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.NewPostRepository(db.NewRepository(tx)).Create(ctx, repost); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReposted
			}
			return err
		}
		return r.notifier.Notify(ctx, tx, Event{
			Type:        models.NotifyTypePostReposted,
			ActorID:     viewer.UserID,
			RecipientID: original.AuthorID,
			RelatedID:   original.ID,
			RelatedType: models.RelatedPost,
		})
	})
	if err != nil {
		return nil, err
	}
	return r.posts.Render(ctx, viewer, repost)
}

// Delete removes the viewer's repost of a post; the original is never
// touched
func (r *Reposts) Delete(ctx context.Context, viewer Viewer, postID int64) error {
	posts := db.NewPostRepository(db.NewRepository(r.db))

	repost, err := posts.GetRepostBy(ctx, viewer.UserID, postID)
	if err != nil {
		return err
	}
	if repost == nil {
		return ErrRepostNotFound
	}
	return posts.Delete(ctx, repost.ID)
}
