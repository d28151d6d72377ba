package engagement

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
)

// Counters computes live engagement aggregates and owns the like
// toggles. Counts are never cached or denormalized; they are COUNT
// queries over the underlying rows, so they can never drift.
type Counters struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewCounters creates a new counters service
func NewCounters(gdb *gorm.DB, notifier *Notifier) *Counters {
	return &Counters{db: gdb, notifier: notifier}
}

// ForPost returns the post's aggregates decorated for the viewer. A
// repost wrapper id resolves to the original first, so counts read the
// same whichever id a client holds. For an anonymous viewer isLiked is
// always false.
func (c *Counters) ForPost(ctx context.Context, postID int64, viewer Viewer) (PostCounts, error) {
	repo := db.NewRepository(c.db)
	likes := db.NewLikeRepository(repo)
	comments := db.NewCommentRepository(repo)
	posts := db.NewPostRepository(repo)

	var counts PostCounts

	post, err := resolvePost(ctx, posts, postID)
	if err != nil {
		return counts, err
	}
	postID = post.ID

	if counts.LikesCount, err = likes.CountForPost(ctx, postID); err != nil {
		return counts, err
	}
	if counts.CommentsCount, err = comments.CountForPost(ctx, postID); err != nil {
		return counts, err
	}
	if counts.RepostsCount, err = posts.CountReposts(ctx, postID); err != nil {
		return counts, err
	}
	if !viewer.Anonymous() {
		if counts.IsLiked, err = likes.Exists(ctx, viewer.UserID, postID); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

// ForComment returns the comment's aggregates decorated for the viewer
func (c *Counters) ForComment(ctx context.Context, commentID int64, viewer Viewer) (CommentCounts, error) {
	repo := db.NewRepository(c.db)
	likes := db.NewCommentLikeRepository(repo)
	comments := db.NewCommentRepository(repo)

	var counts CommentCounts
	var err error

	if counts.LikesCount, err = likes.CountForComment(ctx, commentID); err != nil {
		return counts, err
	}
	if counts.RepliesCount, err = comments.CountReplies(ctx, commentID); err != nil {
		return counts, err
	}
	if !viewer.Anonymous() {
		if counts.IsLiked, err = likes.Exists(ctx, viewer.UserID, commentID); err != nil {
			return counts, err
		}
	}
	return counts, nil
}

// LikePost adds the viewer's like. Engagement on a repost wrapper always
// lands on the original. A duplicate pair is a domain error, not a
// retry; racing inserts are caught by the unique index.
func (c *Counters) LikePost(ctx context.Context, viewer Viewer, postID int64) error {
	post, err := c.resolvePost(ctx, postID)
	if err != nil {
		return err
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := db.NewLikeRepository(db.NewRepository(tx))

		exists, err := likes.Exists(ctx, viewer.UserID, post.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyLiked
		}

		like := &models.Like{
			UserID:    viewer.UserID,
			PostID:    post.ID,
			CreatedAt: time.Now().UTC(),
		}
		if err := likes.Create(ctx, like); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}

		return c.notifier.Notify(ctx, tx, Event{
			Type:        models.NotifyTypePostLiked,
			ActorID:     viewer.UserID,
			RecipientID: post.AuthorID,
			RelatedID:   post.ID,
			RelatedType: models.RelatedPost,
		})
	})
}

// UnlikePost removes the viewer's like; removing an absent like is a
// no-op, so the toggle is safe to repeat
func (c *Counters) UnlikePost(ctx context.Context, viewer Viewer, postID int64) error {
	post, err := c.resolvePost(ctx, postID)
	if err != nil {
		return err
	}

	likes := db.NewLikeRepository(db.NewRepository(c.db))
	_, err = likes.Delete(ctx, viewer.UserID, post.ID)
	return err
}

// LikeComment adds the viewer's like on a comment
func (c *Counters) LikeComment(ctx context.Context, viewer Viewer, commentID int64) error {
	comments := db.NewCommentRepository(db.NewRepository(c.db))
	comment, err := comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := db.NewCommentLikeRepository(db.NewRepository(tx))

		exists, err := likes.Exists(ctx, viewer.UserID, commentID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyLiked
		}

		like := &models.CommentLike{
			UserID:    viewer.UserID,
			CommentID: commentID,
			CreatedAt: time.Now().UTC(),
		}
		if err := likes.Create(ctx, like); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}

		return c.notifier.Notify(ctx, tx, Event{
			Type:        models.NotifyTypeCommentLiked,
			ActorID:     viewer.UserID,
			RecipientID: comment.AuthorID,
			RelatedID:   comment.ID,
			RelatedType: models.RelatedComment,
		})
	})
}

// UnlikeComment removes the viewer's like on a comment; no-op safe
func (c *Counters) UnlikeComment(ctx context.Context, viewer Viewer, commentID int64) error {
	comments := db.NewCommentRepository(db.NewRepository(c.db))
	comment, err := comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}

	likes := db.NewCommentLikeRepository(db.NewRepository(c.db))
	_, err = likes.Delete(ctx, viewer.UserID, commentID)
	return err
}

func (c *Counters) resolvePost(ctx context.Context, postID int64) (*models.Post, error) {
	return resolvePost(ctx, db.NewPostRepository(db.NewRepository(c.db)), postID)
}

// resolvePost loads a post and follows a repost wrapper to its original,
// so engagement always lands on the real post
func resolvePost(ctx context.Context, posts *db.PostRepository, postID int64) (*models.Post, error) {
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.IsRepost() {
		original, err := posts.GetByID(ctx, post.OriginalPostID.Int64)
		if err != nil {
			return nil, err
		}
		if original == nil {
			return nil, ErrPostNotFound
		}
		return original, nil
	}
	return post, nil
}
