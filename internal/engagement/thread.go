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

// Comment sort orders
const (
	SortRecent  = "recent"
	SortPopular = "popular"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	inlineReplies   = 3
)

// ThreadPage is one page of a post's top-level comments. NextCursor is
// zero on the last page.
type ThreadPage struct {
	Comments   []CommentView `json:"comments"`
	NextCursor int64         `json:"nextCursor,omitempty"`
	HasMore    bool          `json:"hasMore"`
}

// Threads manages a post's comment tree. Nesting is one level deep;
// replies to replies are rejected outright.
type Threads struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewThreads creates a new thread store
func NewThreads(gdb *gorm.DB, notifier *Notifier) *Threads {
	return &Threads{db: gdb, notifier: notifier}
}

// List pages a post's top-level comments for the viewer. Recent order is
// an id keyset; popular order is a composite (like count, id) keyset
// whose cursor is the boundary comment id, with the boundary's like
// count re-resolved server-side so clients only ever hold an id.
func (t *Threads) List(ctx context.Context, viewer Viewer, postID int64, sort string, cursor int64, limit int) (*ThreadPage, error) {
	limit = clampLimit(limit)

	repo := db.NewRepository(t.db)
	posts := db.NewPostRepository(repo)
	comments := db.NewCommentRepository(repo)

	post, err := resolvePost(ctx, posts, postID)
	if err != nil {
		return nil, err
	}

	var rows []*models.Comment
	switch sort {
	case SortPopular:
		var cursorLikes int64
		if cursor > 0 {
			boundary, err := comments.GetByID(ctx, cursor)
			if err != nil {
				return nil, err
			}
			// A cursor that no longer names a live top-level comment
			// of this post cannot anchor the keyset; restart from
			// the top instead of failing the page
			if boundary == nil || boundary.PostID != post.ID || boundary.IsReply() {
				cursor = 0
			} else {
				likes := db.NewCommentLikeRepository(repo)
				if cursorLikes, err = likes.CountForComment(ctx, cursor); err != nil {
					return nil, err
				}
			}
		}
		rows, err = comments.ListTopLevelPopular(ctx, post.ID, cursor, cursorLikes, limit+1)
	default:
		rows, err = comments.ListTopLevelRecent(ctx, post.ID, cursor, limit+1)
	}
	if err != nil {
		return nil, err
	}

	page := &ThreadPage{Comments: []CommentView{}}
	if len(rows) > limit {
		rows = rows[:limit]
		page.HasMore = true
		page.NextCursor = rows[len(rows)-1].ID
	}

	for _, row := range rows {
		view, err := t.renderComment(ctx, viewer, row)
		if err != nil {
			return nil, err
		}
		page.Comments = append(page.Comments, *view)
	}
	return page, nil
}

// Replies pages a comment's replies oldest-first
func (t *Threads) Replies(ctx context.Context, viewer Viewer, commentID int64, offset, limit int) ([]ReplyView, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	repo := db.NewRepository(t.db)
	comments := db.NewCommentRepository(repo)

	parent, err := comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrCommentNotFound
	}

	rows, err := comments.ListReplies(ctx, commentID, offset, limit)
	if err != nil {
		return nil, err
	}
	return t.renderReplies(ctx, viewer, rows)
}

// Create adds a comment or a reply. Replying to a reply is rejected, so
// threads can never grow past one level. The notification to the post
// author (or, for replies, the parent comment's author) is created in
// the same transaction as the comment row.
func (t *Threads) Create(ctx context.Context, viewer Viewer, postID int64, content string, parentID *int64) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	repo := db.NewRepository(t.db)
	posts := db.NewPostRepository(repo)

	post, err := resolvePost(ctx, posts, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  viewer.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	comment.UpdatedAt = comment.CreatedAt

	event := Event{
		Type:        models.NotifyTypePostCommented,
		ActorID:     viewer.UserID,
		RecipientID: post.AuthorID,
	}

	if parentID != nil {
		comments := db.NewCommentRepository(repo)
		parent, err := comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.PostID != post.ID {
			return nil, ErrCommentNotFound
		}
		if parent.IsReply() {
			return nil, ErrReplyToReply
		}
		comment.ParentID = sql.NullInt64{Int64: parent.ID, Valid: true}
		event.Type = models.NotifyTypeCommentReplied
		event.RecipientID = parent.AuthorID
	}

	err = t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.NewCommentRepository(db.NewRepository(tx)).Create(ctx, comment); err != nil {
			return err
		}
		event.RelatedID = comment.ID
		event.RelatedType = models.RelatedComment
		return t.notifier.Notify(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return t.renderComment(ctx, viewer, comment)
}

// Update edits a comment's content; author-only
func (t *Threads) Update(ctx context.Context, viewer Viewer, commentID int64, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comments := db.NewCommentRepository(db.NewRepository(t.db))
	comment, err := comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.AuthorID != viewer.UserID {
		return nil, ErrNotCommentAuthor
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return t.renderComment(ctx, viewer, comment)
}

// Delete removes a comment; author-only. Replies and likes go with it
// through the storage-level cascade.
func (t *Threads) Delete(ctx context.Context, viewer Viewer, commentID int64) error {
	comments := db.NewCommentRepository(db.NewRepository(t.db))
	comment, err := comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != viewer.UserID {
		return ErrNotCommentAuthor
	}
	return comments.Delete(ctx, commentID)
}

// renderComment decorates a top-level comment with its author, live
// counts, like state and up to three oldest replies
func (t *Threads) renderComment(ctx context.Context, viewer Viewer, comment *models.Comment) (*CommentView, error) {
	repo := db.NewRepository(t.db)
	users := db.NewUserRepository(repo)
	comments := db.NewCommentRepository(repo)
	likes := db.NewCommentLikeRepository(repo)

	author, err := users.GetByID(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}

	view := &CommentView{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Author:    summarize(author),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Edited:    comment.IsEdited(),
		Replies:   []ReplyView{},
	}

	if view.LikesCount, err = likes.CountForComment(ctx, comment.ID); err != nil {
		return nil, err
	}
	if !viewer.Anonymous() {
		if view.IsLiked, err = likes.Exists(ctx, viewer.UserID, comment.ID); err != nil {
			return nil, err
		}
	}

	if comment.IsReply() {
		return view, nil
	}

	if view.RepliesCount, err = comments.CountReplies(ctx, comment.ID); err != nil {
		return nil, err
	}
	if view.RepliesCount > 0 {
		rows, err := comments.ListReplies(ctx, comment.ID, 0, inlineReplies)
		if err != nil {
			return nil, err
		}
		if view.Replies, err = t.renderReplies(ctx, viewer, rows); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (t *Threads) renderReplies(ctx context.Context, viewer Viewer, rows []*models.Comment) ([]ReplyView, error) {
	repo := db.NewRepository(t.db)
	likes := db.NewCommentLikeRepository(repo)

	authorIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		authorIDs = append(authorIDs, row.AuthorID)
	}
	authors := map[int64]*models.User{}
	if len(authorIDs) > 0 {
		var err error
		if authors, err = db.NewUserRepository(repo).GetByIDs(ctx, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]ReplyView, 0, len(rows))
	for _, row := range rows {
		view := ReplyView{
			ID:        row.ID,
			PostID:    row.PostID,
			Author:    summarize(authors[row.AuthorID]),
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			Edited:    row.IsEdited(),
		}
		var err error
		if view.LikesCount, err = likes.CountForComment(ctx, row.ID); err != nil {
			return nil, err
		}
		if !viewer.Anonymous() {
			if view.IsLiked, err = likes.Exists(ctx, viewer.UserID, row.ID); err != nil {
				return nil, err
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
