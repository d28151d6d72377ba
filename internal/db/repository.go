package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/models"
)

// Repository provides database access methods. It can wrap either the
// shared connection or a transaction handle.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByHandle retrieves a user by handle
func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs retrieves multiple users keyed by id
func (r *UserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Delete removes a post row
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

// GetRepostBy retrieves the author's repost wrapper for an original, if any
func (r *PostRepository) GetRepostBy(ctx context.Context, authorID, originalID int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("author_id = ? AND original_post_id = ?", authorID, originalID).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// CountReposts counts repost wrappers pointing at an original
func (r *PostRepository) CountReposts(ctx context.Context, originalID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("original_post_id = ?", originalID).
		Count(&count).Error
	return count, err
}

// ListFeed pages posts visible to a feed whose author set and team set
// are precomputed. Keyset on id keeps pages stable under concurrent
// inserts; with cursor 0 the newest page is returned.
func (r *PostRepository) ListFeed(ctx context.Context, authorIDs, teamIDs []int64, cursor int64, limit int) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if len(teamIDs) > 0 {
		query = query.Where("author_id IN ? OR team_id IN ?", authorIDs, teamIDs)
	} else {
		query = query.Where("author_id IN ?", authorIDs)
	}
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var posts []*models.Post
	err := query.Order("id DESC").Limit(limit).Find(&posts).Error
	return posts, err
}

// CommentRepository provides comment-related database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Update updates a comment
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete removes a comment and, via the FK cascade, its replies and likes
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

// CountForPost counts all comments on a post, replies included
func (r *CommentRepository) CountForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// CountReplies counts direct replies of a top-level comment
func (r *CommentRepository) CountReplies(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_id = ?", commentID).
		Count(&count).Error
	return count, err
}

// ListReplies lists replies oldest-first with offset pagination; reply
// volume is bounded so offsets are fine here
func (r *CommentRepository) ListReplies(ctx context.Context, commentID int64, offset, limit int) ([]*models.Comment, error) {
	var replies []*models.Comment
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", commentID).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&replies).Error
	return replies, err
}

// likeCountExpr counts a comment's likes inline so popularity ordering
// and its page filter see the same value within one statement
const likeCountExpr = "(SELECT COUNT(*) FROM cheer_comment_likes cl WHERE cl.comment_id = cheer_comments.id)"

// ListTopLevelRecent pages a post's top-level comments newest-first
// with an id keyset
func (r *CommentRepository) ListTopLevelRecent(ctx context.Context, postID, cursor int64, limit int) ([]*models.Comment, error) {
	query := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var comments []*models.Comment
	err := query.Order("id DESC").Limit(limit).Find(&comments).Error
	return comments, err
}

// ListTopLevelPopular pages a post's top-level comments by like count
// descending, id descending as the tiebreak. The cursor is the boundary
// comment's id and like count; rows at or before the boundary in that
// total order are excluded.
func (r *CommentRepository) ListTopLevelPopular(ctx context.Context, postID int64, cursorID, cursorLikes int64, limit int) ([]*models.Comment, error) {
	query := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID)
	if cursorID > 0 {
		query = query.Where(
			likeCountExpr+" < ? OR ("+likeCountExpr+" = ? AND id < ?)",
			cursorLikes, cursorLikes, cursorID,
		)
	}

	var comments []*models.Comment
	err := query.Order(likeCountExpr + " DESC, id DESC").Limit(limit).Find(&comments).Error
	return comments, err
}
