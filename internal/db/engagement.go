package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/models"
)

// LikeRepository provides post-like database operations
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Create inserts a like row; the unique index rejects duplicates
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// Delete removes a like row and reports how many rows matched
func (r *LikeRepository) Delete(ctx context.Context, userID, postID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	return res.RowsAffected, res.Error
}

// Exists reports whether the (user, post) pair is present
func (r *LikeRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// CountForPost counts likes on a post
func (r *LikeRepository) CountForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// CommentLikeRepository provides comment-like database operations
type CommentLikeRepository struct {
	*Repository
}

// NewCommentLikeRepository creates a new comment-like repository
func NewCommentLikeRepository(repo *Repository) *CommentLikeRepository {
	return &CommentLikeRepository{Repository: repo}
}

// Create inserts a comment-like row; the unique index rejects duplicates
func (r *CommentLikeRepository) Create(ctx context.Context, like *models.CommentLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// Delete removes a comment-like row and reports how many rows matched
func (r *CommentLikeRepository) Delete(ctx context.Context, userID, commentID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentLike{})
	return res.RowsAffected, res.Error
}

// Exists reports whether the (user, comment) pair is present
func (r *CommentLikeRepository) Exists(ctx context.Context, userID, commentID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Count(&count).Error
	return count > 0, err
}

// CountForComment counts likes on a comment
func (r *CommentLikeRepository) CountForComment(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

// ConnectionRepository provides connection-graph database operations
type ConnectionRepository struct {
	*Repository
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(repo *Repository) *ConnectionRepository {
	return &ConnectionRepository{Repository: repo}
}

// GetByID retrieves a connection by ID
func (r *ConnectionRepository) GetByID(ctx context.Context, id int64) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).First(&conn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

// GetByPair retrieves the connection row for an unordered user pair
func (r *ConnectionRepository) GetByPair(ctx context.Context, a, b int64) (*models.Connection, error) {
	min, max := models.NormalizePair(a, b)
	var conn models.Connection
	if err := r.db.WithContext(ctx).
		Where("pair_min = ? AND pair_max = ?", min, max).
		First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

// Create creates a new connection
func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	return r.db.WithContext(ctx).Create(conn).Error
}

// Update updates a connection
func (r *ConnectionRepository) Update(ctx context.Context, conn *models.Connection) error {
	return r.db.WithContext(ctx).Save(conn).Error
}

// AcceptedPeerIDs returns the ids of users holding an accepted connection
// with the given user, in either direction
func (r *ConnectionRepository) AcceptedPeerIDs(ctx context.Context, userID int64) ([]int64, error) {
	var conns []*models.Connection
	if err := r.db.WithContext(ctx).
		Where("status = ? AND (pair_min = ? OR pair_max = ?)", models.ConnectionAccepted, userID, userID).
		Find(&conns).Error; err != nil {
		return nil, err
	}
	peers := make([]int64, 0, len(conns))
	for _, c := range conns {
		if c.PairMin == userID {
			peers = append(peers, c.PairMax)
		} else {
			peers = append(peers, c.PairMin)
		}
	}
	return peers, nil
}

// ListForUser lists the user's connections in a given status
func (r *ConnectionRepository) ListForUser(ctx context.Context, userID int64, status int16) ([]*models.Connection, error) {
	var conns []*models.Connection
	err := r.db.WithContext(ctx).
		Where("status = ? AND (pair_min = ? OR pair_max = ?)", status, userID, userID).
		Order("id DESC").
		Find(&conns).Error
	return conns, err
}

// IsAccepted reports whether the pair holds an accepted connection
func (r *ConnectionRepository) IsAccepted(ctx context.Context, a, b int64) (bool, error) {
	conn, err := r.GetByPair(ctx, a, b)
	if err != nil {
		return false, err
	}
	return conn != nil && conn.Status == models.ConnectionAccepted, nil
}

// TeamRepository provides team and team-follow database operations
type TeamRepository struct {
	*Repository
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(repo *Repository) *TeamRepository {
	return &TeamRepository{Repository: repo}
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// FollowedTeamIDs returns the ids of teams the user follows
func (r *TeamRepository) FollowedTeamIDs(ctx context.Context, userID int64) ([]int64, error) {
	var follows []*models.TeamFollow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&follows).Error; err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.TeamID)
	}
	return ids, nil
}

// CreateFollow inserts a team follow; the unique index rejects duplicates
func (r *TeamRepository) CreateFollow(ctx context.Context, follow *models.TeamFollow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

// DeleteFollow removes a team follow and reports how many rows matched
func (r *TeamRepository) DeleteFollow(ctx context.Context, userID, teamID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		Delete(&models.TeamFollow{})
	return res.RowsAffected, res.Error
}
