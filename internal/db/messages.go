package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/models"
)

// ConversationRepository provides conversation database operations
type ConversationRepository struct {
	*Repository
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(repo *Repository) *ConversationRepository {
	return &ConversationRepository{Repository: repo}
}

// GetByID retrieves a conversation by ID
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// GetByPair retrieves the conversation for an unordered user pair
func (r *ConversationRepository) GetByPair(ctx context.Context, a, b int64) (*models.Conversation, error) {
	min, max := models.NormalizePair(a, b)
	var conv models.Conversation
	if err := r.db.WithContext(ctx).
		Where("pair_min = ? AND pair_max = ?", min, max).
		First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// Create creates a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

// Update updates a conversation
func (r *ConversationRepository) Update(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Save(conv).Error
}

// ListForUser lists the user's conversations, most recently active first
func (r *ConversationRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	var convs []*models.Conversation
	err := r.db.WithContext(ctx).
		Where("pair_min = ? OR pair_max = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

// MessageRepository provides message database operations
type MessageRepository struct {
	*Repository
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(repo *Repository) *MessageRepository {
	return &MessageRepository{Repository: repo}
}

// Create creates a new message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListForConversation lists messages newest-first with an id keyset cursor
func (r *MessageRepository) ListForConversation(ctx context.Context, conversationID, cursor int64, limit int) ([]*models.Message, error) {
	query := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	var msgs []*models.Message
	err := query.Order("id DESC").Limit(limit).Find(&msgs).Error
	return msgs, err
}
