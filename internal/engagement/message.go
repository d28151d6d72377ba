package engagement

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
)

const previewLength = 140

// MessagePage is one keyset page of a conversation's messages, newest
// first. NextCursor is zero on the last page.
type MessagePage struct {
	Messages   []MessageView `json:"messages"`
	NextCursor int64         `json:"nextCursor,omitempty"`
	HasMore    bool          `json:"hasMore"`
}

// Messenger handles direct messages between accepted connections
type Messenger struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewMessenger creates a new messenger
func NewMessenger(gdb *gorm.DB, notifier *Notifier) *Messenger {
	return &Messenger{db: gdb, notifier: notifier}
}

// Send delivers a direct message. The conversation upsert, the message
// row, the preview update and the fan-out commit together; a failure in
// any of them leaves no partial trace.
func (m *Messenger) Send(ctx context.Context, viewer Viewer, recipientID int64, body string) (*MessageView, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyContent
	}
	if recipientID == viewer.UserID {
		return nil, ErrSelfMessage
	}

	repo := db.NewRepository(m.db)
	users := db.NewUserRepository(repo)

	recipient, err := users.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	connected, err := db.NewConnectionRepository(repo).IsAccepted(ctx, viewer.UserID, recipientID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, ErrNotConnected
	}

	var msg *models.Message
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := db.NewRepository(tx)
		conversations := db.NewConversationRepository(txRepo)

		now := time.Now().UTC()
		conv, err := conversations.GetByPair(ctx, viewer.UserID, recipientID)
		if err != nil {
			return err
		}
		if conv == nil {
			if conv, err = createConversation(ctx, conversations, viewer.UserID, recipientID, now); err != nil {
				return err
			}
		}

		msg = &models.Message{
			ConversationID: conv.ID,
			SenderID:       viewer.UserID,
			RecipientID:    recipientID,
			Body:           body,
			CreatedAt:      now,
		}
		if err := db.NewMessageRepository(txRepo).Create(ctx, msg); err != nil {
			return err
		}

		conv.LastMessagePreview = previewOf(body)
		conv.LastMessageAt = now
		if err := conversations.Update(ctx, conv); err != nil {
			return err
		}

		return m.notifier.Notify(ctx, tx, Event{
			Type:        models.NotifyTypeMessageReceived,
			ActorID:     viewer.UserID,
			RecipientID: recipientID,
			RelatedID:   conv.ID,
			RelatedType: models.RelatedConversation,
		})
	})
	if err != nil {
		return nil, err
	}
	return renderMessageView(msg), nil
}

// Conversations lists the viewer's conversations, most recently active
// first, each decorated with the other participant
func (m *Messenger) Conversations(ctx context.Context, viewer Viewer) ([]ConversationView, error) {
	repo := db.NewRepository(m.db)
	convs, err := db.NewConversationRepository(repo).ListForUser(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]int64, 0, len(convs))
	for _, conv := range convs {
		peerIDs = append(peerIDs, peerOf(conv, viewer.UserID))
	}
	peers := map[int64]*models.User{}
	if len(peerIDs) > 0 {
		if peers, err = db.NewUserRepository(repo).GetByIDs(ctx, peerIDs); err != nil {
			return nil, err
		}
	}

	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, ConversationView{
			ID:                 conv.ID,
			Peer:               summarize(peers[peerOf(conv, viewer.UserID)]),
			LastMessagePreview: conv.LastMessagePreview,
			LastMessageAt:      conv.LastMessageAt,
		})
	}
	return views, nil
}

// Messages pages a conversation's history newest-first; participants
// only
func (m *Messenger) Messages(ctx context.Context, viewer Viewer, conversationID, cursor int64, limit int) (*MessagePage, error) {
	limit = clampLimit(limit)

	repo := db.NewRepository(m.db)
	conv, err := db.NewConversationRepository(repo).GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.Includes(viewer.UserID) {
		return nil, ErrNotParticipant
	}

	rows, err := db.NewMessageRepository(repo).ListForConversation(ctx, conversationID, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &MessagePage{Messages: []MessageView{}}
	if len(rows) > limit {
		rows = rows[:limit]
		page.HasMore = true
		page.NextCursor = rows[len(rows)-1].ID
	}
	for _, row := range rows {
		page.Messages = append(page.Messages, *renderMessageView(row))
	}
	return page, nil
}

// createConversation inserts the conversation row for an unordered pair.
// Two first messages can race on the pair index; the loser picks up the
// winner's row instead of failing the send.
func createConversation(ctx context.Context, conversations *db.ConversationRepository, a, b int64, now time.Time) (*models.Conversation, error) {
	pairMin, pairMax := models.NormalizePair(a, b)
	conv := &models.Conversation{
		PairMin:       pairMin,
		PairMax:       pairMax,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if err := conversations.Create(ctx, conv); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		winner, err := conversations.GetByPair(ctx, a, b)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, ErrConversationNotFound
		}
		return winner, nil
	}
	return conv, nil
}

func renderMessageView(msg *models.Message) *MessageView {
	return &MessageView{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Body:           msg.Body,
		CreatedAt:      msg.CreatedAt,
	}
}

func peerOf(conv *models.Conversation, userID int64) int64 {
	if conv.PairMin == userID {
		return conv.PairMax
	}
	return conv.PairMin
}

func previewOf(body string) string {
	runes := []rune(body)
	if len(runes) <= previewLength {
		return body
	}
	return string(runes[:previewLength])
}
