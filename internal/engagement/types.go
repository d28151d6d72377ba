package engagement

import (
	"time"

	"github.com/cheerhub/cheerhub/internal/models"
)

// Viewer identifies the acting user. Core operations take it explicitly
// instead of reading ambient request state. The zero value is anonymous.
type Viewer struct {
	UserID int64
}

// Anonymous reports whether no user is acting
func (v Viewer) Anonymous() bool {
	return v.UserID == 0
}

// AuthorSummary is the compact user shape embedded in views
type AuthorSummary struct {
	ID          int64  `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}

func summarize(u *models.User) AuthorSummary {
	if u == nil {
		return AuthorSummary{}
	}
	return AuthorSummary{ID: u.ID, Handle: u.Handle, DisplayName: u.DisplayName}
}

// PostCounts holds the live aggregates for a post, decorated per viewer
type PostCounts struct {
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
	RepostsCount  int64 `json:"repostsCount"`
	IsLiked       bool  `json:"isLiked"`
}

// CommentCounts holds the live aggregates for a comment
type CommentCounts struct {
	LikesCount   int64 `json:"likesCount"`
	RepliesCount int64 `json:"repliesCount"`
	IsLiked      bool  `json:"isLiked"`
}

// PostView is a post decorated for a viewer. On reposts the wrapper
// carries the fully decorated original; counts and like state always
// describe the original.
type PostView struct {
	ID        int64         `json:"id"`
	Author    AuthorSummary `json:"author"`
	TeamID    *int64        `json:"teamId,omitempty"`
	Content   string        `json:"content"`
	Media     []string      `json:"media,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	PostCounts
	Original *PostView `json:"original,omitempty"`
}

// ReplyView is a single-level reply; by construction it has no replies
// field, so deeper nesting is unrepresentable in a response
type ReplyView struct {
	ID         int64         `json:"id"`
	PostID     int64         `json:"postId"`
	Author     AuthorSummary `json:"author"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"createdAt"`
	Edited     bool          `json:"edited"`
	LikesCount int64         `json:"likesCount"`
	IsLiked    bool          `json:"isLiked"`
}

// CommentView is a top-level comment with inline replies
type CommentView struct {
	ID           int64         `json:"id"`
	PostID       int64         `json:"postId"`
	Author       AuthorSummary `json:"author"`
	Content      string        `json:"content"`
	CreatedAt    time.Time     `json:"createdAt"`
	Edited       bool          `json:"edited"`
	LikesCount   int64         `json:"likesCount"`
	IsLiked      bool          `json:"isLiked"`
	RepliesCount int64         `json:"repliesCount"`
	Replies      []ReplyView   `json:"replies"`
}

// NotificationView is a notification decorated for transport
type NotificationView struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	ActorID   *int64       `json:"actorId,omitempty"`
	Related   *RelatedLink `json:"related,omitempty"`
	IsRead    bool         `json:"isRead"`
	CreatedAt time.Time    `json:"createdAt"`
}

// RelatedLink points at the subject entity of a notification
type RelatedLink struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// ConversationView is a conversation decorated for its viewer
type ConversationView struct {
	ID                 int64         `json:"id"`
	Peer               AuthorSummary `json:"peer"`
	LastMessagePreview string        `json:"lastMessagePreview"`
	LastMessageAt      time.Time     `json:"lastMessageAt"`
}

// MessageView is a direct message decorated for transport
type MessageView struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	SenderID       int64     `json:"senderId"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ConnectionView is a connection decorated with the peer's summary
type ConnectionView struct {
	ID        int64         `json:"id"`
	Peer      AuthorSummary `json:"peer"`
	Requester bool          `json:"requester"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}
