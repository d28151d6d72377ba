package engagement

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
	"github.com/cheerhub/cheerhub/pkg/logging"
)

// Event describes a mutating action that fans out to one recipient
type Event struct {
	Type        int16
	ActorID     int64
	RecipientID int64
	RelatedID   int64
	RelatedType int16
	Detail      string
}

// Notifier handles notification fan-out and read state
type Notifier struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(gdb *gorm.DB) *Notifier {
	return &Notifier{
		db:     gdb,
		logger: logging.WithComponent("notifier"),
	}
}

// Notify creates the notification row for an event inside the caller's
// transaction, so a failed fan-out rolls the triggering write back with
// it. Self-notifications are suppressed universally, and every type is
// gated behind the recipient's preference flag.
func (n *Notifier) Notify(ctx context.Context, tx *gorm.DB, ev Event) error {
	if ev.ActorID == ev.RecipientID {
		return nil
	}

	repo := db.NewRepository(tx)
	users := db.NewUserRepository(repo)

	recipient, err := users.GetByID(ctx, ev.RecipientID)
	if err != nil {
		return err
	}
	if recipient == nil {
		return ErrUserNotFound
	}
	if !recipient.AllowsNotification(ev.Type) {
		return nil
	}

	actor, err := users.GetByID(ctx, ev.ActorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return ErrUserNotFound
	}

	// The message is rendered once from the actor's current display
	// name; renaming a user does not rewrite old notifications
	notif := &models.Notification{
		RecipientID: ev.RecipientID,
		Type:        ev.Type,
		Message:     renderMessage(ev.Type, actor.DisplayName, ev.Detail),
		ActorID:     sql.NullInt64{Int64: ev.ActorID, Valid: true},
		RelatedType: ev.RelatedType,
		CreatedAt:   time.Now().UTC(),
	}
	if ev.RelatedID != 0 {
		notif.RelatedID = sql.NullInt64{Int64: ev.RelatedID, Valid: true}
	}

	n.logger.Debug("fan-out",
		zap.String("type", TypeName(ev.Type)),
		zap.Int64("actor_id", ev.ActorID),
		zap.Int64("recipient_id", ev.RecipientID),
		zap.Int64("related_id", ev.RelatedID))

	return db.NewNotificationRepository(repo).Create(ctx, notif)
}

// List returns the viewer's notifications. With after > 0 it acts as a
// changes-since cursor, returning rows strictly newer, oldest first;
// otherwise it returns the newest page.
func (n *Notifier) List(ctx context.Context, viewer Viewer, after int64, limit int) ([]NotificationView, error) {
	limit = clampLimit(limit)
	repo := db.NewNotificationRepository(db.NewRepository(n.db))

	var (
		notifs []*models.Notification
		err    error
	)
	if after > 0 {
		notifs, err = repo.ListAfter(ctx, viewer.UserID, after, limit)
	} else {
		notifs, err = repo.ListForRecipient(ctx, viewer.UserID, limit)
	}
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(notifs))
	for _, notif := range notifs {
		views = append(views, renderNotification(notif))
	}
	return views, nil
}

// UnreadCount counts the viewer's unread notifications
func (n *Notifier) UnreadCount(ctx context.Context, viewer Viewer) (int64, error) {
	repo := db.NewNotificationRepository(db.NewRepository(n.db))
	return repo.CountUnread(ctx, viewer.UserID)
}

// MarkRead flags the given notifications read for the viewer. Marking an
// already-read or foreign row is a no-op.
func (n *Notifier) MarkRead(ctx context.Context, viewer Viewer, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	repo := db.NewNotificationRepository(db.NewRepository(n.db))
	return repo.MarkRead(ctx, viewer.UserID, ids)
}

// MarkAllRead flags every unread notification of the viewer read
func (n *Notifier) MarkAllRead(ctx context.Context, viewer Viewer) error {
	repo := db.NewNotificationRepository(db.NewRepository(n.db))
	return repo.MarkAllRead(ctx, viewer.UserID)
}

func renderNotification(notif *models.Notification) NotificationView {
	view := NotificationView{
		ID:        notif.ID,
		Type:      TypeName(notif.Type),
		Message:   notif.Message,
		IsRead:    notif.IsRead,
		CreatedAt: notif.CreatedAt,
	}
	if notif.ActorID.Valid {
		actorID := notif.ActorID.Int64
		view.ActorID = &actorID
	}
	if notif.RelatedID.Valid && notif.RelatedType != models.RelatedNone {
		view.Related = &RelatedLink{
			Type: RelatedTypeName(notif.RelatedType),
			ID:   notif.RelatedID.Int64,
		}
	}
	return view
}

// TypeName maps a notification type to its wire name
func TypeName(typeID int16) string {
	names := map[int16]string{
		models.NotifyTypePostLiked:          "post_liked",
		models.NotifyTypeCommentLiked:       "comment_liked",
		models.NotifyTypePostCommented:      "post_commented",
		models.NotifyTypeCommentReplied:     "comment_replied",
		models.NotifyTypeConnectionRequest:  "connection_request",
		models.NotifyTypeConnectionAccepted: "connection_accepted",
		models.NotifyTypeMessageReceived:    "message_received",
		models.NotifyTypePostReposted:       "post_reposted",
		models.NotifyTypeTeamInvite:         "team_invite",
	}
	if name, ok := names[typeID]; ok {
		return name
	}
	return "unknown"
}

// RelatedTypeName maps a related-entity type to its wire name
func RelatedTypeName(typeID int16) string {
	names := map[int16]string{
		models.RelatedPost:         "post",
		models.RelatedComment:      "comment",
		models.RelatedConnection:   "connection",
		models.RelatedConversation: "conversation",
		models.RelatedTeam:         "team",
	}
	if name, ok := names[typeID]; ok {
		return name
	}
	return "unknown"
}

func renderMessage(typeID int16, actorName, detail string) string {
	msgTemplates := map[int16]string{
		models.NotifyTypePostLiked:          "<actor> liked your post",
		models.NotifyTypeCommentLiked:       "<actor> liked your comment",
		models.NotifyTypePostCommented:      "<actor> commented on your post",
		models.NotifyTypeCommentReplied:     "<actor> replied to your comment",
		models.NotifyTypeConnectionRequest:  "<actor> sent you a connection request",
		models.NotifyTypeConnectionAccepted: "<actor> accepted your connection request",
		models.NotifyTypeMessageReceived:    "<actor> sent you a message",
		models.NotifyTypePostReposted:       "<actor> shared your post",
		models.NotifyTypeTeamInvite:         "<actor> invited you to cheer for <detail>",
	}

	msg, ok := msgTemplates[typeID]
	if !ok {
		return "unknown notification"
	}

	msg = strings.ReplaceAll(msg, "<actor>", actorName)
	msg = strings.ReplaceAll(msg, "<detail>", detail)
	return msg
}
