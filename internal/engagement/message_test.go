package engagement

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
)

func TestSendRequiresConnection(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	viewer := Viewer{UserID: alice.ID}

	if _, err := svc.msgr.Send(testCtx, viewer, alice.ID, "hi me"); err != ErrSelfMessage {
		t.Errorf("self message = %v, want ErrSelfMessage", err)
	}
	if _, err := svc.msgr.Send(testCtx, viewer, 999, "hi"); err != ErrUserNotFound {
		t.Errorf("message to missing user = %v, want ErrUserNotFound", err)
	}
	if _, err := svc.msgr.Send(testCtx, viewer, bob.ID, "hi"); err != ErrNotConnected {
		t.Errorf("message without connection = %v, want ErrNotConnected", err)
	}

	connect(t, gdb, alice.ID, bob.ID)
	if _, err := svc.msgr.Send(testCtx, viewer, bob.ID, "hi"); err != nil {
		t.Errorf("message after connection failed: %v", err)
	}
}

func TestSendTransactionEffects(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	connect(t, gdb, alice.ID, bob.ID)

	msg, err := svc.msgr.Send(testCtx, Viewer{UserID: alice.ID}, bob.ID, "see you at practice")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	// One conversation row, updated in place on later sends
	convs, err := svc.msgr.Conversations(testCtx, Viewer{UserID: bob.ID})
	if err != nil {
		t.Fatalf("Conversations failed: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("conversations = %d, want 1", len(convs))
	}
	if convs[0].Peer.Handle != "alice" {
		t.Errorf("peer = %q, want alice", convs[0].Peer.Handle)
	}
	if convs[0].LastMessagePreview != "see you at practice" {
		t.Errorf("preview = %q", convs[0].LastMessagePreview)
	}

	if _, err := svc.msgr.Send(testCtx, Viewer{UserID: bob.ID}, alice.ID, "bring the flags"); err != nil {
		t.Fatalf("reply Send failed: %v", err)
	}
	convs, _ = svc.msgr.Conversations(testCtx, Viewer{UserID: alice.ID})
	if len(convs) != 1 {
		t.Fatalf("conversations after reply = %d, want 1", len(convs))
	}
	if convs[0].LastMessagePreview != "bring the flags" {
		t.Errorf("preview after reply = %q", convs[0].LastMessagePreview)
	}

	// Fan-out happened once per message
	bobNotifs := notificationsFor(t, gdb, bob.ID)
	if len(bobNotifs) != 1 || bobNotifs[0].Type != models.NotifyTypeMessageReceived {
		t.Errorf("recipient notifications = %d, want 1 message_received", len(bobNotifs))
	}
	if !bobNotifs[0].RelatedID.Valid || bobNotifs[0].RelatedID.Int64 != msg.ConversationID {
		t.Errorf("notification should point at conversation %d", msg.ConversationID)
	}
}

func TestSendPreviewTruncation(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	connect(t, gdb, alice.ID, bob.ID)

	long := strings.Repeat("cheer ", 50)
	if _, err := svc.msgr.Send(testCtx, Viewer{UserID: alice.ID}, bob.ID, long); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	convs, err := svc.msgr.Conversations(testCtx, Viewer{UserID: alice.ID})
	if err != nil {
		t.Fatalf("Conversations failed: %v", err)
	}
	if got := len([]rune(convs[0].LastMessagePreview)); got != 140 {
		t.Errorf("preview length = %d, want 140", got)
	}
}

func TestMessagesParticipantOnly(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	eve := createUser(t, gdb, "eve")
	connect(t, gdb, alice.ID, bob.ID)

	msg, err := svc.msgr.Send(testCtx, Viewer{UserID: alice.ID}, bob.ID, "secret")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, err := svc.msgr.Messages(testCtx, Viewer{UserID: eve.ID}, msg.ConversationID, 0, 10); err != ErrNotParticipant {
		t.Errorf("outsider Messages = %v, want ErrNotParticipant", err)
	}
	if _, err := svc.msgr.Messages(testCtx, Viewer{UserID: alice.ID}, 999, 0, 10); err != ErrConversationNotFound {
		t.Errorf("missing conversation = %v, want ErrConversationNotFound", err)
	}

	page, err := svc.msgr.Messages(testCtx, Viewer{UserID: bob.ID}, msg.ConversationID, 0, 10)
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(page.Messages) != 1 || page.Messages[0].Body != "secret" {
		t.Errorf("messages = %d, want the sent one", len(page.Messages))
	}
}

func TestMessagesKeysetPaging(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	connect(t, gdb, alice.ID, bob.ID)

	var convID int64
	for i := 0; i < 5; i++ {
		msg, err := svc.msgr.Send(testCtx, Viewer{UserID: alice.ID}, bob.ID, fmt.Sprintf("m%d", i))
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		convID = msg.ConversationID
	}

	seen := map[int64]bool{}
	var cursor int64
	for {
		page, err := svc.msgr.Messages(testCtx, Viewer{UserID: alice.ID}, convID, cursor, 2)
		if err != nil {
			t.Fatalf("Messages failed: %v", err)
		}
		for _, m := range page.Messages {
			if seen[m.ID] {
				t.Errorf("message %d appeared twice across pages", m.ID)
			}
			seen[m.ID] = true
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}
	if len(seen) != 5 {
		t.Errorf("collected %d messages across pages, want 5", len(seen))
	}
}

func TestConversationCreateDuplicateFallsBack(t *testing.T) {
	gdb := newTestDB(t)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")

	conversations := db.NewConversationRepository(db.NewRepository(gdb))
	now := time.Now().UTC()

	winner, err := createConversation(testCtx, conversations, alice.ID, bob.ID, now)
	if err != nil {
		t.Fatalf("createConversation failed: %v", err)
	}

	// A second create for the same pair hits the unique index and picks
	// up the winner's row instead of surfacing the duplicate
	loser, err := createConversation(testCtx, conversations, bob.ID, alice.ID, now)
	if err != nil {
		t.Fatalf("racing createConversation = %v, want nil", err)
	}
	if loser.ID != winner.ID {
		t.Errorf("loser conversation = %d, want winner's %d", loser.ID, winner.ID)
	}

	var count int64
	if err := gdb.Model(&models.Conversation{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("conversation rows = %d, want 1", count)
	}
}
