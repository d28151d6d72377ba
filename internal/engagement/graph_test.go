package engagement

import (
	"testing"

	"github.com/cheerhub/cheerhub/internal/models"
)

func TestConnectionRequest(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	viewer := Viewer{UserID: alice.ID}

	if _, err := svc.graph.Request(testCtx, viewer, alice.ID); err != ErrSelfConnection {
		t.Errorf("self request = %v, want ErrSelfConnection", err)
	}
	if _, err := svc.graph.Request(testCtx, viewer, 999); err != ErrUserNotFound {
		t.Errorf("request to missing user = %v, want ErrUserNotFound", err)
	}

	conn, err := svc.graph.Request(testCtx, viewer, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if conn.Status != "pending" || !conn.Requester {
		t.Errorf("fresh request: status=%q requester=%v", conn.Status, conn.Requester)
	}

	// Duplicate in either direction is rejected
	if _, err := svc.graph.Request(testCtx, viewer, bob.ID); err != ErrConnectionExists {
		t.Errorf("repeat request = %v, want ErrConnectionExists", err)
	}
	if _, err := svc.graph.Request(testCtx, Viewer{UserID: bob.ID}, alice.ID); err != ErrConnectionExists {
		t.Errorf("reverse request = %v, want ErrConnectionExists", err)
	}

	notifs := notificationsFor(t, gdb, bob.ID)
	if len(notifs) != 1 || notifs[0].Type != models.NotifyTypeConnectionRequest {
		t.Fatalf("addressee notifications = %d, want 1 connection_request", len(notifs))
	}
}

func TestConnectionRespond(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	eve := createUser(t, gdb, "eve")

	conn, err := svc.graph.Request(testCtx, Viewer{UserID: alice.ID}, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	// Only the addressee may respond; the requester cannot accept for them
	if _, err := svc.graph.Respond(testCtx, Viewer{UserID: alice.ID}, conn.ID, true); err != ErrNotAddressee {
		t.Errorf("requester respond = %v, want ErrNotAddressee", err)
	}
	if _, err := svc.graph.Respond(testCtx, Viewer{UserID: eve.ID}, conn.ID, true); err != ErrNotAddressee {
		t.Errorf("third-party respond = %v, want ErrNotAddressee", err)
	}

	accepted, err := svc.graph.Respond(testCtx, Viewer{UserID: bob.ID}, conn.ID, true)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if accepted.Status != "accepted" {
		t.Errorf("status = %q, want accepted", accepted.Status)
	}

	// Settled requests cannot be answered again
	if _, err := svc.graph.Respond(testCtx, Viewer{UserID: bob.ID}, conn.ID, false); err != ErrConnectionNotPending {
		t.Errorf("repeat respond = %v, want ErrConnectionNotPending", err)
	}

	notifs := notificationsFor(t, gdb, alice.ID)
	if len(notifs) != 1 || notifs[0].Type != models.NotifyTypeConnectionAccepted {
		t.Fatalf("requester notifications = %d, want 1 connection_accepted", len(notifs))
	}
}

func TestConnectionRejectIsQuiet(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")

	conn, err := svc.graph.Request(testCtx, Viewer{UserID: alice.ID}, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	rejected, err := svc.graph.Respond(testCtx, Viewer{UserID: bob.ID}, conn.ID, false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if rejected.Status != "rejected" {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}

	// Rejection does not notify the requester
	if got := len(notificationsFor(t, gdb, alice.ID)); got != 0 {
		t.Errorf("requester notifications after rejection = %d, want 0", got)
	}
}

func TestConnectionList(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	carol := createUser(t, gdb, "carol")

	connect(t, gdb, alice.ID, bob.ID)
	if _, err := svc.graph.Request(testCtx, Viewer{UserID: carol.ID}, alice.ID); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	accepted, err := svc.graph.List(testCtx, Viewer{UserID: alice.ID}, "accepted")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(accepted) != 1 || accepted[0].Peer.Handle != "bob" {
		t.Errorf("accepted list should hold bob, got %d entries", len(accepted))
	}

	pending, err := svc.graph.List(testCtx, Viewer{UserID: alice.ID}, "pending")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Peer.Handle != "carol" || pending[0].Requester {
		t.Errorf("pending list should hold carol with requester=false")
	}

	if _, err := svc.graph.List(testCtx, Viewer{UserID: alice.ID}, "bogus"); err == nil {
		t.Error("unknown status should be rejected")
	}
}

func TestTeamFollow(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	team := createTeam(t, gdb, "Thunder", "thunder")
	viewer := Viewer{UserID: alice.ID}

	if err := svc.graph.FollowTeam(testCtx, viewer, 999); err != ErrTeamNotFound {
		t.Errorf("follow missing team = %v, want ErrTeamNotFound", err)
	}
	if err := svc.graph.FollowTeam(testCtx, viewer, team.ID); err != nil {
		t.Fatalf("FollowTeam failed: %v", err)
	}
	if err := svc.graph.FollowTeam(testCtx, viewer, team.ID); err != ErrAlreadyFollowing {
		t.Errorf("repeat follow = %v, want ErrAlreadyFollowing", err)
	}
	if err := svc.graph.UnfollowTeam(testCtx, viewer, team.ID); err != nil {
		t.Fatalf("UnfollowTeam failed: %v", err)
	}
	// Unfollowing again is a no-op
	if err := svc.graph.UnfollowTeam(testCtx, viewer, team.ID); err != nil {
		t.Errorf("repeat unfollow = %v, want nil", err)
	}
}

func TestTeamInvite(t *testing.T) {
	gdb := newTestDB(t)
	svc := newServices(gdb)

	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	team := createTeam(t, gdb, "Thunder", "thunder")

	if err := svc.graph.InviteToTeam(testCtx, Viewer{UserID: alice.ID}, team.ID, bob.ID); err != nil {
		t.Fatalf("InviteToTeam failed: %v", err)
	}

	notifs := notificationsFor(t, gdb, bob.ID)
	if len(notifs) != 1 || notifs[0].Type != models.NotifyTypeTeamInvite {
		t.Fatalf("invitee notifications = %d, want 1 team_invite", len(notifs))
	}
	if notifs[0].Message != "alice invited you to cheer for Thunder" {
		t.Errorf("message = %q", notifs[0].Message)
	}
}
