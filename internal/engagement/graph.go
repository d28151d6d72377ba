package engagement

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cheerhub/cheerhub/internal/db"
	"github.com/cheerhub/cheerhub/internal/models"
)

// Graph manages the connection graph and team follows
type Graph struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewGraph creates a new graph service
func NewGraph(gdb *gorm.DB, notifier *Notifier) *Graph {
	return &Graph{db: gdb, notifier: notifier}
}

// Request sends a connection request to another user. One row exists per
// unordered pair regardless of direction, so a second request in either
// direction is a duplicate.
func (g *Graph) Request(ctx context.Context, viewer Viewer, otherID int64) (*ConnectionView, error) {
	if otherID == viewer.UserID {
		return nil, ErrSelfConnection
	}

	repo := db.NewRepository(g.db)
	users := db.NewUserRepository(repo)
	connections := db.NewConnectionRepository(repo)

	other, err := users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrUserNotFound
	}

	existing, err := connections.GetByPair(ctx, viewer.UserID, otherID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConnectionExists
	}

	pairMin, pairMax := models.NormalizePair(viewer.UserID, otherID)
	conn := &models.Connection{
		RequesterID: viewer.UserID,
		AddresseeID: otherID,
		PairMin:     pairMin,
		PairMax:     pairMax,
		Status:      models.ConnectionPending,
		CreatedAt:   time.Now().UTC(),
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.NewConnectionRepository(db.NewRepository(tx)).Create(ctx, conn); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConnectionExists
			}
			return err
		}
		return g.notifier.Notify(ctx, tx, Event{
			Type:        models.NotifyTypeConnectionRequest,
			ActorID:     viewer.UserID,
			RecipientID: otherID,
			RelatedID:   conn.ID,
			RelatedType: models.RelatedConnection,
		})
	})
	if err != nil {
		return nil, err
	}
	return g.render(ctx, viewer, conn)
}

// Respond accepts or rejects a pending request; only the addressee may
// answer, and only while the request is pending
func (g *Graph) Respond(ctx context.Context, viewer Viewer, connectionID int64, accept bool) (*ConnectionView, error) {
	connections := db.NewConnectionRepository(db.NewRepository(g.db))

	conn, err := connections.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrConnectionNotFound
	}
	if conn.AddresseeID != viewer.UserID {
		return nil, ErrNotAddressee
	}
	if conn.Status != models.ConnectionPending {
		return nil, ErrConnectionNotPending
	}

	if accept {
		conn.Status = models.ConnectionAccepted
	} else {
		conn.Status = models.ConnectionRejected
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.NewConnectionRepository(db.NewRepository(tx)).Update(ctx, conn); err != nil {
			return err
		}
		if !accept {
			return nil
		}
		return g.notifier.Notify(ctx, tx, Event{
			Type:        models.NotifyTypeConnectionAccepted,
			ActorID:     viewer.UserID,
			RecipientID: conn.RequesterID,
			RelatedID:   conn.ID,
			RelatedType: models.RelatedConnection,
		})
	})
	if err != nil {
		return nil, err
	}
	return g.render(ctx, viewer, conn)
}

// List returns the viewer's connections in a status, newest first
func (g *Graph) List(ctx context.Context, viewer Viewer, status string) ([]ConnectionView, error) {
	statusID, err := parseConnectionStatus(status)
	if err != nil {
		return nil, err
	}

	connections := db.NewConnectionRepository(db.NewRepository(g.db))
	conns, err := connections.ListForUser(ctx, viewer.UserID, statusID)
	if err != nil {
		return nil, err
	}

	views := make([]ConnectionView, 0, len(conns))
	for _, conn := range conns {
		view, err := g.render(ctx, viewer, conn)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// FollowTeam subscribes the viewer to a team's posts
func (g *Graph) FollowTeam(ctx context.Context, viewer Viewer, teamID int64) error {
	teams := db.NewTeamRepository(db.NewRepository(g.db))

	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrTeamNotFound
	}

	follow := &models.TeamFollow{
		UserID:    viewer.UserID,
		TeamID:    teamID,
		CreatedAt: time.Now().UTC(),
	}
	if err := teams.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// UnfollowTeam removes the viewer's follow; no-op safe
func (g *Graph) UnfollowTeam(ctx context.Context, viewer Viewer, teamID int64) error {
	teams := db.NewTeamRepository(db.NewRepository(g.db))

	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrTeamNotFound
	}

	_, err = teams.DeleteFollow(ctx, viewer.UserID, teamID)
	return err
}

// InviteToTeam notifies another user to come cheer for a team
func (g *Graph) InviteToTeam(ctx context.Context, viewer Viewer, teamID, userID int64) error {
	repo := db.NewRepository(g.db)
	teams := db.NewTeamRepository(repo)
	users := db.NewUserRepository(repo)

	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrTeamNotFound
	}
	invitee, err := users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if invitee == nil {
		return ErrUserNotFound
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return g.notifier.Notify(ctx, tx, Event{
			Type:        models.NotifyTypeTeamInvite,
			ActorID:     viewer.UserID,
			RecipientID: userID,
			RelatedID:   teamID,
			RelatedType: models.RelatedTeam,
			Detail:      team.Name,
		})
	})
}

func (g *Graph) render(ctx context.Context, viewer Viewer, conn *models.Connection) (*ConnectionView, error) {
	peerID := conn.RequesterID
	if peerID == viewer.UserID {
		peerID = conn.AddresseeID
	}

	users := db.NewUserRepository(db.NewRepository(g.db))
	peer, err := users.GetByID(ctx, peerID)
	if err != nil {
		return nil, err
	}

	return &ConnectionView{
		ID:        conn.ID,
		Peer:      summarize(peer),
		Requester: conn.RequesterID == viewer.UserID,
		Status:    connectionStatusName(conn.Status),
		CreatedAt: conn.CreatedAt,
	}, nil
}

func parseConnectionStatus(status string) (int16, error) {
	switch status {
	case "", "accepted":
		return models.ConnectionAccepted, nil
	case "pending":
		return models.ConnectionPending, nil
	case "rejected":
		return models.ConnectionRejected, nil
	}
	return 0, invalid("unknown connection status")
}

func connectionStatusName(status int16) string {
	switch status {
	case models.ConnectionPending:
		return "pending"
	case models.ConnectionAccepted:
		return "accepted"
	case models.ConnectionRejected:
		return "rejected"
	}
	return "unknown"
}
