package engagement

// Kind classifies a domain error for transport mapping
type Kind int

// Error kinds
const (
	KindInvalid Kind = iota + 1
	KindForbidden
	KindNotFound
)

// Error is a domain error with a user-facing message
type Error struct {
	Kind Kind
	Msg  string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Msg
}

func invalid(msg string) *Error {
	return &Error{Kind: KindInvalid, Msg: msg}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Domain errors. Each maps to a specific message and status; they are
// never coerced into a different outcome.
var (
	ErrUserNotFound         = notFound("user not found")
	ErrPostNotFound         = notFound("post not found")
	ErrCommentNotFound      = notFound("comment not found")
	ErrTeamNotFound         = notFound("team not found")
	ErrConnectionNotFound   = notFound("connection not found")
	ErrConversationNotFound = notFound("conversation not found")
	ErrRepostNotFound       = notFound("repost not found")

	ErrReplyToReply         = invalid("cannot reply to a reply")
	ErrAlreadyLiked         = invalid("already liked")
	ErrNotLiked             = invalid("not liked")
	ErrSelfRepost           = invalid("cannot repost your own post")
	ErrRepostOfRepost       = invalid("cannot repost a repost")
	ErrAlreadyReposted      = invalid("already reposted")
	ErrSelfConnection       = invalid("cannot connect with yourself")
	ErrConnectionExists     = invalid("connection already exists")
	ErrConnectionNotPending = invalid("connection is not pending")
	ErrAlreadyFollowing     = invalid("already following this team")
	ErrSelfMessage          = invalid("cannot message yourself")
	ErrEmptyContent         = invalid("content must not be empty")

	ErrNotCommentAuthor = forbidden("not the comment author")
	ErrNotAddressee     = forbidden("not the connection addressee")
	ErrNotConnected     = forbidden("users are not connected")
	ErrNotParticipant   = forbidden("not a conversation participant")
)
