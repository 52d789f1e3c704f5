package workflow

import "context"

// Content is an outbound message body. When OrderID is set, admin-facing
// deliveries carry approve/reject actions scoped to that order only.
type Content struct {
	Text    string
	OrderID string
}

// Messenger is the outbound messaging boundary. Calls are fire-and-forget
// from the engine's perspective: no response value feeds back into order
// state, and implementations are expected to retry transient failures on
// their own.
type Messenger interface {
	// SendToUser delivers text to a single user.
	SendToUser(ctx context.Context, userID int64, text string) error
	// ForwardMedia delivers previously uploaded media to a user.
	ForwardMedia(ctx context.Context, userID int64, mediaRef string) error
	// BroadcastToAdmins delivers content to every configured administrator.
	BroadcastToAdmins(ctx context.Context, content Content) error
}
