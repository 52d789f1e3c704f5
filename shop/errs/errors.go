// Package errs defines the recoverable error taxonomy of the order workflow.
// Every error carries a stable code that handler summary logging picks up.
package errs

// Error is a sentinel workflow error with a stable machine-readable code.
type Error struct {
	code string
	text string
}

// Error returns the human-readable description.
func (e *Error) Error() string { return e.text }

// Code returns the stable identifier used in logs and handler summaries.
func (e *Error) Code() string { return e.code }

var (
	// ErrUnknownPlan indicates the requested plan is not in the catalog.
	ErrUnknownPlan = &Error{code: "UNKNOWN_PLAN", text: "plan is not in the catalog"}
	// ErrOrderNotFound indicates no order exists for the given id.
	ErrOrderNotFound = &Error{code: "ORDER_NOT_FOUND", text: "order not found"}
	// ErrNotOwner indicates the caller is not the buyer who opened the order.
	ErrNotOwner = &Error{code: "NOT_OWNER", text: "order belongs to another buyer"}
	// ErrInvalidTransition indicates the order status does not admit the
	// requested transition: stale admin actions, duplicate proof uploads,
	// and lost CAS races all surface as this error.
	ErrInvalidTransition = &Error{code: "INVALID_TRANSITION", text: "order is no longer in a state that allows this action"}
	// ErrUnauthorized indicates a non-administrator attempted an admin action.
	ErrUnauthorized = &Error{code: "UNAUTHORIZED", text: "caller is not an administrator"}
	// ErrNoCredentials indicates the credential vault has no unassigned
	// entry left for the plan.
	ErrNoCredentials = &Error{code: "NO_CREDENTIALS", text: "no credentials available for plan"}
)
