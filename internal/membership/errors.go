package membership

type ErrorCode string

const (
	// ErrorCodeNotAllowed means the mutation is invalid from the current
	// derived status, e.g. joining a group you already belong to.
	ErrorCodeNotAllowed ErrorCode = "NOT_ALLOWED"
	// ErrorCodeInFlight means another mutation on this group has not
	// returned yet. Re-initiate manually once it settles.
	ErrorCodeInFlight ErrorCode = "MUTATION_IN_FLIGHT"
	// ErrorCodeDeclined means the user rejected the confirmation prompt for
	// a destructive action. No request was sent.
	ErrorCodeDeclined ErrorCode = "CONFIRMATION_DECLINED"
	// ErrorCodeRemote carries the server-provided failure message through to
	// the user.
	ErrorCodeRemote ErrorCode = "REMOTE"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
