package league

import "fmt"

// Kind classifies a domain error so the route layer can pick a response
// status without inspecting individual codes.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindForbidden    Kind = "forbidden"
	KindPrecondition Kind = "precondition"
)

// Error is a guard violation with a stable machine-readable code. Guard
// failures are expected outcomes, not faults: they are returned, never
// panicked, and the route layer maps them to 4xx responses.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrMatchNotFound = &Error{Kind: KindNotFound, Code: "MATCH_NOT_FOUND", Message: "match not found"}
	ErrTeamNotFound  = &Error{Kind: KindNotFound, Code: "TEAM_NOT_FOUND", Message: "team not found"}
	ErrCardNotFound  = &Error{Kind: KindNotFound, Code: "CARD_NOT_FOUND", Message: "card not found"}

	ErrMatchNotOpen      = &Error{Kind: KindConflict, Code: "MATCH_NOT_OPEN", Message: "match is not open for registration"}
	ErrMatchFull         = &Error{Kind: KindConflict, Code: "MATCH_FULL", Message: "match has no remaining slots"}
	ErrAlreadyRegistered = &Error{Kind: KindConflict, Code: "ALREADY_REGISTERED", Message: "team already registered in this match"}
	ErrPastDeadline      = &Error{Kind: KindConflict, Code: "PAST_DEADLINE", Message: "registration deadline has passed"}
	ErrMatchFinalized    = &Error{Kind: KindConflict, Code: "MATCH_FINALIZED", Message: "match is already finalized"}
	ErrMatchCancelled    = &Error{Kind: KindConflict, Code: "MATCH_CANCELLED", Message: "match has been cancelled"}

	ErrForbidden = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "caller is not allowed to perform this action"}

	ErrMatchNotReady      = &Error{Kind: KindPrecondition, Code: "MATCH_NOT_READY", Message: "match is not in a finalizable status"}
	ErrDeadlineNotReached = &Error{Kind: KindPrecondition, Code: "DEADLINE_NOT_REACHED", Message: "registration deadline has not passed yet"}
	ErrNotEnoughTeams     = &Error{Kind: KindPrecondition, Code: "NOT_ENOUGH_TEAMS", Message: "match does not have enough registered teams"}
	ErrTeamNotRegistered  = &Error{Kind: KindPrecondition, Code: "TEAM_NOT_REGISTERED", Message: "team is not registered in this match"}

	ErrAlreadyPunished = &Error{Kind: KindConflict, Code: "ALREADY_PUNISHED", Message: "punishment already applied for this team"}
)

// Validation returns a KindValidation error with the VALIDATION code.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION", Message: fmt.Sprintf(format, args...)}
}
