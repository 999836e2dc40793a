package league

import (
	"time"

	dbgen "github.com/tfarias/rachao/internal/db/generated"
)

// Match statuses. The Portuguese values are the legacy data format and are
// stored as-is; callers compare against these constants, never literals.
const (
	StatusOpen       = "aberta"
	StatusFull       = "sem_vagas"
	StatusInProgress = "em_andamento"
	StatusConfirmed  = "confirmada"
	StatusCancelled  = "cancelada"
	StatusFinal      = "finalizada"
)

const (
	cancelReasonNoTeams = "menos de duas equipes inscritas"
	minTeamsToConfirm   = 2
)

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status string) bool {
	return status == StatusCancelled || status == StatusFinal
}

// DeadlinePassedAt reports whether the registration deadline has passed at
// the given instant. Deadlines are end-of-day: the deadline day itself still
// accepts registrations, and the cutoff is midnight of the following day in
// the service timezone.
func DeadlinePassedAt(deadline time.Time, loc *time.Location, at time.Time) bool {
	local := deadline.In(loc)
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return !at.Before(cutoff)
}

// DeriveStatus computes the status a match should hold at the given instant,
// from its stored status, its registered-team count, and the deadline. It is
// pure: persistence of the result is the caller's concern. Terminal and
// in-progress statuses are never rederived.
func DeriveStatus(match dbgen.Match, registeredCount int64, loc *time.Location, at time.Time) string {
	if IsTerminal(match.Status) || match.Status == StatusInProgress {
		return match.Status
	}

	if DeadlinePassedAt(match.RegistrationDeadline, loc, at) {
		if registeredCount < minTeamsToConfirm {
			return StatusCancelled
		}
		return StatusConfirmed
	}

	if registeredCount >= match.MaxTeams {
		return StatusFull
	}
	return StatusOpen
}
