package punishment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tfarias/rachao/internal/api/authz"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/league"
	"github.com/tfarias/rachao/internal/notify"
)

// Punishment reasons as stored in punishments.reason. The Portuguese values
// are the legacy data format.
const (
	ReasonWithdrawal = "Desistencia"
	ReasonLateness   = "Atraso"
)

// Workflow applies team sanctions after the registration deadline. A match
// sanction against one of exactly two registered teams finalizes the match
// by walkover for the opponent; championship sanctions are recorded without
// touching any match.
type Workflow struct {
	db    *appdb.DB
	loc   *time.Location
	now   func() time.Time
	hook  league.FinalizeHook
	email notify.EmailSender
}

func NewWorkflow(database *appdb.DB, loc *time.Location) (*Workflow, error) {
	if database == nil {
		return nil, errors.New("punishment workflow requires a database")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Workflow{
		db:  database,
		loc: loc,
		now: time.Now,
	}, nil
}

// SetFinalizeHook wires the discipline tracker into walkover finalizations.
func (w *Workflow) SetFinalizeHook(hook league.FinalizeHook) {
	w.hook = hook
}

// SetClock overrides the workflow clock, for tests.
func (w *Workflow) SetClock(now func() time.Time) {
	if now != nil {
		w.now = now
	}
}

// SetEmailSender enables the sanction notice to the punished team's captain,
// sent after the transaction commits.
func (w *Workflow) SetEmailSender(client notify.EmailSender) {
	w.email = client
}

func validReason(reason string) bool {
	return reason == ReasonWithdrawal || reason == ReasonLateness
}

// MatchResult reports what applying a match sanction did.
type MatchResult struct {
	Punishment dbgen.Punishment `json:"punishment"`
	Walkover   bool             `json:"walkover"`
	// WinnerTeamID is set when the sanction decided the match.
	WinnerTeamID int64 `json:"winnerTeamId,omitempty"`
}

// ApplyToMatch sanctions a registered team of a match. Only the organizer or
// admin-master may apply it, only after the registration deadline, and only
// once per team.
func (w *Workflow) ApplyToMatch(ctx context.Context, matchID, teamID int64, reason string, actor *authz.AuthUser) (MatchResult, error) {
	if !validReason(reason) {
		return MatchResult{}, league.Validation("reason must be %s or %s", ReasonWithdrawal, ReasonLateness)
	}

	var result MatchResult
	var punishedMatch dbgen.Match
	var punishedCaptainID int64
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		match, err := txdb.Queries.GetMatch(ctx, matchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return league.ErrMatchNotFound
			}
			return fmt.Errorf("load match %d: %w", matchID, err)
		}
		if !authz.CanManageMatch(actor, match.OrganizerID) {
			return league.ErrForbidden
		}
		switch match.Status {
		case league.StatusFinal:
			return league.ErrMatchFinalized
		case league.StatusCancelled:
			return league.ErrMatchCancelled
		}
		if !league.DeadlinePassedAt(match.RegistrationDeadline, w.loc, w.now()) {
			return league.ErrDeadlineNotReached
		}

		teams, err := txdb.Queries.ListMatchTeams(ctx, matchID)
		if err != nil {
			return fmt.Errorf("list match teams: %w", err)
		}
		if int64(len(teams)) < 2 {
			return league.ErrNotEnoughTeams
		}
		registered := false
		var opponentID int64
		for _, team := range teams {
			if team.TeamID == teamID {
				registered = true
				punishedCaptainID = team.CaptainID
			} else {
				opponentID = team.TeamID
			}
		}
		if !registered {
			return league.ErrTeamNotRegistered
		}
		punishedMatch = match

		created, err := txdb.Queries.CreatePunishment(ctx, dbgen.CreatePunishmentParams{
			MatchID:   sql.NullInt64{Int64: matchID, Valid: true},
			TeamID:    teamID,
			Reason:    reason,
			AppliedBy: actor.ID,
		})
		if err != nil {
			if appdb.IsUniqueViolation(err) {
				return league.ErrAlreadyPunished
			}
			return fmt.Errorf("create punishment: %w", err)
		}
		result.Punishment = created

		// With exactly two teams the sanction decides the match; with more,
		// the record stands and the match goes on without the team.
		if len(teams) != 2 {
			return nil
		}

		rows, err := txdb.Queries.FinalizeMatchWalkover(ctx, dbgen.FinalizeMatchWalkoverParams{
			WalkoverTeamID: sql.NullInt64{Int64: opponentID, Valid: true},
			ID:             matchID,
		})
		if err != nil {
			return fmt.Errorf("finalize walkover for match %d: %w", matchID, err)
		}
		if rows == 0 {
			return league.ErrMatchFinalized
		}
		result.Walkover = true
		result.WinnerTeamID = opponentID

		if w.hook != nil {
			match.Status = league.StatusFinal
			match.WalkoverTeamID = sql.NullInt64{Int64: opponentID, Valid: true}
			if err := w.hook.MatchFinalized(ctx, txdb, match); err != nil {
				return fmt.Errorf("finalize hook for match %d: %w", matchID, err)
			}
		}
		return nil
	})
	if err != nil {
		return MatchResult{}, err
	}

	if w.email != nil {
		subject, body := notify.PunishmentNotice(punishedMatch, reason, result.Walkover)
		notify.SendToUser(ctx, w.db.Queries, w.email, punishedCaptainID, subject, body, log.Ctx(ctx))
	}

	event := log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Int64("team_id", teamID).
		Str("reason", reason).
		Int64("actor_id", actor.ID).
		Bool("walkover", result.Walkover)
	if result.Walkover {
		event = event.Int64("winner_team_id", result.WinnerTeamID)
	}
	event.Msg("Match punishment applied")
	return result, nil
}

// ApplyToChampionship records a sanction against a team at championship
// level. No match is touched.
func (w *Workflow) ApplyToChampionship(ctx context.Context, championshipID, teamID int64, reason string, actor *authz.AuthUser) (dbgen.Punishment, error) {
	if !validReason(reason) {
		return dbgen.Punishment{}, league.Validation("reason must be %s or %s", ReasonWithdrawal, ReasonLateness)
	}

	var created dbgen.Punishment
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		championship, err := txdb.Queries.GetChampionship(ctx, championshipID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return league.Validation("championship %d not found", championshipID)
			}
			return fmt.Errorf("load championship %d: %w", championshipID, err)
		}
		if !authz.CanManageMatch(actor, championship.OrganizerID) {
			return league.ErrForbidden
		}
		if _, err := txdb.Queries.GetTeam(ctx, teamID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return league.ErrTeamNotFound
			}
			return fmt.Errorf("load team %d: %w", teamID, err)
		}

		created, err = txdb.Queries.CreatePunishment(ctx, dbgen.CreatePunishmentParams{
			ChampionshipID: sql.NullInt64{Int64: championshipID, Valid: true},
			TeamID:         teamID,
			Reason:         reason,
			AppliedBy:      actor.ID,
		})
		if err != nil {
			if appdb.IsUniqueViolation(err) {
				return league.ErrAlreadyPunished
			}
			return fmt.Errorf("create punishment: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbgen.Punishment{}, err
	}

	log.Ctx(ctx).Info().
		Int64("championship_id", championshipID).
		Int64("team_id", teamID).
		Str("reason", reason).
		Int64("actor_id", actor.ID).
		Msg("Championship punishment applied")
	return created, nil
}
