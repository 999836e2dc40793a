package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tfarias/rachao/internal/api/authz"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/notify"
)

// FinalizeHook is invoked inside the finalization transaction whenever a
// match reaches finalizada, including walkover finalizations. The discipline
// tracker implements it to count served suspension games.
type FinalizeHook interface {
	MatchFinalized(ctx context.Context, txdb *appdb.DB, match dbgen.Match) error
}

// Engine owns the match lifecycle: registrations, lazy deadline evaluation,
// and the status state machine. All status writes are compare-and-set inside
// a single transaction so two concurrent requests cannot both claim the same
// transition.
type Engine struct {
	db    *appdb.DB
	loc   *time.Location
	now   func() time.Time
	hook  FinalizeHook
	email notify.EmailSender
}

func NewEngine(database *appdb.DB, loc *time.Location) (*Engine, error) {
	if database == nil {
		return nil, errors.New("match engine requires a database")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		db:  database,
		loc: loc,
		now: time.Now,
	}, nil
}

// SetFinalizeHook wires the discipline tracker. Must be called before any
// finalization path runs.
func (e *Engine) SetFinalizeHook(hook FinalizeHook) {
	e.hook = hook
}

// SetClock overrides the engine clock, for tests.
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// SetEmailSender enables captain notifications for deadline-driven
// transitions. Notices are queued inside the transaction and sent only after
// it commits.
func (e *Engine) SetEmailSender(client notify.EmailSender) {
	e.email = client
}

type notice struct {
	userID  int64
	subject string
	body    string
}

func (e *Engine) dispatch(ctx context.Context, pending []notice) {
	if e.email == nil {
		return
	}
	for _, n := range pending {
		notify.SendToUser(ctx, e.db.Queries, e.email, n.userID, n.subject, n.body, log.Ctx(ctx))
	}
}

// MatchState is a match together with its registration count after lazy
// status evaluation.
type MatchState struct {
	Match           dbgen.Match `json:"match"`
	RegisteredTeams int64       `json:"registeredTeams"`
}

type CreateMatchInput struct {
	Title                string
	MatchDate            time.Time
	Location             string
	MaxTeams             int64
	RegistrationDeadline time.Time
	OrganizerID          int64
	ChampionshipID       sql.NullInt64
}

func (e *Engine) CreateMatch(ctx context.Context, input CreateMatchInput) (dbgen.Match, error) {
	if strings.TrimSpace(input.Title) == "" {
		return dbgen.Match{}, Validation("title is required")
	}
	if input.MaxTeams < minTeamsToConfirm {
		return dbgen.Match{}, Validation("max_teams must be at least %d", minTeamsToConfirm)
	}
	if input.MatchDate.IsZero() || input.RegistrationDeadline.IsZero() {
		return dbgen.Match{}, Validation("match_date and registration_deadline are required")
	}
	if input.RegistrationDeadline.After(input.MatchDate) {
		return dbgen.Match{}, Validation("registration_deadline must not be after match_date")
	}

	var match dbgen.Match
	err := e.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		if input.ChampionshipID.Valid {
			if _, err := txdb.Queries.GetChampionship(ctx, input.ChampionshipID.Int64); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return Validation("championship %d not found", input.ChampionshipID.Int64)
				}
				return fmt.Errorf("load championship %d: %w", input.ChampionshipID.Int64, err)
			}
		}

		created, err := txdb.Queries.CreateMatch(ctx, dbgen.CreateMatchParams{
			Title:                strings.TrimSpace(input.Title),
			MatchDate:            input.MatchDate,
			Location:             strings.TrimSpace(input.Location),
			MaxTeams:             input.MaxTeams,
			RegistrationDeadline: input.RegistrationDeadline,
			OrganizerID:          input.OrganizerID,
			ChampionshipID:       input.ChampionshipID,
		})
		if err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		match = created
		return nil
	})
	if err != nil {
		return dbgen.Match{}, err
	}

	log.Ctx(ctx).Info().
		Int64("match_id", match.ID).
		Int64("organizer_id", match.OrganizerID).
		Time("registration_deadline", match.RegistrationDeadline).
		Msg("Match created")
	return match, nil
}

// GetMatchStatus fetches a match, lazily applying any deadline-driven
// transition before returning. This is the read path every caller goes
// through, so a stored status is never observed stale.
func (e *Engine) GetMatchStatus(ctx context.Context, matchID int64) (MatchState, error) {
	var state MatchState
	var pending []notice
	err := e.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		match, count, err := e.refresh(ctx, txdb, matchID, &pending)
		if err != nil {
			return err
		}
		state = MatchState{Match: match, RegisteredTeams: count}
		return nil
	})
	if err != nil {
		return state, err
	}
	e.dispatch(ctx, pending)
	return state, nil
}

// JoinMatch registers a team into an open match on behalf of its captain.
func (e *Engine) JoinMatch(ctx context.Context, matchID, teamID int64, actor *authz.AuthUser) (dbgen.MatchTeam, error) {
	if actor == nil {
		return dbgen.MatchTeam{}, ErrForbidden
	}

	var registration dbgen.MatchTeam
	var pending []notice
	err := e.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		team, err := txdb.Queries.GetTeam(ctx, teamID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("load team %d: %w", teamID, err)
		}
		if !authz.CanManageTeam(actor, team.CaptainID) {
			return ErrForbidden
		}

		match, count, err := e.refresh(ctx, txdb, matchID, &pending)
		if err != nil {
			return err
		}

		switch match.Status {
		case StatusCancelled:
			return ErrMatchCancelled
		case StatusFinal:
			return ErrMatchFinalized
		case StatusFull:
			return ErrMatchFull
		case StatusOpen:
			// fallthrough to the remaining guards
		default:
			if DeadlinePassedAt(match.RegistrationDeadline, e.loc, e.now()) {
				return ErrPastDeadline
			}
			return ErrMatchNotOpen
		}

		fielded, err := txdb.Queries.CountMatchTeamsForCaptain(ctx, dbgen.CountMatchTeamsForCaptainParams{
			MatchID:   matchID,
			CaptainID: team.CaptainID,
		})
		if err != nil {
			return fmt.Errorf("count captain registrations: %w", err)
		}
		if fielded > 0 {
			return ErrAlreadyRegistered
		}

		registration, err = txdb.Queries.AddMatchTeam(ctx, dbgen.AddMatchTeamParams{
			MatchID: matchID,
			TeamID:  teamID,
		})
		if err != nil {
			if appdb.IsUniqueViolation(err) {
				return ErrAlreadyRegistered
			}
			return fmt.Errorf("register team %d in match %d: %w", teamID, matchID, err)
		}

		count++
		if count >= match.MaxTeams {
			if _, err := txdb.Queries.SetMatchStatus(ctx, dbgen.SetMatchStatusParams{
				Status:     StatusFull,
				ID:         matchID,
				FromStatus: StatusOpen,
			}); err != nil {
				return fmt.Errorf("mark match %d full: %w", matchID, err)
			}
			log.Ctx(ctx).Info().
				Int64("match_id", matchID).
				Int64("registered_teams", count).
				Str("decision", "slots_exhausted").
				Msg("Match reached capacity")
		}
		return nil
	})
	if err != nil {
		return dbgen.MatchTeam{}, err
	}
	e.dispatch(ctx, pending)

	log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Int64("team_id", teamID).
		Int64("actor_id", actor.ID).
		Msg("Team joined match")
	return registration, nil
}

// LeaveMatch removes a team's registration. Captains may leave until the
// deadline; the organizer or admin-master may force-remove any time before
// finalization.
func (e *Engine) LeaveMatch(ctx context.Context, matchID, teamID int64, actor *authz.AuthUser) error {
	if actor == nil {
		return ErrForbidden
	}

	var pending []notice
	err := e.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		match, count, err := e.refresh(ctx, txdb, matchID, &pending)
		if err != nil {
			return err
		}
		if match.Status == StatusFinal {
			return ErrMatchFinalized
		}

		team, err := txdb.Queries.GetTeam(ctx, teamID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("load team %d: %w", teamID, err)
		}

		switch {
		case authz.CanManageMatch(actor, match.OrganizerID):
			// organizer/admin forced removal
		case authz.CanManageTeam(actor, team.CaptainID):
			if DeadlinePassedAt(match.RegistrationDeadline, e.loc, e.now()) {
				return ErrPastDeadline
			}
		default:
			return ErrForbidden
		}

		removed, err := txdb.Queries.RemoveMatchTeam(ctx, dbgen.RemoveMatchTeamParams{
			MatchID: matchID,
			TeamID:  teamID,
		})
		if err != nil {
			return fmt.Errorf("remove team %d from match %d: %w", teamID, matchID, err)
		}
		if removed == 0 {
			return ErrTeamNotRegistered
		}

		if match.Status == StatusFull && count-1 < match.MaxTeams {
			if _, err := txdb.Queries.SetMatchStatus(ctx, dbgen.SetMatchStatusParams{
				Status:     StatusOpen,
				ID:         matchID,
				FromStatus: StatusFull,
			}); err != nil {
				return fmt.Errorf("reopen match %d: %w", matchID, err)
			}
			log.Ctx(ctx).Info().
				Int64("match_id", matchID).
				Str("decision", "slot_freed").
				Msg("Match reopened after team left")
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.dispatch(ctx, pending)

	log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Int64("team_id", teamID).
		Int64("actor_id", actor.ID).
		Msg("Team left match")
	return nil
}

// StartMatch moves a confirmed match into em_andamento.
func (e *Engine) StartMatch(ctx context.Context, matchID int64, actor *authz.AuthUser) (dbgen.Match, error) {
	var match dbgen.Match
	var pending []notice
	err := e.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		current, _, err := e.refresh(ctx, txdb, matchID, &pending)
		if err != nil {
			return err
		}
		if !authz.CanManageMatch(actor, current.OrganizerID) {
			return ErrForbidden
		}
		if current.Status != StatusConfirmed {
			return ErrMatchNotReady
		}

		rows, err := txdb.Queries.SetMatchStatus(ctx, dbgen.SetMatchStatusParams{
			Status:     StatusInProgress,
			ID:         matchID,
			FromStatus: StatusConfirmed,
		})
		if err != nil {
			return fmt.Errorf("start match %d: %w", matchID, err)
		}
		if rows == 0 {
			return ErrMatchNotReady
		}
		current.Status = StatusInProgress
		match = current
		return nil
	})
	if err != nil {
		return dbgen.Match{}, err
	}
	e.dispatch(ctx, pending)

	log.Ctx(ctx).Info().Int64("match_id", matchID).Msg("Match started")
	return match, nil
}

// FinalizeMatch closes a match via the súmula path. This is the only route
// to finalizada other than a walkover punishment, and it drives the
// discipline served-game hook in the same transaction.
func (e *Engine) FinalizeMatch(ctx context.Context, matchID int64, actor *authz.AuthUser) (dbgen.Match, error) {
	var match dbgen.Match
	var pending []notice
	err := e.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		current, _, err := e.refresh(ctx, txdb, matchID, &pending)
		if err != nil {
			return err
		}
		if !authz.CanManageMatch(actor, current.OrganizerID) {
			return ErrForbidden
		}
		if current.Status != StatusConfirmed && current.Status != StatusInProgress {
			return ErrMatchNotReady
		}

		rows, err := txdb.Queries.SetMatchStatus(ctx, dbgen.SetMatchStatusParams{
			Status:     StatusFinal,
			ID:         matchID,
			FromStatus: current.Status,
		})
		if err != nil {
			return fmt.Errorf("finalize match %d: %w", matchID, err)
		}
		if rows == 0 {
			return ErrMatchNotReady
		}
		current.Status = StatusFinal

		if e.hook != nil {
			if err := e.hook.MatchFinalized(ctx, txdb, current); err != nil {
				return fmt.Errorf("finalize hook for match %d: %w", matchID, err)
			}
		}
		match = current
		return nil
	})
	if err != nil {
		return dbgen.Match{}, err
	}
	e.dispatch(ctx, pending)

	log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Int64("actor_id", actor.ID).
		Msg("Match finalized")
	return match, nil
}

// ListMatches returns all matches without lazy evaluation; list views accept
// a stale status, detail reads do not.
func (e *Engine) ListMatches(ctx context.Context) ([]dbgen.Match, error) {
	return e.db.Queries.ListMatches(ctx)
}

// refresh loads a match and applies any deadline-driven transition with a
// compare-and-set write. When the CAS loses a race the row is reloaded so
// the caller always proceeds on the persisted status. Captain notices for a
// won transition are appended to pending; the caller sends them after commit.
func (e *Engine) refresh(ctx context.Context, txdb *appdb.DB, matchID int64, pending *[]notice) (dbgen.Match, int64, error) {
	match, err := txdb.Queries.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Match{}, 0, ErrMatchNotFound
		}
		return dbgen.Match{}, 0, fmt.Errorf("load match %d: %w", matchID, err)
	}

	count, err := txdb.Queries.CountMatchTeams(ctx, matchID)
	if err != nil {
		return dbgen.Match{}, 0, fmt.Errorf("count match teams %d: %w", matchID, err)
	}

	derived := DeriveStatus(match, count, e.loc, e.now())
	if derived == match.Status {
		return match, count, nil
	}

	var rows int64
	if derived == StatusCancelled {
		rows, err = txdb.Queries.CancelMatch(ctx, dbgen.CancelMatchParams{
			CancellationReason: sql.NullString{String: cancelReasonNoTeams, Valid: true},
			ID:                 matchID,
			FromStatus:         match.Status,
		})
	} else {
		rows, err = txdb.Queries.SetMatchStatus(ctx, dbgen.SetMatchStatusParams{
			Status:     derived,
			ID:         matchID,
			FromStatus: match.Status,
		})
	}
	if err != nil {
		return dbgen.Match{}, 0, fmt.Errorf("transition match %d to %s: %w", matchID, derived, err)
	}

	if rows == 0 {
		match, err = txdb.Queries.GetMatch(ctx, matchID)
		if err != nil {
			return dbgen.Match{}, 0, fmt.Errorf("reload match %d: %w", matchID, err)
		}
		return match, count, nil
	}

	log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Str("from_status", match.Status).
		Str("to_status", derived).
		Int64("registered_teams", count).
		Msg("Match status transitioned")

	match.Status = derived
	if derived == StatusCancelled {
		match.CancellationReason = sql.NullString{String: cancelReasonNoTeams, Valid: true}
	}

	if pending != nil && (derived == StatusConfirmed || derived == StatusCancelled) {
		var subject, body string
		if derived == StatusConfirmed {
			subject, body = notify.ConfirmationNotice(match)
		} else {
			subject, body = notify.CancellationNotice(match)
		}
		teams, err := txdb.Queries.ListMatchTeams(ctx, matchID)
		if err != nil {
			return dbgen.Match{}, 0, fmt.Errorf("list match teams for notices %d: %w", matchID, err)
		}
		for _, team := range teams {
			*pending = append(*pending, notice{userID: team.CaptainID, subject: subject, body: body})
		}
	}
	return match, count, nil
}
