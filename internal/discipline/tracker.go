package discipline

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

// Card types as stored in cards.card_type.
const (
	CardYellow = "yellow"
	CardRed    = "red"
)

// Suspension reasons as stored in suspensions.reason.
const (
	ReasonYellowCards = "yellow_cards"
	ReasonRedCard     = "red_card"
	ReasonManual      = "manual"
)

// Policy holds the card thresholds and suspension lengths. Values come from
// the discipline section of the service config.
type Policy struct {
	YellowCardThreshold int64
	YellowCardGames     int64
	RedCardGames        int64
}

// Tracker derives suspensions from the card ledger. The ledger is the source
// of truth: every card write triggers a reconciliation of the player's
// suspension state within the card's scope, so removing a card rolls unserved
// suspension games back automatically.
type Tracker struct {
	db     *appdb.DB
	policy Policy
	now    func() time.Time
	email  notify.EmailSender
}

func NewTracker(database *appdb.DB, policy Policy) (*Tracker, error) {
	if database == nil {
		return nil, errors.New("discipline tracker requires a database")
	}
	if policy.YellowCardThreshold <= 0 || policy.YellowCardGames <= 0 || policy.RedCardGames <= 0 {
		return nil, fmt.Errorf("invalid discipline policy: %+v", policy)
	}
	return &Tracker{
		db:     database,
		policy: policy,
		now:    time.Now,
	}, nil
}

// SetClock overrides the tracker clock, for tests.
func (t *Tracker) SetClock(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// SetEmailSender enables the suspension notice to the player, sent after the
// transaction commits.
func (t *Tracker) SetEmailSender(client notify.EmailSender) {
	t.email = client
}

// notifySuspension tells the player about freshly added suspension debt.
// Best effort after commit.
func (t *Tracker) notifySuspension(ctx context.Context, playerID, games int64) {
	if t.email == nil || games <= 0 {
		return
	}
	player, err := t.db.Queries.GetUserByID(ctx, playerID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("player_id", playerID).Msg("Failed to load player for suspension notice")
		return
	}
	subject, body := notify.SuspensionNotice(player.Name, games)
	notify.SendToUser(ctx, t.db.Queries, t.email, playerID, subject, body, log.Ctx(ctx))
}

type RecordCardInput struct {
	MatchID  int64
	PlayerID int64
	TeamID   int64
	CardType string
	Minute   int64
}

// RecordCard appends a card to the ledger and reconciles the player's
// suspension state in the same transaction.
func (t *Tracker) RecordCard(ctx context.Context, input RecordCardInput, actor *authz.AuthUser) (dbgen.Card, error) {
	if input.CardType != CardYellow && input.CardType != CardRed {
		return dbgen.Card{}, league.Validation("card_type must be yellow or red")
	}
	if input.Minute < 1 || input.Minute > 120 {
		return dbgen.Card{}, league.Validation("minute must be between 1 and 120")
	}

	var card dbgen.Card
	var addedGames int64
	err := t.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		match, err := txdb.Queries.GetMatch(ctx, input.MatchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return league.ErrMatchNotFound
			}
			return fmt.Errorf("load match %d: %w", input.MatchID, err)
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

		if _, err := txdb.Queries.GetMatchTeam(ctx, dbgen.GetMatchTeamParams{
			MatchID: input.MatchID,
			TeamID:  input.TeamID,
		}); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return league.ErrTeamNotRegistered
			}
			return fmt.Errorf("load registration: %w", err)
		}

		card, err = txdb.Queries.CreateCard(ctx, dbgen.CreateCardParams{
			MatchID:  input.MatchID,
			PlayerID: input.PlayerID,
			TeamID:   input.TeamID,
			CardType: input.CardType,
			Minute:   input.Minute,
		})
		if err != nil {
			return fmt.Errorf("create card: %w", err)
		}

		addedGames, err = t.reconcile(ctx, txdb, input.PlayerID, match.ChampionshipID)
		return err
	})
	if err != nil {
		return dbgen.Card{}, err
	}
	t.notifySuspension(ctx, input.PlayerID, addedGames)

	log.Ctx(ctx).Info().
		Int64("card_id", card.ID).
		Int64("match_id", card.MatchID).
		Int64("player_id", card.PlayerID).
		Str("card_type", card.CardType).
		Int64("minute", card.Minute).
		Msg("Card recorded")
	return card, nil
}

// RemoveCard deletes a card and reconciles, rolling back suspension games
// the player has not served yet. On finalized matches only admin-master may
// correct the ledger.
func (t *Tracker) RemoveCard(ctx context.Context, cardID int64, actor *authz.AuthUser) error {
	var playerID int64
	err := t.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		card, err := txdb.Queries.GetCard(ctx, cardID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return league.ErrCardNotFound
			}
			return fmt.Errorf("load card %d: %w", cardID, err)
		}

		match, err := txdb.Queries.GetMatch(ctx, card.MatchID)
		if err != nil {
			return fmt.Errorf("load match %d: %w", card.MatchID, err)
		}
		if !authz.CanManageMatch(actor, match.OrganizerID) {
			return league.ErrForbidden
		}
		if match.Status == league.StatusFinal && !authz.IsAdminMaster(actor) {
			return league.ErrMatchFinalized
		}

		removed, err := txdb.Queries.DeleteCard(ctx, cardID)
		if err != nil {
			return fmt.Errorf("delete card %d: %w", cardID, err)
		}
		if removed == 0 {
			return league.ErrCardNotFound
		}

		playerID = card.PlayerID
		_, err = t.reconcile(ctx, txdb, card.PlayerID, match.ChampionshipID)
		return err
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Int64("card_id", cardID).
		Int64("player_id", playerID).
		Int64("actor_id", actor.ID).
		Msg("Card removed")
	return nil
}

// Eligibility is the answer to "may this player take the field".
type Eligibility struct {
	Eligible    bool              `json:"eligible"`
	Reason      string            `json:"reason,omitempty"`
	YellowCards int64             `json:"yellowCards"`
	Suspension  *dbgen.Suspension `json:"suspension,omitempty"`
}

// CheckEligibility reports whether a player may play the given match,
// evaluated against the match's scope.
func (t *Tracker) CheckEligibility(ctx context.Context, playerID, matchID int64) (Eligibility, error) {
	match, err := t.db.Queries.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Eligibility{}, league.ErrMatchNotFound
		}
		return Eligibility{}, fmt.Errorf("load match %d: %w", matchID, err)
	}

	cards, err := t.db.Queries.ListPlayerCardsInScope(ctx, dbgen.ListPlayerCardsInScopeParams{
		PlayerID:       playerID,
		ChampionshipID: match.ChampionshipID,
	})
	if err != nil {
		return Eligibility{}, fmt.Errorf("list player cards: %w", err)
	}
	var yellows int64
	for _, card := range cards {
		if card.CardType == CardYellow {
			yellows++
		}
	}

	suspension, err := t.db.Queries.GetActiveSuspension(ctx, dbgen.GetActiveSuspensionParams{
		PlayerID:       playerID,
		ChampionshipID: match.ChampionshipID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Eligibility{
				Eligible:    true,
				YellowCards: yellows % t.policy.YellowCardThreshold,
			}, nil
		}
		return Eligibility{}, fmt.Errorf("load active suspension: %w", err)
	}

	return Eligibility{
		Eligible:    false,
		Reason:      suspension.Reason,
		YellowCards: yellows % t.policy.YellowCardThreshold,
		Suspension:  &suspension,
	}, nil
}

// CreateManualSuspension records a suspension not derived from cards, for
// off-field incidents. Admin-master only.
func (t *Tracker) CreateManualSuspension(ctx context.Context, playerID int64, championshipID sql.NullInt64, games int64, actor *authz.AuthUser) (dbgen.Suspension, error) {
	if !authz.IsAdminMaster(actor) {
		return dbgen.Suspension{}, league.ErrForbidden
	}
	if games < 1 {
		return dbgen.Suspension{}, league.Validation("games must be at least 1")
	}

	var suspension dbgen.Suspension
	err := t.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		active, err := txdb.Queries.GetActiveSuspension(ctx, dbgen.GetActiveSuspensionParams{
			PlayerID:       playerID,
			ChampionshipID: championshipID,
		})
		if err == nil {
			// Extend the active episode rather than violating the
			// one-active-per-scope constraint.
			suspension, err = txdb.Queries.UpdateSuspensionProgress(ctx, dbgen.UpdateSuspensionProgressParams{
				GamesToSuspend:         active.GamesToSuspend + games,
				GamesSuspended:         active.GamesSuspended,
				YellowCardsAccumulated: active.YellowCardsAccumulated,
				IsActive:               true,
				EndDate:                sql.NullTime{},
				ID:                     active.ID,
			})
			if err != nil {
				return fmt.Errorf("extend suspension %d: %w", active.ID, err)
			}
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("load active suspension: %w", err)
		}

		suspension, err = txdb.Queries.CreateSuspension(ctx, dbgen.CreateSuspensionParams{
			PlayerID:       playerID,
			ChampionshipID: championshipID,
			Reason:         ReasonManual,
			GamesToSuspend: games,
			StartDate:      t.now(),
		})
		if err != nil {
			return fmt.Errorf("create manual suspension: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbgen.Suspension{}, err
	}
	t.notifySuspension(ctx, playerID, games)

	log.Ctx(ctx).Info().
		Int64("suspension_id", suspension.ID).
		Int64("player_id", playerID).
		Int64("games", games).
		Int64("actor_id", actor.ID).
		Msg("Manual suspension recorded")
	return suspension, nil
}

// RecomputePlayer rebuilds a player's suspension state in a scope from the
// card ledger. Admin-master escape hatch for report corrections that bypassed
// the card endpoints.
func (t *Tracker) RecomputePlayer(ctx context.Context, playerID int64, championshipID sql.NullInt64, actor *authz.AuthUser) error {
	if !authz.IsAdminMaster(actor) {
		return league.ErrForbidden
	}

	var addedGames int64
	err := t.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		added, err := t.reconcile(ctx, txdb, playerID, championshipID)
		addedGames = added
		return err
	})
	if err != nil {
		return err
	}
	t.notifySuspension(ctx, playerID, addedGames)

	log.Ctx(ctx).Info().
		Int64("player_id", playerID).
		Int64("actor_id", actor.ID).
		Msg("Player discipline recomputed")
	return nil
}

// MatchFinalized counts one served game for every actively suspended player
// rostered on a team registered in the finalized match. Runs inside the
// finalization transaction, for both súmula and walkover finalizations.
func (t *Tracker) MatchFinalized(ctx context.Context, txdb *appdb.DB, match dbgen.Match) error {
	suspensions, err := txdb.Queries.ListActiveSuspensionsForMatch(ctx, dbgen.ListActiveSuspensionsForMatchParams{
		ChampionshipID: match.ChampionshipID,
		MatchID:        match.ID,
	})
	if err != nil {
		return fmt.Errorf("list suspensions for match %d: %w", match.ID, err)
	}

	for _, suspension := range suspensions {
		served := suspension.GamesSuspended + 1
		stillActive := served < suspension.GamesToSuspend
		endDate := suspension.EndDate
		if !stillActive {
			endDate = sql.NullTime{Time: t.now(), Valid: true}
		}
		if _, err := txdb.Queries.UpdateSuspensionProgress(ctx, dbgen.UpdateSuspensionProgressParams{
			GamesToSuspend:         suspension.GamesToSuspend,
			GamesSuspended:         served,
			YellowCardsAccumulated: suspension.YellowCardsAccumulated,
			IsActive:               stillActive,
			EndDate:                endDate,
			ID:                     suspension.ID,
		}); err != nil {
			return fmt.Errorf("progress suspension %d: %w", suspension.ID, err)
		}

		log.Ctx(ctx).Info().
			Int64("suspension_id", suspension.ID).
			Int64("player_id", suspension.PlayerID).
			Int64("games_suspended", served).
			Int64("games_to_suspend", suspension.GamesToSuspend).
			Bool("closed", !stillActive).
			Msg("Suspension game served")
	}
	return nil
}

// reconcile makes the player's suspension state in a scope agree with the
// card ledger. The owed total is recomputed from scratch; games already
// served are never given back, but unserved games shrink or disappear when
// cards are removed. The returned count is the suspension debt this pass
// added, so callers can notify the player after commit.
func (t *Tracker) reconcile(ctx context.Context, txdb *appdb.DB, playerID int64, championshipID sql.NullInt64) (int64, error) {
	cards, err := txdb.Queries.ListPlayerCardsInScope(ctx, dbgen.ListPlayerCardsInScopeParams{
		PlayerID:       playerID,
		ChampionshipID: championshipID,
	})
	if err != nil {
		return 0, fmt.Errorf("list player cards: %w", err)
	}

	var yellows, reds int64
	for _, card := range cards {
		switch card.CardType {
		case CardYellow:
			yellows++
		case CardRed:
			reds++
		}
	}
	owed := (yellows/t.policy.YellowCardThreshold)*t.policy.YellowCardGames + reds*t.policy.RedCardGames
	pendingYellows := yellows % t.policy.YellowCardThreshold

	suspensions, err := txdb.Queries.ListSuspensionsInScope(ctx, dbgen.ListSuspensionsInScopeParams{
		PlayerID:       playerID,
		ChampionshipID: championshipID,
	})
	if err != nil {
		return 0, fmt.Errorf("list suspensions: %w", err)
	}

	// Settled debt: closed episodes are fully served, manual episodes are
	// debt of their own on top of the card-derived total.
	var settled int64
	var active *dbgen.Suspension
	for i := range suspensions {
		s := suspensions[i]
		if s.IsActive {
			active = &suspensions[i]
			if s.Reason == ReasonManual {
				owed += s.GamesToSuspend
			}
			continue
		}
		if s.Reason == ReasonManual {
			continue
		}
		settled += s.GamesToSuspend
	}

	remaining := owed - settled

	if active == nil {
		if remaining <= 0 {
			return 0, nil
		}
		reason := ReasonYellowCards
		if reds > 0 {
			reason = ReasonRedCard
		}
		created, err := txdb.Queries.CreateSuspension(ctx, dbgen.CreateSuspensionParams{
			PlayerID:               playerID,
			ChampionshipID:         championshipID,
			Reason:                 reason,
			YellowCardsAccumulated: pendingYellows,
			GamesToSuspend:         remaining,
			StartDate:              t.now(),
		})
		if err != nil {
			return 0, fmt.Errorf("create suspension: %w", err)
		}
		log.Ctx(ctx).Info().
			Int64("suspension_id", created.ID).
			Int64("player_id", playerID).
			Int64("games_to_suspend", remaining).
			Str("reason", reason).
			Msg("Suspension opened")
		return remaining, nil
	}

	if remaining <= active.GamesSuspended {
		// Debt no longer exceeds what was already served. An untouched
		// episode disappears, a partly served one closes.
		if active.GamesSuspended == 0 && active.Reason != ReasonManual {
			if _, err := txdb.Queries.DeleteSuspension(ctx, active.ID); err != nil {
				return 0, fmt.Errorf("delete suspension %d: %w", active.ID, err)
			}
			log.Ctx(ctx).Info().
				Int64("suspension_id", active.ID).
				Int64("player_id", playerID).
				Msg("Suspension withdrawn after card removal")
			return 0, nil
		}
		if _, err := txdb.Queries.UpdateSuspensionProgress(ctx, dbgen.UpdateSuspensionProgressParams{
			GamesToSuspend:         active.GamesSuspended,
			GamesSuspended:         active.GamesSuspended,
			YellowCardsAccumulated: pendingYellows,
			IsActive:               false,
			EndDate:                sql.NullTime{Time: t.now(), Valid: true},
			ID:                     active.ID,
		}); err != nil {
			return 0, fmt.Errorf("close suspension %d: %w", active.ID, err)
		}
		log.Ctx(ctx).Info().
			Int64("suspension_id", active.ID).
			Int64("player_id", playerID).
			Msg("Suspension closed after card removal")
		return 0, nil
	}

	if _, err := txdb.Queries.UpdateSuspensionProgress(ctx, dbgen.UpdateSuspensionProgressParams{
		GamesToSuspend:         remaining,
		GamesSuspended:         active.GamesSuspended,
		YellowCardsAccumulated: pendingYellows,
		IsActive:               true,
		EndDate:                sql.NullTime{},
		ID:                     active.ID,
	}); err != nil {
		return 0, fmt.Errorf("update suspension %d: %w", active.ID, err)
	}
	// A red card folded into a yellow-accumulation episode changes what the
	// episode is about; eligibility answers carry the reason.
	if active.Reason == ReasonYellowCards && reds > 0 {
		if _, err := txdb.Queries.UpdateSuspensionReason(ctx, dbgen.UpdateSuspensionReasonParams{
			Reason: ReasonRedCard,
			ID:     active.ID,
		}); err != nil {
			return 0, fmt.Errorf("upgrade suspension %d reason: %w", active.ID, err)
		}
		log.Ctx(ctx).Info().
			Int64("suspension_id", active.ID).
			Int64("player_id", playerID).
			Msg("Suspension reason upgraded to red card")
	}
	added := remaining - active.GamesToSuspend
	if added > 0 {
		log.Ctx(ctx).Info().
			Int64("suspension_id", active.ID).
			Int64("player_id", playerID).
			Int64("games_to_suspend", remaining).
			Msg("Suspension adjusted")
		return added, nil
	}
	if active.GamesToSuspend != remaining {
		log.Ctx(ctx).Info().
			Int64("suspension_id", active.ID).
			Int64("player_id", playerID).
			Int64("games_to_suspend", remaining).
			Msg("Suspension adjusted")
	}
	return 0, nil
}
