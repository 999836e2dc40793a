package discipline_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tfarias/rachao/internal/api/authz"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/discipline"
	"github.com/tfarias/rachao/internal/league"
	"github.com/tfarias/rachao/internal/testutil"
)

type trackerFixture struct {
	db        *appdb.DB
	engine    *league.Engine
	tracker   *discipline.Tracker
	organizer *authz.AuthUser
	now       time.Time

	teamA, teamB       int64
	captainA, captainB *authz.AuthUser
	playerID           int64
}

func newTrackerFixture(t *testing.T) *trackerFixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	engine, err := league.NewEngine(database, time.UTC)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	tracker, err := discipline.NewTracker(database, discipline.Policy{
		YellowCardThreshold: 2,
		YellowCardGames:     1,
		RedCardGames:        2,
	})
	if err != nil {
		t.Fatalf("new tracker: %v", err)
	}
	engine.SetFinalizeHook(tracker)

	f := &trackerFixture{
		db:      database,
		engine:  engine,
		tracker: tracker,
		now:     time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
	}
	engine.SetClock(func() time.Time { return f.now })
	tracker.SetClock(func() time.Time { return f.now })

	organizerID := testutil.SeedUser(t, database, "organizer", authz.RoleAdminEventos)
	f.organizer = &authz.AuthUser{ID: organizerID, UserTypeID: authz.RoleAdminEventos}

	captainAID := testutil.SeedUser(t, database, "alice", authz.RoleAdminTimes)
	captainBID := testutil.SeedUser(t, database, "bruna", authz.RoleAdminTimes)
	f.captainA = &authz.AuthUser{ID: captainAID, UserTypeID: authz.RoleAdminTimes}
	f.captainB = &authz.AuthUser{ID: captainBID, UserTypeID: authz.RoleAdminTimes}
	f.teamA = testutil.SeedTeam(t, database, "alice FC", captainAID)
	f.teamB = testutil.SeedTeam(t, database, "bruna FC", captainBID)

	f.playerID = testutil.SeedUser(t, database, "pedro", authz.RoleUsuarioComum)
	testutil.SeedTeamPlayer(t, database, f.teamA, f.playerID)

	return f
}

// startedMatch creates a friendly match with both fixture teams registered
// and moves it to em_andamento.
func (f *trackerFixture) startedMatch(t *testing.T) dbgen.Match {
	t.Helper()
	ctx := context.Background()

	match, err := f.engine.CreateMatch(ctx, league.CreateMatchInput{
		Title:                "Rachão",
		MatchDate:            f.now.Add(48 * time.Hour),
		MaxTeams:             2,
		RegistrationDeadline: f.now.Add(24 * time.Hour),
		OrganizerID:          f.organizer.ID,
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if _, err := f.engine.JoinMatch(ctx, match.ID, f.teamA, f.captainA); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := f.engine.JoinMatch(ctx, match.ID, f.teamB, f.captainB); err != nil {
		t.Fatalf("join B: %v", err)
	}

	f.now = f.now.Add(72 * time.Hour)
	started, err := f.engine.StartMatch(ctx, match.ID, f.organizer)
	if err != nil {
		t.Fatalf("start match: %v", err)
	}
	return started
}

func (f *trackerFixture) recordCard(t *testing.T, matchID int64, cardType string) dbgen.Card {
	t.Helper()
	card, err := f.tracker.RecordCard(context.Background(), discipline.RecordCardInput{
		MatchID:  matchID,
		PlayerID: f.playerID,
		TeamID:   f.teamA,
		CardType: cardType,
		Minute:   30,
	}, f.organizer)
	if err != nil {
		t.Fatalf("record %s card: %v", cardType, err)
	}
	return card
}

func (f *trackerFixture) activeSuspension(t *testing.T) (dbgen.Suspension, bool) {
	t.Helper()
	suspension, err := f.db.Queries.GetActiveSuspension(context.Background(), dbgen.GetActiveSuspensionParams{
		PlayerID:       f.playerID,
		ChampionshipID: sql.NullInt64{},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.Suspension{}, false
		}
		t.Fatalf("load active suspension: %v", err)
	}
	return suspension, true
}

func TestRecordCardValidation(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	match := f.startedMatch(t)

	_, err := f.tracker.RecordCard(ctx, discipline.RecordCardInput{
		MatchID: match.ID, PlayerID: f.playerID, TeamID: f.teamA, CardType: "blue", Minute: 10,
	}, f.organizer)
	var domainErr *league.Error
	if !errors.As(err, &domainErr) || domainErr.Kind != league.KindValidation {
		t.Fatalf("expected validation error for card type, got %v", err)
	}

	_, err = f.tracker.RecordCard(ctx, discipline.RecordCardInput{
		MatchID: match.ID, PlayerID: f.playerID, TeamID: f.teamA, CardType: discipline.CardYellow, Minute: 0,
	}, f.organizer)
	if !errors.As(err, &domainErr) || domainErr.Kind != league.KindValidation {
		t.Fatalf("expected validation error for minute, got %v", err)
	}

	_, err = f.tracker.RecordCard(ctx, discipline.RecordCardInput{
		MatchID: match.ID, PlayerID: f.playerID, TeamID: f.teamA, CardType: discipline.CardYellow, Minute: 10,
	}, f.captainA)
	if !errors.Is(err, league.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for captain, got %v", err)
	}

	unregisteredTeam := testutil.SeedTeam(t, f.db, "avulso", f.captainA.ID)
	_, err = f.tracker.RecordCard(ctx, discipline.RecordCardInput{
		MatchID: match.ID, PlayerID: f.playerID, TeamID: unregisteredTeam, CardType: discipline.CardYellow, Minute: 10,
	}, f.organizer)
	if !errors.Is(err, league.ErrTeamNotRegistered) {
		t.Fatalf("expected ErrTeamNotRegistered, got %v", err)
	}
}

func TestYellowCardsAccumulateIntoSuspension(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	match := f.startedMatch(t)

	f.recordCard(t, match.ID, discipline.CardYellow)
	if _, ok := f.activeSuspension(t); ok {
		t.Fatal("one yellow must not suspend")
	}
	eligibility, err := f.tracker.CheckEligibility(ctx, f.playerID, match.ID)
	if err != nil {
		t.Fatalf("check eligibility: %v", err)
	}
	if !eligibility.Eligible || eligibility.YellowCards != 1 {
		t.Fatalf("after one yellow: eligible=%v yellows=%d", eligibility.Eligible, eligibility.YellowCards)
	}

	f.recordCard(t, match.ID, discipline.CardYellow)
	suspension, ok := f.activeSuspension(t)
	if !ok {
		t.Fatal("two yellows must open a suspension")
	}
	if suspension.Reason != discipline.ReasonYellowCards || suspension.GamesToSuspend != 1 {
		t.Fatalf("suspension = %+v, want yellow_cards for 1 game", suspension)
	}

	eligibility, err = f.tracker.CheckEligibility(ctx, f.playerID, match.ID)
	if err != nil {
		t.Fatalf("check eligibility: %v", err)
	}
	if eligibility.Eligible {
		t.Fatal("suspended player must be ineligible")
	}
	if eligibility.Suspension == nil || eligibility.Reason != discipline.ReasonYellowCards {
		t.Fatalf("eligibility = %+v", eligibility)
	}

	// A third yellow is a strike toward the next episode, not more games.
	f.recordCard(t, match.ID, discipline.CardYellow)
	suspension, _ = f.activeSuspension(t)
	if suspension.GamesToSuspend != 1 || suspension.YellowCardsAccumulated != 1 {
		t.Fatalf("after third yellow: %+v", suspension)
	}

	// A fourth completes another pair and extends the open episode.
	f.recordCard(t, match.ID, discipline.CardYellow)
	suspension, _ = f.activeSuspension(t)
	if suspension.GamesToSuspend != 2 || suspension.YellowCardsAccumulated != 0 {
		t.Fatalf("after fourth yellow: %+v", suspension)
	}
}

func TestRedCardSuspension(t *testing.T) {
	f := newTrackerFixture(t)
	match := f.startedMatch(t)

	f.recordCard(t, match.ID, discipline.CardRed)
	suspension, ok := f.activeSuspension(t)
	if !ok {
		t.Fatal("red card must suspend immediately")
	}
	if suspension.Reason != discipline.ReasonRedCard || suspension.GamesToSuspend != 2 {
		t.Fatalf("suspension = %+v, want red_card for 2 games", suspension)
	}
}

func TestRedCardUpgradesYellowEpisodeReason(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	match := f.startedMatch(t)

	f.recordCard(t, match.ID, discipline.CardYellow)
	f.recordCard(t, match.ID, discipline.CardYellow)
	suspension, ok := f.activeSuspension(t)
	if !ok || suspension.Reason != discipline.ReasonYellowCards {
		t.Fatalf("suspension = %+v, want an open yellow_cards episode", suspension)
	}

	f.recordCard(t, match.ID, discipline.CardRed)
	suspension, ok = f.activeSuspension(t)
	if !ok {
		t.Fatal("expected the episode to stay open")
	}
	if suspension.Reason != discipline.ReasonRedCard {
		t.Fatalf("reason = %s, want %s once a red contributes", suspension.Reason, discipline.ReasonRedCard)
	}
	if suspension.GamesToSuspend != 3 {
		t.Fatalf("games = %d, want 3 (one from yellows, two from the red)", suspension.GamesToSuspend)
	}

	eligibility, err := f.tracker.CheckEligibility(ctx, f.playerID, match.ID)
	if err != nil {
		t.Fatalf("check eligibility: %v", err)
	}
	if eligibility.Reason != discipline.ReasonRedCard {
		t.Fatalf("eligibility reason = %s, want %s", eligibility.Reason, discipline.ReasonRedCard)
	}
}

func TestSuspensionNotifiesPlayer(t *testing.T) {
	f := newTrackerFixture(t)
	sender := testutil.NewCapturingEmailSender()
	f.tracker.SetEmailSender(sender)
	match := f.startedMatch(t)

	// A lone yellow carries no suspension debt, so nothing goes out.
	f.recordCard(t, match.ID, discipline.CardYellow)
	if email, ok := sender.TryReceive(); ok {
		t.Fatalf("unexpected notification to %s", email.Recipient)
	}

	f.recordCard(t, match.ID, discipline.CardRed)
	email := sender.WaitForEmail(t)
	if email.Recipient != "pedro@example.com" {
		t.Fatalf("recipient = %s, want the suspended player", email.Recipient)
	}
	if !strings.Contains(email.Subject, "Suspensão") {
		t.Fatalf("subject = %q, want a suspension notice", email.Subject)
	}
	if !strings.Contains(email.Body, "2 partida") {
		t.Fatalf("body = %q, want the two-game length", email.Body)
	}
}

func TestRemoveCardRollsBackUnservedSuspension(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()
	match := f.startedMatch(t)

	f.recordCard(t, match.ID, discipline.CardYellow)
	card := f.recordCard(t, match.ID, discipline.CardYellow)
	if _, ok := f.activeSuspension(t); !ok {
		t.Fatal("expected suspension before removal")
	}

	if err := f.tracker.RemoveCard(ctx, card.ID, f.organizer); err != nil {
		t.Fatalf("remove card: %v", err)
	}
	if _, ok := f.activeSuspension(t); ok {
		t.Fatal("unserved suspension must be withdrawn with the card")
	}

	eligibility, err := f.tracker.CheckEligibility(ctx, f.playerID, match.ID)
	if err != nil {
		t.Fatalf("check eligibility: %v", err)
	}
	if !eligibility.Eligible || eligibility.YellowCards != 1 {
		t.Fatalf("after rollback: eligible=%v yellows=%d", eligibility.Eligible, eligibility.YellowCards)
	}

	if err := f.tracker.RemoveCard(ctx, 9999, f.organizer); !errors.Is(err, league.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestFinalizationServesSuspensionGames(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	first := f.startedMatch(t)
	f.recordCard(t, first.ID, discipline.CardRed)
	if _, err := f.engine.FinalizeMatch(ctx, first.ID, f.organizer); err != nil {
		t.Fatalf("finalize first match: %v", err)
	}

	suspension, ok := f.activeSuspension(t)
	if !ok {
		t.Fatal("suspension must stay active after one of two games")
	}
	if suspension.GamesSuspended != 1 {
		t.Fatalf("games_suspended = %d, want 1", suspension.GamesSuspended)
	}

	second := f.startedMatch(t)
	if _, err := f.engine.FinalizeMatch(ctx, second.ID, f.organizer); err != nil {
		t.Fatalf("finalize second match: %v", err)
	}
	if _, ok := f.activeSuspension(t); ok {
		t.Fatal("suspension must close after serving both games")
	}

	suspensions, err := f.db.Queries.ListSuspensionsInScope(ctx, dbgen.ListSuspensionsInScopeParams{
		PlayerID:       f.playerID,
		ChampionshipID: sql.NullInt64{},
	})
	if err != nil {
		t.Fatalf("list suspensions: %v", err)
	}
	if len(suspensions) != 1 {
		t.Fatalf("suspension episodes = %d, want 1", len(suspensions))
	}
	closed := suspensions[0]
	if closed.IsActive || closed.GamesSuspended != 2 || !closed.EndDate.Valid {
		t.Fatalf("closed episode = %+v", closed)
	}
}

func TestRemoveCardAfterPartialServeClosesEpisode(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	first := f.startedMatch(t)
	card := f.recordCard(t, first.ID, discipline.CardRed)
	if _, err := f.engine.FinalizeMatch(ctx, first.ID, f.organizer); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	// Removing the card on a finalized match needs admin-master.
	if err := f.tracker.RemoveCard(ctx, card.ID, f.organizer); !errors.Is(err, league.ErrMatchFinalized) {
		t.Fatalf("expected ErrMatchFinalized for organizer, got %v", err)
	}
	adminID := testutil.SeedUser(t, f.db, "root", authz.RoleAdminMaster)
	admin := &authz.AuthUser{ID: adminID, UserTypeID: authz.RoleAdminMaster}
	if err := f.tracker.RemoveCard(ctx, card.ID, admin); err != nil {
		t.Fatalf("admin remove card: %v", err)
	}

	// The served game stands, the unserved one is forgiven.
	if _, ok := f.activeSuspension(t); ok {
		t.Fatal("episode must close once its debt drops to the served count")
	}
	suspensions, err := f.db.Queries.ListSuspensionsInScope(ctx, dbgen.ListSuspensionsInScopeParams{
		PlayerID:       f.playerID,
		ChampionshipID: sql.NullInt64{},
	})
	if err != nil {
		t.Fatalf("list suspensions: %v", err)
	}
	if len(suspensions) != 1 || suspensions[0].GamesSuspended != 1 || suspensions[0].GamesToSuspend != 1 {
		t.Fatalf("suspensions = %+v", suspensions)
	}
}

func TestManualSuspension(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	if _, err := f.tracker.CreateManualSuspension(ctx, f.playerID, sql.NullInt64{}, 3, f.organizer); !errors.Is(err, league.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	adminID := testutil.SeedUser(t, f.db, "root", authz.RoleAdminMaster)
	admin := &authz.AuthUser{ID: adminID, UserTypeID: authz.RoleAdminMaster}

	suspension, err := f.tracker.CreateManualSuspension(ctx, f.playerID, sql.NullInt64{}, 3, admin)
	if err != nil {
		t.Fatalf("manual suspension: %v", err)
	}
	if suspension.Reason != discipline.ReasonManual || suspension.GamesToSuspend != 3 {
		t.Fatalf("suspension = %+v", suspension)
	}

	// A second manual sanction extends the open episode.
	extended, err := f.tracker.CreateManualSuspension(ctx, f.playerID, sql.NullInt64{}, 2, admin)
	if err != nil {
		t.Fatalf("extend manual suspension: %v", err)
	}
	if extended.ID != suspension.ID || extended.GamesToSuspend != 5 {
		t.Fatalf("extended = %+v", extended)
	}
}

func TestChampionshipScopeIsIsolated(t *testing.T) {
	f := newTrackerFixture(t)
	ctx := context.Background()

	result, err := f.db.ExecContext(ctx,
		"INSERT INTO championships (name, organizer_id) VALUES (?, ?)",
		"Copa do Bairro", f.organizer.ID,
	)
	if err != nil {
		t.Fatalf("insert championship: %v", err)
	}
	championshipID, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("championship id: %v", err)
	}

	champMatch, err := f.engine.CreateMatch(ctx, league.CreateMatchInput{
		Title:                "Rodada 1",
		MatchDate:            f.now.Add(48 * time.Hour),
		MaxTeams:             2,
		RegistrationDeadline: f.now.Add(24 * time.Hour),
		OrganizerID:          f.organizer.ID,
		ChampionshipID:       sql.NullInt64{Int64: championshipID, Valid: true},
	})
	if err != nil {
		t.Fatalf("create championship match: %v", err)
	}
	if _, err := f.engine.JoinMatch(ctx, champMatch.ID, f.teamA, f.captainA); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := f.engine.JoinMatch(ctx, champMatch.ID, f.teamB, f.captainB); err != nil {
		t.Fatalf("join B: %v", err)
	}

	card, err := f.tracker.RecordCard(ctx, discipline.RecordCardInput{
		MatchID:  champMatch.ID,
		PlayerID: f.playerID,
		TeamID:   f.teamA,
		CardType: discipline.CardRed,
		Minute:   70,
	}, f.organizer)
	if err != nil {
		t.Fatalf("record championship card: %v", err)
	}
	_ = card

	// Suspended in the championship scope only.
	if _, ok := f.activeSuspension(t); ok {
		t.Fatal("championship card must not suspend in the friendly scope")
	}
	champSuspension, err := f.db.Queries.GetActiveSuspension(ctx, dbgen.GetActiveSuspensionParams{
		PlayerID:       f.playerID,
		ChampionshipID: sql.NullInt64{Int64: championshipID, Valid: true},
	})
	if err != nil {
		t.Fatalf("load championship suspension: %v", err)
	}
	if champSuspension.GamesToSuspend != 2 {
		t.Fatalf("championship suspension = %+v", champSuspension)
	}

	friendly := f.startedMatch(t)
	eligibility, err := f.tracker.CheckEligibility(ctx, f.playerID, friendly.ID)
	if err != nil {
		t.Fatalf("check eligibility: %v", err)
	}
	if !eligibility.Eligible {
		t.Fatal("player must stay eligible for friendlies")
	}
}
