package matches

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tfarias/rachao/internal/api/authz"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/discipline"
	"github.com/tfarias/rachao/internal/league"
	"github.com/tfarias/rachao/internal/mvp"
	"github.com/tfarias/rachao/internal/punishment"
	"github.com/tfarias/rachao/internal/testutil"
)

// handlerFixture rebinds the package-level handles directly so each test gets
// a fresh database despite the sync.Once in InitHandlers. Tests here must not
// run in parallel.
type handlerFixture struct {
	db        *appdb.DB
	mux       *http.ServeMux
	organizer *authz.AuthUser
	now       time.Time
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	database := testutil.NewTestDB(t)

	e, err := league.NewEngine(database, time.UTC)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	tr, err := discipline.NewTracker(database, discipline.Policy{
		YellowCardThreshold: 2,
		YellowCardGames:     1,
		RedCardGames:        2,
	})
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	wf, err := punishment.NewWorkflow(database, time.UTC)
	if err != nil {
		t.Fatalf("NewWorkflow: %v", err)
	}
	ta, err := mvp.NewTally(database)
	if err != nil {
		t.Fatalf("NewTally: %v", err)
	}
	e.SetFinalizeHook(tr)
	wf.SetFinalizeHook(tr)

	f := &handlerFixture{
		db:  database,
		now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	e.SetClock(func() time.Time { return f.now })
	tr.SetClock(func() time.Time { return f.now })
	wf.SetClock(func() time.Time { return f.now })

	queries = database.Queries
	store = database
	engine = e
	tracker = tr
	workflow = wf
	tally = ta
	loc = time.UTC

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/matches", HandleMatchCreate)
	mux.HandleFunc("GET /api/v1/matches", HandleMatchList)
	mux.HandleFunc("GET /api/v1/matches/{id}", HandleMatchDetail)
	mux.HandleFunc("GET /api/v1/matches/{id}/status", HandleMatchStatus)
	mux.HandleFunc("POST /api/v1/matches/{id}/teams", HandleMatchJoin)
	mux.HandleFunc("DELETE /api/v1/matches/{id}/teams/{team_id}", HandleMatchLeave)
	mux.HandleFunc("POST /api/v1/matches/{id}/start", HandleMatchStart)
	mux.HandleFunc("POST /api/v1/matches/{id}/finalize", HandleMatchFinalize)
	mux.HandleFunc("POST /api/v1/matches/{id}/cards", HandleCardCreate)
	mux.HandleFunc("GET /api/v1/matches/{id}/cards", HandleCardList)
	mux.HandleFunc("POST /api/v1/matches/{id}/mvp", HandleMvpVote)
	mux.HandleFunc("GET /api/v1/matches/{id}/mvp", HandleMvpSummary)
	mux.HandleFunc("GET /api/v1/players/{id}/eligibility", HandleEligibility)
	mux.HandleFunc("POST /api/v1/players/{id}/discipline/recompute", HandleDisciplineRecompute)
	f.mux = mux

	organizerID := testutil.SeedUser(t, database, "organizador", authz.RoleAdminEventos)
	f.organizer = &authz.AuthUser{ID: organizerID, Name: "organizador", UserTypeID: authz.RoleAdminEventos}
	return f
}

func (f *handlerFixture) do(t *testing.T, user *authz.AuthUser, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		r = r.WithContext(authz.ContextWithUser(r.Context(), user))
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	return w
}

func (f *handlerFixture) captain(t *testing.T, name string) (*authz.AuthUser, int64) {
	t.Helper()
	userID := testutil.SeedUser(t, f.db, name, authz.RoleUsuarioComum)
	teamID := testutil.SeedTeam(t, f.db, "time-"+name, userID)
	testutil.SeedTeamPlayer(t, f.db, teamID, userID)
	return &authz.AuthUser{ID: userID, Name: name, UserTypeID: authz.RoleUsuarioComum}, teamID
}

func (f *handlerFixture) createMatch(t *testing.T, maxTeams int) dbgen.Match {
	t.Helper()
	body := fmt.Sprintf(`{
		"title": "Rachao de sabado",
		"matchDate": "2026-03-11T16:00",
		"location": "Campo do bairro",
		"maxTeams": %d,
		"registrationDeadline": "2026-03-10"
	}`, maxTeams)
	w := f.do(t, f.organizer, http.MethodPost, "/api/v1/matches", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create match status = %d, body %s", w.Code, w.Body.String())
	}
	var match dbgen.Match
	if err := json.Unmarshal(w.Body.Bytes(), &match); err != nil {
		t.Fatalf("decode match: %v", err)
	}
	return match
}

func TestMatchCreateAuthorization(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.do(t, nil, http.MethodPost, "/api/v1/matches", `{"title": "x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", w.Code)
	}

	comum, _ := f.captain(t, "comum")
	w = f.do(t, comum, http.MethodPost, "/api/v1/matches", `{"title": "x"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("usuario_comum status = %d, want 403", w.Code)
	}
}

func TestMatchRegistrationOverHTTP(t *testing.T) {
	f := newHandlerFixture(t)
	match := f.createMatch(t, 2)
	alice, aliceTeam := f.captain(t, "alice")
	bob, bobTeam := f.captain(t, "bob")
	carol, carolTeam := f.captain(t, "carol")

	base := fmt.Sprintf("/api/v1/matches/%d", match.ID)

	w := f.do(t, alice, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, aliceTeam))
	if w.Code != http.StatusCreated {
		t.Fatalf("join status = %d, body %s", w.Code, w.Body.String())
	}

	// A captain cannot register someone else's team.
	w = f.do(t, alice, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, bobTeam))
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign team join status = %d, want 403", w.Code)
	}

	w = f.do(t, bob, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, bobTeam))
	if w.Code != http.StatusCreated {
		t.Fatalf("second join status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, nil, http.MethodGet, base+"/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", w.Code)
	}
	var state matchStateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Match.Status != league.StatusFull || state.RegisteredTeams != 2 {
		t.Fatalf("expected sem_vagas with 2 teams, got %s with %d", state.Match.Status, state.RegisteredTeams)
	}

	w = f.do(t, carol, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, carolTeam))
	if w.Code != http.StatusConflict {
		t.Fatalf("join on full match status = %d, want 409", w.Code)
	}

	w = f.do(t, bob, http.MethodDelete, fmt.Sprintf("%s/teams/%d", base, bobTeam), "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("leave status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, nil, http.MethodGet, base+"/status", "")
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Match.Status != league.StatusOpen || state.RegisteredTeams != 1 {
		t.Fatalf("expected aberta with 1 team, got %s with %d", state.Match.Status, state.RegisteredTeams)
	}
}

func TestMatchDayFlowOverHTTP(t *testing.T) {
	f := newHandlerFixture(t)
	match := f.createMatch(t, 4)
	alice, aliceTeam := f.captain(t, "alice")
	bob, bobTeam := f.captain(t, "bob")

	base := fmt.Sprintf("/api/v1/matches/%d", match.ID)
	f.do(t, alice, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, aliceTeam))
	f.do(t, bob, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, bobTeam))

	// Past the registration deadline the match confirms and can start.
	f.now = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

	w := f.do(t, alice, http.MethodPost, base+"/start", "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("captain start status = %d, want 403", w.Code)
	}
	w = f.do(t, f.organizer, http.MethodPost, base+"/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d, body %s", w.Code, w.Body.String())
	}

	// Cards during the match.
	cardBody := fmt.Sprintf(`{"playerId": %d, "teamId": %d, "cardType": "yellow", "minute": 30}`, alice.ID, aliceTeam)
	w = f.do(t, f.organizer, http.MethodPost, base+"/cards", cardBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("card status = %d, body %s", w.Code, w.Body.String())
	}
	w = f.do(t, nil, http.MethodGet, base+"/cards", "")
	if w.Code != http.StatusOK {
		t.Fatalf("card list status = %d", w.Code)
	}
	var cards []dbgen.Card
	if err := json.Unmarshal(w.Body.Bytes(), &cards); err != nil {
		t.Fatalf("decode cards: %v", err)
	}
	if len(cards) != 1 || cards[0].CardType != discipline.CardYellow {
		t.Fatalf("unexpected cards %+v", cards)
	}

	// MVP voting only opens after finalization.
	voteBody := fmt.Sprintf(`{"playerId": %d}`, alice.ID)
	w = f.do(t, bob, http.MethodPost, base+"/mvp", voteBody)
	if w.Code != http.StatusPreconditionFailed {
		t.Fatalf("early vote status = %d, want 412", w.Code)
	}

	w = f.do(t, f.organizer, http.MethodPost, base+"/finalize", "")
	if w.Code != http.StatusOK {
		t.Fatalf("finalize status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, bob, http.MethodPost, base+"/mvp", voteBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("vote status = %d, body %s", w.Code, w.Body.String())
	}
	w = f.do(t, nil, http.MethodGet, base+"/mvp", "")
	if w.Code != http.StatusOK {
		t.Fatalf("mvp summary status = %d", w.Code)
	}
	var summary mvp.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalVotes != 1 || summary.Leader == nil || summary.Leader.PlayerID != alice.ID {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestEligibilityEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	match := f.createMatch(t, 4)
	alice, aliceTeam := f.captain(t, "alice")
	bob, bobTeam := f.captain(t, "bob")

	base := fmt.Sprintf("/api/v1/matches/%d", match.ID)
	f.do(t, alice, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, aliceTeam))
	f.do(t, bob, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, bobTeam))

	f.now = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	f.do(t, f.organizer, http.MethodPost, base+"/start", "")

	cardBody := fmt.Sprintf(`{"playerId": %d, "teamId": %d, "cardType": "red", "minute": 77}`, alice.ID, aliceTeam)
	w := f.do(t, f.organizer, http.MethodPost, base+"/cards", cardBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("card status = %d, body %s", w.Code, w.Body.String())
	}

	w = f.do(t, nil, http.MethodGet, fmt.Sprintf("/api/v1/players/%d/eligibility?match_id=%d", alice.ID, match.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("eligibility status = %d, body %s", w.Code, w.Body.String())
	}
	var elig discipline.Eligibility
	if err := json.Unmarshal(w.Body.Bytes(), &elig); err != nil {
		t.Fatalf("decode eligibility: %v", err)
	}
	if elig.Eligible {
		t.Fatalf("expected red-carded player to be suspended, got %+v", elig)
	}
}

func TestDisciplineRecomputeEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	match := f.createMatch(t, 4)
	alice, aliceTeam := f.captain(t, "alice")
	bob, bobTeam := f.captain(t, "bob")

	base := fmt.Sprintf("/api/v1/matches/%d", match.ID)
	f.do(t, alice, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, aliceTeam))
	f.do(t, bob, http.MethodPost, base+"/teams", fmt.Sprintf(`{"teamId": %d}`, bobTeam))

	f.now = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	f.do(t, f.organizer, http.MethodPost, base+"/start", "")

	cardBody := fmt.Sprintf(`{"playerId": %d, "teamId": %d, "cardType": "red", "minute": 12}`, alice.ID, aliceTeam)
	if w := f.do(t, f.organizer, http.MethodPost, base+"/cards", cardBody); w.Code != http.StatusCreated {
		t.Fatalf("card status = %d, body %s", w.Code, w.Body.String())
	}

	// The ledger drifts: the card row vanishes without going through the
	// tracker, leaving the suspension orphaned.
	if _, err := f.db.ExecContext(context.Background(), "DELETE FROM cards WHERE player_id = ?", alice.ID); err != nil {
		t.Fatalf("delete card row: %v", err)
	}

	recomputePath := fmt.Sprintf("/api/v1/players/%d/discipline/recompute", alice.ID)
	if w := f.do(t, nil, http.MethodPost, recomputePath, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous recompute status = %d", w.Code)
	}
	if w := f.do(t, f.organizer, http.MethodPost, recomputePath, ""); w.Code != http.StatusForbidden {
		t.Fatalf("organizer recompute status = %d, body %s", w.Code, w.Body.String())
	}

	adminID := testutil.SeedUser(t, f.db, "root", authz.RoleAdminMaster)
	admin := &authz.AuthUser{ID: adminID, Name: "root", UserTypeID: authz.RoleAdminMaster}
	if w := f.do(t, admin, http.MethodPost, recomputePath, ""); w.Code != http.StatusNoContent {
		t.Fatalf("admin recompute status = %d, body %s", w.Code, w.Body.String())
	}

	w := f.do(t, nil, http.MethodGet, fmt.Sprintf("/api/v1/players/%d/eligibility?match_id=%d", alice.ID, match.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("eligibility status = %d, body %s", w.Code, w.Body.String())
	}
	var elig discipline.Eligibility
	if err := json.Unmarshal(w.Body.Bytes(), &elig); err != nil {
		t.Fatalf("decode eligibility: %v", err)
	}
	if !elig.Eligible {
		t.Fatalf("expected recompute to withdraw the orphaned suspension, got %+v", elig)
	}
}

func TestMatchListHTMX(t *testing.T) {
	f := newHandlerFixture(t)
	f.createMatch(t, 4)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	r.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("htmx list status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Rachao de sabado") || !strings.Contains(body, "Aberta") {
		t.Fatalf("unexpected htmx body: %s", body)
	}
}
