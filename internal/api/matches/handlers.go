// internal/api/matches/handlers.go
package matches

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tfarias/rachao/internal/api/apiutil"
	"github.com/tfarias/rachao/internal/api/authz"
	"github.com/tfarias/rachao/internal/api/htmx"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/discipline"
	"github.com/tfarias/rachao/internal/league"
	"github.com/tfarias/rachao/internal/mvp"
	"github.com/tfarias/rachao/internal/punishment"
)

var (
	queries     *dbgen.Queries
	store       *appdb.DB
	engine      *league.Engine
	tracker     *discipline.Tracker
	workflow    *punishment.Workflow
	tally       *mvp.Tally
	loc         *time.Location
	queriesOnce sync.Once
)

const matchQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, e *league.Engine, t *discipline.Tracker, w *punishment.Workflow, m *mvp.Tally, location *time.Location) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		store = database
		engine = e
		tracker = t
		workflow = w
		tally = m
		loc = location
		if loc == nil {
			loc = time.UTC
		}
	})
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if queries == nil || engine == nil {
		log.Ctx(r.Context()).Error().Msg("Match handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

type createMatchRequest struct {
	Title                string `json:"title"`
	MatchDate            string `json:"matchDate"`
	Location             string `json:"location"`
	MaxTeams             int64  `json:"maxTeams"`
	RegistrationDeadline string `json:"registrationDeadline"`
	ChampionshipID       *int64 `json:"championshipId,omitempty"`
}

type matchStateResponse struct {
	Match           dbgen.Match `json:"match"`
	RegisteredTeams int64       `json:"registeredTeams"`
}

// POST /api/v1/matches
func HandleMatchCreate(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !authz.CanOrganize(user) {
		apiutil.WriteDomainError(w, r, league.ErrForbidden)
		return
	}

	var req createMatchRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	matchDate, err := apiutil.ParseDateField(req.MatchDate, "matchDate", loc)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	deadline, err := apiutil.ParseDateField(req.RegistrationDeadline, "registrationDeadline", loc)
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	input := league.CreateMatchInput{
		Title:                req.Title,
		MatchDate:            matchDate,
		Location:             req.Location,
		MaxTeams:             req.MaxTeams,
		RegistrationDeadline: deadline,
		OrganizerID:          user.ID,
	}
	if req.ChampionshipID != nil {
		input.ChampionshipID = sql.NullInt64{Int64: *req.ChampionshipID, Valid: true}
	}

	match, err := engine.CreateMatch(r.Context(), input)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, match)
}

// GET /api/v1/matches
func HandleMatchList(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	matches, err := engine.ListMatches(ctx)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list matches")
		http.Error(w, "Failed to load matches", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		component := matchListComponent(matches)
		renderHTMLComponent(r.Context(), w, component, "Failed to render match list")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, matches)
}

// GET /api/v1/matches/{id}
func HandleMatchDetail(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	state, err := engine.GetMatchStatus(r.Context(), matchID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	teams, err := queries.ListMatchTeams(r.Context(), matchID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("match_id", matchID).Msg("Failed to list match teams")
		http.Error(w, "Failed to load match", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		component := matchDetailComponent(state.Match, teams)
		renderHTMLComponent(r.Context(), w, component, "Failed to render match detail")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, struct {
		matchStateResponse
		Teams []dbgen.ListMatchTeamsRow `json:"teams"`
	}{
		matchStateResponse{Match: state.Match, RegisteredTeams: state.RegisteredTeams},
		teams,
	})
}

// GET /api/v1/matches/{id}/status
func HandleMatchStatus(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	state, err := engine.GetMatchStatus(r.Context(), matchID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	if htmx.IsRequest(r) {
		component := matchStatusComponent(state.Match, state.RegisteredTeams)
		renderHTMLComponent(r.Context(), w, component, "Failed to render match status")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, matchStateResponse(state))
}

type joinRequest struct {
	TeamID int64 `json:"teamId"`
}

// POST /api/v1/matches/{id}/teams
func HandleMatchJoin(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var req joinRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if req.TeamID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "teamId must be greater than 0")
		return
	}

	registration, err := engine.JoinMatch(r.Context(), matchID, req.TeamID, user)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, registration)
}

// DELETE /api/v1/matches/{id}/teams/{team_id}
func HandleMatchLeave(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	teamID, err := apiutil.PathID(r, "team_id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := engine.LeaveMatch(r.Context(), matchID, teamID, user); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/matches/{id}/start
func HandleMatchStart(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	match, err := engine.StartMatch(r.Context(), matchID, user)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, match)
}

// POST /api/v1/matches/{id}/finalize
func HandleMatchFinalize(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	match, err := engine.FinalizeMatch(r.Context(), matchID, user)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, match)
}

type cardRequest struct {
	PlayerID int64  `json:"playerId"`
	TeamID   int64  `json:"teamId"`
	CardType string `json:"cardType"`
	Minute   int64  `json:"minute"`
}

// POST /api/v1/matches/{id}/cards
func HandleCardCreate(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var req cardRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	card, err := tracker.RecordCard(r.Context(), discipline.RecordCardInput{
		MatchID:  matchID,
		PlayerID: req.PlayerID,
		TeamID:   req.TeamID,
		CardType: strings.ToLower(strings.TrimSpace(req.CardType)),
		Minute:   req.Minute,
	}, user)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, card)
}

// GET /api/v1/matches/{id}/cards
func HandleCardList(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), matchQueryTimeout)
	defer cancel()

	cards, err := queries.ListMatchCards(ctx, matchID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("match_id", matchID).Msg("Failed to list cards")
		http.Error(w, "Failed to load cards", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		component := cardListComponent(cards)
		renderHTMLComponent(r.Context(), w, component, "Failed to render card list")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, cards)
}

// DELETE /api/v1/cards/{id}
func HandleCardDelete(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	cardID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := tracker.RemoveCard(r.Context(), cardID, user); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type punishmentRequest struct {
	TeamID int64  `json:"teamId"`
	Reason string `json:"reason"`
}

// POST /api/v1/matches/{id}/punishments
func HandleMatchPunishment(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var req punishmentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	result, err := workflow.ApplyToMatch(r.Context(), matchID, req.TeamID, req.Reason, user)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, result)
}

// POST /api/v1/championships/{id}/punishments
func HandleChampionshipPunishment(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	championshipID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var req punishmentRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	created, err := workflow.ApplyToChampionship(r.Context(), championshipID, req.TeamID, req.Reason, user)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, created)
}

type voteRequest struct {
	PlayerID int64 `json:"playerId"`
}

// POST /api/v1/matches/{id}/mvp
func HandleMvpVote(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var req voteRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}

	vote, err := tally.Vote(r.Context(), matchID, req.PlayerID, user)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, vote)
}

// GET /api/v1/matches/{id}/mvp
func HandleMvpSummary(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	matchID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	summary, err := tally.Summarize(r.Context(), matchID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}

	if htmx.IsRequest(r) {
		component := mvpSummaryComponent(summary)
		renderHTMLComponent(r.Context(), w, component, "Failed to render MVP summary")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, summary)
}

// GET /api/v1/players/{id}/eligibility?match_id=N
func HandleEligibility(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	playerID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	matchID, err := apiutil.ParsePositiveInt64Field(r.URL.Query().Get("match_id"), "match_id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	eligibility, err := tracker.CheckEligibility(r.Context(), playerID, matchID)
	if err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, eligibility)
}

type recomputeRequest struct {
	ChampionshipID *int64 `json:"championshipId,omitempty"`
}

// POST /api/v1/players/{id}/discipline/recompute
func HandleDisciplineRecompute(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	playerID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	// The body is optional; without it the recompute spans all contexts.
	var req recomputeRequest
	if r.ContentLength > 0 {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
			return
		}
	}
	var championshipID sql.NullInt64
	if req.ChampionshipID != nil {
		championshipID = sql.NullInt64{Int64: *req.ChampionshipID, Valid: true}
	}

	if err := tracker.RecomputePlayer(r.Context(), playerID, championshipID, user); err != nil {
		apiutil.WriteDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
