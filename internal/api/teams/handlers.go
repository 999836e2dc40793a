// internal/api/teams/handlers.go
package teams

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tfarias/rachao/internal/api/apiutil"
	"github.com/tfarias/rachao/internal/api/authz"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/league"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
	})
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if queries == nil {
		log.Ctx(r.Context()).Error().Msg("Team handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

type createTeamRequest struct {
	Name string `json:"name"`
}

// POST /api/v1/teams
func HandleTeamCreate(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createTeamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "name is required")
		return
	}

	team, err := queries.CreateTeam(r.Context(), dbgen.CreateTeamParams{
		Name:      req.Name,
		CaptainID: user.ID,
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to create team")
		http.Error(w, "Failed to create team", http.StatusInternalServerError)
		return
	}

	log.Ctx(r.Context()).Info().Int64("team_id", team.ID).Int64("captain_id", user.ID).Msg("Team created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, team)
}

// GET /api/v1/teams/{id}
func HandleTeamDetail(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	teamID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	team, err := queries.GetTeam(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteDomainError(w, r, league.ErrTeamNotFound)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}

	players, err := queries.ListTeamPlayers(r.Context(), teamID)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to list team players")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, struct {
		dbgen.Team
		Players []dbgen.TeamPlayer `json:"players"`
	}{team, players})
}

type rosterRequest struct {
	PlayerID int64 `json:"playerId"`
}

// POST /api/v1/teams/{id}/players
func HandleRosterAdd(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	teamID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	var req rosterRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	if req.PlayerID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "playerId must be greater than 0")
		return
	}

	team, err := queries.GetTeam(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteDomainError(w, r, league.ErrTeamNotFound)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}
	if !authz.CanManageTeam(user, team.CaptainID) {
		apiutil.WriteDomainError(w, r, league.ErrForbidden)
		return
	}

	player, err := queries.AddTeamPlayer(r.Context(), dbgen.AddTeamPlayerParams{
		TeamID:   teamID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		if appdb.IsUniqueViolation(err) {
			apiutil.WriteError(w, http.StatusConflict, "ALREADY_ON_ROSTER", "player is already on this team")
			return
		}
		if appdb.IsForeignKeyViolation(err) {
			apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "player not found")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to add player")
		http.Error(w, "Failed to add player", http.StatusInternalServerError)
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusCreated, player)
}

// DELETE /api/v1/teams/{id}/players/{player_id}
func HandleRosterRemove(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	teamID, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	playerID, err := apiutil.PathID(r, "player_id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	team, err := queries.GetTeam(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteDomainError(w, r, league.ErrTeamNotFound)
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to load team")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}
	if !authz.CanManageTeam(user, team.CaptainID) {
		apiutil.WriteDomainError(w, r, league.ErrForbidden)
		return
	}

	removed, err := queries.RemoveTeamPlayer(r.Context(), dbgen.RemoveTeamPlayerParams{
		TeamID:   teamID,
		PlayerID: playerID,
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("team_id", teamID).Msg("Failed to remove player")
		http.Error(w, "Failed to remove player", http.StatusInternalServerError)
		return
	}
	if removed == 0 {
		apiutil.WriteError(w, http.StatusNotFound, "NOT_ON_ROSTER", "player is not on this team")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createChampionshipRequest struct {
	Name string `json:"name"`
}

// POST /api/v1/championships
func HandleChampionshipCreate(w http.ResponseWriter, r *http.Request) {
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

	var req createChampionshipRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "name is required")
		return
	}

	championship, err := queries.CreateChampionship(r.Context(), dbgen.CreateChampionshipParams{
		Name:        req.Name,
		OrganizerID: user.ID,
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to create championship")
		http.Error(w, "Failed to create championship", http.StatusInternalServerError)
		return
	}

	log.Ctx(r.Context()).Info().Int64("championship_id", championship.ID).Msg("Championship created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, championship)
}
