// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tfarias/rachao/internal/api"
	"github.com/tfarias/rachao/internal/api/auth"
	"github.com/tfarias/rachao/internal/api/matches"
	"github.com/tfarias/rachao/internal/api/teams"
	"github.com/tfarias/rachao/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	// Last middleware listed wraps outermost, so the request ID exists
	// before logging and auth run.
	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
	)

	registerRoutes(router)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /api/v1/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.HandleLogout)
	mux.HandleFunc("POST /api/v1/auth/register", auth.HandleRegister)

	// Matches
	mux.HandleFunc("POST /api/v1/matches", matches.HandleMatchCreate)
	mux.HandleFunc("GET /api/v1/matches", matches.HandleMatchList)
	mux.HandleFunc("GET /api/v1/matches/{id}", matches.HandleMatchDetail)
	mux.HandleFunc("GET /api/v1/matches/{id}/status", matches.HandleMatchStatus)
	mux.HandleFunc("POST /api/v1/matches/{id}/teams", matches.HandleMatchJoin)
	mux.HandleFunc("DELETE /api/v1/matches/{id}/teams/{team_id}", matches.HandleMatchLeave)
	mux.HandleFunc("POST /api/v1/matches/{id}/start", matches.HandleMatchStart)
	mux.HandleFunc("POST /api/v1/matches/{id}/finalize", matches.HandleMatchFinalize)

	// Discipline
	mux.HandleFunc("POST /api/v1/matches/{id}/cards", matches.HandleCardCreate)
	mux.HandleFunc("GET /api/v1/matches/{id}/cards", matches.HandleCardList)
	mux.HandleFunc("DELETE /api/v1/cards/{id}", matches.HandleCardDelete)
	mux.HandleFunc("GET /api/v1/players/{id}/eligibility", matches.HandleEligibility)
	mux.HandleFunc("POST /api/v1/players/{id}/discipline/recompute", matches.HandleDisciplineRecompute)

	// Punishments
	mux.HandleFunc("POST /api/v1/matches/{id}/punishments", matches.HandleMatchPunishment)
	mux.HandleFunc("POST /api/v1/championships/{id}/punishments", matches.HandleChampionshipPunishment)

	// MVP voting
	mux.HandleFunc("POST /api/v1/matches/{id}/mvp", matches.HandleMvpVote)
	mux.HandleFunc("GET /api/v1/matches/{id}/mvp", matches.HandleMvpSummary)

	// Teams and championships
	mux.HandleFunc("POST /api/v1/teams", teams.HandleTeamCreate)
	mux.HandleFunc("GET /api/v1/teams/{id}", teams.HandleTeamDetail)
	mux.HandleFunc("POST /api/v1/teams/{id}/players", teams.HandleRosterAdd)
	mux.HandleFunc("DELETE /api/v1/teams/{id}/players/{player_id}", teams.HandleRosterRemove)
	mux.HandleFunc("POST /api/v1/championships", teams.HandleChampionshipCreate)
}
