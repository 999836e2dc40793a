package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tfarias/rachao/internal/db"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// SeedUser inserts a user with the given role and returns its id.
func SeedUser(t *testing.T, database *db.DB, name string, userTypeID int64) int64 {
	t.Helper()

	result, err := database.ExecContext(context.Background(),
		"INSERT INTO users (name, email, password_hash, user_type_id) VALUES (?, ?, ?, ?)",
		name,
		name+"@example.com",
		"x",
		userTypeID,
	)
	if err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	return id
}

// SeedTeam inserts a team captained by captainID and returns its id.
func SeedTeam(t *testing.T, database *db.DB, name string, captainID int64) int64 {
	t.Helper()

	result, err := database.ExecContext(context.Background(),
		"INSERT INTO teams (name, captain_id) VALUES (?, ?)",
		name,
		captainID,
	)
	if err != nil {
		t.Fatalf("insert team %s: %v", name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("team id: %v", err)
	}
	return id
}

// SeedTeamPlayer adds a player to a team's roster.
func SeedTeamPlayer(t *testing.T, database *db.DB, teamID, playerID int64) {
	t.Helper()

	_, err := database.ExecContext(context.Background(),
		"INSERT INTO team_players (team_id, player_id) VALUES (?, ?)",
		teamID,
		playerID,
	)
	if err != nil {
		t.Fatalf("insert team player: %v", err)
	}
}
