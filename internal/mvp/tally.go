package mvp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tfarias/rachao/internal/api/authz"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/league"
)

// Tally runs the post-match MVP vote. One vote per voter per match; a revote
// replaces the previous choice.
type Tally struct {
	db *appdb.DB
}

func NewTally(database *appdb.DB) (*Tally, error) {
	if database == nil {
		return nil, errors.New("mvp tally requires a database")
	}
	return &Tally{db: database}, nil
}

// Vote records or replaces the voter's MVP pick for a finalized match.
func (t *Tally) Vote(ctx context.Context, matchID, playerID int64, voter *authz.AuthUser) (dbgen.MvpVote, error) {
	if voter == nil {
		return dbgen.MvpVote{}, league.ErrForbidden
	}
	if playerID == voter.ID {
		return dbgen.MvpVote{}, league.Validation("voting for yourself is not allowed")
	}

	var vote dbgen.MvpVote
	err := t.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		match, err := txdb.Queries.GetMatch(ctx, matchID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return league.ErrMatchNotFound
			}
			return fmt.Errorf("load match %d: %w", matchID, err)
		}
		if match.Status != league.StatusFinal {
			return league.ErrMatchNotReady
		}

		vote, err = txdb.Queries.UpsertMvpVote(ctx, dbgen.UpsertMvpVoteParams{
			MatchID:  matchID,
			PlayerID: playerID,
			VoterID:  voter.ID,
		})
		if err != nil {
			if appdb.IsForeignKeyViolation(err) {
				return league.Validation("player %d not found", playerID)
			}
			return fmt.Errorf("record mvp vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return dbgen.MvpVote{}, err
	}

	log.Ctx(ctx).Info().
		Int64("match_id", matchID).
		Int64("player_id", playerID).
		Int64("voter_id", voter.ID).
		Msg("MVP vote recorded")
	return vote, nil
}

// Leader is a player with an MVP vote count.
type Leader struct {
	PlayerID int64 `json:"playerId"`
	Votes    int64 `json:"votes"`
}

// Summary is the MVP standing of a match. Leader is nil until one player
// holds strictly more votes than every other.
type Summary struct {
	MatchID    int64    `json:"matchId"`
	TotalVotes int64    `json:"totalVotes"`
	Leader     *Leader  `json:"leader,omitempty"`
	Standings  []Leader `json:"standings"`
}

// Summarize tallies the votes for a match.
func (t *Tally) Summarize(ctx context.Context, matchID int64) (Summary, error) {
	if _, err := t.db.Queries.GetMatch(ctx, matchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Summary{}, league.ErrMatchNotFound
		}
		return Summary{}, fmt.Errorf("load match %d: %w", matchID, err)
	}

	totals, err := t.db.Queries.ListMvpTotals(ctx, matchID)
	if err != nil {
		return Summary{}, fmt.Errorf("list mvp totals: %w", err)
	}

	summary := Summary{
		MatchID:   matchID,
		Standings: make([]Leader, 0, len(totals)),
	}
	for _, row := range totals {
		summary.TotalVotes += row.Votes
		summary.Standings = append(summary.Standings, Leader{PlayerID: row.PlayerID, Votes: row.Votes})
	}
	if len(totals) > 0 && (len(totals) == 1 || totals[0].Votes > totals[1].Votes) {
		summary.Leader = &Leader{PlayerID: totals[0].PlayerID, Votes: totals[0].Votes}
	}
	return summary, nil
}
