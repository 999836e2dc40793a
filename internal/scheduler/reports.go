package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tfarias/rachao/internal/api/auth"
	"github.com/tfarias/rachao/internal/db"
	"github.com/tfarias/rachao/internal/notify"
)

const reportJobTimeout = 2 * time.Minute

// RegisterReportReminderJob nags organizers whose matches are past their
// date but still awaiting a final report. Deadline-driven status changes are
// NOT handled here; they happen lazily on read.
func RegisterReportReminderJob(database *db.DB, emailClient notify.EmailSender, cronExpr string) error {
	if database == nil {
		return fmt.Errorf("report reminder job requires database")
	}

	jobName := "match_report_reminders"
	jobLogger := log.With().
		Str("component", "match_report_reminders_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reportJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if emailClient == nil {
			jobLogger.Debug().Msg("Report reminder job skipped: email client not configured")
			return
		}

		matches, err := database.Queries.ListMatchesAwaitingReport(ctx, time.Now().UTC())
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load matches awaiting report")
			return
		}

		for _, match := range matches {
			matchLogger := jobLogger.With().Int64("match_id", match.ID).Logger()
			subject, body := notify.ReportReminder(match)
			notify.SendToUser(ctx, database.Queries, emailClient, match.OrganizerID, subject, body, &matchLogger)
		}
		if len(matches) > 0 {
			jobLogger.Info().Int("matches", len(matches)).Msg("Report reminders dispatched")
		}
	})
	return err
}

// RegisterSessionCleanupJob prunes expired auth sessions.
func RegisterSessionCleanupJob(cronExpr string) error {
	jobName := "auth_session_cleanup"
	jobLogger := log.With().
		Str("component", "auth_session_cleanup_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		pruned, err := auth.PruneExpiredSessions(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to prune expired sessions")
			return
		}
		if pruned > 0 {
			jobLogger.Info().Int64("pruned", pruned).Msg("Expired sessions removed")
		}
	})
	return err
}
