package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	dbgen "github.com/tfarias/rachao/internal/db/generated"
)

const sendTimeout = 5 * time.Second

// ReportReminder is the nudge sent to an organizer whose match date has
// passed without a final report.
func ReportReminder(match dbgen.Match) (subject, body string) {
	subject = fmt.Sprintf("Súmula pendente: %s", match.Title)
	body = fmt.Sprintf(
		"A partida %q de %s ainda não foi finalizada.\n\nRegistre a súmula para encerrar a partida e contabilizar as suspensões.",
		match.Title,
		match.MatchDate.Format("02/01/2006"),
	)
	return subject, body
}

// CancellationNotice tells a captain a match was cancelled.
func CancellationNotice(match dbgen.Match) (subject, body string) {
	subject = fmt.Sprintf("Partida cancelada: %s", match.Title)
	reason := "inscrições insuficientes"
	if match.CancellationReason.Valid && match.CancellationReason.String != "" {
		reason = match.CancellationReason.String
	}
	body = fmt.Sprintf(
		"A partida %q de %s foi cancelada: %s.",
		match.Title,
		match.MatchDate.Format("02/01/2006"),
		reason,
	)
	return subject, body
}

// ConfirmationNotice tells a captain the match is on.
func ConfirmationNotice(match dbgen.Match) (subject, body string) {
	subject = fmt.Sprintf("Partida confirmada: %s", match.Title)
	body = fmt.Sprintf(
		"A partida %q está confirmada para %s em %s.",
		match.Title,
		match.MatchDate.Format("02/01/2006 15:04"),
		match.Location,
	)
	return subject, body
}

// PunishmentNotice tells a captain their team was sanctioned.
func PunishmentNotice(match dbgen.Match, reason string, walkover bool) (subject, body string) {
	subject = fmt.Sprintf("Punição aplicada: %s", match.Title)
	body = fmt.Sprintf("Sua equipe recebeu uma punição (%s) na partida %q.", reason, match.Title)
	if walkover {
		body += "\n\nA partida foi encerrada por W.O. em favor da equipe adversária."
	}
	return subject, body
}

// SuspensionNotice tells a player they are out for the next games.
func SuspensionNotice(playerName string, games int64) (subject, body string) {
	subject = "Suspensão aplicada"
	body = fmt.Sprintf(
		"%s, você está suspenso pelas próximas %d partida(s) no escopo em que recebeu os cartões.",
		playerName,
		games,
	)
	return subject, body
}

// SendToUser delivers an email to the given user asynchronously. Failures
// are logged, never propagated; notification delivery is best effort.
func SendToUser(ctx context.Context, q *dbgen.Queries, client EmailSender, userID int64, subject, body string, logger *zerolog.Logger) {
	if client == nil || q == nil {
		return
	}
	if subject == "" || body == "" {
		return
	}

	user, err := q.GetUserByID(ctx, userID)
	if err != nil {
		if logger != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user for notification")
		}
		return
	}
	recipient := strings.TrimSpace(user.Email)
	if recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := client.Send(sendCtx, recipient, subject, body); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send notification email")
		}
	}()
}
