package matches

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/mvp"
)

var statusLabels = map[string]string{
	"aberta":       "Aberta",
	"sem_vagas":    "Sem vagas",
	"confirmada":   "Confirmada",
	"em_andamento": "Em andamento",
	"cancelada":    "Cancelada",
	"finalizada":   "Finalizada",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func buildMatchCardHTML(match dbgen.Match) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="rounded-lg border bg-white p-4 shadow-sm" id="match-%d">`, match.ID))
	sb.WriteString(fmt.Sprintf(`<div class="flex items-center justify-between"><h2 class="text-lg font-semibold text-gray-900">%s</h2>`, html.EscapeString(match.Title)))
	sb.WriteString(fmt.Sprintf(`<span class="rounded-full bg-gray-100 px-3 py-1 text-sm text-gray-700" data-status="%s">%s</span></div>`, match.Status, statusLabel(match.Status)))
	sb.WriteString(fmt.Sprintf(`<p class="mt-1 text-sm text-gray-600">%s</p>`, html.EscapeString(match.Location)))
	sb.WriteString(fmt.Sprintf(`<p class="mt-1 text-sm text-gray-600">Data: %s</p>`, match.MatchDate.Format("02/01/2006 15:04")))
	sb.WriteString(fmt.Sprintf(`<p class="text-sm text-gray-600">Inscrições até: %s</p>`, match.RegistrationDeadline.Format("02/01/2006")))
	if match.CancellationReason.Valid {
		sb.WriteString(fmt.Sprintf(`<p class="mt-1 text-sm text-red-600">%s</p>`, html.EscapeString(match.CancellationReason.String)))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func buildMatchListHTML(matches []dbgen.Match) string {
	if len(matches) == 0 {
		return `<div class="py-8 text-center text-gray-500"><p>Nenhuma partida encontrada</p></div>`
	}
	var sb strings.Builder
	sb.WriteString(`<div class="space-y-4" id="match-list">`)
	for _, match := range matches {
		sb.WriteString(buildMatchCardHTML(match))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func buildTeamListHTML(teams []dbgen.ListMatchTeamsRow) string {
	if len(teams) == 0 {
		return `<p class="text-sm text-gray-500">Nenhuma equipe inscrita</p>`
	}
	var sb strings.Builder
	sb.WriteString(`<ul class="mt-2 space-y-1">`)
	for _, team := range teams {
		sb.WriteString(fmt.Sprintf(`<li class="text-sm text-gray-700" data-team-id="%d">%s</li>`, team.TeamID, html.EscapeString(team.TeamName)))
	}
	sb.WriteString(`</ul>`)
	return sb.String()
}

func matchListComponent(matches []dbgen.Match) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildMatchListHTML(matches))
		return err
	})
}

func matchDetailComponent(match dbgen.Match, teams []dbgen.ListMatchTeamsRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, buildMatchCardHTML(match)); err != nil {
			return err
		}
		_, err := io.WriteString(w, buildTeamListHTML(teams))
		return err
	})
}

func matchStatusComponent(match dbgen.Match, registeredTeams int64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, fmt.Sprintf(
			`<span class="rounded-full bg-gray-100 px-3 py-1 text-sm text-gray-700" data-status="%s">%s (%d/%d equipes)</span>`,
			match.Status, statusLabel(match.Status), registeredTeams, match.MaxTeams))
		return err
	})
}

func cardListComponent(cards []dbgen.Card) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(cards) == 0 {
			_, err := io.WriteString(w, `<p class="text-sm text-gray-500">Nenhum cartão registrado</p>`)
			return err
		}
		if _, err := io.WriteString(w, `<ul class="space-y-1" id="card-list">`); err != nil {
			return err
		}
		for _, card := range cards {
			color := "text-yellow-600"
			if card.CardType == "red" {
				color = "text-red-600"
			}
			entry := fmt.Sprintf(`<li class="text-sm %s" data-card-id="%d">%d' jogador %d</li>`, color, card.ID, card.Minute, card.PlayerID)
			if _, err := io.WriteString(w, entry); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}

func mvpSummaryComponent(summary mvp.Summary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if summary.Leader == nil {
			_, err := io.WriteString(w, `<p class="text-sm text-gray-500">Sem craque definido</p>`)
			return err
		}
		_, err := io.WriteString(w, fmt.Sprintf(
			`<p class="text-sm font-semibold text-gray-900">Craque da partida: jogador %d (%d votos)</p>`,
			summary.Leader.PlayerID, summary.Leader.Votes))
		return err
	})
}

func renderHTMLComponent(ctx context.Context, w http.ResponseWriter, component templ.Component, errMsg string) bool {
	logger := log.Ctx(ctx)
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		logger.Error().Err(err).Msg(errMsg)
		http.Error(w, errMsg, http.StatusInternalServerError)
		return false
	}
	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
		return false
	}
	return true
}
