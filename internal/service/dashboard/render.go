package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	cardWidth   = 34
	cardsPerRow = 3
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorGain    = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorLoss    = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F5F"}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(cardWidth)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	dimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	priceStyle = lipgloss.NewStyle().Bold(true)
	gainStyle  = lipgloss.NewStyle().Foreground(colorGain)
	lossStyle  = lipgloss.NewStyle().Foreground(colorLoss)
)

// Render lays the widget cards out in rows for a terminal.
func Render(views []WidgetView) string {
	cards := make([]string, 0, len(views))
	for _, v := range views {
		cards = append(cards, renderCard(v))
	}

	rows := make([]string, 0, len(cards)/cardsPerRow+1)
	for i := 0; i < len(cards); i += cardsPerRow {
		end := min(i+cardsPerRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(v WidgetView) string {
	lines := []string{titleStyle.Render(v.Title)}

	switch v.Status {
	case WidgetStatusLoading:
		lines = append(lines, dimStyle.Render("Loading..."))
	case WidgetStatusUnavailable:
		lines = append(lines, dimStyle.Render("Unavailable"))
	case WidgetStatusEmpty:
		lines = append(lines, dimStyle.Render("No articles found"))
	default:
		lines = append(lines, renderBody(v)...)
	}

	if v.UpdatedAt.Valid {
		lines = append(lines, dimStyle.Render("Updated "+v.UpdatedAt.Time.Local().Format("15:04:05")))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderBody(v WidgetView) []string {
	var lines []string

	switch {
	case v.Market != nil:
		changeStyle := gainStyle
		if !v.Market.Positive {
			changeStyle = lossStyle
		}
		lines = append(lines,
			priceStyle.Render(v.Market.Price),
			changeStyle.Render(v.Market.Change+" "+v.Market.ChangePercent),
			dimStyle.Render(v.Market.Label),
		)
	case v.Clock != "":
		lines = append(lines, priceStyle.Render(v.Clock), dimStyle.Render(v.Date))
	case len(v.Articles) > 0:
		for _, a := range v.Articles {
			lines = append(lines, "• "+a.Title, dimStyle.Render("  "+a.Source))
		}
	case len(v.Bookmarks) > 0:
		for _, b := range v.Bookmarks {
			lines = append(lines, fmt.Sprintf("%s %s", b.Name, dimStyle.Render(b.URL)))
		}
	}

	return lines
}
